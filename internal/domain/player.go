package domain

import (
	"time"

	"golang.org/x/exp/slices"
)

// Playback is the room's now-playing record.
type Playback struct {
	Video              Video   `json:"video"`
	IsPlaying          bool    `json:"is_playing"`
	StartedAtTimestamp int64   `json:"started_at_timestamp"`
	SeekTime           float64 `json:"seek_time"`
}

// PlaybackPatch carries the fields a member may change; nil means untouched.
type PlaybackPatch struct {
	IsPlaying *bool    `json:"is_playing,omitempty"`
	SeekTime  *float64 `json:"seek_time,omitempty"`
}

func (p PlaybackPatch) IsEmpty() bool {
	return p.IsPlaying == nil && p.SeekTime == nil
}

func NewPlayback(video Video, now time.Time) *Playback {
	return &Playback{
		Video:              video,
		IsPlaying:          true,
		StartedAtTimestamp: now.UnixMilli(),
		SeekTime:           0,
	}
}

// apply merges the patch. Any accepted change restamps StartedAtTimestamp,
// since that is the moment the state was last set by the server.
func (p *Playback) apply(patch PlaybackPatch, now time.Time) {
	if patch.IsEmpty() {
		return
	}

	if patch.IsPlaying != nil {
		p.IsPlaying = *patch.IsPlaying
	}

	if patch.SeekTime != nil {
		p.SeekTime = *patch.SeekTime
	}

	p.StartedAtTimestamp = now.UnixMilli()
}

func (p Playback) clone() *Playback {
	p.Video.Votes = slices.Clone(p.Video.Votes)
	return &p
}
