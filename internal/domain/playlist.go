package domain

import (
	"errors"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

var ErrVideoNotFound = errors.New("video not found")

// VideoData is a queue entry as handed over by the persistence layer.
type VideoData struct {
	ID              string `json:"id"`
	ExternalID      string `json:"external_id"`
	Title           string `json:"title"`
	DurationSeconds int    `json:"duration_seconds"`
	AddedBy         string `json:"added_by"`
}

// Video is the snapshot form of a queue entry, votes expanded into a list.
type Video struct {
	VideoData
	Votes []string `json:"votes"`
}

type queuedVideo struct {
	data  VideoData
	votes map[string]struct{}
}

func (v queuedVideo) snapshot() Video {
	votes := maps.Keys(v.votes)
	slices.Sort(votes)

	return Video{
		VideoData: v.data,
		Votes:     votes,
	}
}

// Playlist is the room queue. Index 0 is the head.
type Playlist struct {
	list []*queuedVideo
}

func NewPlaylist() *Playlist {
	return &Playlist{
		list: make([]*queuedVideo, 0),
	}
}

func (p Playlist) Length() int {
	return len(p.list)
}

func (p Playlist) AsList() []Video {
	videos := make([]Video, 0, len(p.list))
	for _, video := range p.list {
		videos = append(videos, video.snapshot())
	}

	return videos
}

func (p Playlist) getByID(id string) (*queuedVideo, error) {
	for _, video := range p.list {
		if video.data.ID == id {
			return video, nil
		}
	}

	return nil, ErrVideoNotFound
}

// Add appends without re-sorting; a fresh entry has no votes.
func (p *Playlist) Add(data VideoData) {
	p.list = append(p.list, &queuedVideo{
		data:  data,
		votes: make(map[string]struct{}),
	})
}

// ToggleVote flips participantID's endorsement of the entry and re-sorts the
// whole queue by descending vote count. The sort is stable, so ties keep
// their previous relative order. A full sort per vote is fine while queues
// stay at playlist scale (bounded by the configured queue limit).
func (p *Playlist) ToggleVote(videoID, participantID string) error {
	video, err := p.getByID(videoID)
	if err != nil {
		return err
	}

	if _, ok := video.votes[participantID]; ok {
		delete(video.votes, participantID)
	} else {
		video.votes[participantID] = struct{}{}
	}

	slices.SortStableFunc(p.list, func(a, b *queuedVideo) int {
		return len(b.votes) - len(a.votes)
	})

	return nil
}

// PopHead removes and returns the entry at index 0.
func (p *Playlist) PopHead() (Video, bool) {
	if len(p.list) == 0 {
		return Video{}, false
	}

	head := p.list[0]
	p.list[0] = nil
	p.list = p.list[1:]

	return head.snapshot(), true
}
