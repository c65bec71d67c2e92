package room

import (
	"github.com/soundlab/server/internal/domain"
	"github.com/soundlab/server/internal/repository/connection"
	"github.com/soundlab/server/internal/repository/queue"
)

const TypeRoomStateUpdate = "ROOM_STATE_UPDATE"

// Output is the envelope of every server to client frame.
type Output struct {
	Type    string `json:"type"`
	Payload any    `json:"payload"`
}

// PlaybackUpdate is the partial state relayed to the other members after a
// playback change.
type PlaybackUpdate struct {
	NowPlaying domain.PlaybackPatch `json:"now_playing"`
}

type ConnectMemberParams struct {
	ConnectionID string
	Conn         connection.Conn
}

type DisconnectMemberParams struct {
	ConnectionID string
}

type JoinRoomParams struct {
	ConnectionID  string
	ParticipantID string
	RoomID        string
}

type VoteVideoParams struct {
	ConnectionID  string
	ParticipantID string
	RoomID        string
	VideoID       string
}

type RequestNextVideoParams struct {
	ConnectionID string
	RoomID       string
}

type UpdatePlaybackParams struct {
	ConnectionID string
	RoomID       string
	IsPlaying    *bool
	SeekTime     *float64
}

type AddVideoParams struct {
	RoomID      string
	VideoURL    string
	RequesterID string
}

type AddVideoResponse struct {
	Entry queue.Entry
}
