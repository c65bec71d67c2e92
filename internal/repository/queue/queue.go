package queue

import (
	"errors"
	"time"
)

var (
	ErrEntryNotFound      = errors.New("queue entry not found")
	ErrEntryAlreadyExists = errors.New("queue entry already exists")
)

// Entry is a persisted queue entry. The room's live queue only ever holds
// entries that were stored here first.
type Entry struct {
	ID              string    `json:"id"`
	RoomID          string    `json:"room_id"`
	ExternalID      string    `json:"external_id"`
	Title           string    `json:"title"`
	DurationSeconds int       `json:"duration_seconds"`
	ThumbnailURL    string    `json:"thumbnail_url"`
	AddedBy         string    `json:"added_by"`
	CreatedAt       time.Time `json:"created_at"`
}

type SetEntryParams struct {
	ID              string
	RoomID          string
	ExternalID      string
	Title           string
	DurationSeconds int
	ThumbnailURL    string
	AddedBy         string
	CreatedAt       time.Time
}

type GetEntryParams struct {
	ID     string
	RoomID string
}
