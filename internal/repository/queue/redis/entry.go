package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/soundlab/server/internal/repository/queue"
)

type entry struct {
	ExternalID      string `redis:"external_id"`
	Title           string `redis:"title"`
	DurationSeconds int    `redis:"duration_seconds"`
	ThumbnailURL    string `redis:"thumbnail_url"`
	AddedBy         string `redis:"added_by"`
	CreatedAt       int64  `redis:"created_at"`
}

func (r repo) getEntryKey(roomID, entryID string) string {
	return "room:" + roomID + ":entry:" + entryID
}

func (r repo) getEntriesKey(roomID string) string {
	return "room:" + roomID + ":entries"
}

func (r repo) SetEntry(ctx context.Context, params *queue.SetEntryParams) error {
	entryKey := r.getEntryKey(params.RoomID, params.ID)

	exists, err := r.rc.Exists(ctx, entryKey).Result()
	if err != nil {
		return err
	}
	if exists > 0 {
		return queue.ErrEntryAlreadyExists
	}

	pipe := r.rc.TxPipeline()

	pipe.HSet(ctx, entryKey, entry{
		ExternalID:      params.ExternalID,
		Title:           params.Title,
		DurationSeconds: params.DurationSeconds,
		ThumbnailURL:    params.ThumbnailURL,
		AddedBy:         params.AddedBy,
		CreatedAt:       params.CreatedAt.UnixMilli(),
	})
	pipe.Expire(ctx, entryKey, r.expireDuration)

	entriesKey := r.getEntriesKey(params.RoomID)
	pipe.ZAdd(ctx, entriesKey, redis.Z{
		Score:  float64(params.CreatedAt.UnixMilli()),
		Member: params.ID,
	})
	pipe.Expire(ctx, entriesKey, r.expireDuration)

	return r.executePipe(ctx, pipe)
}

func (r repo) GetEntry(ctx context.Context, params *queue.GetEntryParams) (queue.Entry, error) {
	entryKey := r.getEntryKey(params.RoomID, params.ID)

	var e entry
	cmd := r.rc.HGetAll(ctx, entryKey)
	if err := cmd.Err(); err != nil {
		return queue.Entry{}, err
	}
	if len(cmd.Val()) == 0 {
		return queue.Entry{}, queue.ErrEntryNotFound
	}
	if err := cmd.Scan(&e); err != nil {
		return queue.Entry{}, fmt.Errorf("failed to scan entry: %w", err)
	}

	r.rc.Expire(ctx, entryKey, r.expireDuration)

	return queue.Entry{
		ID:              params.ID,
		RoomID:          params.RoomID,
		ExternalID:      e.ExternalID,
		Title:           e.Title,
		DurationSeconds: e.DurationSeconds,
		ThumbnailURL:    e.ThumbnailURL,
		AddedBy:         e.AddedBy,
		CreatedAt:       time.UnixMilli(e.CreatedAt),
	}, nil
}

// GetEntries returns the room's entries oldest first. Ids whose hash has
// already expired are skipped.
func (r repo) GetEntries(ctx context.Context, roomID string) ([]queue.Entry, error) {
	entriesKey := r.getEntriesKey(roomID)
	ids, err := r.rc.ZRange(ctx, entriesKey, 0, -1).Result()
	if err != nil {
		return nil, err
	}

	r.rc.Expire(ctx, entriesKey, r.expireDuration)

	entries := make([]queue.Entry, 0, len(ids))
	for _, id := range ids {
		e, err := r.GetEntry(ctx, &queue.GetEntryParams{ID: id, RoomID: roomID})
		if err != nil {
			if errors.Is(err, queue.ErrEntryNotFound) {
				continue
			}
			return nil, err
		}

		entries = append(entries, e)
	}

	return entries, nil
}
