package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/soundlab/server/internal/repository/queue"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRepo(t *testing.T) *repo {
	db, err := Open(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return NewRepo(db)
}

func TestSetAndGetEntry(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()
	createdAt := time.UnixMilli(1700000000000)

	params := queue.SetEntryParams{
		ID:              "01HF0000000000000000000001",
		RoomID:          "abc",
		ExternalID:      "dQw4w9WgXcQ",
		Title:           "Never Gonna Give You Up",
		DurationSeconds: 213,
		AddedBy:         "u1",
		CreatedAt:       createdAt,
	}
	require.NoError(t, r.SetEntry(ctx, &params))
	assert.ErrorIs(t, r.SetEntry(ctx, &params), queue.ErrEntryAlreadyExists)

	entry, err := r.GetEntry(ctx, &queue.GetEntryParams{ID: params.ID, RoomID: "abc"})
	require.NoError(t, err)
	assert.Equal(t, queue.Entry{
		ID:              params.ID,
		RoomID:          "abc",
		ExternalID:      "dQw4w9WgXcQ",
		Title:           "Never Gonna Give You Up",
		DurationSeconds: 213,
		AddedBy:         "u1",
		CreatedAt:       createdAt,
	}, entry)

	_, err = r.GetEntry(ctx, &queue.GetEntryParams{ID: params.ID, RoomID: "other"})
	assert.ErrorIs(t, err, queue.ErrEntryNotFound)
}

func TestGetEntries(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()
	base := time.UnixMilli(1700000000000)

	for i, id := range []string{"b", "a", "c"} {
		require.NoError(t, r.SetEntry(ctx, &queue.SetEntryParams{
			ID:         id,
			RoomID:     "abc",
			ExternalID: "ext-" + id,
			AddedBy:    "u1",
			CreatedAt:  base.Add(time.Duration(i) * time.Second),
		}))
	}
	require.NoError(t, r.SetEntry(ctx, &queue.SetEntryParams{ID: "x", RoomID: "other", CreatedAt: base}))

	entries, err := r.GetEntries(ctx, "abc")
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, "b", entries[0].ID)
	assert.Equal(t, "a", entries[1].ID)
	assert.Equal(t, "c", entries[2].ID)

	entries, err = r.GetEntries(ctx, "empty")
	require.NoError(t, err)
	assert.NotNil(t, entries)
	assert.Empty(t, entries)
}
