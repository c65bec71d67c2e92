package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/mattn/go-sqlite3"
	"github.com/soundlab/server/internal/repository/queue"
)

const schema = `
CREATE TABLE IF NOT EXISTS queue_entries (
	id               TEXT PRIMARY KEY,
	room_id          TEXT NOT NULL,
	external_id      TEXT NOT NULL,
	title            TEXT NOT NULL,
	duration_seconds INTEGER NOT NULL,
	thumbnail_url    TEXT NOT NULL,
	added_by         TEXT NOT NULL,
	created_at       INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS queue_entries_room_idx ON queue_entries (room_id, created_at);
`

type repo struct {
	db *sql.DB
}

// Open opens (creating if needed) the database at path and applies the
// schema. Use ":memory:" for a throwaway database.
func Open(ctx context.Context, path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open db: %w", err)
	}
	// a second connection to ":memory:" would see an empty database
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}

	return db, nil
}

func NewRepo(db *sql.DB) *repo {
	return &repo{db: db}
}

func (r repo) SetEntry(ctx context.Context, params *queue.SetEntryParams) error {
	query := `INSERT INTO queue_entries
		(id, room_id, external_id, title, duration_seconds, thumbnail_url, added_by, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	if _, err := r.db.ExecContext(ctx, query,
		params.ID,
		params.RoomID,
		params.ExternalID,
		params.Title,
		params.DurationSeconds,
		params.ThumbnailURL,
		params.AddedBy,
		params.CreatedAt.UnixMilli(),
	); err != nil {
		var sqliteErr sqlite3.Error
		if errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey {
			return queue.ErrEntryAlreadyExists
		}
		return fmt.Errorf("failed to insert queue entry %s: %w", params.ID, err)
	}

	return nil
}

func (r repo) GetEntry(ctx context.Context, params *queue.GetEntryParams) (queue.Entry, error) {
	query := `SELECT external_id, title, duration_seconds, thumbnail_url, added_by, created_at
		FROM queue_entries WHERE id = ? AND room_id = ?`

	entry := queue.Entry{ID: params.ID, RoomID: params.RoomID}
	var createdAt int64
	if err := r.db.QueryRowContext(ctx, query, params.ID, params.RoomID).Scan(
		&entry.ExternalID,
		&entry.Title,
		&entry.DurationSeconds,
		&entry.ThumbnailURL,
		&entry.AddedBy,
		&createdAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return queue.Entry{}, queue.ErrEntryNotFound
		}
		return queue.Entry{}, fmt.Errorf("error querying queue entry: %w", err)
	}
	entry.CreatedAt = time.UnixMilli(createdAt)

	return entry, nil
}

func (r repo) GetEntries(ctx context.Context, roomID string) ([]queue.Entry, error) {
	query := `SELECT id, external_id, title, duration_seconds, thumbnail_url, added_by, created_at
		FROM queue_entries WHERE room_id = ? ORDER BY created_at, id`

	rows, err := r.db.QueryContext(ctx, query, roomID)
	if err != nil {
		return nil, fmt.Errorf("failed to query queue entries for %s: %w", roomID, err)
	}
	defer rows.Close()

	entries := make([]queue.Entry, 0)
	for rows.Next() {
		entry := queue.Entry{RoomID: roomID}
		var createdAt int64
		if err := rows.Scan(
			&entry.ID,
			&entry.ExternalID,
			&entry.Title,
			&entry.DurationSeconds,
			&entry.ThumbnailURL,
			&entry.AddedBy,
			&createdAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan queue entry: %w", err)
		}
		entry.CreatedAt = time.UnixMilli(createdAt)

		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating over queue entries for %s: %w", roomID, err)
	}

	return entries, nil
}
