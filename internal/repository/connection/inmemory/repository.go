package inmemory

import (
	"log/slog"
	"sync"

	"github.com/soundlab/server/internal/repository/connection"
)

type repo struct {
	conns map[string]connection.Conn
	mu    sync.RWMutex
}

func NewRepo() *repo {
	return &repo{
		conns: make(map[string]connection.Conn),
	}
}

func (r *repo) Add(connectionID string, conn connection.Conn) error {
	funcName := "connection.inmemory.Add"
	r.mu.Lock()
	defer r.mu.Unlock()

	slog.Debug(funcName, "connection_id", connectionID)
	if _, ok := r.conns[connectionID]; ok {
		slog.Info(funcName, "error", connection.ErrAlreadyExists)
		return connection.ErrAlreadyExists
	}

	r.conns[connectionID] = conn

	slog.Debug(funcName, "result", "OK")
	return nil
}

// Remove forgets the connection and closes it.
func (r *repo) Remove(connectionID string) error {
	funcName := "connection.inmemory.Remove"
	r.mu.Lock()
	defer r.mu.Unlock()

	slog.Debug(funcName, "connection_id", connectionID)
	conn, ok := r.conns[connectionID]
	if !ok {
		slog.Info(funcName, "error", connection.ErrNotFound)
		return connection.ErrNotFound
	}
	conn.Close()

	delete(r.conns, connectionID)

	slog.Debug(funcName, "result", "OK")
	return nil
}

// Send hands data to every listed connection and returns the ids it could
// not deliver to. Unknown ids count as failed.
func (r *repo) Send(connectionIDs []string, data []byte) []string {
	funcName := "connection.inmemory.Send"
	r.mu.RLock()
	defer r.mu.RUnlock()

	var failed []string
	for _, id := range connectionIDs {
		conn, ok := r.conns[id]
		if !ok {
			failed = append(failed, id)
			continue
		}

		if err := conn.Send(data); err != nil {
			slog.Info(funcName, "connection_id", id, "error", err)
			failed = append(failed, id)
		}
	}

	return failed
}
