package room

import (
	"context"
	"encoding/json"
	"fmt"

	"golang.org/x/exp/slices"
)

// send enqueues payload for every listed connection. Must be called with mu
// held.
func (s *service) send(ctx context.Context, connectionIDs []string, payload any) error {
	if len(connectionIDs) == 0 {
		return nil
	}

	data, err := json.Marshal(&Output{
		Type:    TypeRoomStateUpdate,
		Payload: payload,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}

	if failed := s.connRepo.Send(connectionIDs, data); len(failed) > 0 {
		s.logger.InfoContext(ctx, "failed to deliver room update", "connection_ids", failed)
	}

	return nil
}

// broadcastState sends the room's full snapshot to all of its members. A room
// that no longer exists has nobody to tell. Must be called with mu held.
func (s *service) broadcastState(ctx context.Context, roomID string) error {
	state, ok := s.registry.GetRoomState(roomID)
	if !ok {
		return nil
	}

	return s.send(ctx, s.registry.Connections(roomID), state)
}

// checkBound reports whether the connection is currently joined to roomID.
// Must be called with mu held.
func (s *service) checkBound(connectionID, roomID string) error {
	bound, ok := s.registry.RoomOf(connectionID)
	if !ok || bound != roomID {
		return ErrNotInRoom
	}

	return nil
}

func without(ids []string, id string) []string {
	return slices.DeleteFunc(ids, func(v string) bool {
		return v == id
	})
}
