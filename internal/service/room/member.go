package room

import (
	"context"
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

func (s *service) ConnectMember(ctx context.Context, params *ConnectMemberParams) error {
	if err := s.connRepo.Add(params.ConnectionID, params.Conn); err != nil {
		return fmt.Errorf("failed to add connection: %w", err)
	}

	s.logger.DebugContext(ctx, "member connected", "connection_id", params.ConnectionID)
	return nil
}

func (s *service) JoinRoom(ctx context.Context, params *JoinRoomParams) error {
	if err := validation.ValidateStruct(params,
		validation.Field(&params.ConnectionID, ConnectionIdRule...),
		validation.Field(&params.ParticipantID, ParticipantIdRule...),
		validation.Field(&params.RoomID, RoomIdRule...),
	); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	previous, wasBound := s.registry.RoomOf(params.ConnectionID)

	s.registry.JoinRoom(params.RoomID, params.ParticipantID, params.ConnectionID)

	if wasBound && previous != params.RoomID {
		if err := s.broadcastState(ctx, previous); err != nil {
			return err
		}
	}

	return s.broadcastState(ctx, params.RoomID)
}

// DisconnectMember drops the connection and refreshes whatever room it was
// in. It is safe to call for a connection that never joined a room.
func (s *service) DisconnectMember(ctx context.Context, params *DisconnectMemberParams) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.connRepo.Remove(params.ConnectionID); err != nil {
		s.logger.DebugContext(ctx, "failed to remove connection", "error", err)
	}

	roomID, ok := s.registry.LeaveRoom(params.ConnectionID)
	if !ok {
		return nil
	}

	return s.broadcastState(ctx, roomID)
}
