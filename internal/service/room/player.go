package room

import (
	"context"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/soundlab/server/internal/domain"
)

func (s *service) RequestNextVideo(ctx context.Context, params *RequestNextVideoParams) error {
	if err := validation.ValidateStruct(params,
		validation.Field(&params.RoomID, RoomIdRule...),
	); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkBound(params.ConnectionID, params.RoomID); err != nil {
		return err
	}

	s.registry.StartNextVideo(params.RoomID)

	return s.broadcastState(ctx, params.RoomID)
}

// UpdatePlayback merges the change into now playing and relays it to every
// other member of the room. The sender never gets its own change back.
func (s *service) UpdatePlayback(ctx context.Context, params *UpdatePlaybackParams) error {
	if err := validation.ValidateStruct(params,
		validation.Field(&params.RoomID, RoomIdRule...),
		validation.Field(&params.SeekTime, SeekTimeRule...),
	); err != nil {
		return err
	}

	patch := domain.PlaybackPatch{
		IsPlaying: params.IsPlaying,
		SeekTime:  params.SeekTime,
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkBound(params.ConnectionID, params.RoomID); err != nil {
		return err
	}

	if patch.IsEmpty() {
		return nil
	}

	s.registry.UpdatePlaybackState(params.RoomID, patch)

	others := without(s.registry.Connections(params.RoomID), params.ConnectionID)

	return s.send(ctx, others, &PlaybackUpdate{NowPlaying: patch})
}
