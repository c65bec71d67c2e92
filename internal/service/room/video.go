package room

import (
	"context"
	"errors"
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/oklog/ulid/v2"
	"github.com/soundlab/server/internal/domain"
	"github.com/soundlab/server/internal/repository/queue"
	"github.com/soundlab/server/pkg/ytvideodata"
)

func (s *service) VoteVideo(ctx context.Context, params *VoteVideoParams) error {
	if err := validation.ValidateStruct(params,
		validation.Field(&params.RoomID, RoomIdRule...),
		validation.Field(&params.VideoID, VideoIdRule...),
	); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkBound(params.ConnectionID, params.RoomID); err != nil {
		return err
	}

	s.registry.VoteForVideo(params.RoomID, params.ParticipantID, params.VideoID)

	return s.broadcastState(ctx, params.RoomID)
}

func (s *service) checkQueueCapacity(roomID string) error {
	if _, ok := s.registry.GetRoomState(roomID); !ok {
		return ErrRoomNotFound
	}

	if s.registry.QueueLength(roomID) >= s.queueLimit {
		return ErrQueueLimitReached
	}

	return nil
}

// AddVideo resolves and persists a queue entry, then puts it into the live
// queue. A room that is idle starts playing its first video right away.
func (s *service) AddVideo(ctx context.Context, params *AddVideoParams) (AddVideoResponse, error) {
	if err := validation.ValidateStruct(params,
		validation.Field(&params.RoomID, RoomIdRule...),
		validation.Field(&params.VideoURL, VideoUrlRule...),
		validation.Field(&params.RequesterID, ParticipantIdRule...),
	); err != nil {
		return AddVideoResponse{}, err
	}

	externalID, err := ytvideodata.ParseVideoID(params.VideoURL)
	if err != nil {
		return AddVideoResponse{}, ErrInvalidVideoURL
	}

	s.mu.Lock()
	err = s.checkQueueCapacity(params.RoomID)
	s.mu.Unlock()
	if err != nil {
		return AddVideoResponse{}, err
	}

	videoData, err := s.catalog.Get(ctx, externalID)
	if err != nil {
		if errors.Is(err, ytvideodata.ErrVideoNotFound) {
			return AddVideoResponse{}, ErrVideoNotFound
		}
		return AddVideoResponse{}, fmt.Errorf("failed to get video data: %w", err)
	}

	entry := queue.Entry{
		ID:              ulid.Make().String(),
		RoomID:          params.RoomID,
		ExternalID:      externalID,
		Title:           videoData.Title,
		DurationSeconds: videoData.DurationSeconds,
		ThumbnailURL:    videoData.ThumbnailURL,
		AddedBy:         params.RequesterID,
		CreatedAt:       s.now(),
	}

	if err := s.queueRepo.SetEntry(ctx, &queue.SetEntryParams{
		ID:              entry.ID,
		RoomID:          entry.RoomID,
		ExternalID:      entry.ExternalID,
		Title:           entry.Title,
		DurationSeconds: entry.DurationSeconds,
		ThumbnailURL:    entry.ThumbnailURL,
		AddedBy:         entry.AddedBy,
		CreatedAt:       entry.CreatedAt,
	}); err != nil {
		return AddVideoResponse{}, fmt.Errorf("failed to set queue entry: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// the lookup above ran unlocked; other adds may have landed meanwhile
	if err := s.checkQueueCapacity(params.RoomID); err != nil {
		return AddVideoResponse{}, err
	}

	s.registry.AddVideo(params.RoomID, domain.VideoData{
		ID:              entry.ID,
		ExternalID:      entry.ExternalID,
		Title:           entry.Title,
		DurationSeconds: entry.DurationSeconds,
		AddedBy:         entry.AddedBy,
	})

	if state, ok := s.registry.GetRoomState(params.RoomID); ok && state.NowPlaying == nil && len(state.Queue) == 1 {
		s.registry.StartNextVideo(params.RoomID)
	}

	if err := s.broadcastState(ctx, params.RoomID); err != nil {
		return AddVideoResponse{}, err
	}

	return AddVideoResponse{Entry: entry}, nil
}

func (s *service) GetRoomVideos(ctx context.Context, roomID string) ([]queue.Entry, error) {
	if err := validation.Validate(roomID, RoomIdRule...); err != nil {
		return nil, err
	}

	entries, err := s.queueRepo.GetEntries(ctx, roomID)
	if err != nil {
		return nil, fmt.Errorf("failed to get queue entries: %w", err)
	}

	return entries, nil
}
