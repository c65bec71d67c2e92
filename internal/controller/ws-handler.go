package controller

import (
	"context"
	"fmt"

	"github.com/gorilla/websocket"
	"github.com/soundlab/server/internal/service/room"
)

type JoinRoomInput struct {
	RoomID string `json:"room_id" validate:"required,max=128"`
}

func (c controller) handleJoinRoom(ctx context.Context, _ *websocket.Conn, input JoinRoomInput) error {
	if err := c.roomService.JoinRoom(ctx, &room.JoinRoomParams{
		ConnectionID:  c.getConnectionIdFromCtx(ctx),
		ParticipantID: c.getUserIdFromCtx(ctx),
		RoomID:        input.RoomID,
	}); err != nil {
		return fmt.Errorf("failed to join room: %w", err)
	}

	return nil
}

type VoteVideoInput struct {
	RoomID  string `json:"room_id" validate:"required,max=128"`
	VideoID string `json:"video_id" validate:"required"`
}

func (c controller) handleVoteVideo(ctx context.Context, _ *websocket.Conn, input VoteVideoInput) error {
	if err := c.roomService.VoteVideo(ctx, &room.VoteVideoParams{
		ConnectionID:  c.getConnectionIdFromCtx(ctx),
		ParticipantID: c.getUserIdFromCtx(ctx),
		RoomID:        input.RoomID,
		VideoID:       input.VideoID,
	}); err != nil {
		return fmt.Errorf("failed to vote video: %w", err)
	}

	return nil
}

type RequestNextVideoInput struct {
	RoomID string `json:"room_id" validate:"required,max=128"`
}

func (c controller) handleRequestNextVideo(ctx context.Context, _ *websocket.Conn, input RequestNextVideoInput) error {
	if err := c.roomService.RequestNextVideo(ctx, &room.RequestNextVideoParams{
		ConnectionID: c.getConnectionIdFromCtx(ctx),
		RoomID:       input.RoomID,
	}); err != nil {
		return fmt.Errorf("failed to request next video: %w", err)
	}

	return nil
}

type PlaybackChangeInput struct {
	RoomID    string   `json:"room_id" validate:"required,max=128"`
	IsPlaying *bool    `json:"is_playing"`
	SeekTime  *float64 `json:"seek_time" validate:"omitempty,gte=0"`
}

func (c controller) handlePlaybackChange(ctx context.Context, _ *websocket.Conn, input PlaybackChangeInput) error {
	if err := c.roomService.UpdatePlayback(ctx, &room.UpdatePlaybackParams{
		ConnectionID: c.getConnectionIdFromCtx(ctx),
		RoomID:       input.RoomID,
		IsPlaying:    input.IsPlaying,
		SeekTime:     input.SeekTime,
	}); err != nil {
		return fmt.Errorf("failed to update playback: %w", err)
	}

	return nil
}
