package controller

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
	"github.com/soundlab/server/internal/service/room"
	"github.com/soundlab/server/pkg/ctxlogger"
)

func (c controller) serveWS(w http.ResponseWriter, r *http.Request) {
	userId, err := c.roomService.ResolveIdentity(c.getToken(r))
	if err != nil {
		c.logger.DebugContext(r.Context(), "failed to resolve identity", "error", err)
		c.writeError(w, http.StatusUnauthorized, room.ErrInvalidToken)
		return
	}

	conn, err := c.upgrader.Upgrade(w, r, nil)
	if err != nil {
		c.logger.WarnContext(r.Context(), "failed to upgrade to websocket", "error", err)
		return
	}

	connectionId := uuid.NewString()
	ctx := context.WithValue(r.Context(), connectionIdCtxKey, connectionId)
	ctx = context.WithValue(ctx, userIdCtxKey, userId)
	ctx = ctxlogger.AppendCtx(ctx, slog.String("connection_id", connectionId))
	ctx = ctxlogger.AppendCtx(ctx, slog.String("user_id", userId))

	client := newClient(conn)
	if err := c.roomService.ConnectMember(ctx, &room.ConnectMemberParams{
		ConnectionID: connectionId,
		Conn:         client,
	}); err != nil {
		c.logger.WarnContext(ctx, "failed to connect member", "error", err)
		client.Close()
		return
	}
	defer c.disconnect(ctx, connectionId)

	go client.writePump()
	client.prepareRead()

	c.logger.InfoContext(ctx, "websocket connected")
	if err := c.wsmux.ServeConn(ctx, conn); err != nil {
		c.logger.InfoContext(ctx, "websocket disconnected", "error", err)
	}
}

func (c controller) disconnect(ctx context.Context, connectionId string) {
	if err := c.roomService.DisconnectMember(context.WithoutCancel(ctx), &room.DisconnectMemberParams{
		ConnectionID: connectionId,
	}); err != nil {
		c.logger.WarnContext(ctx, "failed to disconnect member", "error", err)
	}
}

type AddVideoInput struct {
	VideoURL string `json:"video_url" validate:"required,max=2048"`
}

func (c controller) addVideo(w http.ResponseWriter, r *http.Request) {
	userId, err := c.roomService.ResolveIdentity(c.getToken(r))
	if err != nil {
		c.writeError(w, http.StatusUnauthorized, room.ErrInvalidToken)
		return
	}

	var input AddVideoInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		c.writeError(w, http.StatusBadRequest, errors.New("invalid request body"))
		return
	}

	if errs, ok := c.validate.Validate(input); !ok {
		c.writeJSON(w, http.StatusBadRequest, map[string]any{"errors": errs})
		return
	}

	resp, err := c.roomService.AddVideo(r.Context(), &room.AddVideoParams{
		RoomID:      chi.URLParam(r, "room-id"),
		VideoURL:    input.VideoURL,
		RequesterID: userId,
	})
	if err != nil {
		c.writeServiceError(w, r, err)
		return
	}

	c.writeJSON(w, http.StatusCreated, map[string]any{"data": resp.Entry})
}

func (c controller) getRoomState(w http.ResponseWriter, r *http.Request) {
	state, err := c.roomService.GetRoomState(r.Context(), chi.URLParam(r, "room-id"))
	if err != nil {
		c.writeServiceError(w, r, err)
		return
	}

	c.writeJSON(w, http.StatusOK, map[string]any{"data": state})
}

func (c controller) getRoomVideos(w http.ResponseWriter, r *http.Request) {
	entries, err := c.roomService.GetRoomVideos(r.Context(), chi.URLParam(r, "room-id"))
	if err != nil {
		c.writeServiceError(w, r, err)
		return
	}

	c.writeJSON(w, http.StatusOK, map[string]any{"data": entries})
}

func (c controller) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var verrs validation.Errors
	switch {
	case errors.As(err, &verrs):
		c.writeJSON(w, http.StatusBadRequest, map[string]any{"errors": verrs})
	case errors.Is(err, room.ErrInvalidVideoURL):
		c.writeError(w, http.StatusBadRequest, err)
	case errors.Is(err, room.ErrRoomNotFound), errors.Is(err, room.ErrVideoNotFound):
		c.writeError(w, http.StatusNotFound, err)
	case errors.Is(err, room.ErrQueueLimitReached):
		c.writeError(w, http.StatusConflict, err)
	default:
		c.logger.ErrorContext(r.Context(), "request failed", "error", err)
		c.writeError(w, http.StatusInternalServerError, errors.New("internal server error"))
	}
}
