package controller

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/soundlab/server/internal/domain"
	"github.com/soundlab/server/internal/repository/queue"
	"github.com/soundlab/server/internal/service/room"
	"github.com/soundlab/server/pkg/validator"
	"github.com/soundlab/server/pkg/wsrouter"
)

type iRoomService interface {
	ResolveIdentity(string) (string, error)
	ConnectMember(context.Context, *room.ConnectMemberParams) error
	DisconnectMember(context.Context, *room.DisconnectMemberParams) error
	JoinRoom(context.Context, *room.JoinRoomParams) error
	VoteVideo(context.Context, *room.VoteVideoParams) error
	RequestNextVideo(context.Context, *room.RequestNextVideoParams) error
	UpdatePlayback(context.Context, *room.UpdatePlaybackParams) error
	AddVideo(context.Context, *room.AddVideoParams) (room.AddVideoResponse, error)
	GetRoomState(context.Context, string) (domain.RoomState, error)
	GetRoomVideos(context.Context, string) ([]queue.Entry, error)
}

type Config struct {
	CORSOrigin string
}

type controller struct {
	roomService iRoomService
	upgrader    websocket.Upgrader
	validate    *validator.Validator
	logger      *slog.Logger
	wsmux       *wsrouter.WSRouter
	corsOrigin  string
}

func NewController(roomService iRoomService, logger *slog.Logger, cfg *Config) *controller {
	c := &controller{
		roomService: roomService,
		validate:    validator.NewValidator(),
		logger:      logger,
		corsOrigin:  cfg.CORSOrigin,
	}
	c.upgrader = websocket.Upgrader{
		CheckOrigin: c.checkOrigin,
	}
	c.wsmux = c.getWSRouter()

	return c
}

func (c *controller) checkOrigin(r *http.Request) bool {
	if c.corsOrigin == "" || c.corsOrigin == "*" {
		return true
	}

	origin := r.Header.Get("Origin")
	return origin == "" || origin == c.corsOrigin
}
