package room

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/soundlab/server/internal/domain"
	"github.com/soundlab/server/internal/repository/connection"
	"github.com/soundlab/server/internal/repository/queue"
	"github.com/soundlab/server/pkg/ytvideodata"
)

var (
	ErrInvalidToken      = errors.New("invalid token")
	ErrRoomNotFound      = errors.New("room not found")
	ErrNotInRoom         = errors.New("connection is not in room")
	ErrQueueLimitReached = errors.New("queue limit reached")
	ErrVideoNotFound     = errors.New("video not found")
	ErrInvalidVideoURL   = errors.New("invalid video url")
)

type iQueueRepo interface {
	SetEntry(context.Context, *queue.SetEntryParams) error
	GetEntries(context.Context, string) ([]queue.Entry, error)
}

type iConnRepo interface {
	Add(string, connection.Conn) error
	Remove(string) error
	Send([]string, []byte) []string
}

type iCatalog interface {
	Get(context.Context, string) (*ytvideodata.VideoData, error)
}

type Config struct {
	QueueLimit int
	Secret     string
}

// service is the realtime gateway. mu serializes every registry mutation
// together with the enqueueing of the frames it produces, so each room sees
// its snapshots in processing order.
type service struct {
	registry   *domain.Registry
	queueRepo  iQueueRepo
	connRepo   iConnRepo
	catalog    iCatalog
	logger     *slog.Logger
	queueLimit int
	secret     []byte
	now        func() time.Time
	mu         sync.Mutex
}

func NewService(registry *domain.Registry, queueRepo iQueueRepo, connRepo iConnRepo, catalog iCatalog, logger *slog.Logger, cfg *Config) *service {
	return &service{
		registry:   registry,
		queueRepo:  queueRepo,
		connRepo:   connRepo,
		catalog:    catalog,
		logger:     logger,
		queueLimit: cfg.QueueLimit,
		secret:     []byte(cfg.Secret),
		now:        time.Now,
	}
}

func (s *service) GetRoomState(_ context.Context, roomID string) (domain.RoomState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, ok := s.registry.GetRoomState(roomID)
	if !ok {
		return domain.RoomState{}, ErrRoomNotFound
	}

	return state, nil
}
