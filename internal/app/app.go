package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/soundlab/server/internal/controller"
	"github.com/soundlab/server/internal/domain"
	"github.com/soundlab/server/internal/repository/connection/inmemory"
	"github.com/soundlab/server/internal/repository/queue"
	queueRedis "github.com/soundlab/server/internal/repository/queue/redis"
	"github.com/soundlab/server/internal/repository/queue/sqlite"
	"github.com/soundlab/server/internal/service/room"
	"github.com/soundlab/server/pkg/ctxlogger"
	"github.com/soundlab/server/pkg/redisclient"
	"github.com/soundlab/server/pkg/ytvideodata"
)

const (
	QueueStoreRedis  = "redis"
	QueueStoreSQLite = "sqlite"
)

type AppConfig struct {
	Secret        string        `json:"-"`
	Host          string        `json:"host"`
	Port          int           `json:"port"`
	LogLevel      string        `json:"log_level"`
	CORSOrigin    string        `json:"cors_origin"`
	QueueLimit    int           `json:"queue_limit"`
	QueueStore    string        `json:"queue_store"`
	QueueTTL      time.Duration `json:"queue_ttl"`
	RedisPort     int           `json:"redis_port"`
	RedisHost     string        `json:"redis_host"`
	RedisPassword string        `json:"-"`
	SQLitePath    string        `json:"sqlite_path"`
	YouTubeAPIKey string        `json:"-"`
}

func (cfg *AppConfig) Validate() error {
	return validation.ValidateStruct(cfg,
		validation.Field(&cfg.Secret, validation.Required),
		validation.Field(&cfg.Port, validation.Required, validation.Min(1), validation.Max(65535)),
		validation.Field(&cfg.LogLevel, validation.Required, validation.By(func(value interface{}) error {
			var level slog.Level
			return level.UnmarshalText([]byte(strings.ToUpper(value.(string))))
		})),
		validation.Field(&cfg.QueueLimit, validation.Required, validation.Min(1)),
		validation.Field(&cfg.QueueStore, validation.Required, validation.In(QueueStoreRedis, QueueStoreSQLite)),
		validation.Field(&cfg.QueueTTL, validation.When(cfg.QueueStore == QueueStoreRedis, validation.Required)),
		validation.Field(&cfg.RedisHost, validation.When(cfg.QueueStore == QueueStoreRedis, validation.Required)),
		validation.Field(&cfg.RedisPort, validation.When(cfg.QueueStore == QueueStoreRedis, validation.Required)),
		validation.Field(&cfg.SQLitePath, validation.When(cfg.QueueStore == QueueStoreSQLite, validation.Required)),
	)
}

func NewLogger(level string) (*slog.Logger, error) {
	logLevel := slog.LevelInfo
	if err := logLevel.UnmarshalText([]byte(strings.ToUpper(level))); err != nil {
		return nil, err
	}

	h := ctxlogger.ContextHandler{
		Handler: slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level:     logLevel,
			AddSource: true,
		}),
	}

	return slog.New(&h), nil
}

type queueRepo interface {
	SetEntry(context.Context, *queue.SetEntryParams) error
	GetEntries(context.Context, string) ([]queue.Entry, error)
}

// newQueueRepo opens the configured store. The returned func releases it.
func newQueueRepo(ctx context.Context, cfg *AppConfig) (queueRepo, func(), error) {
	switch cfg.QueueStore {
	case QueueStoreSQLite:
		db, err := sqlite.Open(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open sqlite: %w", err)
		}

		return sqlite.NewRepo(db), func() { db.Close() }, nil
	case QueueStoreRedis:
		rc, err := redisclient.NewRedisClient(ctx, &redisclient.Config{
			Port:     cfg.RedisPort,
			Host:     cfg.RedisHost,
			Password: cfg.RedisPassword,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create redis client: %w", err)
		}

		return queueRedis.NewRepo(rc, cfg.QueueTTL), func() { rc.Close() }, nil
	default:
		return nil, nil, fmt.Errorf("unknown queue store %q", cfg.QueueStore)
	}
}

// NewHandler wires the whole server and returns its root handler.
func NewHandler(ctx context.Context, cfg *AppConfig, logger *slog.Logger) (http.Handler, func(), error) {
	queueRepo, closeQueue, err := newQueueRepo(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}

	connectionRepo := inmemory.NewRepo()
	catalog := ytvideodata.New(ytvideodata.Config{
		APIKey: cfg.YouTubeAPIKey,
	})
	roomService := room.NewService(domain.NewRegistry(), queueRepo, connectionRepo, catalog, logger, &room.Config{
		QueueLimit: cfg.QueueLimit,
		Secret:     cfg.Secret,
	})
	controller := controller.NewController(roomService, logger, &controller.Config{
		CORSOrigin: cfg.CORSOrigin,
	})

	return controller.GetMux(), closeQueue, nil
}

func Run(ctx context.Context, cfg *AppConfig) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	logger, err := NewLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	slog.SetDefault(logger)

	handler, cleanup, err := NewHandler(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer cleanup()

	server := &http.Server{Addr: fmt.Sprintf("%s:%d", cfg.Host, cfg.Port), Handler: handler}

	// graceful shutdown
	serverCtx, serverStopCtx := context.WithCancel(ctx)
	defer serverStopCtx()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	defer signal.Stop(sig)

	shutdownErr := make(chan error, 1)
	go func() {
		select {
		case <-sig:
		case <-serverCtx.Done():
		}

		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(serverCtx), 30*time.Second)
		defer cancel()

		shutdownErr <- server.Shutdown(shutdownCtx)
	}()

	logger.InfoContext(serverCtx, "starting server", "address", server.Addr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	if err := <-shutdownErr; err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	logger.InfoContext(serverCtx, "server stopped")

	return nil
}
