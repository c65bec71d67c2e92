package app

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *AppConfig {
	return &AppConfig{
		Secret:     "secret",
		Host:       "127.0.0.1",
		Port:       8080,
		LogLevel:   "info",
		QueueLimit: 25,
		QueueStore: QueueStoreSQLite,
		SQLitePath: ":memory:",
	}
}

func TestValidate(t *testing.T) {
	require.NoError(t, validConfig().Validate())

	cfg := validConfig()
	cfg.Secret = ""
	assert.Error(t, cfg.Validate())

	cfg = validConfig()
	cfg.LogLevel = "loud"
	assert.Error(t, cfg.Validate())

	cfg = validConfig()
	cfg.QueueLimit = 0
	assert.Error(t, cfg.Validate())

	cfg = validConfig()
	cfg.QueueStore = "postgres"
	assert.Error(t, cfg.Validate())

	cfg = validConfig()
	cfg.QueueStore = QueueStoreRedis
	assert.Error(t, cfg.Validate(), "redis store needs host, port and ttl")

	cfg.RedisHost = "localhost"
	cfg.RedisPort = 6379
	cfg.QueueTTL = time.Hour
	assert.NoError(t, cfg.Validate())
}

func token(t *testing.T, secret, userId string) string {
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"userId": userId}).SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func joinRoom(t *testing.T, serverURL, secret string) {
	url := "ws" + strings.TrimPrefix(serverURL, "http") + "/api/v1/ws?token=" + token(t, secret, "u1")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, conn.WriteJSON(map[string]any{
		"type":    "JOIN_ROOM",
		"payload": map[string]string{"room_id": "abc"},
	}))

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(3*time.Second)))
	var out struct {
		Type    string `json:"type"`
		Payload struct {
			ID      string   `json:"id"`
			Members []string `json:"members"`
		} `json:"payload"`
	}
	require.NoError(t, conn.ReadJSON(&out))
	assert.Equal(t, "ROOM_STATE_UPDATE", out.Type)
	assert.Equal(t, "abc", out.Payload.ID)
	assert.Equal(t, []string{"u1"}, out.Payload.Members)
}

func TestNewHandlerSQLite(t *testing.T) {
	cfg := validConfig()

	handler, cleanup, err := NewHandler(context.Background(), cfg, slog.Default())
	require.NoError(t, err)
	defer cleanup()

	server := httptest.NewServer(handler)
	defer server.Close()

	resp, err := http.Get(server.URL + "/api/v1/healthz")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	joinRoom(t, server.URL, cfg.Secret)
}

func TestNewHandlerRedis(t *testing.T) {
	s := miniredis.RunT(t)
	host, portStr, err := net.SplitHostPort(s.Addr())
	require.NoError(t, err)
	port, err := strconv.Atoi(portStr)
	require.NoError(t, err)

	cfg := validConfig()
	cfg.QueueStore = QueueStoreRedis
	cfg.QueueTTL = time.Hour
	cfg.RedisHost = host
	cfg.RedisPort = port
	require.NoError(t, cfg.Validate())

	handler, cleanup, err := NewHandler(context.Background(), cfg, slog.Default())
	require.NoError(t, err)
	defer cleanup()

	server := httptest.NewServer(handler)
	defer server.Close()

	joinRoom(t, server.URL, cfg.Secret)
}

func TestNewLogger(t *testing.T) {
	logger, err := NewLogger("debug")
	require.NoError(t, err)
	assert.True(t, logger.Enabled(context.Background(), slog.LevelDebug))

	_, err = NewLogger("nope")
	assert.Error(t, err)
}
