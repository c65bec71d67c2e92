package redisclient

import (
	"context"
	"net"
	"strconv"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRedisClient(t *testing.T) {
	s := miniredis.RunT(t)

	host, portStr, err := net.SplitHostPort(s.Addr())
	require.NoError(t, err)
	port, err := strconv.Atoi(portStr)
	require.NoError(t, err)

	rc, err := NewRedisClient(context.Background(), &Config{Host: host, Port: port})
	require.NoError(t, err)
	defer rc.Close()

	assert.NoError(t, rc.Set(context.Background(), "k", "v", 0).Err())
	got, err := s.Get("k")
	require.NoError(t, err)
	assert.Equal(t, "v", got)
}

func TestNewRedisClientUnreachable(t *testing.T) {
	s := miniredis.RunT(t)
	host, portStr, _ := net.SplitHostPort(s.Addr())
	port, _ := strconv.Atoi(portStr)
	s.Close()

	_, err := NewRedisClient(context.Background(), &Config{Host: host, Port: port})
	assert.Error(t, err)
}
