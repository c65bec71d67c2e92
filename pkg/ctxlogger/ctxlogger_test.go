package ctxlogger

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContextHandler(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(ContextHandler{Handler: slog.NewJSONHandler(&buf, nil)})

	ctx := AppendCtx(context.Background(), slog.String("request_id", "r1"))
	child := AppendCtx(ctx, slog.String("user_id", "u1"))

	logger.InfoContext(ctx, "parent")
	logger.InfoContext(child, "child")

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 2)

	var parent, got map[string]any
	require.NoError(t, json.Unmarshal(lines[0], &parent))
	require.NoError(t, json.Unmarshal(lines[1], &got))

	assert.Equal(t, "r1", parent["request_id"])
	assert.NotContains(t, parent, "user_id")
	assert.Equal(t, "r1", got["request_id"])
	assert.Equal(t, "u1", got["user_id"])
}
