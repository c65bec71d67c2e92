package controller

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/gorilla/websocket"
	"github.com/soundlab/server/pkg/ctxlogger"
	"github.com/soundlab/server/pkg/wsrouter"
)

var errUnauthenticated = errors.New("unauthenticated connection")

func (c controller) wsRequestIdWSMw() wsrouter.Middleware {
	return func(next wsrouter.HandlerFunc[any]) wsrouter.HandlerFunc[any] {
		return func(ctx context.Context, conn *websocket.Conn, payload any) error {
			ctx = ctxlogger.AppendCtx(ctx, slog.String("ws_request_id", c.generateTimeBasedId()))
			return next(ctx, conn, payload)
		}
	}
}

func (c controller) loggerWSMw() wsrouter.Middleware {
	return func(next wsrouter.HandlerFunc[any]) wsrouter.HandlerFunc[any] {
		return func(ctx context.Context, conn *websocket.Conn, payload any) error {
			ctx = ctxlogger.AppendCtx(ctx, slog.String("message_type", wsrouter.GetMessageTypeFromCtx(ctx)))
			c.logger.DebugContext(ctx, "websocket message received", "payload", payload)

			start := time.Now()

			err := next(ctx, conn, payload)

			c.logger.InfoContext(ctx, "websocket message handled",
				"processing_time_us", time.Since(start).Microseconds(),
				"error", err,
			)

			return err
		}
	}
}

// authWSMw drops messages from a connection that carries no resolved
// identity.
func (c controller) authWSMw() wsrouter.Middleware {
	return func(next wsrouter.HandlerFunc[any]) wsrouter.HandlerFunc[any] {
		return func(ctx context.Context, conn *websocket.Conn, payload any) error {
			if c.getUserIdFromCtx(ctx) == "" || c.getConnectionIdFromCtx(ctx) == "" {
				return errUnauthenticated
			}

			return next(ctx, conn, payload)
		}
	}
}
