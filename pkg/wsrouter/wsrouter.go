package wsrouter

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"

	"github.com/gorilla/websocket"
)

var (
	ErrUnknownMessageType = errors.New("unknown message type")
	ErrInvalidPayload     = errors.New("invalid payload")
	ErrMalformedMessage   = errors.New("malformed message")
)

type message struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type HandlerFunc[T any] func(ctx context.Context, conn *websocket.Conn, payload T) error

// Middleware wraps every handler after its payload has been decoded.
type Middleware func(next HandlerFunc[any]) HandlerFunc[any]

type route func(ctx context.Context, conn *websocket.Conn, payload json.RawMessage) error

type WSRouter struct {
	routes      map[string]route
	middlewares []Middleware
	validate    func(any) error
	logger      *slog.Logger
}

type Option func(*WSRouter)

// WithValidator sets the check run on each decoded payload before the
// middleware chain. A non-nil error drops the message.
func WithValidator(validate func(any) error) Option {
	return func(r *WSRouter) {
		r.validate = validate
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(r *WSRouter) {
		r.logger = logger
	}
}

func New(opts ...Option) *WSRouter {
	r := &WSRouter{
		routes: make(map[string]route),
		logger: slog.Default(),
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

func (r *WSRouter) Use(middlewares ...Middleware) {
	r.middlewares = append(r.middlewares, middlewares...)
}

// Handle registers handler for messageType. The payload is decoded into T.
func Handle[T any](r *WSRouter, messageType string, handler HandlerFunc[T]) {
	r.routes[messageType] = func(ctx context.Context, conn *websocket.Conn, raw json.RawMessage) error {
		var payload T
		if len(raw) > 0 {
			if err := json.Unmarshal(raw, &payload); err != nil {
				return fmt.Errorf("%w: %w", ErrInvalidPayload, err)
			}
		}

		if r.validate != nil {
			if err := r.validate(payload); err != nil {
				return fmt.Errorf("%w: %w", ErrInvalidPayload, err)
			}
		}

		next := func(ctx context.Context, conn *websocket.Conn, payload any) error {
			return handler(ctx, conn, payload.(T))
		}

		for i := len(r.middlewares) - 1; i >= 0; i-- {
			next = r.middlewares[i](next)
		}

		return next(ctx, conn, payload)
	}
}

// Dispatch routes one raw frame. A panic in the handler is recovered and
// returned as an error.
func (r *WSRouter) Dispatch(ctx context.Context, conn *websocket.Conn, data []byte) (err error) {
	var msg message
	if err := json.Unmarshal(data, &msg); err != nil {
		return fmt.Errorf("%w: %w", ErrMalformedMessage, err)
	}

	handler, ok := r.routes[msg.Type]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownMessageType, msg.Type)
	}

	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("handler panic: %v\n%s", rec, debug.Stack())
		}
	}()

	return handler(context.WithValue(ctx, messageTypeKey, msg.Type), conn, msg.Payload)
}

// ServeConn reads frames until the connection fails. Messages that cannot be
// routed or handled are logged and skipped.
func (r *WSRouter) ServeConn(ctx context.Context, conn *websocket.Conn) error {
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return err
		}

		if err := r.Dispatch(ctx, conn, data); err != nil {
			r.logger.InfoContext(ctx, "websocket message dropped", "error", err)
		}
	}
}
