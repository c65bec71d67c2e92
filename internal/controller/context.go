package controller

import "context"

type contextKey int

const (
	connectionIdCtxKey contextKey = iota
	userIdCtxKey
)

func (c controller) getConnectionIdFromCtx(ctx context.Context) string {
	connectionId, ok := ctx.Value(connectionIdCtxKey).(string)
	if !ok {
		return ""
	}

	return connectionId
}

func (c controller) getUserIdFromCtx(ctx context.Context) string {
	userId, ok := ctx.Value(userIdCtxKey).(string)
	if !ok {
		return ""
	}

	return userId
}
