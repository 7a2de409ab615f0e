package ctxutil

import (
	"context"

	"github.com/heartmarshall/libris-backend/internal/auth"
)

type ctxKey string

const (
	actorKey     ctxKey = "actor"
	requestIDKey ctxKey = "request_id"
)

// WithActor stores the verified actor in the context.
func WithActor(ctx context.Context, a auth.Actor) context.Context {
	return context.WithValue(ctx, actorKey, a)
}

// ActorFromCtx extracts the actor from the context.
// Returns a zero Actor and false if the value is missing, has an empty id,
// or has the wrong type.
func ActorFromCtx(ctx context.Context) (auth.Actor, bool) {
	a, ok := ctx.Value(actorKey).(auth.Actor)
	if !ok || a.ID == "" {
		return auth.Actor{}, false
	}
	return a, true
}

// WithRequestID stores the request ID in the context.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

// RequestIDFromCtx extracts the request ID from the context.
// Returns an empty string if absent.
func RequestIDFromCtx(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}
