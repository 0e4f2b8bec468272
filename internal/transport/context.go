package transport

import (
	"context"

	"github.com/google/uuid"
)

type callIDKey struct{}

// WithCallID tags ctx with a correlation id shared by every attempt of one
// logical call.
func WithCallID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, callIDKey{}, id)
}

// CallID returns the correlation id carried by ctx, if any.
func CallID(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(callIDKey{}).(string)
	return id, ok && id != ""
}

// ensureCallID returns ctx unchanged when it already carries an id.
func ensureCallID(ctx context.Context) (context.Context, string) {
	if id, ok := CallID(ctx); ok {
		return ctx, id
	}
	id := uuid.NewString()
	return WithCallID(ctx, id), id
}
