package ctxutil

import (
	"context"

	"github.com/google/uuid"
)

type ctxKey string

const passIDKey ctxKey = "pass_id"

// WithPassID stores the pass ID in the context.
func WithPassID(ctx context.Context, id uuid.UUID) context.Context {
	return context.WithValue(ctx, passIDKey, id)
}

// PassIDFromCtx extracts the pass ID from the context.
// Returns uuid.Nil and false if the value is missing, nil UUID, or wrong type.
func PassIDFromCtx(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(passIDKey).(uuid.UUID)
	if !ok || id == uuid.Nil {
		return uuid.Nil, false
	}
	return id, true
}

// EnsurePassID returns ctx with a pass ID, generating one if ctx has none.
func EnsurePassID(ctx context.Context) (context.Context, uuid.UUID) {
	if id, ok := PassIDFromCtx(ctx); ok {
		return ctx, id
	}
	id := uuid.New()
	return WithPassID(ctx, id), id
}
