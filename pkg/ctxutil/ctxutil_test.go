package ctxutil

import (
	"context"
	"testing"

	"github.com/google/uuid"
)

func TestWithPassID_And_PassIDFromCtx(t *testing.T) {
	t.Parallel()

	id := uuid.New()
	ctx := WithPassID(context.Background(), id)

	got, ok := PassIDFromCtx(ctx)
	if !ok {
		t.Fatal("expected ok=true for valid UUID")
	}
	if got != id {
		t.Fatalf("expected %s, got %s", id, got)
	}
}

func TestPassIDFromCtx_EmptyContext(t *testing.T) {
	t.Parallel()

	got, ok := PassIDFromCtx(context.Background())
	if ok {
		t.Fatal("expected ok=false for empty context")
	}
	if got != uuid.Nil {
		t.Fatalf("expected uuid.Nil, got %s", got)
	}
}

func TestPassIDFromCtx_NilUUID(t *testing.T) {
	t.Parallel()

	ctx := WithPassID(context.Background(), uuid.Nil)

	if _, ok := PassIDFromCtx(ctx); ok {
		t.Fatal("expected ok=false for nil UUID")
	}
}

func TestPassIDFromCtx_WrongType(t *testing.T) {
	t.Parallel()

	ctx := context.WithValue(context.Background(), passIDKey, "not-a-uuid")

	if _, ok := PassIDFromCtx(ctx); ok {
		t.Fatal("expected ok=false for wrong type")
	}
}

func TestEnsurePassID(t *testing.T) {
	t.Parallel()

	ctx, id := EnsurePassID(context.Background())
	if id == uuid.Nil {
		t.Fatal("expected generated pass ID")
	}

	again, same := EnsurePassID(ctx)
	if same != id {
		t.Fatalf("expected existing ID %s, got %s", id, same)
	}
	if again != ctx {
		t.Fatal("expected context to be returned unchanged")
	}
}
