package reqctx

import (
	"context"
	"testing"

	"github.com/google/uuid"
)

func TestRequestMeta(t *testing.T) {
	ctx := context.Background()
	if got := RequestIDFromContext(ctx); got != "" {
		t.Errorf("RequestIDFromContext(empty) = %q", got)
	}

	ctx = WithRequestMeta(ctx, &RequestMeta{RequestID: "abc-123"})
	if got := RequestIDFromContext(ctx); got != "abc-123" {
		t.Errorf("RequestIDFromContext() = %q, want abc-123", got)
	}
}

func TestIdentity(t *testing.T) {
	if _, ok := IdentityFromContext(context.Background()); ok {
		t.Error("expected no identity on a bare context")
	}

	want := Identity{AdminID: uuid.New(), SessionID: uuid.New()}
	got, ok := IdentityFromContext(WithIdentity(context.Background(), want))
	if !ok || got != want {
		t.Errorf("IdentityFromContext() = %v, %v; want %v", got, ok, want)
	}
}

func TestLogger_NeverNil(t *testing.T) {
	if Logger(context.Background()) == nil {
		t.Fatal("Logger() returned nil")
	}
}
