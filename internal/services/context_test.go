package services_test

import (
	"context"
	"testing"

	"wordcore/internal/services"
)

func TestContextHelpers(t *testing.T) {
	ctx := context.Background()
	ctx = services.WithUserID(ctx, 7)
	ctx = services.WithWordID(ctx, 42)
	ctx = services.WithBatchID(ctx, 3)
	ctx = services.WithRequestID(ctx, "req-123")

	if id, ok := services.UserIDFromContext(ctx); !ok || id != 7 {
		t.Fatalf("unexpected user id: %v %v", id, ok)
	}
	if id, ok := services.WordIDFromContext(ctx); !ok || id != 42 {
		t.Fatalf("unexpected word id: %v %v", id, ok)
	}
	if id, ok := services.BatchIDFromContext(ctx); !ok || id != 3 {
		t.Fatalf("unexpected batch id: %v %v", id, ok)
	}
	if rid, ok := services.RequestIDFromContext(ctx); !ok || rid != "req-123" {
		t.Fatalf("unexpected request id: %v %v", rid, ok)
	}
}

func TestZeroIdentifiersPreserveContext(t *testing.T) {
	ctx := context.Background()
	ctx = services.WithUserID(ctx, 0)
	ctx = services.WithRequestID(ctx, "")
	if _, ok := services.UserIDFromContext(ctx); ok {
		t.Fatal("expected no user id value")
	}
	if _, ok := services.RequestIDFromContext(ctx); ok {
		t.Fatal("expected no request id value")
	}
}
