package services_test

import (
	"context"
	"testing"

	"spyglass/internal/services"
)

func TestContextHelpers(t *testing.T) {
	ctx := context.Background()
	ctx = services.WithRequestID(ctx, "req-123")
	ctx = services.WithIdentifier(ctx, "clip-search//////")
	ctx = services.WithCamera(ctx, "front_door")

	if rid, ok := services.RequestIDFromContext(ctx); !ok || rid != "req-123" {
		t.Fatalf("unexpected request id: %v %v", rid, ok)
	}
	if id, ok := services.IdentifierFromContext(ctx); !ok || id != "clip-search//////" {
		t.Fatalf("unexpected identifier: %v %v", id, ok)
	}
	if camera, ok := services.CameraFromContext(ctx); !ok || camera != "front_door" {
		t.Fatalf("unexpected camera: %v %v", camera, ok)
	}
}

func TestBlankValuesPreserveContext(t *testing.T) {
	ctx := context.Background()
	ctx = services.WithRequestID(ctx, "")
	ctx = services.WithIdentifier(ctx, "")
	ctx = services.WithCamera(ctx, "")

	if _, ok := services.RequestIDFromContext(ctx); ok {
		t.Fatal("expected no request id value")
	}
	if _, ok := services.IdentifierFromContext(ctx); ok {
		t.Fatal("expected no identifier value")
	}
	if _, ok := services.CameraFromContext(ctx); ok {
		t.Fatal("expected no camera value")
	}
}
