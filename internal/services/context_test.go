package services_test

import (
	"context"
	"testing"

	"bilistage/internal/services"
)

func TestContextHelpers(t *testing.T) {
	ctx := context.Background()
	ctx = services.WithStage(ctx, "split")
	ctx = services.WithTitle(ctx, "龙门镖局S01E02")
	ctx = services.WithRequestID(ctx, "req-123")

	if stage, ok := services.StageFromContext(ctx); !ok || stage != "split" {
		t.Fatalf("unexpected stage: %v %v", stage, ok)
	}
	if title, ok := services.TitleFromContext(ctx); !ok || title != "龙门镖局S01E02" {
		t.Fatalf("unexpected title: %v %v", title, ok)
	}
	if rid, ok := services.RequestIDFromContext(ctx); !ok || rid != "req-123" {
		t.Fatalf("unexpected request id: %v %v", rid, ok)
	}
}

func TestBlankValuesPreserveContext(t *testing.T) {
	ctx := context.Background()
	ctx = services.WithStage(ctx, "")
	ctx = services.WithTitle(ctx, "")
	if _, ok := services.StageFromContext(ctx); ok {
		t.Fatal("expected no stage value")
	}
	if _, ok := services.TitleFromContext(ctx); ok {
		t.Fatal("expected no title value")
	}
}
