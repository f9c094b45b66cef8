package services_test

import (
	"context"
	"testing"

	"orato/internal/services"
)

func TestContextHelpers(t *testing.T) {
	ctx := context.Background()
	ctx = services.WithPipeline(ctx, "presentation")
	ctx = services.WithStage(ctx, "speech")
	ctx = services.WithRequestID(ctx, "req-123")

	if pipeline, ok := services.PipelineFromContext(ctx); !ok || pipeline != "presentation" {
		t.Fatalf("unexpected pipeline: %v %v", pipeline, ok)
	}
	if stage, ok := services.StageFromContext(ctx); !ok || stage != "speech" {
		t.Fatalf("unexpected stage: %v %v", stage, ok)
	}
	if rid, ok := services.RequestIDFromContext(ctx); !ok || rid != "req-123" {
		t.Fatalf("unexpected request id: %v %v", rid, ok)
	}
}

func TestBlankValuesPreserveContext(t *testing.T) {
	ctx := context.Background()
	ctx = services.WithStage(ctx, "")
	ctx = services.WithPipeline(ctx, "")
	if _, ok := services.StageFromContext(ctx); ok {
		t.Fatal("expected no stage value")
	}
	if _, ok := services.PipelineFromContext(ctx); ok {
		t.Fatal("expected no pipeline value")
	}
}
