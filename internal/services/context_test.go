package services_test

import (
	"context"
	"testing"

	"lyricalign/internal/services"
)

func TestRunIDRoundTrip(t *testing.T) {
	ctx := services.WithRunID(context.Background(), "run-123")
	if id, ok := services.RunIDFromContext(ctx); !ok || id != "run-123" {
		t.Fatalf("unexpected run id: %v %v", id, ok)
	}
}

func TestRunIDBlankPreservesContext(t *testing.T) {
	ctx := services.WithRunID(context.Background(), "")
	if _, ok := services.RunIDFromContext(ctx); ok {
		t.Fatal("expected no run id value")
	}
}
