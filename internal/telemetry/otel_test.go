package telemetry

import (
	"context"
	"testing"

	"github.com/blaisecz/sleep-analytics/internal/config"
)

func TestInitTracer_NoEndpoint(t *testing.T) {
	shutdown, err := InitTracer(context.Background(), &config.Config{ServiceName: "test"})
	if err != nil {
		t.Fatalf("InitTracer() error = %v", err)
	}
	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("noop shutdown error = %v", err)
	}
}

func TestInitTracer_WithEndpoint(t *testing.T) {
	shutdown, err := InitTracer(context.Background(), &config.Config{
		ServiceName:  "test",
		OTLPEndpoint: "http://127.0.0.1:4318",
	})
	if err != nil {
		t.Fatalf("InitTracer() error = %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	// nothing was recorded, so shutdown has nothing to flush
	_ = shutdown(ctx)
}
