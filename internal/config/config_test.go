package config

import (
	"testing"
	"time"

	"github.com/blaisecz/sleep-analytics/internal/analytics"
	"github.com/blaisecz/sleep-analytics/internal/importer"
	"go.uber.org/zap"
)

func TestGetEnv(t *testing.T) {
	t.Setenv("CFG_VALUE", "custom")
	if got := getEnv("CFG_VALUE", "default"); got != "custom" {
		t.Fatalf("getEnv returned %q, want custom", got)
	}

	// Empty environment value should fall back to default
	t.Setenv("CFG_EMPTY", "")
	if got := getEnv("CFG_EMPTY", "fallback"); got != "fallback" {
		t.Fatalf("getEnv returned %q, want fallback", got)
	}
}

func TestLoad(t *testing.T) {
	for _, key := range []string{
		"PORT", "DATABASE_URL", "LOG_LEVEL", "LOG_FORMAT", "SEED",
		"OTEL_SERVICE_NAME", "OTEL_EXPORTER_OTLP_ENDPOINT",
		"IMPORT_DUPLICATE_TOLERANCE", "ANALYTICS_ANOMALY_STDDEVS", "ANALYTICS_MIN_DAILY_HOURS",
	} {
		t.Setenv(key, "")
	}

	cfg := Load()
	if cfg.Port != "8080" || cfg.DatabaseURL == "" || cfg.LogLevel != "info" || cfg.LogFormat != "json" {
		t.Fatalf("defaults not applied: %+v", cfg)
	}
	if cfg.Seed {
		t.Fatalf("expected Seed default false")
	}
	if cfg.OTLPEndpoint != "" || cfg.ServiceName != "sleep-analytics-api" {
		t.Fatalf("telemetry defaults not applied: %+v", cfg)
	}
	if cfg.DuplicateTolerance != importer.DefaultDuplicateTolerance {
		t.Fatalf("DuplicateTolerance = %v, want default", cfg.DuplicateTolerance)
	}

	// Custom values override defaults
	t.Setenv("PORT", "9090")
	t.Setenv("DATABASE_URL", "postgres://example")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("SEED", "true")
	t.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "http://collector:4318")
	t.Setenv("IMPORT_DUPLICATE_TOLERANCE", "10m")
	t.Setenv("ANALYTICS_ANOMALY_STDDEVS", "1.5")
	t.Setenv("ANALYTICS_MIN_DAILY_HOURS", "3")

	cfg = Load()
	if cfg.Port != "9090" || cfg.DatabaseURL != "postgres://example" || cfg.LogLevel != "debug" || !cfg.Seed {
		t.Fatalf("env overrides not applied: %+v", cfg)
	}
	if cfg.OTLPEndpoint != "http://collector:4318" {
		t.Fatalf("endpoint override missing: %+v", cfg)
	}
	if cfg.Import().DuplicateTolerance != 10*time.Minute {
		t.Fatalf("import tolerance = %v, want 10m", cfg.Import().DuplicateTolerance)
	}
	ac := cfg.Analytics()
	if ac.AnomalyStdDevs != 1.5 || ac.MinDailySleepHours != 3 {
		t.Fatalf("analytics overrides missing: %+v", ac)
	}
	if ac.TrendSlopeThreshold != analytics.DefaultTrendSlopeThreshold {
		t.Fatalf("untouched analytics constants must keep defaults")
	}
}

func TestLoad_InvalidNumbersFallBack(t *testing.T) {
	t.Setenv("IMPORT_DUPLICATE_TOLERANCE", "soon")
	t.Setenv("ANALYTICS_ANOMALY_STDDEVS", "-1")
	t.Setenv("ANALYTICS_MIN_DAILY_HOURS", "many")

	cfg := Load()
	if cfg.DuplicateTolerance != importer.DefaultDuplicateTolerance {
		t.Fatalf("DuplicateTolerance = %v, want default", cfg.DuplicateTolerance)
	}
	if cfg.AnomalyStdDevs != analytics.DefaultAnomalyStdDevs || cfg.MinDailySleepHours != analytics.DefaultMinDailySleepHours {
		t.Fatalf("invalid numbers must fall back to defaults: %+v", cfg)
	}
}

func TestNewLogger(t *testing.T) {
	for _, format := range []string{"json", "console"} {
		logger, err := NewLogger("debug", format, "sleep-analytics-api")
		if err != nil {
			t.Fatalf("NewLogger(%s) error = %v", format, err)
		}
		if !logger.Core().Enabled(zap.DebugLevel) {
			t.Fatalf("debug level not enabled for %s", format)
		}
	}
}
