package config

import (
	"testing"
	"time"
)

func TestLoad(t *testing.T) {
	t.Setenv("SERVER_ADDRESS", ":9090")
	t.Setenv("SHUTDOWN_TIMEOUT", "5s")
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("LLM_ENABLED", "true")
	t.Setenv("POOL_CACHE_TTL", "30s")
	t.Setenv("RECOMMENDATION_WORKERS", "4")

	cfg := Load()

	if cfg.ServerAddress != ":9090" || cfg.ShutdownTimeout != 5*time.Second {
		t.Errorf("unexpected server config %+v", cfg)
	}
	if !cfg.LLMEnabled || cfg.PoolCacheTTL != 30*time.Second || cfg.RecommendationWorkers != 4 {
		t.Errorf("expected overrides to apply, got %+v", cfg)
	}
	if cfg.DBPath != "examprep.db" || cfg.ProfileRetryAttempts != 3 {
		t.Errorf("expected defaults, got %q / %d", cfg.DBPath, cfg.ProfileRetryAttempts)
	}
}

func TestLoad_Tracing(t *testing.T) {
	t.Setenv("SERVER_ADDRESS", ":8080")
	t.Setenv("SHUTDOWN_TIMEOUT", "5s")
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("OTEL_EXPORTER", "stdout")
	t.Setenv("OTEL_SAMPLER_RATIO", "0.5")
	t.Setenv("CONSUL_ADDR", "consul:8500")

	cfg := Load()

	if cfg.TraceExporter != "stdout" || cfg.TraceSampleRatio != 0.5 {
		t.Errorf("unexpected tracing config %q / %v", cfg.TraceExporter, cfg.TraceSampleRatio)
	}
	if cfg.ConsulAddr != "consul:8500" || cfg.ServiceName != "examprep" {
		t.Errorf("unexpected discovery config %q / %q", cfg.ConsulAddr, cfg.ServiceName)
	}
}
