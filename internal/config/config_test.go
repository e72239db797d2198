package config

import (
	"testing"
	"time"
)

func TestLoad(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("GEMINI_API_KEY", " key-123 ")
	t.Setenv("GEMINI_MODEL", "models/gemini-test")
	t.Setenv("FETCH_TIMEOUT", "5s")
	t.Setenv("MODEL_TIMEOUT", "2m")
	t.Setenv("FETCH_MAX_BYTES", "1024")
	t.Setenv("FETCH_BLOCK_PRIVATE", "false")
	t.Setenv("RATE_LIMIT_ENRICH", "3/sec")
	t.Setenv("SEED_FILE", "/tmp/seed.yaml")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Port != "9000" || cfg.GeminiAPIKey != "key-123" || cfg.GeminiModel != "models/gemini-test" {
		t.Fatalf("unexpected config values: %+v", cfg)
	}
	if cfg.FetchTimeout != 5*time.Second || cfg.ModelTimeout != 2*time.Minute {
		t.Fatalf("unexpected timeouts: %s %s", cfg.FetchTimeout, cfg.ModelTimeout)
	}
	if cfg.FetchMaxBytes != 1024 || cfg.FetchBlockPrivate {
		t.Fatalf("unexpected fetch config: %+v", cfg)
	}
	if cfg.RateLimitEnrich.Requests != 3 || cfg.RateLimitEnrich.Interval != time.Second {
		t.Fatalf("unexpected rate limit config: %+v", cfg.RateLimitEnrich)
	}
	if cfg.SeedFile != "/tmp/seed.yaml" {
		t.Fatalf("unexpected seed file: %s", cfg.SeedFile)
	}

	// invalid rate limit should error
	t.Setenv("RATE_LIMIT_ENRICH", "xyz")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for invalid rate limit")
	}
}

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{
		"PORT", "GEMINI_API_KEY", "GEMINI_MODEL", "GEMINI_ENDPOINT", "FETCH_TIMEOUT", "MODEL_TIMEOUT",
		"FETCH_MAX_BYTES", "FETCH_BLOCK_PRIVATE", "RATE_LIMIT_ENRICH", "SEED_FILE", "LOG_LEVEL", "LOG_FORMAT",
	} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("missing api key must not fail startup: %v", err)
	}
	if cfg.Port != "8080" || cfg.GeminiModel != "models/gemini-2.5-flash" || cfg.GeminiAPIKey != "" {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.FetchTimeout != 15*time.Second || cfg.ModelTimeout != 60*time.Second {
		t.Fatalf("unexpected default timeouts: %s %s", cfg.FetchTimeout, cfg.ModelTimeout)
	}
	if cfg.RateLimitEnrich.Requests != 10 || cfg.RateLimitEnrich.Interval != time.Minute {
		t.Fatalf("unexpected default rate limit: %+v", cfg.RateLimitEnrich)
	}
	if cfg.LogLevel != "info" || cfg.LogFormat != "json" {
		t.Fatalf("unexpected logging defaults: %s %s", cfg.LogLevel, cfg.LogFormat)
	}
}

func TestParseRateLimit(t *testing.T) {
	cfg, err := parseRateLimit("5/sec")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Requests != 5 || cfg.Interval != time.Second {
		t.Fatalf("unexpected config: %+v", cfg)
	}

	if _, err := parseRateLimit("bad-format"); err == nil {
		t.Fatalf("expected error for malformed value")
	}
	if _, err := parseRateLimit("0/min"); err == nil {
		t.Fatalf("expected error for zero requests")
	}
	if _, err := parseRateLimit("5/day"); err == nil {
		t.Fatalf("expected error for unsupported unit")
	}
}

func TestParseDuration(t *testing.T) {
	if parseDuration("3h", time.Second) != 3*time.Hour {
		t.Fatalf("expected 3h duration")
	}
	if parseDuration("invalid", 15*time.Second) != 15*time.Second {
		t.Fatalf("expected fallback duration")
	}
	if parseDuration("-1s", 15*time.Second) != 15*time.Second {
		t.Fatalf("expected fallback for negative duration")
	}
}
