package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// RateLimitConfig indicates how many requests are allowed within a given interval.
type RateLimitConfig struct {
	Requests int
	Interval time.Duration
}

// Config aggregates application-wide configuration values.
type Config struct {
	Port              string
	GeminiAPIKey      string
	GeminiModel       string
	GeminiEndpoint    string
	FetchTimeout      time.Duration
	ModelTimeout      time.Duration
	FetchMaxBytes     int64
	FetchBlockPrivate bool
	RateLimitEnrich   RateLimitConfig
	SeedFile          string
	LogLevel          string
	LogFormat         string
}

// Load reads configuration from environment variables and applies sane defaults.
// A missing GEMINI_API_KEY is not an error here; enrichment reports it per request.
func Load() (*Config, error) {
	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("PORT", "8080")
	v.SetDefault("GEMINI_MODEL", "models/gemini-2.5-flash")
	v.SetDefault("FETCH_TIMEOUT", "15s")
	v.SetDefault("MODEL_TIMEOUT", "60s")
	v.SetDefault("FETCH_MAX_BYTES", 5<<20)
	v.SetDefault("FETCH_BLOCK_PRIVATE", true)
	v.SetDefault("RATE_LIMIT_ENRICH", "10/min")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	cfg := &Config{
		Port:              stringOr(v.GetString("PORT"), "8080"),
		GeminiAPIKey:      strings.TrimSpace(v.GetString("GEMINI_API_KEY")),
		GeminiModel:       stringOr(v.GetString("GEMINI_MODEL"), "models/gemini-2.5-flash"),
		GeminiEndpoint:    v.GetString("GEMINI_ENDPOINT"),
		FetchTimeout:      parseDuration(v.GetString("FETCH_TIMEOUT"), 15*time.Second),
		ModelTimeout:      parseDuration(v.GetString("MODEL_TIMEOUT"), 60*time.Second),
		FetchMaxBytes:     v.GetInt64("FETCH_MAX_BYTES"),
		FetchBlockPrivate: v.GetBool("FETCH_BLOCK_PRIVATE"),
		SeedFile:          v.GetString("SEED_FILE"),
		LogLevel:          stringOr(v.GetString("LOG_LEVEL"), "info"),
		LogFormat:         stringOr(v.GetString("LOG_FORMAT"), "json"),
	}
	if cfg.FetchMaxBytes <= 0 {
		return nil, fmt.Errorf("invalid FETCH_MAX_BYTES value: %q", v.GetString("FETCH_MAX_BYTES"))
	}

	rl, err := parseRateLimit(stringOr(v.GetString("RATE_LIMIT_ENRICH"), "10/min"))
	if err != nil {
		return nil, fmt.Errorf("invalid RATE_LIMIT_ENRICH value: %w", err)
	}
	cfg.RateLimitEnrich = rl

	return cfg, nil
}

func parseRateLimit(value string) (RateLimitConfig, error) {
	parts := strings.Split(value, "/")
	if len(parts) != 2 {
		return RateLimitConfig{}, fmt.Errorf("expected format <requests>/<interval>, got %q", value)
	}

	requests, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil || requests <= 0 {
		return RateLimitConfig{}, fmt.Errorf("invalid request count: %v", parts[0])
	}

	unit := strings.ToLower(strings.TrimSpace(parts[1]))
	var interval time.Duration
	switch unit {
	case "s", "sec", "second", "seconds":
		interval = time.Second
	case "m", "min", "minute", "minutes":
		interval = time.Minute
	case "h", "hr", "hour", "hours":
		interval = time.Hour
	default:
		return RateLimitConfig{}, fmt.Errorf("unsupported interval unit: %s", unit)
	}

	return RateLimitConfig{Requests: requests, Interval: interval}, nil
}

func stringOr(val, fallback string) string {
	if strings.TrimSpace(val) == "" {
		return fallback
	}
	return val
}

func parseDuration(input string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(input)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}
