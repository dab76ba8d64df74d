package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig
	Engine    EngineConfig
	Cache     CacheConfig
	RateLimit RateLimitConfig
	Log       LogConfig
}

// ServerConfig controls the HTTP server.
type ServerConfig struct {
	Host string // default: "0.0.0.0"
	Port int    // default: 8080
	Mode string // "debug", "release", "test"; default: "release"
}

// EngineConfig controls the strategy orchestrator.
type EngineConfig struct {
	// StrategyTimeout bounds each individual strategy attempt.
	StrategyTimeout time.Duration // default: 20s
}

// CacheConfig controls the URL cache.
type CacheConfig struct {
	// MaxEntries is the FIFO capacity of the cache.
	MaxEntries int // default: 100

	// TTL is the per-entry lifetime.
	TTL time.Duration // default: 10m
}

// RateLimitConfig controls per-client rate limiting.
type RateLimitConfig struct {
	// RequestsPerSecond is the sustained rate per client IP.
	RequestsPerSecond float64 // default: 5

	// Burst is the maximum burst size per client IP.
	Burst int // default: 10
}

// LogConfig controls structured logging.
type LogConfig struct {
	Level  string // default: "info"
	Format string // "json" or "text"; default: "json"
}

// Load reads configuration from environment variables with sane defaults.
func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Host: envOr("READMODE_HOST", "0.0.0.0"),
			Port: envIntOr("READMODE_PORT", 8080),
			Mode: envOr("READMODE_MODE", "release"),
		},
		Engine: EngineConfig{
			StrategyTimeout: envDurationOr("READMODE_TIMEOUT", 20*time.Second),
		},
		Cache: CacheConfig{
			MaxEntries: envIntOr("READMODE_CACHE_MAX", 100),
			TTL:        envDurationOr("READMODE_CACHE_TTL", 10*time.Minute),
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: envFloatOr("READMODE_RATE_RPS", 5.0),
			Burst:             envIntOr("READMODE_RATE_BURST", 10),
		},
		Log: LogConfig{
			Level:  envOr("READMODE_LOG_LEVEL", "info"),
			Format: envOr("READMODE_LOG_FORMAT", "json"),
		},
	}
}

// --- helper functions ---

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envIntOr(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func envFloatOr(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func envDurationOr(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
