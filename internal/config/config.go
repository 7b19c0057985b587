// Package config loads configuration from environment variables.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds all client configuration.
type Config struct {
	// Server
	ServerURL   string
	MetricsAddr string

	// Logging
	LogLevel  string
	LogFormat string

	// Engine
	ReloadDebounce  time.Duration
	BulkConcurrency int
	RequestTimeout  time.Duration
	SSEEnabled      bool

	// Breadcrumb folder cache
	FolderCacheSize int
	FolderCacheTTL  time.Duration
}

// Load reads configuration from environment variables with defaults.
func Load() (*Config, error) {
	cfg := &Config{
		ServerURL:       envOr("FILEBOX_SERVER_URL", "http://localhost:8080"),
		MetricsAddr:     envOr("METRICS_ADDR", ""),
		LogLevel:        envOr("LOG_LEVEL", "info"),
		LogFormat:       envOr("LOG_FORMAT", "console"),
		ReloadDebounce:  envDuration("RELOAD_DEBOUNCE", 150*time.Millisecond),
		BulkConcurrency: envInt("BULK_CONCURRENCY", 8),
		RequestTimeout:  envDuration("REQUEST_TIMEOUT", 30*time.Second),
		SSEEnabled:      envBool("SSE_ENABLED", true),
		FolderCacheSize: envInt("FOLDER_CACHE_SIZE", 256),
		FolderCacheTTL:  envDuration("FOLDER_CACHE_TTL", 5*time.Minute),
	}

	if cfg.ServerURL == "" {
		return nil, fmt.Errorf("FILEBOX_SERVER_URL is required")
	}
	if cfg.BulkConcurrency < 1 {
		return nil, fmt.Errorf("BULK_CONCURRENCY must be at least 1")
	}

	return cfg, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}

func envInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return i
}

func envDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}
