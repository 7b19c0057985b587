package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.ServerURL != "http://localhost:8080" {
		t.Errorf("ServerURL = %s", cfg.ServerURL)
	}
	if cfg.ReloadDebounce != 150*time.Millisecond {
		t.Errorf("ReloadDebounce = %v", cfg.ReloadDebounce)
	}
	if cfg.BulkConcurrency != 8 {
		t.Errorf("BulkConcurrency = %d", cfg.BulkConcurrency)
	}
	if !cfg.SSEEnabled {
		t.Error("SSE should default to enabled")
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("FILEBOX_SERVER_URL", "https://drive.example.com")
	t.Setenv("RELOAD_DEBOUNCE", "300ms")
	t.Setenv("BULK_CONCURRENCY", "2")
	t.Setenv("SSE_ENABLED", "false")

	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.ServerURL != "https://drive.example.com" {
		t.Errorf("ServerURL = %s", cfg.ServerURL)
	}
	if cfg.ReloadDebounce != 300*time.Millisecond {
		t.Errorf("ReloadDebounce = %v", cfg.ReloadDebounce)
	}
	if cfg.BulkConcurrency != 2 {
		t.Errorf("BulkConcurrency = %d", cfg.BulkConcurrency)
	}
	if cfg.SSEEnabled {
		t.Error("SSE override not applied")
	}
}

func TestLoadRejectsBadConcurrency(t *testing.T) {
	t.Setenv("BULK_CONCURRENCY", "0")
	if _, err := Load(); err == nil {
		t.Error("BULK_CONCURRENCY=0 should be rejected")
	}
}
