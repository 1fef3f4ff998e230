package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/mikenews_test")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("expected defaults to load, got %v", err)
	}

	if cfg.ListenAddr != ":8000" {
		t.Errorf("expected default listen addr :8000, got %q", cfg.ListenAddr)
	}
	if cfg.TokenTTL != 7*24*time.Hour {
		t.Errorf("expected 7 day token TTL, got %v", cfg.TokenTTL)
	}
	if cfg.FetchInterval != time.Hour {
		t.Errorf("expected hourly fetch interval, got %v", cfg.FetchInterval)
	}
	if cfg.FetchDailyLimit != 500 {
		t.Errorf("expected default fetch limit 500, got %d", cfg.FetchDailyLimit)
	}
	if cfg.AdminUsername != "admin" || cfg.AdminPassword != "" {
		t.Errorf("expected admin defaults, got %q/%q", cfg.AdminUsername, cfg.AdminPassword)
	}
	if cfg.FeedsConfigPath != "configs/feeds.yaml" {
		t.Errorf("expected default feeds path, got %q", cfg.FeedsConfigPath)
	}
}

func TestLoadRequiresDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")

	if _, err := Load(); err == nil {
		t.Fatal("expected error when DATABASE_URL is unset")
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/mikenews_test")
	t.Setenv("LISTEN_ADDR", ":9100")
	t.Setenv("FETCH_INTERVAL_MINUTES", "15")
	t.Setenv("TOKEN_TTL_HOURS", "48")
	t.Setenv("RETRY_ATTEMPTS", "5")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.ListenAddr != ":9100" {
		t.Errorf("expected listen addr override, got %q", cfg.ListenAddr)
	}
	if cfg.FetchInterval != 15*time.Minute {
		t.Errorf("expected 15m fetch interval, got %v", cfg.FetchInterval)
	}
	if cfg.TokenTTL != 48*time.Hour {
		t.Errorf("expected 48h token TTL, got %v", cfg.TokenTTL)
	}
	if cfg.RetryAttempts != 5 {
		t.Errorf("expected retry override, got %d", cfg.RetryAttempts)
	}
}

func TestLoadIgnoresMalformedInts(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/mikenews_test")
	t.Setenv("FETCH_INTERVAL_MINUTES", "soon")
	t.Setenv("RETRY_ATTEMPTS", "-2")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.FetchInterval != time.Hour {
		t.Errorf("malformed interval must keep default, got %v", cfg.FetchInterval)
	}
	if cfg.RetryAttempts != 3 {
		t.Errorf("non-positive retries must keep default, got %d", cfg.RetryAttempts)
	}
}
