// Package config loads runtime settings from the environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	// Storage settings
	DatabaseURL string

	// HTTP settings
	ListenAddr string

	// Auth settings
	JWTSecret     string
	TokenTTL      time.Duration
	AdminUsername string
	AdminPassword string // admin bootstrap only happens when set

	// Ingest settings
	FeedsConfigPath string
	FetchInterval   time.Duration
	RequestTimeout  time.Duration
	RetryAttempts   int
	RetryDelay      time.Duration
	FetchDailyLimit int
	CacheTTL        time.Duration

	// App settings
	Debug bool
}

func Load() (*Config, error) {
	cfg := &Config{
		ListenAddr:      getEnvOrDefault("LISTEN_ADDR", ":8000"),
		JWTSecret:       getEnvOrDefault("JWT_SECRET", "a_default_secret_key_for_development_only"),
		TokenTTL:        time.Duration(getEnvIntOrDefault("TOKEN_TTL_HOURS", 7*24)) * time.Hour,
		AdminUsername:   getEnvOrDefault("ADMIN_USERNAME", "admin"),
		FeedsConfigPath: getEnvOrDefault("FEEDS_CONFIG_PATH", "configs/feeds.yaml"),
		FetchInterval:   time.Duration(getEnvIntOrDefault("FETCH_INTERVAL_MINUTES", 60)) * time.Minute,
		RequestTimeout:  time.Duration(getEnvIntOrDefault("REQUEST_TIMEOUT_SECONDS", 15)) * time.Second,
		RetryAttempts:   3,
		RetryDelay:      5 * time.Second,
		FetchDailyLimit: getEnvIntOrDefault("FETCH_DAILY_LIMIT", 500),
		CacheTTL:        time.Duration(getEnvIntOrDefault("CACHE_TTL_HOURS", 24)) * time.Hour,
	}

	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	cfg.AdminPassword = os.Getenv("ADMIN_PASSWORD")

	if v := os.Getenv("RETRY_ATTEMPTS"); v != "" {
		if val, err := strconv.Atoi(v); err == nil && val > 0 {
			cfg.RetryAttempts = val
		}
	}
	if v := os.Getenv("RETRY_DELAY_SECONDS"); v != "" {
		if val, err := strconv.Atoi(v); err == nil && val > 0 {
			cfg.RetryDelay = time.Duration(val) * time.Second
		}
	}

	if debug := os.Getenv("DEBUG"); debug == "true" {
		cfg.Debug = true
	}

	return cfg, cfg.Validate()
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func (c *Config) Validate() error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	if c.TokenTTL <= 0 {
		return fmt.Errorf("TOKEN_TTL_HOURS must be positive")
	}
	if c.FetchInterval <= 0 {
		return fmt.Errorf("FETCH_INTERVAL_MINUTES must be positive")
	}
	return nil
}
