// Package app wires configuration, storage, ingestion and the HTTP
// server into a running service.
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/mhittle/mikenews/internal/account"
	"github.com/mhittle/mikenews/internal/api"
	"github.com/mhittle/mikenews/internal/auth"
	"github.com/mhittle/mikenews/internal/cache"
	"github.com/mhittle/mikenews/internal/config"
	"github.com/mhittle/mikenews/internal/ingest"
	"github.com/mhittle/mikenews/internal/logger"
	"github.com/mhittle/mikenews/internal/news"
	"github.com/mhittle/mikenews/internal/ratelimit"
	"github.com/mhittle/mikenews/internal/retry"
	"github.com/mhittle/mikenews/internal/rss"
	"github.com/mhittle/mikenews/internal/scheduler"
	"github.com/mhittle/mikenews/internal/scraper"
	"github.com/mhittle/mikenews/internal/storage"
)

// The postgres store backs both the API and the ingest pipeline.
var (
	_ api.Store    = (*storage.Postgres)(nil)
	_ ingest.Store = (*storage.Postgres)(nil)
)

// Run starts the service and blocks until shutdown.
func Run() error {
	logger.Init()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	store, err := storage.New(cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer store.Close()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := seedFeeds(ctx, store, cfg.FeedsConfigPath); err != nil {
		logger.Warn("feed seeding skipped", "error", err)
	}
	if err := ensureAdmin(ctx, store, cfg); err != nil {
		return fmt.Errorf("bootstrap admin: %w", err)
	}

	limiter := ratelimit.NewFetchLimiter(cfg.FetchDailyLimit)
	scr := scraper.New(cfg.RequestTimeout, limiter, retry.Config{
		MaxAttempts: cfg.RetryAttempts,
		Delay:       cfg.RetryDelay,
	})
	proc := ingest.New(store, scr, cache.New(), cfg.CacheTTL)

	sched := scheduler.New(cfg.FetchInterval)
	sched.Start(ctx, func(ctx context.Context) {
		if err := proc.ProcessAll(ctx); err != nil {
			logger.Error("scheduled processing failed", "error", err)
		}
	})
	defer sched.Stop()

	// First pass right away so a fresh deployment has articles before
	// the first tick.
	go func() {
		if err := proc.ProcessAll(ctx); err != nil {
			logger.Error("initial processing failed", "error", err)
		}
	}()

	router := api.NewRouter(store, auth.New(cfg.JWTSecret, cfg.TokenTTL), proc)
	srv := &http.Server{
		Addr:    cfg.ListenAddr,
		Handler: router,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server listening", "addr", cfg.ListenAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShutdown()
	return srv.Shutdown(shutdownCtx)
}

// seedFeeds registers the bundled feed list, skipping URLs already
// present. A missing feeds file is not fatal; feeds can still be added
// through the API.
func seedFeeds(ctx context.Context, store *storage.Postgres, path string) error {
	configs, err := rss.LoadFeeds(path)
	if err != nil {
		return err
	}

	feeds := make([]news.Feed, 0, len(configs))
	for _, fc := range configs {
		feeds = append(feeds, news.Feed{
			ID:       uuid.NewString(),
			URL:      fc.URL,
			Name:     fc.Name,
			Category: fc.Category,
			Region:   fc.Region,
			Active:   true,
		})
	}

	added, err := store.SeedFeeds(ctx, feeds)
	if err != nil {
		return err
	}
	if added > 0 {
		logger.Info("seeded feeds", "added", added)
	}
	return nil
}

// ensureAdmin creates the bootstrap admin account when ADMIN_PASSWORD
// is set and the user does not exist yet.
func ensureAdmin(ctx context.Context, store *storage.Postgres, cfg *config.Config) error {
	if cfg.AdminPassword == "" {
		return nil
	}

	_, err := store.GetUserByUsername(ctx, cfg.AdminUsername)
	if err == nil {
		return nil
	}
	if !errors.Is(err, storage.ErrNotFound) {
		return err
	}

	hash, err := auth.HashPassword(cfg.AdminPassword)
	if err != nil {
		return err
	}
	admin := account.User{
		ID:           uuid.NewString(),
		Username:     cfg.AdminUsername,
		Email:        cfg.AdminUsername + "@example.com",
		PasswordHash: hash,
		Preferences:  account.DefaultPreferences(),
		CreatedAt:    time.Now().UTC(),
	}
	if err := store.CreateUser(ctx, admin); err != nil {
		return err
	}
	logger.Info("admin account created", "username", cfg.AdminUsername)
	return nil
}
