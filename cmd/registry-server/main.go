package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "go.uber.org/automaxprocs"

	"github.com/terra-clan/agent-registry/internal/api"
	"github.com/terra-clan/agent-registry/internal/cache"
	"github.com/terra-clan/agent-registry/internal/catalog"
	"github.com/terra-clan/agent-registry/internal/config"
	"github.com/terra-clan/agent-registry/internal/health"
	"github.com/terra-clan/agent-registry/internal/loader"
	"github.com/terra-clan/agent-registry/internal/refresh"
	"github.com/terra-clan/agent-registry/internal/registry"
	"github.com/terra-clan/agent-registry/internal/storage"
)

func main() {
	// Setup structured logging
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	slog.Info("starting registry-server",
		"host", cfg.Server.Host,
		"port", cfg.Server.Port,
		"source", cfg.Catalog.Source,
		"strict", cfg.Catalog.Strict,
	)

	// Create context for initialization
	initCtx, initCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer initCancel()

	checks := health.NewRegistry()

	// Catalog source
	var source registry.Source
	switch cfg.Catalog.Source {
	case config.SourcePostgres:
		pg, err := storage.NewPostgresSource(initCtx, storage.PostgresConfig{DSN: cfg.Database.DSN})
		if err != nil {
			slog.Error("failed to connect to database", "error", err)
			os.Exit(1)
		}
		defer pg.Close()

		slog.Info("running database migrations", "dir", cfg.Database.MigrationsDir)
		if _, err := pg.MigrateDir(initCtx, cfg.Database.MigrationsDir); err != nil {
			slog.Error("failed to run migrations", "error", err)
			os.Exit(1)
		}

		checker, err := health.NewPostgresChecker(cfg.Database.DSN)
		if err != nil {
			slog.Error("failed to create postgres health checker", "error", err)
			os.Exit(1)
		}
		defer checker.Close()
		checks.Register("postgres", checker)

		pg.RequireRecords = cfg.Catalog.Strict
		source = pg
	default:
		source = loader.NewDirSource(cfg.Catalog.Dir)
	}

	// Response cache
	var responses cache.Cache = cache.Noop{}
	if cfg.Redis.Address != "" {
		client, err := cache.Connect(initCtx, cfg.Redis.Address, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			slog.Error("failed to connect to redis", "error", err)
			os.Exit(1)
		}
		defer client.Close()
		responses = cache.NewRedisCache(client, cfg.Cache.TTL)
		checks.Register("redis", health.NewRedisChecker(client))
		slog.Info("response cache enabled", "address", cfg.Redis.Address, "ttl", cfg.Cache.TTL)
	}

	// Initial snapshot; the server does not start without one
	holder := catalog.NewHolder(nil)
	refresher := refresh.New(holder, source, registry.Options{Lenient: !cfg.Catalog.Strict}, cfg.Catalog.RefreshInterval)
	if _, err := refresher.Refresh(initCtx); err != nil {
		slog.Error("failed to load catalog", "source", source.Name(), "error", err)
		os.Exit(1)
	}

	server := api.NewServer(cfg.Server, holder, responses, checks)
	refresher.OnSwap(server.SnapshotSwapped)

	// Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Start refresh worker
	refresher.Start(ctx)

	httpServer := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      server.Router(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		slog.Info("HTTP server starting", "addr", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("HTTP server error", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down gracefully...")

	// Cancel context to stop background workers
	cancel()

	// Watchers are hijacked connections that Shutdown does not wait for
	server.Hub().Close()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	}

	slog.Info("registry-server stopped")
}
