package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"poap2rss/internal/cache"
	"poap2rss/internal/config"
	"poap2rss/internal/ens"
	"poap2rss/internal/poap"
	"poap2rss/internal/server"
	"poap2rss/internal/service"
	"poap2rss/internal/storage/memory"
	"poap2rss/internal/storage/postgres"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	flag.Parse()

	// Setup logger
	logger := setupLogger("info")

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger = setupLogger(cfg.LogLevel)

	// Pick the cache store
	var store cache.Store
	switch cfg.Cache.Driver {
	case "postgres":
		db, err := sqlx.Connect("postgres", cfg.Database.DSN())
		if err != nil {
			logger.Error("failed to connect to database", "error", err)
			os.Exit(1)
		}
		defer db.Close()

		if err := db.Ping(); err != nil {
			logger.Error("failed to ping database", "error", err)
			os.Exit(1)
		}
		logger.Info("connected to database", "cache_table", cfg.Cache.Table)
		store = postgres.NewCacheStore(db, cfg.Cache.Table)
	case "memory":
		store = memory.NewCacheStore()
	default:
		logger.Error("unknown cache driver", "driver", cfg.Cache.Driver)
		os.Exit(1)
	}

	// Upstream client with its credential manager
	auth := poap.NewAuthenticator(poap.AuthConfig{
		AuthURL:      cfg.POAP.AuthURL,
		Audience:     cfg.POAP.Audience,
		ClientID:     cfg.POAP.ClientID,
		ClientSecret: cfg.POAP.ClientSecret,
		Margin:       cfg.POAP.TokenMargin,
		Timeout:      cfg.POAP.Timeout,
	}, logger)

	client := poap.NewClient(poap.ClientConfig{
		BaseURL: cfg.POAP.BaseURL,
		APIKey:  cfg.POAP.APIKey,
		Timeout: cfg.POAP.Timeout,
	}, auth, logger)

	resolver := ens.New(ens.Config{
		BaseURL: cfg.ENS.BaseURL,
		Timeout: cfg.ENS.Timeout,
	}, logger)

	feedService := service.NewFeedService(
		client,
		cache.New(store, logger),
		resolver,
		logger,
		service.Config{
			CacheTTL:            cfg.Cache.TTL,
			RecentClaimsLimit:   cfg.Feed.RecentClaimsLimit,
			InactivityThreshold: time.Duration(cfg.Feed.InactivityThresholdWeeks) * 7 * 24 * time.Hour,
		},
	)

	srv := server.New(feedService, logger, server.Config{
		RequestTimeout: cfg.Server.RequestTimeout,
		CacheTTL:       cfg.Cache.TTL,
	})

	httpServer := &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: srv.Handler(),
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigCh
		logger.Info("received shutdown signal", "signal", sig)
		cancel()
	}()

	go func() {
		<-ctx.Done()
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		_ = httpServer.Shutdown(shutdownCtx)
	}()

	logger.Info("starting poap2rss server",
		"addr", cfg.Server.Addr,
		"cache_driver", cfg.Cache.Driver,
		"cache_ttl", cfg.Cache.TTL,
		"inactivity_threshold_weeks", cfg.Feed.InactivityThresholdWeeks,
	)

	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
}

func setupLogger(level string) *slog.Logger {
	var logLevel slog.Level
	switch level {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: logLevel}
	handler := slog.NewJSONHandler(os.Stdout, opts)
	return slog.New(handler)
}
