package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spacesedan/reelpulse/config"
	"github.com/spacesedan/reelpulse/internal/clients"
	"github.com/spacesedan/reelpulse/internal/logging"
	"github.com/spacesedan/reelpulse/internal/processing"
)

func main() {
	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "dev"
	}
	config.LoadEnv(env)

	cfg, err := config.Load()
	if err != nil {
		slog.Error("[Main] Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}
	logging.InitLogger(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	tmdb, err := clients.NewTMDBClient(cfg.TMDB)
	if err != nil {
		slog.Error("[Main] Failed to create TMDB client", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if err := processing.FetchMovieInfo(ctx, cfg, tmdb); err != nil {
		slog.Error("[Main] Metadata fetch failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
