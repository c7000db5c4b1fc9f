package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spacesedan/reelpulse/config"
	"github.com/spacesedan/reelpulse/internal/logging"
	"github.com/spacesedan/reelpulse/internal/processing"
	"github.com/spacesedan/reelpulse/internal/textnorm"
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

	translator, err := processing.NewTranslator(cfg.Translator)
	if err != nil {
		slog.Error("[Main] Failed to create translator", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if _, err := processing.CleanReviews(ctx, cfg, textnorm.NewWhatlangDetector(), translator); err != nil {
		slog.Error("[Main] Review cleaning failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
