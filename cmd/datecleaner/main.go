package main

import (
	"log/slog"
	"os"

	"github.com/spacesedan/reelpulse/config"
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

	if err := processing.CleanDates(cfg); err != nil {
		slog.Error("[Main] Date cleaning failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
