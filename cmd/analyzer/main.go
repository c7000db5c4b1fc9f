package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spacesedan/reelpulse/config"
	"github.com/spacesedan/reelpulse/internal/clients"
	"github.com/spacesedan/reelpulse/internal/db"
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

	var sink processing.SentimentSink
	if cfg.Sentiment.DynamoDBEnabled {
		client, err := clients.NewDynamoDBClient(ctx, cfg.AWS)
		if err != nil {
			slog.Error("[Main] Failed to create DynamoDB client", slog.String("error", err.Error()))
			os.Exit(1)
		}
		sink = db.NewSentimentStore(client, cfg.Sentiment.TableName)
	}

	if _, err := processing.AnalyzeSentiment(ctx, cfg, sink); err != nil {
		slog.Error("[Main] Sentiment analysis failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
