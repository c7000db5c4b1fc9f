package main

import (
	"context"
	"flag"
	"io"
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
	fromDynamo := flag.Bool("dynamodb", false, "Read scored reviews from DynamoDB instead of the analyzed CSV")
	quiet := flag.Bool("quiet", false, "Skip the console summary")
	flag.Parse()

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

	var source processing.SentimentSource
	if *fromDynamo {
		client, err := clients.NewDynamoDBClient(ctx, cfg.AWS)
		if err != nil {
			slog.Error("[Main] Failed to create DynamoDB client", slog.String("error", err.Error()))
			os.Exit(1)
		}
		source = db.NewSentimentStore(client, cfg.Sentiment.TableName)
	}

	var out io.Writer = os.Stdout
	if *quiet {
		out = nil
	}

	if _, err := processing.BuildReport(ctx, cfg, source, out); err != nil {
		slog.Error("[Main] Report failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
