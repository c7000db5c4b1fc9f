package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spacesedan/reelpulse/config"
	"github.com/spacesedan/reelpulse/internal/clients"
	"github.com/spacesedan/reelpulse/internal/logging"
	"github.com/spacesedan/reelpulse/internal/scraper"
)

func main() {
	kindFlag := flag.String("kind", "reviews", "What to collect: reviews or dates")
	limit := flag.Int("limit", 0, "Scrape at most this many movies from the list (0 = all)")
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

	kind, err := scraper.ParseKind(*kindFlag)
	if err != nil {
		slog.Error("[Main] Invalid kind", slog.String("error", err.Error()))
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	movies, err := scraper.LoadMovieList(cfg.Paths.Movies)
	if err != nil {
		slog.Error("[Main] Failed to load movie list", slog.String("error", err.Error()))
		os.Exit(1)
	}
	if *limit > 0 && *limit < len(movies) {
		movies = movies[:*limit]
	}

	selectors, err := scraper.LoadSelectors(cfg.Scraper.SelectorsPath)
	if err != nil {
		slog.Error("[Main] Failed to load selectors", slog.String("error", err.Error()))
		os.Exit(1)
	}

	var opts []scraper.RunnerOption
	if cfg.UseValkey() {
		valkeyClient, err := clients.NewValkeyClient(ctx, cfg.Valkey)
		if err != nil {
			slog.Warn("[Main] Valkey unavailable, tracking progress in the output file",
				slog.String("error", err.Error()))
		} else {
			defer valkeyClient.Close()
			opts = append(opts, scraper.WithScrapedSet(valkeyClient))
		}
	}

	pool, err := scraper.NewBrowserPool()
	if err != nil {
		slog.Error("[Main] Failed to start browser", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer pool.Close()

	out := cfg.Paths.RawReviews
	if kind == scraper.KindDates {
		out = cfg.Paths.RawDates
	}

	summary, err := scraper.NewRunner(kind, pool, selectors, cfg.Scraper, out, opts...).Run(ctx, movies)
	slog.Info("[Main] Scrape finished",
		slog.String("kind", string(kind)),
		slog.Int("scraped", summary.Scraped),
		slog.Int("skipped", summary.Skipped),
		slog.Int("empty", summary.Empty),
		slog.Int("failed", summary.Failed))
	if err != nil {
		slog.Error("[Main] Scrape aborted", slog.String("error", err.Error()))
		pool.Close()
		os.Exit(1)
	}
}
