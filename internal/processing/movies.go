package processing

import (
	"context"
	"log/slog"
	"time"

	"github.com/spacesedan/reelpulse/config"
	"github.com/spacesedan/reelpulse/internal/metadata"
	"github.com/spacesedan/reelpulse/internal/scraper"
	"github.com/spacesedan/reelpulse/internal/table"
)

// FetchMovieInfo looks up every movie named in the movie list header and
// writes the metadata table.
func FetchMovieInfo(ctx context.Context, cfg *config.Config, api metadata.MovieAPI) error {
	slog.Info("[FetchMovieInfo] Fetching movie metadata...")
	start := time.Now()

	movies, err := scraper.LoadMovieList(cfg.Paths.Movies)
	if err != nil {
		return err
	}

	infos, err := metadata.NewFetcher(api).FetchAll(ctx, movies)
	if err != nil {
		return err
	}

	if err := table.WriteFile(cfg.Paths.MovieInfo, metadata.ToTable(infos)); err != nil {
		return err
	}

	slog.Info("[FetchMovieInfo] Successfully stored movie metadata",
		slog.String("path", cfg.Paths.MovieInfo),
		slog.Int("movies", len(infos)),
		slog.Duration("duration", time.Since(start)))
	return nil
}
