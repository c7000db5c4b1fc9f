package processing

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"

	"github.com/spacesedan/reelpulse/config"
	"github.com/spacesedan/reelpulse/internal/metadata"
	"github.com/spacesedan/reelpulse/internal/models"
	"github.com/spacesedan/reelpulse/internal/report"
	"github.com/spacesedan/reelpulse/internal/sentiment"
	"github.com/spacesedan/reelpulse/internal/table"
)

// SentimentSource lists stored scored reviews. db.SentimentStore
// implements it.
type SentimentSource interface {
	All(ctx context.Context) ([]models.ReviewSentiment, error)
}

// BuildReport aggregates scored reviews, read from source when it is
// non-nil and from the analyzed CSV otherwise, writes the JSON report and
// prints a summary to w.
func BuildReport(ctx context.Context, cfg *config.Config, source SentimentSource, w io.Writer) (*report.Report, error) {
	records, err := loadSentiments(ctx, cfg, source)
	if err != nil {
		return nil, err
	}

	infos, err := loadMovieInfo(cfg.Paths.MovieInfo)
	if err != nil {
		return nil, err
	}

	rep := report.Build(records, infos)
	if err := report.WriteJSON(cfg.Paths.Report, rep); err != nil {
		return nil, err
	}

	if w != nil {
		if err := report.PrintSummary(w, rep); err != nil {
			return rep, err
		}
	}
	return rep, nil
}

func loadSentiments(ctx context.Context, cfg *config.Config, source SentimentSource) ([]models.ReviewSentiment, error) {
	if source != nil {
		return source.All(ctx)
	}

	t, err := table.ReadFile(cfg.Paths.Sentiment)
	if err != nil {
		return nil, err
	}
	return sentiment.FromTable(t)
}

// loadMovieInfo treats a missing metadata file as empty.
func loadMovieInfo(path string) ([]models.MovieInfo, error) {
	t, err := table.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		slog.Warn("[Report] No movie metadata, reporting without it", slog.String("path", path))
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return metadata.FromTable(t)
}
