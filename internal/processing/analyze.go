package processing

import (
	"context"
	"errors"
	"log/slog"
	"os"

	"github.com/spacesedan/reelpulse/config"
	"github.com/spacesedan/reelpulse/internal/models"
	"github.com/spacesedan/reelpulse/internal/sentiment"
	"github.com/spacesedan/reelpulse/internal/table"
)

// SentimentSink receives scored reviews. db.SentimentStore implements it.
type SentimentSink interface {
	BatchInsert(ctx context.Context, results []models.ReviewSentiment) error
}

// AnalyzeSentiment scores the cleaned reviews, joins the cleaned dates when
// that table exists, and writes the long table. A non-nil sink also gets
// every record.
func AnalyzeSentiment(ctx context.Context, cfg *config.Config, sink SentimentSink) ([]models.ReviewSentiment, error) {
	reviews, err := table.ReadFile(cfg.Paths.CleanReviews)
	if err != nil {
		return nil, err
	}

	dates, err := table.ReadFile(cfg.Paths.CleanDates)
	switch {
	case err == nil:
		if dates.Rows() < reviews.Rows() {
			slog.Warn("[SentimentAnalyzer] Date table is shorter than the review table",
				slog.Int("date_rows", dates.Rows()),
				slog.Int("review_rows", reviews.Rows()))
		}
	case errors.Is(err, os.ErrNotExist):
		slog.Warn("[SentimentAnalyzer] No cleaned dates, scoring without dates",
			slog.String("path", cfg.Paths.CleanDates))
		dates = nil
	default:
		return nil, err
	}

	scorer := sentiment.NewScorer(cfg.Sentiment.PositiveThreshold, cfg.Sentiment.NegativeThreshold)
	records := scorer.Analyze(reviews, dates)

	if err := table.WriteFile(cfg.Paths.Sentiment, sentiment.ToTable(records)); err != nil {
		return nil, err
	}
	slog.Info("[SentimentAnalyzer] Wrote analyzed reviews",
		slog.String("path", cfg.Paths.Sentiment),
		slog.Int("reviews", len(records)))

	if sink != nil {
		if err := sink.BatchInsert(ctx, records); err != nil {
			return records, err
		}
	}

	return records, nil
}
