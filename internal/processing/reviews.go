package processing

import (
	"context"
	"log/slog"
	"time"

	"github.com/spacesedan/reelpulse/config"
	"github.com/spacesedan/reelpulse/internal/table"
	"github.com/spacesedan/reelpulse/internal/textnorm"
)

// CleanReviews normalizes the raw review table and writes the cleaned
// table, then spot-checks the result.
func CleanReviews(ctx context.Context, cfg *config.Config, detector textnorm.Detector, translator textnorm.Translator) (textnorm.ValidationReport, error) {
	start := time.Now()

	raw, err := table.ReadFile(cfg.Paths.RawReviews)
	if err != nil {
		return textnorm.ValidationReport{}, err
	}

	slog.Info("[ReviewCleaner] Loaded raw reviews",
		slog.String("path", cfg.Paths.RawReviews),
		slog.Int("movies", len(raw.Columns)),
		slog.Int("reviews", raw.CountValues()))

	n := textnorm.New(detector, translator, textnorm.Options{
		PreserveTerms:      cfg.Normalizer.PreserveTerms,
		TargetLanguage:     cfg.Normalizer.TargetLanguage,
		TranslateThreshold: cfg.Normalizer.TranslateThreshold,
	})

	cleaned := n.NormalizeTable(ctx, raw)
	if err := ctx.Err(); err != nil {
		return textnorm.ValidationReport{}, err
	}

	if err := table.WriteFile(cfg.Paths.CleanReviews, cleaned); err != nil {
		return textnorm.ValidationReport{}, err
	}

	report := textnorm.NewValidator(detector, cfg.Normalizer.TargetLanguage, cfg.Normalizer.ValidationSample, uint64(start.UnixNano())).
		Validate(cleaned)

	slog.Info("[ReviewCleaner] Wrote cleaned reviews",
		slog.String("path", cfg.Paths.CleanReviews),
		slog.Int("reviews", cleaned.CountValues()),
		slog.Int("residual_artifacts", report.ResidualArtifacts),
		slog.Int("non_target", report.NonTarget),
		slog.Int("emoji", report.EmojiPreserved),
		slog.Duration("duration", time.Since(start)))

	return report, nil
}
