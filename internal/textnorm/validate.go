package textnorm

import (
	"log/slog"
	"math/rand/v2"
	"strings"

	"github.com/spacesedan/reelpulse/internal/table"
)

// ValidationReport summarises a post-normalization spot check.
type ValidationReport struct {
	Sampled           int
	ResidualArtifacts int
	NonTarget         int
	EmojiPreserved    int
}

// Validator samples normalized cells and logs anything that still looks
// wrong. It never modifies the table.
type Validator struct {
	detector   Detector
	target     string
	sampleSize int
	rng        *rand.Rand
}

// NewValidator returns a Validator sampling up to sampleSize cells per
// column. The seed makes sampling reproducible.
func NewValidator(detector Detector, target string, sampleSize int, seed uint64) *Validator {
	if target == "" {
		target = "en"
	}
	return &Validator{
		detector:   detector,
		target:     target,
		sampleSize: sampleSize,
		rng:        rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
	}
}

// Validate checks a sample of every column for residual mojibake and for
// text still outside the target language, and counts emoji kept across
// the whole table.
func (v *Validator) Validate(t *table.Table) ValidationReport {
	var report ValidationReport

	for _, col := range t.Columns {
		values := col.Values()
		if len(values) == 0 {
			continue
		}

		k := min(v.sampleSize, len(values))
		for _, idx := range v.rng.Perm(len(values))[:k] {
			text := values[idx]
			report.Sampled++

			if HasResidualArtifacts(text) {
				report.ResidualArtifacts++
				slog.Warn("[TextValidator] Residual encoding artifacts",
					slog.String("column", col.Name),
					slog.String("preview", preview(text)))
			}

			stripped, _ := ExtractEmoji(text)
			if strings.TrimSpace(stripped) == "" {
				continue
			}
			if lang := v.detector.Detect(stripped); lang != v.target && lang != LangUnknown {
				report.NonTarget++
				slog.Warn("[TextValidator] Text not in target language",
					slog.String("column", col.Name),
					slog.String("language", lang),
					slog.String("preview", preview(text)))
			}
		}

		found := 0
		for _, text := range values {
			found += CountEmoji(text)
		}
		if found > 0 {
			slog.Debug("[TextValidator] Emoji kept in column",
				slog.String("column", col.Name),
				slog.Int("emoji", found))
		}
		report.EmojiPreserved += found
	}

	slog.Info("[TextValidator] Validation complete",
		slog.Int("sampled", report.Sampled),
		slog.Int("residual_artifacts", report.ResidualArtifacts),
		slog.Int("non_target", report.NonTarget),
		slog.Int("emoji_preserved", report.EmojiPreserved))

	return report
}
