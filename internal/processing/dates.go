package processing

import (
	"log/slog"

	"github.com/spacesedan/reelpulse/config"
	"github.com/spacesedan/reelpulse/internal/datenorm"
	"github.com/spacesedan/reelpulse/internal/table"
)

// CleanDates rewrites the raw date table with canonical YYYY-MM-DD cells.
func CleanDates(cfg *config.Config) error {
	raw, err := table.ReadFile(cfg.Paths.RawDates)
	if err != nil {
		return err
	}

	cleaned := datenorm.New(datenorm.WithYearPivot(cfg.Dates.YearPivot)).NormalizeTable(raw)
	if err := table.WriteFile(cfg.Paths.CleanDates, cleaned); err != nil {
		return err
	}

	slog.Info("[DateCleaner] Wrote cleaned dates",
		slog.String("path", cfg.Paths.CleanDates),
		slog.Int("dates", cleaned.CountValues()))
	return nil
}
