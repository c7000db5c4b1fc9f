package textnorm

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/spacesedan/reelpulse/internal/table"
)

// NormalizeTable cleans a wide review table. Every cell is encoding
// repaired first; columns whose share of non-target-language cells
// exceeds the translate threshold are translated cell by cell, dropping
// cells that cannot be translated; rows left empty are removed; finally
// every cell goes through the cleaning pipeline.
func (n *Normalizer) NormalizeTable(ctx context.Context, t *table.Table) *table.Table {
	slog.Info("[TextNormalizer] Repairing encoding",
		slog.Int("columns", len(t.Columns)),
		slog.Int("cells", t.CountValues()))

	repaired := t.Map(func(_, v string) *string {
		return table.Str(RepairEncoding(v))
	})

	for i := range repaired.Columns {
		n.translateColumn(ctx, &repaired.Columns[i])
	}

	translated := repaired.DropEmptyRows()

	cleaned := translated.Map(func(_, v string) *string {
		out, ok := n.Clean(v)
		if !ok {
			return nil
		}
		return &out
	}).DropEmptyRows()

	hits, misses := n.cache.Stats()
	slog.Info("[TextNormalizer] Table normalized",
		slog.Int("rows", cleaned.Rows()),
		slog.Int("reviews", cleaned.CountValues()),
		slog.Int("cache_hits", hits),
		slog.Int("cache_misses", misses))

	return cleaned
}

func (n *Normalizer) translateColumn(ctx context.Context, col *table.Column) {
	langs := make([]string, len(col.Cells))
	total, foreign := 0, 0

	for j, v := range col.Cells {
		if v == nil {
			continue
		}
		total++

		stripped, _ := ExtractEmoji(*v)
		if strings.TrimSpace(stripped) == "" {
			langs[j] = n.opts.TargetLanguage
			continue
		}

		langs[j] = n.detector.Detect(stripped)
		if langs[j] != n.opts.TargetLanguage {
			foreign++
		}
	}

	if total == 0 || foreign == 0 {
		return
	}

	share := float64(foreign) / float64(total)
	if share <= n.opts.TranslateThreshold {
		slog.Info("[TextNormalizer] Keeping column untranslated",
			slog.String("column", col.Name),
			slog.String("non_target", fmt.Sprintf("%.1f%%", share*100)))
		return
	}

	slog.Info("[TextNormalizer] Translating column",
		slog.String("column", col.Name),
		slog.String("non_target", fmt.Sprintf("%.1f%%", share*100)))

	dropped := 0
	for j, v := range col.Cells {
		if v == nil || langs[j] == n.opts.TargetLanguage {
			continue
		}

		stripped, emojis := ExtractEmoji(*v)
		translated, ok := n.toTarget(ctx, stripped, langs[j])
		if !ok {
			col.Cells[j] = nil
			dropped++
			continue
		}

		if len(emojis) > 0 {
			translated = translated + " " + strings.Join(emojis, " ")
		}
		col.Cells[j] = table.Str(translated)
	}

	if dropped > 0 {
		slog.Warn("[TextNormalizer] Dropped untranslatable reviews",
			slog.String("column", col.Name),
			slog.Int("dropped", dropped))
	}
}
