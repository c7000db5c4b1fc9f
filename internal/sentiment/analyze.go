package sentiment

import (
	"log/slog"
	"strconv"

	"github.com/google/uuid"

	"github.com/spacesedan/reelpulse/internal/models"
	"github.com/spacesedan/reelpulse/internal/table"
)

// Analyze scores every review of the wide table, column by column and top
// to bottom. When dates is non-nil, each review takes the date found in
// the same column and row of the date table.
func (s *Scorer) Analyze(reviews, dates *table.Table) []models.ReviewSentiment {
	var results []models.ReviewSentiment
	counts := map[string]int{}

	for _, col := range reviews.Columns {
		var dateCol *table.Column
		if dates != nil {
			dateCol, _ = dates.Column(col.Name)
		}

		for row, cell := range col.Cells {
			if cell == nil {
				continue
			}

			score, label := s.Score(*cell)
			counts[label]++

			rec := models.ReviewSentiment{
				ReviewID:       reviewID(col.Name, row, *cell),
				Movie:          col.Name,
				Review:         *cell,
				SentimentScore: score,
				SentimentLabel: label,
			}
			if dateCol != nil {
				if d := dateCol.Cell(row); d != nil {
					rec.Date = *d
				}
			}
			results = append(results, rec)
		}
	}

	slog.Info("[SentimentAnalyzer] Reviews scored",
		slog.Int("movies", len(reviews.Columns)),
		slog.Int("reviews", len(results)),
		slog.Int("positive", counts[models.LabelPositive]),
		slog.Int("negative", counts[models.LabelNegative]),
		slog.Int("neutral", counts[models.LabelNeutral]))

	return results
}

// reviewID derives a name-based UUID from the review's position and text,
// so rerunning the analyzer on the same table yields the same keys and
// DynamoDB writes overwrite instead of duplicating.
func reviewID(movie string, row int, review string) string {
	name := movie + "\x00" + strconv.Itoa(row) + "\x00" + review
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(name)).String()
}
