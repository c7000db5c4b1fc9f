package sentiment

import (
	"fmt"
	"strconv"

	"github.com/spacesedan/reelpulse/internal/models"
	"github.com/spacesedan/reelpulse/internal/table"
)

// Long-table column names.
const (
	ColReviewID = "review_id"
	ColMovie    = "movie"
	ColReview   = "review"
	ColScore    = "sentiment_score"
	ColLabel    = "sentiment_label"
	ColDate     = "date"
)

// ToTable lays records out as a long table, one row per review.
func ToTable(records []models.ReviewSentiment) *table.Table {
	cols := map[string][]string{}
	for _, r := range records {
		cols[ColReviewID] = append(cols[ColReviewID], r.ReviewID)
		cols[ColMovie] = append(cols[ColMovie], r.Movie)
		cols[ColReview] = append(cols[ColReview], r.Review)
		cols[ColScore] = append(cols[ColScore], strconv.FormatFloat(r.SentimentScore, 'f', 4, 64))
		cols[ColLabel] = append(cols[ColLabel], r.SentimentLabel)
		cols[ColDate] = append(cols[ColDate], r.Date)
	}

	t := table.New()
	for _, name := range []string{ColReviewID, ColMovie, ColReview, ColScore, ColLabel, ColDate} {
		t.AddColumn(name, cols[name])
	}
	return t
}

// FromTable reads records back from a long table. The date column is
// optional.
func FromTable(t *table.Table) ([]models.ReviewSentiment, error) {
	required := []string{ColMovie, ColReview, ColScore, ColLabel}
	for _, name := range required {
		if !t.HasColumn(name) {
			return nil, fmt.Errorf("[SentimentAnalyzer] missing column %q", name)
		}
	}

	get := func(name string, row int) string {
		col, ok := t.Column(name)
		if !ok {
			return ""
		}
		if v := col.Cell(row); v != nil {
			return *v
		}
		return ""
	}

	records := make([]models.ReviewSentiment, 0, t.Rows())
	for row := 0; row < t.Rows(); row++ {
		review := get(ColReview, row)
		if review == "" {
			continue
		}

		score, err := strconv.ParseFloat(get(ColScore, row), 64)
		if err != nil {
			return nil, fmt.Errorf("[SentimentAnalyzer] row %d: bad score: %w", row+1, err)
		}

		records = append(records, models.ReviewSentiment{
			ReviewID:       get(ColReviewID, row),
			Movie:          get(ColMovie, row),
			Review:         review,
			SentimentScore: score,
			SentimentLabel: get(ColLabel, row),
			Date:           get(ColDate, row),
		})
	}
	return records, nil
}
