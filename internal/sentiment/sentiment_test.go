package sentiment

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spacesedan/reelpulse/internal/models"
	"github.com/spacesedan/reelpulse/internal/table"
)

func newScorer() *Scorer {
	return NewScorer(DefaultPositiveThreshold, DefaultNegativeThreshold)
}

func TestLabelThresholds(t *testing.T) {
	s := newScorer()

	tests := map[float64]string{
		0.05:   models.LabelPositive,
		0.9:    models.LabelPositive,
		-0.05:  models.LabelNegative,
		-0.7:   models.LabelNegative,
		0.0:    models.LabelNeutral,
		0.049:  models.LabelNeutral,
		-0.049: models.LabelNeutral,
	}
	for score, want := range tests {
		assert.Equal(t, want, s.Label(score), "score %v", score)
	}
}

func TestScore(t *testing.T) {
	s := newScorer()

	score, label := s.Score("i LOVE this movie it is wonderful")
	assert.Greater(t, score, 0.05)
	assert.Equal(t, models.LabelPositive, label)

	score, label = s.Score("this movie is TERRIBLE and boring")
	assert.Less(t, score, -0.05)
	assert.Equal(t, models.LabelNegative, label)

	_, label = s.Score("the movie is a movie")
	assert.Equal(t, models.LabelNeutral, label)
}

func TestPlainText(t *testing.T) {
	s := newScorer()

	assert.Equal(t, "see this now", s.PlainText("see [this](https://example.com) now"))
	assert.Equal(t, "bold and fine", s.PlainText("**bold** and <b>fine</b> https://x.co"))
}

func TestAnalyze_LongFormatWithDates(t *testing.T) {
	reviews := table.New()
	reviews.AddColumn("Barbie (2023)", []string{"i love it", "", "awful"})
	reviews.AddColumn("Joker (2019)", []string{"it is a movie"})

	dates := table.New()
	dates.AddColumn("Barbie (2023)", []string{"2023-07-21", "2023-07-22", "2023-07-23"})

	records := newScorer().Analyze(reviews, dates)
	require.Len(t, records, 3)

	assert.Equal(t, "Barbie (2023)", records[0].Movie)
	assert.Equal(t, "i love it", records[0].Review)
	assert.Equal(t, models.LabelPositive, records[0].SentimentLabel)
	assert.Equal(t, "2023-07-21", records[0].Date)

	assert.Equal(t, "awful", records[1].Review)
	assert.Equal(t, models.LabelNegative, records[1].SentimentLabel)
	assert.Equal(t, "2023-07-23", records[1].Date)

	assert.Equal(t, "Joker (2019)", records[2].Movie)
	assert.Empty(t, records[2].Date)

	for _, r := range records {
		_, err := uuid.Parse(r.ReviewID)
		assert.NoError(t, err)
	}
}

func TestAnalyze_StableReviewIDs(t *testing.T) {
	reviews := table.New()
	reviews.AddColumn("Barbie (2023)", []string{"good", "good", "bad"})
	reviews.AddColumn("Joker (2019)", []string{"good"})

	first := newScorer().Analyze(reviews, nil)
	second := newScorer().Analyze(reviews, nil)
	require.Len(t, first, 4)
	require.Len(t, second, 4)

	seen := map[string]bool{}
	for i := range first {
		assert.Equal(t, first[i].ReviewID, second[i].ReviewID)
		assert.False(t, seen[first[i].ReviewID], "duplicate id %s", first[i].ReviewID)
		seen[first[i].ReviewID] = true
	}
}

func TestAnalyze_NoDates(t *testing.T) {
	reviews := table.New()
	reviews.AddColumn("m", []string{"good"})

	records := newScorer().Analyze(reviews, nil)
	require.Len(t, records, 1)
	assert.Empty(t, records[0].Date)
}

func TestTableRoundTrip(t *testing.T) {
	in := []models.ReviewSentiment{
		{ReviewID: "a", Movie: "m", Review: "good", SentimentScore: 0.4404, SentimentLabel: models.LabelPositive, Date: "2023-01-05"},
		{ReviewID: "b", Movie: "m", Review: "meh", SentimentScore: 0, SentimentLabel: models.LabelNeutral},
	}

	tb := ToTable(in)
	assert.Equal(t, []string{ColReviewID, ColMovie, ColReview, ColScore, ColLabel, ColDate}, tb.Names())

	out, err := FromTable(tb)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestFromTable_MissingColumn(t *testing.T) {
	tb := table.New()
	tb.AddColumn(ColMovie, []string{"m"})

	_, err := FromTable(tb)
	assert.Error(t, err)
}
