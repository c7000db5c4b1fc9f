package processing

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spacesedan/reelpulse/config"
	"github.com/spacesedan/reelpulse/internal/clients"
	"github.com/spacesedan/reelpulse/internal/models"
	"github.com/spacesedan/reelpulse/internal/sentiment"
	"github.com/spacesedan/reelpulse/internal/table"
)

type englishDetector struct{}

func (englishDetector) Detect(string) string { return "en" }

type memorySink struct {
	records []models.ReviewSentiment
	err     error
}

func (m *memorySink) BatchInsert(_ context.Context, results []models.ReviewSentiment) error {
	m.records = append(m.records, results...)
	return m.err
}

func (m *memorySink) All(context.Context) ([]models.ReviewSentiment, error) {
	return m.records, m.err
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()
	return &config.Config{
		Paths: config.PathsConfig{
			RawReviews:   filepath.Join(dir, "raw_reviews.csv"),
			CleanReviews: filepath.Join(dir, "cleaned_reviews.csv"),
			RawDates:     filepath.Join(dir, "raw_dates.csv"),
			CleanDates:   filepath.Join(dir, "cleaned_dates.csv"),
			Movies:       filepath.Join(dir, "movies.csv"),
			MovieInfo:    filepath.Join(dir, "movie_info.csv"),
			Sentiment:    filepath.Join(dir, "analyzed_reviews.csv"),
			Report:       filepath.Join(dir, "report.json"),
		},
		Normalizer: config.NormalizerConfig{TargetLanguage: "en", ValidationSample: 5},
		Dates:      config.DatesConfig{YearPivot: 50},
		Sentiment:  config.SentimentConfig{PositiveThreshold: 0.05, NegativeThreshold: -0.05},
	}
}

func writeCSV(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func column(t *testing.T, path, name string) []string {
	t.Helper()
	tb, err := table.ReadFile(path)
	require.NoError(t, err)
	col, ok := tb.Column(name)
	require.True(t, ok, name)
	return col.Values()
}

func TestNewTranslator(t *testing.T) {
	tr, err := NewTranslator(config.TranslatorConfig{Backend: config.BackendNone})
	require.NoError(t, err)
	assert.Nil(t, tr)

	_, err = NewTranslator(config.TranslatorConfig{Backend: config.BackendOpenAI})
	assert.ErrorIs(t, err, clients.ErrMissingOpenAIKey)

	tr, err = NewTranslator(config.TranslatorConfig{Backend: config.BackendGoogle, RPS: 1})
	require.NoError(t, err)
	assert.IsType(t, &clients.GoogleTranslateClient{}, tr)
}

func TestCleanReviews(t *testing.T) {
	cfg := testConfig(t)
	writeCSV(t, cfg.Paths.RawReviews, "Barbie (2023),Joker (2019)\n"+
		"I didn't like it!!!,<b>So DARK</b> https://x.co\n"+
		"...,Great acting\n")

	report, err := CleanReviews(context.Background(), cfg, englishDetector{}, nil)
	require.NoError(t, err)
	assert.Equal(t, 3, report.Sampled)
	assert.Zero(t, report.NonTarget)

	assert.Equal(t, []string{"i did not like it!!!"}, column(t, cfg.Paths.CleanReviews, "Barbie (2023)"))
	assert.Equal(t, []string{"so dark", "great acting"}, column(t, cfg.Paths.CleanReviews, "Joker (2019)"))
}

func TestCleanReviews_MissingInput(t *testing.T) {
	_, err := CleanReviews(context.Background(), testConfig(t), englishDetector{}, nil)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestCleanDates(t *testing.T) {
	cfg := testConfig(t)
	writeCSV(t, cfg.Paths.RawDates, "Barbie (2023)\n21 Jul 2023\nnot a date\n07/22/2023\n")

	require.NoError(t, CleanDates(cfg))

	tb, err := table.ReadFile(cfg.Paths.CleanDates)
	require.NoError(t, err)
	col, _ := tb.Column("Barbie (2023)")
	require.Equal(t, 3, tb.Rows())
	assert.Equal(t, "2023-07-21", *col.Cell(0))
	assert.Nil(t, col.Cell(1))
	assert.Equal(t, "2023-07-22", *col.Cell(2))
}

func TestAnalyzeAndReport(t *testing.T) {
	cfg := testConfig(t)
	writeCSV(t, cfg.Paths.CleanReviews, "Barbie (2023)\ni love it\nawful and boring\n")
	writeCSV(t, cfg.Paths.CleanDates, "Barbie (2023)\n2023-07-21\n2023-07-22\n")
	writeCSV(t, cfg.Paths.MovieInfo, "title,director,user_score\nBarbie (2023),Greta Gerwig,7.1\n")

	sink := &memorySink{}
	records, err := AnalyzeSentiment(context.Background(), cfg, sink)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, records, sink.records)
	assert.Equal(t, "2023-07-22", records[1].Date)

	tb, err := table.ReadFile(cfg.Paths.Sentiment)
	require.NoError(t, err)
	stored, err := sentiment.FromTable(tb)
	require.NoError(t, err)
	assert.Len(t, stored, 2)

	var out bytes.Buffer
	rep, err := BuildReport(context.Background(), cfg, nil, &out)
	require.NoError(t, err)
	require.Len(t, rep.Movies, 1)
	assert.Equal(t, 1, rep.Movies[0].Distribution[models.LabelPositive])
	assert.Equal(t, 1, rep.Movies[0].Distribution[models.LabelNegative])
	require.NotNil(t, rep.Movies[0].Info)
	assert.Contains(t, out.String(), "Greta Gerwig")
	assert.FileExists(t, cfg.Paths.Report)

	rep, err = BuildReport(context.Background(), cfg, sink, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, rep.Movies[0].Reviews)
}

func TestAnalyzeSentiment_WithoutDatesAndSinkError(t *testing.T) {
	cfg := testConfig(t)
	writeCSV(t, cfg.Paths.CleanReviews, "Joker (2019)\nit was sad\n")

	sink := &memorySink{err: errors.New("throttled")}
	records, err := AnalyzeSentiment(context.Background(), cfg, sink)
	require.Error(t, err)
	require.Len(t, records, 1)
	assert.Empty(t, records[0].Date)
	assert.FileExists(t, cfg.Paths.Sentiment)
}

func TestBuildReport_WithoutMetadata(t *testing.T) {
	cfg := testConfig(t)
	writeCSV(t, cfg.Paths.Sentiment, "review_id,movie,review,sentiment_score,sentiment_label,date\n"+
		"a,Joker (2019),sad,-0.4767,Negative,2019-10-04\n")

	rep, err := BuildReport(context.Background(), cfg, nil, nil)
	require.NoError(t, err)
	require.Len(t, rep.Movies, 1)
	assert.Nil(t, rep.Movies[0].Info)
}

func TestFetchMovieInfo_MissingList(t *testing.T) {
	err := FetchMovieInfo(context.Background(), testConfig(t), nil)
	assert.ErrorIs(t, err, os.ErrNotExist)
}
