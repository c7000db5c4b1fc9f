package scraper

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spacesedan/reelpulse/config"
	"github.com/spacesedan/reelpulse/internal/table"
)

// fakePage serves one batch of texts per Texts call. Batches past the end
// repeat the last one.
type fakePage struct {
	batches   [][]string
	calls     int
	pages     int
	nextErr   error
	navigated []string
}

func (p *fakePage) Navigate(_ context.Context, url string) error {
	p.navigated = append(p.navigated, url)
	return nil
}

func (p *fakePage) ScrollToBottom(context.Context) error { return nil }

func (p *fakePage) Texts(context.Context, string, string) ([]string, error) {
	i := min(p.calls, len(p.batches)-1)
	p.calls++
	return p.batches[i], nil
}

func (p *fakePage) ClickNext(context.Context, string, string) (bool, error) {
	if p.nextErr != nil {
		return false, p.nextErr
	}
	if p.pages <= 0 {
		return false, nil
	}
	p.pages--
	return true, nil
}

type directTabs struct{}

func (directTabs) WithTab(ctx context.Context, fn func(context.Context) error) error {
	return fn(ctx)
}

type memorySet map[string]bool

func (m memorySet) IsScraped(_ context.Context, kind, movie string) (bool, error) {
	return m[kind+"/"+movie], nil
}

func (m memorySet) MarkScraped(_ context.Context, kind, movie string) error {
	m[kind+"/"+movie] = true
	return nil
}

func testSelectors(t *testing.T) *Selectors {
	t.Helper()
	sel, err := ParseSelectors([]byte(`
reviews: {item: div.review, text: div.truncate}
dates: {item: span.date, text: span._nobr}
pagination: {next: a.next}
`))
	require.NoError(t, err)
	return sel
}

func TestSlug(t *testing.T) {
	tests := map[string]string{
		"Barbie":                         "barbie",
		"The Godfather":                  "the-godfather",
		"Am\u00e9lie":                    "amelie",
		"Spider-Man: No Way Home":        "spider-man-no-way-home",
		"L\u00e9on -- The Professional ": "leon-the-professional",
		"Crouching Tiger, Hidden Dragon": "crouching-tiger-hidden-dragon",
	}
	for in, want := range tests {
		assert.Equal(t, want, Slug(in), in)
	}
}

func TestURLs(t *testing.T) {
	assert.Equal(t, "https://letterboxd.com/film/the-godfather/reviews/by/date/", ReviewsURL("https://letterboxd.com", "The Godfather"))
	assert.Equal(t, "https://letterboxd.com/film/barbie/reviews/by/activity/", DatesURL("https://letterboxd.com/", "Barbie"))
}

func TestParseSelectors_Incomplete(t *testing.T) {
	_, err := ParseSelectors([]byte("reviews: {item: div.review}"))
	assert.ErrorIs(t, err, ErrIncompleteSelectors)

	_, err = ParseSelectors([]byte("reviews: [unclosed"))
	assert.Error(t, err)
}

func TestLoadSelectors_RepoFile(t *testing.T) {
	sel, err := LoadSelectors(filepath.Join("..", "..", "config", "selectors.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "a.next", sel.Pagination.Next)
}

func TestCollectReviews_StopsWhenNothingNew(t *testing.T) {
	page := &fakePage{batches: [][]string{
		{"great", "", "great", "bad"},
		{"great", "bad", "fine"},
		{"great", "bad", "fine"},
	}}

	got, err := CollectReviews(context.Background(), page, ItemSelector{}, "m", Limits{Max: 10})
	require.NoError(t, err)
	assert.Equal(t, []string{"great", "bad", "fine"}, got)
	assert.Equal(t, 3, page.calls)
}

func TestCollectReviews_RespectsLimit(t *testing.T) {
	page := &fakePage{batches: [][]string{{"a", "b", "c", "d"}}}

	got, err := CollectReviews(context.Background(), page, ItemSelector{}, "m", Limits{Max: 2})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, got)
	assert.Equal(t, 1, page.calls)
}

func TestCollectDates_IdleRounds(t *testing.T) {
	page := &fakePage{
		batches: [][]string{{"01 Jan 2024"}, {"01 Jan 2024"}},
		pages:   10,
	}

	got, err := CollectDates(context.Background(), page, ItemSelector{}, "a.next", "m", Limits{Max: 10, MaxIdleRounds: 2})
	require.NoError(t, err)
	assert.Equal(t, []string{"01 Jan 2024"}, got)
	assert.Equal(t, 3, page.calls, "one productive page then two idle ones")
}

func TestCollectDates_KeepsRepeatedDates(t *testing.T) {
	page := &fakePage{
		batches: [][]string{
			{"01 Jan 2024", " ", "01 Jan 2024", "02 Jan 2024"},
			{"02 Jan 2024", "03 Jan 2024"},
		},
		pages: 10,
	}

	got, err := CollectDates(context.Background(), page, ItemSelector{}, "a.next", "m", Limits{Max: 10, MaxIdleRounds: 2})
	require.NoError(t, err)
	assert.Equal(t, []string{"01 Jan 2024", "01 Jan 2024", "02 Jan 2024", "02 Jan 2024", "03 Jan 2024"}, got)
	assert.Equal(t, 4, page.calls, "two productive pages then two repeats")
}

func TestCollectDates_RespectsLimit(t *testing.T) {
	page := &fakePage{batches: [][]string{{"a", "a", "a"}}, pages: 10}

	got, err := CollectDates(context.Background(), page, ItemSelector{}, "a.next", "m", Limits{Max: 2, MaxIdleRounds: 2})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "a"}, got)
	assert.Equal(t, 1, page.calls)
}

func TestCollectDates_StopsWithoutNextPage(t *testing.T) {
	page := &fakePage{batches: [][]string{{"a"}, {"b"}, {"c"}}, pages: 1}

	got, err := CollectDates(context.Background(), page, ItemSelector{}, "a.next", "m", Limits{Max: 10, MaxIdleRounds: 3})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, got)
}

func TestCollectDates_NextPageError(t *testing.T) {
	page := &fakePage{batches: [][]string{{"a"}}, nextErr: errors.New("timeout")}

	got, err := CollectDates(context.Background(), page, ItemSelector{}, "a.next", "m", Limits{Max: 10, MaxIdleRounds: 3})
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, got)
}

func TestCollect_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := CollectReviews(ctx, &fakePage{batches: [][]string{{"a"}}}, ItemSelector{}, "m", Limits{Max: 1})
	assert.ErrorIs(t, err, context.Canceled)
}

func newTestRunner(t *testing.T, kind Kind, out string, page *fakePage, opts ...RunnerOption) *Runner {
	t.Helper()
	cfg := config.ScraperConfig{
		BaseURL:         "https://letterboxd.com",
		ReviewsPerMovie: 5,
		DatesPerMovie:   5,
		MaxIdleRounds:   1,
	}
	r := NewRunner(kind, directTabs{}, testSelectors(t), cfg, out, opts...)
	r.newPage = func() Page {
		page.calls = 0
		return page
	}
	return r
}

func TestRunner_AppendsColumnsAndSkipsExisting(t *testing.T) {
	out := filepath.Join(t.TempDir(), "raw_reviews.csv")
	existing := table.New()
	existing.AddColumn("Barbie (2023)", []string{"old"})
	require.NoError(t, table.WriteFile(out, existing))

	page := &fakePage{batches: [][]string{{"loved it", "meh"}}}
	r := newTestRunner(t, KindReviews, out, page)

	summary, err := r.Run(context.Background(), []string{"Barbie (2023)", "Joker (2019)"})
	require.NoError(t, err)
	assert.Equal(t, Summary{Scraped: 1, Skipped: 1}, summary)
	assert.Equal(t, []string{"https://letterboxd.com/film/joker-2019/reviews/by/date/"}, page.navigated)

	got, err := table.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, []string{"Barbie (2023)", "Joker (2019)"}, got.Names())
	col, ok := got.Column("Joker (2019)")
	require.True(t, ok)
	assert.Equal(t, []string{"loved it", "meh"}, col.Values())
}

func TestRunner_SetTracker(t *testing.T) {
	out := filepath.Join(t.TempDir(), "raw_dates.csv")
	set := memorySet{"dates/Barbie (2023)": true}

	page := &fakePage{batches: [][]string{{"05 Jan 2024"}}}
	r := newTestRunner(t, KindDates, out, page, WithScrapedSet(set))

	summary, err := r.Run(context.Background(), []string{"Barbie (2023)", "Joker (2019)"})
	require.NoError(t, err)
	assert.Equal(t, Summary{Scraped: 1, Skipped: 1}, summary)
	assert.True(t, set["dates/Joker (2019)"])
	assert.Equal(t, []string{"https://letterboxd.com/film/joker-2019/reviews/by/activity/"}, page.navigated)
}

func TestRunner_EmptyMovieNotWritten(t *testing.T) {
	out := filepath.Join(t.TempDir(), "raw_reviews.csv")
	page := &fakePage{batches: [][]string{{}}}

	summary, err := newTestRunner(t, KindReviews, out, page).Run(context.Background(), []string{"Nothing"})
	require.NoError(t, err)
	assert.Equal(t, Summary{Empty: 1}, summary)

	_, err = os.Stat(out)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestParseKind(t *testing.T) {
	k, err := ParseKind(" Dates ")
	require.NoError(t, err)
	assert.Equal(t, KindDates, k)

	_, err = ParseKind("posters")
	assert.Error(t, err)
}

func TestLoadMovieList(t *testing.T) {
	path := filepath.Join(t.TempDir(), "movies.csv")
	require.NoError(t, os.WriteFile(path, []byte("Barbie (2023),Joker (2019), \n"), 0o644))

	movies, err := LoadMovieList(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"Barbie (2023)", "Joker (2019)"}, movies)
}
