package scraper

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/spacesedan/reelpulse/config"
	"github.com/spacesedan/reelpulse/internal/table"
)

// Kind selects what a Runner collects.
type Kind string

const (
	KindReviews Kind = "reviews"
	KindDates   Kind = "dates"
)

func ParseKind(s string) (Kind, error) {
	switch k := Kind(strings.ToLower(strings.TrimSpace(s))); k {
	case KindReviews, KindDates:
		return k, nil
	default:
		return "", fmt.Errorf("unknown scrape kind %q", s)
	}
}

// TabRunner hands out exclusive browser tabs. BrowserPool implements it.
type TabRunner interface {
	WithTab(ctx context.Context, fn func(tabCtx context.Context) error) error
}

// Summary counts per-movie outcomes of a run.
type Summary struct {
	Scraped int
	Skipped int
	Empty   int
	Failed  int
}

// Runner collects one column per movie and appends it to a wide CSV.
type Runner struct {
	kind    Kind
	tabs    TabRunner
	sel     *Selectors
	cfg     config.ScraperConfig
	outPath string
	set     ScrapedSet
	newPage func() Page
}

type RunnerOption func(*Runner)

// WithScrapedSet shares progress through an external set, such as Valkey.
func WithScrapedSet(set ScrapedSet) RunnerOption {
	return func(r *Runner) {
		r.set = set
	}
}

func NewRunner(kind Kind, tabs TabRunner, sel *Selectors, cfg config.ScraperConfig, outPath string, opts ...RunnerOption) *Runner {
	r := &Runner{
		kind:    kind,
		tabs:    tabs,
		sel:     sel,
		cfg:     cfg,
		outPath: outPath,
		newPage: func() Page {
			return &chromePage{loadTimeout: cfg.PageLoadTimeout}
		},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run scrapes every movie not already present. Per-movie failures are
// logged and skipped; only output I/O errors and cancellation stop the run.
func (r *Runner) Run(ctx context.Context, movies []string) (Summary, error) {
	var summary Summary

	out, err := loadOutput(r.outPath)
	if err != nil {
		return summary, err
	}

	var tracker Tracker = NewTableTracker(out)
	if r.set != nil {
		tracker = NewSetTracker(r.set, r.kind, out)
	}

	for i, movie := range movies {
		if err := ctx.Err(); err != nil {
			return summary, err
		}

		done, err := tracker.IsScraped(ctx, movie)
		if err != nil {
			slog.Warn("[Scraper] Tracker lookup failed, scraping anyway",
				slog.String("movie", movie),
				slog.String("error", err.Error()))
		}
		if done || out.HasColumn(movie) {
			slog.Info("[Scraper] Already scraped", slog.String("movie", movie))
			summary.Skipped++
			continue
		}

		texts, err := r.collect(ctx, movie)
		if err != nil {
			if ctx.Err() != nil {
				return summary, ctx.Err()
			}
			slog.Error("[Scraper] Failed to scrape movie",
				slog.String("movie", movie),
				slog.String("kind", string(r.kind)),
				slog.Int("partial", len(texts)),
				slog.String("error", err.Error()))
			summary.Failed++
		}

		if len(texts) == 0 {
			if err == nil {
				slog.Warn("[Scraper] Nothing found", slog.String("movie", movie))
				summary.Empty++
			}
		} else {
			out.AddColumn(movie, texts)
			if err := table.WriteFile(r.outPath, out); err != nil {
				return summary, err
			}
			if err := tracker.MarkScraped(ctx, movie); err != nil {
				slog.Warn("[Scraper] Failed to record progress",
					slog.String("movie", movie),
					slog.String("error", err.Error()))
			}
			slog.Info("[Scraper] Saved movie",
				slog.String("movie", movie),
				slog.String("kind", string(r.kind)),
				slog.Int("count", len(texts)))
			summary.Scraped++
		}

		if i < len(movies)-1 {
			if err := sleepCtx(ctx, r.movieDelay(i, len(movies))); err != nil {
				return summary, err
			}
		}
	}

	return summary, nil
}

// movieDelay grows from one to two times the base wait over the run.
func (r *Runner) movieDelay(i, n int) time.Duration {
	return time.Duration(float64(r.cfg.WaitBetweenMovies) * (1 + float64(i)/float64(n)))
}

func (r *Runner) collect(ctx context.Context, movie string) ([]string, error) {
	var texts []string

	lim := Limits{
		MaxIdleRounds: r.cfg.MaxIdleRounds,
		Wait:          r.cfg.WaitBetweenRounds,
	}

	err := r.tabs.WithTab(ctx, func(tabCtx context.Context) error {
		page := r.newPage()

		var url string
		if r.kind == KindDates {
			url = DatesURL(r.cfg.BaseURL, movie)
		} else {
			url = ReviewsURL(r.cfg.BaseURL, movie)
		}

		slog.Info("[Scraper] Scraping",
			slog.String("movie", movie),
			slog.String("url", url))

		if err := page.Navigate(tabCtx, url); err != nil {
			return fmt.Errorf("navigate %s: %w", url, err)
		}

		var err error
		if r.kind == KindDates {
			lim.Max = r.cfg.DatesPerMovie
			texts, err = CollectDates(tabCtx, page, r.sel.Dates, r.sel.Pagination.Next, movie, lim)
		} else {
			lim.Max = r.cfg.ReviewsPerMovie
			texts, err = CollectReviews(tabCtx, page, r.sel.Reviews, movie, lim)
		}
		return err
	})

	return texts, err
}

func loadOutput(path string) (*table.Table, error) {
	out, err := table.ReadFile(path)
	switch {
	case err == nil:
		return out, nil
	case errors.Is(err, os.ErrNotExist), errors.Is(err, table.ErrNoHeader):
		return table.New(), nil
	default:
		return nil, err
	}
}

// LoadMovieList returns the movie names held in the header of a CSV file.
func LoadMovieList(path string) ([]string, error) {
	t, err := table.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var movies []string
	for _, name := range t.Names() {
		if name = strings.TrimSpace(name); name != "" {
			movies = append(movies, name)
		}
	}
	return movies, nil
}
