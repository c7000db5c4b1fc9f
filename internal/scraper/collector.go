package scraper

import (
	"context"
	"log/slog"
	"slices"
	"strings"
	"time"
)

// Limits bounds a single movie's collection.
type Limits struct {
	Max           int
	MaxIdleRounds int
	Wait          time.Duration
}

// seen keeps unique non-blank texts in first-seen order.
type seen struct {
	set   map[string]struct{}
	order []string
}

func newSeen() *seen {
	return &seen{set: make(map[string]struct{})}
}

// add records texts and returns how many were new.
func (s *seen) add(texts []string, limit int) int {
	added := 0
	for _, t := range texts {
		if len(s.order) >= limit {
			break
		}
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		if _, ok := s.set[t]; ok {
			continue
		}
		s.set[t] = struct{}{}
		s.order = append(s.order, t)
		added++
	}
	return added
}

// CollectReviews scrolls the review list until Max unique reviews are held
// or a scroll brings in nothing new.
func CollectReviews(ctx context.Context, page Page, sel ItemSelector, movie string, lim Limits) ([]string, error) {
	got := newSeen()

	for len(got.order) < lim.Max {
		if err := page.ScrollToBottom(ctx); err != nil {
			return got.order, err
		}
		if err := sleepCtx(ctx, lim.Wait); err != nil {
			return got.order, err
		}

		texts, err := page.Texts(ctx, sel.Item, sel.Text)
		if err != nil {
			return got.order, err
		}

		added := got.add(texts, lim.Max)
		slog.Debug("[Scraper] Scroll round",
			slog.String("movie", movie),
			slog.Int("new", added),
			slog.Int("total", len(got.order)))

		if added == 0 {
			break
		}
	}

	return got.order, nil
}

// CollectDates pages through the activity list and keeps every date in
// page order, repeats included, so the i-th date still belongs to the i-th
// review of the page. A page that is empty or identical to the previous one
// counts as an idle round; MaxIdleRounds in a row ends the run, as does a
// missing or broken next link.
func CollectDates(ctx context.Context, page Page, sel ItemSelector, next, movie string, lim Limits) ([]string, error) {
	var got, prev []string
	idle := 0
	pageNum := 1

	for len(got) < lim.Max && idle < lim.MaxIdleRounds {
		if err := page.ScrollToBottom(ctx); err != nil {
			return got, err
		}
		if err := sleepCtx(ctx, lim.Wait); err != nil {
			return got, err
		}

		texts, err := page.Texts(ctx, sel.Item, sel.Text)
		if err != nil {
			return got, err
		}

		dates := nonBlank(texts)
		if len(dates) == 0 || slices.Equal(dates, prev) {
			idle++
			slog.Warn("[Scraper] No new dates on page",
				slog.String("movie", movie),
				slog.Int("page", pageNum),
				slog.Int("idle_rounds", idle))
		} else {
			idle = 0
			got = append(got, dates[:min(len(dates), lim.Max-len(got))]...)
		}
		prev = dates

		if len(got) >= lim.Max {
			break
		}

		ok, err := page.ClickNext(ctx, next, sel.Item)
		if err != nil {
			slog.Warn("[Scraper] Could not follow next page",
				slog.String("movie", movie),
				slog.String("error", err.Error()))
			break
		}
		if !ok {
			break
		}
		pageNum++
	}

	return got, nil
}

// nonBlank returns the trimmed, non-empty texts.
func nonBlank(texts []string) []string {
	out := make([]string, 0, len(texts))
	for _, t := range texts {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}
	return out
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
