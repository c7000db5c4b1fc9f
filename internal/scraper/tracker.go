package scraper

import (
	"context"

	"github.com/spacesedan/reelpulse/internal/table"
)

// Tracker remembers which movies a run has already collected.
type Tracker interface {
	IsScraped(ctx context.Context, movie string) (bool, error)
	MarkScraped(ctx context.Context, movie string) error
}

// TableTracker treats an existing output column as done.
type TableTracker struct {
	out *table.Table
}

func NewTableTracker(out *table.Table) *TableTracker {
	return &TableTracker{out: out}
}

func (t *TableTracker) IsScraped(_ context.Context, movie string) (bool, error) {
	return t.out.HasColumn(movie), nil
}

// MarkScraped is a no-op; the column written by the runner is the record.
func (t *TableTracker) MarkScraped(context.Context, string) error {
	return nil
}

// ScrapedSet is implemented by clients.ValkeyClient.
type ScrapedSet interface {
	IsScraped(ctx context.Context, kind, movie string) (bool, error)
	MarkScraped(ctx context.Context, kind, movie string) error
}

// SetTracker keeps progress in an external set so several scraper processes
// can share it. A movie also counts as done when the output table already
// has its column.
type SetTracker struct {
	set  ScrapedSet
	kind string
	out  *table.Table
}

func NewSetTracker(set ScrapedSet, kind Kind, out *table.Table) *SetTracker {
	return &SetTracker{set: set, kind: string(kind), out: out}
}

func (t *SetTracker) IsScraped(ctx context.Context, movie string) (bool, error) {
	if t.out != nil && t.out.HasColumn(movie) {
		return true, nil
	}
	return t.set.IsScraped(ctx, t.kind, movie)
}

func (t *SetTracker) MarkScraped(ctx context.Context, movie string) error {
	return t.set.MarkScraped(ctx, t.kind, movie)
}
