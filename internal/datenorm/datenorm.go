// Package datenorm parses the posted-date strings collected by the scraper
// into canonical calendar dates.
package datenorm

import (
	"fmt"
	"log/slog"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/spacesedan/reelpulse/internal/table"
)

// DefaultYearPivot splits two-digit years: below it they land in the
// 2000s, otherwise in the 1900s.
const DefaultYearPivot = 50

// Date is a validated calendar date.
type Date struct {
	Year  int
	Month int
	Day   int
}

// String formats the date as YYYY-MM-DD.
func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, d.Month, d.Day)
}

// Pattern is one layout of the fallback chain. Fields are read by group
// name so day-first and month-first layouts cannot be confused.
type Pattern struct {
	Name string
	re   *regexp.Regexp
}

// Patterns is tried in order and the first layout yielding a valid date
// wins. Each is anchored at the start of the input and must not end inside
// a run of digits. Alphabetic-month layouts come first. Among the numeric
// ones day-first beats year-first, and month-first is the last resort.
var Patterns = []Pattern{
	{"day-month-year (alpha)", regexp.MustCompile(`^(?P<day>\d{1,2})[-/.\s](?P<month>[a-zA-Z]{3,})\.?,?[-/.\s]\s*(?P<year>\d{2,4})(?:\D|$)`)},
	{"month-day-year (alpha)", regexp.MustCompile(`^(?P<month>[a-zA-Z]{3,})\.?[-/.\s](?P<day>\d{1,2}),?[-/.\s]\s*(?P<year>\d{2,4})(?:\D|$)`)},
	{"year-month-day (alpha)", regexp.MustCompile(`^(?P<year>\d{2,4})[-/.\s](?P<month>[a-zA-Z]{3,})[-/.\s](?P<day>\d{1,2})(?:\D|$)`)},
	{"day-month-year", regexp.MustCompile(`^(?P<day>\d{1,2})[-/.](?P<month>\d{1,2})[-/.](?P<year>\d{2,4})(?:\D|$)`)},
	{"year-month-day", regexp.MustCompile(`^(?P<year>\d{2,4})[-/.](?P<month>\d{1,2})[-/.](?P<day>\d{1,2})(?:\D|$)`)},
	{"month-day-year", regexp.MustCompile(`^(?P<month>\d{1,2})[-/.](?P<day>\d{1,2})[-/.](?P<year>\d{2,4})(?:\D|$)`)},
}

// Normalizer maps raw date strings to canonical dates.
type Normalizer struct {
	pivot int
}

// Option configures a Normalizer.
type Option func(*Normalizer)

// WithYearPivot overrides the two-digit year split.
func WithYearPivot(pivot int) Option {
	return func(n *Normalizer) {
		n.pivot = pivot
	}
}

// New returns a Normalizer using DefaultYearPivot unless overridden.
func New(opts ...Option) *Normalizer {
	n := &Normalizer{pivot: DefaultYearPivot}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

var defaultNormalizer = New()

// Normalize parses raw with the default settings.
func Normalize(raw string) (Date, bool) {
	return defaultNormalizer.Normalize(raw)
}

// Normalize tries every pattern in order against the start of raw and
// returns the first one producing a real calendar date.
func (n *Normalizer) Normalize(raw string) (Date, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Date{}, false
	}

	for _, p := range Patterns {
		m := p.re.FindStringSubmatch(raw)
		if m == nil {
			continue
		}
		if d, ok := n.build(p.re, m); ok {
			return d, true
		}
	}

	return Date{}, false
}

func (n *Normalizer) build(re *regexp.Regexp, m []string) (Date, bool) {
	year, ok := n.year(m[re.SubexpIndex("year")])
	if !ok {
		return Date{}, false
	}

	month, ok := parseMonth(m[re.SubexpIndex("month")])
	if !ok {
		return Date{}, false
	}

	day, err := strconv.Atoi(m[re.SubexpIndex("day")])
	if err != nil {
		return Date{}, false
	}

	if month < 1 || month > 12 || day < 1 || day > 31 {
		return Date{}, false
	}

	d := Date{Year: year, Month: month, Day: day}
	if !d.valid() {
		return Date{}, false
	}
	return d, true
}

// year expands two-digit years around the pivot. Three-digit years are
// rejected.
func (n *Normalizer) year(s string) (int, bool) {
	y, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}

	switch len(s) {
	case 2:
		if y < n.pivot {
			return 2000 + y, true
		}
		return 1900 + y, true
	case 4:
		if y < 1000 {
			return 0, false
		}
		return y, true
	default:
		return 0, false
	}
}

// parseMonth accepts a numeric month, or an English month name matched
// first on its three-letter abbreviation and then in full.
func parseMonth(s string) (int, bool) {
	if m, err := strconv.Atoi(s); err == nil {
		return m, true
	}

	if len(s) >= 3 {
		if t, err := time.Parse("Jan", s[:3]); err == nil {
			return int(t.Month()), true
		}
	}
	if t, err := time.Parse("January", s); err == nil {
		return int(t.Month()), true
	}

	return 0, false
}

// valid reports whether the triple survives a calendar round trip, which
// rejects days past the end of the month including February 29 outside
// leap years.
func (d Date) valid() bool {
	t := time.Date(d.Year, time.Month(d.Month), d.Day, 0, 0, 0, 0, time.UTC)
	return t.Year() == d.Year && int(t.Month()) == d.Month && t.Day() == d.Day
}

// NormalizeTable replaces every cell with its canonical date, or nil when
// it cannot be parsed. The table keeps its shape so dates stay aligned
// with the reviews collected alongside them.
func (n *Normalizer) NormalizeTable(t *table.Table) *table.Table {
	parsed, failed := 0, 0

	out := t.Map(func(column, value string) *string {
		d, ok := n.Normalize(value)
		if !ok {
			failed++
			slog.Debug("[DateNormalizer] Unparseable date",
				slog.String("column", column),
				slog.String("value", value))
			return nil
		}
		parsed++
		s := d.String()
		return &s
	})

	slog.Info("[DateNormalizer] Table normalized",
		slog.Int("columns", len(out.Columns)),
		slog.Int("parsed", parsed),
		slog.Int("failed", failed))

	return out
}
