package metadata

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/spacesedan/reelpulse/internal/clients"
	"github.com/spacesedan/reelpulse/internal/models"
)

const (
	ErrMsgNotFound    = "Not found"
	ErrMsgNoYearMatch = "No match for year"
)

// MovieAPI is the part of the TMDB client the fetcher needs.
type MovieAPI interface {
	SearchMovie(ctx context.Context, title string) ([]models.TMDBSearchResult, error)
	MovieDetails(ctx context.Context, id int64) (*models.TMDBMovieDetails, error)
	MovieCredits(ctx context.Context, id int64) (*models.TMDBCredits, error)
	PosterURL(path string) string
}

var _ MovieAPI = (*clients.TMDBClient)(nil)

type Fetcher struct {
	api MovieAPI
}

func NewFetcher(api MovieAPI) *Fetcher {
	return &Fetcher{api: api}
}

// FetchAll looks up every label in order. Lookup failures are recorded on
// the returned row; only cancellation aborts the run.
func (f *Fetcher) FetchAll(ctx context.Context, labels []string) ([]models.MovieInfo, error) {
	infos := make([]models.MovieInfo, 0, len(labels))
	failed := 0

	for _, label := range labels {
		info, err := f.Lookup(ctx, label)
		if err != nil {
			if ctx.Err() != nil {
				return infos, ctx.Err()
			}
			slog.Error("[MetadataFetcher] Lookup failed",
				slog.String("movie", label),
				slog.String("error", err.Error()))
			info = models.MovieInfo{Title: label, Error: err.Error()}
		}

		if info.Error != "" {
			failed++
		} else {
			slog.Info("[MetadataFetcher] Retrieved", slog.String("movie", label))
		}
		infos = append(infos, info)
	}

	slog.Info("[MetadataFetcher] Finished",
		slog.Int("movies", len(labels)),
		slog.Int("failed", failed))
	return infos, nil
}

// Lookup resolves one "Title (Year)" label. A search with no usable result
// comes back as a row with Error set and a nil error.
func (f *Fetcher) Lookup(ctx context.Context, label string) (models.MovieInfo, error) {
	title, year := ParseTitleYear(label)

	results, err := f.api.SearchMovie(ctx, title)
	if err != nil {
		return models.MovieInfo{}, fmt.Errorf("search %q: %w", title, err)
	}
	if len(results) == 0 {
		return models.MovieInfo{Title: title, Error: ErrMsgNotFound}, nil
	}

	if year != "" {
		results = filterByYear(results, year)
		if len(results) == 0 {
			return models.MovieInfo{Title: title, Error: ErrMsgNoYearMatch}, nil
		}
	}

	match := results[0]

	details, err := f.api.MovieDetails(ctx, match.ID)
	if err != nil {
		if errors.Is(err, clients.ErrNotFound) {
			return models.MovieInfo{Title: title, Error: ErrMsgNotFound}, nil
		}
		return models.MovieInfo{}, fmt.Errorf("details %d: %w", match.ID, err)
	}

	credits, err := f.api.MovieCredits(ctx, match.ID)
	if err != nil && !errors.Is(err, clients.ErrNotFound) {
		return models.MovieInfo{}, fmt.Errorf("credits %d: %w", match.ID, err)
	}

	info := models.MovieInfo{
		Title:            title,
		TMDBID:           match.ID,
		PosterURL:        f.api.PosterURL(match.PosterPath),
		ReleaseYear:      releaseYear(details.ReleaseDate),
		Runtime:          details.Runtime,
		Director:         director(credits),
		UserScore:        details.VoteAverage,
		OriginalLanguage: details.OriginalLanguage,
		Overview:         details.Overview,
	}
	if year != "" {
		info.Title = fmt.Sprintf("%s (%s)", title, year)
	}
	for _, g := range details.Genres {
		info.Genres = append(info.Genres, g.Name)
	}

	return info, nil
}

func filterByYear(results []models.TMDBSearchResult, year string) []models.TMDBSearchResult {
	var out []models.TMDBSearchResult
	for _, r := range results {
		if strings.HasPrefix(r.ReleaseDate, year) {
			out = append(out, r)
		}
	}
	return out
}

func releaseYear(date string) string {
	if len(date) < 4 {
		return date
	}
	return date[:4]
}

// director returns the first crew member credited as Director.
func director(credits *models.TMDBCredits) string {
	if credits == nil {
		return ""
	}
	for _, c := range credits.Crew {
		if c.Job == "Director" {
			return c.Name
		}
	}
	return ""
}
