package metadata

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spacesedan/reelpulse/internal/models"
	"github.com/spacesedan/reelpulse/internal/table"
)

// movie_info.csv column names.
const (
	ColTitle            = "title"
	ColTMDBID           = "tmdb_id"
	ColPosterURL        = "poster_url"
	ColGenres           = "genres"
	ColReleaseYear      = "release_year"
	ColRuntime          = "runtime"
	ColDirector         = "director"
	ColUserScore        = "user_score"
	ColOriginalLanguage = "original_language"
	ColOverview         = "overview"
	ColError            = "error"
)

var columns = []string{
	ColTitle, ColTMDBID, ColPosterURL, ColGenres, ColReleaseYear, ColRuntime,
	ColDirector, ColUserScore, ColOriginalLanguage, ColOverview, ColError,
}

const genreSep = ", "

func ToTable(infos []models.MovieInfo) *table.Table {
	cols := make(map[string][]string, len(columns))
	for _, m := range infos {
		row := map[string]string{
			ColTitle:            m.Title,
			ColPosterURL:        m.PosterURL,
			ColGenres:           strings.Join(m.Genres, genreSep),
			ColReleaseYear:      m.ReleaseYear,
			ColDirector:         m.Director,
			ColOriginalLanguage: m.OriginalLanguage,
			ColOverview:         m.Overview,
			ColError:            m.Error,
		}
		if m.TMDBID != 0 {
			row[ColTMDBID] = strconv.FormatInt(m.TMDBID, 10)
		}
		if m.Runtime != 0 {
			row[ColRuntime] = strconv.Itoa(m.Runtime)
		}
		if m.Error == "" {
			row[ColUserScore] = strconv.FormatFloat(m.UserScore, 'f', -1, 64)
		}

		for _, name := range columns {
			cols[name] = append(cols[name], row[name])
		}
	}

	t := table.New()
	for _, name := range columns {
		t.AddColumn(name, cols[name])
	}
	return t
}

// FromTable reads movie_info.csv rows. Only the title column is required.
func FromTable(t *table.Table) ([]models.MovieInfo, error) {
	if !t.HasColumn(ColTitle) {
		return nil, fmt.Errorf("[MetadataFetcher] missing column %q", ColTitle)
	}

	get := func(name string, row int) string {
		col, ok := t.Column(name)
		if !ok {
			return ""
		}
		if v := col.Cell(row); v != nil {
			return strings.TrimSpace(*v)
		}
		return ""
	}

	infos := make([]models.MovieInfo, 0, t.Rows())
	for row := 0; row < t.Rows(); row++ {
		m := models.MovieInfo{
			Title:            get(ColTitle, row),
			PosterURL:        get(ColPosterURL, row),
			ReleaseYear:      get(ColReleaseYear, row),
			Director:         get(ColDirector, row),
			OriginalLanguage: get(ColOriginalLanguage, row),
			Overview:         get(ColOverview, row),
			Error:            get(ColError, row),
		}
		if m.Title == "" {
			continue
		}

		if v := get(ColGenres, row); v != "" {
			m.Genres = strings.Split(v, genreSep)
		}
		if v := get(ColTMDBID, row); v != "" {
			id, err := strconv.ParseInt(v, 10, 64)
			if err != nil {
				return nil, fmt.Errorf("[MetadataFetcher] row %d: bad tmdb_id: %w", row+1, err)
			}
			m.TMDBID = id
		}
		if v := get(ColRuntime, row); v != "" {
			// Older exports wrote runtime as a float.
			runtime, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return nil, fmt.Errorf("[MetadataFetcher] row %d: bad runtime: %w", row+1, err)
			}
			m.Runtime = int(runtime)
		}
		if v := get(ColUserScore, row); v != "" {
			score, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return nil, fmt.Errorf("[MetadataFetcher] row %d: bad user_score: %w", row+1, err)
			}
			m.UserScore = score
		}

		infos = append(infos, m)
	}
	return infos, nil
}
