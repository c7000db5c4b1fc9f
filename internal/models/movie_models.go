package models

// MovieInfo is one row of the metadata table. Error is set instead of the
// descriptive fields when the lookup did not resolve to a movie.
type MovieInfo struct {
	Title            string   `json:"title"`
	TMDBID           int64    `json:"tmdb_id,omitempty"`
	PosterURL        string   `json:"poster_url,omitempty"`
	Genres           []string `json:"genres,omitempty"`
	ReleaseYear      string   `json:"release_year,omitempty"`
	Runtime          int      `json:"runtime,omitempty"`
	Director         string   `json:"director,omitempty"`
	UserScore        float64  `json:"user_score,omitempty"`
	OriginalLanguage string   `json:"original_language,omitempty"`
	Overview         string   `json:"overview,omitempty"`
	Error            string   `json:"error,omitempty"`
}
