package models

type TMDBSearchResponse struct {
	Page         int                `json:"page"`
	TotalResults int                `json:"total_results"`
	Results      []TMDBSearchResult `json:"results"`
}

type TMDBSearchResult struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	ReleaseDate string `json:"release_date"`
	PosterPath  string `json:"poster_path"`
}

type TMDBGenre struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

type TMDBMovieDetails struct {
	ID               int64       `json:"id"`
	Title            string      `json:"title"`
	ReleaseDate      string      `json:"release_date"`
	Runtime          int         `json:"runtime"`
	VoteAverage      float64     `json:"vote_average"`
	OriginalLanguage string      `json:"original_language"`
	Overview         string      `json:"overview"`
	PosterPath       string      `json:"poster_path"`
	Genres           []TMDBGenre `json:"genres"`
}

type TMDBCrewMember struct {
	Name string `json:"name"`
	Job  string `json:"job"`
}

type TMDBCredits struct {
	ID   int64            `json:"id"`
	Crew []TMDBCrewMember `json:"crew"`
}
