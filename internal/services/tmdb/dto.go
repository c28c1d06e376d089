package tmdb

// MovieDto is the list payload returned by the discover and trending endpoints.
// The API omits or nulls fields freely, so nothing here is assumed present.
type MovieDto struct {
	Page         *int      `json:"page"`
	Results      []*Result `json:"results"`
	TotalPages   *int      `json:"total_pages"`
	TotalResults *int      `json:"total_results"`
}

// Result is a single movie entry inside MovieDto
type Result struct {
	Adult            *bool    `json:"adult"`
	BackdropPath     *string  `json:"backdrop_path"`
	GenreIDs         []*int   `json:"genre_ids"`
	ID               *int     `json:"id"`
	OriginalLanguage *string  `json:"original_language"`
	OriginalTitle    *string  `json:"original_title"`
	Overview         *string  `json:"overview"`
	Popularity       *float64 `json:"popularity"`
	PosterPath       *string  `json:"poster_path"`
	ReleaseDate      *string  `json:"release_date"`
	Title            *string  `json:"title"`
	Video            *bool    `json:"video"`
	VoteAverage      *float64 `json:"vote_average"`
	VoteCount        *int     `json:"vote_count"`
}
