package models

import "strings"

// UnknownValue is the placeholder used for any text the API left out
const UnknownValue = "Unknown"

// Movie represents a catalog entry as the rest of the application sees it.
// Every field is always populated; see mapper.MovieMapper for the defaults.
type Movie struct {
	BackdropPath     string   `json:"backdrop_path"`
	GenreIDs         []string `json:"genre_ids"` // genre names, resolved from TMDb ids
	ID               int      `json:"id"`
	OriginalLanguage string   `json:"original_language"`
	OriginalTitle    string   `json:"original_title"`
	Overview         string   `json:"overview"`
	Popularity       float64  `json:"popularity"`
	PosterPath       string   `json:"poster_path"`
	ReleaseDate      string   `json:"release_date"`
	Title            string   `json:"title"`
	VoteAverage      float64  `json:"vote_average"`
	VoteCount        int      `json:"vote_count"`
	Video            bool     `json:"video"`
}

// PosterURL joins the poster path onto an image base URL.
// Returns "" when the poster path is unknown.
func (m Movie) PosterURL(imageBaseURL string) string {
	return imageURL(imageBaseURL, m.PosterPath)
}

// BackdropURL joins the backdrop path onto an image base URL.
// Returns "" when the backdrop path is unknown.
func (m Movie) BackdropURL(imageBaseURL string) string {
	return imageURL(imageBaseURL, m.BackdropPath)
}

func imageURL(base, path string) string {
	if path == "" || path == UnknownValue {
		return ""
	}
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(path, "/")
}
