package mapper

import (
	"github.com/amaumene/openmovie/internal/models"
	"github.com/amaumene/openmovie/internal/services/tmdb"
)

// APIMapper converts an API payload into its domain representation.
// Implementations must be total: a malformed payload yields defaults, never an error.
type APIMapper[Domain, Entity any] interface {
	MapToDomain(apiDto Entity) Domain
}

// MovieMapper maps TMDb list payloads to movies
type MovieMapper struct {
	genres models.GenreTable
}

var _ APIMapper[[]models.Movie, *tmdb.MovieDto] = (*MovieMapper)(nil)

// NewMovieMapper creates a mapper that resolves genres through genres
func NewMovieMapper(genres models.GenreTable) *MovieMapper {
	return &MovieMapper{genres: genres}
}

// MapToDomain converts every result in dto, in order. A nil dto or a payload
// without results yields an empty slice.
func (m *MovieMapper) MapToDomain(dto *tmdb.MovieDto) []models.Movie {
	if dto == nil || dto.Results == nil {
		return []models.Movie{}
	}

	movies := make([]models.Movie, 0, len(dto.Results))
	for _, result := range dto.Results {
		movies = append(movies, m.mapResult(result))
	}
	return movies
}

func (m *MovieMapper) mapResult(result *tmdb.Result) models.Movie {
	if result == nil {
		result = &tmdb.Result{}
	}

	return models.Movie{
		BackdropPath:     orUnknown(result.BackdropPath, ""),
		GenreIDs:         m.genreNames(result.GenreIDs),
		ID:               valueOr(result.ID, 0),
		OriginalLanguage: orUnknown(result.OriginalLanguage, "language"),
		OriginalTitle:    orUnknown(result.OriginalTitle, "title"),
		Overview:         orUnknown(result.Overview, "overview"),
		Popularity:       valueOr(result.Popularity, 0),
		PosterPath:       orUnknown(result.PosterPath, ""),
		ReleaseDate:      orUnknown(result.ReleaseDate, "date"),
		Title:            orUnknown(result.Title, "title"),
		VoteAverage:      valueOr(result.VoteAverage, 0),
		VoteCount:        valueOr(result.VoteCount, 0),
		Video:            valueOr(result.Video, false),
	}
}

// genreNames resolves each id; a null id is treated like an unknown one
func (m *MovieMapper) genreNames(ids []*int) []string {
	names := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == nil {
			names = append(names, models.UnknownValue)
			continue
		}
		names = append(names, m.genres.Name(*id))
	}
	return names
}

// orUnknown returns *value, or "Unknown <qualifier>" when it is nil or empty
func orUnknown(value *string, qualifier string) string {
	if value != nil && *value != "" {
		return *value
	}
	if qualifier == "" {
		return models.UnknownValue
	}
	return models.UnknownValue + " " + qualifier
}

func valueOr[T any](value *T, fallback T) T {
	if value == nil {
		return fallback
	}
	return *value
}
