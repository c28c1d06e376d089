package models

// GenreTable resolves TMDb genre ids to display names.
// A table is immutable once built; share it freely between goroutines.
type GenreTable struct {
	names map[int]string
}

// NewGenreTable builds a table from id/name pairs. The map is copied.
func NewGenreTable(names map[int]string) GenreTable {
	copied := make(map[int]string, len(names))
	for id, name := range names {
		copied[id] = name
	}
	return GenreTable{names: copied}
}

// DefaultGenres returns the TMDb movie genre list
func DefaultGenres() GenreTable {
	return NewGenreTable(map[int]string{
		28:    "Action",
		12:    "Adventure",
		16:    "Animation",
		35:    "Comedy",
		80:    "Crime",
		99:    "Documentary",
		18:    "Drama",
		10751: "Family",
		14:    "Fantasy",
		36:    "History",
		27:    "Horror",
		10402: "Music",
		9648:  "Mystery",
		10749: "Romance",
		878:   "Science Fiction",
		10770: "TV Movie",
		53:    "Thriller",
		10752: "War",
		37:    "Western",
	})
}

// Name returns the genre name for id, or UnknownValue
func (t GenreTable) Name(id int) string {
	if name, ok := t.names[id]; ok {
		return name
	}
	return UnknownValue
}

// Len returns the number of known genres
func (t GenreTable) Len() int {
	return len(t.names)
}
