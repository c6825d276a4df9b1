package models

// SeriesRecord is the cached metadata for one TV series. Field names follow
// the on-disk cache schema; records are created on first fetch and never
// mutated once stored.
type SeriesRecord struct {
	ID           int     `json:"id"`
	Name         string  `json:"name"`
	OriginalName string  `json:"original_name"`
	FirstAirDate string  `json:"first_air_date"`
	VoteAverage  float64 `json:"vote_average"`
	PosterPath   string  `json:"poster_path"`
	GenreIDs     []int   `json:"genre_ids"`
	CachedAt     string  `json:"cached_at,omitempty"`
}

// MovieRecord is the cached metadata for one movie.
type MovieRecord struct {
	ID          int     `json:"id"`
	Title       string  `json:"title"`
	ReleaseDate string  `json:"release_date"`
	VoteAverage float64 `json:"vote_average"`
	PosterPath  string  `json:"poster_path"`
	GenreIDs    []int   `json:"genre_ids"`
	CachedAt    string  `json:"cached_at,omitempty"`
}

// Genre is one entry of the metadata service's genre mapping. Order within
// the mapping is the service's response order and determines the order of
// genre sections in the output.
type Genre struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Record is the common view the classifier needs over series and movie
// metadata.
type Record interface {
	Key() int
	Released() string
	Genres() []int
}

// Category is one named section of the playlist with its members in final
// output order. A record may appear in any number of categories.
type Category[R Record] struct {
	Name    string
	Records []R
}

func (r SeriesRecord) Key() int         { return r.ID }
func (r SeriesRecord) Released() string { return r.FirstAirDate }
func (r SeriesRecord) Genres() []int    { return r.GenreIDs }

func (r MovieRecord) Key() int         { return r.ID }
func (r MovieRecord) Released() string { return r.ReleaseDate }
func (r MovieRecord) Genres() []int    { return r.GenreIDs }
