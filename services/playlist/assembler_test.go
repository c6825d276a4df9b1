package playlist

import (
	"strings"
	"testing"

	"github.com/spf13/afero"

	"vixstream/models"
)

const testImageBase = "https://image.tmdb.org/t/p/w500"

// TestAssembleSeries pins the full series document shape: header with the
// episode total, blank-line separated sections, and one entry per resolved
// episode per section membership.
func TestAssembleSeries(t *testing.T) {
	rec := models.SeriesRecord{ID: 100, Name: "Test Show", PosterPath: "/p.jpg", GenreIDs: []int{18}}
	categories := []models.Category[models.SeriesRecord]{
		{Name: "Serie in Onda", Records: []models.SeriesRecord{rec}},
		{Name: "Dramma", Records: []models.SeriesRecord{rec}},
	}
	resolved := map[int][]ResolvedEpisode{
		100: {
			{Season: 1, Episode: 1, URL: "https://cdn.example/100/1/1"},
			{Season: 1, Episode: 2, URL: "https://cdn.example/100/1/2"},
		},
	}

	got := AssembleSeries(categories, resolved, testImageBase)
	want := `#EXTM3U
#PLAYLIST:Serie TV VixSrc (2 Episodi)

# Serie in Onda
#EXTINF:-1 type="series" tvg-logo="https://image.tmdb.org/t/p/w500/p.jpg" group-title="SerieTV - Serie in Onda",Test Show S01 E01
https://cdn.example/100/1/1
#EXTINF:-1 type="series" tvg-logo="https://image.tmdb.org/t/p/w500/p.jpg" group-title="SerieTV - Serie in Onda",Test Show S01 E02
https://cdn.example/100/1/2

# Dramma
#EXTINF:-1 type="series" tvg-logo="https://image.tmdb.org/t/p/w500/p.jpg" group-title="SerieTV - Dramma",Test Show S01 E01
https://cdn.example/100/1/1
#EXTINF:-1 type="series" tvg-logo="https://image.tmdb.org/t/p/w500/p.jpg" group-title="SerieTV - Dramma",Test Show S01 E02
https://cdn.example/100/1/2
`
	if got != want {
		t.Fatalf("series document mismatch:\n--- got ---\n%s\n--- want ---\n%s", got, want)
	}
}

// TestAssembleSeriesEmpty verifies that an empty run still yields a valid
// header-only document.
func TestAssembleSeriesEmpty(t *testing.T) {
	got := AssembleSeries(nil, nil, testImageBase)
	want := "#EXTM3U\n#PLAYLIST:Serie TV VixSrc (0 Episodi)\n"
	if got != want {
		t.Fatalf("empty document mismatch: %q", got)
	}
}

// TestAssembleMovies pins the movie entry shape: title, bracketed year,
// star rating, and an empty logo attribute when there is no poster.
func TestAssembleMovies(t *testing.T) {
	rec := models.MovieRecord{ID: 300, Title: "Test Film", ReleaseDate: "2010-07-15", VoteAverage: 8.4}
	categories := []models.Category[models.MovieRecord]{
		{Name: "Al Cinema", Records: []models.MovieRecord{rec}},
	}
	resolved := map[int]string{300: "https://cdn.example/movie/300"}

	got := AssembleMovies(categories, resolved, testImageBase)
	want := `#EXTM3U
#PLAYLIST:Film VixSrc (1 Film)

# Al Cinema
#EXTINF:-1 type="movie" tvg-logo="" group-title="Film - Al Cinema",Test Film (2010) ★★★★☆
https://cdn.example/movie/300
`
	if got != want {
		t.Fatalf("movie document mismatch:\n--- got ---\n%s\n--- want ---\n%s", got, want)
	}
}

// TestStars exercises the rating rendering.
func TestStars(t *testing.T) {
	tests := []struct {
		rating float64
		want   string
	}{
		{0, "☆☆☆☆☆"},
		{-1, "☆☆☆☆☆"},
		{0.5, "☆☆☆☆☆"},
		{2, "★☆☆☆☆"},
		{6.9, "★★★☆☆"},
		{8.4, "★★★★☆"},
		{9.2, "★★★★☆"},
		{10, "★★★★★"},
	}
	for _, tt := range tests {
		if got := stars(tt.rating); got != tt.want {
			t.Fatalf("stars(%v) = %s, want %s", tt.rating, got, tt.want)
		}
	}
}

// TestReleaseYear verifies the year is the date prefix, verbatim.
func TestReleaseYear(t *testing.T) {
	tests := map[string]string{
		"2010-07-15": "2010",
		"2010":       "2010",
		"":           "",
		"201":        "201",
	}
	for input, want := range tests {
		if got := releaseYear(input); got != want {
			t.Fatalf("releaseYear(%q) = %q, want %q", input, got, want)
		}
	}
}

// TestWritePlaylist verifies the atomic write: content lands under the final
// name, the temp file is gone, and an existing playlist is replaced.
func TestWritePlaylist(t *testing.T) {
	fs := afero.NewMemMapFs()
	if err := WritePlaylist(fs, "/out/serie.m3u", "#EXTM3U\nfirst\n"); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	if err := WritePlaylist(fs, "/out/serie.m3u", "#EXTM3U\nsecond\n"); err != nil {
		t.Fatalf("rewrite failed: %v", err)
	}

	data, err := afero.ReadFile(fs, "/out/serie.m3u")
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if !strings.Contains(string(data), "second") {
		t.Fatalf("expected replaced content, got %q", string(data))
	}

	infos, err := afero.ReadDir(fs, "/out")
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	if len(infos) != 1 || infos[0].Name() != "serie.m3u" {
		names := make([]string, 0, len(infos))
		for _, info := range infos {
			names = append(names, info.Name())
		}
		t.Fatalf("expected only serie.m3u, found %v", names)
	}
}
