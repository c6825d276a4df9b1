package playlist

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"

	"vixstream/models"
)

// AssembleSeries renders the series playlist document. The headline count is
// the number of resolved episodes across all series.
func AssembleSeries(categories []models.Category[models.SeriesRecord], resolved map[int][]ResolvedEpisode, imageBaseURL string) string {
	total := 0
	for _, episodes := range resolved {
		total += len(episodes)
	}

	var b strings.Builder
	b.WriteString("#EXTM3U\n")
	fmt.Fprintf(&b, "#PLAYLIST:Serie TV VixSrc (%d Episodi)\n", total)

	for _, cat := range categories {
		fmt.Fprintf(&b, "\n# %s\n", cat.Name)
		for _, rec := range cat.Records {
			logo := logoURL(imageBaseURL, rec.PosterPath)
			for _, ep := range resolved[rec.ID] {
				fmt.Fprintf(&b, "#EXTINF:-1 type=\"series\" tvg-logo=\"%s\" group-title=\"SerieTV - %s\",%s S%02d E%02d\n%s\n",
					logo, cat.Name, rec.Name, ep.Season, ep.Episode, ep.URL)
			}
		}
	}
	return b.String()
}

// AssembleMovies renders the movie playlist document. The headline count is
// the number of resolved movies.
func AssembleMovies(categories []models.Category[models.MovieRecord], resolved map[int]string, imageBaseURL string) string {
	var b strings.Builder
	b.WriteString("#EXTM3U\n")
	fmt.Fprintf(&b, "#PLAYLIST:Film VixSrc (%d Film)\n", len(resolved))

	for _, cat := range categories {
		fmt.Fprintf(&b, "\n# %s\n", cat.Name)
		for _, rec := range cat.Records {
			fmt.Fprintf(&b, "#EXTINF:-1 type=\"movie\" tvg-logo=\"%s\" group-title=\"Film - %s\",%s (%s) %s\n%s\n",
				logoURL(imageBaseURL, rec.PosterPath), cat.Name, rec.Title,
				releaseYear(rec.ReleaseDate), stars(rec.VoteAverage), resolved[rec.ID])
		}
	}
	return b.String()
}

func logoURL(imageBaseURL, posterPath string) string {
	if posterPath == "" {
		return ""
	}
	return imageBaseURL + posterPath
}

func releaseYear(date string) string {
	if len(date) > 4 {
		return date[:4]
	}
	return date
}

// stars renders the five-place rating: one filled star per two rating
// points, hollow for the rest. Non-positive ratings render all hollow.
func stars(rating float64) string {
	filled := int(rating / 2)
	if filled < 0 {
		filled = 0
	}
	if filled > 5 {
		filled = 5
	}
	return strings.Repeat("★", filled) + strings.Repeat("☆", 5-filled)
}

// WritePlaylist writes the document atomically (temp file, then rename) so a
// player polling the path never sees a half-written playlist.
func WritePlaylist(fsys afero.Fs, path, content string) error {
	dir := filepath.Dir(path)
	if err := fsys.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("playlist: ensure dir %s: %w", dir, err)
	}

	tmp, err := afero.TempFile(fsys, dir, filepath.Base(path)+".tmp*")
	if err != nil {
		return fmt.Errorf("playlist: create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write([]byte(content)); err != nil {
		tmp.Close()
		_ = fsys.Remove(tmpName)
		return fmt.Errorf("playlist: write %s: %w", tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		_ = fsys.Remove(tmpName)
		return fmt.Errorf("playlist: close %s: %w", tmpName, err)
	}
	if err := fsys.Rename(tmpName, path); err != nil {
		_ = fsys.Remove(tmpName)
		return fmt.Errorf("playlist: rename %s: %w", tmpName, err)
	}
	return nil
}
