package playlist

import (
	"context"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/spf13/afero"

	"vixstream/models"
	"vixstream/services/availability"
	"vixstream/services/metadata"
)

// Output file names, stable so players can poll them across runs.
const (
	SeriesPlaylistFile = "serie.m3u"
	MoviePlaylistFile  = "film.m3u"
)

// Service runs the pipeline end to end: availability, resolution, metadata,
// classification, and the final document on disk.
type Service struct {
	availability *availability.Client
	metadata     *metadata.Service
	engine       *Engine
	fs           afero.Fs
	outputDir    string
	imageBaseURL string
	log          *slog.Logger
}

// NewService wires a playlist service writing into outputDir.
func NewService(av *availability.Client, meta *metadata.Service, engine *Engine, fsys afero.Fs, outputDir, imageBaseURL string) *Service {
	return &Service{
		availability: av,
		metadata:     meta,
		engine:       engine,
		fs:           fsys,
		outputDir:    outputDir,
		imageBaseURL: imageBaseURL,
		log:          slog.Default().With("component", "playlist"),
	}
}

// BuildSeries produces the series playlist. An unreachable availability list
// degrades to an empty run; the metadata cache is persisted even when the
// playlist write fails.
func (s *Service) BuildSeries(ctx context.Context) error {
	started := time.Now()

	keys, err := s.availability.Episodes(ctx)
	if err != nil {
		s.log.Warn("episode availability fetch failed, continuing with empty set", "error", err)
	}
	idx := models.NewAvailabilityIndex(keys)
	s.log.Info("series run starting", "series", len(idx.SeriesIDs()), "episodes", idx.TotalEpisodes())

	resolved := s.engine.ResolveSeriesSet(ctx, idx, idx.SeriesIDs())
	ids := make([]int, 0, len(resolved))
	for _, id := range idx.SeriesIDs() {
		if _, ok := resolved[id]; ok {
			ids = append(ids, id)
		}
	}

	records := s.metadata.ReconcileSeries(ctx, ids)
	listings := s.metadata.SeriesListings(ctx)
	genres := s.metadata.SeriesGenres(ctx)

	categories := Classify(records, []Headline{
		{Name: "Serie in Onda", IDs: listings.OnAir, Cap: 30},
		{Name: "Popolari", IDs: listings.Popular, Cap: 30},
		{Name: "Più Votate", IDs: listings.TopRated, Cap: 30},
	}, genres)

	doc := AssembleSeries(categories, resolved, s.imageBaseURL)

	if err := s.metadata.PersistSeries(); err != nil {
		s.log.Warn("series cache persist failed", "error", err)
	}

	path := filepath.Join(s.outputDir, SeriesPlaylistFile)
	if err := WritePlaylist(s.fs, path, doc); err != nil {
		return err
	}

	episodes := 0
	for _, eps := range resolved {
		episodes += len(eps)
	}
	s.log.Info("series playlist written",
		"path", path, "series", len(ids), "episodes", episodes,
		"categories", len(categories), "cached", s.metadata.CachedSeries(),
		"elapsed", time.Since(started))
	return nil
}

// BuildMovies produces the movie playlist, under the same degradation rules
// as BuildSeries.
func (s *Service) BuildMovies(ctx context.Context) error {
	started := time.Now()

	movieIDs, err := s.availability.Movies(ctx)
	if err != nil {
		s.log.Warn("movie availability fetch failed, continuing with empty set", "error", err)
	}
	s.log.Info("movie run starting", "movies", len(movieIDs))

	resolved := s.engine.ResolveMovieSet(ctx, movieIDs)
	ids := make([]int, 0, len(resolved))
	for _, id := range movieIDs {
		if _, ok := resolved[id]; ok {
			ids = append(ids, id)
		}
	}

	records := s.metadata.ReconcileMovies(ctx, ids)
	listings := s.metadata.MovieListings(ctx)
	genres := s.metadata.MovieGenres(ctx)

	categories := Classify(records, []Headline{
		{Name: "Al Cinema", IDs: listings.NowPlaying, Cap: 50},
		{Name: "Popolari", IDs: listings.Popular, Cap: 50},
		{Name: "Più Votati", IDs: listings.TopRated, Cap: 50},
	}, genres)

	doc := AssembleMovies(categories, resolved, s.imageBaseURL)

	if err := s.metadata.PersistMovies(); err != nil {
		s.log.Warn("movie cache persist failed", "error", err)
	}

	path := filepath.Join(s.outputDir, MoviePlaylistFile)
	if err := WritePlaylist(s.fs, path, doc); err != nil {
		return err
	}

	s.log.Info("movie playlist written",
		"path", path, "movies", len(ids), "categories", len(categories),
		"cached", s.metadata.CachedMovies(), "elapsed", time.Since(started))
	return nil
}
