package metadata

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/sourcegraph/conc/pool"

	"vixstream/models"
	"vixstream/utils"
)

// Service answers metadata questions for the pipeline. Cached records are
// served as-is; misses are fetched under a bounded worker pool and stored
// with put-if-absent semantics. A fetch failure drops that one item, it
// never fails the run.
type Service struct {
	client      *TMDBClient
	apiKey      string
	concurrency int
	series      *Store[models.SeriesRecord]
	movies      *Store[models.MovieRecord]
	log         *slog.Logger
}

// NewService wires a metadata service. apiKey is retained only to redact
// credentials from logged errors.
func NewService(client *TMDBClient, series *Store[models.SeriesRecord], movies *Store[models.MovieRecord], concurrency int, apiKey string) *Service {
	if concurrency <= 0 {
		concurrency = 1
	}
	return &Service{
		client:      client,
		apiKey:      apiKey,
		concurrency: concurrency,
		series:      series,
		movies:      movies,
		log:         slog.Default().With("component", "metadata"),
	}
}

// SeriesListings holds the curated series listing ids, each in the provider's
// page order.
type SeriesListings struct {
	OnAir    []int
	Popular  []int
	TopRated []int
}

// MovieListings holds the curated movie listing ids, each in the provider's
// page order.
type MovieListings struct {
	NowPlaying []int
	Popular    []int
	TopRated   []int
}

// ReconcileSeries returns a record for every id it can serve, cached entries
// untouched and the rest fetched concurrently. Records come back in input id
// order; ids whose fetch failed are absent.
func (s *Service) ReconcileSeries(ctx context.Context, ids []int) []models.SeriesRecord {
	results := make(map[int]models.SeriesRecord, len(ids))
	var toFetch []int
	for _, id := range ids {
		if rec, ok := s.series.Get(id); ok {
			results[id] = rec
		} else {
			toFetch = append(toFetch, id)
		}
	}
	s.log.Info("reconciling series metadata",
		"total", len(ids), "cached", len(results), "to_fetch", len(toFetch))

	var mu sync.Mutex
	workers := pool.New().WithMaxGoroutines(s.concurrency)
	for _, id := range toFetch {
		id := id
		workers.Go(func() {
			rec, err := s.client.SeriesDetails(ctx, id)
			if err != nil {
				s.log.Warn("series metadata fetch failed", "series", id, "error", s.redact(err))
				return
			}
			rec.CachedAt = time.Now().Format(time.RFC3339)
			s.series.PutIfAbsent(id, rec)
			mu.Lock()
			results[id] = rec
			mu.Unlock()
		})
	}
	workers.Wait()

	records := make([]models.SeriesRecord, 0, len(results))
	for _, id := range ids {
		if rec, ok := results[id]; ok {
			records = append(records, rec)
		}
	}
	s.log.Info("series metadata ready", "records", len(records))
	return records
}

// ReconcileMovies is the movie counterpart of ReconcileSeries.
func (s *Service) ReconcileMovies(ctx context.Context, ids []int) []models.MovieRecord {
	results := make(map[int]models.MovieRecord, len(ids))
	var toFetch []int
	for _, id := range ids {
		if rec, ok := s.movies.Get(id); ok {
			results[id] = rec
		} else {
			toFetch = append(toFetch, id)
		}
	}
	s.log.Info("reconciling movie metadata",
		"total", len(ids), "cached", len(results), "to_fetch", len(toFetch))

	var mu sync.Mutex
	workers := pool.New().WithMaxGoroutines(s.concurrency)
	for _, id := range toFetch {
		id := id
		workers.Go(func() {
			rec, err := s.client.MovieDetails(ctx, id)
			if err != nil {
				s.log.Warn("movie metadata fetch failed", "movie", id, "error", s.redact(err))
				return
			}
			rec.CachedAt = time.Now().Format(time.RFC3339)
			s.movies.PutIfAbsent(id, rec)
			mu.Lock()
			results[id] = rec
			mu.Unlock()
		})
	}
	workers.Wait()

	records := make([]models.MovieRecord, 0, len(results))
	for _, id := range ids {
		if rec, ok := results[id]; ok {
			records = append(records, rec)
		}
	}
	s.log.Info("movie metadata ready", "records", len(records))
	return records
}

// SeriesListings fetches the three curated series listings. A failed page
// degrades that listing rather than failing the run.
func (s *Service) SeriesListings(ctx context.Context) SeriesListings {
	return SeriesListings{
		OnAir:    s.listingIDs(ctx, s.client.SeriesListing, ListingOnTheAir, 2),
		Popular:  s.listingIDs(ctx, s.client.SeriesListing, ListingPopular, 3),
		TopRated: s.listingIDs(ctx, s.client.SeriesListing, ListingTopRated, 2),
	}
}

// MovieListings fetches the three curated movie listings.
func (s *Service) MovieListings(ctx context.Context) MovieListings {
	return MovieListings{
		NowPlaying: s.listingIDs(ctx, s.client.MovieListing, ListingNowPlaying, 2),
		Popular:    s.listingIDs(ctx, s.client.MovieListing, ListingPopular, 3),
		TopRated:   s.listingIDs(ctx, s.client.MovieListing, ListingTopRated, 2),
	}
}

func (s *Service) listingIDs(ctx context.Context, fetch func(context.Context, ListingKind, int) ([]int, error), kind ListingKind, pages int) []int {
	var ids []int
	seen := make(map[int]struct{})
	for page := 1; page <= pages; page++ {
		pageIDs, err := fetch(ctx, kind, page)
		if err != nil {
			s.log.Warn("listing page fetch failed",
				"listing", string(kind), "page", page, "error", s.redact(err))
			continue
		}
		for _, id := range pageIDs {
			if _, dup := seen[id]; dup {
				continue
			}
			seen[id] = struct{}{}
			ids = append(ids, id)
		}
	}
	return ids
}

// SeriesGenres returns the TV genre mapping, empty on failure.
func (s *Service) SeriesGenres(ctx context.Context) []models.Genre {
	genres, err := s.client.SeriesGenres(ctx)
	if err != nil {
		s.log.Warn("series genre mapping fetch failed", "error", s.redact(err))
		return nil
	}
	return genres
}

// MovieGenres returns the movie genre mapping, empty on failure.
func (s *Service) MovieGenres(ctx context.Context) []models.Genre {
	genres, err := s.client.MovieGenres(ctx)
	if err != nil {
		s.log.Warn("movie genre mapping fetch failed", "error", s.redact(err))
		return nil
	}
	return genres
}

// PersistSeries writes the series cache to disk.
func (s *Service) PersistSeries() error { return s.series.Persist() }

// PersistMovies writes the movie cache to disk.
func (s *Service) PersistMovies() error { return s.movies.Persist() }

// CachedSeries returns the number of series records currently cached.
func (s *Service) CachedSeries() int { return s.series.Len() }

// CachedMovies returns the number of movie records currently cached.
func (s *Service) CachedMovies() int { return s.movies.Len() }

func (s *Service) redact(err error) string {
	return utils.RedactCredential(err.Error(), s.apiKey)
}
