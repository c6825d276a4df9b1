// Package playlist turns availability, metadata and resolved stream URLs
// into the final M3U documents. It owns the ordering rules: curated sections
// first, then one section per genre in mapping order.
package playlist

import (
	"context"
	"log/slog"
	"sort"
	"sync"

	"github.com/sourcegraph/conc/pool"

	"vixstream/models"
)

// StreamResolver is the part of the resolver the engine needs.
type StreamResolver interface {
	ResolveEpisode(ctx context.Context, key models.EpisodeKey) (string, bool)
	ResolveMovie(ctx context.Context, id int) (string, bool)
}

// ResolvedEpisode is one playable episode of a series.
type ResolvedEpisode struct {
	Season  int
	Episode int
	URL     string
}

// Engine resolves whole availability sets under one bounded worker pool.
// Season ordering inside a series is restored after the pool drains, so
// completion order never leaks into the output.
type Engine struct {
	resolver StreamResolver
	workers  int
	log      *slog.Logger
}

// NewEngine creates an engine resolving at most workers pages at a time.
func NewEngine(resolver StreamResolver, workers int) *Engine {
	if workers <= 0 {
		workers = 1
	}
	return &Engine{
		resolver: resolver,
		workers:  workers,
		log:      slog.Default().With("component", "engine"),
	}
}

// ResolveSeriesSet resolves every available episode of the given series ids.
// The result maps series id to its resolved episodes in (season, episode)
// order; series with no resolvable episode are absent.
func (e *Engine) ResolveSeriesSet(ctx context.Context, idx *models.AvailabilityIndex, ids []int) map[int][]ResolvedEpisode {
	resolved := make(map[int][]ResolvedEpisode, len(ids))
	var (
		mu     sync.Mutex
		missed int
		total  int
	)

	workers := pool.New().WithMaxGoroutines(e.workers)
	for _, id := range ids {
		for _, key := range idx.EpisodeKeys(id) {
			key := key
			total++
			workers.Go(func() {
				url, ok := e.resolver.ResolveEpisode(ctx, key)
				mu.Lock()
				defer mu.Unlock()
				if !ok {
					missed++
					return
				}
				resolved[key.SeriesID] = append(resolved[key.SeriesID], ResolvedEpisode{
					Season:  key.Season,
					Episode: key.Episode,
					URL:     url,
				})
			})
		}
	}
	workers.Wait()

	for id := range resolved {
		eps := resolved[id]
		sort.Slice(eps, func(i, j int) bool {
			if eps[i].Season != eps[j].Season {
				return eps[i].Season < eps[j].Season
			}
			return eps[i].Episode < eps[j].Episode
		})
	}

	e.log.Info("episode resolution finished",
		"series", len(ids), "episodes", total, "resolved", total-missed, "missed", missed)
	return resolved
}

// ResolveMovieSet resolves the given movie ids. Movies with no resolvable
// stream are absent from the result.
func (e *Engine) ResolveMovieSet(ctx context.Context, ids []int) map[int]string {
	resolved := make(map[int]string, len(ids))
	var mu sync.Mutex

	workers := pool.New().WithMaxGoroutines(e.workers)
	for _, id := range ids {
		id := id
		workers.Go(func() {
			url, ok := e.resolver.ResolveMovie(ctx, id)
			if !ok {
				return
			}
			mu.Lock()
			resolved[id] = url
			mu.Unlock()
		})
	}
	workers.Wait()

	e.log.Info("movie resolution finished",
		"movies", len(ids), "resolved", len(resolved), "missed", len(ids)-len(resolved))
	return resolved
}
