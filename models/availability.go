package models

import (
	"sort"
)

// EpisodeKey identifies one episode known to the availability service.
// JSON tags match the service's list payload.
type EpisodeKey struct {
	SeriesID int `json:"tmdb_id"`
	Season   int `json:"s"`
	Episode  int `json:"e"`
}

// AvailabilityIndex is the two-level map from series to season to the
// ordered set of available episode numbers. Episodes are kept sorted on
// insert and deduplicated; the index is built once per run and read-only
// afterwards.
type AvailabilityIndex struct {
	seasons map[int]map[int][]int
}

// NewAvailabilityIndex builds an index from the flat availability list.
func NewAvailabilityIndex(keys []EpisodeKey) *AvailabilityIndex {
	idx := &AvailabilityIndex{seasons: make(map[int]map[int][]int)}
	for _, k := range keys {
		idx.add(k)
	}
	return idx
}

func (idx *AvailabilityIndex) add(k EpisodeKey) {
	bySeason, ok := idx.seasons[k.SeriesID]
	if !ok {
		bySeason = make(map[int][]int)
		idx.seasons[k.SeriesID] = bySeason
	}
	eps := bySeason[k.Season]
	i := sort.SearchInts(eps, k.Episode)
	if i < len(eps) && eps[i] == k.Episode {
		return
	}
	eps = append(eps, 0)
	copy(eps[i+1:], eps[i:])
	eps[i] = k.Episode
	bySeason[k.Season] = eps
}

// SeriesIDs returns every series in the index, ascending.
func (idx *AvailabilityIndex) SeriesIDs() []int {
	ids := make([]int, 0, len(idx.seasons))
	for id := range idx.seasons {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// Seasons returns the season numbers known for a series, ascending.
func (idx *AvailabilityIndex) Seasons(seriesID int) []int {
	bySeason := idx.seasons[seriesID]
	seasons := make([]int, 0, len(bySeason))
	for s := range bySeason {
		seasons = append(seasons, s)
	}
	sort.Ints(seasons)
	return seasons
}

// Episodes returns the ordered episode numbers for one season of a series.
func (idx *AvailabilityIndex) Episodes(seriesID, season int) []int {
	return idx.seasons[seriesID][season]
}

// EpisodeKeys returns every episode of one series in (season, episode)
// order.
func (idx *AvailabilityIndex) EpisodeKeys(seriesID int) []EpisodeKey {
	var keys []EpisodeKey
	for _, season := range idx.Seasons(seriesID) {
		for _, ep := range idx.Episodes(seriesID, season) {
			keys = append(keys, EpisodeKey{SeriesID: seriesID, Season: season, Episode: ep})
		}
	}
	return keys
}

// Len returns the number of series in the index.
func (idx *AvailabilityIndex) Len() int {
	return len(idx.seasons)
}

// TotalEpisodes returns the number of episodes across all series.
func (idx *AvailabilityIndex) TotalEpisodes() int {
	total := 0
	for _, bySeason := range idx.seasons {
		for _, eps := range bySeason {
			total += len(eps)
		}
	}
	return total
}
