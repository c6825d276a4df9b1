package models

import (
	"reflect"
	"testing"
)

func TestAvailabilityIndexSortsOnInsert(t *testing.T) {
	idx := NewAvailabilityIndex([]EpisodeKey{
		{SeriesID: 100, Season: 1, Episode: 2},
		{SeriesID: 100, Season: 1, Episode: 1},
		{SeriesID: 100, Season: 2, Episode: 5},
		{SeriesID: 100, Season: 1, Episode: 10},
	})

	got := idx.Episodes(100, 1)
	want := []int{1, 2, 10}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("season 1 episodes = %v, want %v", got, want)
	}
}

func TestAvailabilityIndexDeduplicates(t *testing.T) {
	idx := NewAvailabilityIndex([]EpisodeKey{
		{SeriesID: 7, Season: 1, Episode: 3},
		{SeriesID: 7, Season: 1, Episode: 3},
		{SeriesID: 7, Season: 1, Episode: 3},
	})

	if got := idx.Episodes(7, 1); len(got) != 1 {
		t.Fatalf("expected 1 episode after dedup, got %v", got)
	}
	if got := idx.TotalEpisodes(); got != 1 {
		t.Fatalf("TotalEpisodes = %d, want 1", got)
	}
}

func TestAvailabilityIndexOrdering(t *testing.T) {
	idx := NewAvailabilityIndex([]EpisodeKey{
		{SeriesID: 30, Season: 2, Episode: 1},
		{SeriesID: 10, Season: 1, Episode: 1},
		{SeriesID: 20, Season: 1, Episode: 2},
		{SeriesID: 30, Season: 1, Episode: 4},
	})

	if got, want := idx.SeriesIDs(), []int{10, 20, 30}; !reflect.DeepEqual(got, want) {
		t.Fatalf("SeriesIDs = %v, want %v", got, want)
	}
	if got, want := idx.Seasons(30), []int{1, 2}; !reflect.DeepEqual(got, want) {
		t.Fatalf("Seasons(30) = %v, want %v", got, want)
	}

	keys := idx.EpisodeKeys(30)
	want := []EpisodeKey{
		{SeriesID: 30, Season: 1, Episode: 4},
		{SeriesID: 30, Season: 2, Episode: 1},
	}
	if !reflect.DeepEqual(keys, want) {
		t.Fatalf("EpisodeKeys(30) = %v, want %v", keys, want)
	}
}

func TestAvailabilityIndexEmpty(t *testing.T) {
	idx := NewAvailabilityIndex(nil)
	if idx.Len() != 0 {
		t.Fatalf("Len = %d, want 0", idx.Len())
	}
	if ids := idx.SeriesIDs(); len(ids) != 0 {
		t.Fatalf("SeriesIDs = %v, want empty", ids)
	}
	if keys := idx.EpisodeKeys(123); keys != nil {
		t.Fatalf("EpisodeKeys for unknown series = %v, want nil", keys)
	}
}
