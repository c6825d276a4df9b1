package playlist

import (
	"sort"

	"vixstream/models"
)

// Headline is one curated section: its display name, the ids the listing put
// in it (in listing order) and how many resolved members it may hold.
type Headline struct {
	Name string
	IDs  []int
	Cap  int
}

// Classify builds the playlist sections from the resolved records. Headline
// sections come first in the given order, each holding the records whose ids
// the listing named, in listing order, up to the cap. Behind them follows
// one section per genre in mapping order, members sorted by release date
// descending with undated records last and id breaking ties. Sections with
// no members are dropped. A record may appear in any number of sections.
func Classify[R models.Record](records []R, headlines []Headline, genres []models.Genre) []models.Category[R] {
	byID := make(map[int]R, len(records))
	ids := make([]int, 0, len(records))
	for _, rec := range records {
		id := rec.Key()
		if _, dup := byID[id]; dup {
			continue
		}
		byID[id] = rec
		ids = append(ids, id)
	}
	sort.Ints(ids)

	categories := make([]models.Category[R], 0, len(headlines)+len(genres))
	for _, h := range headlines {
		var members []R
		for _, id := range h.IDs {
			rec, ok := byID[id]
			if !ok {
				continue
			}
			members = append(members, rec)
			if h.Cap > 0 && len(members) == h.Cap {
				break
			}
		}
		if len(members) > 0 {
			categories = append(categories, models.Category[R]{Name: h.Name, Records: members})
		}
	}

	for _, genre := range genres {
		var members []R
		for _, id := range ids {
			rec := byID[id]
			if hasGenre(rec.Genres(), genre.ID) {
				members = append(members, rec)
			}
		}
		if len(members) == 0 {
			continue
		}
		sort.SliceStable(members, func(i, j int) bool {
			di, dj := members[i].Released(), members[j].Released()
			if di == "" {
				return false
			}
			if dj == "" {
				return true
			}
			return di > dj
		})
		categories = append(categories, models.Category[R]{Name: genre.Name, Records: members})
	}
	return categories
}

func hasGenre(genreIDs []int, want int) bool {
	for _, id := range genreIDs {
		if id == want {
			return true
		}
	}
	return false
}
