// internal/catalog/implementation.go
package catalog

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// service implements the Service interface over an immutable in-memory
// catalog.
type service struct {
	volumes []Volume
	byID    map[int]int
}

// NewService creates a catalog service over the given volumes. Volume IDs
// must be unique and positive.
func NewService(volumes []Volume) (Service, error) {
	byID := make(map[int]int, len(volumes))
	for i, v := range volumes {
		if v.ID <= 0 {
			return nil, fmt.Errorf("volume %q: non-positive id %d", v.Title, v.ID)
		}
		if _, ok := byID[v.ID]; ok {
			return nil, fmt.Errorf("duplicate volume id %d", v.ID)
		}
		byID[v.ID] = i
	}
	return &service{volumes: volumes, byID: byID}, nil
}

// Query runs the filter/sort pipeline over the catalog. The pipeline order is
// fixed: text filter, genre filter, price range filter, stable sort. The
// input catalog is never mutated; an inverted price range yields an empty
// result.
func (s *service) Query(_ context.Context, spec QuerySpec) []Volume {
	out := make([]Volume, 0, len(s.volumes))
	text := strings.ToLower(spec.Text)

	for _, v := range s.volumes {
		if text != "" &&
			!strings.Contains(strings.ToLower(v.Title), text) &&
			!strings.Contains(strings.ToLower(v.Author), text) {
			continue
		}
		if len(spec.Genres) > 0 && !matchesAnyGenre(v, spec.Genres) {
			continue
		}
		if spec.PriceMin != nil && v.Price.LessThan(*spec.PriceMin) {
			continue
		}
		if spec.PriceMax != nil && v.Price.GreaterThan(*spec.PriceMax) {
			continue
		}
		out = append(out, v)
	}

	sortVolumes(out, spec.Sort)
	return out
}

func matchesAnyGenre(v Volume, genres []string) bool {
	for _, g := range genres {
		if v.HasGenre(g) {
			return true
		}
	}
	return false
}

// sortVolumes stably orders volumes by key; ties keep their relative input
// order. The zero key sorts like SortTitleAsc.
func sortVolumes(volumes []Volume, key SortKey) {
	switch key {
	case SortTitleDesc:
		c := newTitleCollator()
		sort.SliceStable(volumes, func(i, j int) bool {
			return c.CompareString(volumes[j].Title, volumes[i].Title) < 0
		})
	case SortPriceAsc:
		sort.SliceStable(volumes, func(i, j int) bool {
			return volumes[i].Price.LessThan(volumes[j].Price)
		})
	case SortPriceDesc:
		sort.SliceStable(volumes, func(i, j int) bool {
			return volumes[j].Price.LessThan(volumes[i].Price)
		})
	case SortRatingDesc:
		sort.SliceStable(volumes, func(i, j int) bool {
			return volumes[j].Rating < volumes[i].Rating
		})
	default:
		c := newTitleCollator()
		sort.SliceStable(volumes, func(i, j int) bool {
			return c.CompareString(volumes[i].Title, volumes[j].Title) < 0
		})
	}
}

// newTitleCollator builds a locale-aware collator. Collators are stateful, so
// each sort gets its own.
func newTitleCollator() *collate.Collator {
	return collate.New(language.English, collate.IgnoreCase)
}

// Get retrieves a volume by ID.
func (s *service) Get(_ context.Context, id int) (*Volume, error) {
	i, ok := s.byID[id]
	if !ok {
		return nil, fmt.Errorf("%w: id %d", ErrVolumeNotFound, id)
	}
	v := s.volumes[i]
	return &v, nil
}

// Genres returns the distinct genre tags across the catalog, sorted.
func (s *service) Genres(_ context.Context) []string {
	seen := make(map[string]struct{})
	var genres []string
	for _, v := range s.volumes {
		for _, g := range v.Genres {
			if _, ok := seen[g]; ok {
				continue
			}
			seen[g] = struct{}{}
			genres = append(genres, g)
		}
	}
	sort.Strings(genres)
	return genres
}

// Featured returns the first n volumes in catalog order.
func (s *service) Featured(_ context.Context, n int) []Volume {
	out := make([]Volume, len(s.volumes))
	copy(out, s.volumes)
	return takeN(out, n)
}

// NewReleases returns the n most recently released volumes.
func (s *service) NewReleases(_ context.Context, n int) []Volume {
	out := make([]Volume, len(s.volumes))
	copy(out, s.volumes)
	sort.SliceStable(out, func(i, j int) bool {
		return out[j].ReleaseDate.Before(out[i].ReleaseDate)
	})
	return takeN(out, n)
}

// Bestsellers returns the n highest-rated volumes.
func (s *service) Bestsellers(ctx context.Context, n int) []Volume {
	return takeN(s.Query(ctx, QuerySpec{Sort: SortRatingDesc}), n)
}

func takeN(volumes []Volume, n int) []Volume {
	if n < 0 {
		n = 0
	}
	if n > len(volumes) {
		n = len(volumes)
	}
	return volumes[:n]
}
