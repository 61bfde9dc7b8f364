// internal/catalog/domain.go
package catalog

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrVolumeNotFound = errors.New("volume not found")
	ErrInvalidSortKey = errors.New("invalid sort key")
)

// Volume represents a purchasable manga volume. The catalog is loaded once at
// startup and never mutated afterwards.
type Volume struct {
	ID          int             `json:"id"`
	Title       string          `json:"title"`
	Author      string          `json:"author"`
	Publisher   string          `json:"publisher,omitempty"`
	Description string          `json:"description,omitempty"`
	CoverImage  string          `json:"cover_image,omitempty"`
	Price       decimal.Decimal `json:"price"`
	Rating      float64         `json:"rating"`
	Volumes     int             `json:"volumes,omitempty"`
	Genres      []string        `json:"genres"`
	ReleaseDate time.Time       `json:"release_date"`
	InStock     bool            `json:"in_stock"`
}

// HasGenre reports whether the volume carries the given genre tag.
func (v Volume) HasGenre(genre string) bool {
	for _, g := range v.Genres {
		if g == genre {
			return true
		}
	}
	return false
}

// SortKey selects the ordering of query results.
type SortKey string

const (
	SortTitleAsc   SortKey = "title-asc"
	SortTitleDesc  SortKey = "title-desc"
	SortPriceAsc   SortKey = "price-asc"
	SortPriceDesc  SortKey = "price-desc"
	SortRatingDesc SortKey = "rating-desc"
)

// ParseSortKey maps a request parameter to a SortKey. An empty parameter
// defaults to title-ascending; anything unrecognized is ErrInvalidSortKey.
func ParseSortKey(s string) (SortKey, error) {
	switch SortKey(s) {
	case "":
		return SortTitleAsc, nil
	case SortTitleAsc, SortTitleDesc, SortPriceAsc, SortPriceDesc, SortRatingDesc:
		return SortKey(s), nil
	}
	return "", ErrInvalidSortKey
}

// QuerySpec is the combined filter/sort request for the catalog. A nil price
// bound is unbounded on that side.
type QuerySpec struct {
	Text     string
	Genres   []string
	PriceMin *decimal.Decimal
	PriceMax *decimal.Decimal
	Sort     SortKey
}
