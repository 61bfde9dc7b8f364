// internal/catalog/loader.go
package catalog

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/shopspring/decimal"
)

// volumeRecord is the on-disk shape of a catalog entry. Release dates are
// plain calendar dates.
type volumeRecord struct {
	ID          int             `json:"id"`
	Title       string          `json:"title"`
	Author      string          `json:"author"`
	Publisher   string          `json:"publisher"`
	Description string          `json:"description"`
	CoverImage  string          `json:"cover_image"`
	Price       decimal.Decimal `json:"price"`
	Rating      float64         `json:"rating"`
	Volumes     int             `json:"volumes"`
	Genres      []string        `json:"genres"`
	ReleaseDate string          `json:"release_date"`
	InStock     bool            `json:"in_stock"`
}

// LoadVolumes reads the static catalog file. Prices must be non-negative and
// release dates in YYYY-MM-DD form.
func LoadVolumes(path string) ([]Volume, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog file: %w", err)
	}

	var records []volumeRecord
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, fmt.Errorf("parse catalog file: %w", err)
	}

	volumes := make([]Volume, 0, len(records))
	for _, r := range records {
		if r.Price.IsNegative() {
			return nil, fmt.Errorf("volume %d: negative price %s", r.ID, r.Price)
		}
		released, err := time.Parse("2006-01-02", r.ReleaseDate)
		if err != nil {
			return nil, fmt.Errorf("volume %d: release date: %w", r.ID, err)
		}
		volumes = append(volumes, Volume{
			ID:          r.ID,
			Title:       r.Title,
			Author:      r.Author,
			Publisher:   r.Publisher,
			Description: r.Description,
			CoverImage:  r.CoverImage,
			Price:       r.Price,
			Rating:      r.Rating,
			Volumes:     r.Volumes,
			Genres:      r.Genres,
			ReleaseDate: released,
			InStock:     r.InStock,
		})
	}
	return volumes, nil
}
