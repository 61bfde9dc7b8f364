// internal/catalog/service.go
package catalog

import "context"

// Service defines the interface for the catalog service.
type Service interface {
	Query(ctx context.Context, spec QuerySpec) []Volume
	Get(ctx context.Context, id int) (*Volume, error)
	Genres(ctx context.Context) []string
	Featured(ctx context.Context, n int) []Volume
	NewReleases(ctx context.Context, n int) []Volume
	Bestsellers(ctx context.Context, n int) []Volume
}
