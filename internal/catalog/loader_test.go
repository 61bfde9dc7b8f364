// internal/catalog/loader_test.go
package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeCatalogFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "catalog.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadVolumes(t *testing.T) {
	path := writeCatalogFile(t, `[
		{"id": 1, "title": "Berserk", "author": "Kentaro Miura", "price": "24.99",
		 "rating": 9.6, "genres": ["Action"], "release_date": "2019-02-26", "in_stock": true}
	]`)

	volumes, err := LoadVolumes(path)
	require.NoError(t, err)
	require.Len(t, volumes, 1)

	assert.Equal(t, "Berserk", volumes[0].Title)
	assert.Equal(t, "24.99", volumes[0].Price.StringFixed(2))
	assert.Equal(t, 2019, volumes[0].ReleaseDate.Year())
	assert.True(t, volumes[0].InStock)
}

func TestLoadVolumesMissingFile(t *testing.T) {
	_, err := LoadVolumes(filepath.Join(t.TempDir(), "nope.json"))
	assert.Error(t, err)
}

func TestLoadVolumesRejectsNegativePrice(t *testing.T) {
	path := writeCatalogFile(t, `[
		{"id": 1, "title": "X", "author": "Y", "price": "-1",
		 "rating": 5, "genres": [], "release_date": "2019-02-26", "in_stock": true}
	]`)

	_, err := LoadVolumes(path)
	assert.Error(t, err)
}

func TestLoadVolumesRejectsBadDate(t *testing.T) {
	path := writeCatalogFile(t, `[
		{"id": 1, "title": "X", "author": "Y", "price": "1",
		 "rating": 5, "genres": [], "release_date": "soon", "in_stock": true}
	]`)

	_, err := LoadVolumes(path)
	assert.Error(t, err)
}
