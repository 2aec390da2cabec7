package regions

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"investviz/pkg/contracts/domain"
)

func TestCatalogEmbeddedDefault(t *testing.T) {
	c := NewCatalog("", nil)
	entries := c.Entries()

	require.NotEmpty(t, entries)

	byCanonical := make(map[string]domain.RegionEntry, len(entries))
	for _, e := range entries {
		byCanonical[e.Canonical] = e
	}
	assert.Equal(t, domain.RegionLevelTotal, byCanonical["総計"].Level)
	assert.Equal(t, domain.RegionLevelCountry, byCanonical["アメリカ合衆国"].Level)
	assert.Equal(t, domain.RegionLevelGroup, byCanonical["ASEAN"].Level)
}

func TestCatalogFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "regions.yml")
	content := `regions:
  - canonical: "米国"
    canonical_en: "United States"
    aliases_ja: ["米国"]
    aliases_en: ["United States"]
    level: country
  - canonical: ""
    level: country
  - canonical: "火星"
    level: planet
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	c := NewCatalog(path, nil)
	entries := c.Entries()

	// The two invalid entries are skipped, not fatal.
	require.Len(t, entries, 1)
	assert.Equal(t, "米国", entries[0].Canonical)
}

func TestCatalogUnreadableFile(t *testing.T) {
	c := NewCatalog(filepath.Join(t.TempDir(), "missing.yml"), nil)
	assert.Empty(t, c.Entries())
}

func TestCatalogConcurrentLoad(t *testing.T) {
	c := NewCatalog("", nil)

	var wg sync.WaitGroup
	results := make([][]domain.RegionEntry, 8)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = c.Entries()
		}(i)
	}
	wg.Wait()

	for _, r := range results {
		assert.Len(t, r, len(results[0]))
	}
}
