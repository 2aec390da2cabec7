// Package regions canonicalizes free-text geographic mentions against a
// curated dictionary of countries, groups, regions, and totals.
package regions

import (
	_ "embed"
	"log/slog"
	"os"
	"sync"

	"github.com/go-playground/validator/v10"
	"golang.org/x/sync/singleflight"
	"gopkg.in/yaml.v2"

	"investviz/pkg/contracts/domain"
)

//go:embed regions.yml
var embeddedDictionary []byte

// catalogFile mirrors the on-disk dictionary layout.
type catalogFile struct {
	Regions []domain.RegionEntry `yaml:"regions"`
}

// Catalog loads and caches the region dictionary. The load is lazy and
// idempotent; concurrent first-time loads are collapsed through
// singleflight and the cached slice is immutable afterwards.
type Catalog struct {
	path   string
	logger *slog.Logger

	group   singleflight.Group
	mu      sync.RWMutex
	entries []domain.RegionEntry
	loaded  bool
}

// NewCatalog creates a catalog backed by the given dictionary file. An empty
// path selects the bundled default dictionary.
func NewCatalog(path string, logger *slog.Logger) *Catalog {
	if logger == nil {
		logger = slog.Default()
	}
	return &Catalog{path: path, logger: logger}
}

// Entries returns the dictionary entries, loading them on first use.
// A missing or unreadable dictionary degrades to an empty list, never an
// error: downstream region tagging is simply omitted.
func (c *Catalog) Entries() []domain.RegionEntry {
	c.mu.RLock()
	if c.loaded {
		entries := c.entries
		c.mu.RUnlock()
		return entries
	}
	c.mu.RUnlock()

	result, _, _ := c.group.Do("load", func() (interface{}, error) {
		entries := c.load()
		c.mu.Lock()
		c.entries = entries
		c.loaded = true
		c.mu.Unlock()
		return entries, nil
	})
	return result.([]domain.RegionEntry)
}

// load reads and validates the dictionary bytes.
func (c *Catalog) load() []domain.RegionEntry {
	data := embeddedDictionary
	source := "embedded"
	if c.path != "" {
		fileData, err := os.ReadFile(c.path)
		if err != nil {
			c.logger.Warn("region dictionary unreadable, region tagging disabled",
				slog.String("path", c.path),
				slog.String("error", err.Error()))
			return nil
		}
		data = fileData
		source = c.path
	}

	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		c.logger.Warn("region dictionary malformed, region tagging disabled",
			slog.String("source", source),
			slog.String("error", err.Error()))
		return nil
	}

	validate := validator.New()
	entries := make([]domain.RegionEntry, 0, len(file.Regions))
	for _, entry := range file.Regions {
		if err := validate.Struct(entry); err != nil {
			c.logger.Warn("skipping invalid region dictionary entry",
				slog.String("canonical", entry.Canonical),
				slog.String("error", err.Error()))
			continue
		}
		entries = append(entries, entry)
	}

	c.logger.Info("region dictionary loaded",
		slog.String("source", source),
		slog.Int("entry_count", len(entries)))
	return entries
}
