// Package cache is a content-addressed store for search results: one JSON
// document per compiled query, keyed by a truncated digest of the query
// string, kept under a cache/ subdirectory of the subset output path.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/tagpull/tagpull/internal/domain"
)

const dirName = "cache"

// Key returns the cache key for a compiled query: the first 16 hex characters
// of its SHA-256 digest.
func Key(query string) string {
	sum := sha256.Sum256([]byte(query))
	return hex.EncodeToString(sum[:])[:16]
}

// Store reads and writes cached search results under one output path.
type Store struct {
	dir    string
	logger *slog.Logger
}

// New creates a store rooted at outputPath/cache.
func New(outputPath string, logger *slog.Logger) *Store {
	return &Store{
		dir:    filepath.Join(outputPath, dirName),
		logger: logger,
	}
}

// Load returns the items cached for the query, or (nil, nil) when no entry
// exists. Absence is not an error; the caller decides whether to fetch.
func (s *Store) Load(query string) ([]*domain.PostItem, error) {
	path := filepath.Join(s.dir, Key(query)+".json")

	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open cache %s: %w", path, err)
	}
	defer f.Close()

	var items []*domain.PostItem
	if err := json.NewDecoder(f).Decode(&items); err != nil {
		return nil, fmt.Errorf("parse cache %s: %w", path, err)
	}

	s.logger.Debug("cache hit", "key", Key(query), "items", len(items))
	return items, nil
}

// Save writes the items under the query's key. The document is written to a
// temp file and renamed into place, so readers never observe a partial entry
// and a canceled run cannot corrupt the cache.
func (s *Store) Save(query string, items []*domain.PostItem) error {
	if items == nil {
		// Store an empty list, not null: an exhausted query is still a hit.
		items = []*domain.PostItem{}
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("create cache dir: %w", err)
	}

	path := filepath.Join(s.dir, Key(query)+".json")

	tmp, err := os.CreateTemp(s.dir, "entry-*.tmp")
	if err != nil {
		return fmt.Errorf("create cache temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := json.NewEncoder(tmp).Encode(items); err != nil {
		tmp.Close()
		return fmt.Errorf("write cache entry: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close cache temp file: %w", err)
	}

	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("rename cache entry: %w", err)
	}

	s.logger.Debug("cache write", "key", Key(query), "items", len(items))
	return nil
}
