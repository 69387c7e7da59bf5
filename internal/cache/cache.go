// Package cache persists extraction results keyed by apply URL, so a job is
// only ever sent to the LLM once.
package cache

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/jobbermed/medharvest/internal/model"
)

// entry wraps the cached record; the indirection keeps the on-disk format
// open for per-entry metadata later.
type entry struct {
	Data model.CanonicalJob `json:"data"`
}

// FileCache is a JSON-file-backed ExtractionCache. Every Put rewrites the
// file, so an interrupted run keeps everything computed so far.
type FileCache struct {
	mu      sync.Mutex
	path    string
	entries map[string]entry
}

// Open loads the cache at path. A missing or corrupt file yields an empty
// cache rather than an error; the file is recreated on the next Put.
func Open(path string) *FileCache {
	c := &FileCache{
		path:    path,
		entries: make(map[string]entry),
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return c
	}
	var entries map[string]entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return c
	}
	// A file holding the JSON literal "null" decodes to a nil map.
	if entries != nil {
		c.entries = entries
	}
	return c
}

// Get returns the cached record for an apply URL.
func (c *FileCache) Get(applyURL string) (model.CanonicalJob, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[applyURL]
	return e.Data, ok
}

// Put stores a record and flushes the whole cache to disk.
func (c *FileCache) Put(applyURL string, job model.CanonicalJob) error {
	if applyURL == "" {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[applyURL] = entry{Data: job}
	return c.flush()
}

// Len returns the number of cached records.
func (c *FileCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func (c *FileCache) flush() error {
	if err := os.MkdirAll(filepath.Dir(c.path), 0o755); err != nil {
		return fmt.Errorf("create cache dir: %w", err)
	}
	data, err := json.MarshalIndent(c.entries, "", "  ")
	if err != nil {
		return fmt.Errorf("encode cache: %w", err)
	}
	if err := os.WriteFile(c.path, data, 0o644); err != nil {
		return fmt.Errorf("write cache: %w", err)
	}
	return nil
}
