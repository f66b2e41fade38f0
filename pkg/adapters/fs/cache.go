package fs

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/aretw0/minions/pkg/core"
)

// indexEntry is the cached copy of one record file.
type indexEntry struct {
	ID           string      `json:"id"`
	Record       core.Minion `json:"record"`
	LastModified time.Time   `json:"lastModified"`
}

// index represents the persistent cache state.
type index struct {
	Version int                    `json:"version"`
	Entries map[string]*indexEntry `json:"entries"` // Key is the relative path (e.g. "ab/cd/<id>.json")
	dirty   bool
	mu      sync.RWMutex
}

const indexVersion = 1

// cache manages the loading, updating, and saving of the index.
type cache struct {
	Path  string // Path to {root}/{systemDir}/index.json
	index *index
}

// newCache initializes a cache at the given path.
func newCache(rootPath, systemDir string) *cache {
	return &cache{
		Path: filepath.Join(rootPath, systemDir, "index.json"),
		index: &index{
			Version: indexVersion,
			Entries: make(map[string]*indexEntry),
		},
	}
}

// Load reads the cache from disk. A missing, corrupt or outdated file
// yields an empty index.
func (c *cache) Load() error {
	c.index.mu.Lock()
	defer c.index.mu.Unlock()

	data, err := os.ReadFile(c.Path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read cache: %w", err)
	}

	if err := json.Unmarshal(data, c.index); err != nil || c.index.Version != indexVersion || c.index.Entries == nil {
		c.index.Version = indexVersion
		c.index.Entries = make(map[string]*indexEntry)
		return nil
	}

	c.index.dirty = false
	return nil
}

// Save persists the cache to disk if it's dirty.
func (c *cache) Save() error {
	c.index.mu.RLock()
	if !c.index.dirty {
		c.index.mu.RUnlock()
		return nil
	}
	data, err := json.Marshal(c.index)
	c.index.mu.RUnlock()

	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(c.Path), 0755); err != nil {
		return err
	}

	if err := writeFileAtomic(c.Path, data, 0644); err != nil {
		return err
	}

	c.index.mu.Lock()
	c.index.dirty = false
	c.index.mu.Unlock()

	return nil
}

// Get retrieves an entry if it exists and is fresh.
func (c *cache) Get(relPath string, currentMtime time.Time) (*indexEntry, bool) {
	c.index.mu.RLock()
	defer c.index.mu.RUnlock()

	entry, ok := c.index.Entries[relPath]
	if !ok || !entry.LastModified.Equal(currentMtime) {
		return nil, false
	}
	return entry, true
}

// Lookup retrieves an entry regardless of freshness.
func (c *cache) Lookup(relPath string) (*indexEntry, bool) {
	c.index.mu.RLock()
	defer c.index.mu.RUnlock()
	entry, ok := c.index.Entries[relPath]
	return entry, ok
}

// Set updates an entry in the cache.
func (c *cache) Set(relPath string, entry *indexEntry) {
	c.index.mu.Lock()
	defer c.index.mu.Unlock()

	c.index.Entries[relPath] = entry
	c.index.dirty = true
}

// Prune removes entries that are not in the 'keep' set.
func (c *cache) Prune(keep map[string]bool) {
	c.index.mu.Lock()
	defer c.index.mu.Unlock()

	for path := range c.index.Entries {
		if !keep[path] {
			delete(c.index.Entries, path)
			c.index.dirty = true
		}
	}
}

// Delete removes a single entry from the cache.
func (c *cache) Delete(relPath string) {
	c.index.mu.Lock()
	defer c.index.mu.Unlock()

	if _, ok := c.index.Entries[relPath]; ok {
		delete(c.index.Entries, relPath)
		c.index.dirty = true
	}
}

// Records returns a copy of every cached record.
func (c *cache) Records() []core.Minion {
	c.index.mu.RLock()
	defer c.index.mu.RUnlock()

	out := make([]core.Minion, 0, len(c.index.Entries))
	for _, e := range c.index.Entries {
		out = append(out, e.Record.Clone())
	}
	return out
}

// Len returns the number of entries in the cache.
func (c *cache) Len() int {
	c.index.mu.RLock()
	defer c.index.mu.RUnlock()
	return len(c.index.Entries)
}
