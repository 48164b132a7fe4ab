package reconciler

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// DraftCache stores serialized draft payloads keyed per user and
// scenario. Implementations must tolerate concurrent access; failures
// are reported so callers can degrade (autosave is best-effort) rather
// than crash.
type DraftCache interface {
	Get(key string) (string, bool)
	Set(key, value string) error
	Delete(key string) error
}

// CacheKey builds the canonical cache key for a user's draft on a
// scenario.
func CacheKey(userID, scenarioID uint64) string {
	return fmt.Sprintf("draft_design_%d_%d", userID, scenarioID)
}

// MemoryCache is a process-local DraftCache. It is the default for
// tests and for embedding the reconciler in another program.
type MemoryCache struct {
	mu sync.RWMutex
	m  map[string]string
}

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{m: make(map[string]string)}
}

func (c *MemoryCache) Get(key string) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.m[key]
	return v, ok
}

func (c *MemoryCache) Set(key, value string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.m[key] = value
	return nil
}

func (c *MemoryCache) Delete(key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.m, key)
	return nil
}

// FileCache persists drafts as one file per key under a directory, so
// a CLI client survives restarts the way a browser tab survives
// reloads.
type FileCache struct {
	dir string
}

// NewFileCache creates the directory if needed.
func NewFileCache(dir string) (*FileCache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &FileCache{dir: dir}, nil
}

func (c *FileCache) path(key string) string {
	return filepath.Join(c.dir, key+".json")
}

func (c *FileCache) Get(key string) (string, bool) {
	b, err := os.ReadFile(c.path(key))
	if err != nil {
		return "", false
	}
	return string(b), true
}

func (c *FileCache) Set(key, value string) error {
	return os.WriteFile(c.path(key), []byte(value), 0o644)
}

func (c *FileCache) Delete(key string) error {
	err := os.Remove(c.path(key))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}
