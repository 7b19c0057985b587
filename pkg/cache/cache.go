// Package cache provides an in-memory cache of resolved folder entries,
// backing the breadcrumb per-id fallback lookups.
package cache

import (
	"sync"
	"time"

	"github.com/SDRoan/Filebox-sub001/pkg/models"
)

type entry struct {
	folder  models.FolderEntry
	addedAt time.Time
}

// FolderCache caches folder display objects by id with a TTL and a size cap.
type FolderCache struct {
	ttl time.Duration
	max int

	mu      sync.RWMutex
	entries map[string]entry
}

// New creates a folder cache. max <= 0 means 256 entries; ttl <= 0 disables
// expiry.
func New(max int, ttl time.Duration) *FolderCache {
	if max <= 0 {
		max = 256
	}
	return &FolderCache{
		ttl:     ttl,
		max:     max,
		entries: make(map[string]entry),
	}
}

// Get returns a cached folder if present and not expired.
func (c *FolderCache) Get(id string) (models.FolderEntry, bool) {
	c.mu.RLock()
	e, ok := c.entries[id]
	c.mu.RUnlock()
	if !ok {
		return models.FolderEntry{}, false
	}
	if c.ttl > 0 && time.Since(e.addedAt) > c.ttl {
		c.mu.Lock()
		delete(c.entries, id)
		c.mu.Unlock()
		return models.FolderEntry{}, false
	}
	return e.folder, true
}

// Put stores a folder, evicting the oldest entry when over capacity.
// Overwriting a cached id never evicts anything else.
func (c *FolderCache) Put(folder models.FolderEntry) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.entries[folder.ID]; !ok {
		for len(c.entries) >= c.max {
			if !c.evictOldestLocked() {
				break
			}
		}
	}
	c.entries[folder.ID] = entry{folder: folder, addedAt: time.Now()}
}

// PutAll stores every folder from a listing response.
func (c *FolderCache) PutAll(folders []models.FolderEntry) {
	for _, f := range folders {
		c.Put(f)
	}
}

// Evict removes one folder from the cache.
func (c *FolderCache) Evict(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, id)
}

// Len returns the number of cached folders.
func (c *FolderCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

func (c *FolderCache) evictOldestLocked() bool {
	var oldestID string
	var oldestAt time.Time
	for id, e := range c.entries {
		if oldestID == "" || e.addedAt.Before(oldestAt) {
			oldestID = id
			oldestAt = e.addedAt
		}
	}
	if oldestID == "" {
		return false
	}
	delete(c.entries, oldestID)
	return true
}
