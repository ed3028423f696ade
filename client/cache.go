package client

import (
	"sync"

	"finance-dashboard/api/models"
)

// Cache is the keyed snapshot store display components read from. Only the
// reconciliation protocol writes: write, snapshot and drop are unexported on
// purpose. A write fully replaces the previous snapshot, never merges.
type Cache struct {
	mu        sync.RWMutex
	snapshots map[string]*models.Dashboard
}

func NewCache() *Cache {
	return &Cache{snapshots: make(map[string]*models.Dashboard)}
}

// Read returns a copy of the live snapshot for a key. Reads during an
// in-flight mutation see the optimistic, not-yet-confirmed value.
func (c *Cache) Read(key string) (*models.Dashboard, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	snap, ok := c.snapshots[key]
	if !ok {
		return nil, false
	}
	return snap.Clone(), true
}

func (c *Cache) write(key string, snap *models.Dashboard) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.snapshots[key] = snap
}

// snapshot captures the current value for rollback. The copy is independent
// of later optimistic writes.
func (c *Cache) snapshot(key string) (*models.Dashboard, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	snap, ok := c.snapshots[key]
	if !ok {
		return nil, false
	}
	return snap.Clone(), true
}

func (c *Cache) drop(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.snapshots, key)
}
