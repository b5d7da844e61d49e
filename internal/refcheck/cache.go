package refcheck

import "sync"

// Cache holds the checker's cached entity universe and scan results.
// Invalidation is explicit: rename flows call Invalidate after every
// apply attempt, successful or not, so stale results never survive a
// partial rename.
type Cache struct {
	mu          sync.Mutex
	entities    map[string]EntityDetail
	broken      []BrokenReference
	brokenValid bool
}

// NewCache creates an empty cache.
func NewCache() *Cache {
	return &Cache{}
}

// Invalidate discards all cached state.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entities = nil
	c.broken = nil
	c.brokenValid = false
}

// Entities returns the cached entity universe, or false when not
// populated.
func (c *Cache) Entities() (map[string]EntityDetail, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.entities == nil {
		return nil, false
	}
	return c.entities, true
}

// SetEntities stores the entity universe.
func (c *Cache) SetEntities(entities map[string]EntityDetail) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entities = entities
}

// BrokenRefs returns the cached scan result. A nil slice with valid
// true means a scan ran and found nothing.
func (c *Cache) BrokenRefs() ([]BrokenReference, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.broken, c.brokenValid
}

// SetBrokenRefs stores a scan result.
func (c *Cache) SetBrokenRefs(refs []BrokenReference) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.broken = refs
	c.brokenValid = true
}
