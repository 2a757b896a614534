package cache

import (
	"sync"
	"time"

	"labdesk/models"
)

// DepartmentCache holds the department list for the nav switcher. Entries
// expire after ttl so admin edits show up without a restart.
type DepartmentCache struct {
	mu       sync.RWMutex
	ttl      time.Duration
	loadedAt time.Time
	items    []models.Department
	now      func() time.Time
}

func NewDepartmentCache(ttl time.Duration) *DepartmentCache {
	return &DepartmentCache{ttl: ttl, now: time.Now}
}

func (c *DepartmentCache) Get() ([]models.Department, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.items == nil || c.now().Sub(c.loadedAt) > c.ttl {
		return nil, false
	}
	out := make([]models.Department, len(c.items))
	copy(out, c.items)
	return out, true
}

func (c *DepartmentCache) Set(items []models.Department) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = make([]models.Department, len(items))
	copy(c.items, items)
	c.loadedAt = c.now()
}

// Invalidate is safe on a nil cache.
func (c *DepartmentCache) Invalidate() {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = nil
}
