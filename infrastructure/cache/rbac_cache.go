package cache

import (
	"sort"
	"sync"
)

// Resource is one route grant: a role may call Method on Path, and the grant
// is shown in the nav under UserResourceCode.
type Resource struct {
	UserResourceCode string
	Path             string
	Method           string
	Role             string
}

// RbacRolesCache indexes route grants by role. It is filled once at startup
// from the route table.
type RbacRolesCache struct {
	mu     sync.RWMutex
	byRole map[string][]Resource
	codes  map[string]struct{}
}

func NewRbacRolesCache() *RbacRolesCache {
	return &RbacRolesCache{
		byRole: make(map[string][]Resource),
		codes:  make(map[string]struct{}),
	}
}

func (c *RbacRolesCache) Add(role string, r Resource) {
	r.Role = role
	c.mu.Lock()
	c.byRole[role] = append(c.byRole[role], r)
	c.codes[r.UserResourceCode] = struct{}{}
	c.mu.Unlock()
}

// GetRolesAndResources returns the grants of every listed role.
func (c *RbacRolesCache) GetRolesAndResources(roles []string) []Resource {
	c.mu.RLock()
	defer c.mu.RUnlock()
	var out []Resource
	for _, role := range roles {
		out = append(out, c.byRole[role]...)
	}
	return out
}

// GetAllRouteNames is the screen permission set of an admin: every code any
// role was granted.
func (c *RbacRolesCache) GetAllRouteNames() map[string]int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make(map[string]int, len(c.codes))
	for code := range c.codes {
		out[code] = 1
	}
	return out
}

// CodesForRole lists the resource codes granted to a role, sorted.
func (c *RbacRolesCache) CodesForRole(role string) []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	seen := make(map[string]bool)
	var codes []string
	for _, res := range c.byRole[role] {
		if !seen[res.UserResourceCode] {
			seen[res.UserResourceCode] = true
			codes = append(codes, res.UserResourceCode)
		}
	}
	sort.Strings(codes)
	return codes
}
