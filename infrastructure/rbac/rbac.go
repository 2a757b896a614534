package rbac

import (
	"strings"

	"labdesk/infrastructure/cache"
)

const (
	RoleAdmin     = "admin"
	RoleHOD       = "hod"
	RoleChemist   = "chemist"
	RoleReviewer  = "reviewer"
	RoleFrontDesk = "frontdesk"
)

// Roles lists every assignable role in display order.
var Roles = []string{RoleAdmin, RoleHOD, RoleChemist, RoleReviewer, RoleFrontDesk}

func ValidRole(role string) bool {
	for _, r := range Roles {
		if r == role {
			return true
		}
	}
	return false
}

// Rbac stores route resources in cache.
type Rbac struct {
	cache *cache.RbacRolesCache
}

func New(c *cache.RbacRolesCache) *Rbac {
	return &Rbac{cache: c}
}

func (r *Rbac) Add(role, code, method, path string) {
	if r == nil || r.cache == nil {
		return
	}
	r.cache.Add(role, cache.Resource{
		Role:             role,
		UserResourceCode: code,
		Method:           strings.ToUpper(method),
		Path:             path,
	})
}

// Grant registers one resource for several roles at once.
func (r *Rbac) Grant(roles []string, code, method, path string) {
	for _, role := range roles {
		r.Add(role, code, method, path)
	}
}

func ValidateResourceAccess(resources []cache.Resource, urlPath, method string) bool {
	method = strings.ToUpper(method)
	for _, res := range resources {
		if res.Method != method {
			continue
		}
		if matchPath(res.Path, urlPath) {
			return true
		}
	}
	return false
}

func matchPath(pattern, path string) bool {
	if pattern == path {
		return true
	}

	pattern = strings.Trim(pattern, "/")
	path = strings.Trim(path, "/")

	patternSeg := strings.Split(pattern, "/")
	pathSeg := strings.Split(path, "/")

	// Segment wildcard matching: /a/*/c and /a/*/*/d.
	if len(patternSeg) == len(pathSeg) {
		for i := range patternSeg {
			if patternSeg[i] == "*" {
				continue
			}
			if patternSeg[i] != pathSeg[i] {
				return false
			}
		}
		return true
	}

	// Trailing "**" matches any deeper suffix.
	if n := len(patternSeg); n > 0 && patternSeg[n-1] == "**" {
		prefix := patternSeg[:n-1]
		if len(pathSeg) < len(prefix) {
			return false
		}
		for i := range prefix {
			if prefix[i] != "*" && prefix[i] != pathSeg[i] {
				return false
			}
		}
		return true
	}

	return false
}

// HomePath is the landing screen after login for each role.
func HomePath(role string) string {
	switch role {
	case RoleHOD, RoleChemist:
		return "/lab/assign"
	case RoleReviewer:
		return "/lab/documents"
	default:
		return "/lab/allot"
	}
}
