package rbac

import (
	"testing"

	"labdesk/infrastructure/cache"
)

func TestMatchPathWildcardSegments(t *testing.T) {
	cases := []struct {
		pattern string
		path    string
		ok      bool
	}{
		{pattern: "/lab/allot/*", path: "/lab/allot/12", ok: true},
		{pattern: "/lab/allot/*/label", path: "/lab/allot/12/label", ok: true},
		{pattern: "/lab/admin/users", path: "/lab/admin/users", ok: true},
		{pattern: "/lab/admin/users", path: "/lab/admin/users/1", ok: false},
		{pattern: "/lab/allot/*/label", path: "/lab/allot/12/remove", ok: false},
		{pattern: "/lab/calibration/**", path: "/lab/calibration/instruments/1/prices/2/matrices", ok: true},
		{pattern: "/lab/calibration/**", path: "/lab/calibration", ok: true},
		{pattern: "/lab/calibration/**", path: "/lab/documents/1", ok: false},
	}

	for _, tc := range cases {
		if got := matchPath(tc.pattern, tc.path); got != tc.ok {
			t.Fatalf("pattern=%s path=%s expected=%v got=%v", tc.pattern, tc.path, tc.ok, got)
		}
	}
}

func TestGrantAndValidate(t *testing.T) {
	c := cache.NewRbacRolesCache()
	r := New(c)
	r.Grant([]string{RoleHOD, RoleChemist}, "TESTING_VIEW", "get", "/lab/testing/*")

	resources := c.GetRolesAndResources([]string{RoleChemist})
	if !ValidateResourceAccess(resources, "/lab/testing/77", "GET") {
		t.Fatalf("expected chemist to view testing page")
	}
	if ValidateResourceAccess(resources, "/lab/testing/77", "POST") {
		t.Fatalf("expected POST to be denied")
	}
	if ValidateResourceAccess(c.GetRolesAndResources([]string{RoleFrontDesk}), "/lab/testing/77", "GET") {
		t.Fatalf("expected frontdesk to be denied")
	}
}

func TestValidRole(t *testing.T) {
	if !ValidRole(RoleReviewer) {
		t.Fatalf("reviewer should be valid")
	}
	if ValidRole("scanner") {
		t.Fatalf("scanner should be invalid")
	}
}
