package help

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	sessioncontext "labdesk/frontend/shared/context"
	"labdesk/infrastructure/cache"
	"labdesk/models"
)

func TestAllotLegendFollowsRowActions(t *testing.T) {
	rows := AllotLegend()
	got := map[string]string{}
	for _, r := range rows {
		got[r.Status] = r.Actions
	}
	if got["trfstatus 3"] != "Allot Quantity, Remove Item" {
		t.Fatalf("status 3: %q", got["trfstatus 3"])
	}
	if got["trfstatus 5 (external package)"] != "Upload Report" {
		t.Fatalf("status 5 external: %q", got["trfstatus 5 (external package)"])
	}
	if got["any other"] != "Pending TRF Approval" {
		t.Fatalf("fallback: %q", got["any other"])
	}
}

func TestQueueLegendAssignOnlyWithoutChemist(t *testing.T) {
	rows := QueueLegend()
	if rows[0].Actions != "Assign Chemist, Perform Test" {
		t.Fatalf("unassigned: %q", rows[0].Actions)
	}
	if rows[1].Actions != "Perform Test" {
		t.Fatalf("assigned: %q", rows[1].Actions)
	}
}

func TestHelpPageRedirectsWithoutSession(t *testing.T) {
	rec := httptest.NewRecorder()
	HelpPageQueryHandler(nil)(rec, httptest.NewRequest(http.MethodGet, "/lab/help", nil))
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestHelpPageShowsAdminSectionAndCodes(t *testing.T) {
	rc := cache.NewRbacRolesCache()
	rc.Add("admin", cache.Resource{Role: "admin", UserResourceCode: "HELP_VIEW", Method: "GET", Path: "/lab/help"})

	req := httptest.NewRequest(http.MethodGet, "/lab/help", nil)
	req = req.WithContext(sessioncontext.NewContextWithSession(req.Context(), models.Session{User: models.User{Username: "a", Role: "admin"}}))
	rec := httptest.NewRecorder()
	HelpPageQueryHandler(rc)(rec, req)
	body := rec.Body.String()
	if !strings.Contains(body, "Administration") {
		t.Fatalf("admin section missing")
	}
	if !strings.Contains(body, "<code>HELP_VIEW</code>") {
		t.Fatalf("permission codes missing")
	}
}
