package documents

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	sessioncontext "labdesk/frontend/shared/context"
	"labdesk/infrastructure/audit"
	"labdesk/infrastructure/labapi"
	"labdesk/infrastructure/sqlite"
	"labdesk/models"
)

type fakeBackend struct {
	posts map[string][]byte
}

const docsJSON = `{"data":[
	{"id":1,"title":"Moisture SOP","documentno":"SOP-01","reviewedby":"E7","approval_status":0},
	{"id":2,"title":"Ash SOP","documentno":"SOP-02","approvedby":"E7","approval_status":1},
	{"id":3,"title":"Old SOP","documentno":"SOP-03","obsoletestatus":1},
	{"id":4,"title":"Lead SOP","documentno":"SOP-04","createdby":9,"approval_status":3}]}`

func newFakeBackend(t *testing.T) (*fakeBackend, *labapi.Client) {
	t.Helper()
	fb := &fakeBackend{posts: map[string][]byte{}}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/master/get-documents":
			_, _ = io.WriteString(w, docsJSON)
		case r.URL.Path == "/master/get-document":
			_, _ = io.WriteString(w, `{"data":{"id":4,"title":"Lead SOP","documentno":"SOP-04","createdby":"9","approval_status":3,"effectivedate":"01/02/2024"}}`)
		case r.Method == http.MethodPost:
			body, _ := io.ReadAll(r.Body)
			fb.posts[r.URL.Path] = body
			_, _ = io.WriteString(w, `{"status":true}`)
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)
	api, err := labapi.New(srv.URL)
	require.NoError(t, err)
	return fb, api
}

func openTestDB(t *testing.T) *sqlite.DB {
	t.Helper()
	db, err := sqlite.OpenDB(filepath.Join(t.TempDir(), "documents.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, sqlite.ApplyEmbeddedMigrations(context.Background(), db))
	return db
}

func asEmployee(r *http.Request, employeeID string) *http.Request {
	s := models.Session{UserID: 0, User: models.User{EmployeeID: employeeID}}
	return r.WithContext(sessioncontext.NewContextWithSession(r.Context(), s))
}

func withID(r *http.Request, id string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("id", id)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

func postForm(target string, form url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func TestDocumentsPageActionsFollowEmployee(t *testing.T) {
	_, api := newFakeBackend(t)

	rec := httptest.NewRecorder()
	DocumentsPageQueryHandler(api, openTestDB(t))(rec, asEmployee(httptest.NewRequest(http.MethodGet, "/lab/documents", nil), "E7"))

	body := rec.Body.String()
	require.Contains(t, body, `href="/lab/documents/1/decide?d=review"`)
	require.Contains(t, body, `href="/lab/documents/2/decide?d=approve"`)
	require.Contains(t, body, "Obsolete")
	require.NotContains(t, body, `href="/lab/documents/4/edit"`)

	rec = httptest.NewRecorder()
	DocumentsPageQueryHandler(api, openTestDB(t))(rec, asEmployee(httptest.NewRequest(http.MethodGet, "/lab/documents", nil), "9"))
	body = rec.Body.String()
	require.Contains(t, body, `href="/lab/documents/4/edit"`)
	require.NotContains(t, body, "decide?d=review")
}

func TestParseDocumentForm(t *testing.T) {
	in, err := ParseDocumentForm("", url.Values{"title": {"SOP"}, "documentno": {"S-1"}, "effectivedate": {"2024-04-30"}})
	require.NoError(t, err)
	require.Equal(t, "30/04/2024", in.EffectiveDate)

	_, err = ParseDocumentForm("", url.Values{"documentno": {"S-1"}})
	require.ErrorIs(t, err, errTitleRequired)
	_, err = ParseDocumentForm("", url.Values{"title": {"SOP"}})
	require.ErrorIs(t, err, errNumberRequired)
}

func TestSaveDocumentCreatesWithCreator(t *testing.T) {
	fb, api := newFakeBackend(t)

	rec := httptest.NewRecorder()
	req := asEmployee(postForm("/lab/documents", url.Values{"title": {"SOP"}, "documentno": {"S-9"}}), "E7")
	SaveDocumentCommandHandler(api, nil, nil)(rec, req)

	require.Equal(t, http.StatusSeeOther, rec.Code)
	var sent labapi.DocumentInput
	require.NoError(t, json.Unmarshal(fb.posts["/master/add-document"], &sent))
	require.Equal(t, "E7", sent.CreatedBy)
	require.Empty(t, sent.ID)
}

func TestSaveDocumentUpdateKeepsCreator(t *testing.T) {
	fb, api := newFakeBackend(t)

	rec := httptest.NewRecorder()
	form := url.Values{"title": {"Lead SOP rev 2"}, "documentno": {"SOP-04"}, "revision": {"2"}}
	req := withID(asEmployee(postForm("/lab/documents/4", form), "E7"), "4")
	SaveDocumentCommandHandler(api, nil, nil)(rec, req)

	require.Equal(t, http.StatusSeeOther, rec.Code)
	require.Equal(t, "/lab/documents?status=Document+saved", rec.Header().Get("Location"))
	var sent labapi.DocumentInput
	require.NoError(t, json.Unmarshal(fb.posts["/master/update-document"], &sent))
	require.Equal(t, "4", sent.ID)
	require.Equal(t, "9", sent.CreatedBy)
	require.Equal(t, "Lead SOP rev 2", sent.Title)
}

func TestDecideRejectNeedsRemarks(t *testing.T) {
	fb, api := newFakeBackend(t)

	rec := httptest.NewRecorder()
	DecideCommandHandler(api, nil, nil)(rec, withID(asEmployee(postForm("/lab/documents/1/decide", url.Values{"d": {"reject"}}), "E7"), "1"))

	loc, err := url.Parse(rec.Header().Get("Location"))
	require.NoError(t, err)
	require.Equal(t, "reject", loc.Query().Get("d"))
	require.Equal(t, errRemarksRequired.Error(), loc.Query().Get("error"))
	require.Empty(t, fb.posts)
}

func TestDecidePostsAndAudits(t *testing.T) {
	fb, api := newFakeBackend(t)
	db := openTestDB(t)
	auditSvc := audit.NewService(db)

	req := postForm("/lab/documents/1/decide", url.Values{"d": {"review"}, "remarks": {"fine"}})
	req = req.WithContext(sessioncontext.NewContextWithSession(req.Context(), models.Session{UserID: 1, User: models.User{EmployeeID: "E7"}}))
	rec := httptest.NewRecorder()
	DecideCommandHandler(api, auditSvc, nil)(rec, withID(req, "1"))

	require.Equal(t, http.StatusSeeOther, rec.Code)
	require.JSONEq(t, `{"id":"1","employee":"E7","remarks":"fine"}`, string(fb.posts["/master/review-document"]))

	history, err := auditSvc.ListForEntity(context.Background(), auditEntity, "1", 10)
	require.NoError(t, err)
	require.Len(t, history, 1)
	require.Equal(t, "document.review", history[0].Action)
}

func TestDocumentFormPrefillsEditValues(t *testing.T) {
	_, api := newFakeBackend(t)

	rec := httptest.NewRecorder()
	DocumentFormPageQueryHandler(api)(rec, withID(httptest.NewRequest(http.MethodGet, "/lab/documents/4/edit", nil), "4"))

	body := rec.Body.String()
	require.Contains(t, body, `action="/lab/documents/4"`)
	require.Contains(t, body, `value="2024-02-01"`)
	require.Contains(t, body, `value="SOP-04"`)
}
