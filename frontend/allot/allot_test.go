package allot

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

	"labdesk/infrastructure/audit"
	"labdesk/infrastructure/labapi"
	"labdesk/infrastructure/live"
	"labdesk/infrastructure/sqlite"
)

type fakeBackend struct {
	t     *testing.T
	posts map[string][]byte
	query url.Values
}

func newFakeBackend(t *testing.T) (*fakeBackend, *labapi.Client) {
	t.Helper()
	fb := &fakeBackend{t: t, posts: map[string][]byte{}}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/actionitem/get-allot-sample":
			fb.query = r.URL.Query()
			_, _ = io.WriteString(w, `{"data":[
				{"id":1,"customer":"Acme","lrn":"LRN-1","trfstatus":"3","packagetype":1},
				{"id":"2","customer":"Zen","lrn":"LRN-2","trfstatus":5,"packagetype":0}]}`)
		case "/api/actionitem/get-allot-item":
			_, _ = io.WriteString(w, `{"Data":{"product":{"id":1,"lrn":"LRN-1","customer":"Acme"},"parameters":[{"id":7,"name":"Moisture","unit":"g"},{"id":8,"name":"Ash"}]}}`)
		case "/api/actionitem/allot-quantity", "/api/material/remove-item":
			body, _ := io.ReadAll(r.Body)
			fb.posts[r.URL.Path] = body
			_, _ = io.WriteString(w, `{"status":true}`)
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)
	api, err := labapi.New(srv.URL + "/api")
	require.NoError(t, err)
	return fb, api
}

func openAllotTestDB(t *testing.T) *sqlite.DB {
	t.Helper()
	db, err := sqlite.OpenDB(filepath.Join(t.TempDir(), "allot-test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, sqlite.ApplyEmbeddedMigrations(context.Background(), db))
	return db
}

func withID(r *http.Request, id string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("id", id)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

func TestAllotPageListsSamplesWithActions(t *testing.T) {
	fb, api := newFakeBackend(t)
	db := openAllotTestDB(t)

	rec := httptest.NewRecorder()
	AllotPageQueryHandler(api, db)(rec, httptest.NewRequest(http.MethodGet, "/lab/allot?from=2024-03-01&trfstatus=3", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	require.Contains(t, body, "Allot Quantity")
	require.Contains(t, body, "Upload Report")
	require.Contains(t, body, `/lab/allot/1/label`)
	require.Equal(t, "01/03/2024", fb.query.Get("from"))
	require.Equal(t, "3", fb.query.Get("status"))
}

func TestAllotPageExportsCSV(t *testing.T) {
	_, api := newFakeBackend(t)
	db := openAllotTestDB(t)

	rec := httptest.NewRecorder()
	AllotPageQueryHandler(api, db)(rec, httptest.NewRequest(http.MethodGet, "/lab/allot?format=csv&sort=customer&dir=desc", nil))

	require.Equal(t, "text/csv", rec.Header().Get("Content-Type"))
	lines := strings.Split(strings.TrimSpace(rec.Body.String()), "\n")
	require.Len(t, lines, 3)
	require.True(t, strings.HasPrefix(lines[1], "2,Zen"))
}

func TestAllotPageShowsBackendFailureAsToast(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = io.WriteString(w, `{"message":"upstream down"}`)
	}))
	defer srv.Close()
	api, err := labapi.New(srv.URL)
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	AllotPageQueryHandler(api, openAllotTestDB(t))(rec, httptest.NewRequest(http.MethodGet, "/lab/allot", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "upstream down")
	require.Contains(t, rec.Body.String(), "No records found.")
}

func TestParseAllotForm(t *testing.T) {
	form := url.Values{
		"parameter": {"7", "8", "9"},
		"qty_7":     {"2.50"},
		"unit_7":    {"g"},
		"qty_8":     {"0"},
		"qty_9":     {""},
	}
	req, err := ParseAllotForm("41", form)
	require.NoError(t, err)
	require.Equal(t, labapi.AllotRequest{TRFProduct: "41", Parameters: []labapi.AllotQuantity{{Parameter: "7", Quantity: "2.5", Unit: "g"}}}, req)

	_, err = ParseAllotForm("41", url.Values{"parameter": {"7"}, "qty_7": {"0"}})
	require.ErrorIs(t, err, errNoQuantity)
	_, err = ParseAllotForm("41", url.Values{"parameter": {"7"}, "qty_7": {"-1"}})
	require.ErrorIs(t, err, errInvalidQuantity)
}

func TestAllotQuantityPostsAndAudits(t *testing.T) {
	fb, api := newFakeBackend(t)
	db := openAllotTestDB(t)
	auditSvc := audit.NewService(db)

	form := url.Values{"parameter": {"7"}, "qty_7": {"3"}, "unit_7": {"g"}}
	req := httptest.NewRequest(http.MethodPost, "/lab/allot/1", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	AllotQuantityCommandHandler(api, auditSvc, live.NewHub())(rec, withID(req, "1"))

	require.Equal(t, http.StatusSeeOther, rec.Code)
	require.Equal(t, "/lab/allot?status=Quantity+allotted", rec.Header().Get("Location"))

	var sent labapi.AllotRequest
	require.NoError(t, json.Unmarshal(fb.posts["/api/actionitem/allot-quantity"], &sent))
	require.Equal(t, "1", sent.TRFProduct)
	require.Equal(t, "3", sent.Parameters[0].Quantity)

	logs, err := auditSvc.ListForEntity(context.Background(), "trf_product", "1", 10)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	require.Equal(t, "allot.quantity", logs[0].Action)
}

func TestAllotQuantityValidationRedirectsBack(t *testing.T) {
	fb, api := newFakeBackend(t)
	req := httptest.NewRequest(http.MethodPost, "/lab/allot/1", strings.NewReader("parameter=7&qty_7="))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	AllotQuantityCommandHandler(api, nil, nil)(rec, withID(req, "1"))

	require.Equal(t, http.StatusSeeOther, rec.Code)
	require.True(t, strings.HasPrefix(rec.Header().Get("Location"), "/lab/allot/1?error="))
	require.Empty(t, fb.posts)
}

func TestRemoveItemPostsID(t *testing.T) {
	fb, api := newFakeBackend(t)
	rec := httptest.NewRecorder()
	RemoveItemCommandHandler(api, nil, nil)(rec, withID(httptest.NewRequest(http.MethodPost, "/lab/allot/2/remove", nil), "2"))

	require.Equal(t, http.StatusSeeOther, rec.Code)
	require.JSONEq(t, `{"id":"2"}`, string(fb.posts["/api/material/remove-item"]))
}

func TestAllotFormRendersParameters(t *testing.T) {
	_, api := newFakeBackend(t)
	rec := httptest.NewRecorder()
	AllotFormPageQueryHandler(api)(rec, withID(httptest.NewRequest(http.MethodGet, "/lab/allot/1", nil), "1"))

	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `name="qty_7"`)
	require.Contains(t, rec.Body.String(), "Moisture")
}

func TestSampleLabelPDF(t *testing.T) {
	_, api := newFakeBackend(t)
	rec := httptest.NewRecorder()
	SampleLabelPDFHandler(api)(rec, withID(httptest.NewRequest(http.MethodGet, "/lab/allot/1/label", nil), "1"))

	require.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	require.True(t, strings.HasPrefix(rec.Body.String(), "%PDF"))
	require.Contains(t, rec.Header().Get("Content-Disposition"), "sample-LRN-1.pdf")
}

func TestRenderSampleLabelsRequiresLRN(t *testing.T) {
	_, err := renderSampleLabelsPDF([]LabelData{{Customer: "Acme"}})
	require.ErrorIs(t, err, errNoLRN)
}
