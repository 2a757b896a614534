package performtest

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"labdesk/infrastructure/labapi"
	"labdesk/infrastructure/sqlite"
)

type upload struct {
	fields   map[string]string
	fileName string
	file     []byte
}

type fakeBackend struct {
	started string
	uploads map[string]upload
}

func newFakeBackend(t *testing.T) (*fakeBackend, *labapi.Client) {
	t.Helper()
	fb := &fakeBackend{uploads: map[string]upload{}}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/testing/get-test-events":
			_, _ = io.WriteString(w, `{"data":[
				{"id":1,"trfproduct":"40","parameter":"Moisture","chemistassigned":true},
				{"id":2,"trfproduct":"40","parameter":"Ash","chemistassigned":true,"starttime":"10:00","status":1},
				{"id":3,"trfproduct":"40","parameter":"Lead","chemistassigned":false},
				{"id":4,"trfproduct":"40","parameter":"Fat","chemistassigned":true,"starttime":"09:00","status":2,"documentexists":true,"result":"4.2","documenturl":"https://files.example/4.pdf"}]}`)
		case "/testing/start-test":
			body, _ := io.ReadAll(r.Body)
			fb.started = string(body)
			_, _ = io.WriteString(w, `{"status":true}`)
		case "/testing/upload-result", "/testing/upload-report":
			require.NoError(t, r.ParseMultipartForm(32<<20))
			up := upload{fields: map[string]string{}}
			for k, v := range r.MultipartForm.Value {
				up.fields[k] = v[0]
			}
			if f, h, err := r.FormFile("file"); err == nil {
				up.fileName = h.Filename
				up.file, _ = io.ReadAll(f)
				_ = f.Close()
			}
			fb.uploads[r.URL.Path] = up
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
	db, err := sqlite.OpenDB(filepath.Join(t.TempDir(), "performtest.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, sqlite.ApplyEmbeddedMigrations(context.Background(), db))
	return db
}

func withParams(r *http.Request, kv ...string) *http.Request {
	rctx := chi.NewRouteContext()
	for i := 0; i+1 < len(kv); i += 2 {
		rctx.URLParams.Add(kv[i], kv[i+1])
	}
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

func multipartRequest(t *testing.T, target string, fields map[string]string, fileName string, file []byte) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	if fileName != "" {
		part, err := mw.CreateFormFile("file", fileName)
		require.NoError(t, err)
		_, err = part.Write(file)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())
	req := httptest.NewRequest(http.MethodPost, target, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestTestingPageMapsEventStates(t *testing.T) {
	_, api := newFakeBackend(t)

	rec := httptest.NewRecorder()
	TestingPageQueryHandler(api, openTestDB(t))(rec, withParams(httptest.NewRequest(http.MethodGet, "/lab/testing/40", nil), "id", "40"))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	require.Contains(t, body, `action="/lab/testing/40/events/1/start"`)
	require.Contains(t, body, `href="/lab/testing/40/events/2/result"`)
	require.Contains(t, body, "Awaiting Chemist")
	require.Contains(t, body, `href="https://files.example/4.pdf"`)
}

func TestTestingPageStageIsReadOnly(t *testing.T) {
	_, api := newFakeBackend(t)

	rec := httptest.NewRecorder()
	TestingPageQueryHandler(api, openTestDB(t))(rec, withParams(httptest.NewRequest(http.MethodGet, "/lab/testing/40?view=review", nil), "id", "40"))

	body := rec.Body.String()
	require.Contains(t, body, "Review Report")
	require.NotContains(t, body, "Start Test")
	require.NotContains(t, body, "Upload Result")
}

func TestStartTestPostsEventID(t *testing.T) {
	fb, api := newFakeBackend(t)

	rec := httptest.NewRecorder()
	req := withParams(httptest.NewRequest(http.MethodPost, "/lab/testing/40/events/1/start", nil), "id", "40", "event", "1")
	StartTestCommandHandler(api, nil, nil)(rec, req)

	require.Equal(t, http.StatusSeeOther, rec.Code)
	require.Contains(t, rec.Header().Get("Location"), "/lab/testing/40?status=")
	require.JSONEq(t, `{"id":"1"}`, fb.started)
}

func TestUploadResultRequiresResult(t *testing.T) {
	fb, api := newFakeBackend(t)

	rec := httptest.NewRecorder()
	req := multipartRequest(t, "/lab/testing/40/events/2/result", map[string]string{"remarks": "ok"}, "", nil)
	UploadResultCommandHandler(api, nil, nil)(rec, withParams(req, "id", "40", "event", "2"))

	require.Equal(t, http.StatusSeeOther, rec.Code)
	loc, err := url.Parse(rec.Header().Get("Location"))
	require.NoError(t, err)
	require.Equal(t, "/lab/testing/40/events/2/result", loc.Path)
	require.Equal(t, "result is required", loc.Query().Get("error"))
	require.Empty(t, fb.uploads)
}

func TestUploadResultSendsFieldsAndFile(t *testing.T) {
	fb, api := newFakeBackend(t)

	rec := httptest.NewRecorder()
	req := multipartRequest(t, "/lab/testing/40/events/2/result", map[string]string{"result": "12.5", "remarks": "dup run"}, "sheet.pdf", []byte("%PDF"))
	UploadResultCommandHandler(api, nil, nil)(rec, withParams(req, "id", "40", "event", "2"))

	require.Equal(t, http.StatusSeeOther, rec.Code)
	got := fb.uploads["/testing/upload-result"]
	require.Equal(t, "2", got.fields["id"])
	require.Equal(t, "12.5", got.fields["result"])
	require.Equal(t, "dup run", got.fields["remarks"])
	require.Equal(t, "sheet.pdf", got.fileName)
	require.Equal(t, []byte("%PDF"), got.file)
}

func TestUploadResultRejectsOversizedFile(t *testing.T) {
	fb, api := newFakeBackend(t)

	rec := httptest.NewRecorder()
	big := make([]byte, MaxUploadBytes+1)
	req := multipartRequest(t, "/lab/testing/40/events/2/result", map[string]string{"result": "1"}, "big.bin", big)
	UploadResultCommandHandler(api, nil, nil)(rec, withParams(req, "id", "40", "event", "2"))

	loc, err := url.Parse(rec.Header().Get("Location"))
	require.NoError(t, err)
	require.Equal(t, "file must be 10MB or smaller", loc.Query().Get("error"))
	require.Empty(t, fb.uploads)
}

func TestUploadReportRequiresFile(t *testing.T) {
	fb, api := newFakeBackend(t)

	rec := httptest.NewRecorder()
	req := multipartRequest(t, "/lab/testing/40/report", nil, "", nil)
	UploadReportCommandHandler(api, nil, nil)(rec, withParams(req, "id", "40"))

	loc, err := url.Parse(rec.Header().Get("Location"))
	require.NoError(t, err)
	require.Equal(t, "/lab/testing/40/report", loc.Path)
	require.Equal(t, "report file is required", loc.Query().Get("error"))
	require.Empty(t, fb.uploads)
}

func TestUploadReportSendsFile(t *testing.T) {
	fb, api := newFakeBackend(t)

	rec := httptest.NewRecorder()
	req := multipartRequest(t, "/lab/testing/40/report", nil, "report.pdf", []byte("report"))
	UploadReportCommandHandler(api, nil, nil)(rec, withParams(req, "id", "40"))

	require.Equal(t, http.StatusSeeOther, rec.Code)
	got := fb.uploads["/testing/upload-report"]
	require.Equal(t, "40", got.fields["trfproduct"])
	require.Equal(t, "report.pdf", got.fileName)
}

func TestResultFormShowsUploadedResultReadOnly(t *testing.T) {
	_, api := newFakeBackend(t)

	rec := httptest.NewRecorder()
	req := withParams(httptest.NewRequest(http.MethodGet, "/lab/testing/40/events/4/result", nil), "id", "40", "event", "4")
	ResultFormPageQueryHandler(api)(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	require.Contains(t, body, "4.2")
	require.NotContains(t, body, `enctype="multipart/form-data"`)
}
