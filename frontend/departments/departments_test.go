package departments

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	sessioncontext "labdesk/frontend/shared/context"
	"labdesk/infrastructure/audit"
	"labdesk/infrastructure/cache"
	"labdesk/infrastructure/department"
	"labdesk/infrastructure/labapi"
	"labdesk/infrastructure/sqlite"
	"labdesk/models"
)

func openDepartmentsTestDB(t *testing.T) *sqlite.DB {
	t.Helper()
	db, err := sqlite.OpenDB(filepath.Join(t.TempDir(), "departments.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, sqlite.ApplyEmbeddedMigrations(context.Background(), db))
	return db
}

func seedSession(t *testing.T, db *sqlite.DB, role string) models.Session {
	t.Helper()
	ctx := context.Background()
	u := models.User{Username: "hod1", PasswordHash: "x", Role: role, EmployeeID: "E1"}
	_, err := db.W.NewInsert().Model(&u).Exec(ctx)
	require.NoError(t, err)
	s := models.Session{ID: "tok-1", UserID: u.ID, ExpiresAt: time.Now().Add(time.Hour)}
	_, err = db.W.NewInsert().Model(&s).Exec(ctx)
	require.NoError(t, err)
	s.User = u
	return s
}

func withRouteID(r *http.Request, id string) *http.Request {
	rc := chi.NewRouteContext()
	rc.URLParams.Add("id", id)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rc))
}

func TestLookupUsesCacheUntilInvalidated(t *testing.T) {
	db := openDepartmentsTestDB(t)
	ctx := context.Background()
	c := cache.NewDepartmentCache(time.Minute)

	chem, err := department.Create(ctx, db, department.CreateInput{Name: "Chemical", BackendID: "1"})
	require.NoError(t, err)

	d, ok, err := Lookup(ctx, db, c, chem.ID)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "Chemical", d.Name)

	require.NoError(t, department.SetStatus(ctx, db, chem.ID, department.StatusInactive))
	_, ok, err = Lookup(ctx, db, c, chem.ID)
	require.NoError(t, err)
	require.True(t, ok, "stale cache still serves the department")

	c.Invalidate()
	_, ok, err = Lookup(ctx, db, c, chem.ID)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestActivateDepartmentUpdatesSession(t *testing.T) {
	db := openDepartmentsTestDB(t)
	ctx := context.Background()
	session := seedSession(t, db, "hod")
	micro, err := department.Create(ctx, db, department.CreateInput{Name: "Micro", BackendID: "2"})
	require.NoError(t, err)

	sessions := cache.NewUserSessionCache()
	sessions.AddSession(session)

	req := httptest.NewRequest(http.MethodPost, "/lab/departments/1/activate", nil)
	req = req.WithContext(sessioncontext.NewContextWithSession(req.Context(), session))
	req = withRouteID(req, "1")
	rec := httptest.NewRecorder()
	ActivateDepartmentCommandHandler(db, sessions, audit.NewService(db))(rec, req)

	require.Equal(t, http.StatusSeeOther, rec.Code)
	require.Equal(t, "/lab/assign", rec.Header().Get("Location"))

	cached, ok := sessions.FindSessionBySessionToken("tok-1")
	require.True(t, ok)
	require.NotNil(t, cached.ActiveDepartmentID)
	require.Equal(t, micro.ID, *cached.ActiveDepartmentID)

	backendID, err := department.BackendID(ctx, db, cached.ActiveDepartmentID)
	require.NoError(t, err)
	require.Equal(t, "2", backendID)
}

func TestDeactivatingCurrentDepartmentMovesSession(t *testing.T) {
	db := openDepartmentsTestDB(t)
	ctx := context.Background()
	session := seedSession(t, db, "admin")
	a, err := department.Create(ctx, db, department.CreateInput{Name: "Alpha", BackendID: "1"})
	require.NoError(t, err)
	b, err := department.Create(ctx, db, department.CreateInput{Name: "Beta", BackendID: "2"})
	require.NoError(t, err)
	require.NoError(t, department.SetSessionActiveDepartmentID(ctx, db, session.ID, &a.ID))
	session.ActiveDepartmentID = &a.ID

	form := url.Values{"status": {"inactive"}}
	req := httptest.NewRequest(http.MethodPost, "/lab/departments/1/status", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req = req.WithContext(sessioncontext.NewContextWithSession(req.Context(), session))
	req = withRouteID(req, "1")
	rec := httptest.NewRecorder()
	sessions := cache.NewUserSessionCache()
	sessions.AddSession(session)
	UpdateDepartmentStatusCommandHandler(db, sessions, cache.NewDepartmentCache(time.Minute), audit.NewService(db))(rec, req)

	require.Equal(t, http.StatusSeeOther, rec.Code)
	cached, _ := sessions.FindSessionBySessionToken(session.ID)
	require.NotNil(t, cached.ActiveDepartmentID)
	require.Equal(t, b.ID, *cached.ActiveDepartmentID)

	logs, err := LoadLogsPageData(ctx, db, a.ID)
	require.NoError(t, err)
	require.Len(t, logs.Rows, 1)
	require.Equal(t, "department.status", logs.Rows[0].Action)
	require.Equal(t, "hod1", logs.Rows[0].Actor)
}

func TestSyncDepartmentsFromBackend(t *testing.T) {
	db := openDepartmentsTestDB(t)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"data":[{"id":7,"name":"Chemical","code":"CHEM"},{"id":"8","name":"Micro"}]}`)
	}))
	t.Cleanup(srv.Close)
	api, err := labapi.New(srv.URL)
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	SyncDepartmentsCommandHandler(api, db, nil, nil)(rec, httptest.NewRequest(http.MethodPost, "/lab/departments/sync", nil))

	require.Equal(t, http.StatusSeeOther, rec.Code)
	require.Contains(t, rec.Header().Get("Location"), "status=Synced%3A+2+created")
	items, err := department.List(context.Background(), db, "all")
	require.NoError(t, err)
	require.Len(t, items, 2)
}
