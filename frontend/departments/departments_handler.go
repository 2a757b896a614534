package departments

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	sessioncontext "labdesk/frontend/shared/context"
	"labdesk/frontend/shared/html"
	"labdesk/infrastructure/audit"
	"labdesk/infrastructure/cache"
	"labdesk/infrastructure/department"
	"labdesk/infrastructure/labapi"
	"labdesk/infrastructure/rbac"
	"labdesk/infrastructure/sqlite"
	"labdesk/models"
)

const listPath = "/lab/departments"

func DepartmentsPageQueryHandler(db *sqlite.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filter := department.NormalizeListFilter(r.URL.Query().Get("filter"))
		items, err := department.List(r.Context(), db, filter)
		if err != nil {
			http.Error(w, "failed to load departments", http.StatusInternalServerError)
			return
		}

		var currentID int64
		isAdmin := false
		if session, ok := sessioncontext.GetSessionFromContext(r.Context()); ok {
			if session.ActiveDepartmentID != nil {
				currentID = *session.ActiveDepartmentID
			}
			isAdmin = session.User.Role == rbac.RoleAdmin
		}

		rows := make([]DepartmentRow, 0, len(items))
		for _, d := range items {
			rows = append(rows, DepartmentRow{
				ID:        d.ID,
				Name:      d.Name,
				Code:      d.Code,
				BackendID: d.BackendID,
				Status:    d.Status,
				IsCurrent: currentID > 0 && currentID == d.ID,
			})
		}

		data := PageData{Filter: filter, IsAdmin: isAdmin, Rows: rows}
		if err := html.WritePage(w, r, "Departments", DepartmentsPage(data)); err != nil {
			http.Error(w, "failed to render departments page", http.StatusInternalServerError)
			return
		}
	}
}

func CreateDepartmentCommandHandler(db *sqlite.DB, deptCache *cache.DepartmentCache, auditSvc *audit.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			html.RedirectError(w, r, listPath, "Invalid form data")
			return
		}

		created, err := department.Create(r.Context(), db, department.CreateInput{
			Name:      strings.TrimSpace(r.FormValue("name")),
			Code:      strings.TrimSpace(r.FormValue("code")),
			BackendID: strings.TrimSpace(r.FormValue("backend_id")),
			Status:    strings.TrimSpace(r.FormValue("status")),
		})
		if err != nil {
			html.RedirectError(w, r, listPath, err.Error())
			return
		}
		deptCache.Invalidate()

		if err := auditSvc.Record(r.Context(), sessioncontext.SessionUserID(r.Context()), "department.create", auditEntity, strconv.FormatInt(created.ID, 10), nil, created); err != nil {
			slog.Error("department audit failed", slog.Any("err", err))
		}
		html.RedirectStatus(w, r, listPath, "Department created: "+created.Name)
	}
}

func ActivateDepartmentCommandHandler(db *sqlite.DB, sessionCache *cache.UserSessionCache, auditSvc *audit.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil || id <= 0 {
			html.RedirectError(w, r, listPath, "Invalid department id")
			return
		}
		d, err := department.LoadByID(r.Context(), db, id)
		if err != nil {
			html.RedirectError(w, r, listPath, "Department not found")
			return
		}
		if d.Status != department.StatusActive {
			html.RedirectError(w, r, listPath, "Department is inactive")
			return
		}

		session, ok := sessioncontext.GetSessionFromContext(r.Context())
		if !ok {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		before := map[string]any{"active_department_id": nullableID(session.ActiveDepartmentID)}
		if err := setSessionActiveDepartment(r.Context(), db, sessionCache, session, &id); err != nil {
			html.RedirectError(w, r, listPath, "Failed to set active department")
			return
		}
		after := map[string]any{"active_department_id": id, "department_name": d.Name}
		if err := auditSvc.Record(r.Context(), session.UserID, "department.activate", auditEntity, strconv.FormatInt(id, 10), before, after); err != nil {
			slog.Error("department audit failed", slog.Any("err", err))
		}

		http.Redirect(w, r, rbac.HomePath(session.User.Role), http.StatusSeeOther)
	}
}

func UpdateDepartmentStatusCommandHandler(db *sqlite.DB, sessionCache *cache.UserSessionCache, deptCache *cache.DepartmentCache, auditSvc *audit.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			html.RedirectError(w, r, listPath, "Invalid form data")
			return
		}
		id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil || id <= 0 {
			html.RedirectError(w, r, listPath, "Invalid department id")
			return
		}
		before, err := department.LoadByID(r.Context(), db, id)
		if err != nil {
			html.RedirectError(w, r, listPath, "Department not found")
			return
		}

		status := department.NormalizeStatus(r.FormValue("status"))
		if err := department.SetStatus(r.Context(), db, id, status); err != nil {
			html.RedirectError(w, r, listPath, "Failed to update department status")
			return
		}
		deptCache.Invalidate()

		session, ok := sessioncontext.GetSessionFromContext(r.Context())
		if err := auditSvc.Record(r.Context(), session.UserID, "department.status", auditEntity, strconv.FormatInt(id, 10),
			map[string]any{"status": before.Status}, map[string]any{"status": status}); err != nil {
			slog.Error("department audit failed", slog.Any("err", err))
		}

		if ok && status == department.StatusInactive && session.ActiveDepartmentID != nil && *session.ActiveDepartmentID == id {
			nextID, err := department.ResolveSessionActiveDepartmentID(r.Context(), db, session.User.DepartmentID, nil)
			if err != nil {
				html.RedirectError(w, r, listPath, "Status updated, but failed to resolve next active department")
				return
			}
			if err := setSessionActiveDepartment(r.Context(), db, sessionCache, session, nextID); err != nil {
				html.RedirectError(w, r, listPath, "Status updated, but failed to update session department")
				return
			}
		}

		filter := department.NormalizeListFilter(r.FormValue("filter"))
		html.RedirectStatus(w, r, listPath+"?filter="+url.QueryEscape(filter), fmt.Sprintf("Department status set to %s", status))
	}
}

// SyncDepartmentsCommandHandler pulls the backend department list into the
// local table.
func SyncDepartmentsCommandHandler(api *labapi.Client, db *sqlite.DB, deptCache *cache.DepartmentCache, auditSvc *audit.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		remote, err := api.Departments(r.Context())
		if err != nil {
			slog.Error("load backend departments failed", slog.Any("err", err))
			html.RedirectError(w, r, listPath, labapi.UserMessage(err))
			return
		}
		in := make([]department.RemoteDepartment, 0, len(remote))
		for _, d := range remote {
			in = append(in, department.RemoteDepartment{BackendID: d.ID.String(), Name: d.Name.String(), Code: d.Code.String()})
		}
		res, err := department.Sync(r.Context(), db, in)
		if err != nil {
			slog.Error("department sync failed", slog.Any("err", err))
			html.RedirectError(w, r, listPath, "Sync failed")
			return
		}
		deptCache.Invalidate()
		if err := auditSvc.Record(r.Context(), sessioncontext.SessionUserID(r.Context()), "department.sync", auditEntity, "all", nil, res); err != nil {
			slog.Error("department audit failed", slog.Any("err", err))
		}
		html.RedirectStatus(w, r, listPath, fmt.Sprintf("Synced: %d created, %d renamed", res.Created, res.Renamed))
	}
}

func DepartmentLogsPageQueryHandler(db *sqlite.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil || id <= 0 {
			html.RedirectError(w, r, listPath, "Invalid department id")
			return
		}
		data, err := LoadLogsPageData(r.Context(), db, id)
		if errors.Is(err, sql.ErrNoRows) {
			html.RedirectError(w, r, listPath, "Department not found")
			return
		}
		if err != nil {
			http.Error(w, "failed to load department logs", http.StatusInternalServerError)
			return
		}
		if err := html.WritePage(w, r, "Department Log: "+data.DepartmentName, LogsPage(data)); err != nil {
			http.Error(w, "failed to render department logs", http.StatusInternalServerError)
			return
		}
	}
}

func setSessionActiveDepartment(ctx context.Context, db *sqlite.DB, sessionCache *cache.UserSessionCache, session models.Session, id *int64) error {
	if err := department.SetSessionActiveDepartmentID(ctx, db, session.ID, id); err != nil {
		return err
	}
	if sessionCache != nil {
		sessionCache.UpdateActiveDepartment(session.ID, id)
	}
	return nil
}

func nullableID(id *int64) any {
	if id == nil {
		return nil
	}
	return *id
}
