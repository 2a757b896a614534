package adminusers

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	sessioncontext "labdesk/frontend/shared/context"
	"labdesk/frontend/shared/html"
	"labdesk/infrastructure/audit"
	"labdesk/infrastructure/cache"
	"labdesk/infrastructure/department"
	"labdesk/infrastructure/rbac"
	"labdesk/infrastructure/sqlite"
)

const usersPath = "/lab/admin/users"

// UsersPageQueryHandler renders the admin users list page.
func UsersPageQueryHandler(db *sqlite.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		users, err := LoadUsers(r.Context(), db)
		if err != nil {
			slog.Error("admin users: failed to load data", slog.Any("err", err))
			http.Error(w, "failed to load users", http.StatusInternalServerError)
			return
		}
		depts, err := department.List(r.Context(), db, "all")
		if err != nil {
			slog.Error("admin users: failed to load departments", slog.Any("err", err))
			http.Error(w, "failed to load departments", http.StatusInternalServerError)
			return
		}
		data := PageData{Users: users, Roles: rbac.Roles}
		for _, d := range depts {
			data.Departments = append(data.Departments, html.Option{Value: strconv.FormatInt(d.ID, 10), Label: d.Name})
		}
		if err := html.WritePage(w, r, "Users", UsersListPage(data)); err != nil {
			http.Error(w, "failed to render users page", http.StatusInternalServerError)
			return
		}
	}
}

func parseDepartmentID(raw string) *int64 {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || id <= 0 {
		return nil
	}
	return &id
}

func CreateUserCommandHandler(db *sqlite.DB, auditSvc *audit.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			html.RedirectError(w, r, usersPath, "invalid form data")
			return
		}
		user, err := CreateUser(r.Context(), db, CreateUserInput{
			Username:     r.FormValue("username"),
			Password:     r.FormValue("password"),
			Role:         r.FormValue("role"),
			EmployeeID:   r.FormValue("employee_id"),
			DepartmentID: parseDepartmentID(r.FormValue("department_id")),
		})
		if err != nil {
			// Validation and password policy messages are safe to show.
			html.RedirectError(w, r, usersPath, err.Error())
			return
		}
		after := map[string]any{"username": user.Username, "role": user.Role, "employee_id": user.EmployeeID}
		if err := auditSvc.Record(r.Context(), sessioncontext.SessionUserID(r.Context()), "user.create", "user", strconv.FormatInt(user.ID, 10), nil, after); err != nil {
			slog.Error("audit create user failed", slog.Any("err", err))
		}
		html.RedirectStatus(w, r, usersPath, "user created")
	}
}

// UpdateUserCommandHandler edits a user's profile and signs them out so the
// new role and department apply on next login.
func UpdateUserCommandHandler(db *sqlite.DB, auditSvc *audit.Service, sessionCache *cache.UserSessionCache, userCache *cache.UserCache) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			html.RedirectError(w, r, usersPath, "invalid form data")
			return
		}
		userID, err := strconv.ParseInt(strings.TrimSpace(r.FormValue("user_id")), 10, 64)
		if err != nil || userID <= 0 {
			html.RedirectError(w, r, usersPath, "invalid user")
			return
		}
		in := UpdateUserInput{
			ID:           userID,
			Role:         r.FormValue("role"),
			EmployeeID:   r.FormValue("employee_id"),
			DepartmentID: parseDepartmentID(r.FormValue("department_id")),
		}
		before, err := UpdateUser(r.Context(), db, in)
		if err != nil {
			html.RedirectError(w, r, usersPath, err.Error())
			return
		}
		if before.Role != strings.TrimSpace(in.Role) {
			if err := DeleteUserSessions(r.Context(), db, userID); err != nil {
				slog.Error("delete user sessions failed", slog.Int64("user_id", userID), slog.Any("err", err))
			}
			sessionCache.DeleteSessionsByUserID(userID)
		}
		userCache.Remove(before.Username)
		beforeView := map[string]any{"role": before.Role, "employee_id": before.EmployeeID, "department_id": before.DepartmentID}
		if err := auditSvc.Record(r.Context(), sessioncontext.SessionUserID(r.Context()), "user.update", "user", strconv.FormatInt(userID, 10), beforeView, in); err != nil {
			slog.Error("audit update user failed", slog.Any("err", err))
		}
		html.RedirectStatus(w, r, usersPath, "user updated")
	}
}
