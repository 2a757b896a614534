package login

import (
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"labdesk/frontend/shared/html"
	"labdesk/infrastructure/cache"
	"labdesk/infrastructure/rbac"
	sessioncookie "labdesk/infrastructure/session"
	"labdesk/infrastructure/sqlite"
	"labdesk/models"
)

// CreateLoginHandler authenticates the user and issues a session cookie.
func CreateLoginHandler(db *sqlite.DB, sessionCache *cache.UserSessionCache, userCache *cache.UserCache) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			html.RedirectError(w, r, "/login", "invalid form data")
			return
		}

		username := strings.TrimSpace(r.FormValue("username"))
		password := strings.TrimSpace(r.FormValue("password"))
		if username == "" || password == "" {
			html.RedirectError(w, r, "/login", "username and password are required")
			return
		}

		user, err := authenticateUser(r.Context(), db, username, password)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				slog.Warn("login rejected", slog.String("username", username))
				html.RedirectError(w, r, "/login", "invalid username or password")
				return
			}
			slog.Error("login failed", slog.String("username", username), slog.Any("err", err))
			html.RedirectError(w, r, "/login", "authentication failed")
			return
		}

		session := newSession(user)
		if err := persistSession(r.Context(), db, &session); err != nil {
			slog.Error("create session failed", slog.Int64("user_id", user.ID), slog.Any("err", err))
			html.RedirectError(w, r, "/login", "failed to create session")
			return
		}

		sessionCache.AddSession(session)
		userCache.Add(user.Username, user)

		http.SetCookie(w, sessioncookie.SessionCookie(session.ID, sessioncookie.MaxAgeSeconds()))
		http.Redirect(w, r, rbac.HomePath(user.Role), http.StatusSeeOther)
	}
}

func newSession(user models.User) models.Session {
	return models.Session{
		ID:        sessioncookie.NewToken(),
		UserID:    user.ID,
		User:      user,
		UserRoles: []string{user.Role},
		ExpiresAt: sessioncookie.DefaultExpiry(),
	}
}
