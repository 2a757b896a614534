package settings

import (
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	sessioncontext "labdesk/frontend/shared/context"
	"labdesk/frontend/shared/grid"
	"labdesk/frontend/shared/html"
	"labdesk/infrastructure/sqlite"
)

const columnsPath = "/lab/settings/columns"

func ColumnSettingsPageHandler(db *sqlite.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name := strings.TrimSpace(r.URL.Query().Get("table"))
		if name == "" {
			name = Tables[0].Name
		}
		table, ok := findTable(name)
		if !ok {
			html.RedirectError(w, r, columnsPath, "unknown table")
			return
		}
		pref, err := grid.LoadPreference(r.Context(), db, sessioncontext.SessionUserID(r.Context()), table.Name)
		if err != nil {
			slog.Error("load table preference failed", slog.String("table", table.Name), slog.Any("err", err))
		}
		data := PageData{Tables: Tables, Selected: table, Pref: pref}
		if err := html.WritePage(w, r, "Table Settings", ColumnSettingsPage(data)); err != nil {
			http.Error(w, "failed to render settings page", http.StatusInternalServerError)
			return
		}
	}
}

// ParsePreference reads hidden/pinned checkbox lists and the page size.
func ParsePreference(form url.Values) grid.Preference {
	per, _ := strconv.Atoi(strings.TrimSpace(form.Get("per_page")))
	return grid.Preference{Hidden: form["hidden"], Pinned: form["pinned"], PerPage: per}
}

func ColumnSettingsUpdateHandler(db *sqlite.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			html.RedirectError(w, r, columnsPath, "invalid form")
			return
		}
		table, ok := findTable(strings.TrimSpace(r.PostForm.Get("table")))
		if !ok {
			html.RedirectError(w, r, columnsPath, "unknown table")
			return
		}
		back := columnsPath + "?table=" + url.QueryEscape(table.Name)
		userID := sessioncontext.SessionUserID(r.Context())
		if userID <= 0 {
			html.RedirectError(w, r, back, "sign in to save settings")
			return
		}
		if err := grid.SavePreference(r.Context(), db, userID, table.Name, table.Columns, ParsePreference(r.PostForm)); err != nil {
			slog.Error("save table preference failed", slog.String("table", table.Name), slog.Any("err", err))
			html.RedirectError(w, r, back, "save failed")
			return
		}
		html.RedirectStatus(w, r, back, "saved")
	}
}
