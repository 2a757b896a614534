package login

import (
	"net/http"

	"labdesk/frontend/shared/html"
	"labdesk/frontend/shared/nav"
)

// GetLoginScreenHandler renders the login screen.
func GetLoginScreenHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	page := html.Page("Sign in", nav.TopNavData{}, html.FlashFromRequest(r), GetLoginScreen())
	if err := page.Render(r.Context(), w); err != nil {
		http.Error(w, "failed to render login screen", http.StatusInternalServerError)
		return
	}
}
