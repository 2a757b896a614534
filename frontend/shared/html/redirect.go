package html

import (
	"net/http"
	"net/url"
	"strings"
)

// RedirectStatus sends the user to path with a success toast.
func RedirectStatus(w http.ResponseWriter, r *http.Request, path, msg string) {
	http.Redirect(w, r, withParam(path, "status", msg), http.StatusSeeOther)
}

// RedirectError sends the user to path with an error toast.
func RedirectError(w http.ResponseWriter, r *http.Request, path, msg string) {
	http.Redirect(w, r, withParam(path, "error", msg), http.StatusSeeOther)
}

func withParam(path, key, msg string) string {
	if msg == "" {
		return path
	}
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + key + "=" + url.QueryEscape(msg)
}
