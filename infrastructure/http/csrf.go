package http

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"mime"
	"net/http"
	"strings"

	"labdesk/frontend/shared/html"
)

const (
	csrfCookieName = html.CSRFCookie
	csrfHeaderName = "X-CSRF-Token"
	csrfFormField  = html.CSRFField
)

// maxFormBytes bounds bodies parsed to find the form token. Multipart
// uploads carry a 10MB file plus fields.
const maxFormBytes = 12 << 20

// CSRFMiddleware is a double-submit cookie check: unsafe requests must echo
// the cookie value in the header or the _csrf form field.
func (s *Server) CSRFMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := ensureCSRFToken(w, r)
		if isSafeMethod(r.Method) {
			next.ServeHTTP(w, r)
			return
		}

		if !validCSRF(w, r, token) {
			http.Error(w, "invalid csrf token", http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func validCSRF(w http.ResponseWriter, r *http.Request, token string) bool {
	provided := strings.TrimSpace(r.Header.Get(csrfHeaderName))
	if provided == "" {
		if mt, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type")); mt == "multipart/form-data" {
			r.Body = http.MaxBytesReader(w, r.Body, maxFormBytes)
		}
		provided = strings.TrimSpace(r.FormValue(csrfFormField))
	}
	return provided != "" && subtle.ConstantTimeCompare([]byte(token), []byte(provided)) == 1
}

func isSafeMethod(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions, http.MethodTrace:
		return true
	default:
		return false
	}
}

func ensureCSRFToken(w http.ResponseWriter, r *http.Request) string {
	if c, err := r.Cookie(csrfCookieName); err == nil && strings.TrimSpace(c.Value) != "" {
		return c.Value
	}
	token := randomToken(32)
	http.SetCookie(w, &http.Cookie{
		Name:     csrfCookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: false,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteLaxMode,
	})
	return token
}

func randomToken(n int) string {
	buf := make([]byte, n)
	_, _ = rand.Read(buf)
	return hex.EncodeToString(buf)
}
