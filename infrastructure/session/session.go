package session

import (
	"net/http"
	"time"

	"github.com/google/uuid"
)

const CookieName = "X-Labdesk-Session"

// Lifetime is how long a login stays valid; one lab shift plus slack.
var Lifetime = 12 * time.Hour

func SessionCookie(value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     CookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   false,
	}
}

func DefaultExpiry() time.Time {
	return time.Now().Add(Lifetime)
}

// MaxAgeSeconds is the cookie max-age matching Lifetime.
func MaxAgeSeconds() int {
	return int(Lifetime / time.Second)
}

// NewToken returns an opaque session token.
func NewToken() string {
	return uuid.NewString() + uuid.NewString()[:8]
}
