package identity

import (
	"context"
	"net/http"
	"strings"
	"time"
)

// CookieName holds the identifier in the browser.
const CookieName = "muin_uid"

// HeaderName lets non-browser clients send their identifier explicitly.
const HeaderName = "X-User-Identifier"

const cookieMaxAge = 365 * 24 * time.Hour

// RequestStore persists the identifier in a long lived cookie.
type RequestStore struct {
	W      http.ResponseWriter
	R      *http.Request
	Secure bool
}

// Load prefers a valid header over the cookie.
func (s RequestStore) Load() string {
	if v := strings.TrimSpace(s.R.Header.Get(HeaderName)); v != "" && Valid(v) {
		return v
	}
	if c, err := s.R.Cookie(CookieName); err == nil && Valid(c.Value) {
		return c.Value
	}
	return ""
}

func (s RequestStore) Save(value string) error {
	if s.W == nil {
		return ErrUnavailable
	}
	http.SetCookie(s.W, &http.Cookie{
		Name:     CookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   int(cookieMaxAge.Seconds()),
		HttpOnly: true,
		Secure:   s.Secure,
		SameSite: http.SameSiteLaxMode,
	})
	// Echo it so header-only clients can store it.
	s.W.Header().Set(HeaderName, value)
	return nil
}

func (s RequestStore) Fingerprint() string {
	return s.R.UserAgent() + s.R.Header.Get("Sec-CH-UA-Platform") + s.R.Header.Get("Accept-Language")
}

type ctxKey struct{}

// WithIdentifier stores the identifier in ctx.
func WithIdentifier(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

// FromContext returns the identifier set by the identity middleware.
func FromContext(ctx context.Context) string {
	if v, ok := ctx.Value(ctxKey{}).(string); ok {
		return v
	}
	return ""
}
