package middleware

import (
	"net/http"

	"muin/internal/identity"
)

// Identity resolves the caller's anonymous identifier, minting and persisting
// one on first contact, and stores it in the request context.
func Identity(p *identity.Provider, secureCookie bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := p.Identifier(identity.RequestStore{W: w, R: r, Secure: secureCookie})
			next.ServeHTTP(w, r.WithContext(identity.WithIdentifier(r.Context(), id)))
		})
	}
}
