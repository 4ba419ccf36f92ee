package middleware

import (
	"net/http"

	"github.com/go-chi/cors"

	"muin/internal/identity"
)

// CORS allows the configured web origins to call the API with credentials so
// the identifier cookie travels with cross-origin requests.
func CORS(allowedOrigins []string) func(http.Handler) http.Handler {
	return cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Authorization", "Content-Type", "X-Locale", "X-Request-ID", identity.HeaderName},
		ExposedHeaders:   []string{"X-Request-ID", identity.HeaderName},
		AllowCredentials: true,
		MaxAge:           300,
	})
}
