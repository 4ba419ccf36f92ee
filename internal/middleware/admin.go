package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	"muin/internal/admin"
)

type actorKey struct{}

// AdminAuth accepts only bearer tokens issued by the admin authenticator and
// stores the token subject as the acting operator.
func AdminAuth(auth *admin.Authenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				writeError(w, r, http.StatusUnauthorized, "unauthorized")
				return
			}
			claims, err := auth.Verify(strings.TrimSpace(parts[1]))
			if err != nil {
				zerolog.Ctx(r.Context()).Debug().Err(err).Msg("admin token rejected")
				writeError(w, r, http.StatusUnauthorized, "unauthorized")
				return
			}
			ctx := context.WithValue(r.Context(), actorKey{}, claims.Subject)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ActorFromContext returns the admin subject set by AdminAuth.
func ActorFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(actorKey{}).(string); ok {
		return v
	}
	return ""
}
