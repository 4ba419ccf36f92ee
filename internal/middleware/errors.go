package middleware

import (
	"net/http"

	"muin/internal/i18n"
)

func writeError(w http.ResponseWriter, r *http.Request, status int, code string) {
	i18n.WriteError(w, LocaleFromContext(r.Context()), status, code)
}
