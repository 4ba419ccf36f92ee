package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"muin/internal/admin"
	"muin/internal/domain"
	"muin/internal/engagement"
	"muin/internal/entitlement"
	"muin/internal/i18n"
	"muin/internal/identity"
	"muin/internal/middleware"
	"muin/internal/qa"
	"muin/internal/quiz"
	"muin/internal/quota"
)

const maxBodyBytes = 64 << 10

// App carries the services behind the HTTP API.
type App struct {
	QA           *qa.Service
	Entitlements *entitlement.Manager
	Quota        *quota.Tracker
	Engagement   *engagement.Service
	Quiz         *quiz.Service
	Features     domain.FeatureRepository
	Console      *admin.Console
	Auth         *admin.Authenticator
	Logger       zerolog.Logger
	// Ping reports backing store health; nil means always healthy.
	Ping func(ctx context.Context) error
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func (a *App) error(w http.ResponseWriter, r *http.Request, status int, code string) {
	i18n.WriteError(w, middleware.LocaleFromContext(r.Context()), status, code)
}

func (a *App) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		a.error(w, r, http.StatusBadRequest, "invalid_request")
		return false
	}
	return true
}

func (a *App) currentIdentifier(r *http.Request) string {
	return identity.FromContext(r.Context())
}

// fail maps service errors onto status codes and localized messages.
func (a *App) fail(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrQuotaExceeded):
		a.error(w, r, http.StatusTooManyRequests, "quota_exceeded")
	case errors.Is(err, domain.ErrProviderFailure):
		a.error(w, r, http.StatusBadGateway, "provider_error")
	case errors.Is(err, domain.ErrRequestInFlight):
		a.error(w, r, http.StatusConflict, "in_flight")
	case errors.Is(err, domain.ErrAlreadyAnswered):
		a.error(w, r, http.StatusConflict, "already_answered")
	case errors.Is(err, domain.ErrInvalidQuestion), errors.Is(err, domain.ErrInvalidStyle):
		a.error(w, r, http.StatusBadRequest, "invalid_question")
	case errors.Is(err, domain.ErrInvalidAnswer):
		a.error(w, r, http.StatusBadRequest, "invalid_answer")
	case errors.Is(err, domain.ErrInvalidSetting):
		a.error(w, r, http.StatusBadRequest, "invalid_setting")
	case errors.Is(err, domain.ErrInvalidIdentity):
		a.error(w, r, http.StatusBadRequest, "invalid_request")
	case errors.Is(err, domain.ErrNotFound):
		a.error(w, r, http.StatusNotFound, "not_found")
	case errors.Is(err, domain.ErrUnauthorized):
		a.error(w, r, http.StatusUnauthorized, "unauthorized")
	default:
		a.logger(r).Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
		a.error(w, r, http.StatusInternalServerError, "internal")
	}
}

// logger prefers the request scoped logger set by the logging middleware.
func (a *App) logger(r *http.Request) *zerolog.Logger {
	if l := zerolog.Ctx(r.Context()); l.GetLevel() != zerolog.Disabled {
		return l
	}
	return &a.Logger
}
