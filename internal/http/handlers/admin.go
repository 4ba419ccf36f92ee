package handlers

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"muin/internal/middleware"
)

type loginRequest struct {
	Password string `json:"password"`
}

func (a *App) AdminLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !a.decode(w, r, &req) {
		return
	}
	token, exp, err := a.Auth.Login(req.Password)
	if err != nil {
		a.logger(r).Warn().Str("ip", middleware.ClientIP(r)).Msg("admin login rejected")
		a.fail(w, r, err)
		return
	}
	a.json(w, http.StatusOK, map[string]any{"token": token, "expiresAt": exp})
}

type activationRequest struct {
	Identifier string `json:"identifier"`
	Notes      string `json:"notes"`
}

// AdminActivate grants a paid month to the given identifier.
func (a *App) AdminActivate(w http.ResponseWriter, r *http.Request) {
	var req activationRequest
	if !a.decode(w, r, &req) {
		return
	}
	ent, err := a.Entitlements.Activate(r.Context(), strings.TrimSpace(req.Identifier), middleware.ActorFromContext(r.Context()), strings.TrimSpace(req.Notes))
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.json(w, http.StatusOK, map[string]any{
		"identifier":   ent.Identifier,
		"subscription": toSubscription(ent, time.Now()),
		"activatedBy":  ent.ActivatedBy,
	})
}

func (a *App) AdminStats(w http.ResponseWriter, r *http.Request) {
	st, err := a.Console.Stats(r.Context())
	if err != nil {
		a.fail(w, r, err)
		return
	}
	daily := make([]map[string]any, 0, len(st.Daily))
	for _, d := range st.Daily {
		daily = append(daily, map[string]any{
			"date":           d.Date,
			"totalQuestions": d.TotalQuestions,
			"dailyUsers":     d.DailyUsers,
		})
	}
	a.json(w, http.StatusOK, map[string]any{
		"totalQuestions":  st.TotalQuestions,
		"totalFavorites":  st.TotalFavorites,
		"daily":           daily,
		"recentQuestions": toQuestions(st.RecentQuestions),
	})
}

type settingRequest struct {
	Value string `json:"value"`
}

func (a *App) AdminPutSetting(w http.ResponseWriter, r *http.Request) {
	var req settingRequest
	if !a.decode(w, r, &req) {
		return
	}
	key := chi.URLParam(r, "key")
	if err := a.Console.PutSetting(r.Context(), key, req.Value); err != nil {
		a.fail(w, r, err)
		return
	}
	a.logger(r).Info().Str("key", key).Str("actor", middleware.ActorFromContext(r.Context())).Msg("setting updated")
	w.WriteHeader(http.StatusNoContent)
}

func (a *App) AdminDeleteQuestion(w http.ResponseWriter, r *http.Request) {
	if err := a.Console.DeleteQuestion(r.Context(), chi.URLParam(r, "id")); err != nil {
		a.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *App) AdminExport(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := a.Console.Export(r.Context(), &buf); err != nil {
		a.fail(w, r, err)
		return
	}
	name := fmt.Sprintf("muin-export-%s.zip", time.Now().UTC().Format("20060102-150405"))
	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}
