package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"muin/internal/domain"
	"muin/internal/prompt"
	"muin/internal/qa"
)

type askRequest struct {
	Question string `json:"question"`
	Style    string `json:"style"`
}

type askResponse struct {
	ID           string           `json:"id,omitempty"`
	Answer       string           `json:"answer"`
	SourceTag    string           `json:"sourceTag,omitempty"`
	Style        string           `json:"style"`
	Language     string           `json:"language"`
	Quota        quotaDTO         `json:"quota"`
	Subscription *subscriptionDTO `json:"subscription"`
}

type meResponse struct {
	Identifier   string           `json:"identifier"`
	Subscription *subscriptionDTO `json:"subscription"`
	Quota        quotaDTO         `json:"quota"`
}

// Me returns the caller's identifier, subscription and remaining questions.
// The first call for a new identifier starts the free trial.
func (a *App) Me(w http.ResponseWriter, r *http.Request) {
	id := a.currentIdentifier(r)
	if id == "" {
		a.error(w, r, http.StatusBadRequest, "invalid_request")
		return
	}
	ent := a.Entitlements.Ensure(r.Context(), id)
	a.json(w, http.StatusOK, meResponse{
		Identifier:   id,
		Subscription: toSubscription(ent, time.Now()),
		Quota:        toQuota(a.Quota.Peek(r.Context(), id, ent)),
	})
}

func (a *App) AskQuestion(w http.ResponseWriter, r *http.Request) {
	var req askRequest
	if !a.decode(w, r, &req) {
		return
	}
	res, err := a.QA.Ask(r.Context(), qa.AskInput{
		Identifier: a.currentIdentifier(r),
		Question:   req.Question,
		Style:      req.Style,
	})
	if err != nil {
		if errors.Is(err, domain.ErrQuotaExceeded) && res != nil {
			w.Header().Set("X-Quota-Limit", strconv.Itoa(res.Quota.Limit))
			w.Header().Set("X-Quota-Remaining", "0")
		}
		a.fail(w, r, err)
		return
	}
	a.json(w, http.StatusOK, askResponse{
		ID:           res.QuestionID,
		Answer:       res.Answer,
		SourceTag:    res.SourceTag,
		Style:        string(res.Style),
		Language:     prompt.Base(res.Language).String(),
		Quota:        toQuota(res.Quota),
		Subscription: toSubscription(res.Entitlement, time.Now()),
	})
}

// ListQuestions returns the caller's own history, newest first.
func (a *App) ListQuestions(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	items, err := a.QA.History(r.Context(), a.currentIdentifier(r), limit)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.json(w, http.StatusOK, map[string]any{"items": toQuestions(items)})
}
