package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

type feedbackRequest struct {
	Helpful bool   `json:"helpful"`
	Comment string `json:"comment"`
}

func (a *App) SubmitFeedback(w http.ResponseWriter, r *http.Request) {
	var req feedbackRequest
	if !a.decode(w, r, &req) {
		return
	}
	fb, err := a.Engagement.SubmitFeedback(r.Context(), chi.URLParam(r, "id"), a.currentIdentifier(r), req.Helpful, req.Comment)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.json(w, http.StatusCreated, map[string]any{
		"id":        fb.ID,
		"helpful":   fb.IsHelpful,
		"createdAt": fb.CreatedAt,
	})
}

type favoriteRequest struct {
	QuestionID string `json:"questionId"`
}

func (a *App) ListFavorites(w http.ResponseWriter, r *http.Request) {
	favs, err := a.Engagement.ListFavorites(r.Context(), a.currentIdentifier(r))
	if err != nil {
		a.fail(w, r, err)
		return
	}
	items := make([]favoriteDTO, 0, len(favs))
	for _, f := range favs {
		items = append(items, toFavorite(f))
	}
	a.json(w, http.StatusOK, map[string]any{"items": items})
}

func (a *App) AddFavorite(w http.ResponseWriter, r *http.Request) {
	var req favoriteRequest
	if !a.decode(w, r, &req) {
		return
	}
	fav, err := a.Engagement.AddFavorite(r.Context(), a.currentIdentifier(r), req.QuestionID)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.json(w, http.StatusCreated, toFavorite(*fav))
}

func (a *App) RemoveFavorite(w http.ResponseWriter, r *http.Request) {
	if err := a.Engagement.RemoveFavorite(r.Context(), a.currentIdentifier(r), chi.URLParam(r, "questionId")); err != nil {
		a.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
