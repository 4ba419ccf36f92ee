package handlers

import (
	"net/http"
	"time"

	"muin/internal/domain"
)

type featureDTO struct {
	Key         string `json:"key"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Premium     bool   `json:"premium"`
	Enabled     bool   `json:"enabled"`
}

// ListFeatures lists the premium catalogue marked with what the caller has.
func (a *App) ListFeatures(w http.ResponseWriter, r *http.Request) {
	features, err := a.Features.ListFeatures(r.Context())
	if err != nil {
		a.fail(w, r, err)
		return
	}
	var enabled domain.FeatureSet
	if id := a.currentIdentifier(r); id != "" {
		if ent := a.Entitlements.Ensure(r.Context(), id); ent.ActiveAt(time.Now()) {
			enabled = ent.EnabledFeatures
		}
	}
	items := make([]featureDTO, 0, len(features))
	for _, f := range features {
		items = append(items, featureDTO{
			Key:         f.Key,
			Name:        f.NameAr,
			Description: f.DescriptionAr,
			Premium:     f.IsPremium,
			Enabled:     !f.IsPremium || enabled.Has(f.Key),
		})
	}
	a.json(w, http.StatusOK, map[string]any{"items": items})
}

func (a *App) Background(w http.ResponseWriter, r *http.Request) {
	url, err := a.Console.Setting(r.Context(), domain.SettingBackgroundImage)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.json(w, http.StatusOK, map[string]string{"url": url})
}
