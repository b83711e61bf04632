package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
)

const maxAssetPage = 100

func (a *App) ListAssets(w http.ResponseWriter, r *http.Request) {
	if a.Assets == nil {
		a.error(w, r, http.StatusServiceUnavailable, "registry_disabled")
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit <= 0 {
		limit = 20
	}
	if limit > maxAssetPage {
		limit = maxAssetPage
	}
	items, err := a.Assets.ListRecent(r.Context(), limit)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.json(w, http.StatusOK, map[string]any{"items": items})
}

func (a *App) GetAsset(w http.ResponseWriter, r *http.Request) {
	if a.Assets == nil {
		a.error(w, r, http.StatusServiceUnavailable, "registry_disabled")
		return
	}
	asset, err := a.Assets.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.json(w, http.StatusOK, asset)
}
