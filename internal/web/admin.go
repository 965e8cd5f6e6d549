package web

import (
	"net/http"

	"github.com/Mohakgarg5/littlescreen-v2/internal/models"
)

func (a *App) seedChannels(w http.ResponseWriter, r *http.Request) {
	n, err := a.Admin.SeedChannels(r.Context())
	if err != nil {
		a.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "seeded": n})
}

func (a *App) screen(w http.ResponseWriter, r *http.Request) {
	var req models.ScreeningRequest
	if err := decodeJSON(w, r, &req); err != nil {
		a.fail(w, r, err)
		return
	}

	out, err := a.Admin.Screen(r.Context(), req)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (a *App) feedbackDigest(w http.ResponseWriter, r *http.Request) {
	out, err := a.Admin.Digest(r.Context())
	if err != nil {
		a.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}
