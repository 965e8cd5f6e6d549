package web

import (
	"net/http"

	"github.com/Mohakgarg5/littlescreen-v2/internal/models"
	"github.com/Mohakgarg5/littlescreen-v2/internal/session"
)

func (a *App) listPlaylists(w http.ResponseWriter, r *http.Request, claims *session.Claims) {
	playlists, err := a.Playlists.ListMine(r.Context(), claims)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	if playlists == nil {
		playlists = []models.Playlist{}
	}
	writeJSON(w, http.StatusOK, playlists)
}

func (a *App) createPlaylist(w http.ResponseWriter, r *http.Request, claims *session.Claims) {
	var in models.PlaylistInput
	if err := decodeJSON(w, r, &in); err != nil {
		a.fail(w, r, err)
		return
	}

	playlist, err := a.Playlists.Create(r.Context(), claims, in)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, playlist)
}

func (a *App) getPlaylist(w http.ResponseWriter, r *http.Request) {
	detail, err := a.Playlists.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		a.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, detail)
}

func (a *App) updatePlaylist(w http.ResponseWriter, r *http.Request, claims *session.Claims) {
	var patch models.PlaylistPatch
	if err := decodeJSON(w, r, &patch); err != nil {
		a.fail(w, r, err)
		return
	}

	if err := a.Playlists.Update(r.Context(), claims, r.PathValue("id"), patch); err != nil {
		a.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func (a *App) deletePlaylist(w http.ResponseWriter, r *http.Request, claims *session.Claims) {
	if err := a.Playlists.Delete(r.Context(), claims, r.PathValue("id")); err != nil {
		a.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func (a *App) addItem(w http.ResponseWriter, r *http.Request, claims *session.Claims) {
	var in models.ItemInput
	if err := decodeJSON(w, r, &in); err != nil {
		a.fail(w, r, err)
		return
	}

	item, err := a.Playlists.AddItem(r.Context(), claims, r.PathValue("id"), in)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"ok": true, "item": item})
}

func (a *App) removeItem(w http.ResponseWriter, r *http.Request, claims *session.Claims) {
	itemID := r.URL.Query().Get("item_id")
	if err := a.Playlists.RemoveItem(r.Context(), claims, r.PathValue("id"), itemID); err != nil {
		a.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}
