package web

import (
	"net/http"

	"github.com/Mohakgarg5/littlescreen-v2/internal/services"
	"github.com/Mohakgarg5/littlescreen-v2/internal/session"
)

func (a *App) login(w http.ResponseWriter, r *http.Request) {
	var body map[string]any
	if err := decodeJSON(w, r, &body); err != nil {
		a.fail(w, r, err)
		return
	}

	res, err := a.Auth.Login(r.Context(), body)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.relay(w, res)
}

func (a *App) signup(w http.ResponseWriter, r *http.Request) {
	var body map[string]any
	if err := decodeJSON(w, r, &body); err != nil {
		a.fail(w, r, err)
		return
	}

	res, err := a.Auth.Signup(r.Context(), body)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.relay(w, res)
}

func (a *App) logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, session.ClearCookie(a.Secure))
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func (a *App) me(w http.ResponseWriter, r *http.Request, _ *session.Claims) {
	res, err := a.Auth.Me(r.Context(), session.Token(r))
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.relay(w, res)
}

func (a *App) onboarding(w http.ResponseWriter, r *http.Request, _ *session.Claims) {
	var body map[string]any
	if err := decodeJSON(w, r, &body); err != nil {
		a.fail(w, r, err)
		return
	}

	res, err := a.Auth.Onboarding(r.Context(), session.Token(r), body)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.relay(w, res)
}

// relay writes an auth result, replacing the session cookie when a token was issued.
func (a *App) relay(w http.ResponseWriter, res *services.AuthResult) {
	if res.Token != "" {
		http.SetCookie(w, session.NewCookie(res.Token, a.Secure))
	}
	writeJSON(w, res.Status, res.Body)
}
