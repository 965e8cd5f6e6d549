package web

import (
	"net/http"

	"github.com/Mohakgarg5/littlescreen-v2/internal/models"
	"github.com/Mohakgarg5/littlescreen-v2/internal/session"
)

func (a *App) submitFeedback(w http.ResponseWriter, r *http.Request, claims *session.Claims) {
	var in models.FeedbackInput
	if err := decodeJSON(w, r, &in); err != nil {
		a.fail(w, r, err)
		return
	}

	res, err := a.Feedback.Submit(r.Context(), claims, in)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (a *App) listCommunity(w http.ResponseWriter, r *http.Request) {
	posts, err := a.Community.Recent(r.Context())
	if err != nil {
		a.fail(w, r, err)
		return
	}
	if posts == nil {
		posts = []models.CommunityPost{}
	}
	writeJSON(w, http.StatusOK, posts)
}

func (a *App) createPost(w http.ResponseWriter, r *http.Request, claims *session.Claims) {
	var in models.PostInput
	if err := decodeJSON(w, r, &in); err != nil {
		a.fail(w, r, err)
		return
	}

	post, err := a.Community.Post(r.Context(), claims, in)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, post)
}

func (a *App) listFollows(w http.ResponseWriter, r *http.Request, claims *session.Claims) {
	names, err := a.Follows.Following(r.Context(), claims)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	if names == nil {
		names = []string{}
	}
	writeJSON(w, http.StatusOK, names)
}

func (a *App) follow(w http.ResponseWriter, r *http.Request, claims *session.Claims) {
	var in models.FollowInput
	if err := decodeJSON(w, r, &in); err != nil {
		a.fail(w, r, err)
		return
	}

	if err := a.Follows.Follow(r.Context(), claims, in); err != nil {
		a.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func (a *App) unfollow(w http.ResponseWriter, r *http.Request, claims *session.Claims) {
	var in models.FollowInput
	if err := decodeJSON(w, r, &in); err != nil {
		a.fail(w, r, err)
		return
	}

	if err := a.Follows.Unfollow(r.Context(), claims, in); err != nil {
		a.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func (a *App) replaceConcerns(w http.ResponseWriter, r *http.Request, claims *session.Claims) {
	var in models.ConcernsInput
	if err := decodeJSON(w, r, &in); err != nil {
		a.fail(w, r, err)
		return
	}

	if err := a.Concerns.Replace(r.Context(), claims, in); err != nil {
		a.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}
