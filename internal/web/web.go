// Package web serves the littlescreen HTTP API and the gated placeholder pages.
//
// # Routes
//
//	POST   /api/auth/login               → proxy login, set ls_token
//	POST   /api/auth/signup              → proxy signup then login, set ls_token
//	POST   /api/auth/logout              → clear ls_token
//	GET    /api/auth/me                  → relay upstream profile (session)
//	POST   /api/onboarding               → relay onboarding, refresh ls_token (session)
//	GET    /api/videos                   → catalog, best rated first
//	GET    /api/approved-channels        → approved channels
//	GET    /api/content-ratings?title=   → screening verdicts
//	GET    /api/playlists                → caller's playlists (session)
//	POST   /api/playlists                → create (session)
//	GET    /api/playlists/{id}           → playlist with items
//	PATCH  /api/playlists/{id}           → partial update (owner)
//	DELETE /api/playlists/{id}           → delete (owner)
//	POST   /api/playlists/{id}/items     → append item (owner)
//	DELETE /api/playlists/{id}/items     → remove ?item_id= (owner)
//	POST   /api/feedback                 → record feedback (session)
//	GET    /api/community                → recent posts
//	POST   /api/community                → publish (session)
//	GET    /api/follows                  → followed usernames (session)
//	POST   /api/follows                  → follow (session)
//	DELETE /api/follows                  → unfollow (session)
//	POST   /api/parent-concerns          → replace concerns (session)
//	POST   /api/admin/seed-channels      → upsert approved channels (admin secret)
//	POST   /api/admin/ai-screen          → classify and store a verdict (admin secret)
//	POST   /api/admin/feedback-digest    → mail the weekly digest (admin secret)
//	GET    /healthz                      → liveness
//	GET    /                             → placeholder pages behind the access gate
//	*      /api/...                      → JSON 404 for anything unmatched
//
// # Errors
//
// Handlers return errors from package shared and [App.fail] maps them:
// a [shared.FieldError] is 400 with its field, [shared.ErrNotAuthenticated] 401,
// [shared.ErrNotFound] 404, a [shared.UpstreamError] its own status and message,
// and anything else 500 with a generic message.
package web
