package web

import (
	"context"
	"crypto/subtle"
	"net/http"

	"github.com/Mohakgarg5/littlescreen-v2/internal/server"
	"github.com/Mohakgarg5/littlescreen-v2/internal/services"
	"github.com/Mohakgarg5/littlescreen-v2/internal/session"
	"github.com/charmbracelet/log"
)

// AdminHeader carries the admin shared secret.
const AdminHeader = "X-Admin-Secret"

// Pinger reports whether the store is reachable.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Deps groups everything the HTTP layer serves.
type Deps struct {
	Auth      *services.AuthService
	Catalog   *services.CatalogService
	Playlists *services.PlaylistService
	Feedback  *services.FeedbackService
	Reference *services.ReferenceService
	Community *services.CommunityService
	Follows   *services.FollowService
	Concerns  *services.ConcernService
	Admin     *services.AdminService
	DB        Pinger

	Codec       *session.Codec
	Secure      bool
	AdminSecret string
}

// App holds the HTTP handlers.
type App struct {
	Deps
	logger *log.Logger
}

// NewApp creates the HTTP application.
func NewApp(deps Deps, logger *log.Logger) *App {
	if deps.Codec == nil {
		deps.Codec = session.NewCodec()
	}
	return &App{Deps: deps, logger: logger}
}

// Handler builds the router with recovery, access logging and the access gate applied to every route.
func (a *App) Handler() *server.BasicRouter {
	r := server.NewBasicRouter()
	r.Use(server.Recover(a.logger), server.AccessLog(a.logger), server.Gate(a.Codec, a.Secure))

	r.HandleFunc("POST", "/api/auth/login", a.login)
	r.HandleFunc("POST", "/api/auth/signup", a.signup)
	r.HandleFunc("POST", "/api/auth/logout", a.logout)
	r.HandleFunc("GET", "/api/auth/me", a.authed(a.me))
	r.HandleFunc("POST", "/api/onboarding", a.authed(a.onboarding))

	r.HandleFunc("GET", "/api/videos", a.videos)
	r.HandleFunc("GET", "/api/approved-channels", a.approvedChannels)
	r.HandleFunc("GET", "/api/content-ratings", a.contentRatings)

	r.HandleFunc("GET", "/api/playlists", a.authed(a.listPlaylists))
	r.HandleFunc("POST", "/api/playlists", a.authed(a.createPlaylist))
	r.HandleFunc("GET", "/api/playlists/{id}", a.getPlaylist)
	r.HandleFunc("PATCH", "/api/playlists/{id}", a.authed(a.updatePlaylist))
	r.HandleFunc("DELETE", "/api/playlists/{id}", a.authed(a.deletePlaylist))
	r.HandleFunc("POST", "/api/playlists/{id}/items", a.authed(a.addItem))
	r.HandleFunc("DELETE", "/api/playlists/{id}/items", a.authed(a.removeItem))

	r.HandleFunc("POST", "/api/feedback", a.authed(a.submitFeedback))
	r.HandleFunc("GET", "/api/community", a.listCommunity)
	r.HandleFunc("POST", "/api/community", a.authed(a.createPost))
	r.HandleFunc("GET", "/api/follows", a.authed(a.listFollows))
	r.HandleFunc("POST", "/api/follows", a.authed(a.follow))
	r.HandleFunc("DELETE", "/api/follows", a.authed(a.unfollow))
	r.HandleFunc("POST", "/api/parent-concerns", a.authed(a.replaceConcerns))

	r.HandleFunc("POST", "/api/admin/seed-channels", a.admin(a.seedChannels))
	r.HandleFunc("POST", "/api/admin/ai-screen", a.admin(a.screen))
	r.HandleFunc("POST", "/api/admin/feedback-digest", a.admin(a.feedbackDigest))

	r.HandleFunc("GET", "/healthz", a.healthz)
	r.HandleFunc("", "/", a.page)

	return r
}

// authedHandler receives the decoded session of an authenticated request.
type authedHandler func(w http.ResponseWriter, r *http.Request, claims *session.Claims)

// authed rejects requests without a decodable session with 401 before calling fn.
func (a *App) authed(fn authedHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, _ := a.Codec.FromRequest(r)
		if claims == nil {
			writeError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}
		fn(w, r, claims)
	}
}

// admin requires the configured admin secret. An unset secret disables the endpoint.
func (a *App) admin(fn http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		given := r.Header.Get(AdminHeader)
		if a.AdminSecret == "" || subtle.ConstantTimeCompare([]byte(given), []byte(a.AdminSecret)) != 1 {
			a.logger.Warn("admin request rejected", "path", r.URL.Path)
			writeError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}
		fn(w, r)
	}
}
