package server

import (
	"net/http"
	"strings"

	"github.com/Mohakgarg5/littlescreen-v2/internal/session"
)

// Page paths the gate routes between.
const (
	HomePath       = "/"
	LoginPath      = "/login"
	SignupPath     = "/signup"
	OnboardingPath = "/onboarding"
)

// skippedPrefixes are never gated: API routes check the session themselves and assets are public.
var skippedPrefixes = []string{"/api/", "/static/", "/assets/", "/_internal/", "/favicon", "/healthz"}

// Decision is the outcome of the access control gate for one request.
type Decision struct {
	Allow       bool   // Allow passes the request through
	Location    string // Location is the redirect target when Allow is false
	ClearCookie bool   // ClearCookie deletes an invalid session cookie on the redirect
}

// Decide maps a path and session state to allow-or-redirect. It is a pure function:
// claims is nil for an anonymous request, cookiePresent reports whether a session cookie was sent.
//
//	Anonymous      public path               allow
//	Anonymous      other                     redirect /login
//	Incomplete     /onboarding               allow
//	Incomplete     other (incl. login)       redirect /onboarding
//	Complete       login, signup, onboarding redirect /
//	Complete       other                     allow
func Decide(path string, claims *session.Claims, cookiePresent bool) Decision {
	switch {
	case claims == nil:
		if isPublic(path) {
			return Decision{Allow: true}
		}
		return Decision{Location: LoginPath, ClearCookie: cookiePresent}
	case !claims.OnboardingComplete:
		if underPath(path, OnboardingPath) {
			return Decision{Allow: true}
		}
		return Decision{Location: OnboardingPath}
	default:
		if isAuthPage(path) || underPath(path, OnboardingPath) {
			return Decision{Location: HomePath}
		}
		return Decision{Allow: true}
	}
}

// Skipped reports whether the gate lets path through without looking at the session.
func Skipped(path string) bool {
	for _, prefix := range skippedPrefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return path == "/api"
}

// Gate applies [Decide] to every request that is not [Skipped].
// Redirects are 307 and keep the query string. secure marks the cleared cookie Secure.
func Gate(codec *session.Codec, secure bool) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if Skipped(r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}

			claims, present := codec.FromRequest(r)
			decision := Decide(r.URL.Path, claims, present)
			if decision.Allow {
				next.ServeHTTP(w, r)
				return
			}

			if decision.ClearCookie {
				http.SetCookie(w, session.ClearCookie(secure))
			}

			location := decision.Location
			if r.URL.RawQuery != "" {
				location += "?" + r.URL.RawQuery
			}
			http.Redirect(w, r, location, http.StatusTemporaryRedirect)
		})
	}
}

func isPublic(path string) bool {
	return path == HomePath || isAuthPage(path)
}

func isAuthPage(path string) bool {
	return underPath(path, LoginPath) || underPath(path, SignupPath)
}

// underPath matches base and anything below it, but not siblings such as "/loginx".
func underPath(path, base string) bool {
	return path == base || strings.HasPrefix(path, base+"/")
}
