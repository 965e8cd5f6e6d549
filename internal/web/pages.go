package web

import (
	"html/template"
	"net/http"
	"strings"

	"github.com/Mohakgarg5/littlescreen-v2/internal/server"
)

var pageTemplate = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>{{.Title}} · littleScreen</title>
</head>
<body>
<main>
<h1>{{.Title}}</h1>
<p>{{.Body}}</p>
</main>
</body>
</html>
`))

type pageData struct {
	Title string
	Body  string
}

var pages = map[string]pageData{
	server.HomePath:       {Title: "littleScreen", Body: "Calm, parent-approved screen time."},
	server.LoginPath:      {Title: "Log in", Body: "Sign in to manage your playlists."},
	server.SignupPath:     {Title: "Sign up", Body: "Create an account to get started."},
	server.OnboardingPath: {Title: "Welcome", Body: "Tell us about your family to finish setting up."},
}

// page renders the placeholder for a gated path. The gate has already run.
// Unmatched API and asset paths get a JSON 404.
func (a *App) page(w http.ResponseWriter, r *http.Request) {
	if server.Skipped(r.URL.Path) {
		a.notFound(w, r)
		return
	}
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.Header().Set("Allow", "GET, HEAD")
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	data, ok := pages[r.URL.Path]
	if !ok {
		name := strings.Trim(r.URL.Path, "/")
		data = pageData{Title: name, Body: "This page is on its way."}
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := pageTemplate.Execute(w, data); err != nil {
		a.logger.Error("failed to render page", "path", r.URL.Path, "error", err)
	}
}

func (a *App) notFound(w http.ResponseWriter, r *http.Request) {
	writeError(w, http.StatusNotFound, "Not found")
}

func (a *App) healthz(w http.ResponseWriter, r *http.Request) {
	if a.DB != nil {
		if err := a.DB.PingContext(r.Context()); err != nil {
			a.logger.Error("health check failed", "error", err)
			writeError(w, http.StatusServiceUnavailable, "Service unavailable")
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
