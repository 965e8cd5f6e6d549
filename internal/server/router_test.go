package server

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

type multiRoute struct{}

func (multiRoute) Routes() []string { return []string{"GET /a", "GET /b"} }

func (multiRoute) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Write([]byte(r.URL.Path))
}

func TestBasicRouter(t *testing.T) {
	t.Run("method patterns", func(t *testing.T) {
		router := NewBasicRouter()
		router.HandleFunc(http.MethodGet, "/items/{id}", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("get " + r.PathValue("id")))
		})
		router.HandleFunc(http.MethodDelete, "/items/{id}", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("delete " + r.PathValue("id")))
		})

		for _, tc := range []struct {
			method, want string
			status       int
		}{
			{http.MethodGet, "get 7", http.StatusOK},
			{http.MethodDelete, "delete 7", http.StatusOK},
			{http.MethodPost, "", http.StatusMethodNotAllowed},
		} {
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(tc.method, "/items/7", nil))
			if rec.Code != tc.status {
				t.Errorf("%s status = %d, want %d", tc.method, rec.Code, tc.status)
			}
			if tc.want != "" && rec.Body.String() != tc.want {
				t.Errorf("%s body = %q, want %q", tc.method, rec.Body.String(), tc.want)
			}
		}
	})

	t.Run("middleware order", func(t *testing.T) {
		var order []string
		tag := func(name string) Middleware {
			return func(next http.Handler) http.Handler {
				return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
					order = append(order, name)
					next.ServeHTTP(w, r)
				})
			}
		}

		router := NewBasicRouter()
		router.Use(tag("outer"), tag("inner"))
		router.HandleFunc(http.MethodGet, "/", func(w http.ResponseWriter, r *http.Request) {
			order = append(order, "handler")
		})

		router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
		if got := strings.Join(order, ","); got != "outer,inner,handler" {
			t.Errorf("order = %s", got)
		}
	})

	t.Run("handler routes", func(t *testing.T) {
		router := NewBasicRouter()
		router.Handler(multiRoute{})

		for _, path := range []string{"/a", "/b"} {
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
			if rec.Body.String() != path {
				t.Errorf("GET %s body = %q", path, rec.Body.String())
			}
		}
	})

	t.Run("registered routes", func(t *testing.T) {
		inner := NewBasicRouter()
		inner.HandleFunc("post", "/z", func(w http.ResponseWriter, r *http.Request) {})
		inner.HandleFunc("", "/", func(w http.ResponseWriter, r *http.Request) {})

		outer := NewBasicRouter()
		outer.Handler(multiRoute{})
		outer.Handler(inner)

		want := "/,GET /a,GET /b,POST /z"
		if got := strings.Join(outer.Routes(), ","); got != want {
			t.Errorf("Routes() = %s, want %s", got, want)
		}
		if len(NewBasicRouter().Routes()) != 0 {
			t.Error("empty router should have no routes")
		}
	})
}

func TestMiddleware(t *testing.T) {
	t.Run("AccessLog", func(t *testing.T) {
		var buf bytes.Buffer
		logger := log.New(&buf)

		handler := AccessLog(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTeapot)
		}))
		handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/brew", nil))

		out := buf.String()
		if !strings.Contains(out, "/brew") || !strings.Contains(out, "418") {
			t.Errorf("access log missing path or status: %s", out)
		}
	})

	t.Run("Recover", func(t *testing.T) {
		logger := log.New(&bytes.Buffer{})
		handler := Recover(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			panic("boom")
		}))

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		if rec.Code != http.StatusInternalServerError {
			t.Errorf("status = %d, want 500", rec.Code)
		}
	})
}
