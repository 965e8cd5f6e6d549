package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Mohakgarg5/littlescreen-v2/internal/models"
	"github.com/Mohakgarg5/littlescreen-v2/internal/shared"
	tu "github.com/Mohakgarg5/littlescreen-v2/internal/testing"
)

func upstreamError(t *testing.T, err error) *shared.UpstreamError {
	t.Helper()

	var ue *shared.UpstreamError
	if !errors.As(err, &ue) {
		t.Fatalf("expected UpstreamError, got %v", err)
	}
	return ue
}

func TestAuthService(t *testing.T) {
	ctx := context.Background()
	creds := map[string]any{"email": "a@example.com", "password": "pw"}

	t.Run("Login", func(t *testing.T) {
		t.Run("Captures Token", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != "/api/auth/login" {
					t.Errorf("unexpected path %s", r.URL.Path)
				}
				http.SetCookie(w, &http.Cookie{Name: "token", Value: "h.p.s", HttpOnly: true})
				w.Write([]byte(`{"user": {"id": "u1", "email": "a@example.com"}}`))
			}))
			defer server.Close()

			svc := NewAuthService(NewAPIService(server.URL, nil), testLogger())
			res, err := svc.Login(ctx, creds)
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if res.Token != "h.p.s" {
				t.Errorf("expected token captured, got %q", res.Token)
			}
			user := res.Body.(map[string]any)["user"].(map[string]any)
			if user["id"] != "u1" {
				t.Errorf("unexpected user %v", user)
			}
		})

		t.Run("Relays Upstream Error", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusUnauthorized)
				w.Write([]byte(`{"error": "Wrong password"}`))
			}))
			defer server.Close()

			svc := NewAuthService(NewAPIService(server.URL, nil), testLogger())
			_, err := svc.Login(ctx, creds)
			ue := upstreamError(t, err)
			if ue.Status != http.StatusUnauthorized || ue.Message != "Wrong password" {
				t.Errorf("unexpected relay %+v", ue)
			}
		})

		t.Run("Falls Back To Generic Message", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusBadRequest)
				w.Write([]byte(`{}`))
			}))
			defer server.Close()

			svc := NewAuthService(NewAPIService(server.URL, nil), testLogger())
			_, err := svc.Login(ctx, creds)
			if ue := upstreamError(t, err); ue.Message != msgLoginFailed || ue.Status != http.StatusBadRequest {
				t.Errorf("unexpected relay %+v", ue)
			}
		})

		t.Run("Missing Token", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`{"user": {}}`))
			}))
			defer server.Close()

			svc := NewAuthService(NewAPIService(server.URL, nil), testLogger())
			_, err := svc.Login(ctx, creds)
			if ue := upstreamError(t, err); ue.Status != http.StatusInternalServerError || ue.Message != msgNoLoginSession {
				t.Errorf("unexpected relay %+v", ue)
			}
		})

		t.Run("Transport Failure", func(t *testing.T) {
			client := &http.Client{Transport: tu.NewMockRoundTripper(nil, errors.New("dial failed"))}
			svc := NewAuthService(NewAPIService("http://upstream", client), testLogger())

			_, err := svc.Login(ctx, creds)
			if ue := upstreamError(t, err); ue.Message != msgConnection {
				t.Errorf("unexpected relay %+v", ue)
			}
		})

		t.Run("Non-JSON Reply", func(t *testing.T) {
			client := &http.Client{Transport: tu.NewMockRoundTripper(&http.Response{
				StatusCode: http.StatusBadGateway,
				Body:       io.NopCloser(strings.NewReader("<html>bad gateway</html>")),
				Header:     http.Header{},
			}, nil)}
			svc := NewAuthService(NewAPIService("http://upstream", client), testLogger())

			_, err := svc.Login(ctx, creds)
			if ue := upstreamError(t, err); ue.Status != http.StatusInternalServerError || ue.Message != msgConnection {
				t.Errorf("unexpected relay %+v", ue)
			}
		})
	})

	t.Run("Signup", func(t *testing.T) {
		t.Run("Logs In After Creating The Account", func(t *testing.T) {
			var paths []string
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				paths = append(paths, r.URL.Path)
				body, _ := io.ReadAll(r.Body)
				var got map[string]any
				json.Unmarshal(body, &got)

				switch r.URL.Path {
				case "/api/auth/signup":
					if got["name"] != "Ada" {
						t.Errorf("expected full signup body forwarded, got %v", got)
					}
					w.WriteHeader(http.StatusCreated)
					w.Write([]byte(`{"user": {"id": "u2"}}`))
				case "/api/auth/login":
					if _, ok := got["name"]; ok {
						t.Errorf("expected only credentials on login, got %v", got)
					}
					http.SetCookie(w, &http.Cookie{Name: "token", Value: "new.tok.en"})
					w.Write([]byte(`{"ok": true}`))
				}
			}))
			defer server.Close()

			svc := NewAuthService(NewAPIService(server.URL, nil), testLogger())
			res, err := svc.Signup(ctx, map[string]any{"name": "Ada", "email": "a@example.com", "password": "pw"})
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if strings.Join(paths, ",") != "/api/auth/signup,/api/auth/login" {
				t.Errorf("unexpected call order %v", paths)
			}
			if res.Token != "new.tok.en" {
				t.Errorf("expected token, got %q", res.Token)
			}
			user := res.Body.(map[string]any)["user"].(map[string]any)
			if user["id"] != "u2" {
				t.Errorf("expected signup user as fallback, got %v", user)
			}
		})

		t.Run("Relays Signup Failure", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusConflict)
				w.Write([]byte(`{}`))
			}))
			defer server.Close()

			svc := NewAuthService(NewAPIService(server.URL, nil), testLogger())
			_, err := svc.Signup(ctx, creds)
			if ue := upstreamError(t, err); ue.Status != http.StatusConflict || ue.Message != msgSignupFailed {
				t.Errorf("unexpected relay %+v", ue)
			}
		})

		t.Run("Login Without Token", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`{}`))
			}))
			defer server.Close()

			svc := NewAuthService(NewAPIService(server.URL, nil), testLogger())
			_, err := svc.Signup(ctx, creds)
			if ue := upstreamError(t, err); ue.Message != msgNoSignupSession {
				t.Errorf("unexpected relay %+v", ue)
			}
		})
	})

	t.Run("Me Relays Status And Body", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if c, err := r.Cookie("token"); err != nil || c.Value != "tok" {
				t.Errorf("expected forwarded token, got %v", c)
			}
			w.WriteHeader(http.StatusForbidden)
			w.Write([]byte(`{"error": "suspended"}`))
		}))
		defer server.Close()

		svc := NewAuthService(NewAPIService(server.URL, nil), testLogger())
		res, err := svc.Me(ctx, "tok")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if res.Status != http.StatusForbidden || res.Body.(map[string]any)["error"] != "suspended" {
			t.Errorf("unexpected result %+v", res)
		}
	})

	t.Run("Onboarding", func(t *testing.T) {
		t.Run("Replaces Token When Reissued", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				http.SetCookie(w, &http.Cookie{Name: "token", Value: "onboarded.tok.en"})
				w.Write([]byte(`{"ok": true}`))
			}))
			defer server.Close()

			svc := NewAuthService(NewAPIService(server.URL, nil), testLogger())
			res, err := svc.Onboarding(ctx, "tok", map[string]any{"childAge": 3})
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if res.Token != "onboarded.tok.en" || res.Status != http.StatusOK {
				t.Errorf("unexpected result %+v", res)
			}
		})

		t.Run("Relays Rejection Without Token", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				http.SetCookie(w, &http.Cookie{Name: "token", Value: "ignored"})
				w.WriteHeader(http.StatusBadRequest)
				w.Write([]byte(`{"error": "missing answers"}`))
			}))
			defer server.Close()

			svc := NewAuthService(NewAPIService(server.URL, nil), testLogger())
			res, err := svc.Onboarding(ctx, "tok", map[string]any{})
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if res.Status != http.StatusBadRequest || res.Token != "" {
				t.Errorf("unexpected result %+v", res)
			}
		})
	})
}

func TestCatalogService(t *testing.T) {
	ctx := context.Background()

	serve := func(t *testing.T, status int, body string) *CatalogService {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(status)
			w.Write([]byte(body))
		}))
		t.Cleanup(server.Close)
		return NewCatalogService(NewAPIService(server.URL, nil), testLogger())
	}

	t.Run("Passes Non-Empty Filters", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			q := r.URL.Query()
			if q.Get("category") != "music" || q.Get("ageMax") != "4" {
				t.Errorf("unexpected query %v", q)
			}
			if q.Has("tag") || q.Has("ageMin") {
				t.Errorf("expected empty filters omitted, got %v", q)
			}
			w.Write([]byte(`[]`))
		}))
		defer server.Close()

		svc := NewCatalogService(NewAPIService(server.URL, nil), testLogger())
		if _, err := svc.ListVideos(ctx, models.VideoFilter{Category: "music", AgeMax: "4"}); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
	})

	t.Run("Sorts By Rating Keeping Ties Stable", func(t *testing.T) {
		svc := serve(t, http.StatusOK, `{"videos": [
			{"id": 1, "title": "low", "parentRating": 2},
			{"id": "b", "title": "tie-a", "parentRating": 4.5},
			{"id": 3, "title": "top", "parentRating": 5},
			{"id": 4, "title": "tie-b", "parentRating": 4.5}
		]}`)

		videos, err := svc.ListVideos(ctx, models.VideoFilter{})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		var titles []string
		for _, v := range videos {
			titles = append(titles, videoField(t, v, "title"))
		}
		if strings.Join(titles, ",") != "top,tie-a,tie-b,low" {
			t.Errorf("unexpected order %v", titles)
		}
		if !strings.Contains(string(videos[1].Raw), `"id": "b"`) {
			t.Errorf("expected id passed through verbatim, got %s", videos[1].Raw)
		}
	})

	t.Run("Passes Entries Through Unchanged", func(t *testing.T) {
		svc := serve(t, http.StatusOK, `[`+
			`{"id":1,"parentRating":4.5,"ageMin":2.5},`+
			`{"id":2,"parentRating":5,"tags":["calm"]},`+
			`{"id":3,"parentRating":3,"moments":["bedtime"],"isVerified":true}]`)

		videos, err := svc.ListVideos(ctx, models.VideoFilter{})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(videos) != 3 {
			t.Fatalf("expected all 3 entries, got %d", len(videos))
		}

		out, err := json.Marshal(videos)
		if err != nil {
			t.Fatalf("failed to marshal videos: %v", err)
		}
		want := `[{"id":2,"parentRating":5,"tags":["calm"]},` +
			`{"id":1,"parentRating":4.5,"ageMin":2.5},` +
			`{"id":3,"parentRating":3,"moments":["bedtime"],"isVerified":true}]`
		if string(out) != want {
			t.Errorf("got %s\nwant %s", out, want)
		}
	})

	t.Run("Keeps Entries Without A Usable Rating", func(t *testing.T) {
		videos, _ := serve(t, http.StatusOK,
			`[{"title":"ok","parentRating":1},"junk",null,{"parentRating":"high"},{"parentRating":"4.8"}]`,
		).ListVideos(ctx, models.VideoFilter{})

		var got []string
		for _, v := range videos {
			got = append(got, string(v.Raw))
		}
		want := []string{
			`{"parentRating":"4.8"}`,
			`{"title":"ok","parentRating":1}`,
			`"junk"`,
			`null`,
			`{"parentRating":"high"}`,
		}
		if strings.Join(got, " ") != strings.Join(want, " ") {
			t.Errorf("got %v, want %v", got, want)
		}
	})

	t.Run("Caps At Max After Sorting", func(t *testing.T) {
		// Ratings rise with the index, so the best entries arrive last.
		const upstreamCount = 800
		var b strings.Builder
		b.WriteString("[")
		for i := range upstreamCount {
			if i > 0 {
				b.WriteString(",")
			}
			fmt.Fprintf(&b, `{"id": %d, "parentRating": %.2f}`, i, float64(i)/100)
		}
		b.WriteString("]")

		videos, _ := serve(t, http.StatusOK, b.String()).ListVideos(ctx, models.VideoFilter{})
		if len(videos) != MaxVideos {
			t.Fatalf("expected %d videos, got %d", MaxVideos, len(videos))
		}
		if first := videos[0].ParentRating; first != 7.99 {
			t.Errorf("expected best rating 7.99 first, got %v", first)
		}
		if last := videos[MaxVideos-1].ParentRating; last != 3.00 {
			t.Errorf("expected 3.00 as the lowest kept rating, got %v", last)
		}
		for i := 1; i < len(videos); i++ {
			if videos[i].ParentRating > videos[i-1].ParentRating {
				t.Fatalf("not descending at %d: %v after %v", i, videos[i].ParentRating, videos[i-1].ParentRating)
			}
		}
	})

	t.Run("Returns Everything Below The Cap", func(t *testing.T) {
		var b strings.Builder
		b.WriteString("[")
		for i := range 120 {
			if i > 0 {
				b.WriteString(",")
			}
			fmt.Fprintf(&b, `{"id": %d, "parentRating": %d}`, i, i%7)
		}
		b.WriteString("]")

		videos, _ := serve(t, http.StatusOK, b.String()).ListVideos(ctx, models.VideoFilter{})
		if len(videos) != 120 {
			t.Fatalf("expected all 120 videos, got %d", len(videos))
		}
		for i := 1; i < len(videos); i++ {
			if videos[i].ParentRating > videos[i-1].ParentRating {
				t.Fatalf("not descending at %d", i)
			}
		}
	})

	t.Run("Degrades To Empty List", func(t *testing.T) {
		tests := []struct {
			name   string
			status int
			body   string
		}{
			{"Server Error", http.StatusInternalServerError, `{"error": "boom"}`},
			{"Malformed JSON", http.StatusOK, `[{"title": `},
			{"Unexpected Shape", http.StatusOK, `{"items": []}`},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				videos, err := serve(t, tt.status, tt.body).ListVideos(ctx, models.VideoFilter{})
				if err != nil {
					t.Fatalf("expected no error, got %v", err)
				}
				if videos == nil || len(videos) != 0 {
					t.Errorf("expected empty non-nil list, got %v", videos)
				}
			})
		}
	})

	t.Run("Transport Failure Degrades", func(t *testing.T) {
		client := &http.Client{Transport: tu.NewMockRoundTripper(nil, errors.New("dial failed"))}
		svc := NewCatalogService(NewAPIService("http://upstream", client), testLogger())

		videos, err := svc.ListVideos(ctx, models.VideoFilter{})
		if err != nil || len(videos) != 0 {
			t.Errorf("expected empty list without error, got %v (%v)", videos, err)
		}
	})
}

func TestAPIMailer(t *testing.T) {
	ctx := context.Background()

	t.Run("Posts Message", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/emails" {
				t.Errorf("unexpected path %s", r.URL.Path)
			}
			if r.Header.Get("Authorization") != "Bearer re_key" {
				t.Errorf("expected bearer auth, got %q", r.Header.Get("Authorization"))
			}
			var req emailRequest
			json.NewDecoder(r.Body).Decode(&req)
			if req.From != "hello@littlescreen.app" || len(req.To) != 1 || req.To[0] != "p@example.com" || req.Subject != "Hi" {
				t.Errorf("unexpected request %+v", req)
			}
			w.Write([]byte(`{"id": "email_1"}`))
		}))
		defer server.Close()

		mailer := NewMailer(shared.MailConfig{BaseURL: server.URL, APIKey: "re_key", From: "hello@littlescreen.app"}, testLogger())
		if err := mailer.Send(ctx, Message{To: "p@example.com", Subject: "Hi", Text: "Body"}); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
	})

	t.Run("Rejection Is An Upstream Error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnprocessableEntity)
			w.Write([]byte(`{"message": "invalid from"}`))
		}))
		defer server.Close()

		mailer := NewAPIMailer(NewAPIService(server.URL, nil), "x")
		err := mailer.Send(ctx, Message{To: "p@example.com"})
		if ue := upstreamError(t, err); ue.Status != http.StatusUnprocessableEntity || ue.Message != "invalid from" {
			t.Errorf("unexpected error %+v", ue)
		}
	})

	t.Run("Recipient Required", func(t *testing.T) {
		mailer := NewAPIMailer(NewAPIService("http://unused", nil), "x")
		if err := mailer.Send(ctx, Message{}); !errors.Is(err, shared.ErrInvalidInput) {
			t.Errorf("expected ErrInvalidInput, got %v", err)
		}
	})

	t.Run("No Key Falls Back To Log Mailer", func(t *testing.T) {
		mailer := NewMailer(shared.MailConfig{BaseURL: "https://api.example.com"}, testLogger())
		if _, ok := mailer.(*LogMailer); !ok {
			t.Fatalf("expected LogMailer, got %T", mailer)
		}
		if err := mailer.Send(ctx, Message{To: "p@example.com"}); err != nil {
			t.Errorf("expected no error, got %v", err)
		}
	})
}

func TestClassifier(t *testing.T) {
	ctx := context.Background()

	t.Run("ParseVerdict", func(t *testing.T) {
		tests := []struct {
			name    string
			text    string
			wantErr bool
		}{
			{"Bare JSON", `{"approved": true, "score": 0.9, "notes": "fine"}`, false},
			{"Fenced JSON", "```json\n{\"approved\": false, \"score\": 0.2, \"notes\": \"scary\"}\n```", false},
			{"Plain Fence", "```\n{\"approved\": true, \"score\": 1, \"notes\": \"\"}```", false},
			{"Prose", "I think it is fine", true},
			{"Missing Verdict", `{"score": 0.5}`, true},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				_, err := ParseVerdict(tt.text)
				if (err != nil) != tt.wantErr {
					t.Errorf("ParseVerdict() error = %v, wantErr %v", err, tt.wantErr)
				}
			})
		}
	})

	t.Run("Prompt Defaults", func(t *testing.T) {
		prompt := ScreeningPrompt(models.ScreeningRequest{Title: "Bluey"})
		for _, want := range []string{"Title: Bluey", "Channel: Unknown", "Description: No description provided", "Target age range: 0-6 years"} {
			if !strings.Contains(prompt, want) {
				t.Errorf("prompt missing %q", want)
			}
		}

		lo, hi := 2, 4
		prompt = ScreeningPrompt(models.ScreeningRequest{Title: "x", ChannelName: "PBS Kids", AgeMin: &lo, AgeMax: &hi})
		if !strings.Contains(prompt, "Channel: PBS Kids") || !strings.Contains(prompt, "Target age range: 2-4 years") {
			t.Errorf("prompt ignored fields:\n%s", prompt)
		}
	})

	t.Run("Classify", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var req messagesRequest
			json.NewDecoder(r.Body).Decode(&req)
			if req.Model != "screen-model" || len(req.Messages) != 1 || !strings.Contains(req.Messages[0].Content, "Title: Bluey") {
				t.Errorf("unexpected request %+v", req)
			}
			w.Write([]byte(`{"content": [{"type": "text", "text": "` + "```json\\n{\\\"approved\\\": true, \\\"score\\\": 0.95, \\\"notes\\\": \\\"ok\\\"}\\n```" + `"}]}`))
		}))
		defer server.Close()

		c := NewHTTPClassifier(NewAPIService(server.URL, nil), "screen-model")
		result, err := c.Classify(ctx, models.ScreeningRequest{Title: "Bluey"})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !result.Approved || result.Score != 0.95 || result.Notes != "ok" {
			t.Errorf("unexpected result %+v", result)
		}
	})

	t.Run("Unexpected Reply", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"content": []}`))
		}))
		defer server.Close()

		c := NewHTTPClassifier(NewAPIService(server.URL, nil), "m")
		if _, err := c.Classify(ctx, models.ScreeningRequest{Title: "x"}); !errors.Is(err, ErrUnexpectedReply) {
			t.Errorf("expected ErrUnexpectedReply, got %v", err)
		}
	})
}

// videoField reads a string field from a passed-through catalog entry.
func videoField(t *testing.T, v models.Video, name string) string {
	t.Helper()
	var fields map[string]any
	if err := json.Unmarshal(v.Raw, &fields); err != nil {
		t.Fatalf("entry %s is not an object: %v", v.Raw, err)
	}
	s, _ := fields[name].(string)
	return s
}
