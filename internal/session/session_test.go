package session

import (
	"encoding/base64"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	tu "github.com/Mohakgarg5/littlescreen-v2/internal/testing"
)

var fixedNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func testCodec() *Codec {
	return NewCodecAt(func() time.Time { return fixedNow })
}

func rawToken(payload string) string {
	return "eyJhbGciOiJIUzI1NiJ9." + base64.RawURLEncoding.EncodeToString([]byte(payload)) + ".sig"
}

func TestDecode(t *testing.T) {
	codec := testCodec()

	t.Run("valid token", func(t *testing.T) {
		token := tu.MintToken(t, map[string]any{
			"id":                 "abc",
			"email":              "a@example.com",
			"name":               "Alex",
			"onboardingComplete": true,
			"exp":                fixedNow.Add(time.Hour).Unix(),
		})

		claims := codec.Decode(token)
		if claims == nil {
			t.Fatal("expected claims")
		}
		if claims.ID != "abc" || claims.Email != "a@example.com" || claims.Name != "Alex" {
			t.Errorf("unexpected claims %+v", claims)
		}
		if !claims.OnboardingComplete {
			t.Error("expected onboarding complete")
		}
		if claims.ExpiresAt == nil || !claims.ExpiresAt.Equal(fixedNow.Add(time.Hour)) {
			t.Errorf("ExpiresAt = %v", claims.ExpiresAt)
		}
	})

	t.Run("expired token is absent", func(t *testing.T) {
		for _, claims := range []map[string]any{
			{"id": "abc", "exp": fixedNow.Add(-time.Second).Unix()},
			{"id": "abc", "exp": fixedNow.Add(-30 * 24 * time.Hour).Unix(), "onboardingComplete": true, "email": "x@y.z"},
			{"sub": "abc", "exp": 1},
		} {
			if got := codec.Decode(tu.MintToken(t, claims)); got != nil {
				t.Errorf("expected absent for %v, got %+v", claims, got)
			}
		}
	})

	t.Run("no exp never expires", func(t *testing.T) {
		if codec.Decode(tu.MintToken(t, map[string]any{"id": "abc"})) == nil {
			t.Error("token without exp should decode")
		}
	})

	t.Run("claim fallback", func(t *testing.T) {
		primary := codec.Decode(tu.MintToken(t, map[string]any{"id": "42"}))
		subject := codec.Decode(tu.MintToken(t, map[string]any{"sub": "42"}))
		legacy := codec.Decode(tu.MintToken(t, map[string]any{"userId": 42}))

		for name, c := range map[string]*Claims{"id": primary, "sub": subject, "userId": legacy} {
			if c == nil || c.ID != "42" {
				t.Errorf("%s: expected id 42, got %+v", name, c)
			}
		}
	})

	t.Run("primary key wins", func(t *testing.T) {
		c := codec.Decode(tu.MintToken(t, map[string]any{"id": "first", "sub": "second", "userId": "third"}))
		if c == nil || c.ID != "first" {
			t.Errorf("expected id first, got %+v", c)
		}
	})

	t.Run("ids normalize", func(t *testing.T) {
		tests := []struct {
			payload string
			want    string
		}{
			{`{"id": 17}`, "17"},
			{`{"id": 17.0}`, "17"},
			{`{"id": 1e3}`, "1000"},
			{`{"id": 12345678901234}`, "12345678901234"},
			{`{"userId": "  u-9 "}`, "  u-9 "},
			{`{"id": true}`, "true"},
		}
		for _, tt := range tests {
			c := codec.Decode(rawToken(tt.payload))
			if c == nil || c.ID != tt.want {
				t.Errorf("Decode(%s) = %+v, want id %s", tt.payload, c, tt.want)
			}
		}
	})

	t.Run("malformed input is absent", func(t *testing.T) {
		tests := []struct {
			name  string
			token string
		}{
			{"empty", ""},
			{"two segments", "a.b"},
			{"four segments", "a.b.c.d"},
			{"bad base64", "a.!!!.c"},
			{"not json", rawToken("not json")},
			{"json array", rawToken(`["id"]`)},
			{"json null", rawToken(`null`)},
			{"missing subject", rawToken(`{"email":"a@b.c"}`)},
			{"null subject", rawToken(`{"id":null}`)},
			{"empty subject", rawToken(`{"id":""}`)},
			{"object subject", rawToken(`{"id":{"v":1}}`)},
			{"zero subject", rawToken(`{"id":0}`)},
			{"false subject", rawToken(`{"id":false}`)},
			{"falsy subject does not fall through", rawToken(`{"id":0,"sub":"s"}`)},
			{"expired string exp", rawToken(`{"id":"a","exp":"1"}`)},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				if got := codec.Decode(tt.token); got != nil {
					t.Errorf("expected absent, got %+v", got)
				}
			})
		}
	})

	t.Run("non-numeric exp is ignored", func(t *testing.T) {
		c := codec.Decode(rawToken(`{"id":"a","exp":"soon"}`))
		if c == nil || c.ID != "a" || c.ExpiresAt != nil {
			t.Errorf("expected claims without expiry, got %+v", c)
		}
	})

	t.Run("onboarding flag must be boolean true", func(t *testing.T) {
		c := codec.Decode(rawToken(`{"id":"a","onboardingComplete":"yes"}`))
		if c == nil || c.OnboardingComplete {
			t.Errorf("expected incomplete onboarding, got %+v", c)
		}
	})

	t.Run("signature is not verified", func(t *testing.T) {
		c := codec.Decode(rawToken(`{"id":"a"}`))
		if c == nil {
			t.Error("decoding should not depend on the signature segment")
		}
	})
}

func TestFromRequest(t *testing.T) {
	codec := testCodec()

	t.Run("no cookie", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		claims, present := codec.FromRequest(req)
		if claims != nil || present {
			t.Errorf("got (%v, %v), want (nil, false)", claims, present)
		}
	})

	t.Run("invalid cookie", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(&http.Cookie{Name: CookieName, Value: "garbage"})
		claims, present := codec.FromRequest(req)
		if claims != nil || !present {
			t.Errorf("got (%v, %v), want (nil, true)", claims, present)
		}
		if Token(req) != "garbage" {
			t.Errorf("Token() = %q", Token(req))
		}
	})

	t.Run("valid cookie", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(&http.Cookie{Name: CookieName, Value: rawToken(`{"id":"a"}`)})
		claims, present := codec.FromRequest(req)
		if claims == nil || claims.ID != "a" || !present {
			t.Errorf("got (%+v, %v)", claims, present)
		}
	})
}

func TestCookies(t *testing.T) {
	c := NewCookie("tok", false)
	if c.Name != CookieName || c.Value != "tok" || c.Path != "/" {
		t.Errorf("unexpected cookie %+v", c)
	}
	if !c.HttpOnly || c.SameSite != http.SameSiteLaxMode || c.Secure {
		t.Errorf("unexpected cookie flags %+v", c)
	}
	if c.MaxAge != 7*24*60*60 {
		t.Errorf("MaxAge = %d", c.MaxAge)
	}
	if !NewCookie("tok", true).Secure {
		t.Error("production cookie should be Secure")
	}

	cleared := ClearCookie(false)
	if cleared.MaxAge >= 0 || cleared.Value != "" {
		t.Errorf("clear cookie should expire immediately: %+v", cleared)
	}
}
