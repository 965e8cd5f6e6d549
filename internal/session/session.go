// Package session decodes the littlescreen session token and manages its cookie.
//
// The token is issued by the upstream auth service and carried in the [CookieName] cookie.
// Decoding reads the claim set from the token's middle segment without verifying the signature:
// the cookie is only ever set from a response of the trusted issuer. A token that is malformed,
// expired, or lacks a subject decodes to nil, which callers treat exactly like "no session".
package session

import (
	"bytes"
	"encoding/json"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

const (
	// CookieName is the session cookie set by the auth proxy.
	CookieName = "ls_token"
	// MaxAge is the session cookie lifetime.
	MaxAge = 7 * 24 * time.Hour
)

// subjectKeys lists the claim names the upstream issuer has used for the user id, in priority order.
// This is a compatibility shim for the issuer, not a contract.
var subjectKeys = []string{"id", "sub", "userId"}

// Claims is the decoded identity carried by a session token.
type Claims struct {
	ID                 string     `json:"id"`
	Email              string     `json:"email,omitempty"`
	Name               string     `json:"name,omitempty"`
	OnboardingComplete bool       `json:"onboardingComplete"`
	ExpiresAt          *time.Time `json:"exp,omitempty"`
}

// Codec decodes session tokens against a clock.
type Codec struct {
	now func() time.Time
}

// NewCodec returns a Codec using the wall clock.
func NewCodec() *Codec {
	return &Codec{now: time.Now}
}

// NewCodecAt returns a Codec whose notion of "now" comes from clock.
func NewCodecAt(clock func() time.Time) *Codec {
	return &Codec{now: clock}
}

// Decode parses raw and returns its claims, or nil when the token is absent, malformed,
// expired, or has no subject.
func (c *Codec) Decode(raw string) *Claims {
	parts := strings.Split(raw, ".")
	if len(parts) != 3 {
		return nil
	}

	payload, err := jwt.DecodeSegment(parts[1])
	if err != nil {
		return nil
	}

	var mc jwt.MapClaims
	dec := json.NewDecoder(bytes.NewReader(payload))
	dec.UseNumber()
	if err := dec.Decode(&mc); err != nil || mc == nil {
		return nil
	}

	claims := &Claims{}

	// A non-numeric exp is ignored rather than treated as expired.
	if exp, ok := numeric(mc["exp"]); ok && exp != 0 {
		nowSeconds := float64(c.now().UnixNano()) / float64(time.Second)
		if exp < nowSeconds {
			return nil
		}
		sec, frac := math.Modf(exp)
		at := time.Unix(int64(sec), int64(frac*float64(time.Second))).UTC()
		claims.ExpiresAt = &at
	}

	id, ok := subject(mc)
	if !ok {
		return nil
	}
	claims.ID = id

	claims.Email, _ = mc["email"].(string)
	claims.Name, _ = mc["name"].(string)
	claims.OnboardingComplete, _ = mc["onboardingComplete"].(bool)

	return claims
}

// FromRequest decodes the session cookie on r. present reports whether the cookie was sent at all,
// so callers can tell a missing session from an invalid one.
func (c *Codec) FromRequest(r *http.Request) (claims *Claims, present bool) {
	cookie, err := r.Cookie(CookieName)
	if err != nil || cookie.Value == "" {
		return nil, false
	}
	return c.Decode(cookie.Value), true
}

// Token returns the raw session token from r, if any.
func Token(r *http.Request) string {
	cookie, err := r.Cookie(CookieName)
	if err != nil {
		return ""
	}
	return cookie.Value
}

// subject returns the first present subject claim as a string. Only a missing or null key
// falls through to the next one; a present but empty, zero or false subject is rejected.
func subject(mc jwt.MapClaims) (string, bool) {
	for _, key := range subjectKeys {
		v, ok := mc[key]
		if !ok || v == nil {
			continue
		}

		switch t := v.(type) {
		case string:
			return t, t != ""
		case json.Number:
			if f, err := t.Float64(); err != nil || f == 0 {
				return "", false
			}
			return formatNumber(t), true
		case bool:
			return "true", t
		default:
			return "", false
		}
	}
	return "", false
}

func numeric(v any) (float64, bool) {
	switch t := v.(type) {
	case json.Number:
		f, err := t.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		return f, err == nil && !math.IsNaN(f) && !math.IsInf(f, 0)
	case bool:
		if t {
			return 1, true
		}
		return 0, true
	default:
		return 0, false
	}
}

// formatNumber renders integers without exponent or fraction, e.g. 1e3 as "1000" and 42.0 as "42".
func formatNumber(n json.Number) string {
	if i, err := n.Int64(); err == nil {
		return strconv.FormatInt(i, 10)
	}
	f, err := n.Float64()
	if err != nil {
		return n.String()
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}
