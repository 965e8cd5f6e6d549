package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/Mohakgarg5/littlescreen-v2/internal/shared"
	"github.com/charmbracelet/log"
)

// Upstream auth endpoints.
const (
	loginPath      = "/api/auth/login"
	signupPath     = "/api/auth/signup"
	mePath         = "/api/auth/me"
	onboardingPath = "/api/onboarding"

	// upstreamCookie is the cookie the upstream issuer sets its token in.
	upstreamCookie = "token"
)

// Relayed error messages.
const (
	msgConnection      = "Connection error"
	msgLoginFailed     = "Invalid email or password"
	msgSignupFailed    = "Could not create account"
	msgNoLoginSession  = "Authentication failed, could not issue session"
	msgNoSignupSession = "Account created but session could not be issued, please log in"
)

// AuthResult is what the proxy relays to the client.
// A non-empty Token replaces the session cookie.
type AuthResult struct {
	Status int
	Body   any
	Token  string
}

// AuthService proxies authentication to the upstream issuer and captures its session token.
type AuthService struct {
	api    *APIService
	logger *log.Logger
}

// NewAuthService creates an auth proxy over api.
func NewAuthService(api *APIService, logger *log.Logger) *AuthService {
	return &AuthService{api: api, logger: logger}
}

// Login forwards credentials and returns the upstream user with the issued token.
func (s *AuthService) Login(ctx context.Context, body map[string]any) (*AuthResult, error) {
	resp, err := s.post(ctx, loginPath, body, nil)
	if err != nil {
		return nil, err
	}
	if !resp.OK() {
		return nil, relayError(resp, msgLoginFailed)
	}

	token := resp.Cookie(upstreamCookie)
	if token == "" {
		s.logger.Warn("upstream login issued no token")
		return nil, &shared.UpstreamError{Status: http.StatusInternalServerError, Message: msgNoLoginSession}
	}
	return &AuthResult{Status: http.StatusOK, Body: map[string]any{"user": userOf(resp.JSONData)}, Token: token}, nil
}

// Signup creates the account upstream, then logs in with the same credentials.
func (s *AuthService) Signup(ctx context.Context, body map[string]any) (*AuthResult, error) {
	created, err := s.post(ctx, signupPath, body, nil)
	if err != nil {
		return nil, err
	}
	if !created.OK() {
		return nil, relayError(created, msgSignupFailed)
	}

	creds := map[string]any{"email": body["email"], "password": body["password"]}
	resp, err := s.post(ctx, loginPath, creds, nil)
	if err != nil {
		return nil, err
	}

	token := resp.Cookie(upstreamCookie)
	if token == "" {
		s.logger.Warn("upstream login after signup issued no token", "status", resp.StatusCode)
		return nil, &shared.UpstreamError{Status: http.StatusInternalServerError, Message: msgNoSignupSession}
	}

	user := member(resp.JSONData, "user")
	if user == nil {
		user = member(created.JSONData, "user")
	}
	return &AuthResult{Status: http.StatusOK, Body: map[string]any{"user": user}, Token: token}, nil
}

// Me relays the upstream profile for token, status included.
func (s *AuthService) Me(ctx context.Context, token string) (*AuthResult, error) {
	resp, err := s.api.Get(ctx, mePath, withToken(token))
	if err != nil {
		s.logger.Error("upstream profile request failed", "error", err)
		return nil, &shared.UpstreamError{Status: http.StatusInternalServerError, Message: msgConnection}
	}
	if !resp.IsJSON {
		return nil, &shared.UpstreamError{Status: http.StatusInternalServerError, Message: msgConnection}
	}
	return &AuthResult{Status: resp.StatusCode, Body: resp.JSONData}, nil
}

// Onboarding forwards the onboarding answers. The upstream re-issues the token on success.
func (s *AuthService) Onboarding(ctx context.Context, token string, body map[string]any) (*AuthResult, error) {
	resp, err := s.post(ctx, onboardingPath, body, withToken(token))
	if err != nil {
		return nil, err
	}
	if !resp.OK() {
		return &AuthResult{Status: resp.StatusCode, Body: resp.JSONData}, nil
	}
	return &AuthResult{Status: resp.StatusCode, Body: resp.JSONData, Token: resp.Cookie(upstreamCookie)}, nil
}

// post sends body upstream and requires a JSON reply; anything else is a connection error.
func (s *AuthService) post(ctx context.Context, path string, body map[string]any, header http.Header) (*APIResponse, error) {
	data, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrInvalidInput, err)
	}

	resp, err := s.api.Post(ctx, path, data, header)
	if err != nil {
		s.logger.Error("upstream auth request failed", "path", path, "error", err)
		return nil, &shared.UpstreamError{Status: http.StatusInternalServerError, Message: msgConnection}
	}
	if !resp.IsJSON {
		s.logger.Error("upstream auth reply is not JSON", "path", path, "status", resp.StatusCode)
		return nil, &shared.UpstreamError{Status: http.StatusInternalServerError, Message: msgConnection}
	}
	return resp, nil
}

// relayError carries the upstream status and its error message, or fallback.
func relayError(resp *APIResponse, fallback string) error {
	msg := resp.ErrorMessage()
	if msg == "" {
		msg = fallback
	}
	return &shared.UpstreamError{Status: resp.StatusCode, Message: msg}
}

// userOf returns the "user" member of an upstream reply, or the reply itself.
func userOf(data any) any {
	if user := member(data, "user"); user != nil {
		return user
	}
	return data
}

func member(data any, key string) any {
	if obj, ok := data.(map[string]any); ok {
		return obj[key]
	}
	return nil
}
