// API service for making raw HTTP requests to the upstream auth and catalog API
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/oauth2"
)

// APIService performs raw HTTP requests against the upstream service and buffers the response.
type APIService struct {
	baseURL    string
	httpClient *http.Client
}

// NewAPIService creates a new API service instance for the upstream service.
func NewAPIService(baseURL string, client *http.Client) *APIService {
	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}

	return &APIService{
		baseURL:    baseURL,
		httpClient: client,
	}
}

// APIResponse represents a raw API response with status and body.
type APIResponse struct {
	StatusCode int
	Headers    http.Header
	Cookies    []*http.Cookie
	Body       []byte
	IsJSON     bool
	JSONData   any
}

// OK reports a 2xx status.
func (r *APIResponse) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// Cookie returns the value of the named Set-Cookie entry, or "".
func (r *APIResponse) Cookie(name string) string {
	for _, c := range r.Cookies {
		if c.Name == name && c.Value != "" {
			return c.Value
		}
	}
	return ""
}

// ErrorMessage returns the string "error" field of a JSON object body, or "".
func (r *APIResponse) ErrorMessage() string {
	if obj, ok := r.JSONData.(map[string]any); ok {
		if msg, ok := obj["error"].(string); ok {
			return msg
		}
	}
	return ""
}

// Get performs a GET request to the specified path and returns the raw response.
func (a *APIService) Get(ctx context.Context, path string, header http.Header) (*APIResponse, error) {
	return a.do(ctx, http.MethodGet, path, nil, header)
}

// Post performs a POST request with the given JSON data and returns the raw response.
func (a *APIService) Post(ctx context.Context, path string, data []byte, header http.Header) (*APIResponse, error) {
	return a.do(ctx, http.MethodPost, path, data, header)
}

func (a *APIService) do(ctx context.Context, method, path string, data []byte, header http.Header) (*APIResponse, error) {
	var body io.Reader
	if data != nil {
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, a.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	if data != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	apiResp := &APIResponse{
		StatusCode: resp.StatusCode,
		Headers:    resp.Header,
		Cookies:    resp.Cookies(),
		Body:       raw,
	}

	var jsonData any
	if err := json.Unmarshal(raw, &jsonData); err == nil {
		apiResp.IsJSON = true
		apiResp.JSONData = jsonData
	}

	return apiResp, nil
}

// withToken builds the header that forwards a session token upstream as its "token" cookie.
func withToken(token string) http.Header {
	h := http.Header{}
	h.Set("Cookie", (&http.Cookie{Name: "token", Value: token}).String())
	return h
}

// NewBearerClient returns an HTTP client that authenticates every request with token.
// An empty token yields a plain client.
func NewBearerClient(token string, timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if token == "" {
		return &http.Client{Timeout: timeout}
	}

	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token, TokenType: "Bearer"})
	client := oauth2.NewClient(context.Background(), ts)
	client.Timeout = timeout
	return client
}
