// package testing contains shared testing utilities
package testing

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"sync"
	"testing"
)

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	response *http.Response
	err      error
	calls    int
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	m.calls++
	return m.response, m.err
}

// Calls returns how many requests went through the round tripper.
func (m *MockRoundTripper) Calls() int { return m.calls }

// FCloser simulates a failure when reading response body
type FCloser struct{}

func (f *FCloser) Read(p []byte) (n int, err error) {
	return 0, errors.New("read failed")
}

func (f *FCloser) Close() error {
	return nil
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}

// RecordedRequest is a copy of a request seen by [SpotifyServer].
type RecordedRequest struct {
	Method string
	Path   string
	Query  url.Values
	Header http.Header
	Body   []byte
}

// Form parses a form-encoded body.
func (r RecordedRequest) Form() url.Values {
	v, _ := url.ParseQuery(string(r.Body))
	return v
}

// SpotifyServer is an httptest stand-in for both the accounts service and the Web API.
//
// Routes are keyed by method and path. Unknown routes answer 404 in the Web API error shape.
type SpotifyServer struct {
	*httptest.Server

	mu       sync.Mutex
	routes   map[string]http.HandlerFunc
	calls    map[string]int
	requests []RecordedRequest
}

// TokenPath is where [SpotifyServer] expects token exchanges.
const TokenPath = "/api/token"

// NewSpotifyServer starts a server that is closed when the test ends.
func NewSpotifyServer(t *testing.T) *SpotifyServer {
	t.Helper()

	s := &SpotifyServer{
		routes: make(map[string]http.HandlerFunc),
		calls:  make(map[string]int),
	}
	s.Server = httptest.NewServer(http.HandlerFunc(s.serve))
	t.Cleanup(s.Close)
	return s
}

// TokenURL returns the token endpoint of the server.
func (s *SpotifyServer) TokenURL() string {
	return s.URL + TokenPath
}

// Handle registers h for method and path, replacing any previous handler.
func (s *SpotifyServer) Handle(method, path string, h http.HandlerFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.routes[method+" "+path] = h
}

// Calls returns how many requests hit method and path.
func (s *SpotifyServer) Calls(method, path string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[method+" "+path]
}

// TotalCalls returns the number of requests seen on any route.
func (s *SpotifyServer) TotalCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.requests)
}

// Requests returns every request seen so far, oldest first.
func (s *SpotifyServer) Requests() []RecordedRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]RecordedRequest(nil), s.requests...)
}

// LastRequest returns the most recent request for method and path.
func (s *SpotifyServer) LastRequest(method, path string) (RecordedRequest, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := len(s.requests) - 1; i >= 0; i-- {
		if r := s.requests[i]; r.Method == method && r.Path == path {
			return r, true
		}
	}
	return RecordedRequest{}, false
}

func (s *SpotifyServer) serve(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	r.Body = io.NopCloser(bytes.NewReader(body))

	key := r.Method + " " + r.URL.Path

	s.mu.Lock()
	s.calls[key]++
	s.requests = append(s.requests, RecordedRequest{
		Method: r.Method,
		Path:   r.URL.Path,
		Query:  r.URL.Query(),
		Header: r.Header.Clone(),
		Body:   body,
	})
	h, ok := s.routes[key]
	s.mu.Unlock()

	if !ok {
		SpotifyError(http.StatusNotFound, "Service not found", "")(w, r)
		return
	}
	h(w, r)
}

// JSON answers with status and v encoded as JSON.
func JSON(status int, v any) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		json.NewEncoder(w).Encode(v)
	}
}

// Status answers with an empty body.
func Status(status int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
	}
}

// SpotifyError answers in the Web API error shape.
func SpotifyError(status int, message, reason string) http.HandlerFunc {
	payload := map[string]any{"status": status, "message": message}
	if reason != "" {
		payload["reason"] = reason
	}
	return JSON(status, map[string]any{"error": payload})
}

// Token answers a token exchange. An empty refresh token is left out of the response.
func Token(accessToken, refreshToken string, expiresIn int) http.HandlerFunc {
	payload := map[string]any{
		"access_token": accessToken,
		"token_type":   "Bearer",
		"expires_in":   expiresIn,
	}
	if refreshToken != "" {
		payload["refresh_token"] = refreshToken
	}
	return JSON(http.StatusOK, payload)
}

// TokenError answers a token exchange with an OAuth error.
func TokenError(status int, code string) http.HandlerFunc {
	return JSON(status, map[string]string{
		"error":             code,
		"error_description": fmt.Sprintf("%s for test", code),
	})
}

// Sequence serves handlers in order, repeating the last one once exhausted.
func Sequence(handlers ...http.HandlerFunc) http.HandlerFunc {
	var (
		mu sync.Mutex
		i  int
	)
	return func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		h := handlers[min(i, len(handlers)-1)]
		i++
		mu.Unlock()
		h(w, r)
	}
}
