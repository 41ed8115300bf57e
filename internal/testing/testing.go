// package testing contains shared testing utilities
package testing

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"
)

// SpotifyStub is an [httptest.Server] standing in for both the accounts and Web API hosts.
//
// Use URL() as the accounts URL and APIURL() as the API URL. Unregistered routes answer 404.
type SpotifyStub struct {
	Server *httptest.Server

	mu       sync.Mutex
	handlers map[string]http.HandlerFunc
	calls    map[string]int
	requests []*http.Request
	bodies   []string
}

// NewSpotifyStub starts a stub closed automatically at test cleanup.
func NewSpotifyStub(t *testing.T) *SpotifyStub {
	t.Helper()
	s := &SpotifyStub{
		handlers: map[string]http.HandlerFunc{},
		calls:    map[string]int{},
	}
	s.Server = httptest.NewServer(http.HandlerFunc(s.serve))
	t.Cleanup(s.Server.Close)
	return s
}

// Handle registers h for method and path. Paths under the API host start with /v1.
func (s *SpotifyStub) Handle(method, path string, h http.HandlerFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.handlers[method+" "+path] = h
}

// Respond registers a handler answering status and body.
func (s *SpotifyStub) Respond(method, path string, status int, body string) {
	s.Handle(method, path, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		io.WriteString(w, body)
	})
}

// Reply is one canned response served by [SpotifyStub.Sequence].
type Reply struct {
	Status int
	Body   string
}

// Sequence registers a handler answering replies in order, repeating the last one.
func (s *SpotifyStub) Sequence(method, path string, replies ...Reply) {
	var (
		mu sync.Mutex
		i  int
	)
	s.Handle(method, path, func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		reply := replies[min(i, len(replies)-1)]
		i++
		mu.Unlock()
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(reply.Status)
		io.WriteString(w, reply.Body)
	})
}

// Count returns how many requests hit method and path.
func (s *SpotifyStub) Count(method, path string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[method+" "+path]
}

// Last returns the most recent request and its body, or nil.
func (s *SpotifyStub) Last() (*http.Request, string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.requests) == 0 {
		return nil, ""
	}
	return s.requests[len(s.requests)-1], s.bodies[len(s.bodies)-1]
}

// URL is the accounts host.
func (s *SpotifyStub) URL() string {
	return s.Server.URL
}

// APIURL is the Web API base.
func (s *SpotifyStub) APIURL() string {
	return s.Server.URL + "/v1"
}

func (s *SpotifyStub) serve(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	key := r.Method + " " + r.URL.Path

	s.mu.Lock()
	s.calls[key]++
	s.requests = append(s.requests, r)
	s.bodies = append(s.bodies, string(body))
	h, ok := s.handlers[key]
	s.mu.Unlock()

	if !ok {
		http.Error(w, fmt.Sprintf(`{"error":{"status":404,"message":"no stub for %s"}}`, key), http.StatusNotFound)
		return
	}
	h(w, r)
}

// WriteTokenFile writes a two-line token file under dir and returns its path.
func WriteTokenFile(t *testing.T, dir, access, refresh string) string {
	t.Helper()
	path := filepath.Join(dir, "token")
	content := fmt.Sprintf("access_token=%s\nrefresh_token=%s\n", access, refresh)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("Failed to write token file: %v", err)
	}
	return path
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// LimitedWriter fails after a certain number of writes
type LimitedWriter struct {
	maxWrites int
	written   int
	target    io.Writer
}

func (l *LimitedWriter) Write(p []byte) (n int, err error) {
	if l.written >= l.maxWrites {
		return 0, errors.New("write limit exceeded")
	}
	l.written++
	return l.target.Write(p)
}

func NewLimitedWriter(maxWrites, written int, target io.Writer) LimitedWriter {
	return LimitedWriter{maxWrites: maxWrites, written: written, target: target}
}

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	response *http.Response
	err      error
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	return m.response, m.err
}

// FCloser simulates a failure when reading response body
type FCloser struct{}

func (f *FCloser) Read(p []byte) (n int, err error) {
	return 0, errors.New("read failed")
}

func (f *FCloser) Close() error {
	return nil
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func AssertDirExists(t *testing.T, path string) {
	t.Helper()
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		t.Errorf("Directory does not exist: %s", path)
		return
	}
	if !info.IsDir() {
		t.Errorf("Path is not a directory: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}
