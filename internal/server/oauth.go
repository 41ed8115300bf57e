package server

import (
	"fmt"
	"net/http"
	"sync"

	"github.com/desertthunder/spotconnect/internal/shared"
)

// DefaultCallbackPath is the path of the default redirect URI.
const DefaultCallbackPath = "/callback"

// CallbackResult carries the authorization code received by a [CallbackHandler].
type CallbackResult struct {
	Code string
	err  error
}

func (c *CallbackResult) Error() error {
	return c.err
}

// CallbackHandler receives the OAuth2 authorization code redirect.
//
// It checks the state parameter and hands the code to the caller; the token exchange happens elsewhere.
// Implements the [Handler] interface for registration with a [Router].
type CallbackHandler struct {
	path        string
	state       string
	resultChan  chan CallbackResult
	once        sync.Once
	callbackHit bool
	mu          sync.Mutex
}

// NewCallbackHandler creates a handler serving path that accepts only the given state token.
func NewCallbackHandler(path, state string) *CallbackHandler {
	if path == "" {
		path = DefaultCallbackPath
	}
	return &CallbackHandler{
		path:       path,
		state:      state,
		resultChan: make(chan CallbackResult, 1),
	}
}

// Routes returns the HTTP routes this handler serves.
func (h *CallbackHandler) Routes() []string {
	return []string{http.MethodGet + " " + h.path}
}

// ServeHTTP handles the redirect. Only the first request is processed.
func (h *CallbackHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	if h.callbackHit {
		h.mu.Unlock()
		http.Error(w, "Callback already processed", http.StatusBadRequest)
		return
	}
	h.callbackHit = true
	h.mu.Unlock()

	query := r.URL.Query()
	if query.Get("state") != h.state {
		h.Send(CallbackResult{err: fmt.Errorf("%w: invalid state parameter", shared.ErrAuthFailed)})
		http.Error(w, "Invalid state parameter", http.StatusBadRequest)
		return
	}

	code := query.Get("code")
	if code == "" {
		err := fmt.Errorf("%w: %s - %s", shared.ErrAuthFailed, query.Get("error"), query.Get("error_description"))
		h.Send(CallbackResult{err: err})
		http.Error(w, "Authorization failed", http.StatusBadRequest)
		return
	}

	h.Send(CallbackResult{Code: code})

	w.Header().Set("Content-Type", "text/html")
	w.WriteHeader(http.StatusOK)
	fmt.Fprint(w, successPage)
}

// Send sends the result through the channel (only once).
func (h *CallbackHandler) Send(result CallbackResult) {
	h.once.Do(func() {
		h.resultChan <- result
		close(h.resultChan)
	})
}

// Result returns the channel that receives exactly one result and is then closed.
func (h *CallbackHandler) Result() <-chan CallbackResult {
	return h.resultChan
}

const successPage = `<!DOCTYPE html>
<html>
<head>
    <title>spotconnect</title>
    <style>
        body { font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, sans-serif;
               display: flex; align-items: center; justify-content: center; height: 100vh;
               margin: 0; background: #f5f5f5; }
        .container { text-align: center; background: white; padding: 2rem;
                     border-radius: 8px; box-shadow: 0 2px 4px rgba(0,0,0,0.1); }
        h1 { color: #1DB954; margin: 0 0 1rem 0; }
        p { color: #666; margin: 0; }
    </style>
</head>
<body>
    <div class="container">
        <h1>✓ Authorization received</h1>
        <p>You can close this window and return to the terminal.</p>
    </div>
</body>
</html>
`
