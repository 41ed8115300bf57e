package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/spotconnect/internal/shared"
)

const (
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 5 * time.Second
)

// CallbackServer is a short-lived local HTTP server that waits for a single OAuth redirect.
type CallbackServer struct {
	addr    string
	handler *CallbackHandler
	router  *BasicRouter
	srv     *http.Server
	ln      net.Listener
	errs    chan error
	logger  *log.Logger
}

// NewCallbackServer creates a server for addr (host:port) whose handler serves path and expects state.
func NewCallbackServer(addr, path, state string, logger *log.Logger) *CallbackServer {
	handler := NewCallbackHandler(path, state)

	router := NewBasicRouter()
	if logger != nil {
		router.Use(RequestLogger(logger))
	}
	router.Handler(handler)
	// Browsers ask for an icon after the success page.
	router.Handle(http.MethodGet, "/favicon.ico", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	return &CallbackServer{
		addr:    addr,
		handler: handler,
		router:  router,
		srv:     &http.Server{Handler: router, ReadHeaderTimeout: readHeaderTimeout},
		errs:    make(chan error, 1),
		logger:  logger,
	}
}

// Start binds the listener and serves in the background. Bind errors are returned directly.
func (s *CallbackServer) Start() error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.addr, err)
	}
	s.ln = ln

	go func() {
		if err := s.srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.errs <- err
		}
	}()

	if s.logger != nil {
		s.logger.Debug("callback server listening", "addr", ln.Addr().String(), "routes", s.router.Patterns())
	}
	return nil
}

// Addr returns the bound address, useful when started on port 0.
func (s *CallbackServer) Addr() string {
	if s.ln == nil {
		return s.addr
	}
	return s.ln.Addr().String()
}

// Wait blocks until the redirect arrives, the server fails, or ctx ends, then shuts the server down.
func (s *CallbackServer) Wait(ctx context.Context) (string, error) {
	defer s.shutdown()

	select {
	case result := <-s.handler.Result():
		if err := result.Error(); err != nil {
			return "", err
		}
		return result.Code, nil
	case err := <-s.errs:
		return "", fmt.Errorf("callback server error: %w", err)
	case <-ctx.Done():
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return "", fmt.Errorf("%w: no authorization received", shared.ErrTimeout)
		}
		return "", ctx.Err()
	}
}

func (s *CallbackServer) shutdown() {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := s.srv.Shutdown(ctx); err != nil && s.logger != nil {
		s.logger.Warn("error shutting down callback server", "error", err)
	}
}

// RequestLogger logs each request at debug level without its query, which carries the code.
func RequestLogger(logger *log.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			next.ServeHTTP(w, r)
			logger.Debug("callback request", "method", r.Method, "path", r.URL.Path, "elapsed", time.Since(start))
		})
	}
}
