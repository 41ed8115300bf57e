package server

import (
	"net/http"
	"slices"
)

// BasicRouter implements [Router] on top of the method-aware patterns of [http.ServeMux].
//
// A request whose path matches but whose method does not gets 405 from the mux itself.
type BasicRouter struct {
	mux         *http.ServeMux
	middlewares []Middleware
	patterns    []string
}

// NewBasicRouter creates an empty [BasicRouter].
func NewBasicRouter() *BasicRouter {
	return &BasicRouter{mux: http.NewServeMux()}
}

// Use appends middleware. Middleware added first runs first.
func (r *BasicRouter) Use(middleware ...Middleware) {
	r.middlewares = append(r.middlewares, middleware...)
}

// Handle registers handler for method and path, wrapped in the current middleware.
func (r *BasicRouter) Handle(method, path string, handler http.Handler) {
	r.register(method+" "+path, handler)
}

// Handler registers every pattern returned by [Handler.Routes].
func (r *BasicRouter) Handler(handler Handler) {
	for _, route := range handler.Routes() {
		r.register(route, handler)
	}
}

// Patterns lists the registered mux patterns in registration order.
func (r *BasicRouter) Patterns() []string {
	return slices.Clone(r.patterns)
}

func (r *BasicRouter) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.mux.ServeHTTP(w, req)
}

// Apply wraps handler so the first middleware added is the outermost.
func (r *BasicRouter) Apply(handler http.Handler) http.Handler {
	wrapped := handler
	for _, mw := range slices.Backward(r.middlewares) {
		wrapped = mw(wrapped)
	}
	return wrapped
}

func (r *BasicRouter) register(pattern string, handler http.Handler) {
	r.patterns = append(r.patterns, pattern)
	r.mux.Handle(pattern, r.Apply(handler))
}
