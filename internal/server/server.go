package server

import "net/http"

// Middleware decorates an [http.Handler].
type Middleware func(http.Handler) http.Handler

// Handler is an [http.Handler] that declares its own mux patterns, e.g. "GET /callback".
type Handler interface {
	http.Handler
	Routes() []string
}

// Router registers handlers behind a middleware stack.
type Router interface {
	Use(middleware ...Middleware)
	Handle(method, path string, handler http.Handler)
	Handler(handler Handler)
	ServeHTTP(w http.ResponseWriter, r *http.Request)
}
