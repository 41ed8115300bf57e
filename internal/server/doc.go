// Package server provides the local HTTP listener used to receive the OAuth authorization code.
//
// # Router Infrastructure
//
// The [Router] interface defines HTTP routing with middleware support.
// [Middleware] added first runs outermost.
// The [BasicRouter] implementation registers method-aware [http.ServeMux] patterns.
//
// # Callback Handler
//
// [CallbackHandler] validates the state parameter (CSRF protection) and passes the authorization code
// through a channel. It only processes one callback.
//
// # Callback Server
//
// `spotconnect setup --listen` starts a [CallbackServer] on the redirect URI's host and port, opens the
// authorize URL, and waits for the redirect. The code is then exchanged by the tasks engine, so the
// token file is written the same way as in the paste-the-code flow.
package server
