// package server provides the temporary localhost HTTP server used during
// third-party sign-in: routing, middleware, and the OAuth callback handler.
package server

import (
	"net/http"
	"time"

	"github.com/charmbracelet/log"
)

// Middleware wraps an http.Handler and returns a new http.Handler with additional behavior.
type Middleware func(http.Handler) http.Handler

// Handler is an [http.Handler] that knows the path patterns it serves.
type Handler interface {
	http.Handler
	Routes() []string
}

// Router defines HTTP routing and middleware management for the callback server.
type Router interface {
	Use(middleware ...Middleware)
	Handle(method, path string, handler http.Handler)
	Handler(handler Handler)
	ServeHTTP(w http.ResponseWriter, r *http.Request)
}

// Logging returns a [Middleware] that logs each request with its duration.
func Logging(logger *log.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			next.ServeHTTP(w, r)
			logger.Debug("request handled", "method", r.Method, "path", r.URL.Path, "duration", time.Since(start))
		})
	}
}
