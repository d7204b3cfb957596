// Package httpserver configures the storefront's HTTP listener.
package httpserver

import (
	"net/http"
	"time"
)

// Timeouts sized for a storefront API: requests are small JSON bodies, and
// the router already applies a per-request timeout, so the server-level
// limits only guard against slow or stalled clients.
const (
	readHeaderTimeout = 5 * time.Second
	readTimeout       = 15 * time.Second
	idleTimeout       = 60 * time.Second
)

// New builds the HTTP server for the compliance API.
func New(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: readHeaderTimeout,
		ReadTimeout:       readTimeout,
		IdleTimeout:       idleTimeout,
	}
}
