// Package http builds the HTTP server the router is served on.
package http

import (
	"net/http"
	"time"
)

// ServerTimeouts bounds how long a single connection may hold the server.
type ServerTimeouts struct {
	ReadHeader time.Duration
	Read       time.Duration
	Write      time.Duration
	Idle       time.Duration
}

// DefaultServerTimeouts leaves room for bcrypt at the configured cost.
var DefaultServerTimeouts = ServerTimeouts{
	ReadHeader: 5 * time.Second,
	Read:       15 * time.Second,
	Write:      30 * time.Second,
	Idle:       90 * time.Second,
}

// NewServer wraps the handler in an *http.Server with explicit timeouts.
// http.Server has none by default, so always build it here.
func NewServer(addr string, handler http.Handler, t ServerTimeouts) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: t.ReadHeader,
		ReadTimeout:       t.Read,
		WriteTimeout:      t.Write,
		IdleTimeout:       t.Idle,
	}
}
