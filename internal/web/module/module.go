// Package module defines the contract feature modules implement to be
// mounted on the web server.
package module

import "net/http"

// Mount describes where a module's handler is attached on the root mux.
type Mount struct {
	// Prefix is the path prefix the handler is mounted under. It must
	// begin and end with "/".
	Prefix  string
	Handler http.Handler
}

// Module is a self-contained web feature that exposes its routes through
// a single mount point.
type Module interface {
	// ID returns a stable identifier used in logs.
	ID() string
	// Mount returns the module's mount point.
	Mount() (Mount, error)
}

// ResolveUserID reports the authenticated user's id for a request, or ""
// when the request is anonymous.
type ResolveUserID func(r *http.Request) string

// ResolveSignedIn reports whether the request carries a valid session.
type ResolveSignedIn func(r *http.Request) bool

// Identity describes the signed-in user for page rendering.
type Identity struct {
	UserID   string
	Username string
}

// ResolveIdentity returns the request's identity. The zero Identity means
// the request is anonymous.
type ResolveIdentity func(r *http.Request) Identity
