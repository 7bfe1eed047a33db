package app

import (
	"log"
	"net/http"

	"github.com/notekeeper/notekeeper/internal/auth"
	"github.com/notekeeper/notekeeper/internal/web/module"
	"github.com/notekeeper/notekeeper/internal/web/platform/sessioncookie"
)

// Principal resolves the requesting user from the session cookie.
type Principal struct {
	Auth   *auth.Service
	Logger *log.Logger
}

// ResolveIdentity returns the signed-in user's identity, or the zero
// Identity when the request is anonymous or the session is stale.
func (p Principal) ResolveIdentity(r *http.Request) module.Identity {
	sessionID, ok := sessioncookie.Read(r)
	if !ok {
		return module.Identity{}
	}
	user, found, err := p.Auth.ResolveSession(r.Context(), sessionID)
	if err != nil {
		if p.Logger != nil {
			p.Logger.Printf("resolve session: %v", err)
		}
		return module.Identity{}
	}
	if !found {
		return module.Identity{}
	}
	return module.Identity{UserID: user.ID, Username: user.Username}
}

// ResolveUserID returns the signed-in user's id, or "".
func (p Principal) ResolveUserID(r *http.Request) string {
	return p.ResolveIdentity(r).UserID
}

// ResolveSignedIn reports whether the request carries a valid session.
func (p Principal) ResolveSignedIn(r *http.Request) bool {
	return p.ResolveIdentity(r).UserID != ""
}
