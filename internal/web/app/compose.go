// Package app assembles the web modules into one HTTP handler and runs
// the server.
package app

import (
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/notekeeper/notekeeper/internal/web/module"
	"github.com/notekeeper/notekeeper/internal/web/platform/httpx"
	"github.com/notekeeper/notekeeper/internal/web/routepath"
)

// ComposeInput carries the modules to mount. Protected modules sit behind
// the auth guard; anonymous requests to them are redirected to the login
// page with the original URL preserved.
type ComposeInput struct {
	Logger          *log.Logger
	ResolveSignedIn module.ResolveSignedIn
	Public          []module.Module
	Protected       []module.Module
}

// Compose mounts every module on a single handler and wraps it with the
// shared middleware stack.
func Compose(in ComposeInput) (http.Handler, error) {
	if in.ResolveSignedIn == nil && len(in.Protected) > 0 {
		return nil, fmt.Errorf("compose: protected modules require a signed-in resolver")
	}

	mux := http.NewServeMux()
	seen := make(map[string]string)

	mount := func(m module.Module, guard func(http.Handler) http.Handler) error {
		mnt, err := m.Mount()
		if err != nil {
			return fmt.Errorf("mount %s: %w", m.ID(), err)
		}
		prefix := mnt.Prefix
		if !strings.HasPrefix(prefix, "/") || !strings.HasSuffix(prefix, "/") {
			return fmt.Errorf("mount %s: prefix %q must begin and end with /", m.ID(), prefix)
		}
		if owner, dup := seen[prefix]; dup {
			return fmt.Errorf("mount %s: prefix %q already mounted by %s", m.ID(), prefix, owner)
		}
		seen[prefix] = m.ID()

		h := mnt.Handler
		if guard != nil {
			h = guard(h)
		}
		mux.Handle(prefix, h)
		// Serve the slashless form of the prefix too, so /notes reaches
		// the module mounted at /notes/.
		if prefix != "/" {
			mux.Handle(strings.TrimSuffix(prefix, "/"), h)
		}
		return nil
	}

	for _, m := range in.Public {
		if err := mount(m, nil); err != nil {
			return nil, err
		}
	}
	authGuard := requireAuth(in.ResolveSignedIn)
	for _, m := range in.Protected {
		if err := mount(m, authGuard); err != nil {
			return nil, err
		}
	}

	return httpx.Chain(mux,
		httpx.RequestID(),
		httpx.RecoverPanic(in.Logger),
		sameOriginGuard(),
	), nil
}

// requireAuth redirects anonymous requests to the login page, carrying the
// requested URL so a successful sign-in lands back where the user started.
func requireAuth(signedIn module.ResolveSignedIn) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !signedIn(r) {
				httpx.WriteRedirect(w, r, routepath.LoginWithNext(r.URL.RequestURI()))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// sameOriginGuard rejects cross-origin form submissions.
func sameOriginGuard() httpx.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
				if !httpx.SameOrigin(r) {
					http.Error(w, http.StatusText(http.StatusForbidden), http.StatusForbidden)
					return
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}
