// Package home serves the public landing page and the health endpoint.
package home

import (
	"net/http"

	"github.com/notekeeper/notekeeper/internal/web/module"
	"github.com/notekeeper/notekeeper/internal/web/platform/pagerender"
	"github.com/notekeeper/notekeeper/internal/web/platform/weberror"
	"github.com/notekeeper/notekeeper/internal/web/routepath"
	"github.com/notekeeper/notekeeper/internal/web/templates"
)

// Module mounts the site root.
type Module struct {
	resolveIdentity module.ResolveIdentity
}

// New returns the home module.
func New(resolveIdentity module.ResolveIdentity) *Module {
	return &Module{resolveIdentity: resolveIdentity}
}

func (m *Module) ID() string { return "home" }

func (m *Module) Mount() (module.Mount, error) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", m.handleHome)
	mux.HandleFunc("GET "+routepath.Health, m.handleHealth)
	mux.HandleFunc("/", m.handleNotFound)
	return module.Mount{Prefix: routepath.Root, Handler: mux}, nil
}

func (m *Module) viewer(r *http.Request) templates.Viewer {
	ident := m.resolveIdentity(r)
	return templates.Viewer{SignedIn: ident.UserID != "", Username: ident.Username}
}

func (m *Module) handleHome(w http.ResponseWriter, r *http.Request) {
	_ = pagerender.OK(w, r, templates.Home(templates.HomeView{Viewer: m.viewer(r)}))
}

func (m *Module) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok"))
}

func (m *Module) handleNotFound(w http.ResponseWriter, r *http.Request) {
	weberror.Write(w, r, m.viewer(r), http.StatusNotFound)
}
