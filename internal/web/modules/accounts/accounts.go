// Package accounts serves the sign-up, log-in, and log-out routes.
package accounts

import (
	"context"
	"errors"
	"log"
	"net/http"

	"github.com/notekeeper/notekeeper/internal/auth"
	"github.com/notekeeper/notekeeper/internal/web/module"
	"github.com/notekeeper/notekeeper/internal/web/platform/httpx"
	"github.com/notekeeper/notekeeper/internal/web/platform/pagerender"
	"github.com/notekeeper/notekeeper/internal/web/platform/sessioncookie"
	"github.com/notekeeper/notekeeper/internal/web/platform/weberror"
	"github.com/notekeeper/notekeeper/internal/web/routepath"
	"github.com/notekeeper/notekeeper/internal/web/templates"
)

const (
	badCredentialsMessage = "Your username and password didn't match. Please try again."
	usernameTakenMessage  = "A user with that username already exists."
	badUsernameMessage    = "Enter a valid username: letters, digits and @ . + - _ only."
	shortPasswordMessage  = "This password is too short. It must contain at least 8 characters."
)

// Service is the slice of the auth service the module needs.
type Service interface {
	SignUp(ctx context.Context, username, password string) (auth.User, error)
	LogIn(ctx context.Context, username, password string) (auth.User, error)
	StartSession(ctx context.Context, userID string) (auth.Session, error)
	EndSession(ctx context.Context, sessionID string) error
}

// Module mounts the /auth/ routes.
type Module struct {
	svc             Service
	resolveSignedIn module.ResolveSignedIn
	logger          *log.Logger
}

// New returns the accounts module.
func New(svc Service, resolveSignedIn module.ResolveSignedIn, logger *log.Logger) *Module {
	return &Module{svc: svc, resolveSignedIn: resolveSignedIn, logger: logger}
}

func (m *Module) ID() string { return "accounts" }

func (m *Module) Mount() (module.Mount, error) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET "+routepath.Login, m.handleLoginPage)
	mux.HandleFunc("POST "+routepath.Login, m.handleLogin)
	mux.HandleFunc("GET "+routepath.Signup, m.handleSignupPage)
	mux.HandleFunc("POST "+routepath.Signup, m.handleSignup)
	mux.HandleFunc("POST "+routepath.Logout, m.handleLogout)
	mux.HandleFunc("GET "+routepath.Logout, func(w http.ResponseWriter, r *http.Request) {
		httpx.MethodNotAllowed(w, http.MethodPost)
	})
	return module.Mount{Prefix: routepath.AuthPrefix, Handler: mux}, nil
}

func (m *Module) handleLoginPage(w http.ResponseWriter, r *http.Request) {
	next := routepath.SafeNext(r.URL.Query().Get("next"))
	if m.resolveSignedIn(r) {
		m.redirectAfterLogin(w, r, next)
		return
	}
	_ = pagerender.OK(w, r, templates.Login(templates.LoginView{Next: next}))
}

func (m *Module) handleLogin(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		weberror.Write(w, r, templates.Viewer{}, http.StatusBadRequest)
		return
	}
	username := r.PostFormValue("username")
	next := routepath.SafeNext(r.PostFormValue("next"))

	user, err := m.svc.LogIn(r.Context(), username, r.PostFormValue("password"))
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			_ = pagerender.OK(w, r, templates.Login(templates.LoginView{
				Next:         next,
				Username:     username,
				ErrorMessage: badCredentialsMessage,
			}))
			return
		}
		m.logger.Printf("login %q: %v", username, err)
		weberror.WriteError(w, r, templates.Viewer{}, err)
		return
	}

	if err := m.startSession(w, r, user.ID); err != nil {
		m.logger.Printf("start session for %q: %v", username, err)
		weberror.WriteError(w, r, templates.Viewer{}, err)
		return
	}
	m.redirectAfterLogin(w, r, next)
}

func (m *Module) handleSignupPage(w http.ResponseWriter, r *http.Request) {
	if m.resolveSignedIn(r) {
		httpx.WriteRedirect(w, r, routepath.NotesList)
		return
	}
	_ = pagerender.OK(w, r, templates.Signup(templates.SignupView{}))
}

func (m *Module) handleSignup(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		weberror.Write(w, r, templates.Viewer{}, http.StatusBadRequest)
		return
	}
	username := r.PostFormValue("username")

	user, err := m.svc.SignUp(r.Context(), username, r.PostFormValue("password"))
	if err != nil {
		if msg := signupErrorMessage(err); msg != "" {
			_ = pagerender.OK(w, r, templates.Signup(templates.SignupView{
				Username:     username,
				ErrorMessage: msg,
			}))
			return
		}
		m.logger.Printf("signup %q: %v", username, err)
		weberror.WriteError(w, r, templates.Viewer{}, err)
		return
	}

	if err := m.startSession(w, r, user.ID); err != nil {
		m.logger.Printf("start session for %q: %v", username, err)
		weberror.WriteError(w, r, templates.Viewer{}, err)
		return
	}
	httpx.WriteRedirect(w, r, routepath.NotesList)
}

func (m *Module) handleLogout(w http.ResponseWriter, r *http.Request) {
	if sessionID, ok := sessioncookie.Read(r); ok {
		if err := m.svc.EndSession(r.Context(), sessionID); err != nil {
			m.logger.Printf("end session: %v", err)
		}
	}
	sessioncookie.Clear(w, r)
	httpx.WriteRedirect(w, r, routepath.Root)
}

func (m *Module) startSession(w http.ResponseWriter, r *http.Request, userID string) error {
	session, err := m.svc.StartSession(r.Context(), userID)
	if err != nil {
		return err
	}
	sessioncookie.Write(w, r, session.ID, session.ExpiresAt)
	return nil
}

func (m *Module) redirectAfterLogin(w http.ResponseWriter, r *http.Request, next string) {
	if next == "" {
		next = routepath.NotesList
	}
	httpx.WriteRedirect(w, r, next)
}

func signupErrorMessage(err error) string {
	switch {
	case errors.Is(err, auth.ErrUsernameTaken):
		return usernameTakenMessage
	case errors.Is(err, auth.ErrInvalidUsername):
		return badUsernameMessage
	case errors.Is(err, auth.ErrPasswordTooShort):
		return shortPasswordMessage
	default:
		return ""
	}
}
