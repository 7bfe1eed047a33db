package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/notekeeper/notekeeper/internal/auth"
	"github.com/notekeeper/notekeeper/internal/note"
	"github.com/notekeeper/notekeeper/internal/web/module"
	"github.com/notekeeper/notekeeper/internal/web/modules/accounts"
	"github.com/notekeeper/notekeeper/internal/web/modules/home"
	"github.com/notekeeper/notekeeper/internal/web/modules/notes"
)

const shutdownTimeout = 10 * time.Second

// Config carries the server's dependencies.
type Config struct {
	HTTPAddr    string
	AuthService *auth.Service
	NoteService *note.Service
	Logger      *log.Logger
}

// NewHandler wires the feature modules to the services and composes them
// into the site handler.
func NewHandler(cfg Config) (http.Handler, error) {
	if cfg.AuthService == nil || cfg.NoteService == nil {
		return nil, fmt.Errorf("new handler: auth and note services are required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = log.Default()
	}

	principal := Principal{Auth: cfg.AuthService, Logger: logger}
	return Compose(ComposeInput{
		Logger:          logger,
		ResolveSignedIn: principal.ResolveSignedIn,
		Public: []module.Module{
			home.New(principal.ResolveIdentity),
			accounts.New(cfg.AuthService, principal.ResolveSignedIn, logger),
		},
		Protected: []module.Module{
			notes.New(cfg.NoteService, principal.ResolveIdentity, logger),
		},
	})
}

// Server is the HTTP server hosting the site.
type Server struct {
	httpServer *http.Server
	logger     *log.Logger
}

// NewServer builds the site handler and wraps it in an HTTP server.
func NewServer(cfg Config) (*Server, error) {
	handler, err := NewHandler(cfg)
	if err != nil {
		return nil, err
	}
	logger := cfg.Logger
	if logger == nil {
		logger = log.Default()
	}
	return &Server{
		httpServer: &http.Server{
			Addr:              cfg.HTTPAddr,
			Handler:           handler,
			ReadHeaderTimeout: 5 * time.Second,
		},
		logger: logger,
	}, nil
}

// Run serves until ctx is canceled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Printf("listening on %s", s.httpServer.Addr)
		errCh <- s.httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
