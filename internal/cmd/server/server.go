// Package server wires configuration, storage, and the web application for
// the server binary.
package server

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/notekeeper/notekeeper/internal/auth"
	authsqlite "github.com/notekeeper/notekeeper/internal/auth/storage/sqlite"
	"github.com/notekeeper/notekeeper/internal/note"
	notesqlite "github.com/notekeeper/notekeeper/internal/note/storage/sqlite"
	"github.com/notekeeper/notekeeper/internal/platform/config"
	"github.com/notekeeper/notekeeper/internal/platform/otel"
	"github.com/notekeeper/notekeeper/internal/web/app"
)

// Config holds the server command configuration.
type Config struct {
	HTTPAddr string `env:"NOTEKEEPER_HTTP_ADDR" envDefault:"localhost:8080"`
	DataDir  string `env:"NOTEKEEPER_DATA_DIR" envDefault:"data"`
}

// ParseConfig loads the configuration from the environment, with flags
// taking precedence.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := config.ParseEnv(&cfg); err != nil {
		return Config{}, err
	}

	fs.StringVar(&cfg.HTTPAddr, "http-addr", cfg.HTTPAddr, "HTTP listen address")
	fs.StringVar(&cfg.DataDir, "data-dir", cfg.DataDir, "directory holding the SQLite databases")
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run opens the stores and serves the site until ctx is canceled.
func Run(ctx context.Context, cfg Config) error {
	logger := log.Default()

	shutdownTracing, err := otel.Setup(ctx, "notekeeper")
	if err != nil {
		return fmt.Errorf("init tracing: %w", err)
	}
	defer func() {
		if err := shutdownTracing(context.Background()); err != nil {
			logger.Printf("shutdown tracing: %v", err)
		}
	}()

	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}

	authStore, err := authsqlite.Open(filepath.Join(cfg.DataDir, "auth.db"))
	if err != nil {
		return fmt.Errorf("open auth store: %w", err)
	}
	defer authStore.Close()

	noteStore, err := notesqlite.Open(filepath.Join(cfg.DataDir, "notes.db"))
	if err != nil {
		return fmt.Errorf("open note store: %w", err)
	}
	defer noteStore.Close()

	srv, err := app.NewServer(app.Config{
		HTTPAddr:    cfg.HTTPAddr,
		AuthService: auth.NewService(authStore),
		NoteService: note.NewService(noteStore),
		Logger:      logger,
	})
	if err != nil {
		return fmt.Errorf("init server: %w", err)
	}

	if err := srv.Run(ctx); err != nil {
		return fmt.Errorf("serve: %w", err)
	}
	return nil
}
