// Package sqlite provides SQLite-backed persistence for accounts and sessions.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/notekeeper/notekeeper/internal/auth"
	"github.com/notekeeper/notekeeper/internal/auth/storage/sqlite/migrations"
	sqlitemigrate "github.com/notekeeper/notekeeper/internal/platform/storage/sqlitemigrate"
	msqlite "modernc.org/sqlite"
	sqlite3lib "modernc.org/sqlite/lib"
)

// Store provides SQLite-backed persistence for users and web sessions.
type Store struct {
	sqlDB *sql.DB
}

// Open opens and migrates an auth SQLite store.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}

	cleanPath := filepath.Clean(path)
	dsn := cleanPath + "?_journal_mode=WAL&_foreign_keys=ON&_busy_timeout=5000&_synchronous=NORMAL"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}

	store := &Store{sqlDB: sqlDB}
	if err := sqlitemigrate.ApplyMigrations(sqlDB, migrations.FS, "."); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return store, nil
}

// Close releases the underlying SQLite connection.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// CreateUser inserts a new account row.
func (s *Store) CreateUser(ctx context.Context, user auth.User, passwordHash string) error {
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	if strings.TrimSpace(user.ID) == "" {
		return fmt.Errorf("user id is required")
	}
	if strings.TrimSpace(user.Username) == "" {
		return fmt.Errorf("username is required")
	}
	if passwordHash == "" {
		return fmt.Errorf("password hash is required")
	}

	_, err := s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO users (id, username, password_hash, created_at) VALUES (?, ?, ?, ?)`,
		user.ID,
		user.Username,
		passwordHash,
		timeToUnixMillis(user.CreatedAt),
	)
	if err != nil {
		if isUsernameUniqueViolation(err) {
			return auth.ErrUsernameTaken
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

// GetUserByUsername loads an account row and its password hash by username.
func (s *Store) GetUserByUsername(ctx context.Context, username string) (auth.User, string, bool, error) {
	if s == nil || s.sqlDB == nil {
		return auth.User{}, "", false, fmt.Errorf("storage is not configured")
	}

	row := s.sqlDB.QueryRowContext(
		ctx,
		`SELECT id, username, password_hash, created_at FROM users WHERE username = ?`,
		strings.TrimSpace(username),
	)
	var user auth.User
	var hash string
	var createdAt int64
	if err := row.Scan(&user.ID, &user.Username, &hash, &createdAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return auth.User{}, "", false, nil
		}
		return auth.User{}, "", false, fmt.Errorf("get user by username: %w", err)
	}
	user.CreatedAt = unixMillisToTime(createdAt)
	return user, hash, true, nil
}

// GetUserByID loads an account row by id.
func (s *Store) GetUserByID(ctx context.Context, userID string) (auth.User, bool, error) {
	if s == nil || s.sqlDB == nil {
		return auth.User{}, false, fmt.Errorf("storage is not configured")
	}

	row := s.sqlDB.QueryRowContext(
		ctx,
		`SELECT id, username, created_at FROM users WHERE id = ?`,
		strings.TrimSpace(userID),
	)
	var user auth.User
	var createdAt int64
	if err := row.Scan(&user.ID, &user.Username, &createdAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return auth.User{}, false, nil
		}
		return auth.User{}, false, fmt.Errorf("get user by id: %w", err)
	}
	user.CreatedAt = unixMillisToTime(createdAt)
	return user, true, nil
}

// SaveSession upserts a session row and prunes expired sessions.
func (s *Store) SaveSession(ctx context.Context, session auth.Session) error {
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	if strings.TrimSpace(session.ID) == "" {
		return fmt.Errorf("session id is required")
	}
	if strings.TrimSpace(session.UserID) == "" {
		return fmt.Errorf("session user id is required")
	}

	if _, err := s.sqlDB.ExecContext(
		ctx,
		`DELETE FROM web_sessions WHERE expires_at <= ?`,
		time.Now().UTC().UnixMilli(),
	); err != nil {
		return fmt.Errorf("prune expired sessions: %w", err)
	}

	_, err := s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO web_sessions (id, user_id, created_at, expires_at)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		    user_id = excluded.user_id,
		    created_at = excluded.created_at,
		    expires_at = excluded.expires_at`,
		session.ID,
		session.UserID,
		timeToUnixMillis(session.CreatedAt),
		timeToUnixMillis(session.ExpiresAt),
	)
	if err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

// LoadSession loads a session row by id.
func (s *Store) LoadSession(ctx context.Context, sessionID string) (auth.Session, bool, error) {
	if s == nil || s.sqlDB == nil {
		return auth.Session{}, false, fmt.Errorf("storage is not configured")
	}

	row := s.sqlDB.QueryRowContext(
		ctx,
		`SELECT id, user_id, created_at, expires_at FROM web_sessions WHERE id = ?`,
		strings.TrimSpace(sessionID),
	)
	var session auth.Session
	var createdAt int64
	var expiresAt int64
	if err := row.Scan(&session.ID, &session.UserID, &createdAt, &expiresAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return auth.Session{}, false, nil
		}
		return auth.Session{}, false, fmt.Errorf("load session: %w", err)
	}
	session.CreatedAt = unixMillisToTime(createdAt)
	session.ExpiresAt = unixMillisToTime(expiresAt)
	return session, true, nil
}

// DeleteSession removes a session row. Missing rows are not an error.
func (s *Store) DeleteSession(ctx context.Context, sessionID string) error {
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	if _, err := s.sqlDB.ExecContext(
		ctx,
		`DELETE FROM web_sessions WHERE id = ?`,
		strings.TrimSpace(sessionID),
	); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

func isUsernameUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	var sqliteErr *msqlite.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code() {
		case sqlite3lib.SQLITE_CONSTRAINT_UNIQUE, sqlite3lib.SQLITE_CONSTRAINT_PRIMARYKEY:
			return strings.Contains(strings.ToLower(sqliteErr.Error()), "users.username")
		}
	}
	message := strings.ToLower(err.Error())
	return strings.Contains(message, "unique constraint failed") &&
		strings.Contains(message, "users.username")
}

func timeToUnixMillis(value time.Time) int64 {
	if value.IsZero() {
		return 0
	}
	return value.UTC().UnixMilli()
}

func unixMillisToTime(value int64) time.Time {
	if value == 0 {
		return time.Time{}
	}
	return time.UnixMilli(value).UTC()
}

var _ auth.Store = (*Store)(nil)
