// Package sqlite provides SQLite-backed persistence for notes.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/notekeeper/notekeeper/internal/note"
	"github.com/notekeeper/notekeeper/internal/note/storage/sqlite/migrations"
	sqlitemigrate "github.com/notekeeper/notekeeper/internal/platform/storage/sqlitemigrate"
	msqlite "modernc.org/sqlite"
	sqlite3lib "modernc.org/sqlite/lib"
)

// Store provides SQLite-backed persistence for note records.
//
// The slug uniqueness invariant lives in the schema (a unique index on
// notes.slug), so concurrent writers racing past any application pre-check
// still cannot both commit the same slug.
type Store struct {
	sqlDB *sql.DB
}

// Open opens and migrates a note SQLite store.
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

// CreateNote inserts a new note row.
func (s *Store) CreateNote(ctx context.Context, n note.Note) error {
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	if err := n.Validate(); err != nil {
		return err
	}

	_, err := s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO notes (id, title, body, slug, author_id, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		n.ID,
		n.Title,
		n.Text,
		n.Slug,
		n.AuthorID,
		timeToUnixMillis(n.CreatedAt),
		timeToUnixMillis(n.UpdatedAt),
	)
	if err != nil {
		if isSlugUniqueViolation(err) {
			return note.ErrDuplicateSlug
		}
		return fmt.Errorf("insert note: %w", err)
	}
	return nil
}

// GetNoteBySlug loads a note row by its current slug.
func (s *Store) GetNoteBySlug(ctx context.Context, slug string) (note.Note, bool, error) {
	if s == nil || s.sqlDB == nil {
		return note.Note{}, false, fmt.Errorf("storage is not configured")
	}
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return note.Note{}, false, nil
	}

	row := s.sqlDB.QueryRowContext(
		ctx,
		`SELECT id, title, body, slug, author_id, created_at, updated_at
		 FROM notes
		 WHERE slug = ?`,
		slug,
	)
	n, err := scanNote(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return note.Note{}, false, nil
		}
		return note.Note{}, false, fmt.Errorf("get note by slug: %w", err)
	}
	return n, true, nil
}

// UpdateNote replaces the mutable fields of an existing note row. The author
// column is never touched.
func (s *Store) UpdateNote(ctx context.Context, n note.Note) error {
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	if err := n.Validate(); err != nil {
		return err
	}

	result, err := s.sqlDB.ExecContext(
		ctx,
		`UPDATE notes
		 SET title = ?, body = ?, slug = ?, updated_at = ?
		 WHERE id = ?`,
		n.Title,
		n.Text,
		n.Slug,
		timeToUnixMillis(n.UpdatedAt),
		n.ID,
	)
	if err != nil {
		if isSlugUniqueViolation(err) {
			return note.ErrDuplicateSlug
		}
		return fmt.Errorf("update note: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update note rows affected: %w", err)
	}
	if affected == 0 {
		return note.ErrNotFound
	}
	return nil
}

// DeleteNote permanently removes a note row by id.
func (s *Store) DeleteNote(ctx context.Context, noteID string) error {
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	noteID = strings.TrimSpace(noteID)
	if noteID == "" {
		return note.ErrNotFound
	}

	result, err := s.sqlDB.ExecContext(ctx, `DELETE FROM notes WHERE id = ?`, noteID)
	if err != nil {
		return fmt.Errorf("delete note: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete note rows affected: %w", err)
	}
	if affected == 0 {
		return note.ErrNotFound
	}
	return nil
}

// ListNotesByAuthor returns the notes owned by authorID, oldest first.
func (s *Store) ListNotesByAuthor(ctx context.Context, authorID string) ([]note.Note, error) {
	if s == nil || s.sqlDB == nil {
		return nil, fmt.Errorf("storage is not configured")
	}
	authorID = strings.TrimSpace(authorID)
	if authorID == "" {
		return nil, nil
	}

	rows, err := s.sqlDB.QueryContext(
		ctx,
		`SELECT id, title, body, slug, author_id, created_at, updated_at
		 FROM notes
		 WHERE author_id = ?
		 ORDER BY created_at, id`,
		authorID,
	)
	if err != nil {
		return nil, fmt.Errorf("list notes by author: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var notes []note.Note
	for rows.Next() {
		n, err := scanNote(rows)
		if err != nil {
			return nil, fmt.Errorf("scan note row: %w", err)
		}
		notes = append(notes, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list notes by author: %w", err)
	}
	return notes, nil
}

// CountNotes returns the total number of stored notes.
func (s *Store) CountNotes(ctx context.Context) (int, error) {
	if s == nil || s.sqlDB == nil {
		return 0, fmt.Errorf("storage is not configured")
	}
	var count int
	if err := s.sqlDB.QueryRowContext(ctx, `SELECT COUNT(*) FROM notes`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count notes: %w", err)
	}
	return count, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanNote(row rowScanner) (note.Note, error) {
	var n note.Note
	var createdAt int64
	var updatedAt int64
	if err := row.Scan(&n.ID, &n.Title, &n.Text, &n.Slug, &n.AuthorID, &createdAt, &updatedAt); err != nil {
		return note.Note{}, err
	}
	n.CreatedAt = unixMillisToTime(createdAt)
	n.UpdatedAt = unixMillisToTime(updatedAt)
	return n, nil
}

func isSlugUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	var sqliteErr *msqlite.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code() {
		case sqlite3lib.SQLITE_CONSTRAINT_UNIQUE, sqlite3lib.SQLITE_CONSTRAINT_PRIMARYKEY:
			return strings.Contains(strings.ToLower(sqliteErr.Error()), "notes.slug")
		}
	}
	message := strings.ToLower(err.Error())
	return strings.Contains(message, "unique constraint failed") &&
		strings.Contains(message, "notes.slug")
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

var _ note.Store = (*Store)(nil)
