package sqlitemigrate

import (
	"database/sql"
	"path/filepath"
	"testing"
	"testing/fstest"

	_ "modernc.org/sqlite"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	path := filepath.Join(t.TempDir(), "migrate.db")
	sqlDB, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() {
		_ = sqlDB.Close()
	})
	return sqlDB
}

func TestApplyMigrationsRunsEachFileOnce(t *testing.T) {
	sqlDB := openTestDB(t)
	migrationFS := fstest.MapFS{
		"0001_notes.sql": &fstest.MapFile{Data: []byte(`
-- +migrate Up
CREATE TABLE notes (id TEXT PRIMARY KEY);
-- +migrate Down
DROP TABLE notes;
`)},
		"0002_index.sql": &fstest.MapFile{Data: []byte(`
-- +migrate Up
CREATE UNIQUE INDEX idx_notes_id ON notes (id);
`)},
	}

	if err := ApplyMigrations(sqlDB, migrationFS, "."); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}
	// A second run must be a no-op rather than a DDL failure.
	if err := ApplyMigrations(sqlDB, migrationFS, "."); err != nil {
		t.Fatalf("reapply migrations: %v", err)
	}

	var count int
	if err := sqlDB.QueryRow("SELECT COUNT(*) FROM schema_migrations").Scan(&count); err != nil {
		t.Fatalf("count migrations: %v", err)
	}
	if count != 2 {
		t.Fatalf("expected 2 recorded migrations, got %d", count)
	}

	if _, err := sqlDB.Exec("INSERT INTO notes (id) VALUES ('a')"); err != nil {
		t.Fatalf("insert into migrated table: %v", err)
	}
}

func TestApplyMigrationsRequiresDB(t *testing.T) {
	if err := ApplyMigrations(nil, fstest.MapFS{}, "."); err == nil {
		t.Fatal("expected error")
	}
}

func TestExtractUpMigration(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{name: "no markers", content: "CREATE TABLE t (id TEXT);", want: "CREATE TABLE t (id TEXT);"},
		{name: "up and down", content: "-- +migrate Up\nCREATE TABLE t (id TEXT);\n-- +migrate Down\nDROP TABLE t;", want: "\nCREATE TABLE t (id TEXT);\n"},
		{name: "up only", content: "-- +migrate Up\nCREATE TABLE t (id TEXT);", want: "\nCREATE TABLE t (id TEXT);"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := ExtractUpMigration(tc.content)
			if got != tc.want {
				t.Fatalf("ExtractUpMigration = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestIsAlreadyExistsError(t *testing.T) {
	sqlDB := openTestDB(t)
	if _, err := sqlDB.Exec("CREATE TABLE t (id TEXT)"); err != nil {
		t.Fatalf("create table: %v", err)
	}
	_, err := sqlDB.Exec("CREATE TABLE t (id TEXT)")
	if err == nil {
		t.Fatal("expected duplicate table error")
	}
	if !IsAlreadyExistsError(err) {
		t.Fatalf("expected already-exists classification for %v", err)
	}
}
