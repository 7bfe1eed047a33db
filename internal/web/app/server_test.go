package app

import (
	"io"
	"log"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"

	"github.com/notekeeper/notekeeper/internal/auth"
	authsqlite "github.com/notekeeper/notekeeper/internal/auth/storage/sqlite"
	"github.com/notekeeper/notekeeper/internal/note"
	notesqlite "github.com/notekeeper/notekeeper/internal/note/storage/sqlite"
)

func newTestSite(t *testing.T) *httptest.Server {
	t.Helper()

	dir := t.TempDir()

	authStore, err := authsqlite.Open(filepath.Join(dir, "auth.db"))
	if err != nil {
		t.Fatalf("open auth store: %v", err)
	}
	t.Cleanup(func() { _ = authStore.Close() })

	noteStore, err := notesqlite.Open(filepath.Join(dir, "notes.db"))
	if err != nil {
		t.Fatalf("open note store: %v", err)
	}
	t.Cleanup(func() { _ = noteStore.Close() })

	handler, err := NewHandler(Config{
		AuthService: auth.NewService(authStore),
		NoteService: note.NewService(noteStore),
		Logger:      log.New(io.Discard, "", 0),
	})
	if err != nil {
		t.Fatalf("NewHandler() error = %v", err)
	}

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv
}

func newBrowser(t *testing.T) *http.Client {
	t.Helper()
	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatalf("cookiejar: %v", err)
	}
	return &http.Client{Jar: jar}
}

func fetch(t *testing.T, client *http.Client, url string) (*http.Response, string) {
	t.Helper()
	resp, err := client.Get(url)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return resp, string(body)
}

func submit(t *testing.T, client *http.Client, url string, form url.Values) (*http.Response, string) {
	t.Helper()
	resp, err := client.PostForm(url, form)
	if err != nil {
		t.Fatalf("POST %s: %v", url, err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return resp, string(body)
}

func signUp(t *testing.T, client *http.Client, base, username string) {
	t.Helper()
	resp, _ := submit(t, client, base+"/auth/signup", url.Values{
		"username": {username},
		"password": {"correct horse battery"},
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("signup %s: status = %d", username, resp.StatusCode)
	}
	if got := resp.Request.URL.Path; got != "/notes" {
		t.Fatalf("signup %s: landed on %s, want /notes", username, got)
	}
}

func TestAnonymousIsSentToLogin(t *testing.T) {
	t.Parallel()

	srv := newTestSite(t)
	client := newBrowser(t)

	resp, body := fetch(t, client, srv.URL+"/notes/add")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if resp.Request.URL.Path != "/auth/login" {
		t.Fatalf("landed on %s, want /auth/login", resp.Request.URL.Path)
	}
	if got := resp.Request.URL.Query().Get("next"); got != "/notes/add" {
		t.Fatalf("next = %q, want /notes/add", got)
	}
	if !strings.Contains(body, "Log in") {
		t.Errorf("expected login page, got %q", body)
	}

	// An anonymous create attempt is redirected too and persists nothing.
	resp, _ = submit(t, client, srv.URL+"/notes/add", url.Values{
		"title": {"Drive-by"},
	})
	if resp.Request.URL.Path != "/auth/login" {
		t.Fatalf("anonymous create landed on %s, want /auth/login", resp.Request.URL.Path)
	}

	author := newBrowser(t)
	signUp(t, author, srv.URL, "author")
	_, listBody := fetch(t, author, srv.URL+"/notes")
	if strings.Contains(listBody, "Drive-by") {
		t.Errorf("anonymous create persisted a note: %q", listBody)
	}
}

func TestLoginReturnsToRequestedPage(t *testing.T) {
	t.Parallel()

	srv := newTestSite(t)

	client := newBrowser(t)
	signUp(t, client, srv.URL, "author")
	resp, _ := submit(t, client, srv.URL+"/auth/logout", nil)
	if resp.Request.URL.Path != "/" {
		t.Fatalf("logout landed on %s", resp.Request.URL.Path)
	}

	resp, _ = fetch(t, client, srv.URL+"/notes/add")
	if resp.Request.URL.Path != "/auth/login" {
		t.Fatalf("landed on %s, want /auth/login", resp.Request.URL.Path)
	}

	resp, _ = submit(t, client, srv.URL+"/auth/login", url.Values{
		"username": {"author"},
		"password": {"correct horse battery"},
		"next":     {"/notes/add"},
	})
	if resp.Request.URL.Path != "/notes/add" {
		t.Fatalf("login landed on %s, want /notes/add", resp.Request.URL.Path)
	}
}

func TestNoteLifecycle(t *testing.T) {
	t.Parallel()

	srv := newTestSite(t)

	author := newBrowser(t)
	signUp(t, author, srv.URL, "author")

	// Create with a cyrillic title; the slug is derived by transliteration.
	resp, body := submit(t, author, srv.URL+"/notes/add", url.Values{
		"title": {"Заголовок"},
		"text":  {"Текст заметки"},
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("add: status = %d", resp.StatusCode)
	}
	if resp.Request.URL.Path != "/notes/done" {
		t.Fatalf("add landed on %s, want /notes/done", resp.Request.URL.Path)
	}
	if !strings.Contains(body, "Note added.") {
		t.Errorf("expected confirmation on %q", body)
	}

	resp, body = fetch(t, author, srv.URL+"/notes")
	if resp.StatusCode != http.StatusOK || !strings.Contains(body, "/notes/zagolovok") {
		t.Fatalf("list: status = %d, body = %q", resp.StatusCode, body)
	}

	resp, body = fetch(t, author, srv.URL+"/notes/zagolovok")
	if resp.StatusCode != http.StatusOK || !strings.Contains(body, "Заголовок") {
		t.Fatalf("detail: status = %d", resp.StatusCode)
	}

	// A second account must not see, edit, or delete the note.
	reader := newBrowser(t)
	signUp(t, reader, srv.URL, "reader")

	resp, _ = fetch(t, reader, srv.URL+"/notes/zagolovok")
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("foreign detail: status = %d, want 404", resp.StatusCode)
	}
	resp, _ = fetch(t, reader, srv.URL+"/notes/zagolovok/delete")
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("foreign delete page: status = %d, want 404", resp.StatusCode)
	}
	resp, _ = submit(t, reader, srv.URL+"/notes/zagolovok/delete", nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("foreign delete: status = %d, want 404", resp.StatusCode)
	}
	resp, _ = fetch(t, reader, srv.URL+"/notes")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("reader list: status = %d", resp.StatusCode)
	}

	// A clashing slug re-renders the form with the warning.
	resp, body = submit(t, author, srv.URL+"/notes/add", url.Values{
		"title": {"Заголовок"},
		"text":  {"Другой текст"},
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("duplicate add: status = %d", resp.StatusCode)
	}
	if resp.Request.URL.Path != "/notes/add" {
		t.Fatalf("duplicate add landed on %s, want /notes/add", resp.Request.URL.Path)
	}
	if !strings.Contains(body, "zagolovok"+note.SlugWarning) {
		t.Errorf("expected slug warning on %q", body)
	}

	// Edit renames the slug.
	resp, _ = submit(t, author, srv.URL+"/notes/zagolovok/edit", url.Values{
		"title": {"Заголовок"},
		"text":  {"Текст заметки"},
		"slug":  {"renamed"},
	})
	if resp.Request.URL.Path != "/notes/done" {
		t.Fatalf("edit landed on %s, want /notes/done", resp.Request.URL.Path)
	}
	resp, _ = fetch(t, author, srv.URL+"/notes/zagolovok")
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("old slug: status = %d, want 404", resp.StatusCode)
	}
	resp, _ = fetch(t, author, srv.URL+"/notes/renamed")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("new slug: status = %d", resp.StatusCode)
	}

	// The author sees a confirmation page, then the delete removes the
	// note from the list.
	resp, body = fetch(t, author, srv.URL+"/notes/renamed/delete")
	if resp.StatusCode != http.StatusOK || !strings.Contains(body, "Are you sure") {
		t.Fatalf("delete page: status = %d, body = %q", resp.StatusCode, body)
	}
	resp, body = submit(t, author, srv.URL+"/notes/renamed/delete", nil)
	if resp.Request.URL.Path != "/notes/done" {
		t.Fatalf("delete landed on %s, want /notes/done", resp.Request.URL.Path)
	}
	if !strings.Contains(body, "Note deleted.") {
		t.Errorf("expected confirmation on %q", body)
	}
	_, body = fetch(t, author, srv.URL+"/notes")
	if strings.Contains(body, "/notes/renamed") {
		t.Errorf("deleted note still listed in %q", body)
	}
}

func TestHealthEndpoint(t *testing.T) {
	t.Parallel()

	srv := newTestSite(t)
	resp, body := fetch(t, newBrowser(t), srv.URL+"/up")
	if resp.StatusCode != http.StatusOK || body != "ok" {
		t.Fatalf("status = %d, body = %q", resp.StatusCode, body)
	}
}
