// Package routepath centralizes the URL paths served by the web server so
// handlers and templates never spell them out by hand.
package routepath

import (
	"net/url"
	"strings"
)

const (
	Root   = "/"
	Health = "/up"

	AuthPrefix = "/auth/"
	Login      = "/auth/login"
	Logout     = "/auth/logout"
	Signup     = "/auth/signup"

	NotesPrefix  = "/notes/"
	NotesList    = "/notes"
	NotesAdd     = "/notes/add"
	NotesSuccess = "/notes/done"
)

// NoteDetail returns the detail path for a note slug.
func NoteDetail(slug string) string {
	return NotesPrefix + url.PathEscape(slug)
}

// NoteEdit returns the edit path for a note slug.
func NoteEdit(slug string) string {
	return NoteDetail(slug) + "/edit"
}

// NoteDelete returns the delete path for a note slug.
func NoteDelete(slug string) string {
	return NoteDetail(slug) + "/delete"
}

// LoginWithNext returns the login path carrying the URL to return to after
// a successful sign-in.
func LoginWithNext(next string) string {
	if next == "" {
		return Login
	}
	return Login + "?next=" + url.QueryEscape(next)
}

// SafeNext validates a client-supplied return URL. Only relative paths
// within this site are accepted; anything else returns "".
func SafeNext(raw string) string {
	if raw == "" || !strings.HasPrefix(raw, "/") {
		return ""
	}
	if strings.HasPrefix(raw, "//") || strings.HasPrefix(raw, "/\\") {
		return ""
	}
	return raw
}
