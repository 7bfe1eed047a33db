// Package weberror renders error responses as HTML pages.
package weberror

import (
	"errors"
	"net/http"

	"github.com/notekeeper/notekeeper/internal/note"
	"github.com/notekeeper/notekeeper/internal/web/platform/pagerender"
	"github.com/notekeeper/notekeeper/internal/web/templates"
)

// Write renders the error page for the given status code.
func Write(w http.ResponseWriter, r *http.Request, viewer templates.Viewer, status int) {
	_ = pagerender.Write(w, r, status, templates.Error(templates.ErrorView{
		Viewer:     viewer,
		StatusCode: status,
		StatusText: http.StatusText(status),
	}))
}

// Status maps a domain error to the HTTP status code it should produce.
// Unknown errors map to 500.
func Status(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, note.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// WriteError renders the error page for a domain error.
func WriteError(w http.ResponseWriter, r *http.Request, viewer templates.Viewer, err error) {
	Write(w, r, viewer, Status(err))
}
