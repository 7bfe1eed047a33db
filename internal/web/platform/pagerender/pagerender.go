// Package pagerender writes templ components as HTML responses.
package pagerender

import (
	"bytes"
	"net/http"

	"github.com/a-h/templ"
)

// Write renders the component and sends it with the given status code. The
// page is buffered first so a render failure becomes a clean 500 instead
// of a truncated body.
func Write(w http.ResponseWriter, r *http.Request, status int, c templ.Component) error {
	var buf bytes.Buffer
	if err := c.Render(r.Context(), &buf); err != nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return err
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, err := buf.WriteTo(w)
	return err
}

// OK renders the component with a 200 status.
func OK(w http.ResponseWriter, r *http.Request, c templ.Component) error {
	return Write(w, r, http.StatusOK, c)
}
