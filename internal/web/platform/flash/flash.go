// Package flash carries a one-shot notice across a redirect using a short
// lived cookie.
package flash

import (
	"encoding/base64"
	"net/http"
	"strings"
)

const cookieName = "nk_flash"

// Kind classifies a notice for presentation.
type Kind string

const (
	KindSuccess Kind = "success"
	KindError   Kind = "error"
)

// Notice is a message shown once on the next rendered page.
type Notice struct {
	Kind    Kind
	Message string
}

// Write stores the notice in the flash cookie.
func Write(w http.ResponseWriter, r *http.Request, n Notice) {
	value := base64.RawURLEncoding.EncodeToString([]byte(string(n.Kind) + "|" + n.Message))
	http.SetCookie(w, &http.Cookie{
		Name:     cookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   300,
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteLaxMode,
	})
}

// ReadAndClear returns the pending notice, if any, and expires the cookie
// so it is shown only once.
func ReadAndClear(w http.ResponseWriter, r *http.Request) (Notice, bool) {
	c, err := r.Cookie(cookieName)
	if err != nil || c.Value == "" {
		return Notice{}, false
	}
	expire(w, r)

	raw, err := base64.RawURLEncoding.DecodeString(c.Value)
	if err != nil {
		return Notice{}, false
	}
	kind, message, ok := strings.Cut(string(raw), "|")
	if !ok || message == "" {
		return Notice{}, false
	}
	return Notice{Kind: Kind(kind), Message: message}, true
}

func expire(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     cookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteLaxMode,
	})
}
