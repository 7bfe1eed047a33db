// Package auth manages user accounts and web sessions.
package auth

import (
	"strings"
	"time"
	"unicode"
)

// MaxUsernameLength caps account usernames.
const MaxUsernameLength = 150

// minPasswordLength is the floor for new account passwords.
const minPasswordLength = 8

// User is an account identity. Usernames are unique and immutable.
type User struct {
	ID        string
	Username  string
	CreatedAt time.Time
}

// Session is a server-side login session referenced by an opaque ID stored
// in the browser cookie.
type Session struct {
	ID        string
	UserID    string
	CreatedAt time.Time
	ExpiresAt time.Time
}

// Expired reports whether the session is past its expiry at the given time.
func (s Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.After(now)
}

func validUsername(username string) bool {
	if username == "" || len(username) > MaxUsernameLength {
		return false
	}
	for _, r := range username {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
		case r == '.' || r == '-' || r == '_' || r == '@' || r == '+':
		default:
			return false
		}
	}
	return true
}

func normalizeUsername(username string) string {
	return strings.TrimSpace(username)
}
