package auth

import "errors"

var (
	// ErrUsernameTaken reports a signup collision on the unique username.
	ErrUsernameTaken = errors.New("username already taken")

	// ErrInvalidUsername reports a username failing format rules.
	ErrInvalidUsername = errors.New("username is invalid")

	// ErrPasswordTooShort reports a new password below the minimum length.
	ErrPasswordTooShort = errors.New("password is too short")

	// ErrInvalidCredentials covers both an unknown username and a wrong
	// password; login failures are indistinguishable on purpose.
	ErrInvalidCredentials = errors.New("invalid username or password")
)
