package note

import "errors"

// Domain sentinels compared with errors.Is by callers.
var (
	// ErrNotFound covers both a missing note and a note owned by another
	// user. The two cases are deliberately indistinguishable so that the
	// existence of other users' notes is never disclosed.
	ErrNotFound = errors.New("note not found")

	// ErrDuplicateSlug reports a slug collision with an existing note,
	// regardless of that note's owner. Surfaced as a field-level form
	// error rather than a request failure.
	ErrDuplicateSlug = errors.New("slug already in use")

	ErrEmptyID        = errors.New("note id is required")
	ErrTitleRequired  = errors.New("note title is required")
	ErrSlugRequired   = errors.New("note slug is required")
	ErrSlugTooLong    = errors.New("note slug exceeds the maximum length")
	ErrAuthorRequired = errors.New("note author is required")
)
