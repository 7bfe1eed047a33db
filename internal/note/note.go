// Package note holds the note domain model, its ownership policy, and the
// application service coordinating note storage.
package note

import (
	"strings"
	"time"
)

// MaxSlugLength caps generated and submitted slugs.
const MaxSlugLength = 100

// SlugWarning is the fixed suffix appended to a conflicting slug when a
// create or edit form is rejected for slug reuse.
const SlugWarning = " - this slug is already in use, please choose a unique value."

// Note is a single per-user note record.
type Note struct {
	// ID is the stable storage identifier.
	ID string
	// Title is the required display title.
	Title string
	// Text is the free-form body. May be empty.
	Text string
	// Slug is the URL-safe identifier, globally unique across all notes.
	Slug string
	// AuthorID identifies the owning user. Immutable after creation.
	AuthorID string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Validate checks the structural invariants of a note record.
func (n Note) Validate() error {
	if strings.TrimSpace(n.ID) == "" {
		return ErrEmptyID
	}
	if strings.TrimSpace(n.Title) == "" {
		return ErrTitleRequired
	}
	if strings.TrimSpace(n.Slug) == "" {
		return ErrSlugRequired
	}
	if len(n.Slug) > MaxSlugLength {
		return ErrSlugTooLong
	}
	if strings.TrimSpace(n.AuthorID) == "" {
		return ErrAuthorRequired
	}
	return nil
}
