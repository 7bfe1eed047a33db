package note

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/notekeeper/notekeeper/internal/note/slugify"
	"github.com/notekeeper/notekeeper/internal/platform/id"
)

// Store is the persistence contract required by the note service.
//
// CreateNote and UpdateNote must enforce global slug uniqueness atomically
// (a storage-level unique constraint) and return ErrDuplicateSlug on
// collision; an application pre-check alone would leave a race window
// between two concurrent writers.
type Store interface {
	CreateNote(ctx context.Context, n Note) error
	GetNoteBySlug(ctx context.Context, slug string) (Note, bool, error)
	UpdateNote(ctx context.Context, n Note) error
	DeleteNote(ctx context.Context, noteID string) error
	ListNotesByAuthor(ctx context.Context, authorID string) ([]Note, error)
}

// Service implements the ownership-scoped note operations.
type Service struct {
	store Store
	now   func() time.Time
}

// NewService builds a note service over the given store.
func NewService(store Store) *Service {
	return &Service{store: store, now: func() time.Time { return time.Now().UTC() }}
}

// CreateInput carries the caller-supplied fields for a new note.
type CreateInput struct {
	Title string
	Text  string
	// Slug is optional; when empty it is derived from Title.
	Slug string
}

// Create persists a new note owned by authorID.
//
// When the input slug is empty it is derived from the title via
// transliteration. Returns ErrDuplicateSlug when the explicit or derived
// slug collides with any existing note.
func (s *Service) Create(ctx context.Context, authorID string, in CreateInput) (Note, error) {
	authorID = strings.TrimSpace(authorID)
	if authorID == "" {
		return Note{}, ErrAuthorRequired
	}

	noteID, err := id.NewID()
	if err != nil {
		return Note{}, fmt.Errorf("generate note id: %w", err)
	}

	now := s.now()
	n := Note{
		ID:        noteID,
		Title:     strings.TrimSpace(in.Title),
		Text:      in.Text,
		Slug:      ResolveSlug(in.Slug, in.Title),
		AuthorID:  authorID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := n.Validate(); err != nil {
		return Note{}, err
	}

	if err := s.store.CreateNote(ctx, n); err != nil {
		return Note{}, err
	}
	return n, nil
}

// UpdateInput carries the replacement fields for an existing note.
type UpdateInput struct {
	Title string
	Text  string
	Slug  string
}

// Update replaces the title, text, and slug of the note currently known by
// slug, on behalf of actorID.
//
// A missing note and a note owned by someone else both yield ErrNotFound.
// A new slug colliding with a different note yields ErrDuplicateSlug.
func (s *Service) Update(ctx context.Context, actorID, slug string, in UpdateInput) (Note, error) {
	current, err := s.lookupOwned(ctx, actorID, slug, IntentEdit)
	if err != nil {
		return Note{}, err
	}

	updated := current
	updated.Title = strings.TrimSpace(in.Title)
	updated.Text = in.Text
	updated.Slug = ResolveSlug(in.Slug, in.Title)
	updated.UpdatedAt = s.now()
	if err := updated.Validate(); err != nil {
		return Note{}, err
	}

	if err := s.store.UpdateNote(ctx, updated); err != nil {
		return Note{}, err
	}
	return updated, nil
}

// Delete permanently removes the actor's note known by slug.
func (s *Service) Delete(ctx context.Context, actorID, slug string) error {
	current, err := s.lookupOwned(ctx, actorID, slug, IntentDelete)
	if err != nil {
		return err
	}
	if err := s.store.DeleteNote(ctx, current.ID); err != nil {
		return fmt.Errorf("delete note: %w", err)
	}
	return nil
}

// Get returns the actor's note known by slug. Non-owners receive
// ErrNotFound, never a distinct forbidden error.
func (s *Service) Get(ctx context.Context, actorID, slug string) (Note, error) {
	return s.lookupOwned(ctx, actorID, slug, IntentRead)
}

// List returns the notes owned by actorID.
func (s *Service) List(ctx context.Context, actorID string) ([]Note, error) {
	actorID = strings.TrimSpace(actorID)
	if actorID == "" {
		return nil, ErrAuthorRequired
	}
	notes, err := s.store.ListNotesByAuthor(ctx, actorID)
	if err != nil {
		return nil, fmt.Errorf("list notes: %w", err)
	}
	return notes, nil
}

func (s *Service) lookupOwned(ctx context.Context, actorID, slug string, intent Intent) (Note, error) {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return Note{}, ErrNotFound
	}
	n, found, err := s.store.GetNoteBySlug(ctx, slug)
	if err != nil {
		return Note{}, fmt.Errorf("get note by slug: %w", err)
	}
	if !found || !CanAccess(actorID, n, intent) {
		return Note{}, ErrNotFound
	}
	return n, nil
}

// ResolveSlug returns the slug a note submission will be stored under:
// the trimmed explicit slug when present, otherwise one derived from the
// title, capped at MaxSlugLength.
func ResolveSlug(slug, title string) string {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		slug = slugify.Make(title)
	}
	if len(slug) > MaxSlugLength {
		slug = strings.TrimRight(slug[:MaxSlugLength], "-")
	}
	return slug
}
