// Package notes serves the signed-in note management routes.
package notes

import (
	"context"
	"errors"
	"log"
	"net/http"

	"github.com/notekeeper/notekeeper/internal/note"
	"github.com/notekeeper/notekeeper/internal/web/module"
	"github.com/notekeeper/notekeeper/internal/web/platform/flash"
	"github.com/notekeeper/notekeeper/internal/web/platform/httpx"
	"github.com/notekeeper/notekeeper/internal/web/platform/pagerender"
	"github.com/notekeeper/notekeeper/internal/web/platform/weberror"
	"github.com/notekeeper/notekeeper/internal/web/routepath"
	"github.com/notekeeper/notekeeper/internal/web/templates"
)

const titleRequiredMessage = "This field is required."

// Service is the slice of the note service the module needs.
type Service interface {
	Create(ctx context.Context, authorID string, in note.CreateInput) (note.Note, error)
	Update(ctx context.Context, actorID, slug string, in note.UpdateInput) (note.Note, error)
	Delete(ctx context.Context, actorID, slug string) error
	Get(ctx context.Context, actorID, slug string) (note.Note, error)
	List(ctx context.Context, actorID string) ([]note.Note, error)
}

// Module mounts the /notes/ routes. The auth guard in front of the mount
// guarantees every request carries a resolvable user.
type Module struct {
	svc             Service
	resolveIdentity module.ResolveIdentity
	logger          *log.Logger
}

// New returns the notes module.
func New(svc Service, resolveIdentity module.ResolveIdentity, logger *log.Logger) *Module {
	return &Module{svc: svc, resolveIdentity: resolveIdentity, logger: logger}
}

func (m *Module) ID() string { return "notes" }

func (m *Module) Mount() (module.Mount, error) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET "+routepath.NotesList, m.handleList)
	mux.HandleFunc("GET "+routepath.NotesList+"/{$}", m.handleList)
	mux.HandleFunc("GET "+routepath.NotesAdd, m.handleAddPage)
	mux.HandleFunc("POST "+routepath.NotesAdd, m.handleAdd)
	mux.HandleFunc("GET "+routepath.NotesSuccess, m.handleSuccess)
	mux.HandleFunc("GET /notes/{slug}", m.handleDetail)
	mux.HandleFunc("GET /notes/{slug}/edit", m.handleEditPage)
	mux.HandleFunc("POST /notes/{slug}/edit", m.handleEdit)
	mux.HandleFunc("GET /notes/{slug}/delete", m.handleDeletePage)
	mux.HandleFunc("POST /notes/{slug}/delete", m.handleDelete)
	return module.Mount{Prefix: routepath.NotesPrefix, Handler: mux}, nil
}

func (m *Module) viewer(r *http.Request) templates.Viewer {
	ident := m.resolveIdentity(r)
	return templates.Viewer{SignedIn: ident.UserID != "", Username: ident.Username}
}

func (m *Module) handleList(w http.ResponseWriter, r *http.Request) {
	ident := m.resolveIdentity(r)
	items, err := m.svc.List(r.Context(), ident.UserID)
	if err != nil {
		m.logger.Printf("list notes: %v", err)
		weberror.WriteError(w, r, m.viewer(r), err)
		return
	}

	rows := make([]templates.NoteRow, 0, len(items))
	for _, n := range items {
		rows = append(rows, templates.NoteRow{
			Title:     n.Title,
			Slug:      n.Slug,
			DetailURL: routepath.NoteDetail(n.Slug),
			EditURL:   routepath.NoteEdit(n.Slug),
			DeleteURL: routepath.NoteDelete(n.Slug),
		})
	}
	_ = pagerender.OK(w, r, templates.NoteList(templates.NoteListView{
		Viewer: m.viewer(r),
		Notes:  rows,
		AddURL: routepath.NotesAdd,
	}))
}

func (m *Module) handleAddPage(w http.ResponseWriter, r *http.Request) {
	m.renderForm(w, r, http.StatusOK, templates.NoteFormView{
		Viewer:    m.viewer(r),
		PageTitle: "Add note",
		Action:    routepath.NotesAdd,
	})
}

func (m *Module) handleAdd(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		weberror.Write(w, r, m.viewer(r), http.StatusBadRequest)
		return
	}
	ident := m.resolveIdentity(r)
	in := note.CreateInput{
		Title: r.PostFormValue("title"),
		Text:  r.PostFormValue("text"),
		Slug:  r.PostFormValue("slug"),
	}

	_, err := m.svc.Create(r.Context(), ident.UserID, in)
	if err != nil {
		view := templates.NoteFormView{
			Viewer:    m.viewer(r),
			PageTitle: "Add note",
			Action:    routepath.NotesAdd,
			Title:     in.Title,
			Text:      in.Text,
			Slug:      in.Slug,
		}
		if m.renderFormError(w, r, view, in, err) {
			return
		}
		m.logger.Printf("create note: %v", err)
		weberror.WriteError(w, r, m.viewer(r), err)
		return
	}

	flash.Write(w, r, flash.Notice{Kind: flash.KindSuccess, Message: "Note added."})
	httpx.WriteRedirect(w, r, routepath.NotesSuccess)
}

func (m *Module) handleDetail(w http.ResponseWriter, r *http.Request) {
	ident := m.resolveIdentity(r)
	n, err := m.svc.Get(r.Context(), ident.UserID, r.PathValue("slug"))
	if err != nil {
		m.writeLookupError(w, r, err)
		return
	}

	_ = pagerender.OK(w, r, templates.NoteDetail(templates.NoteDetailView{
		Viewer:    m.viewer(r),
		Title:     n.Title,
		Text:      n.Text,
		Slug:      n.Slug,
		EditURL:   routepath.NoteEdit(n.Slug),
		DeleteURL: routepath.NoteDelete(n.Slug),
	}))
}

func (m *Module) handleEditPage(w http.ResponseWriter, r *http.Request) {
	ident := m.resolveIdentity(r)
	n, err := m.svc.Get(r.Context(), ident.UserID, r.PathValue("slug"))
	if err != nil {
		m.writeLookupError(w, r, err)
		return
	}

	m.renderForm(w, r, http.StatusOK, templates.NoteFormView{
		Viewer:    m.viewer(r),
		PageTitle: "Edit note",
		Action:    routepath.NoteEdit(n.Slug),
		Title:     n.Title,
		Text:      n.Text,
		Slug:      n.Slug,
	})
}

func (m *Module) handleEdit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		weberror.Write(w, r, m.viewer(r), http.StatusBadRequest)
		return
	}
	ident := m.resolveIdentity(r)
	slug := r.PathValue("slug")
	in := note.UpdateInput{
		Title: r.PostFormValue("title"),
		Text:  r.PostFormValue("text"),
		Slug:  r.PostFormValue("slug"),
	}

	_, err := m.svc.Update(r.Context(), ident.UserID, slug, in)
	if err != nil {
		view := templates.NoteFormView{
			Viewer:    m.viewer(r),
			PageTitle: "Edit note",
			Action:    routepath.NoteEdit(slug),
			Title:     in.Title,
			Text:      in.Text,
			Slug:      in.Slug,
		}
		createIn := note.CreateInput{Title: in.Title, Text: in.Text, Slug: in.Slug}
		if m.renderFormError(w, r, view, createIn, err) {
			return
		}
		m.writeLookupError(w, r, err)
		return
	}

	flash.Write(w, r, flash.Notice{Kind: flash.KindSuccess, Message: "Note updated."})
	httpx.WriteRedirect(w, r, routepath.NotesSuccess)
}

func (m *Module) handleDeletePage(w http.ResponseWriter, r *http.Request) {
	ident := m.resolveIdentity(r)
	n, err := m.svc.Get(r.Context(), ident.UserID, r.PathValue("slug"))
	if err != nil {
		m.writeLookupError(w, r, err)
		return
	}

	_ = pagerender.OK(w, r, templates.NoteDelete(templates.NoteDeleteView{
		Viewer:    m.viewer(r),
		Title:     n.Title,
		Slug:      n.Slug,
		DeleteURL: routepath.NoteDelete(n.Slug),
		CancelURL: routepath.NoteDetail(n.Slug),
	}))
}

func (m *Module) handleDelete(w http.ResponseWriter, r *http.Request) {
	ident := m.resolveIdentity(r)
	if err := m.svc.Delete(r.Context(), ident.UserID, r.PathValue("slug")); err != nil {
		m.writeLookupError(w, r, err)
		return
	}

	flash.Write(w, r, flash.Notice{Kind: flash.KindSuccess, Message: "Note deleted."})
	httpx.WriteRedirect(w, r, routepath.NotesSuccess)
}

func (m *Module) handleSuccess(w http.ResponseWriter, r *http.Request) {
	view := templates.SuccessView{
		Viewer:  m.viewer(r),
		ListURL: routepath.NotesList,
	}
	if n, ok := flash.ReadAndClear(w, r); ok {
		view.Notice = templates.Notice{Kind: string(n.Kind), Message: n.Message}
	}
	_ = pagerender.OK(w, r, templates.Success(view))
}

func (m *Module) renderForm(w http.ResponseWriter, r *http.Request, status int, view templates.NoteFormView) {
	_ = pagerender.Write(w, r, status, templates.NoteForm(view))
}

// renderFormError re-renders the form for validation failures and reports
// whether it handled the error. A duplicate slug keeps the submitted values
// and marks the slug field the same way no matter whether the clashing slug
// was typed or derived from the title.
func (m *Module) renderFormError(w http.ResponseWriter, r *http.Request, view templates.NoteFormView, in note.CreateInput, err error) bool {
	switch {
	case errors.Is(err, note.ErrDuplicateSlug):
		view.SlugError = note.ResolveSlug(in.Slug, in.Title) + note.SlugWarning
		m.renderForm(w, r, http.StatusOK, view)
		return true
	case errors.Is(err, note.ErrTitleRequired):
		view.TitleError = titleRequiredMessage
		m.renderForm(w, r, http.StatusOK, view)
		return true
	}
	return false
}

func (m *Module) writeLookupError(w http.ResponseWriter, r *http.Request, err error) {
	if !errors.Is(err, note.ErrNotFound) {
		m.logger.Printf("note lookup: %v", err)
	}
	weberror.WriteError(w, r, m.viewer(r), err)
}
