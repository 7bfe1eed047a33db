// Package templates renders the site's HTML pages. Pages are exposed as
// templ components so handlers compose and serve them uniformly.
package templates

import (
	"context"
	"embed"
	"html/template"
	"io"

	"github.com/a-h/templ"
)

//go:embed html/*.html
var htmlFS embed.FS

var pages = template.Must(template.ParseFS(htmlFS, "html/*.html"))

type page struct {
	name string
	data any
}

func (p page) Render(_ context.Context, w io.Writer) error {
	return pages.ExecuteTemplate(w, p.name, p.data)
}

// Viewer describes the signed-in user shown in the page header.
type Viewer struct {
	SignedIn bool
	Username string
}

// Notice is a one-shot message surfaced at the top of a page.
type Notice struct {
	Kind    string
	Message string
}

// HomeView is the landing page.
type HomeView struct {
	Viewer Viewer
}

// Home renders the landing page.
func Home(v HomeView) templ.Component {
	return page{name: "home.html", data: v}
}

// LoginView is the sign-in form.
type LoginView struct {
	Viewer       Viewer
	Next         string
	Username     string
	ErrorMessage string
}

// Login renders the sign-in form.
func Login(v LoginView) templ.Component {
	return page{name: "login.html", data: v}
}

// SignupView is the registration form.
type SignupView struct {
	Viewer       Viewer
	Username     string
	ErrorMessage string
}

// Signup renders the registration form.
func Signup(v SignupView) templ.Component {
	return page{name: "signup.html", data: v}
}

// NoteRow is one entry on the note list page.
type NoteRow struct {
	Title     string
	Slug      string
	DetailURL string
	EditURL   string
	DeleteURL string
}

// NoteListView is the signed-in user's note list.
type NoteListView struct {
	Viewer Viewer
	Notes  []NoteRow
	AddURL string
}

// NoteList renders the note list page.
func NoteList(v NoteListView) templ.Component {
	return page{name: "note_list.html", data: v}
}

// NoteFormView backs both the add and edit forms.
type NoteFormView struct {
	Viewer     Viewer
	PageTitle  string
	Action     string
	Title      string
	Text       string
	Slug       string
	TitleError string
	SlugError  string
}

// NoteForm renders the add or edit form.
func NoteForm(v NoteFormView) templ.Component {
	return page{name: "note_form.html", data: v}
}

// NoteDetailView is a single note.
type NoteDetailView struct {
	Viewer    Viewer
	Title     string
	Text      string
	Slug      string
	EditURL   string
	DeleteURL string
}

// NoteDetail renders a single note.
func NoteDetail(v NoteDetailView) templ.Component {
	return page{name: "note_detail.html", data: v}
}

// NoteDeleteView is the delete confirmation page.
type NoteDeleteView struct {
	Viewer    Viewer
	Title     string
	Slug      string
	DeleteURL string
	CancelURL string
}

// NoteDelete renders the delete confirmation page.
func NoteDelete(v NoteDeleteView) templ.Component {
	return page{name: "note_delete.html", data: v}
}

// SuccessView confirms a completed note operation.
type SuccessView struct {
	Viewer  Viewer
	Notice  Notice
	ListURL string
}

// Success renders the post-operation confirmation page.
func Success(v SuccessView) templ.Component {
	return page{name: "success.html", data: v}
}

// ErrorView is the generic error page.
type ErrorView struct {
	Viewer     Viewer
	StatusCode int
	StatusText string
}

// Error renders the generic error page.
func Error(v ErrorView) templ.Component {
	return page{name: "error.html", data: v}
}
