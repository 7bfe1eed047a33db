package routepath

import "testing"

func TestNotePaths(t *testing.T) {
	t.Parallel()

	if got := NoteDetail("zagolovok"); got != "/notes/zagolovok" {
		t.Fatalf("NoteDetail() = %q", got)
	}
	if got := NoteEdit("zagolovok"); got != "/notes/zagolovok/edit" {
		t.Fatalf("NoteEdit() = %q", got)
	}
	if got := NoteDelete("zagolovok"); got != "/notes/zagolovok/delete" {
		t.Fatalf("NoteDelete() = %q", got)
	}
}

func TestLoginWithNext(t *testing.T) {
	t.Parallel()

	if got := LoginWithNext(""); got != Login {
		t.Fatalf("LoginWithNext(\"\") = %q", got)
	}
	if got := LoginWithNext("/notes/add"); got != "/auth/login?next=%2Fnotes%2Fadd" {
		t.Fatalf("LoginWithNext() = %q", got)
	}
}

func TestSafeNext(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		raw  string
		want string
	}{
		{name: "relative path", raw: "/notes/add", want: "/notes/add"},
		{name: "empty", raw: "", want: ""},
		{name: "absolute url", raw: "https://evil.example/", want: ""},
		{name: "protocol relative", raw: "//evil.example/", want: ""},
		{name: "backslash host", raw: "/\\evil.example", want: ""},
		{name: "path with query", raw: "/notes?page=2", want: "/notes?page=2"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := SafeNext(tc.raw); got != tc.want {
				t.Fatalf("SafeNext(%q) = %q, want %q", tc.raw, got, tc.want)
			}
		})
	}
}
