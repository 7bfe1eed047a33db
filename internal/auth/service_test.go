package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"
)

type fakeStore struct {
	users    map[string]User // keyed by username
	hashes   map[string]string
	sessions map[string]Session
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		users:    make(map[string]User),
		hashes:   make(map[string]string),
		sessions: make(map[string]Session),
	}
}

func (f *fakeStore) CreateUser(_ context.Context, user User, passwordHash string) error {
	if _, taken := f.users[user.Username]; taken {
		return ErrUsernameTaken
	}
	f.users[user.Username] = user
	f.hashes[user.Username] = passwordHash
	return nil
}

func (f *fakeStore) GetUserByUsername(_ context.Context, username string) (User, string, bool, error) {
	user, ok := f.users[username]
	if !ok {
		return User{}, "", false, nil
	}
	return user, f.hashes[username], true, nil
}

func (f *fakeStore) GetUserByID(_ context.Context, userID string) (User, bool, error) {
	for _, user := range f.users {
		if user.ID == userID {
			return user, true, nil
		}
	}
	return User{}, false, nil
}

func (f *fakeStore) SaveSession(_ context.Context, session Session) error {
	f.sessions[session.ID] = session
	return nil
}

func (f *fakeStore) LoadSession(_ context.Context, sessionID string) (Session, bool, error) {
	session, ok := f.sessions[sessionID]
	return session, ok, nil
}

func (f *fakeStore) DeleteSession(_ context.Context, sessionID string) error {
	delete(f.sessions, sessionID)
	return nil
}

func newTestService() (*Service, *fakeStore) {
	store := newFakeStore()
	svc := NewService(store)
	svc.cost = bcrypt.MinCost // keep the test suite fast
	return svc, store
}

func TestSignUpAndLogIn(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	created, err := svc.SignUp(ctx, "alice", "correct-horse")
	if err != nil {
		t.Fatalf("sign up: %v", err)
	}
	if created.Username != "alice" || created.ID == "" {
		t.Fatalf("user = %+v", created)
	}

	logged, err := svc.LogIn(ctx, "alice", "correct-horse")
	if err != nil {
		t.Fatalf("log in: %v", err)
	}
	if logged.ID != created.ID {
		t.Fatalf("logged in user %q, want %q", logged.ID, created.ID)
	}
}

func TestSignUpValidation(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	tests := []struct {
		name     string
		username string
		password string
		want     error
	}{
		{name: "empty username", username: "", password: "long-enough", want: ErrInvalidUsername},
		{name: "username with spaces", username: "a b", password: "long-enough", want: ErrInvalidUsername},
		{name: "username with slash", username: "a/b", password: "long-enough", want: ErrInvalidUsername},
		{name: "short password", username: "bob", password: "short", want: ErrPasswordTooShort},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.SignUp(ctx, tc.username, tc.password)
			if !errors.Is(err, tc.want) {
				t.Fatalf("SignUp(%q) error = %v, want %v", tc.username, err, tc.want)
			}
		})
	}
}

func TestSignUpAcceptsUnicodeUsernames(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	for _, username := range []string{"Автор", "Читатель", "rené", "user.name+tag"} {
		user, err := svc.SignUp(ctx, username, "long-enough")
		if err != nil {
			t.Fatalf("SignUp(%q) error = %v", username, err)
		}
		if user.Username != username {
			t.Fatalf("Username = %q, want %q", user.Username, username)
		}
	}
}

func TestSignUpDuplicateUsername(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	if _, err := svc.SignUp(ctx, "alice", "long-enough"); err != nil {
		t.Fatalf("first sign up: %v", err)
	}
	_, err := svc.SignUp(ctx, "alice", "other-password")
	if !errors.Is(err, ErrUsernameTaken) {
		t.Fatalf("expected ErrUsernameTaken, got %v", err)
	}
}

func TestLogInFailuresAreIndistinguishable(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	if _, err := svc.SignUp(ctx, "alice", "correct-horse"); err != nil {
		t.Fatalf("sign up: %v", err)
	}

	_, wrongPassword := svc.LogIn(ctx, "alice", "battery-staple")
	_, unknownUser := svc.LogIn(ctx, "mallory", "battery-staple")

	if !errors.Is(wrongPassword, ErrInvalidCredentials) {
		t.Fatalf("wrong password error = %v", wrongPassword)
	}
	if !errors.Is(unknownUser, ErrInvalidCredentials) {
		t.Fatalf("unknown user error = %v", unknownUser)
	}
}

func TestSessionLifecycle(t *testing.T) {
	svc, store := newTestService()
	ctx := context.Background()

	user, err := svc.SignUp(ctx, "alice", "correct-horse")
	if err != nil {
		t.Fatalf("sign up: %v", err)
	}

	session, err := svc.StartSession(ctx, user.ID)
	if err != nil {
		t.Fatalf("start session: %v", err)
	}
	if session.Expired(time.Now().UTC()) {
		t.Fatal("fresh session already expired")
	}

	resolved, ok, err := svc.ResolveSession(ctx, session.ID)
	if err != nil {
		t.Fatalf("resolve session: %v", err)
	}
	if !ok || resolved.ID != user.ID {
		t.Fatalf("resolved = %+v, ok %v", resolved, ok)
	}

	if err := svc.EndSession(ctx, session.ID); err != nil {
		t.Fatalf("end session: %v", err)
	}
	if _, ok, err := svc.ResolveSession(ctx, session.ID); err != nil || ok {
		t.Fatalf("after end = ok %v, err %v", ok, err)
	}
	if len(store.sessions) != 0 {
		t.Fatalf("expected sessions cleared, got %d", len(store.sessions))
	}
}

func TestResolveSessionExpired(t *testing.T) {
	svc, store := newTestService()
	ctx := context.Background()

	user, err := svc.SignUp(ctx, "alice", "correct-horse")
	if err != nil {
		t.Fatalf("sign up: %v", err)
	}
	now := time.Now().UTC()
	store.sessions["stale"] = Session{
		ID:        "stale",
		UserID:    user.ID,
		CreatedAt: now.Add(-sessionTTL - time.Hour),
		ExpiresAt: now.Add(-time.Hour),
	}

	if _, ok, err := svc.ResolveSession(ctx, "stale"); err != nil || ok {
		t.Fatalf("expired session resolved = ok %v, err %v", ok, err)
	}
}

func TestResolveSessionEmptyID(t *testing.T) {
	svc, _ := newTestService()

	if _, ok, err := svc.ResolveSession(context.Background(), ""); err != nil || ok {
		t.Fatalf("empty session id = ok %v, err %v", ok, err)
	}
}
