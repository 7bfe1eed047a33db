package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/notekeeper/notekeeper/internal/platform/id"
	"golang.org/x/crypto/bcrypt"
)

// sessionTTL bounds how long a login session stays valid.
const sessionTTL = 14 * 24 * time.Hour

var timingDummyHash, _ = bcrypt.GenerateFromPassword([]byte("timing-dummy"), bcrypt.DefaultCost)

// Store is the persistence contract required by the auth service. CreateUser
// must enforce username uniqueness at the storage layer and return
// ErrUsernameTaken on collision.
type Store interface {
	CreateUser(ctx context.Context, user User, passwordHash string) error
	GetUserByUsername(ctx context.Context, username string) (User, string, bool, error)
	GetUserByID(ctx context.Context, userID string) (User, bool, error)
	SaveSession(ctx context.Context, session Session) error
	LoadSession(ctx context.Context, sessionID string) (Session, bool, error)
	DeleteSession(ctx context.Context, sessionID string) error
}

// Service implements account signup, login, and session resolution.
type Service struct {
	store Store
	now   func() time.Time
	cost  int
}

// NewService builds an auth service over the given store.
func NewService(store Store) *Service {
	return &Service{
		store: store,
		now:   func() time.Time { return time.Now().UTC() },
		cost:  bcrypt.DefaultCost,
	}
}

// SignUp creates a new account with a bcrypt-hashed password.
func (s *Service) SignUp(ctx context.Context, username, password string) (User, error) {
	username = normalizeUsername(username)
	if !validUsername(username) {
		return User{}, ErrInvalidUsername
	}
	if len(password) < minPasswordLength {
		return User{}, ErrPasswordTooShort
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return User{}, fmt.Errorf("hash password: %w", err)
	}

	userID, err := id.NewID()
	if err != nil {
		return User{}, fmt.Errorf("generate user id: %w", err)
	}
	user := User{ID: userID, Username: username, CreatedAt: s.now()}
	if err := s.store.CreateUser(ctx, user, string(hash)); err != nil {
		return User{}, err
	}
	return user, nil
}

// LogIn verifies credentials. Unknown usernames and wrong passwords both
// yield ErrInvalidCredentials.
func (s *Service) LogIn(ctx context.Context, username, password string) (User, error) {
	username = normalizeUsername(username)
	if username == "" || password == "" {
		return User{}, ErrInvalidCredentials
	}

	user, hash, found, err := s.store.GetUserByUsername(ctx, username)
	if err != nil {
		return User{}, fmt.Errorf("get user: %w", err)
	}
	if !found {
		// Burn a comparison so a missing account costs the same as a
		// wrong password.
		_ = bcrypt.CompareHashAndPassword(timingDummyHash, []byte(password))
		return User{}, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return User{}, ErrInvalidCredentials
	}
	return user, nil
}

// StartSession creates and persists a login session for the user.
func (s *Service) StartSession(ctx context.Context, userID string) (Session, error) {
	sessionID, err := id.NewID()
	if err != nil {
		return Session{}, fmt.Errorf("generate session id: %w", err)
	}
	now := s.now()
	session := Session{
		ID:        sessionID,
		UserID:    userID,
		CreatedAt: now,
		ExpiresAt: now.Add(sessionTTL),
	}
	if err := s.store.SaveSession(ctx, session); err != nil {
		return Session{}, fmt.Errorf("save session: %w", err)
	}
	return session, nil
}

// ResolveSession returns the user behind an unexpired session ID.
func (s *Service) ResolveSession(ctx context.Context, sessionID string) (User, bool, error) {
	if sessionID == "" {
		return User{}, false, nil
	}
	session, found, err := s.store.LoadSession(ctx, sessionID)
	if err != nil {
		return User{}, false, fmt.Errorf("load session: %w", err)
	}
	if !found || session.Expired(s.now()) {
		return User{}, false, nil
	}
	user, found, err := s.store.GetUserByID(ctx, session.UserID)
	if err != nil {
		return User{}, false, fmt.Errorf("get session user: %w", err)
	}
	if !found {
		return User{}, false, nil
	}
	return user, true, nil
}

// EndSession revokes a login session. Revoking an unknown session is a no-op.
func (s *Service) EndSession(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}
	if err := s.store.DeleteSession(ctx, sessionID); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}
