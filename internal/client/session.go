package client

import (
	"context"
	"strings"
	"sync"

	"github.com/dom/user-directory/internal/domain"
)

// SessionState mirrors whether the server accepts our session cookie.
// UserData is non-nil only while IsLoggedIn.
type SessionState struct {
	IsLoggedIn bool
	UserData   *domain.Subject
}

type SessionAPI interface {
	Login(ctx context.Context, email, password string) error
	Logout(ctx context.Context) error
	VerifyToken(ctx context.Context) (*domain.Subject, error)
}

type SessionStore struct {
	api SessionAPI

	mu    sync.Mutex
	state SessionState
	seq   uint64
	subs  subscribers[SessionState]
}

func NewSessionStore(api SessionAPI) *SessionStore {
	return &SessionStore{api: api}
}

func (s *SessionStore) State() SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot()
}

// Subscribe registers fn for every state change and returns its unsubscribe.
func (s *SessionStore) Subscribe(fn func(SessionState)) func() {
	return s.subs.add(fn)
}

// Init asks the server whether the current cookie is a live session. A
// failure means "logged out"; the error is returned for logging only.
func (s *SessionStore) Init(ctx context.Context) error {
	sub, err := s.api.VerifyToken(ctx)
	if err != nil {
		s.set(SessionState{})
		return err
	}
	s.set(SessionState{IsLoggedIn: true, UserData: sub})
	return nil
}

// Login authenticates and then confirms the session with a verify call.
func (s *SessionStore) Login(ctx context.Context, email, password string) error {
	if strings.TrimSpace(email) == "" || password == "" {
		return domain.ErrMissingCredentials
	}

	if err := s.api.Login(ctx, email, password); err != nil {
		s.set(SessionState{})
		return err
	}
	return s.Init(ctx)
}

// Logout clears local state whether or not the server call succeeds.
func (s *SessionStore) Logout(ctx context.Context) error {
	err := s.api.Logout(ctx)
	s.set(SessionState{})
	return err
}

// Invalidate drops the session after the server rejected it.
func (s *SessionStore) Invalidate() {
	s.mu.Lock()
	if !s.state.IsLoggedIn {
		s.mu.Unlock()
		return
	}
	s.mu.Unlock()
	s.set(SessionState{})
}

func (s *SessionStore) set(state SessionState) {
	s.mu.Lock()
	s.state = state
	snap := s.snapshot()
	s.seq++
	seq := s.seq
	s.mu.Unlock()
	s.subs.notify(seq, snap)
}

func (s *SessionStore) snapshot() SessionState {
	snap := s.state
	if snap.UserData != nil {
		user := *snap.UserData
		snap.UserData = &user
	}
	return snap
}
