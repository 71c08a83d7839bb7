package client

import (
	"context"
	"errors"
	"sync"

	"github.com/dom/user-directory/internal/domain"
)

// DirectoryState is one page of the directory as the views see it. Loading is
// true while any request issued by the store is outstanding.
type DirectoryState struct {
	Users       []domain.User
	Loading     bool
	Error       string
	CurrentPage int
	TotalPages  int
	TotalUsers  int64
}

type DirectoryAPI interface {
	ListUsers(ctx context.Context, page, limit int) (*domain.Page, error)
	CreateUser(ctx context.Context, input domain.NewUser) (*domain.User, error)
	DeleteUser(ctx context.Context, id int64) error
}

type DirectoryOption func(*DirectoryStore)

func WithPageSize(size int) DirectoryOption {
	return func(s *DirectoryStore) {
		if size > 0 {
			s.pageSize = size
		}
	}
}

// WithRefetchAfterAdd reloads page 1 after every successful AddUser.
func WithRefetchAfterAdd(enabled bool) DirectoryOption {
	return func(s *DirectoryStore) {
		s.refetchAfterAdd = enabled
	}
}

// WithOnUnauthorized registers a hook run when the server rejects the session.
func WithOnUnauthorized(fn func()) DirectoryOption {
	return func(s *DirectoryStore) {
		s.onUnauthorized = fn
	}
}

type DirectoryStore struct {
	api             DirectoryAPI
	pageSize        int
	refetchAfterAdd bool
	onUnauthorized  func()

	mu         sync.Mutex
	state      DirectoryState
	inflight   map[int]uint64 // page -> generation it was requested in
	pending    int
	generation uint64
	wantPage   int
	loadedPage int
	seq        uint64
	subs       subscribers[DirectoryState]
}

func NewDirectoryStore(api DirectoryAPI, opts ...DirectoryOption) *DirectoryStore {
	s := &DirectoryStore{
		api:      api,
		pageSize: domain.DefaultPageSize,
		inflight:   make(map[int]uint64),
		state:      initialDirectoryState(),
		loadedPage: 1,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func initialDirectoryState() DirectoryState {
	return DirectoryState{
		Users:       []domain.User{},
		CurrentPage: 1,
		TotalPages:  1,
	}
}

func (s *DirectoryStore) PageSize() int {
	return s.pageSize
}

func (s *DirectoryStore) State() DirectoryState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot()
}

func (s *DirectoryStore) Subscribe(fn func(DirectoryState)) func() {
	return s.subs.add(fn)
}

// FetchPage loads page n. While a fetch for n issued since the last Reset is
// outstanding, further calls for n return nil at once. A response is applied
// only if no Reset happened and n is still the most recently requested page.
// A failed fetch puts CurrentPage back on the page whose rows are loaded.
func (s *DirectoryStore) FetchPage(ctx context.Context, n int) error {
	s.mu.Lock()
	s.wantPage = n
	if gen, ok := s.inflight[n]; ok && gen == s.generation {
		s.mu.Unlock()
		return nil
	}
	gen := s.begin()
	s.inflight[n] = gen
	s.publishLocked()

	page, err := s.api.ListUsers(ctx, n, s.pageSize)

	s.mu.Lock()
	if s.inflight[n] == gen {
		delete(s.inflight, n)
	}
	s.end()
	current := gen == s.generation && n == s.wantPage
	if current {
		if err != nil {
			s.state.Error = err.Error()
			s.state.CurrentPage = s.loadedPage
		} else {
			s.loadedPage = page.CurrentPage
			s.state.Users = page.Users
			s.state.CurrentPage = page.CurrentPage
			s.state.TotalPages = page.TotalPages
			s.state.TotalUsers = page.TotalUsers
			s.state.Error = ""
		}
	}
	s.publishLocked()

	if current {
		s.checkUnauthorized(err)
	}
	return err
}

// AddUser creates a user and appends it to the loaded page.
func (s *DirectoryStore) AddUser(ctx context.Context, input domain.NewUser) (*domain.User, error) {
	if err := input.Validate(); err != nil {
		s.setError(err)
		return nil, err
	}

	s.mu.Lock()
	gen := s.begin()
	s.publishLocked()

	user, err := s.api.CreateUser(ctx, input.Normalize())

	s.mu.Lock()
	s.end()
	if gen == s.generation {
		if err != nil {
			s.state.Error = err.Error()
		} else {
			s.state.Users = append(s.state.Users, *user)
			s.state.TotalUsers++
			s.state.TotalPages = domain.TotalPages(s.state.TotalUsers, s.pageSize)
			s.state.Error = ""
		}
	}
	s.publishLocked()

	if err != nil {
		s.checkUnauthorized(err)
		return nil, err
	}

	if s.refetchAfterAdd {
		// A failed refetch is recorded in state; the user was still created.
		_ = s.FetchPage(ctx, 1)
	}
	return user, nil
}

// RemoveUser deletes the user with id and drops it from the loaded page.
func (s *DirectoryStore) RemoveUser(ctx context.Context, id int64) error {
	s.mu.Lock()
	gen := s.begin()
	s.publishLocked()

	err := s.api.DeleteUser(ctx, id)

	s.mu.Lock()
	s.end()
	if gen == s.generation {
		if err != nil {
			s.state.Error = err.Error()
		} else {
			users := make([]domain.User, 0, len(s.state.Users))
			for _, u := range s.state.Users {
				if u.UserID != id {
					users = append(users, u)
				}
			}
			s.state.Users = users
			if s.state.TotalUsers > 0 {
				s.state.TotalUsers--
			}
			s.state.TotalPages = domain.TotalPages(s.state.TotalUsers, s.pageSize)
			s.state.Error = ""
		}
	}
	s.publishLocked()

	s.checkUnauthorized(err)
	return err
}

// SetPage moves to page n when 1 <= n <= TotalPages and n is not already
// current. It reports whether the page changed; callers fetch afterwards.
func (s *DirectoryStore) SetPage(n int) bool {
	s.mu.Lock()
	if n < 1 || n > s.state.TotalPages || n == s.state.CurrentPage {
		s.mu.Unlock()
		return false
	}
	s.state.CurrentPage = n
	s.publishLocked()
	return true
}

// Reset returns to the initial state and discards responses still in flight.
func (s *DirectoryStore) Reset() {
	s.mu.Lock()
	s.generation++
	s.loadedPage = 1
	s.state = initialDirectoryState()
	s.state.Loading = s.pending > 0
	s.publishLocked()
}

// begin must be called with mu held.
func (s *DirectoryStore) begin() uint64 {
	s.pending++
	s.state.Loading = true
	return s.generation
}

// end must be called with mu held.
func (s *DirectoryStore) end() {
	s.pending--
	s.state.Loading = s.pending > 0
}

func (s *DirectoryStore) setError(err error) {
	s.mu.Lock()
	s.state.Error = err.Error()
	s.publishLocked()
}

// publishLocked releases mu and notifies subscribers with a snapshot.
func (s *DirectoryStore) publishLocked() {
	snap := s.snapshot()
	s.seq++
	seq := s.seq
	s.mu.Unlock()
	s.subs.notify(seq, snap)
}

func (s *DirectoryStore) snapshot() DirectoryState {
	snap := s.state
	snap.Users = append([]domain.User(nil), s.state.Users...)
	if snap.Users == nil {
		snap.Users = []domain.User{}
	}
	return snap
}

func (s *DirectoryStore) checkUnauthorized(err error) {
	if err == nil || s.onUnauthorized == nil {
		return
	}
	if errors.Is(err, domain.ErrUnauthenticated) || errors.Is(err, domain.ErrInvalidToken) {
		s.onUnauthorized()
	}
}
