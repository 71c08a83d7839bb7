package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/dom/user-directory/internal/domain"
	"github.com/dom/user-directory/internal/repository"
)

var _ repository.UserRepository = (*UserRepository)(nil)

// UserRepository keeps users in process memory. Emails compare
// case-insensitively, the same way the MySQL column collation does.
type UserRepository struct {
	mu      sync.RWMutex
	nextID  int64
	users   map[int64]domain.User
	byEmail map[string]int64
}

func NewUserRepository() *UserRepository {
	return &UserRepository{
		users:   make(map[int64]domain.User),
		byEmail: make(map[string]int64),
	}
}

func NewRepositories() *repository.Repositories {
	return &repository.Repositories{
		User: NewUserRepository(),
	}
}

func (r *UserRepository) Create(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := strings.ToLower(user.Email)
	if _, ok := r.byEmail[key]; ok {
		return domain.ErrDuplicateEmail
	}

	r.nextID++
	user.UserID = r.nextID
	r.users[user.UserID] = *user
	r.byEmail[key] = user.UserID
	return nil
}

func (r *UserRepository) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byEmail[strings.ToLower(email)]
	if !ok {
		return nil, domain.ErrNotFound
	}
	user := r.users[id]
	return &user, nil
}

func (r *UserRepository) List(_ context.Context, limit, offset int) ([]domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]int64, 0, len(r.users))
	for id := range r.users {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	users := []domain.User{}
	if offset < 0 || offset >= len(ids) {
		return users, nil
	}
	end := len(ids)
	if limit >= 0 && offset+limit < end {
		end = offset + limit
	}
	for _, id := range ids[offset:end] {
		users = append(users, r.users[id])
	}
	return users, nil
}

func (r *UserRepository) Count(_ context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.users)), nil
}

func (r *UserRepository) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.users[id]
	if !ok {
		return domain.ErrNotFound
	}
	delete(r.users, id)
	delete(r.byEmail, strings.ToLower(user.Email))
	return nil
}
