package repository

import (
	"context"

	"github.com/dom/user-directory/internal/domain"
)

// UserRepository is the credential store.
//
// List and Count are separate statements; callers combining them get no
// snapshot guarantee under concurrent writes.
type UserRepository interface {
	// Create inserts user and sets its UserID. Returns domain.ErrDuplicateEmail
	// when the email is taken.
	Create(ctx context.Context, user *domain.User) error
	// GetByEmail returns domain.ErrNotFound when no row matches.
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	List(ctx context.Context, limit, offset int) ([]domain.User, error)
	Count(ctx context.Context) (int64, error)
	// Delete returns domain.ErrNotFound when no row was removed.
	Delete(ctx context.Context, id int64) error
}

type Repositories struct {
	User UserRepository
}
