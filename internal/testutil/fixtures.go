package testutil

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/dom/user-directory/internal/domain"
	"github.com/dom/user-directory/internal/repository"
)

// UserBuilder creates test users with a builder pattern
type UserBuilder struct {
	name     string
	lastname string
	email    string
	password string
}

// NewUserBuilder creates a new UserBuilder with default values
func NewUserBuilder() *UserBuilder {
	return &UserBuilder{
		name:     "Test",
		lastname: "User",
		email:    fmt.Sprintf("testuser_%s@example.com", uuid.New().String()[:8]),
		password: "testpassword123",
	}
}

func (b *UserBuilder) WithName(name, lastname string) *UserBuilder {
	b.name = name
	b.lastname = lastname
	return b
}

func (b *UserBuilder) WithEmail(email string) *UserBuilder {
	b.email = email
	return b
}

func (b *UserBuilder) WithPassword(password string) *UserBuilder {
	b.password = password
	return b
}

// Build stores the user and returns it with the raw password
func (b *UserBuilder) Build(t *testing.T, repo repository.UserRepository) (*domain.User, string) {
	t.Helper()

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(b.password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &domain.User{
		Name:         b.name,
		Lastname:     b.lastname,
		Email:        b.email,
		PasswordHash: string(hashedPassword),
	}

	if err := repo.Create(context.Background(), user); err != nil {
		t.Fatalf("failed to create user: %v", err)
	}

	return user, b.password
}

// SeedUsers stores n users named user1..userN.
func SeedUsers(t *testing.T, repo repository.UserRepository, n int) []*domain.User {
	t.Helper()

	users := make([]*domain.User, 0, n)
	for i := 1; i <= n; i++ {
		user, _ := NewUserBuilder().
			WithName(fmt.Sprintf("User%d", i), "Seed").
			WithEmail(fmt.Sprintf("user%d@example.com", i)).
			Build(t, repo)
		users = append(users, user)
	}
	return users
}
