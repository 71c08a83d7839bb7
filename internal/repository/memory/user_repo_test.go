package memory

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dom/user-directory/internal/domain"
)

func seed(t *testing.T, repo *UserRepository, n int) {
	t.Helper()
	for i := 1; i <= n; i++ {
		err := repo.Create(context.Background(), &domain.User{
			Name:         fmt.Sprintf("User%d", i),
			Lastname:     "Test",
			Email:        fmt.Sprintf("user%d@example.com", i),
			PasswordHash: "hash",
		})
		require.NoError(t, err)
	}
}

func TestUserRepository_Create(t *testing.T) {
	repo := NewUserRepository()
	ctx := context.Background()

	first := &domain.User{Name: "Ada", Lastname: "Lovelace", Email: "ada@example.com"}
	require.NoError(t, repo.Create(ctx, first))
	assert.Equal(t, int64(1), first.UserID)

	second := &domain.User{Name: "Alan", Lastname: "Turing", Email: "alan@example.com"}
	require.NoError(t, repo.Create(ctx, second))
	assert.Equal(t, int64(2), second.UserID)

	dup := &domain.User{Name: "Ada", Lastname: "Again", Email: "ADA@example.com"}
	assert.ErrorIs(t, repo.Create(ctx, dup), domain.ErrDuplicateEmail)

	total, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
}

func TestUserRepository_GetByEmail(t *testing.T) {
	repo := NewUserRepository()
	ctx := context.Background()
	seed(t, repo, 2)

	user, err := repo.GetByEmail(ctx, "user2@example.com")
	require.NoError(t, err)
	assert.Equal(t, int64(2), user.UserID)

	_, err = repo.GetByEmail(ctx, "missing@example.com")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUserRepository_List(t *testing.T) {
	repo := NewUserRepository()
	seed(t, repo, 12)

	tests := []struct {
		name    string
		limit   int
		offset  int
		wantIDs []int64
	}{
		{name: "first page", limit: 5, offset: 0, wantIDs: []int64{1, 2, 3, 4, 5}},
		{name: "middle page", limit: 5, offset: 5, wantIDs: []int64{6, 7, 8, 9, 10}},
		{name: "short last page", limit: 5, offset: 10, wantIDs: []int64{11, 12}},
		{name: "past the end", limit: 5, offset: 15, wantIDs: []int64{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			users, err := repo.List(context.Background(), tt.limit, tt.offset)
			require.NoError(t, err)
			require.NotNil(t, users)

			ids := make([]int64, 0, len(users))
			for _, u := range users {
				ids = append(ids, u.UserID)
			}
			assert.Equal(t, tt.wantIDs, ids)
		})
	}
}

func TestUserRepository_Delete(t *testing.T) {
	repo := NewUserRepository()
	ctx := context.Background()
	seed(t, repo, 3)

	require.NoError(t, repo.Delete(ctx, 2))
	assert.ErrorIs(t, repo.Delete(ctx, 2), domain.ErrNotFound)

	users, err := repo.List(ctx, 5, 0)
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, int64(1), users[0].UserID)
	assert.Equal(t, int64(3), users[1].UserID)

	// The email is free again once its owner is gone.
	again := &domain.User{Name: "User2", Lastname: "Test", Email: "user2@example.com"}
	require.NoError(t, repo.Create(ctx, again))
	assert.Equal(t, int64(4), again.UserID)
}
