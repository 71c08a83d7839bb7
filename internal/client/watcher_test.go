package client

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dom/user-directory/internal/domain"
	"github.com/dom/user-directory/internal/testutil"
)

func TestWatcher_RefreshesCurrentPage(t *testing.T) {
	ts := testutil.NewTestServer(t)
	user, password := testutil.NewUserBuilder().Build(t, ts.Repos.User)
	testutil.SeedUsers(t, ts.Repos.User, 2)

	api := newTestAPI(t, ts)
	require.NoError(t, api.Login(context.Background(), user.Email, password))

	store := NewDirectoryStore(api)
	require.NoError(t, store.FetchPage(context.Background(), 1))
	require.Equal(t, int64(3), store.State().TotalUsers)

	events := make(chan domain.DirectoryEvent, 4)
	watcher := NewWatcher(api, store, WithOnEvent(func(e domain.DirectoryEvent) { events <- e }))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- watcher.Run(ctx) }()

	require.Eventually(t, func() bool { return ts.Hub.ClientCount() == 1 }, 2*time.Second, 10*time.Millisecond)

	created, err := ts.Services.Directory.Create(context.Background(), domain.NewUser{
		Name: "Grace", Lastname: "Hopper", Email: "grace@example.com", Password: "pw",
	})
	require.NoError(t, err)

	select {
	case e := <-events:
		assert.Equal(t, domain.EventUserCreated, e.Type)
		assert.Equal(t, created.UserID, e.UserID)
	case <-time.After(2 * time.Second):
		t.Fatal("timeout waiting for event")
	}

	state := store.State()
	assert.Equal(t, int64(4), state.TotalUsers)
	assert.Contains(t, ids(state.Users), created.UserID)

	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("watcher did not stop")
	}
}

func TestWatcher_RequiresSession(t *testing.T) {
	ts := testutil.NewTestServer(t)
	api := newTestAPI(t, ts)

	err := NewWatcher(api, NewDirectoryStore(api)).Run(context.Background())

	assert.ErrorIs(t, err, domain.ErrUnauthenticated)
}
