package main

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dom/user-directory/internal/client"
	"github.com/dom/user-directory/internal/domain"
	"github.com/dom/user-directory/internal/logger"
	"github.com/dom/user-directory/internal/testutil"
	"github.com/dom/user-directory/internal/view"
)

func newTestCLI(t *testing.T, ts *testutil.TestServer, input string) (*cli, *bytes.Buffer) {
	t.Helper()
	cfg, err := client.ConfigForBaseURL(ts.BaseURL(), testutil.TestOrigin)
	require.NoError(t, err)

	var out bytes.Buffer
	return &cli{
		cfg:    cfg,
		out:    &out,
		prompt: view.NewLinePrompter(strings.NewReader(input), &out),
		log:    logger.Nop(),
	}, &out
}

func TestOneShotCommands(t *testing.T) {
	ts := testutil.NewTestServer(t)
	testutil.NewUserBuilder().WithEmail("admin@example.com").WithPassword("secret").Build(t, ts.Repos.User)
	testutil.SeedUsers(t, ts.Repos.User, 6)

	t.Setenv("USERSCTL_EMAIL", "admin@example.com")
	t.Setenv("USERSCTL_PASSWORD", "secret")
	ctx := context.Background()

	tests := []struct {
		name    string
		run     func(*cli) error
		input   string
		want    []string
		wantErr error
	}{
		{
			name: "whoami",
			run:  func(c *cli) error { return c.whoamiCmd(ctx, nil) },
			want: []string{"admin@example.com (id 1)"},
		},
		{
			name: "list second page",
			run:  func(c *cli) error { return c.listCmd(ctx, []string{"--page=2"}) },
			want: []string{"[6] ", "[7] ", "Page 2 of 2 (7 users)"},
		},
		{
			name:  "add with prompted password",
			run:   func(c *cli) error { return c.addCmd(ctx, []string{"--name=Grace", "--lastname=Hopper", "--email=grace@example.com"}) },
			input: "pw\n",
			want:  []string{"User added successfully (id 8)"},
		},
		{
			name:    "add duplicate",
			run:     func(c *cli) error { return c.addCmd(ctx, []string{"--name=A", "--lastname=B", "--email=grace@example.com", "--password=pw"}) },
			wantErr: domain.ErrDuplicateEmail,
		},
		{
			name:    "add missing fields",
			run:     func(c *cli) error { return c.addCmd(ctx, []string{"--name=A", "--password=pw"}) },
			wantErr: domain.ErrValidation,
		},
		{
			name: "remove",
			run:  func(c *cli) error { return c.removeCmd(ctx, []string{"--id=8"}) },
			want: []string{"User 8 deleted successfully"},
		},
		{
			name:    "remove missing",
			run:     func(c *cli) error { return c.removeCmd(ctx, []string{"--id=8"}) },
			wantErr: domain.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app, out := newTestCLI(t, ts, tt.input)

			err := tt.run(app)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			for _, want := range tt.want {
				assert.Contains(t, out.String(), want)
			}
		})
	}
}

func TestOneShotCommands_PromptedLogin(t *testing.T) {
	ts := testutil.NewTestServer(t)
	testutil.NewUserBuilder().WithEmail("admin@example.com").WithPassword("secret").Build(t, ts.Repos.User)
	t.Setenv("USERSCTL_EMAIL", "")
	t.Setenv("USERSCTL_PASSWORD", "")

	app, out := newTestCLI(t, ts, "admin@example.com\nsecret\n")
	require.NoError(t, app.whoamiCmd(context.Background(), nil))
	assert.Contains(t, out.String(), "Email: Password: ")
	assert.Contains(t, out.String(), "admin@example.com (id 1)")

	app, _ = newTestCLI(t, ts, "admin@example.com\nwrong\n")
	err := app.whoamiCmd(context.Background(), nil)
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestAPIFlagOverridesEndpoints(t *testing.T) {
	ts := testutil.NewTestServer(t)
	testutil.NewUserBuilder().WithEmail("admin@example.com").WithPassword("secret").Build(t, ts.Repos.User)
	t.Setenv("USERSCTL_EMAIL", "admin@example.com")
	t.Setenv("USERSCTL_PASSWORD", "secret")

	app, out := newTestCLI(t, ts, "")
	app.cfg = &client.Config{
		LoginURL: "http://127.0.0.1:1/api/login",
		Origin:   testutil.TestOrigin,
	}

	require.NoError(t, app.whoamiCmd(context.Background(), []string{"--api=" + ts.BaseURL()}))
	assert.Contains(t, out.String(), "admin@example.com")
}

func TestShellCommand(t *testing.T) {
	ts := testutil.NewTestServer(t)
	testutil.NewUserBuilder().WithEmail("admin@example.com").WithPassword("secret").Build(t, ts.Repos.User)

	app, out := newTestCLI(t, ts, "admin@example.com\nsecret\nq\n")
	require.NoError(t, app.shellCmd(context.Background(), []string{"--watch=false"}))

	assert.Contains(t, out.String(), "Page 1 of 1 (1 users)")
	assert.Contains(t, out.String(), "Bye.")
}
