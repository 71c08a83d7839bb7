package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"sync"

	"github.com/caarlos0/env/v11"

	"github.com/dom/user-directory/internal/client"
	"github.com/dom/user-directory/internal/domain"
	"github.com/dom/user-directory/internal/logger"
	"github.com/dom/user-directory/internal/view"
)

type cli struct {
	cfg    *client.Config
	out    io.Writer
	prompt view.Prompter
	log    *logger.Logger
}

// credentials feed the implicit login of one-shot commands.
type credentials struct {
	Email    string `env:"EMAIL"`
	Password string `env:"PASSWORD"`
}

func (c *cli) flagSet(name string) (*flag.FlagSet, *string) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(c.out)
	api := fs.String("api", "", "Server base URL, overrides the individual endpoint settings")
	return fs, api
}

func (c *cli) apiClient(baseURL string) (*client.APIClient, error) {
	cfg := c.cfg
	if baseURL != "" {
		derived, err := client.ConfigForBaseURL(baseURL, c.cfg.Origin)
		if err != nil {
			return nil, err
		}
		derived.Timeout = c.cfg.Timeout
		cfg = derived
	}
	return client.NewAPIClient(cfg)
}

func (c *cli) shellCmd(ctx context.Context, args []string) error {
	fs, apiURL := c.flagSet("shell")
	pageSize := fs.Int("page-size", domain.DefaultPageSize, "Users per page")
	watch := fs.Bool("watch", true, "Refresh the list when other clients change it")
	if err := fs.Parse(args); err != nil {
		return err
	}

	api, err := c.apiClient(*apiURL)
	if err != nil {
		return err
	}

	session := client.NewSessionStore(api)
	directory := client.NewDirectoryStore(api,
		client.WithPageSize(*pageSize),
		client.WithRefetchAfterAdd(true),
		client.WithOnUnauthorized(session.Invalidate),
	)

	if *watch {
		stopWatching := c.watchWhileLoggedIn(ctx, api, session, directory)
		defer stopWatching()
	}

	return view.NewNavigator(session, directory, c.prompt, c.out, c.log).Run(ctx)
}

// watchWhileLoggedIn runs a Watcher for as long as the session is live.
func (c *cli) watchWhileLoggedIn(ctx context.Context, api *client.APIClient, session *client.SessionStore, directory *client.DirectoryStore) func() {
	var (
		mu     sync.Mutex
		cancel context.CancelFunc
		wg     sync.WaitGroup
	)

	unsubscribe := session.Subscribe(func(s client.SessionState) {
		mu.Lock()
		defer mu.Unlock()

		if !s.IsLoggedIn {
			if cancel != nil {
				cancel()
				cancel = nil
			}
			return
		}
		if cancel != nil {
			return
		}

		var watchCtx context.Context
		watchCtx, cancel = context.WithCancel(ctx)
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := client.NewWatcher(api, directory).Run(watchCtx)
			if err != nil && !errors.Is(err, context.Canceled) {
				c.log.Warn("live updates stopped", "error", err)
			}
		}()
	})

	return func() {
		unsubscribe()
		mu.Lock()
		if cancel != nil {
			cancel()
		}
		mu.Unlock()
		wg.Wait()
	}
}

// withSession logs in for the duration of fn.
func (c *cli) withSession(ctx context.Context, api *client.APIClient, fn func(*client.SessionStore) error) error {
	creds := credentials{}
	if err := env.ParseWithOptions(&creds, env.Options{Prefix: "USERSCTL_"}); err != nil {
		return fmt.Errorf("failed to parse credentials: %w", err)
	}

	var err error
	if creds.Email == "" {
		if creds.Email, err = c.prompt.ReadLine("Email: "); err != nil {
			return err
		}
	}
	if creds.Password == "" {
		if creds.Password, err = c.prompt.ReadPassword("Password: "); err != nil {
			return err
		}
	}

	session := client.NewSessionStore(api)
	if err := session.Login(ctx, creds.Email, creds.Password); err != nil {
		return fmt.Errorf("login failed: %w", err)
	}
	defer func() {
		if err := session.Logout(context.WithoutCancel(ctx)); err != nil {
			c.log.Warn("logout failed", "error", err)
		}
	}()

	return fn(session)
}

func (c *cli) listCmd(ctx context.Context, args []string) error {
	fs, apiURL := c.flagSet("list")
	page := fs.Int("page", 1, "Page to print")
	pageSize := fs.Int("page-size", domain.DefaultPageSize, "Users per page")
	if err := fs.Parse(args); err != nil {
		return err
	}

	api, err := c.apiClient(*apiURL)
	if err != nil {
		return err
	}

	return c.withSession(ctx, api, func(*client.SessionStore) error {
		directory := client.NewDirectoryStore(api, client.WithPageSize(*pageSize))
		if err := directory.FetchPage(ctx, *page); err != nil {
			return err
		}
		fmt.Fprint(c.out, view.FormatPage(directory.State()))
		return nil
	})
}

func (c *cli) addCmd(ctx context.Context, args []string) error {
	fs, apiURL := c.flagSet("add")
	var input domain.NewUser
	fs.StringVar(&input.Name, "name", "", "First name (required)")
	fs.StringVar(&input.Lastname, "lastname", "", "Last name (required)")
	fs.StringVar(&input.Email, "email", "", "Email (required)")
	fs.StringVar(&input.Password, "password", "", "Password, prompted when omitted")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if input.Password == "" {
		password, err := c.prompt.ReadPassword("New user's password: ")
		if err != nil {
			return err
		}
		input.Password = password
	}
	if err := input.Validate(); err != nil {
		return fmt.Errorf("--name, --lastname, --email and a password are required: %w", err)
	}

	api, err := c.apiClient(*apiURL)
	if err != nil {
		return err
	}

	return c.withSession(ctx, api, func(*client.SessionStore) error {
		user, err := client.NewDirectoryStore(api).AddUser(ctx, input)
		if err != nil {
			return err
		}
		fmt.Fprintf(c.out, "User added successfully (id %d)\n", user.UserID)
		return nil
	})
}

func (c *cli) removeCmd(ctx context.Context, args []string) error {
	fs, apiURL := c.flagSet("remove")
	id := fs.Int64("id", 0, "User id (required)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *id <= 0 {
		return errors.New("--id is required")
	}

	api, err := c.apiClient(*apiURL)
	if err != nil {
		return err
	}

	return c.withSession(ctx, api, func(*client.SessionStore) error {
		if err := client.NewDirectoryStore(api).RemoveUser(ctx, *id); err != nil {
			return err
		}
		fmt.Fprintf(c.out, "User %d deleted successfully\n", *id)
		return nil
	})
}

func (c *cli) whoamiCmd(ctx context.Context, args []string) error {
	fs, apiURL := c.flagSet("whoami")
	if err := fs.Parse(args); err != nil {
		return err
	}

	api, err := c.apiClient(*apiURL)
	if err != nil {
		return err
	}

	return c.withSession(ctx, api, func(session *client.SessionStore) error {
		user := session.State().UserData
		fmt.Fprintf(c.out, "%s (id %d)\n", user.Email, user.UserID)
		return nil
	})
}
