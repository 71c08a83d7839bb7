package view

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/dom/user-directory/internal/client"
)

const listHelp = `Commands:
  n        next page        p        previous page
  f        first page       l        last page
  r        reload           a        add a user
  d <id>   delete user      o        log out
  q        quit             h        this help`

// ListView renders the directory store on every change and maps single-letter
// commands onto store operations.
type ListView struct {
	session   *client.SessionStore
	directory *client.DirectoryStore
	prompt    Prompter
	screen    *screen

	mu         sync.Mutex
	wasLoading bool
	switching  bool
	lastRender string
}

func (v *ListView) Name() Name { return List }

func (v *ListView) Show(ctx context.Context) (Name, error) {
	unsubscribe := v.directory.Subscribe(v.render)
	defer unsubscribe()

	v.mu.Lock()
	v.lastRender = ""
	v.mu.Unlock()

	v.fetch(ctx, v.directory.State().CurrentPage)

	for {
		if !v.session.State().IsLoggedIn {
			return Login, nil
		}

		line, err := v.prompt.ReadLine("> ")
		if err != nil {
			return Quit, err
		}

		next, done := v.handle(ctx, strings.Fields(line))
		if done {
			return next, nil
		}
	}
}

func (v *ListView) handle(ctx context.Context, args []string) (Name, bool) {
	if len(args) == 0 {
		return List, false
	}

	state := v.directory.State()
	switch args[0] {
	case "n":
		v.goTo(ctx, state.CurrentPage+1)
	case "p":
		v.goTo(ctx, state.CurrentPage-1)
	case "f":
		v.goTo(ctx, 1)
	case "l":
		v.goTo(ctx, state.TotalPages)
	case "r":
		v.forceRender()
		v.fetch(ctx, state.CurrentPage)
	case "d":
		if len(args) != 2 {
			v.screen.println("usage: d <id>")
			return List, false
		}
		id, err := strconv.ParseInt(args[1], 10, 64)
		if err != nil || id <= 0 {
			v.screen.println("User ID is required")
			return List, false
		}
		if err := v.directory.RemoveUser(ctx, id); err != nil {
			v.screen.println(errorMessage(err))
		} else {
			v.screen.printf("User %d deleted successfully\n", id)
		}
	case "a":
		return Add, true
	case "o":
		if err := v.session.Logout(ctx); err != nil {
			v.screen.println(errorMessage(err))
		}
		return Login, true
	case "q":
		return Quit, true
	case "h", "?":
		v.screen.println(listHelp)
	default:
		v.screen.printf("unknown command %q, type h for help\n", args[0])
	}
	return List, false
}

// goTo hides the intermediate state SetPage publishes, where the page number
// has moved but the rows still belong to the previous page.
func (v *ListView) goTo(ctx context.Context, page int) {
	v.mu.Lock()
	v.switching = true
	v.mu.Unlock()

	moved := v.directory.SetPage(page)

	v.mu.Lock()
	v.switching = false
	v.mu.Unlock()

	if moved {
		v.fetch(ctx, page)
	}
}

func (v *ListView) fetch(ctx context.Context, page int) {
	if err := v.directory.FetchPage(ctx, page); err != nil {
		v.screen.println(errorMessage(err))
	}
}

func (v *ListView) forceRender() {
	v.mu.Lock()
	v.lastRender = ""
	v.mu.Unlock()
}

// render prints "Loading users..." once per loading period and the page once
// it settles. Identical consecutive pages are printed once.
func (v *ListView) render(state client.DirectoryState) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.switching {
		return
	}
	if state.Loading {
		if !v.wasLoading {
			v.screen.println("Loading users...")
		}
		v.wasLoading = true
		return
	}
	v.wasLoading = false

	out := FormatPage(state)
	if out == v.lastRender {
		return
	}
	v.lastRender = out
	v.screen.printf("%s", out)
}

// FormatPage renders one directory page as plain text.
func FormatPage(state client.DirectoryState) string {
	var b strings.Builder
	b.WriteString("User List:\n")
	if len(state.Users) == 0 {
		b.WriteString("  No users to show\n")
	}
	for _, u := range state.Users {
		fmt.Fprintf(&b, "  [%d] %s %s\n", u.UserID, u.Name, u.Lastname)
	}
	fmt.Fprintf(&b, "Page %d of %d (%d users)\n", state.CurrentPage, max(state.TotalPages, 1), state.TotalUsers)
	return b.String()
}
