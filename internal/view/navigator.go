package view

import (
	"context"
	"fmt"
	"io"

	"github.com/dom/user-directory/internal/client"
	"github.com/dom/user-directory/internal/logger"
)

// Navigator shows one view at a time and sends the user back to the login
// view whenever the session store reports a logged-out state.
type Navigator struct {
	session   *client.SessionStore
	directory *client.DirectoryStore
	views     map[Name]View
	screen    *screen
	log       *logger.Logger
}

func NewNavigator(session *client.SessionStore, directory *client.DirectoryStore, prompt Prompter, out io.Writer, log *logger.Logger) *Navigator {
	scr := newScreen(out)
	n := &Navigator{
		session:   session,
		directory: directory,
		screen:    scr,
		log:       log,
	}
	n.views = map[Name]View{
		Login: &LoginView{session: session, prompt: prompt, screen: scr},
		List:  &ListView{session: session, directory: directory, prompt: prompt, screen: scr},
		Add:   &AddView{directory: directory, prompt: prompt, screen: scr},
	}
	return n
}

// Run probes the session, then loops over views until the user quits or the
// input ends.
func (n *Navigator) Run(ctx context.Context) error {
	unsubscribe := n.session.Subscribe(func(s client.SessionState) {
		if !s.IsLoggedIn {
			n.directory.Reset()
		}
	})
	defer unsubscribe()

	if err := n.session.Init(ctx); err != nil {
		n.log.Debug("no live session", "error", err)
	}

	current := List
	for current != Quit {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if current != Login && !n.session.State().IsLoggedIn {
			current = Login
		}

		view, ok := n.views[current]
		if !ok {
			return fmt.Errorf("unknown view %q", current)
		}

		next, err := view.Show(ctx)
		if err != nil {
			if isEOF(err) {
				return nil
			}
			return err
		}
		current = next
	}

	n.screen.println("Bye.")
	return nil
}
