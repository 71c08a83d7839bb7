package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/term"

	"github.com/dom/user-directory/internal/client"
	"github.com/dom/user-directory/internal/logger"
	"github.com/dom/user-directory/internal/view"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	cfg, err := client.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app := &cli{
		cfg:    cfg,
		out:    os.Stdout,
		prompt: stdinPrompter(),
		log:    logger.NewWithWriter(os.Stderr, int(slog.LevelWarn)),
	}

	command := os.Args[1]
	args := os.Args[2:]

	var runErr error
	switch command {
	case "shell":
		runErr = app.shellCmd(ctx, args)
	case "list":
		runErr = app.listCmd(ctx, args)
	case "add":
		runErr = app.addCmd(ctx, args)
	case "remove":
		runErr = app.removeCmd(ctx, args)
	case "whoami":
		runErr = app.whoamiCmd(ctx, args)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Printf("Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}

	if runErr != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", runErr)
		stop()
		os.Exit(1)
	}
}

func stdinPrompter() *view.LinePrompter {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return view.NewLinePrompter(os.Stdin, os.Stdout)
	}
	return view.NewLinePrompter(os.Stdin, os.Stdout, view.WithPasswordReader(func() ([]byte, error) {
		return term.ReadPassword(fd)
	}))
}

func printUsage() {
	fmt.Println(`usersctl - terminal client for the user directory

USAGE:
  usersctl <command> [options]

COMMANDS:
  shell     Interactive session: login, browse pages, add and delete users
  list      Print one page of the directory
  add       Create a user
  remove    Delete a user by id
  whoami    Show who the configured credentials log in as
  help      Show this help message

Every command accepts --api=<base url> to derive all endpoints from one
server address. One-shot commands log in before running and log out after.

ENVIRONMENT:
  USERSCTL_LOGIN_URL, USERSCTL_LOGOUT_URL, USERSCTL_VERIFY_URL,
  USERSCTL_USERS_URL, USERSCTL_WATCH_URL   Individual endpoints
  USERSCTL_ORIGIN     Origin header sent with every request (default: http://localhost:5173)
  USERSCTL_EMAIL      Login email for one-shot commands (prompted when unset)
  USERSCTL_PASSWORD   Login password for one-shot commands (prompted when unset)

EXAMPLES:
  # Browse interactively against a local server
  usersctl shell

  # Print the second page
  usersctl list --page=2

  # Add a user, the password is prompted
  usersctl add --name=Grace --lastname=Hopper --email=grace@example.com

  # Delete user 7 on a remote server
  usersctl remove --id=7 --api=https://users.example.com`)
}
