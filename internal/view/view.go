package view

import (
	"context"
	"errors"
	"io"

	"github.com/dom/user-directory/internal/client"
	"github.com/dom/user-directory/internal/domain"
)

// Name identifies a view the Navigator can show.
type Name string

const (
	Login Name = "login"
	List  Name = "list"
	Add   Name = "add"
	Quit  Name = "quit"
)

// View runs until the user leaves it and names the view to show next.
type View interface {
	Name() Name
	Show(ctx context.Context) (Name, error)
}

// errorMessage is what a view prints for a failed store operation.
func errorMessage(err error) string {
	var apiErr *client.APIError
	switch {
	case errors.As(err, &apiErr) && apiErr.Message != "":
		return apiErr.Message
	case errors.Is(err, domain.ErrServiceUnavailable):
		return "The server is unreachable. Please try again."
	default:
		return err.Error()
	}
}

// isEOF reports whether the input stream is exhausted.
func isEOF(err error) bool {
	return errors.Is(err, io.EOF)
}
