package view

import (
	"context"
	"errors"

	"github.com/dom/user-directory/internal/client"
	"github.com/dom/user-directory/internal/domain"
)

type AddView struct {
	directory *client.DirectoryStore
	prompt    Prompter
	screen    *screen
}

func (v *AddView) Name() Name { return Add }

func (v *AddView) Show(ctx context.Context) (Name, error) {
	v.screen.println("== Add New User ==")

	var input domain.NewUser
	fields := []struct {
		label  string
		dst    *string
		secret bool
	}{
		{label: "Name: ", dst: &input.Name},
		{label: "Lastname: ", dst: &input.Lastname},
		{label: "Email: ", dst: &input.Email},
		{label: "Password: ", dst: &input.Password, secret: true},
	}
	for _, f := range fields {
		read := v.prompt.ReadLine
		if f.secret {
			read = v.prompt.ReadPassword
		}
		value, err := read(f.label)
		if err != nil {
			return Quit, err
		}
		*f.dst = value
	}

	_, err := v.directory.AddUser(ctx, input)
	switch {
	case err == nil:
		v.screen.println("User added successfully")
	case errors.Is(err, domain.ErrMissingUserFields):
		v.screen.println("Please enter both a name, last name, email, and password!")
	case errors.Is(err, domain.ErrDuplicateEmail):
		v.screen.println("Error when inserting the user. Duplicate emails are not allowed")
	default:
		v.screen.println(errorMessage(err))
	}
	return List, nil
}
