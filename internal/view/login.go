package view

import (
	"context"
	"errors"

	"github.com/dom/user-directory/internal/client"
	"github.com/dom/user-directory/internal/domain"
)

type LoginView struct {
	session *client.SessionStore
	prompt  Prompter
	screen  *screen
}

func (v *LoginView) Name() Name { return Login }

func (v *LoginView) Show(ctx context.Context) (Name, error) {
	v.screen.println("== Login ==")

	email, err := v.prompt.ReadLine("Email: ")
	if err != nil {
		return Quit, err
	}
	password, err := v.prompt.ReadPassword("Password: ")
	if err != nil {
		return Quit, err
	}

	v.screen.println("Logging in...")
	if err := v.session.Login(ctx, email, password); err != nil {
		if errors.Is(err, domain.ErrMissingCredentials) {
			v.screen.println("Both fields are required.")
		} else {
			v.screen.println(errorMessage(err))
		}
		return Login, nil
	}

	v.screen.printf("Welcome, %s\n", v.session.State().UserData.Email)
	return List, nil
}
