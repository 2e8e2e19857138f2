package cli

import (
	"context"
	"fmt"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

func (a *App) readCredentials() (string, []byte, error) {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return "", nil, err
	}

	password, err := getPassword(a.out)
	if err != nil {
		return "", nil, err
	}

	return email, password, nil
}

// Register prompts for an email and password and creates an account. It
// does not log the new user in.
func (a *App) Register(ctx context.Context) error {
	email, password, err := a.readCredentials()
	if err != nil {
		return err
	}
	defer wipe(password)

	user, err := a.api.Register(ctx, email, password)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Registered %s (id %d)\n", user.Email, user.ID)
	return nil
}

// Login prompts for credentials, obtains an access token and loads the
// current user.
func (a *App) Login(ctx context.Context) error {
	email, password, err := a.readCredentials()
	if err != nil {
		return err
	}
	defer wipe(password)

	if err := a.api.Login(ctx, email, password); err != nil {
		return err
	}

	user, err := a.api.Me(ctx)
	if err != nil {
		a.api.Logout()
		return err
	}

	a.user = user
	a.setMode(ModeOnline)
	fmt.Fprintf(a.out, "Logged in as %s\n", user.DisplayName())
	return nil
}

func (a *App) Logout(ctx context.Context) error {
	a.api.Logout()
	a.user = nil
	fmt.Fprintln(a.out, "Logged out")
	return nil
}
