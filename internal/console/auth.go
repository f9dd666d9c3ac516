package console

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/civicfollow/internal/common"
	"github.com/dmitrijs2005/civicfollow/internal/server/services"
)

// Indirections over the input helpers so tests can script answers.
var (
	getSimpleText      = GetSimpleText
	getTextWithDefault = GetTextWithDefault
	getYesNo           = GetYesNo
	getPassword        = GetPassword
)

// Register prompts for credentials and profile fields and creates the
// account. It does not log the new account in.
func (a *App) Register(ctx context.Context) error {
	username, err := getSimpleText(a.reader, "Enter username", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	in := services.NewAccount{Username: username, Password: string(password)}

	if in.IsRep, err = getYesNo(a.reader, "Is this a representative account?", a.out); err != nil {
		return err
	}
	fields := []struct {
		prompt string
		dst    *string
	}{
		{"First name", &in.FirstName},
		{"Last name", &in.LastName},
		{"Zipcode", &in.Zipcode},
		{"State", &in.State},
	}
	for _, f := range fields {
		if *f.dst, err = getSimpleText(a.reader, f.prompt, a.out); err != nil {
			return err
		}
	}

	acc, err := a.accounts.Create(ctx, in)
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return fmt.Errorf("username %q is taken", username)
		}
		return err
	}

	fmt.Fprintf(a.out, "Success! Created %s\n", acc.Username)
	return nil
}

// Login authenticates and keeps the access token for the session.
func (a *App) Login(ctx context.Context) error {
	username, err := getSimpleText(a.reader, "Enter username", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	res, err := a.accounts.Login(ctx, username, string(password))
	if err != nil {
		if errors.Is(err, common.ErrorUnauthorized) {
			return errors.New("wrong username or password")
		}
		return err
	}

	a.token = res.AccessToken
	a.me = res.Account
	fmt.Fprintf(a.out, "Logged in as %s\n", a.me.Username)
	return nil
}

func (a *App) Logout(ctx context.Context) error {
	a.token = ""
	a.me = nil
	fmt.Fprintln(a.out, "Logged out")
	return nil
}

// Whoami re-validates the session token and prints the current account.
// An expired token or a deleted account ends the session.
func (a *App) Whoami(ctx context.Context) error {
	if err := a.requireLogin(); err != nil {
		return err
	}

	acc, err := a.accounts.Authenticate(ctx, a.token)
	if err != nil {
		if errors.Is(err, common.ErrorUnauthorized) {
			a.token, a.me = "", nil
			return fmt.Errorf("session ended: %w", err)
		}
		return err
	}

	a.me = acc
	a.printAccount(acc)
	return nil
}

// Reset wipes every account and follow edge after confirmation.
func (a *App) Reset(ctx context.Context) error {
	answer, err := getSimpleText(a.reader, "This deletes ALL accounts and follows. Type 'reset' to confirm", a.out)
	if err != nil {
		return err
	}
	if answer != "reset" {
		fmt.Fprintln(a.out, "Cancelled")
		return nil
	}

	if err := a.accounts.DeleteAll(ctx); err != nil {
		return err
	}
	a.token, a.me = "", nil
	fmt.Fprintln(a.out, "All data deleted")
	return nil
}

