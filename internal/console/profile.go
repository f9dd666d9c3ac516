package console

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"github.com/dmitrijs2005/civicfollow/internal/netx"
	"github.com/dmitrijs2005/civicfollow/internal/server/models"
)

var (
	readFile   = os.ReadFile
	uploadFile = netx.PutPresigned
)

func (a *App) Users(ctx context.Context) error {
	accounts, err := a.accounts.List(ctx)
	if err != nil {
		return err
	}
	if len(accounts) == 0 {
		fmt.Fprintln(a.out, "No users")
		return nil
	}
	for _, acc := range accounts {
		rep := ""
		if acc.IsRep {
			rep = " [rep]"
		}
		fmt.Fprintf(a.out, "%-20s %s %s, %s%s\n", acc.Username, acc.FirstName, acc.LastName, acc.State, rep)
	}
	return nil
}

func (a *App) Find(ctx context.Context, username string) error {
	acc, err := a.resolve(ctx, username)
	if err != nil {
		return err
	}
	a.printAccount(acc)
	return nil
}

func (a *App) Bio(ctx context.Context) error {
	if err := a.requireLogin(); err != nil {
		return err
	}

	bio, err := getSimpleText(a.reader, "Enter bio", a.out)
	if err != nil {
		return err
	}

	acc, err := a.accounts.UpdateBio(ctx, a.me.ID, bio)
	if err != nil {
		return err
	}
	return a.refreshed(acc)
}

// Profile edits every profile field, starting from the current values so
// that skipped prompts keep what is stored.
func (a *App) Profile(ctx context.Context) error {
	if err := a.requireLogin(); err != nil {
		return err
	}

	p := models.ProfileOf(a.me)
	fields := []struct {
		prompt string
		dst    *string
	}{
		{"Username", &p.Username},
		{"First name", &p.FirstName},
		{"Last name", &p.LastName},
		{"Zipcode", &p.Zipcode},
		{"State", &p.State},
		{"Location", &p.Location},
		{"Bio", &p.Bio},
	}
	for _, f := range fields {
		v, err := getTextWithDefault(a.reader, f.prompt, *f.dst, a.out)
		if err != nil {
			return err
		}
		*f.dst = v
	}

	acc, err := a.accounts.Update(ctx, a.me.ID, p)
	if err != nil {
		return err
	}
	return a.refreshed(acc)
}

// Picture uploads a local image as the profile picture, or with "clear"
// removes it.
func (a *App) Picture(ctx context.Context, args []string) error {
	if err := a.requireLogin(); err != nil {
		return err
	}

	if len(args) > 0 && args[0] == "clear" {
		acc, err := a.pictures.Detach(ctx, a.me.ID)
		if err != nil {
			return err
		}
		return a.refreshed(acc)
	}

	path, err := getSimpleText(a.reader, "Path to image file", a.out)
	if err != nil {
		return err
	}
	data, err := readFile(path)
	if err != nil {
		return err
	}

	up, err := a.pictures.PresignUpload(ctx, a.me.ID)
	if err != nil {
		return err
	}
	if err := uploadFile(ctx, up.URL, data, http.DetectContentType(data)); err != nil {
		return err
	}

	acc, err := a.pictures.Attach(ctx, a.me.ID, up.Key)
	if err != nil {
		return err
	}
	return a.refreshed(acc)
}

// refreshed stores acc as the session account; nil means it was deleted
// behind our back.
func (a *App) refreshed(acc *models.Account) error {
	if acc == nil {
		a.token, a.me = "", nil
		return fmt.Errorf("%w: account no longer exists", errUnknownUser)
	}
	a.me = acc
	a.printAccount(acc)
	return nil
}
