// Package console is an operator REPL over the civicfollow services:
// registering and logging in accounts, editing profiles, following and
// inspecting the follow graph, uploading pictures and resetting storage.
package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/dmitrijs2005/civicfollow/internal/server/models"
	"github.com/dmitrijs2005/civicfollow/internal/server/services"
	"github.com/google/uuid"
)

// Accounts is the account surface the console drives.
type Accounts interface {
	List(ctx context.Context) ([]*models.Account, error)
	Find(ctx context.Context, id uuid.UUID) (*models.Account, error)
	FindByUsername(ctx context.Context, username string) (*models.Account, error)
	Create(ctx context.Context, in services.NewAccount) (*models.Account, error)
	Update(ctx context.Context, id uuid.UUID, p models.ProfileUpdate) (*models.Account, error)
	UpdateBio(ctx context.Context, id uuid.UUID, bio string) (*models.Account, error)
	DeleteAll(ctx context.Context) error
	Login(ctx context.Context, username, password string) (*services.LoginResult, error)
	Authenticate(ctx context.Context, token string) (*models.Account, error)
}

type Follows interface {
	FollowUser(ctx context.Context, follower, followed uuid.UUID, username string) (bool, error)
	UnfollowUser(ctx context.Context, follower, followed uuid.UUID) (bool, error)
	GetFollowers(ctx context.Context, userID uuid.UUID) ([]*models.FollowEdge, error)
	GetFollowed(ctx context.Context, userID uuid.UUID) ([]*models.FollowEdge, error)
	Stats(ctx context.Context, userID uuid.UUID) (models.FollowStats, error)
}

type Pictures interface {
	PresignUpload(ctx context.Context, accountID uuid.UUID) (*services.Upload, error)
	Attach(ctx context.Context, accountID uuid.UUID, key string) (*models.Account, error)
	Detach(ctx context.Context, accountID uuid.UUID) (*models.Account, error)
}

var (
	errNotLoggedIn = errors.New("not logged in, use 'login' first")
	errUnknownUser = errors.New("no such user")
)

type App struct {
	accounts Accounts
	follows  Follows
	pictures Pictures
	reader   *bufio.Reader
	out      io.Writer

	token string
	me    *models.Account
}

func NewApp(accounts Accounts, follows Follows, pictures Pictures, in io.Reader, out io.Writer) *App {
	return &App{
		accounts: accounts,
		follows:  follows,
		pictures: pictures,
		reader:   bufio.NewReader(in),
		out:      out,
	}
}

// Run greets the operator and serves commands until exit or EOF.
func (a *App) Run(ctx context.Context) {
	fmt.Fprintln(a.out, "Welcome to civicfollow console (type 'help' for commands)")
	runREPL(ctx, a, a.getStatus, a.reader)
}

func (a *App) isLoggedIn() bool {
	return a.me != nil
}

func (a *App) getStatus() string {
	if a.me == nil {
		return ""
	}
	if a.me.IsRep {
		return fmt.Sprintf("(%s, rep)", a.me.Username)
	}
	return fmt.Sprintf("(%s)", a.me.Username)
}

func (a *App) requireLogin() error {
	if !a.isLoggedIn() {
		return errNotLoggedIn
	}
	return nil
}

// resolve returns the named account, or the logged-in one for "".
func (a *App) resolve(ctx context.Context, username string) (*models.Account, error) {
	if username == "" {
		if err := a.requireLogin(); err != nil {
			return nil, err
		}
		return a.me, nil
	}
	acc, err := a.accounts.FindByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if acc == nil {
		return nil, fmt.Errorf("%w: %s", errUnknownUser, username)
	}
	return acc, nil
}

func (a *App) printAccount(acc *models.Account) {
	fmt.Fprintf(a.out, "%s (%s %s)\n", acc.Username, acc.FirstName, acc.LastName)
	if acc.IsRep {
		fmt.Fprintln(a.out, "  representative")
	}
	fmt.Fprintf(a.out, "  zipcode: %s  state: %s\n", acc.Zipcode, acc.State)
	if acc.Location != "" {
		fmt.Fprintf(a.out, "  location: %s\n", acc.Location)
	}
	if acc.Bio != "" {
		fmt.Fprintf(a.out, "  bio: %s\n", acc.Bio)
	}
	if acc.PictureURL != nil {
		fmt.Fprintf(a.out, "  picture: %s\n", *acc.PictureURL)
	}
}
