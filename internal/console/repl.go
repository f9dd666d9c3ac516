package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// printlnFn is a test seam for REPL output.
var printlnFn = fmt.Println

// execIface is the command surface runREPL dispatches to. *App satisfies it;
// tests provide a recording stub.
type execIface interface {
	isLoggedIn() bool
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	Whoami(ctx context.Context) error
	Users(ctx context.Context) error
	Find(ctx context.Context, username string) error
	Bio(ctx context.Context) error
	Profile(ctx context.Context) error
	Follow(ctx context.Context, username string) error
	Unfollow(ctx context.Context, username string) error
	Followers(ctx context.Context, username string) error
	Following(ctx context.Context, username string) error
	Stats(ctx context.Context, username string) error
	Picture(ctx context.Context, args []string) error
	Reset(ctx context.Context) error
}

const (
	helpLoggedOut = "Available commands: register, login, users, find <username>, followers <username>, following <username>, stats <username>, reset, exit"
	helpLoggedIn  = "Available commands: whoami, users, find <username>, bio, profile, follow <username>, unfollow <username>, followers [username], following [username], stats [username], picture [clear], logout, reset, exit"
)

// runREPL reads one command per line from reader and dispatches it to a.
// The first token is the command, the second its optional username argument.
// Handler errors are printed and the loop goes on. It returns on EOF, on
// "exit"/"quit" or when ctx is done.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		if ctx.Err() != nil {
			return
		}

		printlnFn(fmt.Sprintf("cf %s> ", statusFn()))
		line, err := reader.ReadString('\n')
		if err != nil && (!errors.Is(err, io.EOF) || line == "") {
			return
		}

		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		arg := ""
		if len(args) > 0 {
			arg = args[0]
		}

		var cmdErr error
		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn(helpLoggedIn)
			} else {
				printlnFn(helpLoggedOut)
			}

		case "register":
			cmdErr = a.Register(ctx)
		case "login":
			cmdErr = a.Login(ctx)
		case "logout":
			cmdErr = a.Logout(ctx)
		case "whoami":
			cmdErr = a.Whoami(ctx)
		case "users":
			cmdErr = a.Users(ctx)
		case "bio":
			cmdErr = a.Bio(ctx)
		case "profile":
			cmdErr = a.Profile(ctx)
		case "picture":
			cmdErr = a.Picture(ctx, args)
		case "reset":
			cmdErr = a.Reset(ctx)

		case "find", "follow", "unfollow":
			if arg == "" {
				printlnFn(fmt.Sprintf("Usage: %s <username>", cmd))
				continue
			}
			switch cmd {
			case "find":
				cmdErr = a.Find(ctx, arg)
			case "follow":
				cmdErr = a.Follow(ctx, arg)
			default:
				cmdErr = a.Unfollow(ctx, arg)
			}

		case "followers":
			cmdErr = a.Followers(ctx, arg)
		case "following":
			cmdErr = a.Following(ctx, arg)
		case "stats":
			cmdErr = a.Stats(ctx, arg)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}

		if cmdErr != nil {
			printlnFn("Error:", cmdErr)
		}
	}
}
