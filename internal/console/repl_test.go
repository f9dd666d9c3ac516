package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

type fakeExec struct {
	loggedIn bool
	calls    []string
	errOn    map[string]error
}

func (f *fakeExec) rec(name string) error {
	f.calls = append(f.calls, name)
	return f.errOn[name]
}

func (f *fakeExec) isLoggedIn() bool { return f.loggedIn }
func (f *fakeExec) Register(context.Context) error { return f.rec("register") }
func (f *fakeExec) Login(context.Context) error { f.loggedIn = true; return f.rec("login") }
func (f *fakeExec) Logout(context.Context) error { f.loggedIn = false; return f.rec("logout") }
func (f *fakeExec) Whoami(context.Context) error { return f.rec("whoami") }
func (f *fakeExec) Users(context.Context) error { return f.rec("users") }
func (f *fakeExec) Bio(context.Context) error { return f.rec("bio") }
func (f *fakeExec) Profile(context.Context) error { return f.rec("profile") }
func (f *fakeExec) Reset(context.Context) error { return f.rec("reset") }
func (f *fakeExec) Find(_ context.Context, u string) error {
	return f.rec("find:" + u)
}
func (f *fakeExec) Follow(_ context.Context, u string) error {
	return f.rec("follow:" + u)
}
func (f *fakeExec) Unfollow(_ context.Context, u string) error {
	return f.rec("unfollow:" + u)
}
func (f *fakeExec) Followers(_ context.Context, u string) error {
	return f.rec("followers:" + u)
}
func (f *fakeExec) Following(_ context.Context, u string) error {
	return f.rec("following:" + u)
}
func (f *fakeExec) Stats(_ context.Context, u string) error {
	return f.rec("stats:" + u)
}
func (f *fakeExec) Picture(_ context.Context, args []string) error {
	return f.rec("picture:" + strings.Join(args, ","))
}

// capturePrintln swaps printlnFn for a recorder for the duration of the test.
func capturePrintln(t *testing.T) *[]string {
	t.Helper()
	var lines []string
	orig := printlnFn
	printlnFn = func(a ...any) (int, error) {
		lines = append(lines, strings.TrimSuffix(fmt.Sprintln(a...), "\n"))
		return 0, nil
	}
	t.Cleanup(func() { printlnFn = orig })
	return &lines
}

func runScript(t *testing.T, f *fakeExec, script string) []string {
	t.Helper()
	lines := capturePrintln(t)
	runREPL(context.Background(), f, func() string { return "" }, bufio.NewReader(strings.NewReader(script)))
	return *lines
}

func TestRunREPL_Dispatch(t *testing.T) {
	f := &fakeExec{}
	script := strings.Join([]string{
		"register", "login", "whoami", "users", "bio", "profile",
		"find bob", "follow bob", "unfollow bob",
		"followers", "followers bob", "following carol", "stats", "stats bob",
		"picture", "picture clear", "reset", "logout", "",
	}, "\n")

	runScript(t, f, script)

	assert.Equal(t, []string{
		"register", "login", "whoami", "users", "bio", "profile",
		"find:bob", "follow:bob", "unfollow:bob",
		"followers:", "followers:bob", "following:carol", "stats:", "stats:bob",
		"picture:", "picture:clear", "reset", "logout",
	}, f.calls)
}

func TestRunREPL_UsageForMissingUsername(t *testing.T) {
	f := &fakeExec{}
	out := runScript(t, f, "find\nfollow\nunfollow\n")

	assert.Empty(t, f.calls)
	assert.Contains(t, out, "Usage: find <username>")
	assert.Contains(t, out, "Usage: follow <username>")
	assert.Contains(t, out, "Usage: unfollow <username>")
}

func TestRunREPL_HelpDependsOnLogin(t *testing.T) {
	f := &fakeExec{}
	out := runScript(t, f, "help\nlogin\nhelp\n")

	assert.Contains(t, out, helpLoggedOut)
	assert.Contains(t, out, helpLoggedIn)
}

func TestRunREPL_ErrorsAndUnknown(t *testing.T) {
	f := &fakeExec{errOn: map[string]error{"users": errors.New("boom")}}
	out := runScript(t, f, "users\nfrobnicate\n  \nwhoami")

	assert.Contains(t, out, "Error: boom")
	assert.Contains(t, out, "Unknown command: frobnicate")
	// the last line has no newline but is still executed
	assert.Equal(t, []string{"users", "whoami"}, f.calls)
}

func TestRunREPL_ExitStopsLoop(t *testing.T) {
	for _, cmd := range []string{"exit", "quit"} {
		t.Run(cmd, func(t *testing.T) {
			f := &fakeExec{}
			out := runScript(t, f, cmd+"\nusers\n")
			assert.Contains(t, out, "Bye!")
			assert.Empty(t, f.calls)
		})
	}
}

func TestRunREPL_PromptShowsStatus(t *testing.T) {
	lines := capturePrintln(t)
	f := &fakeExec{}
	status := func() string {
		if f.loggedIn {
			return "(alice)"
		}
		return ""
	}
	runREPL(context.Background(), f, status, bufio.NewReader(strings.NewReader("login\n")))

	assert.Contains(t, *lines, "cf > ")
	assert.Contains(t, *lines, "cf (alice)> ")
}

func TestRunREPL_CancelledContext(t *testing.T) {
	lines := capturePrintln(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	f := &fakeExec{}
	runREPL(ctx, f, func() string { return "" }, bufio.NewReader(strings.NewReader("users\n")))

	assert.Empty(t, *lines)
	assert.Empty(t, f.calls)
}
