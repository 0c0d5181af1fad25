// Package cli implements the examforge terminal client. Each subcommand is
// the CLI counterpart of one page in the web client, and command dispatch
// runs every command through the same navigation guard the pages use.
package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/sanjitmathur/ExamForge/internal/api"
	"github.com/sanjitmathur/ExamForge/internal/config"
	"github.com/sanjitmathur/ExamForge/internal/guard"
	"github.com/sanjitmathur/ExamForge/internal/session"
	"github.com/sanjitmathur/ExamForge/internal/theme"
)

// App carries the wired client state shared by all commands.
type App struct {
	cfg        config.Config
	cfgPath    string
	sess       *session.Session
	api        *api.Client
	pal        theme.Palette
	out        io.Writer
	errOut     io.Writer
	in         *bufio.Reader
	loggedOut  bool // set by the 401 hook so commands can explain the exit
}

// New wires an App from config. The session is restored synchronously, so
// guard decisions never see the loading state here.
func New(cfg config.Config, cfgPath string) (*App, error) {
	sess, err := session.Load(cfg.SessionDir())
	if err != nil {
		return nil, err
	}
	th, err := theme.Parse(cfg.Theme)
	if err != nil {
		return nil, err
	}
	app := &App{
		cfg:     cfg,
		cfgPath: cfgPath,
		sess:    sess,
		pal:     th.Palette(),
		out:     os.Stdout,
		errOut:  os.Stderr,
		in:      bufio.NewReader(os.Stdin),
	}
	app.api = api.NewClient(api.Config{
		BaseURL: cfg.BaseURL,
		Timeout: cfg.TimeoutDuration(),
		Token:   sess.Token,
		OnUnauthorized: func() {
			// The web client wipes the session and lands on /login. The CLI
			// equivalent: wipe and tell the user to sign in again.
			_ = sess.Clear()
			app.loggedOut = true
		},
	})
	return app, nil
}

// commandRoute maps each command to the page route whose guard applies.
var commandRoute = map[string]string{
	"login":     guard.LoginRoute,
	"register":  "/login/user",
	"logout":    "/settings",
	"whoami":    "/settings",
	"profile":   "/settings",
	"dashboard": guard.UserHome,
	"upload":    "/upload",
	"papers":    "/upload",
	"questions": "/questions",
	"generate":  "/generate",
	"chat":      "/paper",
	"export":    "/paper",
	"admin":     guard.AdminHome,
}

// state derives the guard state from the restored session.
func (a *App) state() guard.State {
	user, ok := a.sess.User()
	if !ok {
		return guard.StateAnonymous
	}
	if user.Role == "admin" {
		return guard.StateAdmin
	}
	return guard.StateUser
}

// Run dispatches a command line and returns the process exit code.
func (a *App) Run(ctx context.Context, args []string) int {
	if len(args) == 0 {
		a.usage()
		return 1
	}
	cmd := args[0]
	rest := args[1:]

	if route, guarded := commandRoute[cmd]; guarded {
		if code, stop := a.checkGuard(cmd, route); stop {
			return code
		}
	}

	var err error
	switch cmd {
	case "login":
		err = a.cmdLogin(ctx, rest)
	case "register":
		err = a.cmdRegister(ctx, rest)
	case "logout":
		err = a.cmdLogout()
	case "whoami":
		err = a.cmdWhoami()
	case "profile":
		err = a.cmdProfile(ctx, rest)
	case "theme":
		err = a.cmdTheme(rest)
	case "dashboard":
		err = a.cmdDashboard(ctx)
	case "upload":
		err = a.cmdUpload(ctx, rest)
	case "papers":
		err = a.cmdPapers(ctx, rest)
	case "questions":
		err = a.cmdQuestions(ctx, rest)
	case "generate":
		err = a.cmdGenerate(ctx, rest)
	case "chat":
		err = a.cmdChat(ctx, rest)
	case "export":
		err = a.cmdExport(ctx, rest)
	case "admin":
		err = a.cmdAdmin(ctx, rest)
	case "help", "-h", "--help":
		a.usage()
	default:
		fmt.Fprintf(a.errOut, "unknown command: %s\n", cmd)
		a.usage()
		return 1
	}
	if err != nil {
		a.printError(err)
		return 1
	}
	return 0
}

// checkGuard applies the navigation guard before a command runs.
func (a *App) checkGuard(cmd, route string) (int, bool) {
	decision := guard.ResolvePath(a.state(), route)
	switch decision.Kind {
	case guard.Allow:
		return 0, false
	case guard.Redirect:
		switch decision.Target {
		case guard.LoginRoute:
			fmt.Fprintln(a.errOut, "you are not signed in. run: examforge login")
		case guard.AdminHome:
			fmt.Fprintf(a.errOut, "%q is a teacher command; admin accounts use the admin surface. run: examforge admin\n", cmd)
		default:
			fmt.Fprintf(a.errOut, "%q is admin-only. run: examforge dashboard\n", cmd)
		}
		return 1, true
	}
	// Wait never happens here: session restore is synchronous in the CLI.
	return 1, true
}

func (a *App) printError(err error) {
	if a.loggedOut {
		fmt.Fprintf(a.errOut, "%ssession expired; you have been signed out. run: examforge login%s\n", a.pal.Danger, a.pal.Reset)
		return
	}
	if apiErr, ok := err.(*api.Error); ok {
		fmt.Fprintf(a.errOut, "%serror: %s%s\n", a.pal.Danger, apiErr.Detail, a.pal.Reset)
		return
	}
	fmt.Fprintf(a.errOut, "%serror: %v%s\n", a.pal.Danger, err, a.pal.Reset)
}

func (a *App) usage() {
	fmt.Fprint(a.errOut, `examforge - AI exam paper tool

Usage: examforge <command> [options]

Account:
  login       Sign in with email/username and password
  register    Create a teacher account
  logout      Sign out and clear local state
  whoami      Show the signed-in user
  profile     Update profile or change password
  theme       Show or switch the light/dark palette

Papers:
  dashboard   Activity overview
  upload      Upload past papers for extraction
  papers      List, inspect, watch, or delete uploads
  questions   Browse the extracted question bank
  generate    Create and track AI-generated papers
  chat        Refine a generated paper with AI
  export      Download a paper or answer key (pdf/word)

Admin:
  admin       Platform stats and user management

Environment:
  EXAMFORGE_CONFIG     Config file (default: user config dir)
  EXAMFORGE_BASE_URL   Backend base URL
`)
}

// parseID parses a numeric record id argument.
func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	return id, nil
}

// table returns a tabwriter for aligned listing output.
func (a *App) table() *tabwriter.Writer {
	return tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
}

// prompt reads one line of input with a label.
func (a *App) prompt(label string) (string, error) {
	fmt.Fprintf(a.out, "%s: ", label)
	line, err := a.in.ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
