package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"

	"github.com/sanjitmathur/ExamForge/internal/config"
	"github.com/sanjitmathur/ExamForge/internal/theme"
	"github.com/sanjitmathur/ExamForge/pkg/domain"
)

const minPasswordLen = 6

func (a *App) cmdLogin(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("login", flag.ContinueOnError)
	identifier := fs.String("user", "", "email or username")
	password := fs.String("password", "", "password (prompted when omitted)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	var err error
	if *identifier == "" {
		if *identifier, err = a.prompt("email or username"); err != nil {
			return err
		}
	}
	if *password == "" {
		if *password, err = a.prompt("password"); err != nil {
			return err
		}
	}
	if *identifier == "" || *password == "" {
		return errors.New("both identifier and password are required")
	}

	resp, err := a.api.Auth.Login(ctx, *identifier, *password)
	if err != nil {
		return err
	}
	if err := a.sess.SetAuth(resp.AccessToken, resp.User); err != nil {
		return err
	}
	home := "dashboard"
	if resp.User.Role == domain.RoleAdmin {
		home = "admin"
	}
	fmt.Fprintf(a.out, "signed in as %s%s%s (%s). try: examforge %s\n",
		a.pal.Bold, resp.User.Username, a.pal.Reset, resp.User.Role, home)
	return nil
}

func (a *App) cmdRegister(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("register", flag.ContinueOnError)
	email := fs.String("email", "", "email address")
	username := fs.String("username", "", "username")
	password := fs.String("password", "", "password (prompted when omitted)")
	fullName := fs.String("name", "", "full name")
	school := fs.String("school", "", "school name (optional)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	var err error
	if *password == "" {
		if *password, err = a.prompt("password"); err != nil {
			return err
		}
	}
	// Validation errors are caught before anything is sent.
	if *email == "" || *username == "" || *fullName == "" {
		return errors.New("-email, -username, and -name are required")
	}
	if len(*password) < minPasswordLen {
		return fmt.Errorf("password must be at least %d characters", minPasswordLen)
	}

	resp, err := a.api.Auth.Register(ctx, domain.RegisterRequest{
		Email:      *email,
		Username:   *username,
		Password:   *password,
		FullName:   *fullName,
		SchoolName: *school,
	})
	if err != nil {
		return err
	}
	if err := a.sess.SetAuth(resp.AccessToken, resp.User); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "welcome, %s! your account is ready.\n", resp.User.FullName)
	return nil
}

func (a *App) cmdLogout() error {
	if err := a.sess.Clear(); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "signed out")
	return nil
}

func (a *App) cmdWhoami() error {
	user, ok := a.sess.User()
	if !ok {
		return errors.New("not signed in")
	}
	w := a.table()
	fmt.Fprintf(w, "username\t%s\n", user.Username)
	fmt.Fprintf(w, "full name\t%s\n", user.FullName)
	fmt.Fprintf(w, "email\t%s\n", user.Email)
	fmt.Fprintf(w, "school\t%s\n", orDash(user.SchoolName))
	fmt.Fprintf(w, "role\t%s\n", user.Role)
	return w.Flush()
}

func (a *App) cmdProfile(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("profile", flag.ContinueOnError)
	fullName := fs.String("name", "", "new full name")
	email := fs.String("email", "", "new email")
	username := fs.String("username", "", "new username")
	school := fs.String("school", "", "new school name")
	currentPassword := fs.String("current-password", "", "current password (required for password change)")
	newPassword := fs.String("new-password", "", "new password")
	if err := fs.Parse(args); err != nil {
		return err
	}

	req := domain.UpdateProfileRequest{
		FullName:        *fullName,
		Email:           *email,
		Username:        *username,
		SchoolName:      *school,
		CurrentPassword: *currentPassword,
		NewPassword:     *newPassword,
	}
	if req == (domain.UpdateProfileRequest{}) {
		return errors.New("nothing to update; see: examforge profile -h")
	}
	if req.NewPassword != "" {
		if req.CurrentPassword == "" {
			return errors.New("-current-password is required to change the password")
		}
		if len(req.NewPassword) < minPasswordLen {
			return fmt.Errorf("new password must be at least %d characters", minPasswordLen)
		}
	}

	user, err := a.api.Auth.UpdateProfile(ctx, req)
	if err != nil {
		return err
	}
	if err := a.sess.UpdateUser(user); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "profile updated")
	return nil
}

func (a *App) cmdTheme(args []string) error {
	if len(args) == 0 {
		fmt.Fprintln(a.out, a.cfg.Theme)
		return nil
	}
	var next string
	switch args[0] {
	case "toggle":
		current, err := theme.Parse(a.cfg.Theme)
		if err != nil {
			return err
		}
		next = string(current.Toggle())
	case "light", "dark":
		next = args[0]
	default:
		return fmt.Errorf("usage: examforge theme [toggle|light|dark]")
	}
	a.cfg.Theme = next
	if err := config.Save(a.cfgPath, a.cfg); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "theme set to %s\n", next)
	return nil
}
