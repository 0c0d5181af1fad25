package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"

	"github.com/sanjitmathur/ExamForge/pkg/domain"
)

func (a *App) cmdAdmin(ctx context.Context, args []string) error {
	sub := "stats"
	if len(args) > 0 {
		sub, args = args[0], args[1:]
	}
	switch sub {
	case "stats":
		return a.adminStats(ctx)
	case "users":
		return a.adminUsers(ctx)
	case "user":
		if len(args) < 1 {
			return errors.New("usage: examforge admin user <id>")
		}
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		return a.adminUserDetail(ctx, id)
	case "create-user":
		return a.adminCreateUser(ctx, args)
	case "update-user":
		return a.adminUpdateUser(ctx, args)
	case "delete-user":
		if len(args) < 1 {
			return errors.New("usage: examforge admin delete-user <id>")
		}
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		return a.adminDeleteUser(ctx, id)
	case "reset-password":
		return a.adminResetPassword(ctx, args)
	default:
		return fmt.Errorf("unknown admin subcommand %q (stats, users, user, create-user, update-user, delete-user, reset-password)", sub)
	}
}

func (a *App) adminStats(ctx context.Context) error {
	stats, err := a.api.Admin.Stats(ctx)
	if err != nil {
		return err
	}
	w := a.table()
	fmt.Fprintf(w, "users\t%d\n", stats.TotalUsers)
	fmt.Fprintf(w, "admins\t%d\n", stats.TotalAdmins)
	fmt.Fprintf(w, "papers uploaded\t%d\n", stats.TotalPapersUploaded)
	fmt.Fprintf(w, "questions extracted\t%d\n", stats.TotalQuestions)
	fmt.Fprintf(w, "papers generated\t%d\n", stats.TotalPapersGenerated)
	if err := w.Flush(); err != nil {
		return err
	}
	if len(stats.RecentUsers) > 0 {
		fmt.Fprintf(a.out, "\n%srecent signups%s\n", a.pal.Primary, a.pal.Reset)
		printUsersTable(a, stats.RecentUsers)
	}
	return nil
}

func (a *App) adminUsers(ctx context.Context) error {
	users, err := a.api.Admin.ListUsers(ctx)
	if err != nil {
		return err
	}
	printUsersTable(a, users)
	return nil
}

func printUsersTable(a *App, users []domain.User) {
	w := a.table()
	fmt.Fprintln(w, "ID\tUSERNAME\tEMAIL\tNAME\tSCHOOL\tROLE\tJOINED")
	for _, u := range users {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\t%s\n",
			u.ID, u.Username, u.Email, u.FullName, orDash(u.SchoolName), u.Role, u.CreatedAt)
	}
	w.Flush()
}

func (a *App) adminUserDetail(ctx context.Context, id int64) error {
	detail, err := a.api.Admin.UserDetail(ctx, id)
	if err != nil {
		return err
	}
	w := a.table()
	fmt.Fprintf(w, "id\t%d\n", detail.ID)
	fmt.Fprintf(w, "username\t%s\n", detail.Username)
	fmt.Fprintf(w, "email\t%s\n", detail.Email)
	fmt.Fprintf(w, "name\t%s\n", detail.FullName)
	fmt.Fprintf(w, "school\t%s\n", orDash(detail.SchoolName))
	fmt.Fprintf(w, "role\t%s\n", detail.Role)
	fmt.Fprintf(w, "joined\t%s\n", detail.CreatedAt)
	fmt.Fprintf(w, "papers uploaded\t%d\n", detail.PapersUploaded)
	fmt.Fprintf(w, "questions extracted\t%d\n", detail.QuestionsExtracted)
	fmt.Fprintf(w, "papers generated\t%d\n", detail.PapersGenerated)
	if err := w.Flush(); err != nil {
		return err
	}

	if len(detail.UploadedPapers) > 0 {
		fmt.Fprintf(a.out, "\n%suploaded papers%s\n", a.pal.Primary, a.pal.Reset)
		w = a.table()
		fmt.Fprintln(w, "ID\tFILE\tSUBJECT\tSTATUS\tQUESTIONS")
		for _, p := range detail.UploadedPapers {
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%d\n",
				p.ID, p.OriginalFilename, p.Subject, a.pal.PaperBadge(p.Status), p.QuestionCount)
		}
		w.Flush()
	}
	if len(detail.GeneratedPapers) > 0 {
		fmt.Fprintf(a.out, "\n%sgenerated papers%s\n", a.pal.Primary, a.pal.Reset)
		w = a.table()
		fmt.Fprintln(w, "ID\tTITLE\tSUBJECT\tSTATUS")
		for _, p := range detail.GeneratedPapers {
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\n",
				p.ID, p.Title, p.Subject, a.pal.GenerationBadge(p.Status))
		}
		w.Flush()
	}
	return nil
}

func (a *App) adminCreateUser(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("admin create-user", flag.ContinueOnError)
	email := fs.String("email", "", "email address")
	username := fs.String("username", "", "username")
	fullName := fs.String("name", "", "full name")
	password := fs.String("password", "", "initial password")
	school := fs.String("school", "", "school name (optional)")
	role := fs.String("role", "user", "role: user or admin")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *email == "" || *username == "" || *fullName == "" || *password == "" {
		return errors.New("-email, -username, -name, and -password are required")
	}
	if *role != string(domain.RoleUser) && *role != string(domain.RoleAdmin) {
		return fmt.Errorf("unknown role %q", *role)
	}

	user, err := a.api.Admin.CreateUser(ctx, domain.AdminCreateUserRequest{
		Email:      *email,
		Username:   *username,
		FullName:   *fullName,
		Password:   *password,
		SchoolName: *school,
		Role:       *role,
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "created user %d (%s)\n", user.ID, user.Username)
	return nil
}

func (a *App) adminUpdateUser(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("admin update-user", flag.ContinueOnError)
	email := fs.String("email", "", "new email")
	username := fs.String("username", "", "new username")
	fullName := fs.String("name", "", "new full name")
	school := fs.String("school", "", "new school name")
	role := fs.String("role", "", "new role: user or admin")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 1 {
		return errors.New("usage: examforge admin update-user [flags] <id>")
	}
	id, err := parseID(fs.Arg(0))
	if err != nil {
		return err
	}
	req := domain.AdminUpdateUserRequest{
		Email:      *email,
		Username:   *username,
		FullName:   *fullName,
		SchoolName: *school,
		Role:       *role,
	}
	if req == (domain.AdminUpdateUserRequest{}) {
		return errors.New("nothing to update")
	}

	user, err := a.api.Admin.UpdateUser(ctx, id, req)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "updated user %d (%s)\n", user.ID, user.Username)
	return nil
}

func (a *App) adminDeleteUser(ctx context.Context, id int64) error {
	// Deleting an account also removes its papers and questions server-side.
	confirm, err := a.prompt(fmt.Sprintf("delete user %d and all their data? type yes to confirm", id))
	if err != nil {
		return err
	}
	if confirm != "yes" {
		fmt.Fprintln(a.out, "aborted")
		return nil
	}
	if err := a.api.Admin.DeleteUser(ctx, id); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "user %d deleted\n", id)
	return nil
}

func (a *App) adminResetPassword(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("admin reset-password", flag.ContinueOnError)
	password := fs.String("password", "", "new password (prompted when omitted)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 1 {
		return errors.New("usage: examforge admin reset-password [-password p] <id>")
	}
	id, err := parseID(fs.Arg(0))
	if err != nil {
		return err
	}
	if *password == "" {
		if *password, err = a.prompt("new password"); err != nil {
			return err
		}
	}
	if len(*password) < minPasswordLen {
		return fmt.Errorf("password must be at least %d characters", minPasswordLen)
	}
	if err := a.api.Admin.ResetPassword(ctx, id, *password); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "password reset for user %d\n", id)
	return nil
}
