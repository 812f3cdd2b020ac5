package commands

import (
	"context"
	"fmt"

	"github.com/wolfeidau/luxe/internal/api"
)

// AdminUsersCmd manages accounts.
type AdminUsersCmd struct {
	List        AdminUsersListCmd        `cmd:"" help:"List accounts"`
	Show        AdminUsersShowCmd        `cmd:"" help:"Show an account"`
	ToggleStaff AdminUsersToggleStaffCmd `cmd:"" name:"toggle-staff" help:"Grant or revoke staff access"`
	Ban         AdminUsersBanCmd         `cmd:"" help:"Ban an active account or unban a banned one"`
	Delete      AdminUsersDeleteCmd      `cmd:"" help:"Delete an account"`
	CreateAdmin AdminUsersCreateAdminCmd `cmd:"" name:"create-admin" help:"Create a staff account"`
}

func printUsers(a *app, users []api.User) {
	if len(users) == 0 {
		a.println("No users found.")
		return
	}

	w := a.table()
	fmt.Fprintln(w, "ID\tUSERNAME\tEMAIL\tSTAFF\tACTIVE\tJOINED")
	for _, u := range users {
		fmt.Fprintf(w, "%d\t%s\t%s\t%t\t%t\t%s\n", u.ID, u.Username, orDash(u.Email), u.IsStaff, u.IsActive, orDash(u.DateJoined))
	}
	w.Flush()
}

func printUser(a *app, u *api.User) {
	a.printf("User: %s\n", u.Username)
	a.printf("  ID:        %d\n", u.ID)
	a.printf("  Email:     %s\n", orDash(u.Email))
	a.printf("  Name:      %s\n", orDash(u.FullName))
	a.printf("  Staff:     %t\n", u.IsStaff)
	a.printf("  Active:    %t\n", u.IsActive)
	if u.BanReason != "" {
		a.printf("  Banned:    %s\n", u.BanReason)
	}
}

// AdminUsersListCmd lists accounts.
type AdminUsersListCmd struct {
	Search string `help:"Match username, email or name"`
}

func (c *AdminUsersListCmd) Run(ctx context.Context, globals *Globals) error {
	return withApp(ctx, globals, func(a *app) error {
		if err := a.requireAdmin(); err != nil {
			return err
		}
		users, err := a.adminAPI.Users(ctx, c.Search)
		if err != nil {
			return err
		}
		printUsers(a, users)
		return nil
	})
}

// AdminUsersShowCmd shows one account.
type AdminUsersShowCmd struct {
	ID int `arg:"" help:"User ID"`
}

func (c *AdminUsersShowCmd) Run(ctx context.Context, globals *Globals) error {
	return withApp(ctx, globals, func(a *app) error {
		if err := a.requireAdmin(); err != nil {
			return err
		}
		u, err := a.adminAPI.User(ctx, c.ID)
		if err != nil {
			return err
		}
		printUser(a, u)
		return nil
	})
}

// AdminUsersToggleStaffCmd flips the staff flag.
type AdminUsersToggleStaffCmd struct {
	ID int `arg:"" help:"User ID"`
}

func (c *AdminUsersToggleStaffCmd) Run(ctx context.Context, globals *Globals) error {
	return withApp(ctx, globals, func(a *app) error {
		if err := a.requireAdmin(); err != nil {
			return err
		}
		u, err := a.adminAPI.ToggleStaff(ctx, c.ID)
		if err != nil {
			return err
		}
		a.printf("%s staff: %t\n", u.Username, u.IsStaff)
		return nil
	})
}

// AdminUsersBanCmd bans or unbans an account.
type AdminUsersBanCmd struct {
	ID     int    `arg:"" help:"User ID"`
	Reason string `help:"Reason shown to the user; required when banning"`
}

func (c *AdminUsersBanCmd) Run(ctx context.Context, globals *Globals) error {
	return withApp(ctx, globals, func(a *app) error {
		if err := a.requireAdmin(); err != nil {
			return err
		}

		current, err := a.adminAPI.User(ctx, c.ID)
		if err != nil {
			return err
		}

		u, err := a.adminAPI.Ban(ctx, *current, c.Reason)
		if err != nil {
			return err
		}
		if u.IsActive {
			a.printf("%s unbanned\n", u.Username)
		} else {
			a.printf("%s banned: %s\n", u.Username, u.BanReason)
		}
		return nil
	})
}

// AdminUsersDeleteCmd deletes an account.
type AdminUsersDeleteCmd struct {
	ID int `arg:"" help:"User ID"`
}

func (c *AdminUsersDeleteCmd) Run(ctx context.Context, globals *Globals) error {
	return withApp(ctx, globals, func(a *app) error {
		if err := a.requireAdmin(); err != nil {
			return err
		}
		if err := a.adminAPI.DeleteUser(ctx, c.ID); err != nil {
			return err
		}
		a.printf("User %d deleted.\n", c.ID)
		return nil
	})
}

// AdminUsersCreateAdminCmd creates a staff account.
type AdminUsersCreateAdminCmd struct {
	Username string `arg:"" help:"Username"`
	Email    string `help:"Email address" required:""`
	FullName string `help:"Full name" name:"full-name"`
	Password string `help:"Password" env:"LUXE_NEW_ADMIN_PASSWORD" required:""`
}

func (c *AdminUsersCreateAdminCmd) Run(ctx context.Context, globals *Globals) error {
	return withApp(ctx, globals, func(a *app) error {
		if err := a.requireAdmin(); err != nil {
			return err
		}
		u, err := a.adminAPI.CreateAdmin(ctx, api.CreateAdminRequest{
			Username: c.Username,
			Email:    c.Email,
			FullName: c.FullName,
			Password: c.Password,
		})
		if err != nil {
			return err
		}
		a.printf("Created staff account %s (id %d)\n", u.Username, u.ID)
		return nil
	})
}
