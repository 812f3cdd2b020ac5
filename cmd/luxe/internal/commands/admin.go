package commands

import (
	"context"
	"fmt"
)

// AdminCmd groups the admin console commands.
type AdminCmd struct {
	Login    AdminLoginCmd    `cmd:"" help:"Log in to the admin console"`
	Logout   AdminLogoutCmd   `cmd:"" help:"Log out of the admin console"`
	Whoami   AdminWhoamiCmd   `cmd:"" help:"Show the admin session"`
	Stats    AdminStatsCmd    `cmd:"" help:"Show dashboard totals"`
	Users    AdminUsersCmd    `cmd:"" help:"Manage accounts"`
	Products AdminProductsCmd `cmd:"" help:"Manage the catalogue"`
	Orders   AdminOrdersCmd   `cmd:"" help:"Manage orders"`
}

// AdminLoginCmd starts a dedicated admin session.
type AdminLoginCmd struct {
	Username string `arg:"" help:"Staff username"`
	Password string `help:"Staff password" env:"LUXE_ADMIN_PASSWORD" required:""`
}

func (c *AdminLoginCmd) Run(ctx context.Context, globals *Globals) error {
	return withApp(ctx, globals, func(a *app) error {
		id, err := a.adminFlows().Login(ctx, c.Username, c.Password)
		if err != nil {
			return err
		}
		a.printf("Admin session started for %s\n", id.DisplayName())
		return nil
	})
}

// AdminLogoutCmd ends the dedicated admin session.
type AdminLogoutCmd struct{}

func (c *AdminLogoutCmd) Run(ctx context.Context, globals *Globals) error {
	return withApp(ctx, globals, func(a *app) error {
		if err := a.adminFlows().Logout(ctx); err != nil {
			return err
		}
		a.println("Admin session ended.")

		// The normal session may still admit a staff user.
		if err := a.admin.Init(ctx); err != nil {
			return err
		}
		if st := a.admin.Current(); st.Authenticated() {
			a.printf("Still signed in to the admin console as %s through the storefront session.\n", st.Identity.DisplayName())
		}
		return nil
	})
}

// AdminWhoamiCmd shows the resolved admin identity.
type AdminWhoamiCmd struct{}

func (c *AdminWhoamiCmd) Run(ctx context.Context, globals *Globals) error {
	return withApp(ctx, globals, func(a *app) error {
		st := a.admin.Current()
		if !st.Authenticated() {
			a.println("Not logged in to the admin console.")
			return nil
		}
		a.printf("%s (%s session)\n", st.Identity.DisplayName(), st.Source)
		return nil
	})
}

// AdminStatsCmd prints dashboard totals.
type AdminStatsCmd struct{}

func (c *AdminStatsCmd) Run(ctx context.Context, globals *Globals) error {
	return withApp(ctx, globals, func(a *app) error {
		if err := a.requireAdmin(); err != nil {
			return err
		}

		stats, err := a.adminAPI.Stats(ctx)
		if err != nil {
			return err
		}

		w := a.table()
		fmt.Fprintf(w, "Users:\t%d\n", stats.TotalUsers)
		fmt.Fprintf(w, "Products:\t%d\n", stats.TotalProducts)
		fmt.Fprintf(w, "Orders:\t%d\n", stats.TotalOrders)
		fmt.Fprintf(w, "Revenue:\t%s\n", orDash(string(stats.TotalRevenue)))
		return w.Flush()
	})
}
