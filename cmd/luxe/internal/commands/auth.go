package commands

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/wolfeidau/luxe/internal/api"
	"github.com/wolfeidau/luxe/internal/flows"
	"github.com/wolfeidau/luxe/internal/session"
	"github.com/wolfeidau/luxe/internal/tokenstore"
)

// LoginCmd logs in to the storefront.
type LoginCmd struct {
	Username string `arg:"" help:"Account username"`
	Password string `help:"Account password" env:"LUXE_PASSWORD" required:""`
}

func (c *LoginCmd) Run(ctx context.Context, globals *Globals) error {
	return withApp(ctx, globals, func(a *app) error {
		id, err := a.storefrontFlows().Login(ctx, c.Username, c.Password)
		if err != nil {
			return err
		}
		a.printf("Logged in as %s\n", id.DisplayName())
		return nil
	})
}

// SignupCmd creates an account and logs in.
type SignupCmd struct {
	Username        string `arg:"" help:"Account username"`
	Email           string `help:"Email address" required:""`
	FullName        string `help:"Full name" name:"full-name"`
	Password        string `help:"Account password" env:"LUXE_PASSWORD" required:""`
	ConfirmPassword string `help:"Repeat the password" name:"confirm-password" required:""`
}

func (c *SignupCmd) Run(ctx context.Context, globals *Globals) error {
	return withApp(ctx, globals, func(a *app) error {
		id, err := a.storefrontFlows().Signup(ctx, api.SignupRequest{
			Username:        c.Username,
			Email:           c.Email,
			FullName:        c.FullName,
			Password:        c.Password,
			ConfirmPassword: c.ConfirmPassword,
		})
		if err != nil {
			return err
		}
		a.printf("Welcome, %s\n", id.DisplayName())
		return nil
	})
}

// LogoutCmd ends the storefront session.
type LogoutCmd struct{}

func (c *LogoutCmd) Run(ctx context.Context, globals *Globals) error {
	return withApp(ctx, globals, func(a *app) error {
		if err := a.storefrontFlows().Logout(ctx); err != nil {
			return err
		}
		a.println("Logged out.")
		return nil
	})
}

// WhoamiCmd shows both sessions.
type WhoamiCmd struct {
	Remote bool `help:"Also fetch the storefront account from the server"`
}

func (c *WhoamiCmd) Run(ctx context.Context, globals *Globals) error {
	return withApp(ctx, globals, func(a *app) error {
		if c.Remote && a.user.Current().Authenticated() {
			profile, err := a.storefront.Profile(ctx)
			if err != nil {
				return err
			}
			a.printf("Account %s <%s> joined %s\n", profile.Username, orDash(profile.Email), orDash(profile.DateJoined))
		}

		w := a.table()
		fmt.Fprintln(w, "SESSION\tSTATE\tUSER\tSTAFF\tSOURCE")

		us := a.user.Current()
		fmt.Fprintf(w, "storefront\t%s\t%s\t%s\t-\n", us.State, identityName(us.Identity), staff(us.Identity))

		as := a.admin.Current()
		fmt.Fprintf(w, "admin\t%s\t%s\t%s\t%s\n", as.State, identityName(as.Identity), staff(as.Identity), orDash(string(as.Source)))

		return w.Flush()
	})
}

func identityName(id *session.Identity) string {
	if id == nil {
		return "-"
	}
	return orDash(id.DisplayName())
}

func staff(id *session.Identity) string {
	if id == nil {
		return "-"
	}
	if id.IsStaff {
		return "yes"
	}
	return "no"
}

// TokenCmd inspects and refreshes stored tokens.
type TokenCmd struct {
	Show    TokenShowCmd    `cmd:"" help:"Show the claims of the stored tokens"`
	Refresh TokenRefreshCmd `cmd:"" help:"Exchange the refresh token for a new access token"`
}

// TokenShowCmd prints the claims of the stored tokens. Signatures are not
// verified.
type TokenShowCmd struct{}

func (c *TokenShowCmd) Run(ctx context.Context, globals *Globals) error {
	return withApp(ctx, globals, func(a *app) error {
		w := a.table()
		fmt.Fprintln(w, "KEY\tFINGERPRINT\tTYPE\tUSER ID\tEXPIRES\tSTATUS")

		now := time.Now()
		for _, key := range []string{tokenstore.KeyAccess, tokenstore.KeyRefresh, tokenstore.KeyAdminAccess, tokenstore.KeyAdminRefresh} {
			token, err := a.store.Get(ctx, key)
			if errors.Is(err, tokenstore.ErrNotFound) {
				continue
			}
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", key, err)
			}

			info, err := flows.InspectToken(token)
			if err != nil {
				fmt.Fprintf(w, "%s\t%s\t-\t-\t-\tunreadable\n", key, shortFingerprint(flows.Fingerprint(token)))
				continue
			}

			status := "valid"
			if info.Expired(now) {
				status = "expired"
			}
			expires := "-"
			if !info.ExpiresAt.IsZero() {
				expires = info.ExpiresAt.Local().Format(time.DateTime)
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n", key, shortFingerprint(info.Fingerprint), orDash(info.TokenType), orDash(info.UserID), expires, status)
		}
		return w.Flush()
	})
}

func shortFingerprint(fp string) string {
	if len(fp) > 12 {
		return fp[:12] + "..."
	}
	return fp
}

// TokenRefreshCmd rotates an access token.
type TokenRefreshCmd struct {
	Admin bool `help:"Refresh the admin session instead of the storefront session"`
}

func (c *TokenRefreshCmd) Run(ctx context.Context, globals *Globals) error {
	return withApp(ctx, globals, func(a *app) error {
		var err error
		if c.Admin {
			err = a.adminFlows().RefreshAccess(ctx)
		} else {
			err = a.storefrontFlows().RefreshAccess(ctx)
		}
		if err != nil {
			return err
		}
		a.println("Access token refreshed.")
		return nil
	})
}
