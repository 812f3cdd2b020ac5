package flows

import (
	"context"

	"github.com/rs/zerolog/log"
	"github.com/wolfeidau/luxe/internal/api"
	"github.com/wolfeidau/luxe/internal/session"
	"github.com/wolfeidau/luxe/internal/tokenstore"
)

// AdminAPI is the part of api.Admin the login flow uses.
type AdminAPI interface {
	Login(ctx context.Context, username, password string) (*api.TokenPair, error)
}

// Admin runs the admin console login and logout sequences.
type Admin struct {
	api       AdminAPI
	refresher Refresher
	store     tokenstore.Store
	admin     *session.AdminSession
}

// NewAdmin creates the admin flows. refresher rotates the admin access token
// and may be nil when refreshing is not needed.
func NewAdmin(adminAPI AdminAPI, refresher Refresher, store tokenstore.Store, admin *session.AdminSession) *Admin {
	return &Admin{api: adminAPI, refresher: refresher, store: store, admin: admin}
}

// Login authenticates a staff account and starts a dedicated admin session.
func (a *Admin) Login(ctx context.Context, username, password string) (session.Identity, error) {
	pair, err := a.api.Login(ctx, username, password)
	if err != nil {
		return session.Identity{}, err
	}

	id := identityFrom(pair.User, "")
	if id.DisplayName() == "" {
		id.Username = username
	}

	if err := a.admin.AdminLogin(ctx, id, pair.Access, pair.Refresh); err != nil {
		return session.Identity{}, err
	}
	return id, nil
}

// Logout ends the admin session.
func (a *Admin) Logout(ctx context.Context) error {
	return a.admin.AdminLogout(ctx)
}

// RefreshAccess rotates the dedicated admin access token.
func (a *Admin) RefreshAccess(ctx context.Context) error {
	if a.refresher == nil {
		return ErrNotLoggedIn
	}
	if _, err := refreshSlot(ctx, a.store, a.refresher, session.SlotAdmin); err != nil {
		return err
	}
	log.Info().Msg("admin access token refreshed")
	return nil
}
