// Package flows ties the API bindings to the sessions: a login stores the
// returned tokens and then hands the identity to the session.
package flows

import (
	"context"
	"errors"
	"fmt"

	"github.com/wolfeidau/luxe/internal/api"
	"github.com/wolfeidau/luxe/internal/session"
	"github.com/wolfeidau/luxe/internal/tokenstore"
)

// ErrNotLoggedIn is returned when an operation needs a stored session.
var ErrNotLoggedIn = errors.New("not logged in")

// Refresher exchanges a refresh token for a new access token.
type Refresher interface {
	RefreshToken(ctx context.Context, refresh string) (string, error)
}

func identityFrom(u *api.User, name string) session.Identity {
	id := session.Identity{Name: name}
	if u == nil {
		return id
	}
	id.ID = u.ID
	id.Username = u.Username
	id.Email = u.Email
	id.FullName = u.FullName
	id.IsStaff = u.IsStaff
	id.IsActive = u.IsActive
	id.BanReason = u.BanReason
	id.DateJoined = u.DateJoined
	return id
}

// refreshSlot rotates the access token of slot using its stored refresh token.
func refreshSlot(ctx context.Context, store tokenstore.Store, refresher Refresher, slot session.Slot) (string, error) {
	keys := slot.Keys()

	refresh, err := store.Get(ctx, keys.Refresh)
	if errors.Is(err, tokenstore.ErrNotFound) {
		return "", ErrNotLoggedIn
	}
	if err != nil {
		return "", fmt.Errorf("failed to read refresh token: %w", err)
	}
	if refresh == "" {
		return "", ErrNotLoggedIn
	}

	access, err := refresher.RefreshToken(ctx, refresh)
	if err != nil {
		return "", err
	}

	if err := store.Set(ctx, keys.Access, access); err != nil {
		return "", fmt.Errorf("failed to store access token: %w", err)
	}
	return access, nil
}
