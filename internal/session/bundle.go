// Package session models the two client-side login sessions: the normal
// storefront session and the admin console session. Sessions are derived from
// bundles persisted in a tokenstore.Store and exposed as observable state.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/wolfeidau/luxe/internal/tokenstore"
)

// ErrInvalidIdentity is returned when a stored identity cannot be decoded.
var ErrInvalidIdentity = errors.New("invalid stored identity")

// Identity is the profile snapshot captured at login time. It is never
// re-fetched from the server.
type Identity struct {
	ID         int    `json:"id,omitempty"`
	Name       string `json:"name,omitempty"`
	Username   string `json:"username,omitempty"`
	Email      string `json:"email,omitempty"`
	FullName   string `json:"full_name,omitempty"`
	IsStaff    bool   `json:"is_staff"`
	IsActive   bool   `json:"is_active,omitempty"`
	BanReason  string `json:"ban_reason,omitempty"`
	DateJoined string `json:"date_joined,omitempty"`
}

// DisplayName returns the name shown for the identity.
func (i Identity) DisplayName() string {
	if i.Name != "" {
		return i.Name
	}
	return i.Username
}

// Slot names one of the two bundle slots.
type Slot string

const (
	SlotNormal Slot = "normal"
	SlotAdmin  Slot = "admin"
)

// SlotKeys are the store keys backing a slot.
type SlotKeys struct {
	Access  string
	Refresh string
	User    string
}

// Keys returns the store keys for the slot.
func (s Slot) Keys() SlotKeys {
	if s == SlotAdmin {
		return SlotKeys{
			Access:  tokenstore.KeyAdminAccess,
			Refresh: tokenstore.KeyAdminRefresh,
			User:    tokenstore.KeyAdminUser,
		}
	}
	return SlotKeys{
		Access:  tokenstore.KeyAccess,
		Refresh: tokenstore.KeyRefresh,
		User:    tokenstore.KeyUser,
	}
}

// All returns the three keys in write order.
func (k SlotKeys) All() []string {
	return []string{k.Access, k.Refresh, k.User}
}

// Bundle is one authenticated identity with its credentials.
type Bundle struct {
	AccessToken  string
	RefreshToken string
	Identity     Identity
}

// LoadBundle reads a slot from the store. It returns nil when the slot has no
// identity. Missing tokens are left empty.
func LoadBundle(ctx context.Context, store tokenstore.Store, slot Slot) (*Bundle, error) {
	keys := slot.Keys()

	raw, err := store.Get(ctx, keys.User)
	if errors.Is(err, tokenstore.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s identity: %w", slot, err)
	}

	var id Identity
	if err := json.Unmarshal([]byte(raw), &id); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidIdentity, slot, err)
	}

	access, err := optional(ctx, store, keys.Access)
	if err != nil {
		return nil, err
	}
	refresh, err := optional(ctx, store, keys.Refresh)
	if err != nil {
		return nil, err
	}

	return &Bundle{AccessToken: access, RefreshToken: refresh, Identity: id}, nil
}

// SaveBundle writes all three keys of a slot, atomically when the store supports it.
func SaveBundle(ctx context.Context, store tokenstore.Store, slot Slot, b Bundle) error {
	keys := slot.Keys()

	data, err := json.Marshal(b.Identity)
	if err != nil {
		return fmt.Errorf("failed to marshal identity: %w", err)
	}

	values := map[string]string{
		keys.Access:  b.AccessToken,
		keys.Refresh: b.RefreshToken,
		keys.User:    string(data),
	}

	if bs, ok := store.(tokenstore.BatchStore); ok {
		if err := bs.SetMany(ctx, values); err != nil {
			return fmt.Errorf("failed to save %s bundle: %w", slot, err)
		}
		return nil
	}

	for _, k := range keys.All() {
		if err := store.Set(ctx, k, values[k]); err != nil {
			return fmt.Errorf("failed to save %s bundle: %w", slot, err)
		}
	}
	return nil
}

// SaveIdentity writes only the identity key of a slot.
func SaveIdentity(ctx context.Context, store tokenstore.Store, slot Slot, id Identity) error {
	data, err := json.Marshal(id)
	if err != nil {
		return fmt.Errorf("failed to marshal identity: %w", err)
	}
	if err := store.Set(ctx, slot.Keys().User, string(data)); err != nil {
		return fmt.Errorf("failed to save %s identity: %w", slot, err)
	}
	return nil
}

// ClearBundle removes all three keys of a slot.
func ClearBundle(ctx context.Context, store tokenstore.Store, slot Slot) error {
	keys := slot.Keys().All()

	if bs, ok := store.(tokenstore.BatchStore); ok {
		if err := bs.RemoveMany(ctx, keys...); err != nil {
			return fmt.Errorf("failed to clear %s bundle: %w", slot, err)
		}
		return nil
	}

	for _, k := range keys {
		if err := store.Remove(ctx, k); err != nil {
			return fmt.Errorf("failed to clear %s bundle: %w", slot, err)
		}
	}
	return nil
}

func optional(ctx context.Context, store tokenstore.Store, key string) (string, error) {
	v, err := store.Get(ctx, key)
	if errors.Is(err, tokenstore.ErrNotFound) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", key, err)
	}
	return v, nil
}
