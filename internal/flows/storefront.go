package flows

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/wolfeidau/luxe/internal/api"
	"github.com/wolfeidau/luxe/internal/session"
	"github.com/wolfeidau/luxe/internal/tokenstore"
)

// StorefrontAPI is the part of api.Storefront the login flows use.
type StorefrontAPI interface {
	Refresher
	Login(ctx context.Context, username, password string) (*api.TokenPair, error)
	Signup(ctx context.Context, req api.SignupRequest) (*api.TokenPair, error)
}

// Storefront runs the customer login, signup and logout sequences.
type Storefront struct {
	api   StorefrontAPI
	store tokenstore.Store
	user  *session.UserSession
}

// NewStorefront creates the customer flows.
func NewStorefront(storefrontAPI StorefrontAPI, store tokenstore.Store, user *session.UserSession) *Storefront {
	return &Storefront{api: storefrontAPI, store: store, user: user}
}

// Login authenticates username and starts the user session.
func (s *Storefront) Login(ctx context.Context, username, password string) (session.Identity, error) {
	pair, err := s.api.Login(ctx, username, password)
	if err != nil {
		return session.Identity{}, err
	}
	return s.start(ctx, username, pair)
}

// Signup registers an account and starts the user session.
func (s *Storefront) Signup(ctx context.Context, req api.SignupRequest) (session.Identity, error) {
	pair, err := s.api.Signup(ctx, req)
	if err != nil {
		return session.Identity{}, err
	}
	return s.start(ctx, req.Username, pair)
}

func (s *Storefront) start(ctx context.Context, username string, pair *api.TokenPair) (session.Identity, error) {
	keys := session.SlotNormal.Keys()
	tokens := map[string]string{keys.Access: pair.Access, keys.Refresh: pair.Refresh}

	if err := setAll(ctx, s.store, tokens); err != nil {
		return session.Identity{}, fmt.Errorf("failed to store tokens: %w", err)
	}

	id := identityFrom(pair.User, username)
	if err := s.user.Login(ctx, id); err != nil {
		// tokens without an identity would still be sent by the client
		if rmErr := removeAll(ctx, s.store, keys.Access, keys.Refresh); rmErr != nil {
			log.Warn().Err(rmErr).Msg("failed to remove tokens after login failure")
		}
		return session.Identity{}, err
	}
	return id, nil
}

// Logout ends the user session.
func (s *Storefront) Logout(ctx context.Context) error {
	return s.user.Logout(ctx)
}

// RefreshAccess rotates the stored access token. Nothing calls it implicitly.
func (s *Storefront) RefreshAccess(ctx context.Context) error {
	if _, err := refreshSlot(ctx, s.store, s.api, session.SlotNormal); err != nil {
		return err
	}
	log.Info().Msg("access token refreshed")
	return nil
}

func setAll(ctx context.Context, store tokenstore.Store, values map[string]string) error {
	if batch, ok := store.(tokenstore.BatchStore); ok {
		return batch.SetMany(ctx, values)
	}
	for k, v := range values {
		if err := store.Set(ctx, k, v); err != nil {
			return err
		}
	}
	return nil
}

func removeAll(ctx context.Context, store tokenstore.Store, keys ...string) error {
	if batch, ok := store.(tokenstore.BatchStore); ok {
		return batch.RemoveMany(ctx, keys...)
	}
	for _, k := range keys {
		if err := store.Remove(ctx, k); err != nil {
			return err
		}
	}
	return nil
}
