package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/wolfeidau/luxe/internal/tokenstore"
)

// ErrEmptyIdentity is returned by Login when the identity has no name.
var ErrEmptyIdentity = errors.New("identity has no name")

// UserState is a snapshot of the normal session.
type UserState struct {
	State    State
	Identity *Identity
}

// Authenticated reports whether a user is logged in.
func (s UserState) Authenticated() bool {
	return s.State == StateAuthenticated && s.Identity != nil
}

// UserSession tracks the normal storefront login.
//
// Login does not perform the network exchange; the caller stores the tokens
// and then hands over the identity returned by the server.
type UserSession struct {
	store tokenstore.Store
	state *Watchable[UserState]
}

// NewUserSession creates a session in the checking state. Call Init to derive
// the state from the store.
func NewUserSession(store tokenstore.Store) *UserSession {
	return &UserSession{
		store: store,
		state: NewWatchable(UserState{State: StateChecking}),
	}
}

// Init derives the state from the normal bundle. A corrupt bundle leaves the
// session anonymous and is reported.
func (u *UserSession) Init(ctx context.Context) error {
	b, err := LoadBundle(ctx, u.store, SlotNormal)
	if err != nil {
		u.state.Set(UserState{State: StateAnonymous})
		return err
	}

	if b == nil {
		log.Debug().Msg("no stored user session")
		u.state.Set(UserState{State: StateAnonymous})
		return nil
	}

	log.Debug().Str("user", b.Identity.DisplayName()).Msg("restored user session")
	u.state.Set(UserState{State: StateAuthenticated, Identity: &b.Identity})
	return nil
}

// Login records id as the current user.
func (u *UserSession) Login(ctx context.Context, id Identity) error {
	if id.DisplayName() == "" {
		return ErrEmptyIdentity
	}

	if err := SaveIdentity(ctx, u.store, SlotNormal, id); err != nil {
		return err
	}

	log.Info().Str("user", id.DisplayName()).Bool("staff", id.IsStaff).Msg("user logged in")
	u.state.Set(UserState{State: StateAuthenticated, Identity: &id})
	return nil
}

// Logout clears the normal bundle.
func (u *UserSession) Logout(ctx context.Context) error {
	if err := ClearBundle(ctx, u.store, SlotNormal); err != nil {
		return fmt.Errorf("failed to logout: %w", err)
	}

	log.Info().Msg("user logged out")
	u.state.Set(UserState{State: StateAnonymous})
	return nil
}

// Current returns the present state.
func (u *UserSession) Current() UserState {
	return u.state.Get()
}

// Subscribe registers fn for state transitions.
func (u *UserSession) Subscribe(fn func(UserState)) func() {
	return u.state.Subscribe(fn)
}
