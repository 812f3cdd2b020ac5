package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/wolfeidau/luxe/internal/tokenstore"
)

// ErrMissingTokens is returned by AdminLogin when a token is empty.
var ErrMissingTokens = errors.New("access and refresh tokens are required")

// LogoutPolicy controls what AdminLogout does to a fallback-derived session.
type LogoutPolicy int

const (
	// LogoutKeepsFallback clears only the admin bundle. A staff user with a
	// normal session is re-admitted through fallback on the next Init.
	LogoutKeepsFallback LogoutPolicy = iota

	// LogoutEndsFallback also ends the normal session when the admin session
	// came from it.
	LogoutEndsFallback
)

// ParseLogoutPolicy maps "keep" and "end" to a policy.
func ParseLogoutPolicy(s string) (LogoutPolicy, error) {
	switch s {
	case "", "keep":
		return LogoutKeepsFallback, nil
	case "end":
		return LogoutEndsFallback, nil
	default:
		return LogoutKeepsFallback, fmt.Errorf("unknown admin logout policy %q", s)
	}
}

func (p LogoutPolicy) String() string {
	if p == LogoutEndsFallback {
		return "end"
	}
	return "keep"
}

// AdminState is a snapshot of the admin session.
type AdminState struct {
	State    State
	Identity *Identity
	Source   Source
}

// Authenticated reports whether an admin is logged in.
func (s AdminState) Authenticated() bool {
	return s.State == StateAuthenticated && s.Identity != nil
}

// AdminConfig configures an AdminSession.
type AdminConfig struct {
	LogoutPolicy LogoutPolicy

	// User, when set, is logged out instead of clearing the normal bundle
	// directly under LogoutEndsFallback, so its subscribers are notified.
	User *UserSession
}

// AdminSession tracks access to the admin console.
type AdminSession struct {
	store  tokenstore.Store
	config AdminConfig
	state  *Watchable[AdminState]
}

// NewAdminSession creates a session in the checking state. A nil config uses
// LogoutKeepsFallback.
func NewAdminSession(store tokenstore.Store, config *AdminConfig) *AdminSession {
	if config == nil {
		config = &AdminConfig{}
	}

	return &AdminSession{
		store:  store,
		config: *config,
		state:  NewWatchable(AdminState{State: StateChecking}),
	}
}

// Init derives the admin state from the stored bundles.
func (a *AdminSession) Init(ctx context.Context) error {
	admin, err := LoadBundle(ctx, a.store, SlotAdmin)
	if err != nil {
		a.state.Set(AdminState{State: StateAnonymous})
		return err
	}

	// only consult the normal bundle when no dedicated session exists
	var normal *Bundle
	if admin == nil {
		normal, err = LoadBundle(ctx, a.store, SlotNormal)
		if err != nil {
			a.state.Set(AdminState{State: StateAnonymous})
			return err
		}
	}

	res := Resolve(normal, admin)
	if !res.Authenticated() {
		log.Debug().Msg("no admin session")
		a.state.Set(AdminState{State: StateAnonymous})
		return nil
	}

	log.Debug().
		Str("admin", res.Identity.DisplayName()).
		Str("source", string(res.Source)).
		Msg("restored admin session")

	a.state.Set(AdminState{State: StateAuthenticated, Identity: res.Identity, Source: res.Source})
	return nil
}

// AdminLogin stores a dedicated admin bundle.
func (a *AdminSession) AdminLogin(ctx context.Context, id Identity, access, refresh string) error {
	if id.DisplayName() == "" {
		return ErrEmptyIdentity
	}
	if access == "" || refresh == "" {
		return ErrMissingTokens
	}

	err := SaveBundle(ctx, a.store, SlotAdmin, Bundle{
		AccessToken:  access,
		RefreshToken: refresh,
		Identity:     id,
	})
	if err != nil {
		return err
	}

	log.Info().Str("admin", id.DisplayName()).Msg("admin logged in")
	a.state.Set(AdminState{State: StateAuthenticated, Identity: &id, Source: SourceDedicated})
	return nil
}

// AdminLogout clears the admin bundle. Under LogoutEndsFallback a
// fallback-derived session also ends the normal session.
func (a *AdminSession) AdminLogout(ctx context.Context) error {
	prev := a.state.Get()

	if err := ClearBundle(ctx, a.store, SlotAdmin); err != nil {
		return fmt.Errorf("failed to logout admin: %w", err)
	}

	if a.config.LogoutPolicy == LogoutEndsFallback && prev.Source == SourceFallback {
		if err := a.endNormalSession(ctx); err != nil {
			return err
		}
	}

	log.Info().Str("policy", a.config.LogoutPolicy.String()).Msg("admin logged out")
	a.state.Set(AdminState{State: StateAnonymous})
	return nil
}

func (a *AdminSession) endNormalSession(ctx context.Context) error {
	if a.config.User != nil {
		return a.config.User.Logout(ctx)
	}
	if err := ClearBundle(ctx, a.store, SlotNormal); err != nil {
		return fmt.Errorf("failed to end fallback session: %w", err)
	}
	return nil
}

// Ready reports whether protected admin views may be rendered.
func (a *AdminSession) Ready() bool {
	return a.state.Get().State.Settled()
}

// Current returns the present state.
func (a *AdminSession) Current() AdminState {
	return a.state.Get()
}

// Subscribe registers fn for state transitions.
func (a *AdminSession) Subscribe(fn func(AdminState)) func() {
	return a.state.Subscribe(fn)
}
