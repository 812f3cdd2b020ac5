// Package cart keeps the shopping cart snapshot in step with the logged-in
// user. The snapshot is always the last cart the server returned; totals are
// never computed locally.
package cart

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/wolfeidau/luxe/internal/api"
	"github.com/wolfeidau/luxe/internal/session"
)

// ErrLoginRequired is returned by AddItem when nobody is logged in.
var ErrLoginRequired = errors.New("login required")

// LoginRequiredMessage is shown in place of ErrLoginRequired.
const LoginRequiredMessage = "Please login to add items to cart."

// EmptyTotal is the total of an empty cart.
const EmptyTotal = "0.00"

// API is the subset of the storefront bindings the cart uses.
type API interface {
	Cart(ctx context.Context) (*api.Cart, error)
	AddToCart(ctx context.Context, productID, quantity int) (*api.Cart, error)
	UpdateCartItem(ctx context.Context, itemID, quantity int) (*api.Cart, error)
	RemoveCartItem(ctx context.Context, itemID int) (*api.Cart, error)
	ClearCart(ctx context.Context) (*api.Cart, error)
}

// Snapshot is the cart as last reported by the server.
type Snapshot struct {
	Items     []api.CartItem
	Total     string
	ItemCount int
}

// Empty returns the snapshot of an empty cart.
func Empty() Snapshot {
	return Snapshot{Items: []api.CartItem{}, Total: EmptyTotal}
}

func fromAPI(c *api.Cart) Snapshot {
	s := Snapshot{Items: c.Items, Total: c.Total, ItemCount: c.ItemCount}
	if s.Items == nil {
		s.Items = []api.CartItem{}
	}
	if s.Total == "" {
		s.Total = EmptyTotal
	}
	return s
}

// Config tunes a Slice.
type Config struct {
	// FetchTimeout bounds the refetch triggered by a login or logout.
	FetchTimeout time.Duration
}

// DefaultConfig returns the defaults used when NewSlice is given nil.
func DefaultConfig() *Config {
	return &Config{FetchTimeout: 30 * time.Second}
}

// Slice holds the cart for the current user session.
type Slice struct {
	api     API
	user    *session.UserSession
	config  *Config
	state   *session.Watchable[Snapshot]
	unwatch func()

	mu       sync.Mutex
	lastErr  error
	identity string
	seen     bool
}

// NewSlice creates a cart slice that refetches whenever the logged-in
// identity changes.
func NewSlice(cartAPI API, user *session.UserSession, config *Config) *Slice {
	if config == nil {
		config = DefaultConfig()
	}

	s := &Slice{
		api:    cartAPI,
		user:   user,
		config: config,
		state:  session.NewWatchable(Empty()),
	}
	s.unwatch = user.Subscribe(s.onUserChange)
	return s
}

// Close stops following the user session.
func (s *Slice) Close() {
	if s.unwatch != nil {
		s.unwatch()
	}
}

func (s *Slice) onUserChange(us session.UserState) {
	if !us.State.Settled() {
		return
	}

	key := ""
	if us.Authenticated() {
		key = us.Identity.DisplayName()
	}

	s.mu.Lock()
	changed := !s.seen || key != s.identity
	s.seen = true
	s.identity = key
	s.mu.Unlock()

	if !changed {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.config.FetchTimeout)
	defer cancel()

	if err := s.Fetch(ctx); err != nil {
		log.Warn().Err(err).Msg("failed to refresh cart after session change")
	}
}

// Snapshot returns the current cart.
func (s *Slice) Snapshot() Snapshot {
	return s.state.Get()
}

// Subscribe registers fn for cart changes.
func (s *Slice) Subscribe(fn func(Snapshot)) func() {
	return s.state.Subscribe(fn)
}

// LastError returns the error of the most recent failed operation, or nil
// once an operation succeeds.
func (s *Slice) LastError() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

// Fetch reloads the cart. Without a logged-in user the cart is reset to empty
// and no request is made.
func (s *Slice) Fetch(ctx context.Context) error {
	if !s.user.Current().Authenticated() {
		s.replace(Empty())
		return nil
	}
	return s.apply(s.api.Cart(ctx))
}

// AddItem adds quantity units of a product.
func (s *Slice) AddItem(ctx context.Context, productID, quantity int) error {
	if !s.user.Current().Authenticated() {
		s.fail(ErrLoginRequired)
		return ErrLoginRequired
	}
	return s.apply(s.api.AddToCart(ctx, productID, quantity))
}

// UpdateItemQuantity sets the quantity of a cart line.
func (s *Slice) UpdateItemQuantity(ctx context.Context, itemID, quantity int) error {
	return s.apply(s.api.UpdateCartItem(ctx, itemID, quantity))
}

// RemoveItem deletes a cart line.
func (s *Slice) RemoveItem(ctx context.Context, itemID int) error {
	return s.apply(s.api.RemoveCartItem(ctx, itemID))
}

// Clear empties the cart.
func (s *Slice) Clear(ctx context.Context) error {
	return s.apply(s.api.ClearCart(ctx))
}

func (s *Slice) apply(c *api.Cart, err error) error {
	if err != nil {
		s.fail(err)
		return err
	}
	s.replace(fromAPI(c))
	return nil
}

func (s *Slice) fail(err error) {
	s.mu.Lock()
	s.lastErr = err
	s.mu.Unlock()
}

func (s *Slice) replace(snap Snapshot) {
	s.mu.Lock()
	s.lastErr = nil
	s.mu.Unlock()

	log.Debug().Int("items", snap.ItemCount).Str("total", snap.Total).Msg("cart updated")
	s.state.Set(snap)
}
