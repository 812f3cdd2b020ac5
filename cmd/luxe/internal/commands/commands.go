package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/rs/zerolog/log"
	"github.com/wolfeidau/luxe/internal/api"
	"github.com/wolfeidau/luxe/internal/apiclient"
	"github.com/wolfeidau/luxe/internal/cart"
	"github.com/wolfeidau/luxe/internal/config"
	"github.com/wolfeidau/luxe/internal/flows"
	"github.com/wolfeidau/luxe/internal/logger"
	"github.com/wolfeidau/luxe/internal/session"
	"github.com/wolfeidau/luxe/internal/tokenstore"
)

type Globals struct {
	Debug   bool
	Config  string
	EnvFile string
	Server  string
	Store   string
	Version string

	// Stdout receives command output; nil means os.Stdout.
	Stdout io.Writer
}

func (g *Globals) out() io.Writer {
	if g.Stdout != nil {
		return g.Stdout
	}
	return os.Stdout
}

// app is everything a command needs, built from the layered config.
type app struct {
	config *config.Config
	store  tokenstore.Store
	out    io.Writer

	user  *session.UserSession
	admin *session.AdminSession

	storefront *api.Storefront
	adminAPI   *api.Admin
}

func newApp(ctx context.Context, globals *Globals) (*app, error) {
	cfg, err := config.Load(globals.Config, globals.EnvFile)
	if err != nil {
		return nil, err
	}
	if globals.Server != "" {
		cfg.ServerURL = globals.Server
	}
	if globals.Store != "" {
		cfg.Store = globals.Store
	}
	cfg.Debug = cfg.Debug || globals.Debug
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	log.Logger = logger.Setup(cfg.Debug)

	store, err := tokenstore.Open(ctx, cfg.Store)
	if err != nil {
		return nil, fmt.Errorf("failed to open session store: %w", err)
	}

	clientConfig := apiclient.Config{
		ServerURL:      cfg.ServerURL,
		Timeout:        cfg.Timeout,
		Debug:          cfg.Debug,
		CacheCatalogue: cfg.CacheCatalogue,
		CacheDir:       cfg.CacheDir,
	}
	storefrontClient, err := apiclient.NewStorefront(clientConfig, store)
	if err != nil {
		return nil, fmt.Errorf("failed to create storefront client: %w", err)
	}
	adminClient, err := apiclient.NewAdmin(clientConfig, store)
	if err != nil {
		return nil, fmt.Errorf("failed to create admin client: %w", err)
	}

	user := session.NewUserSession(store)
	admin := session.NewAdminSession(store, &session.AdminConfig{LogoutPolicy: cfg.LogoutPolicy(), User: user})

	return &app{
		config:     cfg,
		store:      store,
		out:        globals.out(),
		user:       user,
		admin:      admin,
		storefront: api.NewStorefront(storefrontClient),
		adminAPI:   api.NewAdmin(adminClient),
	}, nil
}

// withApp builds the app, derives both sessions from the store and runs fn.
func withApp(ctx context.Context, globals *Globals, fn func(a *app) error) error {
	a, err := newApp(ctx, globals)
	if err != nil {
		return err
	}
	defer func() {
		if err := tokenstore.Close(a.store); err != nil {
			log.Warn().Err(err).Msg("failed to close session store")
		}
	}()

	if err := a.user.Init(ctx); err != nil {
		log.Warn().Err(err).Msg("stored user session is unreadable")
	}
	if err := a.admin.Init(ctx); err != nil {
		log.Warn().Err(err).Msg("stored admin session is unreadable")
	}

	return userError(fn(a))
}

func (a *app) storefrontFlows() *flows.Storefront {
	return flows.NewStorefront(a.storefront, a.store, a.user)
}

func (a *app) adminFlows() *flows.Admin {
	return flows.NewAdmin(a.adminAPI, a.storefront, a.store, a.admin)
}

func (a *app) cart() *cart.Slice {
	return cart.NewSlice(a.storefront, a.user, nil)
}

func (a *app) table() *tabwriter.Writer {
	return tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
}

func (a *app) println(args ...any) {
	fmt.Fprintln(a.out, args...)
}

func (a *app) printf(format string, args ...any) {
	fmt.Fprintf(a.out, format, args...)
}

// requireAdmin fails unless the admin session has settled as authenticated.
func (a *app) requireAdmin() error {
	if !a.admin.Ready() {
		return errors.New("admin session has not been restored")
	}
	if !a.admin.Current().Authenticated() {
		return fmt.Errorf("admin login required: run luxe admin login")
	}
	return nil
}

// userError replaces API failures with the message the server gave and local
// validation failures with their user-facing text.
func userError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, cart.ErrLoginRequired) {
		return errors.New(cart.LoginRequiredMessage)
	}
	if msg, ok := api.Message(err); ok {
		return errors.New(msg)
	}
	if msg := apiclient.MessageOr(err, ""); msg != "" {
		return errors.New(msg)
	}
	return err
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
