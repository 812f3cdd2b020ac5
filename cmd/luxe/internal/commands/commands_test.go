package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wolfeidau/luxe/internal/api"
	"github.com/wolfeidau/luxe/internal/cart"
	"github.com/wolfeidau/luxe/internal/tokenstore"
)

const cartJSON = `{"items":[{"id":7,"product":{"id":3,"name":"Silk Scarf","price":"49.99"},"quantity":2,"subtotal":"99.98"}],"total":"99.98","item_count":2}`

// fakeShop answers the endpoints the commands exercise. Authenticated
// endpoints require the bearer token issued at login.
func fakeShop(t *testing.T) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	authed := func(h http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			if r.Header.Get("Authorization") != "Bearer acc-ann" {
				w.WriteHeader(http.StatusUnauthorized)
				_, _ = w.Write([]byte(`{"detail":"Authentication credentials were not provided."}`))
				return
			}
			h(w, r)
		}
	}

	mux.HandleFunc("POST /api/login/", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		if body["password"] != "secret" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"error":"Invalid credentials"}`))
			return
		}
		_, _ = w.Write([]byte(`{"access":"acc-ann","refresh":"ref-ann","user":{"id":1,"username":"ann","is_staff":true,"is_active":true}}`))
	})
	mux.HandleFunc("GET /api/cart/", authed(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(cartJSON))
	}))
	mux.HandleFunc("POST /api/cart/add/", authed(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(cartJSON))
	}))
	mux.HandleFunc("GET /api/products/", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[{"id":3,"name":"Silk Scarf","price":"49.99","stock":4,"is_available":true,"category":{"id":1,"name":"Accessories","slug":"accessories"}}]`))
	})
	mux.HandleFunc("GET /api/profile/", authed(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"id":1,"username":"ann","email":"ann@example.com","is_staff":true,"is_active":true,"date_joined":"2024-03-01T10:00:00Z"}`))
	}))
	mux.HandleFunc("GET /api/admin/stats/", authed(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"total_users":2,"total_products":1,"total_orders":5,"total_revenue":"1250.00"}`))
	}))

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func newGlobals(t *testing.T, srv *httptest.Server) (*Globals, *bytes.Buffer) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())

	out := &bytes.Buffer{}
	return &Globals{
		Server: srv.URL + "/api/",
		Store:  "file://" + filepath.Join(t.TempDir(), "session.json"),
		Stdout: out,
	}, out
}

func TestStorefrontCommands(t *testing.T) {
	ctx := context.Background()
	srv := fakeShop(t)
	globals, out := newGlobals(t, srv)

	run := func(t *testing.T, cmd interface {
		Run(context.Context, *Globals) error
	}) string {
		t.Helper()
		out.Reset()
		require.NoError(t, cmd.Run(ctx, globals))
		return out.String()
	}

	t.Run("products are public", func(t *testing.T) {
		assert.Contains(t, run(t, &ProductsListCmd{}), "Silk Scarf")
	})

	t.Run("add to cart requires login", func(t *testing.T) {
		err := (&CartAddCmd{ProductID: 3, Quantity: 1}).Run(ctx, globals)
		require.EqualError(t, err, "Please login to add items to cart.")
	})

	t.Run("bad password", func(t *testing.T) {
		err := (&LoginCmd{Username: "ann", Password: "nope"}).Run(ctx, globals)
		require.EqualError(t, err, "Invalid credentials")
	})

	t.Run("login needs a password", func(t *testing.T) {
		err := (&LoginCmd{Username: "ann"}).Run(ctx, globals)
		require.EqualError(t, err, "Username and password are required.")
	})

	t.Run("whoami skips the server when anonymous", func(t *testing.T) {
		got := run(t, &WhoamiCmd{Remote: true})
		assert.NotContains(t, got, "Account")
		assert.Contains(t, got, "storefront  anonymous")
	})

	t.Run("login", func(t *testing.T) {
		assert.Contains(t, run(t, &LoginCmd{Username: "ann", Password: "secret"}), "Logged in as ann")
	})

	t.Run("whoami shows fallback admin", func(t *testing.T) {
		got := run(t, &WhoamiCmd{})
		assert.Contains(t, got, "storefront  authenticated  ann")
		assert.Contains(t, got, "fallback")
	})

	t.Run("whoami fetches the remote account", func(t *testing.T) {
		got := run(t, &WhoamiCmd{Remote: true})
		assert.Contains(t, got, "Account ann <ann@example.com> joined 2024-03-01T10:00:00Z")
		assert.Contains(t, got, "storefront  authenticated  ann")
	})

	t.Run("cart add uses stored token", func(t *testing.T) {
		got := run(t, &CartAddCmd{ProductID: 3, Quantity: 2})
		assert.Contains(t, got, "Silk Scarf")
		assert.Contains(t, got, "2 item(s), total 99.98")
	})

	t.Run("admin stats through fallback", func(t *testing.T) {
		assert.Contains(t, run(t, &AdminStatsCmd{}), "1250.00")
	})

	t.Run("logout", func(t *testing.T) {
		assert.Contains(t, run(t, &LogoutCmd{}), "Logged out.")
		assert.Contains(t, run(t, &CartShowCmd{}), "Your cart is empty.")

		err := (&AdminStatsCmd{}).Run(ctx, globals)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "admin login required")
	})
}

func TestRequireAdmin(t *testing.T) {
	ctx := context.Background()
	srv := fakeShop(t)
	globals, _ := newGlobals(t, srv)

	a, err := newApp(ctx, globals)
	require.NoError(t, err)
	defer func() { _ = tokenstore.Close(a.store) }()

	require.EqualError(t, a.requireAdmin(), "admin session has not been restored")

	require.NoError(t, a.admin.Init(ctx))
	err = a.requireAdmin()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "admin login required")
}

func TestUserError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"login required", fmt.Errorf("failed to add item: %w", cart.ErrLoginRequired), "Please login to add items to cart."},
		{"local validation", api.ErrPasswordMismatch, "Passwords do not match."},
		{"other errors pass through", errors.New("boom"), "boom"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.EqualError(t, userError(tt.err), tt.want)
		})
	}
	assert.NoError(t, userError(nil))
}

func TestNewApp_InvalidStore(t *testing.T) {
	srv := fakeShop(t)
	globals, _ := newGlobals(t, srv)
	globals.Store = "s3://bucket"

	err := (&WhoamiCmd{}).Run(context.Background(), globals)
	require.Error(t, err)
}

func TestProductFlags_Images(t *testing.T) {
	tests := []struct {
		name  string
		flags ProductFlags
		want  string
	}{
		{"untouched", ProductFlags{Stock: -1}, `{}`},
		{"replaced", ProductFlags{Stock: -1, ImageURLs: []string{"a.jpg", "b.jpg"}}, `{"image_urls":["a.jpg","b.jpg"]}`},
		{"cleared", ProductFlags{Stock: -1, ClearImages: true}, `{"image_urls":[]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := json.Marshal(tt.flags.input())
			require.NoError(t, err)
			assert.JSONEq(t, tt.want, string(data))
		})
	}
}
