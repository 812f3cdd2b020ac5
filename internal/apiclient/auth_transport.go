package apiclient

import (
	"errors"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/wolfeidau/luxe/internal/tokenstore"
	"golang.org/x/oauth2"
)

// Policy decides which requests carry a bearer token and where it comes from.
type Policy struct {
	// Name identifies the client in logs.
	Name string

	// TokenKeys are store keys consulted in order; the first non-empty value wins.
	TokenKeys []string

	// Public path fragments never receive a token.
	Public []string
}

// StorefrontPolicy authenticates with the normal session.
var StorefrontPolicy = Policy{
	Name:      "storefront",
	TokenKeys: []string{tokenstore.KeyAccess},
	Public:    []string{"login/", "signup/", "token/refresh/"},
}

// AdminPolicy prefers the dedicated admin session and falls back to the normal
// one, so staff who logged in through the storefront need no second login.
var AdminPolicy = Policy{
	Name:      "admin",
	TokenKeys: []string{tokenstore.KeyAdminAccess, tokenstore.KeyAccess},
	Public:    []string{"admin/login/"},
}

// IsPublic reports whether path matches an allowlisted fragment.
func (p Policy) IsPublic(path string) bool {
	for _, frag := range p.Public {
		if strings.Contains(path, frag) {
			return true
		}
	}
	return false
}

// AuthTransport adds an Authorization header to outgoing requests.
//
// A missing token is not an error: the request goes out without the header
// and the server decides.
type AuthTransport struct {
	Base   http.RoundTripper
	Store  tokenstore.Store
	Policy Policy
}

func (t *AuthTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if t.Policy.IsPublic(req.URL.Path) {
		return t.base().RoundTrip(req)
	}

	token, key := t.resolve(req)
	if token == "" {
		log.Debug().Str("client", t.Policy.Name).Str("path", req.URL.Path).Msg("no token available")
		return t.base().RoundTrip(req)
	}

	log.Debug().Str("client", t.Policy.Name).Str("key", key).Str("path", req.URL.Path).Msg("attaching token")

	authed := req.Clone(req.Context())
	(&oauth2.Token{AccessToken: token, TokenType: "Bearer"}).SetAuthHeader(authed)

	return t.base().RoundTrip(authed)
}

// resolve returns the first non-empty token and the key it was read from.
func (t *AuthTransport) resolve(req *http.Request) (string, string) {
	for _, key := range t.Policy.TokenKeys {
		token, err := t.Store.Get(req.Context(), key)
		if err != nil {
			if !errors.Is(err, tokenstore.ErrNotFound) {
				log.Warn().Err(err).Str("key", key).Msg("failed to read token")
			}
			continue
		}
		if token != "" {
			return token, key
		}
	}
	return "", ""
}

func (t *AuthTransport) base() http.RoundTripper {
	if t.Base != nil {
		return t.Base
	}
	return http.DefaultTransport
}
