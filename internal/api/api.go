// Package api binds the LUXE REST endpoints to typed Go calls. Storefront
// calls go through the normal-session client; Admin calls go through the admin
// client with its token fallback.
package api

import (
	"context"
	"errors"
	"net/url"
)

// Sentinel errors for input rejected before any request is made.
var (
	ErrMissingCredentials = errors.New("missing username or password")
	ErrPasswordMismatch   = errors.New("passwords do not match")
	ErrInvalidQuantity    = errors.New("quantity must be at least 1")
	ErrBanReasonRequired  = errors.New("ban reason required")
	ErrInvalidStatus      = errors.New("invalid order status")
	ErrMissingRefresh     = errors.New("missing refresh token")
)

var messages = map[error]string{
	ErrMissingCredentials: "Username and password are required.",
	ErrPasswordMismatch:   "Passwords do not match.",
	ErrInvalidQuantity:    "Quantity must be at least 1.",
	ErrBanReasonRequired:  "A ban reason is required.",
	ErrInvalidStatus:      "Unknown order status.",
	ErrMissingRefresh:     "Refresh token is required.",
}

// Message returns the text shown to a user for one of the sentinel errors
// above, wrapped or not.
func Message(err error) (string, bool) {
	for sentinel, msg := range messages {
		if errors.Is(err, sentinel) {
			return msg, true
		}
	}
	return "", false
}

// Requester is the transport the bindings need; *apiclient.Client implements it.
type Requester interface {
	Do(ctx context.Context, method, path string, body, out any) error
	Get(ctx context.Context, path string, query url.Values, out any) error
}

type credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func validCredentials(username, password string) error {
	if username == "" || password == "" {
		return ErrMissingCredentials
	}
	return nil
}
