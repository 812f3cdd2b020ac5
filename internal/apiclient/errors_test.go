package apiclient

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDecodeError(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		kind    Kind
		message string
		banned  bool
	}{
		{
			name:    "invalid credentials",
			status:  http.StatusUnauthorized,
			body:    `{"detail":"Invalid username or password."}`,
			kind:    KindAuthentication,
			message: "Invalid username or password.",
		},
		{
			name:    "error key",
			status:  http.StatusNotFound,
			body:    `{"error":"Item not found"}`,
			kind:    KindBusinessRule,
			message: "Item not found",
		},
		{
			name:    "banned account",
			status:  http.StatusForbidden,
			body:    `{"detail":"Your account has been banned. Reason: spam","banned":true}`,
			kind:    KindBusinessRule,
			message: "Your account has been banned. Reason: spam",
			banned:  true,
		},
		{
			name:    "not staff",
			status:  http.StatusForbidden,
			body:    `{"detail":"You do not have admin access."}`,
			kind:    KindAuthentication,
			message: "You do not have admin access.",
		},
		{
			name:    "field errors as lists",
			status:  http.StatusBadRequest,
			body:    `{"username":["A user with that username already exists."]}`,
			kind:    KindValidation,
			message: "username: A user with that username already exists.",
		},
		{
			name:    "field error as string",
			status:  http.StatusBadRequest,
			body:    `{"password":"Passwords do not match."}`,
			kind:    KindValidation,
			message: "password: Passwords do not match.",
		},
		{
			name:    "non field errors",
			status:  http.StatusBadRequest,
			body:    `{"non_field_errors":["Bad input."]}`,
			kind:    KindValidation,
			message: "Bad input.",
		},
		{
			name:    "server error without body",
			status:  http.StatusInternalServerError,
			body:    `<html>oops</html>`,
			kind:    KindServer,
			message: "Internal Server Error",
		},
		{
			name:    "missing item",
			status:  http.StatusNotFound,
			body:    `{"detail":"No CartItem matches the given query."}`,
			kind:    KindBusinessRule,
			message: "No CartItem matches the given query.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := decodeError(http.MethodPost, "login/", tt.status, []byte(tt.body))
			assert.Equal(t, tt.kind, e.Kind)
			assert.Equal(t, tt.message, e.Message())
			assert.Equal(t, tt.banned, e.Banned)
			assert.Equal(t, tt.status, e.StatusCode)
		})
	}
}

func TestError_Is(t *testing.T) {
	e := decodeError(http.MethodGet, "cart/", http.StatusUnauthorized, nil)
	wrapped := fmt.Errorf("failed to fetch cart: %w", e)

	assert.ErrorIs(t, wrapped, ErrUnauthenticated)
	assert.False(t, errors.Is(wrapped, ErrValidation))
}

func TestMessageOr(t *testing.T) {
	e := decodeError(http.MethodPost, "cart/add/", http.StatusBadRequest, []byte(`{"detail":"Only 2 unit(s) available in stock."}`))
	assert.Equal(t, "Only 2 unit(s) available in stock.", MessageOr(e, "Failed to add item."))
	assert.Equal(t, "Failed to add item.", MessageOr(errors.New("boom"), "Failed to add item."))
}
