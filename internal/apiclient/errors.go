package apiclient

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
)

// Sentinel errors matched by *Error through errors.Is.
var (
	ErrTransport       = errors.New("transport failure")
	ErrUnauthenticated = errors.New("authentication rejected")
	ErrValidation      = errors.New("validation rejected")
	ErrBusinessRule    = errors.New("business rule rejected")
	ErrServer          = errors.New("server error")
)

// Kind classifies a failed call.
type Kind int

const (
	KindTransport Kind = iota + 1
	KindAuthentication
	KindValidation
	KindBusinessRule
	KindServer
)

func (k Kind) String() string {
	switch k {
	case KindTransport:
		return "transport"
	case KindAuthentication:
		return "authentication"
	case KindValidation:
		return "validation"
	case KindBusinessRule:
		return "business_rule"
	case KindServer:
		return "server"
	default:
		return "unknown"
	}
}

func (k Kind) sentinel() error {
	switch k {
	case KindTransport:
		return ErrTransport
	case KindAuthentication:
		return ErrUnauthenticated
	case KindValidation:
		return ErrValidation
	case KindBusinessRule:
		return ErrBusinessRule
	case KindServer:
		return ErrServer
	default:
		return nil
	}
}

// Error is returned for every failed API call. The client never retries;
// callers decide how to present it.
type Error struct {
	Kind       Kind
	Method     string
	Path       string
	StatusCode int

	// Detail is the server's "detail" or "error" message, when present.
	Detail string

	// Banned is set when the server rejected a login for a banned account.
	Banned bool

	// Fields holds per-field validation messages.
	Fields map[string][]string

	cause error
}

func (e *Error) Error() string {
	if e.Kind == KindTransport {
		return fmt.Sprintf("%s %s: %v", e.Method, e.Path, e.cause)
	}
	return fmt.Sprintf("%s %s: %d %s", e.Method, e.Path, e.StatusCode, e.Message())
}

func (e *Error) Unwrap() error {
	return e.cause
}

func (e *Error) Is(target error) bool {
	return target == e.Kind.sentinel()
}

// Message returns the text to show a user.
func (e *Error) Message() string {
	if e.Detail != "" {
		return e.Detail
	}

	if len(e.Fields) > 0 {
		names := make([]string, 0, len(e.Fields))
		for name := range e.Fields {
			names = append(names, name)
		}
		sort.Strings(names)

		name := names[0]
		msg := strings.Join(e.Fields[name], " ")
		if name == "non_field_errors" {
			return msg
		}
		return name + ": " + msg
	}

	if e.Kind == KindTransport {
		return "Unable to reach the server. Please try again."
	}

	return http.StatusText(e.StatusCode)
}

// MessageOr returns err's user message when it is an *Error, otherwise fallback.
func MessageOr(err error, fallback string) string {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		if msg := apiErr.Message(); msg != "" {
			return msg
		}
	}
	return fallback
}

func newTransportError(method, path string, cause error) *Error {
	return &Error{Kind: KindTransport, Method: method, Path: path, cause: cause}
}

// decodeError builds an *Error from a non-2xx response body.
func decodeError(method, path string, status int, body []byte) *Error {
	e := &Error{Method: method, Path: path, StatusCode: status}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err == nil {
		for k, v := range raw {
			switch k {
			case "detail", "error":
				_ = json.Unmarshal(v, &e.Detail)
			case "banned":
				_ = json.Unmarshal(v, &e.Banned)
			default:
				if msgs := fieldMessages(v); len(msgs) > 0 {
					if e.Fields == nil {
						e.Fields = make(map[string][]string)
					}
					e.Fields[k] = msgs
				}
			}
		}
	}

	e.Kind = classify(status, e.Banned)
	return e
}

func classify(status int, banned bool) Kind {
	switch {
	case status == http.StatusUnauthorized:
		return KindAuthentication
	case status == http.StatusForbidden && banned:
		return KindBusinessRule
	case status == http.StatusForbidden:
		return KindAuthentication
	case status == http.StatusBadRequest:
		return KindValidation
	case status >= 500:
		return KindServer
	default:
		return KindBusinessRule
	}
}

// fieldMessages accepts either a string or a list of strings.
func fieldMessages(v json.RawMessage) []string {
	var list []string
	if err := json.Unmarshal(v, &list); err == nil {
		return list
	}
	var one string
	if err := json.Unmarshal(v, &one); err == nil && one != "" {
		return []string{one}
	}
	return nil
}
