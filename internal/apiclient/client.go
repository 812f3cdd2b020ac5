// Package apiclient is the HTTP layer shared by the storefront and admin API
// bindings. It resolves paths against a fixed base URL, injects bearer tokens
// according to a Policy and turns failed responses into *Error values.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/wolfeidau/luxe/internal/logger"
	"github.com/wolfeidau/luxe/internal/tokenstore"
)

// Config holds common client configuration
type Config struct {
	ServerURL string
	Timeout   time.Duration
	Debug     bool

	// CacheCatalogue enables the response cache for product and category reads.
	CacheCatalogue bool
	// CacheDir stores cached responses on disk; empty keeps them in memory.
	CacheDir string
}

// DefaultConfig returns a default client configuration
func DefaultConfig() Config {
	return Config{
		ServerURL: "http://127.0.0.1:8000/api/",
		Timeout:   30 * time.Second,
		Debug:     false,
	}
}

// Client performs JSON requests against the API.
type Client struct {
	baseURL *url.URL
	http    *http.Client
	policy  Policy
}

// New creates a client authenticating through store under policy.
func New(config Config, store tokenstore.Store, policy Policy) (*Client, error) {
	base, err := parseBaseURL(config.ServerURL)
	if err != nil {
		return nil, err
	}

	var transport http.RoundTripper = http.DefaultTransport
	if config.CacheCatalogue {
		transport = NewCachingTransport(transport, config.CacheDir)
	}
	transport = logger.NewHTTPRequests(log.Logger, transport)
	transport = &AuthTransport{Base: transport, Store: store, Policy: policy}

	return &Client{
		baseURL: base,
		http:    &http.Client{Timeout: config.Timeout, Transport: transport},
		policy:  policy,
	}, nil
}

// NewStorefront creates the client used for customer endpoints.
func NewStorefront(config Config, store tokenstore.Store) (*Client, error) {
	return New(config, store, StorefrontPolicy)
}

// NewAdmin creates the client used for admin console endpoints.
func NewAdmin(config Config, store tokenstore.Store) (*Client, error) {
	return New(config, store, AdminPolicy)
}

// BaseURL returns the configured API origin.
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

// Get is shorthand for Do with GET and no body.
func (c *Client) Get(ctx context.Context, path string, query url.Values, out any) error {
	if len(query) > 0 {
		path = path + "?" + query.Encode()
	}
	return c.Do(ctx, http.MethodGet, path, nil, out)
}

// Do sends body as JSON to path (relative to the base URL) and decodes a 2xx
// response into out. out may be nil. Non-2xx responses and transport failures
// are returned as *Error.
func (c *Client) Do(ctx context.Context, method, path string, body, out any) error {
	ref, err := url.Parse(strings.TrimPrefix(path, "/"))
	if err != nil {
		return fmt.Errorf("invalid path %q: %w", path, err)
	}
	target := c.baseURL.ResolveReference(ref)

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, target.String(), reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return newTransportError(method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return newTransportError(method, path, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := decodeError(method, path, resp.StatusCode, data)
		log.Debug().
			Str("client", c.policy.Name).
			Str("kind", apiErr.Kind.String()).
			Int("status", resp.StatusCode).
			Msg("api call rejected")
		return apiErr
	}

	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}

	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to decode %s %s response: %w", method, path, err)
	}
	return nil
}

func parseBaseURL(raw string) (*url.URL, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid server url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("invalid server url %q: scheme must be http or https", raw)
	}
	if !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}
	return u, nil
}
