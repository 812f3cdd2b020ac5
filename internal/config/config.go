// Package config loads the CLI settings. Values are layered: defaults, then the
// YAML file, then a .env file, then LUXE_* environment variables. Command line
// flags are applied last by the caller.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/wolfeidau/luxe/internal/session"
	"github.com/wolfeidau/luxe/internal/tokenstore"
	"gopkg.in/yaml.v3"
)

// Environment variables read by Load.
const (
	EnvServerURL         = "LUXE_SERVER_URL"
	EnvStore             = "LUXE_STORE"
	EnvTimeout           = "LUXE_TIMEOUT"
	EnvCacheDir          = "LUXE_CACHE_DIR"
	EnvCacheCatalogue    = "LUXE_CACHE_CATALOGUE"
	EnvAdminLogoutPolicy = "LUXE_ADMIN_LOGOUT_POLICY"
	EnvDebug             = "LUXE_DEBUG"
)

var ErrInvalidConfig = errors.New("invalid config")

// Config holds the CLI settings.
type Config struct {
	ServerURL         string        `yaml:"server_url"`
	Store             string        `yaml:"store"`
	Timeout           time.Duration `yaml:"timeout"`
	CacheCatalogue    bool          `yaml:"cache_catalogue"`
	CacheDir          string        `yaml:"cache_dir"`
	AdminLogoutPolicy string        `yaml:"admin_logout_policy"`
	Debug             bool          `yaml:"debug"`
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		ServerURL:         "http://127.0.0.1:8000/api/",
		Store:             "file://~/.luxe/session.json",
		Timeout:           30 * time.Second,
		AdminLogoutPolicy: session.LogoutKeepsFallback.String(),
	}
}

// DefaultPath returns ~/.luxe/config.yaml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".luxe", "config.yaml"), nil
}

// Load builds the config. An empty path reads DefaultPath when it exists; an
// explicit path must exist. envFile is optional.
func Load(path, envFile string) (*Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		var err error
		if path, err = DefaultPath(); err != nil {
			return nil, err
		}
	}

	if err := cfg.readFile(path, explicit); err != nil {
		return nil, err
	}

	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to load env file %s: %w", envFile, err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	return cfg, cfg.Validate()
}

func (c *Config) readFile(path string, required bool) error {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) && !required {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() error {
	c.ServerURL = getEnv(EnvServerURL, c.ServerURL)
	c.Store = getEnv(EnvStore, c.Store)
	c.CacheDir = getEnv(EnvCacheDir, c.CacheDir)
	c.AdminLogoutPolicy = getEnv(EnvAdminLogoutPolicy, c.AdminLogoutPolicy)

	if v, ok := os.LookupEnv(EnvTimeout); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%w: %s: %v", ErrInvalidConfig, EnvTimeout, err)
		}
		c.Timeout = d
	}

	for name, dst := range map[string]*bool{EnvDebug: &c.Debug, EnvCacheCatalogue: &c.CacheCatalogue} {
		if v, ok := os.LookupEnv(name); ok {
			b, err := strconv.ParseBool(v)
			if err != nil {
				return fmt.Errorf("%w: %s: %v", ErrInvalidConfig, name, err)
			}
			*dst = b
		}
	}
	return nil
}

// Validate checks the server URL, the store location and the logout policy.
func (c *Config) Validate() error {
	u, err := url.Parse(c.ServerURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%w: server_url must be an http(s) URL, got %q", ErrInvalidConfig, c.ServerURL)
	}

	scheme, _, ok := strings.Cut(c.Store, "://")
	if !ok || !slices.Contains(tokenstore.Schemes, scheme) {
		return fmt.Errorf("%w: store must use one of %v, got %q", ErrInvalidConfig, tokenstore.Schemes, c.Store)
	}

	if c.Timeout <= 0 {
		return fmt.Errorf("%w: timeout must be positive", ErrInvalidConfig)
	}

	if _, err := session.ParseLogoutPolicy(c.AdminLogoutPolicy); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return nil
}

// LogoutPolicy returns the parsed admin logout policy.
func (c *Config) LogoutPolicy() session.LogoutPolicy {
	p, _ := session.ParseLogoutPolicy(c.AdminLogoutPolicy)
	return p
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}
