package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wolfeidau/luxe/internal/session"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{EnvServerURL, EnvStore, EnvTimeout, EnvCacheDir, EnvCacheCatalogue, EnvAdminLogoutPolicy, EnvDebug} {
		t.Setenv(k, "")
		require.NoError(t, os.Unsetenv(k))
	}
	t.Setenv("HOME", t.TempDir())
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load("", "")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.Equal(t, session.LogoutKeepsFallback, cfg.LogoutPolicy())
}

func TestLoad_Layers(t *testing.T) {
	clearEnv(t)

	path := writeFile(t, "config.yaml", `
server_url: https://shop.example.com/api/
store: sqlite:///tmp/luxe.db
timeout: 5s
admin_logout_policy: end
`)

	t.Run("file overrides defaults", func(t *testing.T) {
		cfg, err := Load(path, "")
		require.NoError(t, err)
		assert.Equal(t, "https://shop.example.com/api/", cfg.ServerURL)
		assert.Equal(t, "sqlite:///tmp/luxe.db", cfg.Store)
		assert.Equal(t, 5*time.Second, cfg.Timeout)
		assert.Equal(t, session.LogoutEndsFallback, cfg.LogoutPolicy())
	})

	t.Run("env overrides file", func(t *testing.T) {
		t.Setenv(EnvStore, "memory://")
		t.Setenv(EnvTimeout, "1m")
		t.Setenv(EnvDebug, "true")

		cfg, err := Load(path, "")
		require.NoError(t, err)
		assert.Equal(t, "https://shop.example.com/api/", cfg.ServerURL)
		assert.Equal(t, "memory://", cfg.Store)
		assert.Equal(t, time.Minute, cfg.Timeout)
		assert.True(t, cfg.Debug)
	})

	t.Run("dotenv file feeds env", func(t *testing.T) {
		t.Setenv(EnvCacheDir, "")
		require.NoError(t, os.Unsetenv(EnvCacheDir))
		envFile := writeFile(t, ".env", "LUXE_CACHE_DIR=/tmp/luxe-cache\n")
		t.Cleanup(func() { _ = os.Unsetenv(EnvCacheDir) })

		cfg, err := Load(path, envFile)
		require.NoError(t, err)
		assert.Equal(t, "/tmp/luxe-cache", cfg.CacheDir)
	})

	t.Run("missing dotenv file is ignored", func(t *testing.T) {
		_, err := Load(path, filepath.Join(t.TempDir(), ".env"))
		require.NoError(t, err)
	})
}

func TestLoad_Errors(t *testing.T) {
	clearEnv(t)

	t.Run("explicit file must exist", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"), "")
		require.Error(t, err)
	})

	t.Run("bad yaml", func(t *testing.T) {
		_, err := Load(writeFile(t, "config.yaml", "server_url: [\n"), "")
		require.Error(t, err)
	})

	t.Run("bad timeout env", func(t *testing.T) {
		t.Setenv(EnvTimeout, "soon")
		_, err := Load("", "")
		require.ErrorIs(t, err, ErrInvalidConfig)
	})
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		ok     bool
	}{
		{"defaults", func(*Config) {}, true},
		{"redis store", func(c *Config) { c.Store = "redis://localhost:6379/0" }, true},
		{"ftp server", func(c *Config) { c.ServerURL = "ftp://example.com/" }, false},
		{"no host", func(c *Config) { c.ServerURL = "http:///api/" }, false},
		{"unknown store", func(c *Config) { c.Store = "s3://bucket" }, false},
		{"bare path store", func(c *Config) { c.Store = "/tmp/session.json" }, false},
		{"zero timeout", func(c *Config) { c.Timeout = 0 }, false},
		{"bad policy", func(c *Config) { c.AdminLogoutPolicy = "sometimes" }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, ErrInvalidConfig)
			}
		})
	}
}
