package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate points the loader at a missing env file and clears the keys read
func isolate(t *testing.T) {
	t.Helper()
	t.Setenv("ENV_FILE", filepath.Join(t.TempDir(), "missing.env"))
	for _, key := range []string{
		"SERVER_HOST", "SERVER_PORT", "PUBLIC_BASE_URL",
		"CATALOG_SOURCE", "CATALOG_DIR", "CATALOG_STRICT", "CATALOG_REFRESH_INTERVAL",
		"DATABASE_DSN", "DATABASE_MIGRATIONS_DIR",
		"REDIS_ADDRESS", "REDIS_PASSWORD", "REDIS_DB", "CACHE_TTL",
	} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func TestLoad_Defaults(t *testing.T) {
	isolate(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:8080", cfg.Addr())
	assert.Equal(t, SourceDir, cfg.Catalog.Source)
	assert.Equal(t, "./data/tools", cfg.Catalog.Dir)
	assert.True(t, cfg.Catalog.Strict)
	assert.Zero(t, cfg.Catalog.RefreshInterval)
	assert.Empty(t, cfg.Redis.Address)
	assert.Equal(t, 5*time.Minute, cfg.Cache.TTL)
	assert.Equal(t, "./migrations", cfg.Database.MigrationsDir)
}

func TestLoad_Environment(t *testing.T) {
	isolate(t)
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("CATALOG_SOURCE", "postgres")
	t.Setenv("DATABASE_DSN", "postgres://u:p@db:5432/registry")
	t.Setenv("CATALOG_STRICT", "false")
	t.Setenv("CATALOG_REFRESH_INTERVAL", "30s")
	t.Setenv("REDIS_ADDRESS", "redis:6379")
	t.Setenv("REDIS_DB", "2")
	t.Setenv("CACHE_TTL", "1m")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, SourcePostgres, cfg.Catalog.Source)
	assert.False(t, cfg.Catalog.Strict)
	assert.Equal(t, 30*time.Second, cfg.Catalog.RefreshInterval)
	assert.Equal(t, "redis:6379", cfg.Redis.Address)
	assert.Equal(t, 2, cfg.Redis.DB)
	assert.Equal(t, time.Minute, cfg.Cache.TTL)
}

func TestLoad_EnvFile(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(path, []byte("SERVER_PORT=7070\nCATALOG_DIR=/srv/tools\n"), 0o644))
	t.Setenv("ENV_FILE", path)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 7070, cfg.Server.Port)
	assert.Equal(t, "/srv/tools", cfg.Catalog.Dir)
}

func TestLoad_MalformedValuesFallBack(t *testing.T) {
	isolate(t)
	t.Setenv("SERVER_PORT", "not-a-port")
	t.Setenv("CATALOG_STRICT", "maybe")
	t.Setenv("CACHE_TTL", "soon")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.True(t, cfg.Catalog.Strict)
	assert.Equal(t, 5*time.Minute, cfg.Cache.TTL)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Server:  ServerConfig{Host: "0.0.0.0", Port: 8080},
			Catalog: CatalogConfig{Source: SourceDir, Dir: "./data/tools"},
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{"valid", func(c *Config) {}, ""},
		{"port zero", func(c *Config) { c.Server.Port = 0 }, "invalid server port"},
		{"port too high", func(c *Config) { c.Server.Port = 70000 }, "invalid server port"},
		{"unknown source", func(c *Config) { c.Catalog.Source = "s3" }, "unknown catalog source"},
		{"postgres without dsn", func(c *Config) { c.Catalog.Source = SourcePostgres }, "database DSN is required"},
		{"empty dir", func(c *Config) { c.Catalog.Dir = "" }, "catalog directory is required"},
		{"negative refresh", func(c *Config) { c.Catalog.RefreshInterval = -time.Second }, "invalid refresh interval"},
		{"negative ttl", func(c *Config) { c.Cache.TTL = -time.Second }, "invalid cache TTL"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
