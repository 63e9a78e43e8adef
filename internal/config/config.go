package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Catalog source kinds
const (
	SourceDir      = "dir"
	SourcePostgres = "postgres"
)

// Config holds all configuration for the registry server
type Config struct {
	Server   ServerConfig
	Catalog  CatalogConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Cache    CacheConfig
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host          string
	Port          int
	PublicBaseURL string
}

// CatalogConfig controls where records come from and how failures are treated
type CatalogConfig struct {
	Source          string
	Dir             string
	Strict          bool
	RefreshInterval time.Duration
}

// DatabaseConfig holds PostgreSQL configuration for the postgres source
type DatabaseConfig struct {
	DSN           string
	MigrationsDir string
}

// RedisConfig holds Redis configuration. An empty address disables caching.
type RedisConfig struct {
	Address  string
	Password string
	DB       int
}

// CacheConfig holds response cache configuration
type CacheConfig struct {
	TTL time.Duration
}

// Load reads an optional .env file and then the environment
func Load() (*Config, error) {
	if err := godotenv.Load(getEnv("ENV_FILE", ".env")); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load env file: %w", err)
	}

	cfg := &Config{
		Server: ServerConfig{
			Host:          getEnv("SERVER_HOST", "0.0.0.0"),
			Port:          getEnvAsInt("SERVER_PORT", 8080),
			PublicBaseURL: getEnv("PUBLIC_BASE_URL", ""),
		},
		Catalog: CatalogConfig{
			Source:          getEnv("CATALOG_SOURCE", SourceDir),
			Dir:             getEnv("CATALOG_DIR", "./data/tools"),
			Strict:          getEnvAsBool("CATALOG_STRICT", true),
			RefreshInterval: getEnvAsDuration("CATALOG_REFRESH_INTERVAL", 0),
		},
		Database: DatabaseConfig{
			DSN:           getEnv("DATABASE_DSN", ""),
			MigrationsDir: getEnv("DATABASE_MIGRATIONS_DIR", "./migrations"),
		},
		Redis: RedisConfig{
			Address:  getEnv("REDIS_ADDRESS", ""),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		Cache: CacheConfig{
			TTL: getEnvAsDuration("CACHE_TTL", 5*time.Minute),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	switch c.Catalog.Source {
	case SourceDir:
		if c.Catalog.Dir == "" {
			return fmt.Errorf("catalog directory is required")
		}
	case SourcePostgres:
		if c.Database.DSN == "" {
			return fmt.Errorf("database DSN is required for the postgres catalog source")
		}
	default:
		return fmt.Errorf("unknown catalog source: %q", c.Catalog.Source)
	}

	if c.Catalog.RefreshInterval < 0 {
		return fmt.Errorf("invalid refresh interval: %s", c.Catalog.RefreshInterval)
	}
	if c.Cache.TTL < 0 {
		return fmt.Errorf("invalid cache TTL: %s", c.Cache.TTL)
	}

	return nil
}

// Addr is the listen address of the HTTP server
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// Helper functions

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
