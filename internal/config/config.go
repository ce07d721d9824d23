// Package config loads the server configuration from environment variables.
package config

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// Store drivers.
const (
	StoreMemory   = "memory"
	StoreSQLite   = "sqlite"
	StorePostgres = "postgres"
)

// DefaultSQLiteDSN is used when STORE_DRIVER=sqlite and DATABASE_DSN is unset.
const DefaultSQLiteDSN = "file::memory:?cache=shared"

// DevJWTSecret signs tokens when JWT_SECRET is unset. Never rely on it outside development.
const DevJWTSecret = "dev-only-insecure-jwt-secret"

// Config is the full server configuration.
type Config struct {
	Server Server
	Auth   Auth
	Store  Store
	Redis  Redis
	Log    Log
}

// Server holds listener and HTTP layer settings.
type Server struct {
	Port             int      `env:"PORT" envDefault:"3001"`
	GinMode          string   `env:"GIN_MODE" envDefault:"release"`
	CORSAllowOrigins []string `env:"CORS_ALLOW_ORIGINS" envDefault:"*" envSeparator:","`
	AuthRateLimit    float64  `env:"AUTH_RATE_LIMIT" envDefault:"5"`
	AuthRateBurst    int      `env:"AUTH_RATE_BURST" envDefault:"10"`
}

// Auth holds token and password hashing settings.
type Auth struct {
	JWTSecret       string        `env:"JWT_SECRET"`
	JWTIssuer       string        `env:"JWT_ISSUER" envDefault:"todo_backend"`
	JWTExpiration   time.Duration `env:"JWT_EXPIRATION" envDefault:"24h"`
	BcryptCost      int           `env:"BCRYPT_COST" envDefault:"10"`
	HashConcurrency int           `env:"HASH_CONCURRENCY" envDefault:"0"`
}

// Store selects and configures the record store.
type Store struct {
	Driver         string        `env:"STORE_DRIVER" envDefault:"memory"`
	DSN            string        `env:"DATABASE_DSN"`
	ConnectTimeout time.Duration `env:"DATABASE_CONNECT_TIMEOUT" envDefault:"60s"`
}

// Redis configures the optional account cache. An empty Addr disables it.
type Redis struct {
	Addr     string        `env:"REDIS_ADDR"`
	Password string        `env:"REDIS_PASSWORD"`
	DB       int           `env:"REDIS_DB" envDefault:"0"`
	CacheTTL time.Duration `env:"ACCOUNT_CACHE_TTL" envDefault:"5m"`
}

// Log holds logger settings.
type Log struct {
	Level string `env:"LOG_LEVEL" envDefault:"info"`
}

// Volatile reports whether the store's records vanish with the process.
func (s Store) Volatile() bool {
	switch s.Driver {
	case StoreMemory:
		return true
	case StoreSQLite:
		return strings.Contains(s.DSN, ":memory:") || strings.Contains(s.DSN, "mode=memory")
	default:
		return false
	}
}

// Addr returns the listen address for the configured port.
func (s Server) Addr() string {
	return fmt.Sprintf(":%d", s.Port)
}

// UsesDevSecret reports whether JWT_SECRET was left unset.
func (a Auth) UsesDevSecret() bool {
	return a.JWTSecret == DevJWTSecret
}

// Load parses the environment and validates the result.
func Load() (*Config, error) {
	return load(env.Options{})
}

func load(opts env.Options) (*Config, error) {
	cfg := &Config{}
	if err := env.ParseWithOptions(cfg, opts); err != nil {
		return nil, fmt.Errorf("error getting env configs: %w", err)
	}
	cfg.Store.Driver = strings.ToLower(cfg.Store.Driver)
	if cfg.Store.Driver == StoreSQLite && cfg.Store.DSN == "" {
		cfg.Store.DSN = DefaultSQLiteDSN
	}
	if cfg.Auth.JWTSecret == "" {
		cfg.Auth.JWTSecret = DevJWTSecret
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports every invalid setting at once.
func (c *Config) Validate() error {
	var errs []error

	if c.Server.Port < 1 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("PORT %d out of range", c.Server.Port))
	}
	if !slices.Contains([]string{"debug", "release", "test"}, c.Server.GinMode) {
		errs = append(errs, fmt.Errorf("GIN_MODE %q must be debug, release or test", c.Server.GinMode))
	}
	if c.Server.AuthRateLimit < 0 {
		errs = append(errs, errors.New("AUTH_RATE_LIMIT must not be negative"))
	}
	if c.Auth.JWTExpiration <= 0 {
		errs = append(errs, errors.New("JWT_EXPIRATION must be positive"))
	}
	if c.Auth.BcryptCost < 4 || c.Auth.BcryptCost > 31 {
		errs = append(errs, fmt.Errorf("BCRYPT_COST %d out of range [4, 31]", c.Auth.BcryptCost))
	}
	if c.Auth.HashConcurrency < 0 {
		errs = append(errs, errors.New("HASH_CONCURRENCY must not be negative"))
	}
	switch c.Store.Driver {
	case StoreMemory, StoreSQLite:
	case StorePostgres:
		if c.Store.DSN == "" {
			errs = append(errs, errors.New("DATABASE_DSN is required for postgres"))
		}
	default:
		errs = append(errs, fmt.Errorf("STORE_DRIVER %q must be memory, sqlite or postgres", c.Store.Driver))
	}
	if c.Redis.CacheTTL <= 0 {
		errs = append(errs, errors.New("ACCOUNT_CACHE_TTL must be positive"))
	}

	return errors.Join(errs...)
}
