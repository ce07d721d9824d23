package config

import (
	"testing"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadFrom(vars map[string]string) (*Config, error) {
	return load(env.Options{Environment: vars})
}

func TestLoad_Defaults(t *testing.T) {
	t.Parallel()

	cfg, err := loadFrom(map[string]string{})
	require.NoError(t, err)

	assert.Equal(t, 3001, cfg.Server.Port)
	assert.Equal(t, ":3001", cfg.Server.Addr())
	assert.Equal(t, "release", cfg.Server.GinMode)
	assert.Equal(t, []string{"*"}, cfg.Server.CORSAllowOrigins)
	assert.Equal(t, 5.0, cfg.Server.AuthRateLimit)
	assert.Equal(t, 10, cfg.Server.AuthRateBurst)

	assert.Equal(t, DevJWTSecret, cfg.Auth.JWTSecret)
	assert.True(t, cfg.Auth.UsesDevSecret())
	assert.Equal(t, "todo_backend", cfg.Auth.JWTIssuer)
	assert.Equal(t, 24*time.Hour, cfg.Auth.JWTExpiration)
	assert.Equal(t, 10, cfg.Auth.BcryptCost)
	assert.Zero(t, cfg.Auth.HashConcurrency)

	assert.Equal(t, StoreMemory, cfg.Store.Driver)
	assert.Empty(t, cfg.Store.DSN, "the memory store takes no DSN")
	assert.Equal(t, time.Minute, cfg.Store.ConnectTimeout)

	assert.Empty(t, cfg.Redis.Addr)
	assert.Equal(t, 5*time.Minute, cfg.Redis.CacheTTL)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoad_AllFields(t *testing.T) {
	t.Parallel()

	cfg, err := loadFrom(map[string]string{
		"PORT":               "8080",
		"GIN_MODE":           "debug",
		"CORS_ALLOW_ORIGINS": "http://localhost:3000,https://todo.example.com",
		"AUTH_RATE_LIMIT":    "0.5",
		"AUTH_RATE_BURST":    "3",
		"JWT_SECRET":         "s3cret",
		"JWT_ISSUER":         "issuer",
		"JWT_EXPIRATION":     "1h",
		"BCRYPT_COST":        "12",
		"HASH_CONCURRENCY":   "4",
		"STORE_DRIVER":       "Postgres",
		"DATABASE_DSN":       "postgres://u:p@localhost/todos",
		"REDIS_ADDR":         "localhost:6379",
		"REDIS_PASSWORD":     "pw",
		"REDIS_DB":           "2",
		"ACCOUNT_CACHE_TTL":  "30s",
		"LOG_LEVEL":          "debug",
	})
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Addr())
	assert.Equal(t, []string{"http://localhost:3000", "https://todo.example.com"}, cfg.Server.CORSAllowOrigins)
	assert.Equal(t, 0.5, cfg.Server.AuthRateLimit)
	assert.Equal(t, "s3cret", cfg.Auth.JWTSecret)
	assert.False(t, cfg.Auth.UsesDevSecret())
	assert.Equal(t, time.Hour, cfg.Auth.JWTExpiration)
	assert.Equal(t, 12, cfg.Auth.BcryptCost)
	assert.Equal(t, 4, cfg.Auth.HashConcurrency)
	assert.Equal(t, StorePostgres, cfg.Store.Driver, "driver is normalized to lower case")
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
	assert.Equal(t, 2, cfg.Redis.DB)
	assert.Equal(t, 30*time.Second, cfg.Redis.CacheTTL)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoad_Invalid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		vars    map[string]string
		wantErr string
	}{
		{"unparsable port", map[string]string{"PORT": "abc"}, "error getting env configs"},
		{"port out of range", map[string]string{"PORT": "70000"}, "PORT 70000 out of range"},
		{"bad gin mode", map[string]string{"GIN_MODE": "prod"}, "GIN_MODE"},
		{"negative rate", map[string]string{"AUTH_RATE_LIMIT": "-1"}, "AUTH_RATE_LIMIT"},
		{"zero expiration", map[string]string{"JWT_EXPIRATION": "0s"}, "JWT_EXPIRATION"},
		{"cost too low", map[string]string{"BCRYPT_COST": "3"}, "BCRYPT_COST 3"},
		{"negative concurrency", map[string]string{"HASH_CONCURRENCY": "-2"}, "HASH_CONCURRENCY"},
		{"unknown driver", map[string]string{"STORE_DRIVER": "mysql"}, "STORE_DRIVER"},
		{"postgres without dsn", map[string]string{"STORE_DRIVER": "postgres"}, "DATABASE_DSN is required for postgres"},
		{"zero cache ttl", map[string]string{"ACCOUNT_CACHE_TTL": "0s"}, "ACCOUNT_CACHE_TTL"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg, err := loadFrom(tt.vars)

			require.Error(t, err)
			assert.Nil(t, cfg)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoad_SQLiteDSNDefault(t *testing.T) {
	t.Parallel()

	cfg, err := loadFrom(map[string]string{"STORE_DRIVER": "sqlite"})
	require.NoError(t, err)
	assert.Equal(t, DefaultSQLiteDSN, cfg.Store.DSN)

	cfg, err = loadFrom(map[string]string{"STORE_DRIVER": "sqlite", "DATABASE_DSN": "todos.db"})
	require.NoError(t, err)
	assert.Equal(t, "todos.db", cfg.Store.DSN)
}

func TestStore_Volatile(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		store Store
		want  bool
	}{
		{"memory", Store{Driver: StoreMemory}, true},
		{"sqlite default", Store{Driver: StoreSQLite, DSN: DefaultSQLiteDSN}, true},
		{"sqlite plain memory", Store{Driver: StoreSQLite, DSN: ":memory:"}, true},
		{"sqlite named memory", Store{Driver: StoreSQLite, DSN: "file:todos?mode=memory&cache=shared"}, true},
		{"sqlite file", Store{Driver: StoreSQLite, DSN: "todos.db"}, false},
		{"postgres", Store{Driver: StorePostgres, DSN: "postgres://u:p@localhost/todos"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.store.Volatile())
		})
	}
}

func TestValidate_ReportsAllErrors(t *testing.T) {
	t.Parallel()

	cfg, err := loadFrom(map[string]string{})
	require.NoError(t, err)

	cfg.Server.Port = 0
	cfg.Auth.BcryptCost = 99
	cfg.Store.Driver = StorePostgres
	cfg.Store.DSN = ""

	err = cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "PORT")
	assert.Contains(t, err.Error(), "BCRYPT_COST")
	assert.Contains(t, err.Error(), "DATABASE_DSN is required for postgres")
}

func TestLoad_ReadsProcessEnvironment(t *testing.T) {
	t.Setenv("PORT", "4000")
	t.Setenv("JWT_SECRET", "from-env")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 4000, cfg.Server.Port)
	assert.Equal(t, "from-env", cfg.Auth.JWTSecret)
}
