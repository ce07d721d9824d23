// Package di provides dependency injection factories for creating application components.
package di

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"todo_backend/internal/config"
	authusecase "todo_backend/internal/feature/auth/usecase"
	taskusecase "todo_backend/internal/feature/tasks/usecase"
	"todo_backend/internal/platform/cache"
	"todo_backend/internal/platform/db"
	"todo_backend/internal/platform/store/gormstore"
	"todo_backend/internal/platform/store/memory"
)

// RecordStore is what both features need from persistence, plus Reset for
// test isolation.
type RecordStore interface {
	authusecase.AccountRepository
	taskusecase.TaskRepository
	Reset(ctx context.Context) error
}

// NewRecordStore creates the store selected by cfg.Driver and a function
// releasing its resources.
func NewRecordStore(cfg config.Store) (RecordStore, func() error, error) {
	switch cfg.Driver {
	case config.StoreMemory:
		return memory.NewStore(), func() error { return nil }, nil
	case config.StoreSQLite, config.StorePostgres:
		dbCfg := db.Config{Driver: cfg.Driver, DSN: cfg.DSN, ConnectTimeout: cfg.ConnectTimeout}
		if cfg.Driver == config.StoreSQLite {
			dbCfg.MaxOpenConns = 1
		}
		gdb, err := db.OpenDB(dbCfg, gormstore.Models()...)
		if err != nil {
			return nil, nil, err
		}
		sqlDB, err := gdb.DB()
		if err != nil {
			return nil, nil, err
		}
		return gormstore.NewStore(gdb), sqlDB.Close, nil
	default:
		return nil, nil, fmt.Errorf("unsupported store driver %q", cfg.Driver)
	}
}

// NewAccountRepository wraps accounts with the Redis cache when rdb is set and
// returns the function that empties that cache. When the store does not
// outlive the process its leftover cache entries are purged here, so a
// restart cannot resurrect accounts.
func NewAccountRepository(ctx context.Context, rdb *redis.Client, cfg config.Redis, volatile bool, accounts authusecase.AccountRepository) (authusecase.AccountRepository, func(context.Context) error, error) {
	if rdb == nil {
		return accounts, func(context.Context) error { return nil }, nil
	}
	cached := cache.NewCachingAccountRepository(rdb, cfg.CacheTTL, accounts, "accounts")
	if volatile {
		if err := cached.Purge(ctx); err != nil {
			return nil, nil, fmt.Errorf("failed to purge account cache: %w", err)
		}
	}
	return cached, cached.Purge, nil
}
