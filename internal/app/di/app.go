package di

import (
	"context"
	"errors"
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"todo_backend/internal/app/router"
	"todo_backend/internal/config"
	authhandler "todo_backend/internal/feature/auth/transport/handler"
	authusecase "todo_backend/internal/feature/auth/usecase"
	taskhandler "todo_backend/internal/feature/tasks/transport/handler"
	taskusecase "todo_backend/internal/feature/tasks/usecase"
	"todo_backend/internal/platform/hasher"
	jwtmw "todo_backend/internal/platform/jwt"
	"todo_backend/internal/platform/logger"
	platformredis "todo_backend/internal/platform/redis"
	"todo_backend/internal/shared/ratelimiter"
)

// App is the fully wired service.
type App struct {
	Handler *gin.Engine
	Store   RecordStore

	purgeCache func(context.Context) error
	closers    []func() error
}

// Reset drops every record and then every cached account, so tokens issued
// before the reset are rejected.
func (a *App) Reset(ctx context.Context) error {
	if err := a.Store.Reset(ctx); err != nil {
		return fmt.Errorf("failed to reset record store: %w", err)
	}
	if err := a.purgeCache(ctx); err != nil {
		return fmt.Errorf("failed to purge account cache: %w", err)
	}
	return nil
}

// Close releases the store and the Redis client.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// NewApp wires every component from cfg. Redis is optional: when it is
// configured but unreachable the service runs without the account cache.
func NewApp(ctx context.Context, cfg *config.Config, log *logger.Logger) (*App, error) {
	app := &App{}

	store, closeStore, err := NewRecordStore(cfg.Store)
	if err != nil {
		return nil, fmt.Errorf("failed to open record store: %w", err)
	}
	app.Store = store
	app.closers = append(app.closers, closeStore)

	var rdb *redis.Client
	if cfg.Redis.Addr != "" {
		rdb, err = platformredis.NewRedisClient(ctx, platformredis.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		}, log.Logger)
		if err != nil {
			log.Warn().Err(err).Msg("Redis unavailable. Running without cache.")
			rdb = nil
		} else {
			app.closers = append(app.closers, rdb.Close)
		}
	}

	accounts, purge, err := NewAccountRepository(ctx, rdb, cfg.Redis, cfg.Store.Volatile(), store)
	if err != nil {
		_ = app.Close()
		return nil, err
	}
	app.purgeCache = purge

	hash, err := hasher.NewBcrypt(cfg.Auth.BcryptCost, cfg.Auth.HashConcurrency)
	if err != nil {
		_ = app.Close()
		return nil, err
	}

	tokens, err := jwtmw.NewManager(cfg.Auth.JWTSecret, cfg.Auth.JWTIssuer, cfg.Auth.JWTExpiration)
	if err != nil {
		_ = app.Close()
		return nil, err
	}

	// Usecase
	authUC := authusecase.NewAuthUsecase(accounts, tokens, hash)
	taskUC := taskusecase.NewTaskUsecase(store)

	// Handler
	authH := authhandler.NewAuthHandler(authUC)
	taskH := taskhandler.NewTaskHandler(taskUC)

	var limiter ratelimiter.RateLimiterInterface
	if cfg.Server.AuthRateLimit > 0 {
		limiter = ratelimiter.NewRateLimiter(cfg.Server.AuthRateLimit, cfg.Server.AuthRateBurst)
	}

	app.Handler = router.NewRouter(router.Deps{
		Logger:           log,
		Auth:             authH,
		Tasks:            taskH,
		AuthRequired:     jwtmw.AuthRequired(authUC, accounts),
		AuthLimiter:      limiter,
		CORSAllowOrigins: cfg.Server.CORSAllowOrigins,
	})
	return app, nil
}
