// Package redis builds the optional Redis client behind the account cache.
package redis

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// Config は接続設定です。Addr が空の場合は Redis を使いません。
type Config struct {
	Addr        string
	Password    string
	DB          int
	DialTimeout time.Duration
}

// NewRedisClient は Redis に接続し、疎通を確認します。
// cfg.Addr が空の場合は (nil, nil) を返します。
func NewRedisClient(ctx context.Context, cfg Config, log zerolog.Logger) (*redis.Client, error) {
	if cfg.Addr == "" {
		return nil, nil
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:        cfg.Addr,
		Password:    cfg.Password,
		DB:          cfg.DB,
		DialTimeout: cfg.DialTimeout,
	})

	// 接続確認
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Error().Err(err).Str("address", cfg.Addr).Msg("Redis connection failed")
		_ = rdb.Close()
		return nil, err
	}

	log.Info().Str("address", cfg.Addr).Msg("Redis connection successful")
	return rdb, nil
}
