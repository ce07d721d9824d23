package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"todo_backend/internal/app/di"
	"todo_backend/internal/config"
	platformhttp "todo_backend/internal/platform/http"
	"todo_backend/internal/platform/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	os.Exit(run())
}

func run() int {
	// .env is optional; the process environment always wins.
	_ = godotenv.Load(".env")

	cfg, err := config.Load()
	if err != nil {
		logger.NewLogger("server", "info").Error().Err(err).Msg("invalid configuration")
		return 1
	}

	log := logger.NewLogger("server", cfg.Log.Level)
	gin.SetMode(cfg.Server.GinMode)

	if cfg.Auth.UsesDevSecret() {
		log.Warn().Msg("JWT_SECRET is not set. Set a strong secret in production.")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT, syscall.SIGQUIT)
	defer stop()

	app, err := di.NewApp(ctx, cfg, log)
	if err != nil {
		log.Error().Err(err).Msg("failed to start")
		return 1
	}
	defer func() {
		if err := app.Close(); err != nil {
			log.Error().Err(err).Msg("failed to release resources")
		}
	}()

	srv := platformhttp.NewServer(cfg.Server.Addr(), app.Handler, platformhttp.DefaultServerTimeouts)

	serveErr := make(chan error, 1)
	go func() {
		log.Info().
			Str("addr", srv.Addr).
			Str("store", cfg.Store.Driver).
			Bool("cache", cfg.Redis.Addr != "").
			Msg("Launching HTTP server")
		serveErr <- srv.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("HTTP server failed")
			return 1
		}
	case <-ctx.Done():
		log.Info().Msg("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown failed")
		return 1
	}
	log.Info().Msg("server Shutdown gracefully")
	return 0
}
