// Package router assembles the gin engine and its route table.
package router

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	authhandler "todo_backend/internal/feature/auth/transport/handler"
	taskhandler "todo_backend/internal/feature/tasks/transport/handler"
	platformhandler "todo_backend/internal/platform/http/handler"
	"todo_backend/internal/platform/http/middleware"
	"todo_backend/internal/platform/logger"
	"todo_backend/internal/shared/ratelimiter"
)

// Deps are the pieces the router wires together.
type Deps struct {
	Logger       *logger.Logger
	Auth         *authhandler.AuthHandler
	Tasks        *taskhandler.TaskHandler
	AuthRequired gin.HandlerFunc
	// AuthLimiter throttles the credential endpoints per client IP. Nil disables it.
	AuthLimiter      ratelimiter.RateLimiterInterface
	CORSAllowOrigins []string
}

// NewRouter builds the engine. Every unknown route answers 404 {"error":"Route not found"}.
func NewRouter(d Deps) *gin.Engine {
	r := gin.New()
	r.Use(
		middleware.TraceID(d.Logger),
		middleware.RequestLogger(),
		middleware.Recovery(),
		cors.New(corsConfig(d.CORSAllowOrigins)),
	)

	api := r.Group("/api")

	// No authentication
	health := platformhandler.NewHealth(nil)
	api.GET("/health", health)
	api.HEAD("/health", health)
	api.OPTIONS("/health", health)

	auth := api.Group("/auth")
	if d.AuthLimiter != nil {
		auth.Use(ratelimiter.Middleware(d.AuthLimiter))
	}
	{
		auth.POST("/register", d.Auth.Register)
		auth.POST("/login", d.Auth.Login)
	}

	// Bearer token required
	todos := api.Group("/todos")
	todos.Use(d.AuthRequired)
	{
		todos.POST("", d.Tasks.Create)
		todos.GET("", d.Tasks.List)
		todos.GET("/:id", d.Tasks.Get)
		todos.PUT("/:id", d.Tasks.Update)
		todos.DELETE("/:id", d.Tasks.Delete)
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Route not found"})
	})

	return r
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.DefaultConfig()
	cfg.AllowHeaders = append(cfg.AllowHeaders, "Authorization", middleware.TraceIDHeader)
	cfg.ExposeHeaders = []string{middleware.TraceIDHeader}
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		cfg.AllowAllOrigins = true
		return cfg
	}
	cfg.AllowOrigins = origins
	return cfg
}
