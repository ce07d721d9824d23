// Package middleware holds the gin middleware shared by every route.
package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"todo_backend/internal/platform/logger"
)

// TraceIDHeader carries the request's trace id in both directions.
const TraceIDHeader = "X-Trace-ID"

// TraceID reuses the caller's X-Trace-ID or generates one, echoes it on the
// response and puts a child logger tagged with it into the request context.
func TraceID(base *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		traceID := c.GetHeader(TraceIDHeader)
		if traceID == "" {
			traceID = uuid.NewString()
		}

		l := base.GetChildLogger()
		l.UpdateContext(func(ctx zerolog.Context) zerolog.Context {
			return ctx.Str("trace_id", traceID)
		})
		c.Request = c.Request.WithContext(l.WithContext(c.Request.Context()))

		c.Header(TraceIDHeader, traceID)
		c.Next()
	}
}

// RequestLogger writes one line per request once the handler chain has run.
// It expects TraceID earlier in the chain.
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		uri := c.Request.RequestURI
		method := c.Request.Method

		c.Next()

		l := logger.FromContext(c.Request.Context())
		ev := l.Info()
		if c.Writer.Status() >= http.StatusInternalServerError {
			ev = l.Error()
		}
		ev.Str("uri", uri).
			Str("method", method).
			Int("status", c.Writer.Status()).
			Dur("duration", time.Since(start)).
			Int("size", c.Writer.Size()).
			Str("client_ip", c.ClientIP()).
			Send()
	}
}

// Recovery turns a handler panic into a logged 500 with the JSON error shape.
func Recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		logger.FromContext(c.Request.Context()).Error().
			Interface("panic", recovered).
			Str("path", c.Request.URL.Path).
			Msg("handler panicked")
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	})
}
