// Package handler provides HTTP handlers for platform-level endpoints.
package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// HealthRes is the body of GET /api/health.
type HealthRes struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
}

// NewHealth は /api/health のハンドラを返します。認証不要で、ストアにも触れません。
// now はテスト用に差し替え可能で、nil の場合は time.Now を使います。
func NewHealth(now func() time.Time) gin.HandlerFunc {
	if now == nil {
		now = time.Now
	}
	return func(c *gin.Context) {
		c.Header("Cache-Control", "no-store")

		switch c.Request.Method {
		case http.MethodHead:
			c.Status(http.StatusOK)
		case http.MethodOptions:
			c.Status(http.StatusNoContent)
		default:
			c.JSON(http.StatusOK, HealthRes{
				Status:    "OK",
				Timestamp: now().UTC().Format("2006-01-02T15:04:05.000Z07:00"),
			})
		}
	}
}
