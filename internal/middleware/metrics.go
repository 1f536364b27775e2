package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/P3chys/studyshare-api/internal/services"
)

// Metrics records request count and latency per route.
func Metrics(metrics *services.MetricsService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if metrics == nil {
			c.Next()
			return
		}
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		metrics.ObserveHTTPRequest(c.Request.Method, path, c.Writer.Status(), time.Since(start))
	}
}
