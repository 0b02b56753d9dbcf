package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"vagondeck/internal/metrics"
)

// Metrics records per-route counters and latency. The route template keeps
// label cardinality bounded; unmatched requests fall under "unmatched".
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		metrics.ObserveHTTPRequest(c.Request.Method, route, c.Writer.Status(), time.Since(start))
	}
}
