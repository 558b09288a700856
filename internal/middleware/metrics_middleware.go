package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lfsdirectory/lfsdirectory-backend/pkg/metrics"
)

// MetricsMiddleware records request count and latency by route template.
// Unmatched routes are grouped under "unmatched" to bound label cardinality.
func MetricsMiddleware(m *metrics.HTTPMetrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.Observe(c.Request.Method, route, c.Writer.Status(), time.Since(start))
	}
}
