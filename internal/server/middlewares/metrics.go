package middlewares

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/vzahanych/outfit-trends/internal/metrics"
)

// MetricsMiddleware records RED metrics per matched route. Unmatched paths are
// grouped under "unmatched" to keep label cardinality bounded.
func MetricsMiddleware(m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		m.HTTPRequestsInFlight.Inc()
		defer m.HTTPRequestsInFlight.Dec()

		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}

		m.ObserveHTTPRequest(c.Request.Method, route, c.Writer.Status(), time.Since(start))
	}
}
