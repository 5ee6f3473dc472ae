package middleware

import (
	"strconv"
	"time"

	"github.com/ErlanBelekov/vitaltrip-auth/internal/metrics"
	"github.com/gin-gonic/gin"
)

// Metrics records latency and count per registered route. Unmatched paths
// share one label so scanners cannot inflate label cardinality.
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		status := strconv.Itoa(c.Writer.Status())
		method := c.Request.Method

		metrics.HTTPRequestDuration.WithLabelValues(method, path, status).Observe(time.Since(start).Seconds())
		metrics.HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	}
}
