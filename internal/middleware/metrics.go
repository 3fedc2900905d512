package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/onkar230/receipt-validator/internal/metrics"
)

// MetricsMiddleware records request count and duration for every route
func MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		startTime := time.Now()

		c.Next()

		handlerName := c.FullPath()
		if handlerName == "" {
			handlerName = "unmatched"
		}

		duration := time.Since(startTime).Seconds()
		metrics.HTTPRequestDuration.WithLabelValues(handlerName, c.Request.Method).Observe(duration)
		metrics.HTTPRequestsTotal.WithLabelValues(handlerName, c.Request.Method, strconv.Itoa(c.Writer.Status())).Inc()
	}
}
