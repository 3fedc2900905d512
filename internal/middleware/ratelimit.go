package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/onkar230/receipt-validator/internal/config"
	"github.com/onkar230/receipt-validator/internal/metrics"
	"github.com/onkar230/receipt-validator/internal/ratelimit"
	"github.com/onkar230/receipt-validator/internal/response"
	"github.com/onkar230/receipt-validator/pkg/logging"
)

// RateLimitMiddleware limits requests per client IP over a fixed window.
// Limiter errors fail open.
func RateLimitMiddleware(limiter ratelimit.Limiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		cfg := config.AppConfig
		if limiter == nil || cfg.RateLimitRequests <= 0 {
			c.Next()
			return
		}

		key := "rate_limit:" + c.ClientIP()
		window := time.Duration(cfg.RateLimitWindowSeconds) * time.Second
		decision, err := limiter.Allow(c.Request.Context(), key, cfg.RateLimitRequests, window)
		if err != nil {
			logging.Errorf("Rate limiter unavailable: %v", err)
			c.Next()
			return
		}

		writeRateLimitHeaders(c, decision)
		if !decision.Allowed {
			metrics.RateLimitedRequestsTotal.Inc()
			response.ErrorJSON(c, http.StatusTooManyRequests, "Rate limit exceeded")
			c.Abort()
			return
		}

		c.Next()
	}
}

func writeRateLimitHeaders(c *gin.Context, decision ratelimit.Decision) {
	if decision.Limit > 0 {
		c.Header("RateLimit-Limit", strconv.Itoa(decision.Limit))
	}
	if decision.Remaining >= 0 {
		c.Header("RateLimit-Remaining", strconv.Itoa(decision.Remaining))
	}
	if !decision.ResetAt.IsZero() {
		c.Header("RateLimit-Reset", strconv.FormatInt(decision.ResetAt.Unix(), 10))
		if !decision.Allowed {
			retryAfter := int64(time.Until(decision.ResetAt).Seconds())
			if retryAfter < 0 {
				retryAfter = 0
			}
			c.Header("Retry-After", strconv.FormatInt(retryAfter, 10))
		}
	}
}
