package api

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/onkar230/receipt-validator/internal/middleware"
	"github.com/onkar230/receipt-validator/internal/ratelimit"
)

// SetupRoutes sets up all routes
func SetupRoutes(r *gin.Engine, h *EntitlementHandler, limiter ratelimit.Limiter) {
	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.MetricsMiddleware())

	// API route group
	api := r.Group("/api")
	{
		// Entitlement routes (client API, rate limited per client IP)
		entitlements := api.Group("/entitlements")
		entitlements.Use(middleware.APIKeyAuthMiddleware())
		entitlements.Use(middleware.RateLimitMiddleware(limiter))
		{
			entitlements.POST("/verify", h.VerifyEntitlement)
		}
	}

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"service": "receipt-validator",
		})
	})

	// Prometheus metrics
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
}
