package main

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/onkar230/receipt-validator/internal/api"
	"github.com/onkar230/receipt-validator/internal/config"
	"github.com/onkar230/receipt-validator/internal/metrics"
	"github.com/onkar230/receipt-validator/internal/ratelimit"
	"github.com/onkar230/receipt-validator/internal/services"
	"github.com/onkar230/receipt-validator/pkg/logging"
)

func main() {
	// Initialize configuration
	if err := config.InitConfig(); err != nil {
		log.Fatal("Failed to initialize config:", err)
	}

	// Initialize logging
	logging.InitLogging()

	// Register Prometheus metrics
	metrics.Register()

	// Select rate limiter backend
	var limiter ratelimit.Limiter
	if config.AppConfig.RedisURL != "" {
		redisLimiter, err := ratelimit.NewRedisLimiter(config.AppConfig.RedisURL)
		if err != nil {
			log.Fatal("Failed to initialize Redis rate limiter:", err)
		}
		limiter = redisLimiter
		logging.Infof("Using Redis rate limiter")
	} else {
		limiter = ratelimit.NewMemoryLimiter(ratelimit.MemoryLimiterConfig{})
		logging.Infof("Using in-memory rate limiter")
	}

	// Outbound client instrumented with verify call latency
	verifyClient := &http.Client{
		Timeout:   30 * time.Second,
		Transport: promhttp.InstrumentRoundTripperDuration(metrics.AppleVerifyRequestDuration, http.DefaultTransport),
	}

	validator := services.NewReceiptValidationService(services.ReceiptValidationConfig{
		SharedSecret:  config.AppConfig.AppStoreSharedSecret,
		ProductionURL: config.AppConfig.AppStoreProductionURL,
		SandboxURL:    config.AppConfig.AppStoreSandboxURL,
		HTTPClient:    verifyClient,
	})
	entitlements := services.NewEntitlementService(validator)
	handler := api.NewEntitlementHandler(entitlements)

	// Set Gin mode
	gin.SetMode(config.AppConfig.Mode)

	// Create Gin engine
	r := gin.Default()

	// Setup routes
	api.SetupRoutes(r, handler, limiter)

	// Start server
	port := config.AppConfig.Port
	logging.Infof("Starting server on port %s", port)

	if err := r.Run(":" + port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
