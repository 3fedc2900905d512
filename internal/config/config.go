package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	// Server configuration
	Port string
	Mode string

	// App Store configuration
	AppStoreSharedSecret  string
	AppStoreProductionURL string
	AppStoreSandboxURL    string

	// Service authentication (empty disables the API key check)
	ServiceAPIKey string

	// Redis configuration (empty selects the in-memory rate limiter)
	RedisURL string

	// Rate limit configuration
	RateLimitRequests      int
	RateLimitWindowSeconds int

	ServiceName string
}

var AppConfig *Config

func InitConfig() error {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		// Ignore error if .env file doesn't exist
	}

	AppConfig = &Config{
		Port:                   getEnv("PORT", "8080"),
		Mode:                   getEnv("GIN_MODE", "debug"),
		AppStoreSharedSecret:   getEnv("APPSTORE_SHARED_SECRET", ""),
		AppStoreProductionURL:  getEnv("APPSTORE_PRODUCTION_URL", "https://buy.itunes.apple.com/verifyReceipt"),
		AppStoreSandboxURL:     getEnv("APPSTORE_SANDBOX_URL", "https://sandbox.itunes.apple.com/verifyReceipt"),
		ServiceAPIKey:          getEnv("SERVICE_API_KEY", ""),
		RedisURL:               getEnv("REDIS_URL", ""),
		RateLimitRequests:      getEnvInt("RATE_LIMIT_REQUESTS", 60),
		RateLimitWindowSeconds: getEnvInt("RATE_LIMIT_WINDOW_SECONDS", 60),
		ServiceName:            getEnv("SERVICE_NAME", "Receipt Validator"),
	}

	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
