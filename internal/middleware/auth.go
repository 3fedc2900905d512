package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/onkar230/receipt-validator/internal/config"
	"github.com/onkar230/receipt-validator/internal/response"
)

// APIKeyAuthMiddleware guards routes with the static service API key.
// The check is disabled when SERVICE_API_KEY is not configured.
func APIKeyAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		configured := config.AppConfig.ServiceAPIKey
		if configured == "" {
			c.Next()
			return
		}

		// Get API key from header
		apiKey := c.GetHeader("X-API-Key")

		// If not passed via header, try to get from query parameters
		if apiKey == "" {
			apiKey = c.Query("api_key")
		}

		if apiKey == "" {
			response.ErrorJSON(c, http.StatusUnauthorized, "Missing api_key")
			c.Abort()
			return
		}

		if apiKey != configured {
			response.ErrorJSON(c, http.StatusUnauthorized, "Invalid api_key")
			c.Abort()
			return
		}

		c.Next()
	}
}
