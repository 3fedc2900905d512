package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/onkar230/receipt-validator/internal/metrics"
	"github.com/onkar230/receipt-validator/internal/middleware"
	"github.com/onkar230/receipt-validator/internal/models"
	"github.com/onkar230/receipt-validator/internal/services"
	"github.com/onkar230/receipt-validator/pkg/logging"
)

// VerifyEntitlementRequest represents verify entitlement request
type VerifyEntitlementRequest struct {
	ReceiptData string `json:"receiptData" binding:"required"` // Base64 receipt from the device
	ProductID   string `json:"productId" binding:"required"`   // Product the client asks about
}

// VerifyEntitlementResponse represents verify entitlement response
type VerifyEntitlementResponse struct {
	Success     bool                  `json:"success"`
	IsPremium   bool                  `json:"isPremium"`
	Environment string                `json:"environment,omitempty"`
	Receipt     *models.ReceiptRecord `json:"receipt,omitempty"`
	Error       string                `json:"error,omitempty"`
}

// EntitlementHandler serves the receipt verification endpoint
type EntitlementHandler struct {
	entitlements *services.EntitlementService
}

// NewEntitlementHandler creates a new entitlement handler
func NewEntitlementHandler(entitlements *services.EntitlementService) *EntitlementHandler {
	return &EntitlementHandler{entitlements: entitlements}
}

// VerifyEntitlement validates a receipt and reports the product entitlement
// POST /api/entitlements/verify
func (h *EntitlementHandler) VerifyEntitlement(c *gin.Context) {
	var req VerifyEntitlementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, VerifyEntitlementResponse{
			Success: false,
			Error:   "Invalid request format: " + err.Error(),
		})
		return
	}

	outcome, isPremium := h.entitlements.VerifyEntitlement(c.Request.Context(), req.ReceiptData, req.ProductID)

	if !outcome.Verified {
		metrics.ReceiptValidationsTotal.WithLabelValues(string(outcome.Environment), "rejected").Inc()
		logging.Warnf("Receipt rejected (environment: %s, request_id: %s): %s",
			outcome.Environment, middleware.GetRequestID(c), outcome.Reason)

		resp := VerifyEntitlementResponse{
			Success: false,
			Error:   outcome.Reason,
		}
		// Environment is reported only when Apple actually answered
		if outcome.Environment != services.EnvironmentUnknown {
			resp.Environment = string(outcome.Environment)
		}
		c.JSON(http.StatusBadRequest, resp)
		return
	}

	metrics.ReceiptValidationsTotal.WithLabelValues(string(outcome.Environment), "verified").Inc()
	metrics.EntitlementChecksTotal.WithLabelValues(strconv.FormatBool(isPremium)).Inc()
	logging.Infof("Receipt verified (environment: %s, product: %s, premium: %t, request_id: %s)",
		outcome.Environment, req.ProductID, isPremium, middleware.GetRequestID(c))

	c.JSON(http.StatusOK, VerifyEntitlementResponse{
		Success:     true,
		IsPremium:   isPremium,
		Environment: string(outcome.Environment),
		Receipt:     outcome.Receipt,
	})
}
