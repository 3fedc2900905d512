package services

import (
	"context"
	"time"
)

// EntitlementService decides whether a validated receipt currently grants
// access to a product. It keeps no state between calls.
type EntitlementService struct {
	validator *ReceiptValidationService
	now       func() time.Time
}

// NewEntitlementService creates a new entitlement service
func NewEntitlementService(validator *ReceiptValidationService) *EntitlementService {
	return &EntitlementService{
		validator: validator,
		now:       time.Now,
	}
}

// HasActiveEntitlement reports whether the outcome's receipt grants access to
// the given product. Auto-renewable subscriptions qualify through a
// latest_receipt_info entry whose expiry lies in the future; non-renewable
// purchases qualify by presence in in_app alone.
func (s *EntitlementService) HasActiveEntitlement(outcome ValidationOutcome, productID string) bool {
	if !outcome.Verified || outcome.Receipt == nil {
		return false
	}

	// The clock is read once per evaluation.
	nowMillis := s.now().UnixMilli()

	for _, tx := range outcome.Receipt.LatestReceiptInfo {
		if tx.ProductID != productID {
			continue
		}
		if expiresAt, ok := tx.ExpiresAtMillis(); ok && expiresAt > nowMillis {
			return true
		}
	}

	for _, tx := range outcome.Receipt.InApp {
		if tx.ProductID == productID {
			return true
		}
	}

	return false
}

// VerifyEntitlement validates the receipt and evaluates the entitlement in
// one call. The entitlement flag is always false when validation failed.
func (s *EntitlementService) VerifyEntitlement(ctx context.Context, receiptData, productID string) (ValidationOutcome, bool) {
	outcome := s.validator.ValidateReceipt(ctx, receiptData)
	if !outcome.Verified {
		return outcome, false
	}
	return outcome, s.HasActiveEntitlement(outcome, productID)
}
