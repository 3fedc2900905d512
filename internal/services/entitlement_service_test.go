package services

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/onkar230/receipt-validator/internal/models"
)

func TestHasActiveEntitlement(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	nowMillis := now.UnixMilli()
	future := strconv.FormatInt(nowMillis+time.Hour.Milliseconds(), 10)
	past := strconv.FormatInt(nowMillis-time.Hour.Milliseconds(), 10)

	svc := NewEntitlementService(nil)
	svc.now = func() time.Time { return now }

	verified := func(receipt *models.ReceiptRecord) ValidationOutcome {
		return ValidationOutcome{Verified: true, Environment: EnvironmentProduction, Receipt: receipt}
	}

	t.Run("ActiveSubscription", func(t *testing.T) {
		outcome := verified(&models.ReceiptRecord{
			LatestReceiptInfo: []models.TransactionInfo{
				{ProductID: "premium.monthly", ExpiresDateMS: future},
			},
		})
		require.True(t, svc.HasActiveEntitlement(outcome, "premium.monthly"))
	})

	t.Run("ExpiredSubscription", func(t *testing.T) {
		outcome := verified(&models.ReceiptRecord{
			LatestReceiptInfo: []models.TransactionInfo{
				{ProductID: "premium.monthly", ExpiresDateMS: past},
			},
		})
		require.False(t, svc.HasActiveEntitlement(outcome, "premium.monthly"))
	})

	t.Run("ExpiryEqualToNowIsExpired", func(t *testing.T) {
		outcome := verified(&models.ReceiptRecord{
			LatestReceiptInfo: []models.TransactionInfo{
				{ProductID: "premium.monthly", ExpiresDateMS: strconv.FormatInt(nowMillis, 10)},
			},
		})
		require.False(t, svc.HasActiveEntitlement(outcome, "premium.monthly"))
	})

	t.Run("ExpiredSubscriptionFallsBackToInApp", func(t *testing.T) {
		outcome := verified(&models.ReceiptRecord{
			LatestReceiptInfo: []models.TransactionInfo{
				{ProductID: "premium.monthly", ExpiresDateMS: past},
			},
			InApp: []models.TransactionInfo{
				{ProductID: "premium.monthly"},
			},
		})
		require.True(t, svc.HasActiveEntitlement(outcome, "premium.monthly"))
	})

	t.Run("NonRenewablePresenceOnly", func(t *testing.T) {
		outcome := verified(&models.ReceiptRecord{
			InApp: []models.TransactionInfo{
				{ProductID: "premium.lifetime"},
			},
		})
		require.True(t, svc.HasActiveEntitlement(outcome, "premium.lifetime"))
	})

	t.Run("DuplicateRenewalEntries", func(t *testing.T) {
		outcome := verified(&models.ReceiptRecord{
			LatestReceiptInfo: []models.TransactionInfo{
				{ProductID: "premium.monthly", ExpiresDateMS: past},
				{ProductID: "premium.monthly", ExpiresDateMS: future},
			},
		})
		require.True(t, svc.HasActiveEntitlement(outcome, "premium.monthly"))
	})

	t.Run("ProductMismatch", func(t *testing.T) {
		outcome := verified(&models.ReceiptRecord{
			LatestReceiptInfo: []models.TransactionInfo{
				{ProductID: "premium.monthly", ExpiresDateMS: future},
			},
			InApp: []models.TransactionInfo{
				{ProductID: "premium.lifetime"},
			},
		})
		require.False(t, svc.HasActiveEntitlement(outcome, "premium.yearly"))
	})

	t.Run("MalformedExpiryIgnored", func(t *testing.T) {
		outcome := verified(&models.ReceiptRecord{
			LatestReceiptInfo: []models.TransactionInfo{
				{ProductID: "premium.monthly", ExpiresDateMS: "2024-06-01"},
			},
		})
		require.False(t, svc.HasActiveEntitlement(outcome, "premium.monthly"))
	})

	t.Run("MissingReceipt", func(t *testing.T) {
		outcome := ValidationOutcome{Verified: true, Environment: EnvironmentProduction}
		require.False(t, svc.HasActiveEntitlement(outcome, "premium.monthly"))
	})

	t.Run("RejectedOutcome", func(t *testing.T) {
		outcome := ValidationOutcome{
			Environment: EnvironmentProduction,
			Reason:      "production validation failed with status 21003",
			Receipt: &models.ReceiptRecord{
				LatestReceiptInfo: []models.TransactionInfo{
					{ProductID: "premium.monthly", ExpiresDateMS: future},
				},
			},
		}
		require.False(t, svc.HasActiveEntitlement(outcome, "premium.monthly"))
	})

	t.Run("Idempotent", func(t *testing.T) {
		outcome := verified(&models.ReceiptRecord{
			LatestReceiptInfo: []models.TransactionInfo{
				{ProductID: "premium.monthly", ExpiresDateMS: future},
			},
		})
		first := svc.HasActiveEntitlement(outcome, "premium.monthly")
		second := svc.HasActiveEntitlement(outcome, "premium.monthly")
		require.Equal(t, first, second)
		require.True(t, first)
	})
}

func TestVerifyEntitlement(t *testing.T) {
	future := strconv.FormatInt(time.Now().UnixMilli()+time.Hour.Milliseconds(), 10)

	t.Run("PremiumOnVerifiedReceipt", func(t *testing.T) {
		prod := newFakeAppleEndpoint(t, "production", nil, 0, &models.ReceiptRecord{
			LatestReceiptInfo: []models.TransactionInfo{
				{ProductID: "premium.monthly", ExpiresDateMS: future},
			},
		})
		svc := NewEntitlementService(newTestValidator("top-secret", prod, nil))

		outcome, isPremium := svc.VerifyEntitlement(context.Background(), "receipt-blob", "premium.monthly")
		require.True(t, outcome.Verified)
		require.True(t, isPremium)
	})

	t.Run("VerifiedButNotEntitled", func(t *testing.T) {
		prod := newFakeAppleEndpoint(t, "production", nil, 0, &models.ReceiptRecord{
			LatestReceiptInfo: []models.TransactionInfo{
				{ProductID: "premium.monthly", ExpiresDateMS: future},
			},
		})
		svc := NewEntitlementService(newTestValidator("top-secret", prod, nil))

		outcome, isPremium := svc.VerifyEntitlement(context.Background(), "receipt-blob", "premium.yearly")
		require.True(t, outcome.Verified)
		require.False(t, isPremium)
	})

	t.Run("NotPremiumOnRejectedReceipt", func(t *testing.T) {
		prod := newFakeAppleEndpoint(t, "production", nil, 21003, nil)
		svc := NewEntitlementService(newTestValidator("top-secret", prod, nil))

		outcome, isPremium := svc.VerifyEntitlement(context.Background(), "receipt-blob", "premium.monthly")
		require.False(t, outcome.Verified)
		require.False(t, isPremium)
	})
}
