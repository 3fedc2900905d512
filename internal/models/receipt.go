package models

import "strconv"

// TransactionInfo represents a single transaction entry in an Apple receipt.
// Apple sends epoch millisecond timestamps as strings.
type TransactionInfo struct {
	TransactionID         string `json:"transaction_id,omitempty"`
	OriginalTransactionID string `json:"original_transaction_id,omitempty"`
	ProductID             string `json:"product_id"`
	PurchaseDateMS        string `json:"purchase_date_ms,omitempty"`
	ExpiresDateMS         string `json:"expires_date_ms,omitempty"`
	IsTrialPeriod         string `json:"is_trial_period,omitempty"`
}

// ExpiresAtMillis parses the expiry timestamp. The second return value is
// false when the field is missing or not numeric; non-renewable purchases
// have no expiry at all.
func (t TransactionInfo) ExpiresAtMillis() (int64, bool) {
	if t.ExpiresDateMS == "" {
		return 0, false
	}
	millis, err := strconv.ParseInt(t.ExpiresDateMS, 10, 64)
	if err != nil {
		return 0, false
	}
	return millis, true
}

// ReceiptRecord represents the decoded receipt returned by Apple.
// Both transaction lists are optional; in_app holds the purchases baked into
// the receipt while latest_receipt_info carries the renewal history for
// auto-renewable subscriptions.
type ReceiptRecord struct {
	ReceiptType        string            `json:"receipt_type,omitempty"`
	BundleID           string            `json:"bundle_id,omitempty"`
	ApplicationVersion string            `json:"application_version,omitempty"`
	InApp              []TransactionInfo `json:"in_app,omitempty"`
	LatestReceiptInfo  []TransactionInfo `json:"latest_receipt_info,omitempty"`
}
