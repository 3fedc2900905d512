package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/onkar230/receipt-validator/internal/models"
	"github.com/onkar230/receipt-validator/pkg/logging"
)

const (
	productionVerifyURL = "https://buy.itunes.apple.com/verifyReceipt"
	sandboxVerifyURL    = "https://sandbox.itunes.apple.com/verifyReceipt"
)

const (
	// statusOK is Apple's code for a valid receipt.
	statusOK = 0
	// statusSandboxReceipt is Apple's code 21007: the receipt came from the
	// sandbox environment but was sent to the production endpoint, and the
	// caller is expected to retry against the sandbox endpoint.
	statusSandboxReceipt = 21007
)

// Environment identifies which verification endpoint produced a result
type Environment string

const (
	EnvironmentProduction Environment = "production"
	EnvironmentSandbox    Environment = "sandbox"
	EnvironmentUnknown    Environment = "unknown"
)

// ValidationOutcome is the result of validating a receipt. Failures travel
// as data: Verified false with Reason set, never a Go error. Environment is
// unknown only when a transport failure kept Apple from answering.
type ValidationOutcome struct {
	Verified    bool
	Environment Environment
	Receipt     *models.ReceiptRecord
	Reason      string
}

// ReceiptValidationConfig carries the values the validator needs at
// construction. URLs and client are overridable so tests can point the
// service at fake endpoints.
type ReceiptValidationConfig struct {
	SharedSecret  string
	ProductionURL string
	SandboxURL    string
	HTTPClient    *http.Client
}

// ReceiptValidationService validates App Store receipts with Apple
type ReceiptValidationService struct {
	sharedSecret  string
	productionURL string
	sandboxURL    string
	httpClient    *http.Client
}

// NewReceiptValidationService creates a new receipt validation service
func NewReceiptValidationService(cfg ReceiptValidationConfig) *ReceiptValidationService {
	if cfg.ProductionURL == "" {
		cfg.ProductionURL = productionVerifyURL
	}
	if cfg.SandboxURL == "" {
		cfg.SandboxURL = sandboxVerifyURL
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{
			Timeout: 30 * time.Second,
		}
	}
	return &ReceiptValidationService{
		sharedSecret:  cfg.SharedSecret,
		productionURL: cfg.ProductionURL,
		sandboxURL:    cfg.SandboxURL,
		httpClient:    cfg.HTTPClient,
	}
}

// appleVerifyRequest is the verifyReceipt request body. The exclude flag is
// always true so Apple returns only the most recent renewal per product.
type appleVerifyRequest struct {
	ReceiptData            string `json:"receipt-data"`
	Password               string `json:"password"`
	ExcludeOldTransactions bool   `json:"exclude-old-transactions"`
}

// AppleReceiptResponse represents Apple receipt verification response
type AppleReceiptResponse struct {
	Status        int                   `json:"status"`
	Environment   string                `json:"environment"`
	Receipt       *models.ReceiptRecord `json:"receipt"`
	LatestReceipt string                `json:"latest_receipt,omitempty"`
}

// ValidateReceipt validates a receipt against the production endpoint first.
// Status 21007 means the receipt belongs to the sandbox environment, so the
// identical request is retried against the sandbox endpoint. Any other
// non-zero status rejects the receipt without touching the sandbox. The two
// calls are strictly sequential.
func (s *ReceiptValidationService) ValidateReceipt(ctx context.Context, receiptData string) ValidationOutcome {
	prodResp, err := s.verifyWithApple(ctx, s.productionURL, receiptData)
	if err != nil {
		return ValidationOutcome{Environment: EnvironmentUnknown, Reason: err.Error()}
	}

	switch prodResp.Status {
	case statusOK:
		return ValidationOutcome{
			Verified:    true,
			Environment: EnvironmentProduction,
			Receipt:     prodResp.Receipt,
		}
	case statusSandboxReceipt:
		logging.Infof("Receipt is from sandbox, retrying with sandbox URL")
		sandboxResp, err := s.verifyWithApple(ctx, s.sandboxURL, receiptData)
		if err != nil {
			return ValidationOutcome{Environment: EnvironmentUnknown, Reason: err.Error()}
		}
		if sandboxResp.Status == statusOK {
			return ValidationOutcome{
				Verified:    true,
				Environment: EnvironmentSandbox,
				Receipt:     sandboxResp.Receipt,
			}
		}
		return ValidationOutcome{
			Environment: EnvironmentSandbox,
			Reason:      fmt.Sprintf("sandbox validation failed with status %d", sandboxResp.Status),
		}
	default:
		return ValidationOutcome{
			Environment: EnvironmentProduction,
			Reason:      fmt.Sprintf("production validation failed with status %d", prodResp.Status),
		}
	}
}

// verifyWithApple sends one verification request to the given endpoint
func (s *ReceiptValidationService) verifyWithApple(ctx context.Context, url, receiptData string) (*AppleReceiptResponse, error) {
	jsonData, err := json.Marshal(appleVerifyRequest{
		ReceiptData:            receiptData,
		Password:               s.sharedSecret,
		ExcludeOldTransactions: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to verify receipt: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	var appleResp AppleReceiptResponse
	if err := json.Unmarshal(body, &appleResp); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	return &appleResp, nil
}
