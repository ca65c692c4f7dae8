package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"math"
	"net/http"
	"time"

	"hostelbook-client/internal/logger"
)

// Paystack charges through the Paystack checkout. The headless flow mirrors
// the inline widget: initialize a transaction, hand the authorization URL to
// the caller, then poll verification until the charge settles or the payer
// abandons it.
type Paystack struct {
	key        string
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger

	// OnAuthorization receives the checkout URL the payer must open.
	// Returning an error aborts the charge.
	OnAuthorization func(url string) error

	// VerifyInterval and VerifyTimeout bound the verification poll loop.
	VerifyInterval time.Duration
	VerifyTimeout  time.Duration
}

// NewPaystack creates a Paystack strategy keyed by the configured key.
func NewPaystack(key, baseURL string, onAuthorization func(url string) error) *Paystack {
	return &Paystack{
		key:             key,
		baseURL:         baseURL,
		httpClient:      &http.Client{Timeout: 15 * time.Second},
		logger:          logger.With("component", "paystack"),
		OnAuthorization: onAuthorization,
		VerifyInterval:  3 * time.Second,
		VerifyTimeout:   5 * time.Minute,
	}
}

func (p *Paystack) Name() string { return "paystack" }

type initializeResponse struct {
	Status  bool   `json:"status"`
	Message string `json:"message"`
	Data    struct {
		AuthorizationURL string `json:"authorization_url"`
		AccessCode       string `json:"access_code"`
		Reference        string `json:"reference"`
	} `json:"data"`
}

type verifyResponse struct {
	Status bool `json:"status"`
	Data   struct {
		Status    string `json:"status"` // "success", "failed", "abandoned", "pending"
		Reference string `json:"reference"`
		Amount    int64  `json:"amount"` // minor units
	} `json:"data"`
}

// Charge initializes a transaction for the amount in minor units, surfaces
// the checkout URL, and polls verification.
func (p *Paystack) Charge(ctx context.Context, req ChargeRequest) (*Receipt, error) {
	init, err := p.initialize(ctx, req)
	if err != nil {
		return nil, err
	}

	if p.OnAuthorization != nil {
		if err := p.OnAuthorization(init.Data.AuthorizationURL); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrChargeCancelled, err)
		}
	}

	return p.awaitVerification(ctx, init.Data.Reference, req.Amount)
}

func (p *Paystack) initialize(ctx context.Context, req ChargeRequest) (*initializeResponse, error) {
	payload := map[string]any{
		"email":     req.Email,
		"amount":    int64(math.Round(req.Amount * 100)),
		"currency":  req.Currency,
		"reference": req.Reference,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode charge: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost,
		p.baseURL+"/transaction/initialize", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build charge request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+p.key)

	resp, err := p.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("charge initialization failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read gateway response: %w", err)
	}

	var init initializeResponse
	if err := json.Unmarshal(data, &init); err != nil {
		return nil, fmt.Errorf("failed to decode gateway response: %w", err)
	}
	if resp.StatusCode != http.StatusOK || !init.Status {
		return nil, fmt.Errorf("gateway rejected charge: %s", init.Message)
	}
	return &init, nil
}

// awaitVerification polls the verify endpoint until the transaction settles.
// An abandoned or failed transaction maps to ErrChargeCancelled, matching
// the widget's close-without-success callback.
func (p *Paystack) awaitVerification(ctx context.Context, reference string, amount float64) (*Receipt, error) {
	deadline := time.Now().Add(p.VerifyTimeout)
	ticker := time.NewTicker(p.VerifyInterval)
	defer ticker.Stop()

	for {
		verify, err := p.verify(ctx, reference)
		if err != nil {
			p.logger.Warn("verification attempt failed", "reference", reference, "error", err)
		} else {
			switch verify.Data.Status {
			case "success":
				return &Receipt{Reference: reference, DepositAmount: amount}, nil
			case "failed", "abandoned":
				return nil, ErrChargeCancelled
			}
		}

		if time.Now().After(deadline) {
			return nil, ErrChargeCancelled
		}
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("%w: %v", ErrChargeCancelled, ctx.Err())
		case <-ticker.C:
		}
	}
}

func (p *Paystack) verify(ctx context.Context, reference string) (*verifyResponse, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet,
		p.baseURL+"/transaction/verify/"+reference, nil)
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Authorization", "Bearer "+p.key)

	resp, err := p.httpClient.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var verify verifyResponse
	if err := json.NewDecoder(resp.Body).Decode(&verify); err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("verify returned status %d", resp.StatusCode)
	}
	return &verify, nil
}
