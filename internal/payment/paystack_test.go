package payment

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeGateway fakes the two Paystack endpoints the strategy touches.
type fakeGateway struct {
	mu           sync.Mutex
	verifyStatus string // returned transaction status
	verifyCalls  int
	initAmount   int64
	initEmail    string
	initRef      string
}

func (g *fakeGateway) setVerifyStatus(status string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.verifyStatus = status
}

func newFakeGateway(t *testing.T, initialStatus string) (*fakeGateway, *httptest.Server) {
	t.Helper()
	g := &fakeGateway{verifyStatus: initialStatus}

	handler := http.NewServeMux()
	handler.HandleFunc("/transaction/initialize", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.NotFound(w, r)
			return
		}
		var payload struct {
			Email     string `json:"email"`
			Amount    int64  `json:"amount"`
			Reference string `json:"reference"`
		}
		_ = json.NewDecoder(r.Body).Decode(&payload)

		g.mu.Lock()
		g.initAmount = payload.Amount
		g.initEmail = payload.Email
		g.initRef = payload.Reference
		g.mu.Unlock()

		_ = json.NewEncoder(w).Encode(map[string]any{
			"status":  true,
			"message": "Authorization URL created",
			"data": map[string]any{
				"authorization_url": "https://checkout.example.com/x1",
				"access_code":       "x1",
				"reference":         payload.Reference,
			},
		})
	})
	handler.HandleFunc("/transaction/verify/", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.NotFound(w, r)
			return
		}
		g.mu.Lock()
		g.verifyCalls++
		status := g.verifyStatus
		g.mu.Unlock()

		_ = json.NewEncoder(w).Encode(map[string]any{
			"status": true,
			"data": map[string]any{
				"status":    status,
				"reference": "ref-1",
				"amount":    7000,
			},
		})
	})

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return g, server
}

func newTestPaystack(server *httptest.Server, onAuth func(string) error) *Paystack {
	p := NewPaystack("sk_test_xyz", server.URL, onAuth)
	p.VerifyInterval = 10 * time.Millisecond
	p.VerifyTimeout = time.Second
	return p
}

func chargeRequest() ChargeRequest {
	return ChargeRequest{Amount: 70, Currency: "GHS", Email: "ama@example.com", Reference: "BK-1-abc"}
}

func TestPaystackChargeSuccess(t *testing.T) {
	gateway, server := newFakeGateway(t, "success")

	var checkoutURL string
	p := newTestPaystack(server, func(url string) error {
		checkoutURL = url
		return nil
	})

	receipt, err := p.Charge(context.Background(), chargeRequest())
	require.NoError(t, err)
	assert.Equal(t, "BK-1-abc", receipt.Reference)
	assert.Equal(t, 70.0, receipt.DepositAmount)
	assert.Equal(t, "https://checkout.example.com/x1", checkoutURL)

	gateway.mu.Lock()
	defer gateway.mu.Unlock()
	assert.Equal(t, int64(7000), gateway.initAmount, "amount is sent in minor units")
	assert.Equal(t, "ama@example.com", gateway.initEmail)
	assert.Equal(t, "BK-1-abc", gateway.initRef)
}

func TestPaystackChargeSettlesAfterPending(t *testing.T) {
	gateway, server := newFakeGateway(t, "pending")
	p := newTestPaystack(server, nil)

	go func() {
		time.Sleep(50 * time.Millisecond)
		gateway.setVerifyStatus("success")
	}()

	receipt, err := p.Charge(context.Background(), chargeRequest())
	require.NoError(t, err)
	assert.Equal(t, 70.0, receipt.DepositAmount)

	gateway.mu.Lock()
	defer gateway.mu.Unlock()
	assert.Greater(t, gateway.verifyCalls, 1, "verification polls until the charge settles")
}

func TestPaystackChargeAbandoned(t *testing.T) {
	_, server := newFakeGateway(t, "abandoned")
	p := newTestPaystack(server, nil)

	_, err := p.Charge(context.Background(), chargeRequest())
	assert.ErrorIs(t, err, ErrChargeCancelled)
}

func TestPaystackAuthorizationCallbackAborts(t *testing.T) {
	gateway, server := newFakeGateway(t, "success")
	p := newTestPaystack(server, func(string) error {
		return context.Canceled
	})

	_, err := p.Charge(context.Background(), chargeRequest())
	assert.ErrorIs(t, err, ErrChargeCancelled)

	gateway.mu.Lock()
	defer gateway.mu.Unlock()
	assert.Zero(t, gateway.verifyCalls, "no verification after an aborted checkout")
}

func TestPaystackChargeContextCancelled(t *testing.T) {
	_, server := newFakeGateway(t, "pending")
	p := newTestPaystack(server, nil)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(30 * time.Millisecond)
		cancel()
	}()

	_, err := p.Charge(ctx, chargeRequest())
	assert.ErrorIs(t, err, ErrChargeCancelled)
}

func TestPaystackInitializeRejected(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"status":  false,
			"message": "Invalid key",
		})
	}))
	defer server.Close()

	p := newTestPaystack(server, nil)
	_, err := p.Charge(context.Background(), chargeRequest())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Invalid key")
}

func TestPreFunded(t *testing.T) {
	receipt, err := PreFunded{}.Charge(context.Background(), chargeRequest())
	require.NoError(t, err)
	assert.Equal(t, "BK-1-abc", receipt.Reference)
	assert.Zero(t, receipt.DepositAmount, "pre-funded bookings carry no deposit amount")
}
