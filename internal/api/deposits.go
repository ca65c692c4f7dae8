package api

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"

	"hostelbook-client/internal/domain"
)

// DepositBalance fetches the current user's available balance. The value is
// display-only; the server debits the authoritative balance.
func (c *Client) DepositBalance(ctx context.Context) (*domain.DepositBalance, error) {
	var balance domain.DepositBalance
	if err := c.do(ctx, http.MethodGet, "/deposits/balance", nil, nil, &balance); err != nil {
		return nil, err
	}
	balance.FetchedAt = time.Now()
	return &balance, nil
}

// CreateDeposit starts a top-up.
func (c *Client) CreateDeposit(ctx context.Context, req *domain.DepositRequest) (*domain.Deposit, error) {
	var deposit domain.Deposit
	err := c.doIdempotent(ctx, http.MethodPost, "/deposits", req, &deposit, uuid.NewString())
	if err != nil {
		return nil, err
	}
	return &deposit, nil
}

// VerifyDeposit asks the server to verify a top-up against the gateway by
// its reference.
func (c *Client) VerifyDeposit(ctx context.Context, reference string) (*domain.Deposit, error) {
	var deposit domain.Deposit
	err := c.do(ctx, http.MethodGet, "/deposits/verify/"+reference, nil, nil, &deposit)
	if err != nil {
		return nil, err
	}
	return &deposit, nil
}
