package domain

import "time"

// DepositBalance is the last-fetched pre-funded credit for the current user.
// The server owns the authoritative balance; this client only displays it.
type DepositBalance struct {
	AvailableBalance float64   `json:"availableBalance"`
	Currency         string    `json:"currency,omitempty"`
	FetchedAt        time.Time `json:"-"`
}

type DepositStatus string

const (
	DepositStatusPending  DepositStatus = "pending"
	DepositStatusVerified DepositStatus = "verified"
	DepositStatusFailed   DepositStatus = "failed"
)

// Deposit is a single top-up transaction.
type Deposit struct {
	ID        string        `json:"id"`
	Amount    float64       `json:"amount"`
	Status    DepositStatus `json:"status"`
	Reference string        `json:"reference"`
	CreatedAt time.Time     `json:"createdAt"`
}

// DepositRequest creates a top-up; the gateway reference is attached once the
// charge succeeds.
type DepositRequest struct {
	Amount    float64 `json:"amount"`
	Reference string  `json:"reference"`
}
