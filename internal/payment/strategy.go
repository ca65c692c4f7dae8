// Package payment holds the payment strategies the booking submitter is
// parameterized by. The two historical submission paths (gateway checkout vs
// pre-funded deposit) share one interface here.
package payment

import (
	"context"
	"errors"
)

// ErrChargeCancelled indicates the payer abandoned the checkout without
// completing it.
var ErrChargeCancelled = errors.New("payment was cancelled")

// ChargeRequest describes the charge a strategy must obtain before the
// booking is submitted. Amount is in major currency units (GHS).
type ChargeRequest struct {
	Amount    float64
	Currency  string
	Email     string
	Reference string // client-generated reference for the attempt
}

// Receipt is the outcome of a successful charge. Reference is what the
// booking payload carries as paymentReference.
type Receipt struct {
	Reference     string
	DepositAmount float64
}

// Strategy obtains payment for a booking.
type Strategy interface {
	Name() string
	Charge(ctx context.Context, req ChargeRequest) (*Receipt, error)
}

// PreFunded draws on the student's deposit balance. No gateway round-trip
// happens here: the deposit gate has already verified the balance and the
// server performs the debit. The payload carries depositAmount 0 and the
// locally generated reference.
type PreFunded struct{}

func (PreFunded) Name() string { return "pre_funded" }

func (PreFunded) Charge(_ context.Context, req ChargeRequest) (*Receipt, error) {
	return &Receipt{Reference: req.Reference, DepositAmount: 0}, nil
}
