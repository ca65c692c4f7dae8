package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"hostelbook-client/internal/api"
	"hostelbook-client/internal/domain"
	"hostelbook-client/internal/payment"
)

// ValidationError carries per-field messages for inline display. Submission
// never reaches the network while one is outstanding.
type ValidationError struct {
	Fields FieldErrors
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("booking form is invalid (%d field(s))", len(e.Fields))
}

// Confirm validates the form, checks the gate, obtains payment through the
// strategy, and posts the booking. On success the session is done and
// polling stops; on failure it stays open for another attempt. There is no
// automatic retry.
func (s *Session) Confirm(ctx context.Context, strategy payment.Strategy) (*domain.Booking, error) {
	req, total, err := s.beginSubmission()
	if err != nil {
		return nil, err
	}

	reference := GenerateReference(s.opts.ReferencePrefix)
	receipt, err := strategy.Charge(ctx, payment.ChargeRequest{
		Amount:    total,
		Currency:  s.opts.Currency,
		Email:     req.Email,
		Reference: reference,
	})
	if err != nil {
		s.abortSubmission()
		if errors.Is(err, payment.ErrChargeCancelled) {
			s.notifier.Errorf("payment was cancelled, booking not submitted")
		} else {
			s.notifier.Errorf("payment failed: %v", err)
		}
		return nil, err
	}

	req.PaymentReference = receipt.Reference
	req.DepositAmount = receipt.DepositAmount

	created, err := s.client.CreateBooking(ctx, req)
	if err != nil {
		s.abortSubmission()
		s.notifier.Errorf("booking failed: %s", serverMessage(err))
		return nil, err
	}

	s.finishSubmission()
	s.audit(ctx, created)
	s.notifier.Successf("booking confirmed for room %s, reference %s", req.RoomID, req.PaymentReference)
	return created, nil
}

// beginSubmission runs validation and the gate, snapshots the payload, and
// moves the session to processing. Confirm while processing is rejected, the
// double-click guard.
func (s *Session) beginSubmission() (*domain.BookingRequest, float64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.state {
	case StateClosed:
		return nil, 0, ErrSessionClosed
	case StateDone:
		return nil, 0, ErrAlreadyBooked
	case StateProcessing:
		return nil, 0, ErrSubmissionInProgress
	}

	if fieldErrs := s.form.Validate(time.Now()); fieldErrs.Any() {
		return nil, 0, &ValidationError{Fields: fieldErrs}
	}
	if err := s.gateCheckLocked(); err != nil {
		return nil, 0, err
	}

	total := s.quoteLocked()
	req := &domain.BookingRequest{
		HostelID:     s.hostelID,
		RoomID:       s.selectedID,
		FullName:     s.form.FullName,
		Email:        s.form.Email,
		Phone:        s.form.Phone,
		BookingType:  s.form.BookingType,
		CheckInDate:  s.form.CheckInDate,
		CheckOutDate: s.form.CheckOutDate,
		TotalAmount:  total,
	}

	s.state = StateProcessing
	return req, total, nil
}

func (s *Session) abortSubmission() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StateProcessing {
		s.state = StateIdle
	}
}

func (s *Session) finishSubmission() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = StateDone
	s.stopPollingLocked()
}

func (s *Session) audit(ctx context.Context, b *domain.Booking) {
	s.mu.Lock()
	recorder := s.recorder
	s.mu.Unlock()
	if recorder == nil {
		return
	}
	if err := recorder.RecordBooking(ctx, b); err != nil {
		s.logger.Warn("failed to record booking in audit store", "error", err)
	}
}

// TopUp runs the deposit sub-flow and refreshes the session's balance. It
// never re-invokes Confirm; the caller decides when to retry the booking.
func (s *Session) TopUp(ctx context.Context, amount float64, strategy payment.Strategy) (float64, error) {
	s.mu.Lock()
	email := s.form.Email
	s.mu.Unlock()

	if err := TopUp(ctx, s.client, s.opts.Currency, email, amount, strategy); err != nil {
		return 0, err
	}

	balance, err := s.RefreshBalance(ctx)
	if err != nil {
		return 0, err
	}
	s.notifier.Successf("deposit of %.2f %s verified, balance is now %.2f",
		amount, s.opts.Currency, balance)
	return balance, nil
}

// TopUp charges a deposit through the strategy, registers it, and has the
// server verify it against the gateway.
func TopUp(ctx context.Context, client *api.Client, currency, email string, amount float64, strategy payment.Strategy) error {
	reference := GenerateReference("DEP")
	receipt, err := strategy.Charge(ctx, payment.ChargeRequest{
		Amount:    amount,
		Currency:  currency,
		Email:     email,
		Reference: reference,
	})
	if err != nil {
		return err
	}

	if _, err := client.CreateDeposit(ctx, &domain.DepositRequest{
		Amount:    amount,
		Reference: receipt.Reference,
	}); err != nil {
		return fmt.Errorf("failed to register deposit: %w", err)
	}

	deposit, err := client.VerifyDeposit(ctx, receipt.Reference)
	if err != nil {
		return fmt.Errorf("failed to verify deposit: %w", err)
	}
	if deposit.Status != domain.DepositStatusVerified {
		return fmt.Errorf("deposit %s not verified (status %s)", receipt.Reference, deposit.Status)
	}
	return nil
}

// serverMessage extracts the server's own error message when the failure is
// an API error, so it can be surfaced verbatim.
func serverMessage(err error) string {
	var apiErr *api.Error
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return err.Error()
}
