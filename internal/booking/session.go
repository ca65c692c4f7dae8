// Package booking orchestrates the client side of a booking: profile
// prefill, availability polling, the deposit gate, and submission through a
// payment strategy. All consistency (double-booking prevention, payment
// reconciliation) is re-checked server-side; the gate here is advisory.
package booking

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"hostelbook-client/internal/api"
	"hostelbook-client/internal/domain"
	"hostelbook-client/internal/logger"
	"hostelbook-client/internal/notify"
	"hostelbook-client/internal/pricing"
)

var (
	ErrSessionClosed        = errors.New("booking session is closed")
	ErrAlreadyBooked        = errors.New("booking already submitted in this session")
	ErrSubmissionInProgress = errors.New("a submission is already in progress")
	ErrNoRoomSelected       = errors.New("no room selected")
	ErrNoRoomsAvailable     = errors.New("no rooms available for the selected dates")
	ErrInsufficientBalance  = errors.New("deposit balance is below the booking fee")
)

// State tracks the session through the submission lifecycle. The
// idle→processing transition is the duplicate-submission guard.
type State string

const (
	StateIdle       State = "idle"
	StateProcessing State = "processing"
	StateDone       State = "done"
	StateClosed     State = "closed"
)

// Options are the injected constants the flow depends on.
type Options struct {
	Fee             float64
	Currency        string
	ReferencePrefix string
	PollInterval    time.Duration
	PollTimeout     time.Duration
}

func (o *Options) applyDefaults() {
	if o.Fee <= 0 {
		o.Fee = 70
	}
	if o.Currency == "" {
		o.Currency = "GHS"
	}
	if o.ReferencePrefix == "" {
		o.ReferencePrefix = "BK"
	}
	if o.PollInterval <= 0 {
		o.PollInterval = 3 * time.Second
	}
	if o.PollTimeout <= 0 {
		o.PollTimeout = 10 * time.Second
	}
}

// Recorder is an optional audit hook; the sync daemon's store implements it.
type Recorder interface {
	RecordBooking(ctx context.Context, b *domain.Booking) error
}

// Session is one booking flow, the lifetime the modal used to have. Not
// safe for copying; all methods are safe for concurrent use.
type Session struct {
	client   *api.Client
	opts     Options
	notifier notify.Notifier
	recorder Recorder
	logger   *slog.Logger

	mu          sync.Mutex
	ctx         context.Context
	cancel      context.CancelFunc
	hostelID    string
	profile     *domain.Profile
	form        Form
	roomType    *domain.RoomType
	rooms       []domain.Room
	selectedID  string
	balance     *domain.DepositBalance
	lastPollSeq uint64
	state       State
	poller      *Poller
	pollCancel  context.CancelFunc
}

// NewSession creates a session. The notifier may not be nil; pass
// notify.NewLog() when nothing richer is wired.
func NewSession(client *api.Client, opts Options, notifier notify.Notifier) *Session {
	opts.applyDefaults()
	return &Session{
		client:   client,
		opts:     opts,
		notifier: notifier,
		logger:   logger.With("component", "booking"),
		state:    StateIdle,
	}
}

// SetRecorder installs the audit hook for submitted bookings.
func (s *Session) SetRecorder(r Recorder) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.recorder = r
}

// Open loads the profile once, prefills the form, and fetches the initial
// deposit balance. ctx bounds the whole session; cancelling it stops any
// polling. Polling itself starts when valid dates are set.
func (s *Session) Open(ctx context.Context, hostelID string) error {
	profile, err := s.client.GetProfile(ctx)
	if err != nil {
		return fmt.Errorf("failed to load profile: %w", err)
	}

	balance, err := s.client.DepositBalance(ctx)
	if err != nil {
		// The gate simply stays shut until a refresh succeeds.
		s.logger.Warn("initial balance fetch failed", "error", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StateClosed {
		return ErrSessionClosed
	}
	s.ctx, s.cancel = context.WithCancel(ctx)
	s.hostelID = hostelID
	s.profile = profile
	s.form.Prefill(profile)
	s.balance = balance
	return nil
}

// Close ends the session and stops polling. Idempotent.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StateClosed {
		return
	}
	s.state = StateClosed
	s.stopPollingLocked()
	if s.cancel != nil {
		s.cancel()
	}
}

// SetDates updates the date pair and reconciles the poller: valid dates
// (re)start it so the first fetch happens immediately, invalid dates stop it.
func (s *Session) SetDates(checkIn, checkOut string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StateClosed {
		return
	}
	s.form.CheckInDate = checkIn
	s.form.CheckOutDate = checkOut

	s.stopPollingLocked()
	if s.form.DatesValid(time.Now()) && s.ctx != nil {
		s.startPollingLocked()
	}
}

// SetBookingType selects the billing granularity.
func (s *Session) SetBookingType(t domain.BookingType) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.form.BookingType = t
}

// SetRoomType narrows polled rooms to one room type and supplies the rate
// card used for quoting.
func (s *Session) SetRoomType(rt domain.RoomType) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.roomType = &rt
}

// SelectRoom marks a candidate room for booking.
func (s *Session) SelectRoom(roomID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selectedID = roomID
}

// SetContact overrides the prefilled contact fields.
func (s *Session) SetContact(fullName, email, phone string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.form.FullName = fullName
	s.form.Email = email
	s.form.Phone = phone
}

// Form returns a copy of the current form state.
func (s *Session) Form() Form {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.form
}

// Profile returns the loaded profile, nil before Open.
func (s *Session) Profile() *domain.Profile {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.profile
}

// Rooms returns the current candidate room list.
func (s *Session) Rooms() []domain.Room {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Room, len(s.rooms))
	copy(out, s.rooms)
	return out
}

// Balance returns the last fetched deposit balance and whether one has been
// fetched at all.
func (s *Session) Balance() (float64, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.balance == nil {
		return 0, false
	}
	return s.balance.AvailableBalance, true
}

// State returns the submission state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Quote returns the displayed total for the current form and rate card.
// Zero when inputs are incomplete.
func (s *Session) Quote() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.quoteLocked()
}

func (s *Session) quoteLocked() float64 {
	if s.roomType == nil {
		return 0
	}
	return pricing.Quote(pricing.RateCardFor(*s.roomType), s.form.BookingType,
		s.form.CheckInDate, s.form.CheckOutDate)
}

// CanBook is the deposit gate: a room is selected, the balance covers the
// booking fee, and the last poll saw at least one room. The server re-checks
// all three.
func (s *Session) CanBook() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.gateCheckLocked() == nil
}

func (s *Session) gateCheckLocked() error {
	if len(s.rooms) == 0 {
		return ErrNoRoomsAvailable
	}
	if s.selectedID == "" {
		return ErrNoRoomSelected
	}
	if s.balance == nil || s.balance.AvailableBalance < s.opts.Fee {
		return fmt.Errorf("%w (need %.2f %s)", ErrInsufficientBalance, s.opts.Fee, s.opts.Currency)
	}
	return nil
}

// RefreshBalance re-fetches the deposit balance, typically after a top-up.
func (s *Session) RefreshBalance(ctx context.Context) (float64, error) {
	balance, err := s.client.DepositBalance(ctx)
	if err != nil {
		return 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.balance = balance
	return balance.AvailableBalance, nil
}

// Poller lifecycle. Callers hold s.mu.

func (s *Session) startPollingLocked() {
	pollCtx, cancel := context.WithCancel(s.ctx)
	s.pollCancel = cancel
	s.lastPollSeq = 0

	fetch := func(ctx context.Context) ([]domain.Room, error) {
		s.mu.Lock()
		hostelID := s.hostelID
		checkIn := s.form.CheckInDate
		checkOut := s.form.CheckOutDate
		s.mu.Unlock()
		return s.client.Availability(ctx, hostelID, checkIn, checkOut)
	}

	// Sequence numbers are per poller, so results are attributed to the
	// poller that requested them; a late response from a replaced poller is
	// dropped rather than compared against the new sequence.
	var p *Poller
	apply := func(seq uint64, rooms []domain.Room) {
		s.applyPollResult(p, seq, rooms)
	}
	p = NewPoller(s.opts.PollInterval, s.opts.PollTimeout, fetch, apply,
		s.logger.With("component", "poller"))
	s.poller = p
	go p.Run(pollCtx)
}

func (s *Session) stopPollingLocked() {
	if s.pollCancel != nil {
		s.pollCancel()
		s.pollCancel = nil
		s.poller = nil
	}
}

// applyAvailability applies a poll result from the current poller.
func (s *Session) applyAvailability(seq uint64, rooms []domain.Room) {
	s.mu.Lock()
	p := s.poller
	s.mu.Unlock()
	s.applyPollResult(p, seq, rooms)
}

// applyPollResult replaces the candidate list with a poll result, filtered
// to the selected room type and to rooms with a free slot. Results from a
// replaced poller, and results older than the freshest applied one, are
// discarded.
func (s *Session) applyPollResult(from *Poller, seq uint64, rooms []domain.Room) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StateClosed || from != s.poller {
		return
	}
	if seq <= s.lastPollSeq {
		s.logger.Debug("discarding stale availability response", "seq", seq, "latest", s.lastPollSeq)
		return
	}
	s.lastPollSeq = seq

	filtered := make([]domain.Room, 0, len(rooms))
	for _, r := range rooms {
		if s.roomType != nil && r.RoomTypeID != s.roomType.ID {
			continue
		}
		if !r.Available() {
			continue
		}
		filtered = append(filtered, r)
	}
	s.rooms = filtered
}
