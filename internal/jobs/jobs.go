// Package jobs holds the sync daemon's recurring work: balance refresh,
// availability snapshots, and bookings sync. Each job fetches from the
// remote API and writes observations to the local store.
package jobs

import (
	"context"
	"sync"
	"time"

	"hostelbook-client/internal/api"
	"hostelbook-client/internal/config"
	"hostelbook-client/internal/logger"
	"hostelbook-client/internal/notify"
	"hostelbook-client/internal/store"
)

// jobTimeout bounds one job run end to end.
const jobTimeout = 2 * time.Minute

// Runner coordinates all scheduled jobs.
type Runner struct {
	client   *api.Client
	store    *store.Store
	notifier notify.Notifier
	config   *config.Config

	mu       sync.Mutex
	lastRuns map[string]time.Time
}

// NewRunner creates a job runner with all dependencies.
func NewRunner(client *api.Client, st *store.Store, notifier notify.Notifier, cfg *config.Config) *Runner {
	return &Runner{
		client:   client,
		store:    st,
		notifier: notifier,
		config:   cfg,
		lastRuns: make(map[string]time.Time),
	}
}

// Config returns the runner's configuration, used by the scheduler for cron
// specs.
func (r *Runner) Config() *config.Config {
	return r.config
}

// LastRuns returns a copy of each job's last completion time.
func (r *Runner) LastRuns() map[string]time.Time {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make(map[string]time.Time, len(r.lastRuns))
	for k, v := range r.lastRuns {
		out[k] = v
	}
	return out
}

// runWithRecovery wraps job execution with panic recovery and run tracking.
func (r *Runner) runWithRecovery(jobName string, jobFunc func(ctx context.Context)) {
	defer func() {
		if p := recover(); p != nil {
			logger.Error("job panicked", "job", jobName, "panic", p)
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	logger.Info("starting job", "job", jobName)
	jobFunc(ctx)
	logger.Info("job completed", "job", jobName)

	r.mu.Lock()
	r.lastRuns[jobName] = time.Now()
	r.mu.Unlock()
}

// RefreshDepositBalance fetches the deposit balance, records it, and warns
// the operator when it no longer covers the booking fee.
func (r *Runner) RefreshDepositBalance() {
	r.runWithRecovery("refresh_deposit_balance", func(ctx context.Context) {
		balance, err := r.client.DepositBalance(ctx)
		if err != nil {
			logger.Error("failed to fetch deposit balance", "error", err)
			return
		}
		if err := r.store.RecordBalance(ctx, balance); err != nil {
			logger.Error("failed to record balance", "error", err)
		}

		fee := r.config.Booking.Fee
		if balance.AvailableBalance < fee {
			r.notifier.Errorf("deposit balance %.2f %s is below the booking fee %.2f, top up before booking",
				balance.AvailableBalance, r.config.Booking.Currency, fee)
		}
	})
}

// SnapshotAvailability polls every configured hostel/date watch and stores
// the observed rooms.
func (r *Runner) SnapshotAvailability() {
	r.runWithRecovery("snapshot_availability", func(ctx context.Context) {
		for _, w := range r.config.Scheduler.Watches {
			rooms, err := r.client.Availability(ctx, w.HostelID, w.CheckInDate, w.CheckOutDate)
			if err != nil {
				logger.Warn("availability snapshot failed", "hostel", w.HostelID, "error", err)
				continue
			}
			if err := r.store.SaveSnapshot(ctx, w.HostelID, w.CheckInDate, w.CheckOutDate, rooms); err != nil {
				logger.Error("failed to save snapshot", "hostel", w.HostelID, "error", err)
				continue
			}
			logger.Debug("availability snapshot saved", "hostel", w.HostelID, "rooms", len(rooms))
		}
	})
}

// SyncBookings pulls the current user's bookings into the audit log. Status
// transitions happen server-side; this is how the daemon observes them.
func (r *Runner) SyncBookings() {
	r.runWithRecovery("sync_bookings", func(ctx context.Context) {
		bookings, err := r.client.ListBookings(ctx)
		if err != nil {
			logger.Error("failed to list bookings", "error", err)
			return
		}
		for i := range bookings {
			if err := r.store.RecordBooking(ctx, &bookings[i]); err != nil {
				logger.Error("failed to record booking", "booking", bookings[i].ID, "error", err)
			}
		}
		logger.Debug("bookings synced", "count", len(bookings))
	})
}

// RunAll runs every job once, for manual execution.
func (r *Runner) RunAll() {
	r.RefreshDepositBalance()
	r.SnapshotAvailability()
	r.SyncBookings()
}
