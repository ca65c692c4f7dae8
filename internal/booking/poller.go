package booking

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"hostelbook-client/internal/domain"
)

// FetchFunc issues one availability query.
type FetchFunc func(ctx context.Context) ([]domain.Room, error)

// ApplyFunc receives a poll result together with the sequence number of the
// request that produced it. The consumer discards results whose sequence is
// not newer than the last one applied, so an out-of-order response can never
// overwrite fresher data.
type ApplyFunc func(seq uint64, rooms []domain.Room)

// Poller keeps the candidate room list fresh: one fetch immediately on
// start, then one per interval for as long as its context lives. Fetch
// failures are logged and otherwise swallowed; the previous list stands.
type Poller struct {
	interval time.Duration
	timeout  time.Duration
	fetch    FetchFunc
	apply    ApplyFunc
	logger   *slog.Logger

	seq   atomic.Uint64 // sequence of the most recently issued request
	polls atomic.Uint64 // completed fetch attempts, successful or not
}

// NewPoller creates a poller. timeout bounds each individual request so a
// hung fetch cannot wedge a tick; ticks never wait for each other.
func NewPoller(interval, timeout time.Duration, fetch FetchFunc, apply ApplyFunc, logger *slog.Logger) *Poller {
	return &Poller{
		interval: interval,
		timeout:  timeout,
		fetch:    fetch,
		apply:    apply,
		logger:   logger,
	}
}

// Run polls until ctx is cancelled. It blocks; callers start it in a
// goroutine scoped to the booking session.
func (p *Poller) Run(ctx context.Context) {
	p.pollOnce(ctx)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.pollOnce(ctx)
		}
	}
}

// pollOnce fires an independent request for this tick and returns without
// waiting for it.
func (p *Poller) pollOnce(ctx context.Context) {
	seq := p.seq.Add(1)

	go func() {
		fetchCtx, cancel := context.WithTimeout(ctx, p.timeout)
		defer cancel()
		defer p.polls.Add(1)

		rooms, err := p.fetch(fetchCtx)
		if err != nil {
			// Background poll failures are never surfaced to the user.
			p.logger.Warn("availability poll failed", "seq", seq, "error", err)
			return
		}
		p.apply(seq, rooms)
	}()
}

// Polls returns the number of completed fetch attempts.
func (p *Poller) Polls() uint64 {
	return p.polls.Load()
}
