package scheduler

import (
	"time"

	"github.com/robfig/cron/v3"

	"hostelbook-client/internal/jobs"
	"hostelbook-client/internal/logger"
)

// Scheduler manages cron job scheduling for the sync daemon.
type Scheduler struct {
	cron *cron.Cron
	jobs *jobs.Runner
}

// NewScheduler creates a new scheduler with the provided job runner.
func NewScheduler(jobRunner *jobs.Runner) *Scheduler {
	// UTC with seconds precision so "@every Ns" specs work.
	c := cron.New(
		cron.WithLocation(time.UTC),
		cron.WithSeconds(),
	)

	s := &Scheduler{
		cron: c,
		jobs: jobRunner,
	}

	s.registerJobs()
	return s
}

func (s *Scheduler) registerJobs() {
	cfg := s.jobs.Config().Scheduler

	if _, err := s.cron.AddFunc(cfg.RefreshBalance, s.jobs.RefreshDepositBalance); err != nil {
		logger.Error("failed to register RefreshDepositBalance job", "error", err)
	}

	if _, err := s.cron.AddFunc(cfg.SnapshotAvailability, s.jobs.SnapshotAvailability); err != nil {
		logger.Error("failed to register SnapshotAvailability job", "error", err)
	}

	if _, err := s.cron.AddFunc(cfg.SyncBookings, s.jobs.SyncBookings); err != nil {
		logger.Error("failed to register SyncBookings job", "error", err)
	}

	logger.Info("all cron jobs registered")
}

// Start begins the cron scheduler.
func (s *Scheduler) Start() {
	s.cron.Start()
	logger.Info("scheduler started")
}

// Stop gracefully stops the scheduler, waiting for running jobs.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	logger.Info("scheduler stopped")
}
