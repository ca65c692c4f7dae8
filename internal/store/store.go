// Package store is the sync daemon's local PostgreSQL store: availability
// snapshots, a submitted-booking audit log, and balance history. It holds
// observations of server-owned data, never authoritative state.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/lib/pq"

	"hostelbook-client/internal/domain"
	"hostelbook-client/internal/logger"
)

type Store struct {
	db     *sql.DB
	logger *slog.Logger
}

// Open connects to PostgreSQL and pings it.
func Open(connStr string) (*Store, error) {
	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return New(db), nil
}

// New wraps an existing connection, used by tests with a mock driver.
func New(db *sql.DB) *Store {
	return &Store{db: db, logger: logger.With("component", "store")}
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Init creates the tables if they do not exist.
func (s *Store) Init(ctx context.Context) error {
	ddl := `
	CREATE TABLE IF NOT EXISTS availability_snapshots (
		id           SERIAL PRIMARY KEY,
		hostel_id    TEXT NOT NULL,
		check_in     DATE NOT NULL,
		check_out    DATE NOT NULL,
		room_id      TEXT NOT NULL,
		room_type_id TEXT,
		free_slots   INT  NOT NULL DEFAULT 0,
		observed_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);
	CREATE INDEX IF NOT EXISTS idx_snapshots_hostel ON availability_snapshots (hostel_id, observed_at);

	CREATE TABLE IF NOT EXISTS booking_log (
		id                SERIAL PRIMARY KEY,
		booking_id        TEXT NOT NULL,
		hostel_id         TEXT NOT NULL,
		room_id           TEXT,
		status            TEXT NOT NULL,
		payment_status    TEXT NOT NULL,
		total_amount      NUMERIC(12,2) NOT NULL DEFAULT 0,
		payment_reference TEXT,
		recorded_at       TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		UNIQUE (booking_id, status, payment_status)
	);

	CREATE TABLE IF NOT EXISTS balance_history (
		id         SERIAL PRIMARY KEY,
		balance    NUMERIC(12,2) NOT NULL,
		currency   TEXT NOT NULL DEFAULT 'GHS',
		fetched_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);
	`
	if _, err := s.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("failed to create tables: %w", err)
	}
	s.logger.Info("store tables ready")
	return nil
}

// SaveSnapshot inserts one observation row per room in a single transaction.
func (s *Store) SaveSnapshot(ctx context.Context, hostelID, checkIn, checkOut string, rooms []domain.Room) error {
	if len(rooms) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO availability_snapshots (hostel_id, check_in, check_out, room_id, room_type_id, free_slots)
		VALUES ($1, $2, $3, $4, $5, $6)`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, r := range rooms {
		free := r.MaxOccupancy - r.CurrentOccupancy
		if free < 0 {
			free = 0
		}
		if _, err := stmt.ExecContext(ctx, hostelID, checkIn, checkOut, r.ID, r.RoomTypeID, free); err != nil {
			return fmt.Errorf("failed to insert snapshot row: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit snapshot: %w", err)
	}
	return nil
}

// RecordBooking appends a booking observation. Re-observing the same
// booking in the same state is a no-op.
func (s *Store) RecordBooking(ctx context.Context, b *domain.Booking) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO booking_log (booking_id, hostel_id, room_id, status, payment_status, total_amount, payment_reference)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (booking_id, status, payment_status) DO NOTHING`,
		b.ID, b.HostelID, b.RoomID, string(b.Status), string(b.PaymentStatus), b.TotalAmount, b.PaymentReference)
	if err != nil {
		return fmt.Errorf("failed to record booking %s: %w", b.ID, err)
	}
	return nil
}

// RecordBalance appends a balance observation.
func (s *Store) RecordBalance(ctx context.Context, bal *domain.DepositBalance) error {
	currency := bal.Currency
	if currency == "" {
		currency = "GHS"
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO balance_history (balance, currency) VALUES ($1, $2)`,
		bal.AvailableBalance, currency)
	if err != nil {
		return fmt.Errorf("failed to record balance: %w", err)
	}
	return nil
}

// LastBalance returns the most recent balance observation.
func (s *Store) LastBalance(ctx context.Context) (float64, time.Time, error) {
	var balance float64
	var fetchedAt time.Time
	err := s.db.QueryRowContext(ctx, `
		SELECT balance, fetched_at FROM balance_history ORDER BY fetched_at DESC LIMIT 1`).
		Scan(&balance, &fetchedAt)
	if err == sql.ErrNoRows {
		return 0, time.Time{}, nil
	}
	if err != nil {
		return 0, time.Time{}, fmt.Errorf("failed to read last balance: %w", err)
	}
	return balance, fetchedAt, nil
}

// SnapshotCount returns the number of availability observations for a hostel.
func (s *Store) SnapshotCount(ctx context.Context, hostelID string) (int64, error) {
	var count int64
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM availability_snapshots WHERE hostel_id = $1`, hostelID).
		Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count snapshots: %w", err)
	}
	return count, nil
}
