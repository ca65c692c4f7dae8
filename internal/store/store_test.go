package store

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hostelbook-client/internal/domain"
)

func newMockStore(t *testing.T) (*Store, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return New(db), mock
}

func TestSaveSnapshot(t *testing.T) {
	t.Run("Inserts one row per room in a transaction", func(t *testing.T) {
		store, mock := newMockStore(t)

		mock.ExpectBegin()
		prep := mock.ExpectPrepare("INSERT INTO availability_snapshots")
		prep.ExpectExec().
			WithArgs("h1", "2027-09-01", "2027-12-20", "r1", "rt1", 2).
			WillReturnResult(sqlmock.NewResult(1, 1))
		prep.ExpectExec().
			WithArgs("h1", "2027-09-01", "2027-12-20", "r2", "rt1", 0).
			WillReturnResult(sqlmock.NewResult(2, 1))
		mock.ExpectCommit()

		rooms := []domain.Room{
			{ID: "r1", RoomTypeID: "rt1", MaxOccupancy: 4, CurrentOccupancy: 2},
			// Over-occupancy clamps free slots to zero rather than going negative.
			{ID: "r2", RoomTypeID: "rt1", MaxOccupancy: 4, CurrentOccupancy: 5},
		}
		err := store.SaveSnapshot(context.Background(), "h1", "2027-09-01", "2027-12-20", rooms)
		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("No rooms means no transaction", func(t *testing.T) {
		store, mock := newMockStore(t)
		err := store.SaveSnapshot(context.Background(), "h1", "2027-09-01", "2027-12-20", nil)
		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Rolls back on insert failure", func(t *testing.T) {
		store, mock := newMockStore(t)

		mock.ExpectBegin()
		prep := mock.ExpectPrepare("INSERT INTO availability_snapshots")
		prep.ExpectExec().
			WithArgs("h1", "2027-09-01", "2027-12-20", "r1", "rt1", 2).
			WillReturnError(assert.AnError)
		mock.ExpectRollback()

		rooms := []domain.Room{{ID: "r1", RoomTypeID: "rt1", MaxOccupancy: 4, CurrentOccupancy: 2}}
		err := store.SaveSnapshot(context.Background(), "h1", "2027-09-01", "2027-12-20", rooms)
		require.Error(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestRecordBooking(t *testing.T) {
	store, mock := newMockStore(t)

	booking := &domain.Booking{
		ID:               "b1",
		HostelID:         "h1",
		RoomID:           "r1",
		Status:           domain.BookingStatusPending,
		PaymentStatus:    domain.PaymentStatusPending,
		TotalAmount:      1500,
		PaymentReference: "BK-1-abc",
	}

	mock.ExpectExec("INSERT INTO booking_log").
		WithArgs("b1", "h1", "r1", "pending", "pending", 1500.0, "BK-1-abc").
		WillReturnResult(sqlmock.NewResult(1, 1))

	require.NoError(t, store.RecordBooking(context.Background(), booking))

	// Same booking in the same state conflicts and is dropped silently.
	mock.ExpectExec("INSERT INTO booking_log").
		WithArgs("b1", "h1", "r1", "pending", "pending", 1500.0, "BK-1-abc").
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, store.RecordBooking(context.Background(), booking))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecordBalance(t *testing.T) {
	t.Run("Records the fetched balance", func(t *testing.T) {
		store, mock := newMockStore(t)
		mock.ExpectExec("INSERT INTO balance_history").
			WithArgs(130.5, "GHS").
			WillReturnResult(sqlmock.NewResult(1, 1))

		bal := &domain.DepositBalance{AvailableBalance: 130.5, Currency: "GHS"}
		require.NoError(t, store.RecordBalance(context.Background(), bal))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Defaults a missing currency", func(t *testing.T) {
		store, mock := newMockStore(t)
		mock.ExpectExec("INSERT INTO balance_history").
			WithArgs(40.0, "GHS").
			WillReturnResult(sqlmock.NewResult(1, 1))

		bal := &domain.DepositBalance{AvailableBalance: 40}
		require.NoError(t, store.RecordBalance(context.Background(), bal))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestLastBalance(t *testing.T) {
	t.Run("Returns the latest observation", func(t *testing.T) {
		store, mock := newMockStore(t)
		fetchedAt := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)
		mock.ExpectQuery("SELECT balance, fetched_at FROM balance_history").
			WillReturnRows(sqlmock.NewRows([]string{"balance", "fetched_at"}).AddRow(90.0, fetchedAt))

		balance, at, err := store.LastBalance(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 90.0, balance)
		assert.Equal(t, fetchedAt, at)
	})

	t.Run("Empty history returns zero values", func(t *testing.T) {
		store, mock := newMockStore(t)
		mock.ExpectQuery("SELECT balance, fetched_at FROM balance_history").
			WillReturnRows(sqlmock.NewRows([]string{"balance", "fetched_at"}))

		balance, at, err := store.LastBalance(context.Background())
		require.NoError(t, err)
		assert.Zero(t, balance)
		assert.True(t, at.IsZero())
	})
}

func TestSnapshotCount(t *testing.T) {
	store, mock := newMockStore(t)
	mock.ExpectQuery("SELECT COUNT").
		WithArgs("h1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(42))

	count, err := store.SnapshotCount(context.Background(), "h1")
	require.NoError(t, err)
	assert.Equal(t, int64(42), count)
}
