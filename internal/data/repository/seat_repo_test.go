package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"bus-booking/internal/data/entity"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newSeatRepoMock(t *testing.T) (SeatRepository, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return NewSeatRepository(mock, zap.NewNop()), mock
}

var seatColumns = []string{
	"id", "bus_id", "seat_number", "seat_row", "seat_col", "deck", "status", "passenger_id",
	"created_at", "updated_at", "name", "gender",
}

func TestSeatRepository_MarkBooked(t *testing.T) {
	guarded := regexp.QuoteMeta("WHERE bus_id = $1 AND seat_number = $2 AND status = 'AVAILABLE'")
	busID, passengerID := uuid.New(), uuid.New()

	t.Run("available seat is booked", func(t *testing.T) {
		repo, mock := newSeatRepoMock(t)
		mock.ExpectExec(guarded).
			WithArgs(busID, "R1C1", passengerID).
			WillReturnResult(pgxmock.NewResult("UPDATE", 1))

		require.NoError(t, repo.MarkBooked(context.Background(), busID, "R1C1", passengerID))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("no row updated means the seat is gone", func(t *testing.T) {
		repo, mock := newSeatRepoMock(t)
		mock.ExpectExec(guarded).
			WithArgs(busID, "R1C1", passengerID).
			WillReturnResult(pgxmock.NewResult("UPDATE", 0))

		err := repo.MarkBooked(context.Background(), busID, "R1C1", passengerID)
		require.ErrorIs(t, err, ErrSeatNotAvailable)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("driver error is not a seat conflict", func(t *testing.T) {
		repo, mock := newSeatRepoMock(t)
		mock.ExpectExec(guarded).
			WithArgs(busID, "R1C1", passengerID).
			WillReturnError(errors.New("connection reset"))

		err := repo.MarkBooked(context.Background(), busID, "R1C1", passengerID)
		require.Error(t, err)
		assert.NotErrorIs(t, err, ErrSeatNotAvailable)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestSeatRepository_FindByBusIDForUpdateLocksSeats(t *testing.T) {
	repo, mock := newSeatRepoMock(t)
	busID := uuid.New()

	mock.ExpectQuery(regexp.QuoteMeta("FOR UPDATE OF s")).
		WithArgs(busID).
		WillReturnRows(pgxmock.NewRows(seatColumns))

	seats, err := repo.FindByBusIDForUpdate(context.Background(), busID)
	require.NoError(t, err)
	assert.Empty(t, seats)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSeatRepository_FindByBusIDQueryError(t *testing.T) {
	repo, mock := newSeatRepoMock(t)
	busID := uuid.New()

	mock.ExpectQuery(regexp.QuoteMeta("LEFT JOIN passengers p ON p.id = s.passenger_id")).
		WithArgs(busID).
		WillReturnError(errors.New("relation \"seats\" does not exist"))

	_, err := repo.FindByBusID(context.Background(), busID)
	require.Error(t, err)
	assert.Contains(t, err.Error(), busID.String())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSeatRepository_Release(t *testing.T) {
	repo, mock := newSeatRepoMock(t)
	busID := uuid.New()
	ids := []uuid.UUID{uuid.New(), uuid.New()}

	mock.ExpectExec(regexp.QuoteMeta("WHERE bus_id = $1 AND passenger_id = ANY($2)")).
		WithArgs(busID, ids).
		WillReturnResult(pgxmock.NewResult("UPDATE", 2))

	n, err := repo.Release(context.Background(), busID, ids)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	n, err = repo.Release(context.Background(), busID, nil)
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSeatRepository_CountByBusID(t *testing.T) {
	repo, mock := newSeatRepoMock(t)
	busID := uuid.New()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM seats WHERE bus_id = $1")).
		WithArgs(busID).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(int64(28)))

	n, err := repo.CountByBusID(context.Background(), busID)
	require.NoError(t, err)
	assert.Equal(t, int64(28), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSeatRepository_CreateBatchUniqueViolation(t *testing.T) {
	busID := uuid.New()
	row, col := 1, 1
	now := time.Now()
	seats := []*entity.Seat{{
		Base:       entity.Base{ID: uuid.New(), CreatedAt: now, UpdatedAt: now},
		BusID:      busID,
		SeatNumber: "R1C1",
		SeatRow:    &row,
		SeatCol:    &col,
		Status:     entity.SeatStatusAvailable,
	}}

	t.Run("duplicate seat", func(t *testing.T) {
		repo, mock := newSeatRepoMock(t)
		mock.ExpectExec(regexp.QuoteMeta("INSERT INTO seats")).
			WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "uq_seats_bus_number"})

		err := repo.CreateBatch(context.Background(), seats)
		require.ErrorIs(t, err, ErrSeatExists)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("other constraint", func(t *testing.T) {
		repo, mock := newSeatRepoMock(t)
		mock.ExpectExec(regexp.QuoteMeta("INSERT INTO seats")).
			WillReturnError(&pgconn.PgError{Code: "23503", ConstraintName: "seats_bus_id_fkey"})

		err := repo.CreateBatch(context.Background(), seats)
		require.Error(t, err)
		assert.NotErrorIs(t, err, ErrSeatExists)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
