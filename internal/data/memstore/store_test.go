package memstore_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"bus-booking/internal/data/entity"
	"bus-booking/internal/data/memstore"
	"bus-booking/internal/data/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedBus(t *testing.T, repo *repository.Repository) uuid.UUID {
	t.Helper()
	now := time.Now()
	bus := &entity.Bus{
		Base:      entity.Base{ID: uuid.New(), CreatedAt: now, UpdatedAt: now},
		BusName:   "Night Liner",
		BusNumber: "B-" + uuid.NewString()[:6],
		SeatRows:  1,
		SeatCols:  2,
	}
	require.NoError(t, repo.Bus.Create(context.Background(), bus))

	row, c1, c2 := 1, 1, 2
	require.NoError(t, repo.Seat.CreateBatch(context.Background(), []*entity.Seat{
		{Base: entity.Base{ID: uuid.New()}, BusID: bus.ID, SeatNumber: "R1C2", SeatRow: &row, SeatCol: &c2, Status: entity.SeatStatusAvailable},
		{Base: entity.Base{ID: uuid.New()}, BusID: bus.ID, SeatNumber: "R1C1", SeatRow: &row, SeatCol: &c1, Status: entity.SeatStatusAvailable},
	}))
	return bus.ID
}

func TestWithTx_CommitAndRollback(t *testing.T) {
	ctx := context.Background()
	store := memstore.New()
	repo := store.Repository()
	busID := seedBus(t, repo)

	boom := errors.New("boom")
	err := repo.WithTx(ctx, func(tx *repository.Repository) error {
		require.NoError(t, tx.Seat.MarkBooked(ctx, busID, "R1C1", uuid.New()))
		return boom
	})
	require.ErrorIs(t, err, boom)

	seats, err := repo.Seat.FindByBusID(ctx, busID)
	require.NoError(t, err)
	require.Len(t, seats, 2)
	assert.Equal(t, "R1C1", seats[0].SeatNumber)
	assert.Equal(t, entity.SeatStatusAvailable, seats[0].Status)

	err = repo.WithTx(ctx, func(tx *repository.Repository) error {
		return tx.Seat.MarkBooked(ctx, busID, "R1C1", uuid.New())
	})
	require.NoError(t, err)

	seats, err = repo.Seat.FindByBusID(ctx, busID)
	require.NoError(t, err)
	assert.Equal(t, entity.SeatStatusBooked, seats[0].Status)

	err = repo.Seat.MarkBooked(ctx, busID, "R1C1", uuid.New())
	assert.ErrorIs(t, err, repository.ErrSeatNotAvailable)
}

func TestWithTx_Decorator(t *testing.T) {
	ctx := context.Background()
	var calls int
	store := memstore.New(memstore.WithTxDecorator(func(r *repository.Repository) *repository.Repository {
		calls++
		return r
	}))
	repo := store.Repository()
	seedBus(t, repo)

	require.NoError(t, repo.WithTx(ctx, func(*repository.Repository) error { return nil }))
	assert.Equal(t, 1, calls)
}

func TestWithTx_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	ran := false
	err := memstore.New().Repository().WithTx(ctx, func(*repository.Repository) error {
		ran = true
		return nil
	})
	require.ErrorIs(t, err, context.Canceled)
	assert.False(t, ran)
}

func TestSeatCreateBatch_RejectsDuplicates(t *testing.T) {
	ctx := context.Background()
	repo := memstore.New().Repository()
	busID := seedBus(t, repo)

	row, c1, c3, c4 := 1, 1, 3, 4
	tests := []struct {
		name  string
		seats []*entity.Seat
	}{
		{
			name: "number already on the bus",
			seats: []*entity.Seat{
				{Base: entity.Base{ID: uuid.New()}, BusID: busID, SeatNumber: "R1C1", SeatRow: &row, SeatCol: &c3, Status: entity.SeatStatusAvailable},
			},
		},
		{
			name: "position already on the bus",
			seats: []*entity.Seat{
				{Base: entity.Base{ID: uuid.New()}, BusID: busID, SeatNumber: "X1", SeatRow: &row, SeatCol: &c1, Status: entity.SeatStatusAvailable},
			},
		},
		{
			name: "repeated inside the batch",
			seats: []*entity.Seat{
				{Base: entity.Base{ID: uuid.New()}, BusID: busID, SeatNumber: "R1C3", SeatRow: &row, SeatCol: &c3, Status: entity.SeatStatusAvailable},
				{Base: entity.Base{ID: uuid.New()}, BusID: busID, SeatNumber: "R1C3", SeatRow: &row, SeatCol: &c4, Status: entity.SeatStatusAvailable},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := repo.Seat.CreateBatch(ctx, tt.seats)
			require.ErrorIs(t, err, repository.ErrSeatExists)

			n, err := repo.Seat.CountByBusID(ctx, busID)
			require.NoError(t, err)
			assert.Equal(t, int64(2), n, "nothing of the batch is written")
		})
	}

	// seats without a position do not collide with each other
	require.NoError(t, repo.Seat.CreateBatch(ctx, []*entity.Seat{
		{Base: entity.Base{ID: uuid.New()}, BusID: busID, SeatNumber: "S1", Status: entity.SeatStatusAvailable},
		{Base: entity.Base{ID: uuid.New()}, BusID: busID, SeatNumber: "S2", Status: entity.SeatStatusAvailable},
	}))
}
