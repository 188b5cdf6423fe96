package usecase_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"bus-booking/internal/data/entity"
	"bus-booking/internal/data/memstore"
	"bus-booking/internal/data/repository"
	"bus-booking/internal/domain"
	"bus-booking/internal/domain/allocation"
	"bus-booking/internal/dto/request"
	"bus-booking/internal/event"
	"bus-booking/internal/reservation"
	"bus-booking/internal/usecase"
	"bus-booking/pkg/utils"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type env struct {
	repo  *repository.Repository
	svc   *usecase.Service
	busID uuid.UUID
}

func newEnv(t *testing.T, cfg utils.BookingConfig) *env {
	t.Helper()
	ctx := context.Background()
	repo := memstore.New().Repository()

	now := time.Now()
	bus := &entity.Bus{
		Base:          entity.Base{ID: uuid.New(), CreatedAt: now, UpdatedAt: now},
		BusName:       "Sumber Jaya",
		BusNumber:     "SJ-01",
		RouteFrom:     "Jakarta",
		RouteTo:       "Surabaya",
		DepartureTime: now.Add(24 * time.Hour),
		ArrivalTime:   now.Add(36 * time.Hour),
		Price:         125000,
		SeatRows:      2,
		SeatCols:      4,
	}
	require.NoError(t, repo.Bus.Create(ctx, bus))

	mode, err := allocation.ParseAdjacencyMode(cfg.AdjacencyPolicy)
	require.NoError(t, err)

	coord := reservation.NewCoordinator(repo, reservation.NewLocalLocker(), event.NewLogPublisher(zap.NewNop()), reservation.Config{
		Policy:   allocation.Policy{Adjacency: mode},
		LockWait: time.Second,
	}, zap.NewNop())
	_, err = coord.EnsureLayout(ctx, bus.ID)
	require.NoError(t, err)

	svc := usecase.NewService(repo, coord, &utils.Config{Booking: cfg}, zap.NewNop())
	return &env{repo: repo, svc: svc, busID: bus.ID}
}

func defaultConfig() utils.BookingConfig {
	return utils.BookingConfig{AdjacencyPolicy: "warn", AllowDeferredSeating: true}
}

func draftWith(busID uuid.UUID, ps ...domain.Passenger) *domain.Draft {
	d := domain.NewDraft(busID).SetRoute("Pulo Gebang", "Bungurasih")
	for _, p := range ps {
		d.AppendPassenger(p)
	}
	return d
}

func validationFields(t *testing.T, err error) map[string]string {
	t.Helper()
	var verr *domain.ValidationError
	require.True(t, errors.As(err, &verr), "expected validation error, got %v", err)
	return verr.Fields
}

func TestSubmit_Success(t *testing.T) {
	e := newEnv(t, defaultConfig())

	res, err := e.svc.Booking.Submit(context.Background(), draftWith(e.busID,
		domain.Passenger{Name: "Budi", Age: 30, Gender: domain.GenderMale, SeatNumber: "R1C1"},
		domain.Passenger{Name: "Sari", Age: 28, Gender: domain.GenderFemale, SeatNumber: "R1C2"},
	))
	require.NoError(t, err)

	assert.NotEmpty(t, res.ID)
	assert.Equal(t, 250000.0, res.TotalAmount)
	assert.Equal(t, []string{"R1C1", "R1C2"}, res.SeatNumbers)
	assert.Equal(t, domain.BookingConfirmed, res.Status)
	assert.Equal(t, "Pulo Gebang", res.BoardingPoint)

	got, err := e.svc.Booking.GetBookingByID(context.Background(), res.ID)
	require.NoError(t, err)
	assert.Equal(t, res.Reference, got.Reference)
	assert.Len(t, got.Passengers, 2)
}

func TestSubmit_Validation(t *testing.T) {
	e := newEnv(t, defaultConfig())
	ctx := context.Background()

	_, err := e.svc.Booking.Submit(ctx, domain.NewDraft(e.busID))
	fields := validationFields(t, err)
	assert.Contains(t, fields, "passengers")
	assert.Contains(t, fields, "boarding_point")
	assert.Contains(t, fields, "dropping_point")

	d := domain.NewDraft(e.busID).SetRoute("A", "  ")
	d.AppendPassenger(domain.Passenger{Name: "Budi", Gender: domain.GenderMale, SeatNumber: "R1C1"})
	_, err = e.svc.Booking.Submit(ctx, d)
	assert.Equal(t, map[string]string{"dropping_point": "dropping point is required"}, validationFields(t, err))
}

func TestSubmit_DeferredSeatingDisabled(t *testing.T) {
	cfg := defaultConfig()
	cfg.AllowDeferredSeating = false
	e := newEnv(t, cfg)

	_, err := e.svc.Booking.Submit(context.Background(), draftWith(e.busID,
		domain.Passenger{Name: "Budi", Gender: domain.GenderMale, SeatNumber: "R1C1"},
		domain.Passenger{Name: "Later", Gender: domain.GenderMale},
	))
	assert.Equal(t, map[string]string{"passengers[1].seat_number": "seat is required"}, validationFields(t, err))
}

func TestSubmit_ConflictsSurfaceVerbatim(t *testing.T) {
	e := newEnv(t, defaultConfig())
	ctx := context.Background()

	_, err := e.svc.Booking.Submit(ctx, draftWith(e.busID, domain.Passenger{Name: "Budi", Gender: domain.GenderMale, SeatNumber: "R2C1"}))
	require.NoError(t, err)

	_, err = e.svc.Booking.Submit(ctx, draftWith(e.busID,
		domain.Passenger{Name: "Tono", Gender: domain.GenderMale, SeatNumber: "R2C1"},
		domain.Passenger{Name: "Ani", Gender: domain.GenderFemale, SeatNumber: "R2C2"},
		domain.Passenger{Name: "Ina", Gender: domain.GenderFemale, SeatNumber: "R2C2"},
		domain.Passenger{Name: "Eko", Gender: domain.GenderMale, SeatNumber: "R9C9"},
	))
	var ce *domain.ConflictError
	require.True(t, errors.As(err, &ce), "got %v", err)
	assert.Equal(t, []domain.SeatConflict{
		{SeatNumber: "R2C1", Reason: domain.ReasonUnavailable, Detail: "seat is BOOKED"},
		{SeatNumber: "R2C2", Reason: domain.ReasonDuplicateSeat, Detail: "seat requested more than once"},
		{SeatNumber: "R9C9", Reason: domain.ReasonUnknownSeat, Detail: "seat does not exist on this bus"},
	}, ce.Seats)

	grid, err := e.svc.Seat.GetSeatGrid(ctx, e.busID.String())
	require.NoError(t, err)
	assert.Equal(t, 7, grid.AvailableSeats)
}

func TestSubmit_WarnsOnAdjacency(t *testing.T) {
	e := newEnv(t, defaultConfig())
	ctx := context.Background()

	_, err := e.svc.Booking.Submit(ctx, draftWith(e.busID, domain.Passenger{Name: "Sari", Gender: domain.GenderFemale, SeatNumber: "R1C2"}))
	require.NoError(t, err)

	res, err := e.svc.Booking.Submit(ctx, draftWith(e.busID, domain.Passenger{Name: "Budi", Gender: domain.GenderMale, SeatNumber: "R1C3"}))
	require.NoError(t, err)
	require.Len(t, res.Warnings, 1)
	assert.Equal(t, "R1C2", res.Warnings[0].NeighborSeat)
}

func TestCreateBooking_FromRequest(t *testing.T) {
	e := newEnv(t, defaultConfig())
	ctx := context.Background()

	_, err := e.svc.Booking.CreateBooking(ctx, &request.CreateBookingRequest{BusID: "nope"})
	fields := validationFields(t, err)
	assert.Contains(t, fields, "bus_id")

	_, err = e.svc.Booking.CreateBooking(ctx, &request.CreateBookingRequest{BusID: e.busID.String()})
	fields = validationFields(t, err)
	assert.Contains(t, fields, "passengers")
	assert.Contains(t, fields, "boarding_point")

	res, err := e.svc.Booking.CreateBooking(ctx, &request.CreateBookingRequest{
		BusID:         e.busID.String(),
		BoardingPoint: "Pulo Gebang",
		DroppingPoint: "Bungurasih",
		Passengers: []request.PassengerRequest{
			{Name: "Budi", Age: 40, Gender: "MALE", SeatNumber: "r1c4"},
			{Name: "Kid", Age: 6, Gender: "OTHER"},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"R1C4"}, res.SeatNumbers)
	assert.Len(t, res.Passengers, 2)
}

func TestCancelAndList(t *testing.T) {
	e := newEnv(t, defaultConfig())
	ctx := context.Background()

	var ids []string
	for i := 1; i <= 3; i++ {
		res, err := e.svc.Booking.Submit(ctx, draftWith(e.busID, domain.Passenger{Name: fmt.Sprintf("p%d", i), Gender: domain.GenderOther, SeatNumber: fmt.Sprintf("R2C%d", i)}))
		require.NoError(t, err)
		ids = append(ids, res.ID)
	}

	cancelled, err := e.svc.Booking.CancelBooking(ctx, ids[0])
	require.NoError(t, err)
	assert.Equal(t, domain.BookingCancelled, cancelled.Status)
	assert.NotNil(t, cancelled.CancelledAt)

	_, err = e.svc.Booking.CancelBooking(ctx, ids[0])
	assert.True(t, domain.IsValidation(err))

	_, err = e.svc.Booking.CancelBooking(ctx, "bad-id")
	assert.True(t, domain.IsValidation(err))

	page, err := e.svc.Booking.GetBusBookings(ctx, e.busID.String(), &request.PaginatedRequest{Page: 1, PerPage: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(3), page.Pagination.Total)
	assert.Equal(t, 2, page.Pagination.TotalPages)
	assert.Len(t, page.Data, 2)

	_, err = e.svc.Booking.GetBusBookings(ctx, uuid.NewString(), &request.PaginatedRequest{Page: 1, PerPage: 10})
	assert.True(t, domain.IsNotFound(err))

	_, err = e.svc.Booking.GetBookingByID(ctx, uuid.NewString())
	assert.True(t, domain.IsNotFound(err))
}
