package usecase_test

import (
	"context"
	"testing"

	"bus-booking/internal/domain"
	"bus-booking/internal/dto/request"
	"bus-booking/internal/dto/response"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetSeatGrid(t *testing.T) {
	e := newEnv(t, defaultConfig())
	ctx := context.Background()

	_, err := e.svc.Booking.Submit(ctx, draftWith(e.busID, domain.Passenger{Name: "Sari", Gender: domain.GenderFemale, SeatNumber: "R2C3"}))
	require.NoError(t, err)

	grid, err := e.svc.Seat.GetSeatGrid(ctx, e.busID.String())
	require.NoError(t, err)

	assert.Equal(t, "SJ-01", grid.Bus.BusNumber)
	assert.Equal(t, 2, grid.MaxRows)
	assert.Equal(t, 8, grid.TotalSeats)
	assert.Equal(t, 7, grid.AvailableSeats)
	require.Len(t, grid.Rows, 2)
	require.Len(t, grid.Rows[1], 4)
	assert.Equal(t, "R1C1", grid.Rows[0][0].SeatNumber)

	booked := grid.Rows[1][2]
	assert.Equal(t, "R2C3", booked.SeatNumber)
	assert.Equal(t, domain.SeatBooked, booked.Status)
	assert.Equal(t, response.LegendBookedFemale, booked.Legend)
	require.NotNil(t, booked.Occupant)
	assert.Equal(t, "Sari", booked.Occupant.Name)

	_, err = e.svc.Seat.GetSeatGrid(ctx, uuid.NewString())
	assert.True(t, domain.IsNotFound(err))

	_, err = e.svc.Seat.GetSeatGrid(ctx, "not-a-uuid")
	assert.True(t, domain.IsValidation(err))
}

func TestCheckSelection(t *testing.T) {
	e := newEnv(t, defaultConfig())
	ctx := context.Background()

	_, err := e.svc.Booking.Submit(ctx, draftWith(e.busID, domain.Passenger{Name: "Budi", Gender: domain.GenderMale, SeatNumber: "R1C1"}))
	require.NoError(t, err)

	res, err := e.svc.Seat.CheckSelection(ctx, e.busID.String(), &request.CheckSeatsRequest{
		Selections: []request.SeatSelection{{SeatNumber: "R1C2", Gender: "FEMALE"}},
	})
	require.NoError(t, err)
	assert.True(t, res.Available)
	require.Len(t, res.Warnings, 1)

	res, err = e.svc.Seat.CheckSelection(ctx, e.busID.String(), &request.CheckSeatsRequest{
		Selections: []request.SeatSelection{{SeatNumber: "R1C1", Gender: "MALE"}, {SeatNumber: "R2C2", Gender: "MALE"}},
	})
	require.NoError(t, err)
	assert.False(t, res.Available)
	require.Len(t, res.Conflicts, 1)
	assert.Equal(t, "R1C1", res.Conflicts[0].SeatNumber)

	// a dry run never books
	grid, err := e.svc.Seat.GetSeatGrid(ctx, e.busID.String())
	require.NoError(t, err)
	assert.Equal(t, 7, grid.AvailableSeats)
}
