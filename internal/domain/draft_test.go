package domain_test

import (
	"testing"

	"bus-booking/internal/domain"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDraft_AddPassenger(t *testing.T) {
	d := domain.NewDraft(uuid.New()).SetRoute("  Jakarta ", "Bandung ")
	assert.Equal(t, "Jakarta", d.BoardingPoint)
	assert.Equal(t, "Bandung", d.DroppingPoint)

	require.NoError(t, d.AddPassenger(domain.Passenger{Name: "A", Gender: domain.GenderMale, SeatNumber: "a1"}))
	require.NoError(t, d.AddPassenger(domain.Passenger{Name: "B", Gender: domain.GenderFemale}))
	require.NoError(t, d.AddPassenger(domain.Passenger{Name: "C", Gender: domain.GenderOther}))

	err := d.AddPassenger(domain.Passenger{Name: "D", Gender: domain.GenderMale, SeatNumber: "A1 "})
	require.Error(t, err)
	assert.True(t, domain.IsValidation(err))

	ps := d.Passengers()
	require.Len(t, ps, 3)
	assert.Equal(t, "A1", ps[0].SeatNumber)

	// returned slice is a copy
	ps[0].Name = "changed"
	assert.Equal(t, "A", d.Passengers()[0].Name)
}

func TestDraft_AppendAndRemove(t *testing.T) {
	d := domain.NewDraft(uuid.New())
	d.AppendPassenger(domain.Passenger{Name: "A", SeatNumber: "A1"})
	d.AppendPassenger(domain.Passenger{Name: "B", SeatNumber: "a1"})
	require.Len(t, d.Passengers(), 2)

	d.RemovePassenger(5)
	d.RemovePassenger(-1)
	require.Len(t, d.Passengers(), 2)

	d.RemovePassenger(0)
	ps := d.Passengers()
	require.Len(t, ps, 1)
	assert.Equal(t, "B", ps[0].Name)
}

func TestAssignments_SkipsDeferred(t *testing.T) {
	as := domain.Assignments([]domain.Passenger{
		{Name: "A", SeatNumber: "A1"},
		{Name: "B"},
		{Name: "C", SeatNumber: "A1"},
	})
	require.Len(t, as, 2)
	assert.Equal(t, "A", as[0].Passenger.Name)
	assert.Equal(t, "C", as[1].Passenger.Name)
}
