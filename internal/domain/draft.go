package domain

import (
	"fmt"
	"slices"
	"strings"

	"github.com/google/uuid"
)

// Draft is a booking being assembled before submission. It has no identity and is
// thrown away once submitted, whatever the outcome.
type Draft struct {
	BusID         uuid.UUID
	BoardingPoint string
	DroppingPoint string
	passengers    []Passenger
}

func NewDraft(busID uuid.UUID) *Draft {
	return &Draft{BusID: busID}
}

func (d *Draft) SetRoute(boarding, dropping string) *Draft {
	d.BoardingPoint = strings.TrimSpace(boarding)
	d.DroppingPoint = strings.TrimSpace(dropping)
	return d
}

// AddPassenger stages a passenger. A seat already staged in this draft is refused,
// mirroring the seat picker.
func (d *Draft) AddPassenger(p Passenger) error {
	p.SeatNumber = NormalizeSeatNumber(p.SeatNumber)
	if p.Seated() {
		for _, staged := range d.passengers {
			if staged.SeatNumber == p.SeatNumber {
				return NewValidationError("seat_number", fmt.Sprintf("seat %s is already allocated in this draft", p.SeatNumber))
			}
		}
	}
	d.passengers = append(d.passengers, p)
	return nil
}

// AppendPassenger stages a passenger without the draft-level seat check. Submissions
// decoded from a client go through here so the validator sees them as sent.
func (d *Draft) AppendPassenger(p Passenger) {
	p.SeatNumber = NormalizeSeatNumber(p.SeatNumber)
	d.passengers = append(d.passengers, p)
}

func (d *Draft) RemovePassenger(i int) {
	if i < 0 || i >= len(d.passengers) {
		return
	}
	d.passengers = slices.Delete(d.passengers, i, i+1)
}

func (d *Draft) Passengers() []Passenger {
	return slices.Clone(d.passengers)
}
