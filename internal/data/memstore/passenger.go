package memstore

import (
	"cmp"
	"context"
	"fmt"
	"slices"

	"bus-booking/internal/data/entity"

	"github.com/google/uuid"
)

type passengerRepo struct {
	acc access
}

func (r *passengerRepo) CreateBatch(_ context.Context, passengers []*entity.Passenger) error {
	if len(passengers) == 0 {
		return nil
	}
	return r.acc.write(func(st *state) error {
		for _, p := range passengers {
			if _, ok := st.bookings[p.BookingID]; !ok {
				return fmt.Errorf("create batch passengers: booking %s does not exist", p.BookingID)
			}
			if _, ok := st.passengers[p.ID]; ok {
				return fmt.Errorf("create batch passengers: duplicate id %s", p.ID)
			}
		}
		for _, p := range passengers {
			st.passengers[p.ID] = *p
		}
		return nil
	})
}

func (r *passengerRepo) FindByBookingID(_ context.Context, bookingID uuid.UUID) ([]*entity.Passenger, error) {
	var out []*entity.Passenger
	r.acc.read(func(st *state) {
		for _, p := range st.passengers {
			if p.BookingID == bookingID {
				out = append(out, &p)
			}
		}
	})
	slices.SortFunc(out, func(a, b *entity.Passenger) int { return cmp.Compare(a.Position, b.Position) })
	return out, nil
}
