package memstore

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"time"

	"bus-booking/internal/data/entity"

	"github.com/google/uuid"
)

type bookingRepo struct {
	acc access
}

func (r *bookingRepo) Create(_ context.Context, booking *entity.Booking) error {
	return r.acc.write(func(st *state) error {
		if _, ok := st.buses[booking.BusID]; !ok {
			return fmt.Errorf("create booking %s: bus %s does not exist", booking.Reference, booking.BusID)
		}
		if _, ok := st.bookings[booking.ID]; ok {
			return fmt.Errorf("create booking %s: duplicate id", booking.Reference)
		}
		for _, b := range st.bookings {
			if b.Reference == booking.Reference {
				return fmt.Errorf("create booking %s: duplicate reference", booking.Reference)
			}
		}
		st.bookings[booking.ID] = *booking
		return nil
	})
}

func (r *bookingRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Booking, error) {
	var out *entity.Booking
	r.acc.read(func(st *state) {
		if b, ok := st.bookings[id]; ok {
			out = &b
		}
	})
	return out, nil
}

func (r *bookingRepo) FindByBusID(_ context.Context, busID uuid.UUID, limit, offset int) ([]*entity.Booking, error) {
	var all []*entity.Booking
	r.acc.read(func(st *state) {
		for _, b := range st.bookings {
			if b.BusID == busID {
				all = append(all, &b)
			}
		}
	})
	slices.SortFunc(all, func(a, b *entity.Booking) int {
		if c := b.BookingTime.Compare(a.BookingTime); c != 0 {
			return c
		}
		return cmp.Compare(a.Reference, b.Reference)
	})

	if offset >= len(all) {
		return nil, nil
	}
	end := min(offset+limit, len(all))
	return all[offset:end], nil
}

func (r *bookingRepo) CountByBusID(_ context.Context, busID uuid.UUID) (int64, error) {
	var n int64
	r.acc.read(func(st *state) {
		for _, b := range st.bookings {
			if b.BusID == busID {
				n++
			}
		}
	})
	return n, nil
}

func (r *bookingRepo) MarkCancelled(_ context.Context, id uuid.UUID, at time.Time) error {
	return r.acc.write(func(st *state) error {
		b, ok := st.bookings[id]
		if !ok || b.Status != entity.BookingStatusConfirmed {
			return fmt.Errorf("booking %s not found or not confirmed", id)
		}
		b.Status = entity.BookingStatusCancelled
		b.CancelledAt = &at
		b.UpdatedAt = at
		st.bookings[id] = b
		return nil
	})
}
