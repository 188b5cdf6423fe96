package memstore

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"time"

	"bus-booking/internal/data/entity"
	"bus-booking/internal/data/repository"

	"github.com/google/uuid"
)

type seatRepo struct {
	acc access
}

func (r *seatRepo) CreateBatch(_ context.Context, seats []*entity.Seat) error {
	if len(seats) == 0 {
		return nil
	}
	return r.acc.write(func(st *state) error {
		type position struct{ row, col int }
		numbers := make(map[uuid.UUID]map[string]bool)
		positions := make(map[uuid.UUID]map[position]bool)
		taken := func(busID uuid.UUID) (map[string]bool, map[position]bool) {
			if _, ok := numbers[busID]; !ok {
				numbers[busID] = make(map[string]bool)
				positions[busID] = make(map[position]bool)
				for _, existing := range st.seats[busID] {
					numbers[busID][existing.SeatNumber] = true
					if existing.SeatRow != nil && existing.SeatCol != nil {
						positions[busID][position{*existing.SeatRow, *existing.SeatCol}] = true
					}
				}
			}
			return numbers[busID], positions[busID]
		}

		for _, s := range seats {
			if _, ok := st.buses[s.BusID]; !ok {
				return fmt.Errorf("create batch seats: bus %s does not exist", s.BusID)
			}
			byNumber, byPosition := taken(s.BusID)
			if byNumber[s.SeatNumber] {
				return fmt.Errorf("create batch seats: seat %s: %w", s.SeatNumber, repository.ErrSeatExists)
			}
			byNumber[s.SeatNumber] = true
			// NULL positions never collide, as in Postgres
			if s.SeatRow != nil && s.SeatCol != nil {
				pos := position{*s.SeatRow, *s.SeatCol}
				if byPosition[pos] {
					return fmt.Errorf("create batch seats: row %d column %d: %w", pos.row, pos.col, repository.ErrSeatExists)
				}
				byPosition[pos] = true
			}
		}
		for _, s := range seats {
			st.seats[s.BusID] = append(st.seats[s.BusID], *s)
		}
		return nil
	})
}

func (r *seatRepo) CountByBusID(_ context.Context, busID uuid.UUID) (int64, error) {
	var n int64
	r.acc.read(func(st *state) {
		n = int64(len(st.seats[busID]))
	})
	return n, nil
}

func (r *seatRepo) FindByBusID(_ context.Context, busID uuid.UUID) ([]*entity.Seat, error) {
	var out []*entity.Seat
	r.acc.read(func(st *state) {
		for _, s := range st.seats[busID] {
			if s.PassengerID != nil {
				if p, ok := st.passengers[*s.PassengerID]; ok {
					s.OccupantName = &p.Name
					s.OccupantGender = &p.Gender
				}
			}
			out = append(out, &s)
		}
	})
	slices.SortStableFunc(out, func(a, b *entity.Seat) int {
		if c := cmpNullable(a.SeatRow, b.SeatRow); c != 0 {
			return c
		}
		if c := cmpNullable(a.SeatCol, b.SeatCol); c != 0 {
			return c
		}
		return cmp.Compare(a.SeatNumber, b.SeatNumber)
	})
	return out, nil
}

// Transactions are serialized by the store, so no extra locking is needed.
func (r *seatRepo) FindByBusIDForUpdate(ctx context.Context, busID uuid.UUID) ([]*entity.Seat, error) {
	return r.FindByBusID(ctx, busID)
}

func (r *seatRepo) MarkBooked(_ context.Context, busID uuid.UUID, seatNumber string, passengerID uuid.UUID) error {
	return r.acc.write(func(st *state) error {
		seats := st.seats[busID]
		for i := range seats {
			if seats[i].SeatNumber != seatNumber || seats[i].Status != entity.SeatStatusAvailable {
				continue
			}
			pid := passengerID
			seats[i].Status = entity.SeatStatusBooked
			seats[i].PassengerID = &pid
			seats[i].UpdatedAt = time.Now()
			return nil
		}
		return fmt.Errorf("mark seat %s booked: %w", seatNumber, repository.ErrSeatNotAvailable)
	})
}

func (r *seatRepo) Release(_ context.Context, busID uuid.UUID, passengerIDs []uuid.UUID) (int64, error) {
	if len(passengerIDs) == 0 {
		return 0, nil
	}
	var n int64
	err := r.acc.write(func(st *state) error {
		seats := st.seats[busID]
		for i := range seats {
			if seats[i].PassengerID == nil || !slices.Contains(passengerIDs, *seats[i].PassengerID) {
				continue
			}
			seats[i].Status = entity.SeatStatusAvailable
			seats[i].PassengerID = nil
			seats[i].UpdatedAt = time.Now()
			n++
		}
		return nil
	})
	return n, err
}

func cmpNullable(a, b *int) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return -1
	case b == nil:
		return 1
	}
	return cmp.Compare(*a, *b)
}
