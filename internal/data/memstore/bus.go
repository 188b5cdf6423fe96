package memstore

import (
	"context"
	"fmt"

	"bus-booking/internal/data/entity"

	"github.com/google/uuid"
)

type busRepo struct {
	acc access
}

func (r *busRepo) Create(_ context.Context, bus *entity.Bus) error {
	return r.acc.write(func(st *state) error {
		if _, ok := st.buses[bus.ID]; ok {
			return fmt.Errorf("create bus %s: duplicate id", bus.BusNumber)
		}
		for _, b := range st.buses {
			if b.BusNumber == bus.BusNumber {
				return fmt.Errorf("create bus %s: duplicate bus number", bus.BusNumber)
			}
		}
		st.buses[bus.ID] = *bus
		return nil
	})
}

func (r *busRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Bus, error) {
	var out *entity.Bus
	r.acc.read(func(st *state) {
		if b, ok := st.buses[id]; ok {
			out = &b
		}
	})
	return out, nil
}
