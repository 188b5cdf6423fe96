package inventory

import (
	"context"
	"fmt"
	"time"

	"bus-booking/internal/data/entity"
	"bus-booking/internal/data/repository"

	"github.com/google/uuid"
)

// DemoBusID is stable so restarts against a persistent store reuse the same bus.
var DemoBusID = uuid.MustParse("6f1c2a6e-3d4b-4e55-9a51-0b7de9c4a001")

// SeedDemoBus stores the demo bus unless it already exists. Seats are left to
// the layout step.
func SeedDemoBus(ctx context.Context, repo *repository.Repository, now time.Time) (*entity.Bus, bool, error) {
	existing, err := repo.Bus.FindByID(ctx, DemoBusID)
	if err != nil {
		return nil, false, fmt.Errorf("find demo bus: %w", err)
	}
	if existing != nil {
		return existing, false, nil
	}

	departure := time.Date(now.Year(), now.Month(), now.Day(), 19, 0, 0, 0, now.Location()).AddDate(0, 0, 1)
	bus := &entity.Bus{
		Base:          entity.Base{ID: DemoBusID, CreatedAt: now, UpdatedAt: now},
		BusName:       "Lintas Nusantara Executive",
		BusNumber:     "LN-001",
		RouteFrom:     "Jakarta",
		RouteTo:       "Yogyakarta",
		DepartureTime: departure,
		ArrivalTime:   departure.Add(9 * time.Hour),
		Price:         275000,
		SeatRows:      DefaultRows,
		SeatCols:      DefaultCols,
	}
	if err := repo.Bus.Create(ctx, bus); err != nil {
		return nil, false, fmt.Errorf("create demo bus: %w", err)
	}
	return bus, true, nil
}
