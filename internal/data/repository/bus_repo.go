package repository

import (
	"context"
	"errors"
	"fmt"

	"bus-booking/internal/data/entity"
	"bus-booking/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type BusRepository interface {
	Create(ctx context.Context, bus *entity.Bus) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Bus, error)
}

type busRepository struct {
	db  database.Querier
	log *zap.Logger
}

func NewBusRepository(db database.Querier, log *zap.Logger) BusRepository {
	return &busRepository{
		db:  db,
		log: log.With(zap.String("repository", "bus")),
	}
}

func (r *busRepository) Create(ctx context.Context, bus *entity.Bus) error {
	query := `
		INSERT INTO buses (id, bus_name, bus_number, route_from, route_to, departure_time, arrival_time,
		                   price, seat_rows, seat_cols, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	_, err := r.db.Exec(ctx, query,
		bus.ID,
		bus.BusName,
		bus.BusNumber,
		bus.RouteFrom,
		bus.RouteTo,
		bus.DepartureTime,
		bus.ArrivalTime,
		bus.Price,
		bus.SeatRows,
		bus.SeatCols,
		bus.CreatedAt,
		bus.UpdatedAt,
	)
	if err != nil {
		r.log.Error("Failed to create bus",
			zap.Error(err),
			zap.String("bus_number", bus.BusNumber),
		)
		return fmt.Errorf("create bus %s: %w", bus.BusNumber, err)
	}

	return nil
}

func (r *busRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Bus, error) {
	query := `
		SELECT id, bus_name, bus_number, route_from, route_to, departure_time, arrival_time,
		       price, seat_rows, seat_cols, created_at, updated_at
		FROM buses
		WHERE id = $1
	`

	var bus entity.Bus
	err := r.db.QueryRow(ctx, query, id).Scan(
		&bus.ID,
		&bus.BusName,
		&bus.BusNumber,
		&bus.RouteFrom,
		&bus.RouteTo,
		&bus.DepartureTime,
		&bus.ArrivalTime,
		&bus.Price,
		&bus.SeatRows,
		&bus.SeatCols,
		&bus.CreatedAt,
		&bus.UpdatedAt,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find bus by ID",
			zap.Error(err),
			zap.String("bus_id", id.String()),
		)
		return nil, fmt.Errorf("find bus by ID %s: %w", id.String(), err)
	}

	return &bus, nil
}
