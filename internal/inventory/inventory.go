// Package inventory reads stored seats and bookings into domain values.
package inventory

import (
	"context"
	"fmt"
	"time"

	"bus-booking/internal/data/entity"
	"bus-booking/internal/data/repository"
	"bus-booking/internal/domain"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	DefaultRows = 7
	DefaultCols = 4
)

// BuildGrid converts stored seats of bus into a grid. Structural defects are reported
// as *domain.MalformedSeatError.
func BuildGrid(bus *entity.Bus, seats []*entity.Seat) (*domain.Grid, error) {
	raws := make([]domain.RawSeat, 0, len(seats))
	for _, s := range seats {
		raw := domain.RawSeat{
			Number: s.SeatNumber,
			Row:    s.SeatRow,
			Col:    s.SeatCol,
			Deck:   s.Deck,
			Status: string(s.Status),
		}
		if s.PassengerID != nil && s.OccupantName != nil {
			occ := &domain.Occupant{Name: *s.OccupantName}
			if s.OccupantGender != nil {
				occ.Gender = domain.Gender(*s.OccupantGender)
			}
			raw.Occupant = occ
		}
		raws = append(raws, raw)
	}
	return domain.NewGrid(bus.ID, bus.SeatRows, raws)
}

// Load reads a bus and its grid through repo. With lock set the seat rows stay
// locked until repo's transaction ends.
func Load(ctx context.Context, repo *repository.Repository, busID uuid.UUID, lock bool) (*entity.Bus, *domain.Grid, error) {
	bus, err := repo.Bus.FindByID(ctx, busID)
	if err != nil {
		return nil, nil, fmt.Errorf("load bus %s: %w", busID, err)
	}
	if bus == nil {
		return nil, nil, &domain.NotFoundError{Resource: "bus", ID: busID.String()}
	}

	find := repo.Seat.FindByBusID
	if lock {
		find = repo.Seat.FindByBusIDForUpdate
	}
	seats, err := find(ctx, busID)
	if err != nil {
		return nil, nil, fmt.Errorf("load seats of bus %s: %w", busID, err)
	}

	grid, err := BuildGrid(bus, seats)
	if err != nil {
		return nil, nil, err
	}
	return bus, grid, nil
}

// DefaultLayout lays out rows by cols available seats named R{row}C{col}.
func DefaultLayout(bus *entity.Bus, now time.Time) []*entity.Seat {
	rows, cols := bus.SeatRows, bus.SeatCols
	if rows < 1 {
		rows = DefaultRows
	}
	if cols < 1 {
		cols = DefaultCols
	}

	seats := make([]*entity.Seat, 0, rows*cols)
	for r := 1; r <= rows; r++ {
		for c := 1; c <= cols; c++ {
			row, col := r, c
			seats = append(seats, &entity.Seat{
				Base:       entity.Base{ID: uuid.New(), CreatedAt: now, UpdatedAt: now},
				BusID:      bus.ID,
				SeatNumber: fmt.Sprintf("R%dC%d", r, c),
				SeatRow:    &row,
				SeatCol:    &col,
				Status:     entity.SeatStatusAvailable,
			})
		}
	}
	return seats
}

// Loader serves fresh grids for read paths; nothing is cached.
type Loader struct {
	repo *repository.Repository
	log  *zap.Logger
}

func NewLoader(repo *repository.Repository, log *zap.Logger) *Loader {
	return &Loader{
		repo: repo,
		log:  log.With(zap.String("component", "inventory")),
	}
}

func (l *Loader) LoadGrid(ctx context.Context, busID uuid.UUID) (*domain.Grid, error) {
	_, grid, err := l.LoadBusGrid(ctx, busID)
	return grid, err
}

func (l *Loader) LoadBusGrid(ctx context.Context, busID uuid.UUID) (*entity.Bus, *domain.Grid, error) {
	bus, grid, err := Load(ctx, l.repo, busID, false)
	if err != nil {
		if domain.IsMalformed(err) {
			l.log.Error("Malformed seat grid", zap.String("bus_id", busID.String()), zap.Error(err))
		}
		return nil, nil, err
	}
	return bus, grid, nil
}
