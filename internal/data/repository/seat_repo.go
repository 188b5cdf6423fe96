package repository

import (
	"context"
	"errors"
	"fmt"

	"bus-booking/internal/data/entity"
	"bus-booking/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
)

// ErrSeatNotAvailable is returned by MarkBooked when the seat is missing or no longer
// AVAILABLE at write time.
var ErrSeatNotAvailable = errors.New("seat not available")

// ErrSeatExists is returned by CreateBatch when a seat number or row/column pair is
// already taken on the bus. Nothing of the batch is written.
var ErrSeatExists = errors.New("seat already exists")

const uniqueViolation = "23505"

type SeatRepository interface {
	CreateBatch(ctx context.Context, seats []*entity.Seat) error
	CountByBusID(ctx context.Context, busID uuid.UUID) (int64, error)

	// FindByBusID returns the seats of a bus with their occupant, if any.
	FindByBusID(ctx context.Context, busID uuid.UUID) ([]*entity.Seat, error)
	// FindByBusIDForUpdate is FindByBusID holding row locks until the transaction ends.
	FindByBusIDForUpdate(ctx context.Context, busID uuid.UUID) ([]*entity.Seat, error)

	MarkBooked(ctx context.Context, busID uuid.UUID, seatNumber string, passengerID uuid.UUID) error
	Release(ctx context.Context, busID uuid.UUID, passengerIDs []uuid.UUID) (int64, error)
}

type seatRepository struct {
	db  database.Querier
	log *zap.Logger
}

func NewSeatRepository(db database.Querier, log *zap.Logger) SeatRepository {
	return &seatRepository{
		db:  db,
		log: log.With(zap.String("repository", "seat")),
	}
}

const selectSeats = `
	SELECT s.id, s.bus_id, s.seat_number, s.seat_row, s.seat_col, s.deck, s.status, s.passenger_id,
	       s.created_at, s.updated_at, p.name, p.gender
	FROM seats s
	LEFT JOIN passengers p ON p.id = s.passenger_id
	WHERE s.bus_id = $1
	ORDER BY s.seat_row NULLS FIRST, s.seat_col NULLS FIRST, s.seat_number
`

func (r *seatRepository) CreateBatch(ctx context.Context, seats []*entity.Seat) error {
	if len(seats) == 0 {
		return nil
	}

	query := `INSERT INTO seats (id, bus_id, seat_number, seat_row, seat_col, deck, status, created_at, updated_at) VALUES `
	args := []any{}

	for i, seat := range seats {
		if i > 0 {
			query += ", "
		}
		query += fmt.Sprintf("($%d, $%d, $%d, $%d, $%d, $%d, $%d, $%d, $%d)",
			i*9+1, i*9+2, i*9+3, i*9+4, i*9+5, i*9+6, i*9+7, i*9+8, i*9+9)

		args = append(args,
			seat.ID,
			seat.BusID,
			seat.SeatNumber,
			seat.SeatRow,
			seat.SeatCol,
			seat.Deck,
			seat.Status,
			seat.CreatedAt,
			seat.UpdatedAt,
		)
	}

	_, err := r.db.Exec(ctx, query, args...)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		r.log.Warn("Seat batch collides with existing seats",
			zap.String("constraint", pgErr.ConstraintName),
			zap.Int("count", len(seats)),
		)
		return fmt.Errorf("create batch seats: %w", ErrSeatExists)
	}
	if err != nil {
		r.log.Error("Failed to create batch seats",
			zap.Error(err),
			zap.Int("count", len(seats)),
		)
		return fmt.Errorf("create batch seats: %w", err)
	}

	return nil
}

func (r *seatRepository) CountByBusID(ctx context.Context, busID uuid.UUID) (int64, error) {
	query := `SELECT COUNT(*) FROM seats WHERE bus_id = $1`

	var count int64
	if err := r.db.QueryRow(ctx, query, busID).Scan(&count); err != nil {
		r.log.Error("Failed to count seats",
			zap.Error(err),
			zap.String("bus_id", busID.String()),
		)
		return 0, fmt.Errorf("count seats of bus %s: %w", busID.String(), err)
	}

	return count, nil
}

func (r *seatRepository) FindByBusID(ctx context.Context, busID uuid.UUID) ([]*entity.Seat, error) {
	return r.findByBusID(ctx, busID, selectSeats)
}

func (r *seatRepository) FindByBusIDForUpdate(ctx context.Context, busID uuid.UUID) ([]*entity.Seat, error) {
	return r.findByBusID(ctx, busID, selectSeats+" FOR UPDATE OF s")
}

func (r *seatRepository) findByBusID(ctx context.Context, busID uuid.UUID, query string) ([]*entity.Seat, error) {
	rows, err := r.db.Query(ctx, query, busID)
	if err != nil {
		r.log.Error("Failed to find seats by bus ID",
			zap.Error(err),
			zap.String("bus_id", busID.String()),
		)
		return nil, fmt.Errorf("find seats by bus ID %s: %w", busID.String(), err)
	}
	defer rows.Close()

	var seats []*entity.Seat
	for rows.Next() {
		var seat entity.Seat
		err := rows.Scan(
			&seat.ID,
			&seat.BusID,
			&seat.SeatNumber,
			&seat.SeatRow,
			&seat.SeatCol,
			&seat.Deck,
			&seat.Status,
			&seat.PassengerID,
			&seat.CreatedAt,
			&seat.UpdatedAt,
			&seat.OccupantName,
			&seat.OccupantGender,
		)
		if err != nil {
			r.log.Error("Failed to scan seat row", zap.Error(err))
			return nil, fmt.Errorf("scan seat row: %w", err)
		}
		seats = append(seats, &seat)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate seats of bus %s: %w", busID.String(), err)
	}

	return seats, nil
}

func (r *seatRepository) MarkBooked(ctx context.Context, busID uuid.UUID, seatNumber string, passengerID uuid.UUID) error {
	query := `
		UPDATE seats
		SET status = 'BOOKED', passenger_id = $3, updated_at = NOW()
		WHERE bus_id = $1 AND seat_number = $2 AND status = 'AVAILABLE'
	`

	result, err := r.db.Exec(ctx, query, busID, seatNumber, passengerID)
	if err != nil {
		r.log.Error("Failed to mark seat booked",
			zap.Error(err),
			zap.String("bus_id", busID.String()),
			zap.String("seat_number", seatNumber),
		)
		return fmt.Errorf("mark seat %s booked: %w", seatNumber, err)
	}

	if result.RowsAffected() != 1 {
		return fmt.Errorf("mark seat %s booked: %w", seatNumber, ErrSeatNotAvailable)
	}

	return nil
}

func (r *seatRepository) Release(ctx context.Context, busID uuid.UUID, passengerIDs []uuid.UUID) (int64, error) {
	if len(passengerIDs) == 0 {
		return 0, nil
	}

	query := `
		UPDATE seats
		SET status = 'AVAILABLE', passenger_id = NULL, updated_at = NOW()
		WHERE bus_id = $1 AND passenger_id = ANY($2)
	`

	result, err := r.db.Exec(ctx, query, busID, passengerIDs)
	if err != nil {
		r.log.Error("Failed to release seats",
			zap.Error(err),
			zap.String("bus_id", busID.String()),
			zap.Int("passengers", len(passengerIDs)),
		)
		return 0, fmt.Errorf("release seats of bus %s: %w", busID.String(), err)
	}

	return result.RowsAffected(), nil
}

