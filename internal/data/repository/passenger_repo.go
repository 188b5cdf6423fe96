package repository

import (
	"context"
	"fmt"

	"bus-booking/internal/data/entity"
	"bus-booking/pkg/database"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type PassengerRepository interface {
	CreateBatch(ctx context.Context, passengers []*entity.Passenger) error
	FindByBookingID(ctx context.Context, bookingID uuid.UUID) ([]*entity.Passenger, error)
}

type passengerRepository struct {
	db  database.Querier
	log *zap.Logger
}

func NewPassengerRepository(db database.Querier, log *zap.Logger) PassengerRepository {
	return &passengerRepository{
		db:  db,
		log: log.With(zap.String("repository", "passenger")),
	}
}

func (r *passengerRepository) CreateBatch(ctx context.Context, passengers []*entity.Passenger) error {
	if len(passengers) == 0 {
		return nil
	}

	query := `INSERT INTO passengers (id, booking_id, position, name, age, gender, phone_number, email, seat_number, created_at) VALUES `
	args := []any{}

	for i, p := range passengers {
		if i > 0 {
			query += ", "
		}
		query += fmt.Sprintf("($%d, $%d, $%d, $%d, $%d, $%d, $%d, $%d, $%d, $%d)",
			i*10+1, i*10+2, i*10+3, i*10+4, i*10+5, i*10+6, i*10+7, i*10+8, i*10+9, i*10+10)

		args = append(args,
			p.ID,
			p.BookingID,
			p.Position,
			p.Name,
			p.Age,
			p.Gender,
			p.PhoneNumber,
			p.Email,
			p.SeatNumber,
			p.CreatedAt,
		)
	}

	_, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		r.log.Error("Failed to create batch passengers",
			zap.Error(err),
			zap.Int("count", len(passengers)),
		)
		return fmt.Errorf("create batch passengers: %w", err)
	}

	return nil
}

func (r *passengerRepository) FindByBookingID(ctx context.Context, bookingID uuid.UUID) ([]*entity.Passenger, error) {
	query := `
		SELECT id, booking_id, position, name, age, gender, phone_number, email, seat_number, created_at
		FROM passengers
		WHERE booking_id = $1
		ORDER BY position
	`

	rows, err := r.db.Query(ctx, query, bookingID)
	if err != nil {
		r.log.Error("Failed to find passengers by booking ID",
			zap.Error(err),
			zap.String("booking_id", bookingID.String()),
		)
		return nil, fmt.Errorf("find passengers by booking ID %s: %w", bookingID.String(), err)
	}
	defer rows.Close()

	var passengers []*entity.Passenger
	for rows.Next() {
		var p entity.Passenger
		err := rows.Scan(
			&p.ID,
			&p.BookingID,
			&p.Position,
			&p.Name,
			&p.Age,
			&p.Gender,
			&p.PhoneNumber,
			&p.Email,
			&p.SeatNumber,
			&p.CreatedAt,
		)
		if err != nil {
			r.log.Error("Failed to scan passenger row", zap.Error(err))
			return nil, fmt.Errorf("scan passenger row: %w", err)
		}
		passengers = append(passengers, &p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate passengers of booking %s: %w", bookingID.String(), err)
	}

	return passengers, nil
}
