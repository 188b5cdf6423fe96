package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"bus-booking/internal/data/entity"
	"bus-booking/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type BookingRepository interface {
	Create(ctx context.Context, booking *entity.Booking) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Booking, error)
	FindByBusID(ctx context.Context, busID uuid.UUID, limit, offset int) ([]*entity.Booking, error)
	CountByBusID(ctx context.Context, busID uuid.UUID) (int64, error)
	MarkCancelled(ctx context.Context, id uuid.UUID, at time.Time) error
}

type bookingRepository struct {
	db  database.Querier
	log *zap.Logger
}

func NewBookingRepository(db database.Querier, log *zap.Logger) BookingRepository {
	return &bookingRepository{
		db:  db,
		log: log.With(zap.String("repository", "booking")),
	}
}

func (r *bookingRepository) Create(ctx context.Context, booking *entity.Booking) error {
	query := `
		INSERT INTO bookings (id, reference, bus_id, boarding_point, dropping_point, booking_time,
		                      total_amount, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := r.db.Exec(ctx, query,
		booking.ID,
		booking.Reference,
		booking.BusID,
		booking.BoardingPoint,
		booking.DroppingPoint,
		booking.BookingTime,
		booking.TotalAmount,
		booking.Status,
		booking.CreatedAt,
		booking.UpdatedAt,
	)

	if err != nil {
		r.log.Error("Failed to create booking",
			zap.Error(err),
			zap.String("reference", booking.Reference),
			zap.String("bus_id", booking.BusID.String()),
		)
		return fmt.Errorf("create booking %s: %w", booking.Reference, err)
	}

	return nil
}

func (r *bookingRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Booking, error) {
	query := `
		SELECT id, reference, bus_id, boarding_point, dropping_point, booking_time,
		       total_amount, status, cancelled_at, created_at, updated_at
		FROM bookings
		WHERE id = $1
	`

	var booking entity.Booking
	err := r.db.QueryRow(ctx, query, id).Scan(
		&booking.ID,
		&booking.Reference,
		&booking.BusID,
		&booking.BoardingPoint,
		&booking.DroppingPoint,
		&booking.BookingTime,
		&booking.TotalAmount,
		&booking.Status,
		&booking.CancelledAt,
		&booking.CreatedAt,
		&booking.UpdatedAt,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find booking by ID",
			zap.Error(err),
			zap.String("booking_id", id.String()),
		)
		return nil, fmt.Errorf("find booking by ID %s: %w", id.String(), err)
	}

	return &booking, nil
}

func (r *bookingRepository) FindByBusID(ctx context.Context, busID uuid.UUID, limit, offset int) ([]*entity.Booking, error) {
	query := `
		SELECT id, reference, bus_id, boarding_point, dropping_point, booking_time,
		       total_amount, status, cancelled_at, created_at, updated_at
		FROM bookings
		WHERE bus_id = $1
		ORDER BY booking_time DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.db.Query(ctx, query, busID, limit, offset)
	if err != nil {
		r.log.Error("Failed to find bookings by bus ID",
			zap.Error(err),
			zap.String("bus_id", busID.String()),
			zap.Int("limit", limit),
			zap.Int("offset", offset),
		)
		return nil, fmt.Errorf("find bookings by bus ID %s: %w", busID.String(), err)
	}
	defer rows.Close()

	var bookings []*entity.Booking
	for rows.Next() {
		var booking entity.Booking
		err := rows.Scan(
			&booking.ID,
			&booking.Reference,
			&booking.BusID,
			&booking.BoardingPoint,
			&booking.DroppingPoint,
			&booking.BookingTime,
			&booking.TotalAmount,
			&booking.Status,
			&booking.CancelledAt,
			&booking.CreatedAt,
			&booking.UpdatedAt,
		)
		if err != nil {
			r.log.Error("Failed to scan booking row", zap.Error(err))
			return nil, fmt.Errorf("scan booking row: %w", err)
		}
		bookings = append(bookings, &booking)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate bookings of bus %s: %w", busID.String(), err)
	}

	return bookings, nil
}

func (r *bookingRepository) CountByBusID(ctx context.Context, busID uuid.UUID) (int64, error) {
	query := `SELECT COUNT(*) FROM bookings WHERE bus_id = $1`

	var count int64
	err := r.db.QueryRow(ctx, query, busID).Scan(&count)
	if err != nil {
		r.log.Error("Failed to count bookings by bus ID",
			zap.Error(err),
			zap.String("bus_id", busID.String()),
		)
		return 0, fmt.Errorf("count bookings by bus ID %s: %w", busID.String(), err)
	}

	return count, nil
}

func (r *bookingRepository) MarkCancelled(ctx context.Context, id uuid.UUID, at time.Time) error {
	query := `
		UPDATE bookings
		SET status = 'CANCELLED', cancelled_at = $2, updated_at = $2
		WHERE id = $1 AND status = 'CONFIRMED'
	`

	result, err := r.db.Exec(ctx, query, id, at)
	if err != nil {
		r.log.Error("Failed to cancel booking",
			zap.Error(err),
			zap.String("booking_id", id.String()),
		)
		return fmt.Errorf("cancel booking %s: %w", id.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("booking %s not found or not confirmed", id.String())
	}

	return nil
}
