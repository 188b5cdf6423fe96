package inventory

import (
	"context"
	"fmt"

	"bus-booking/internal/data/entity"
	"bus-booking/internal/data/repository"
	"bus-booking/internal/domain"

	"github.com/google/uuid"
)

func BookingFromEntity(b *entity.Booking, passengers []*entity.Passenger) *domain.Booking {
	out := &domain.Booking{
		ID:            b.ID,
		Reference:     b.Reference,
		BusID:         b.BusID,
		BoardingPoint: b.BoardingPoint,
		DroppingPoint: b.DroppingPoint,
		BookingTime:   b.BookingTime,
		TotalAmount:   b.TotalAmount,
		Status:        domain.BookingStatus(b.Status),
		CancelledAt:   b.CancelledAt,
		Passengers:    make([]domain.Passenger, 0, len(passengers)),
	}
	for _, p := range passengers {
		dp := domain.Passenger{
			Name:        p.Name,
			Age:         p.Age,
			Gender:      domain.Gender(p.Gender),
			PhoneNumber: p.PhoneNumber,
			Email:       p.Email,
		}
		if p.SeatNumber != nil {
			dp.SeatNumber = *p.SeatNumber
		}
		out.Passengers = append(out.Passengers, dp)
	}
	return out
}

// LoadBooking reads a booking with its passengers in submission order.
func LoadBooking(ctx context.Context, repo *repository.Repository, id uuid.UUID) (*domain.Booking, error) {
	b, err := repo.Booking.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load booking %s: %w", id, err)
	}
	if b == nil {
		return nil, &domain.NotFoundError{Resource: "booking", ID: id.String()}
	}

	passengers, err := repo.Passenger.FindByBookingID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load passengers of booking %s: %w", id, err)
	}
	return BookingFromEntity(b, passengers), nil
}
