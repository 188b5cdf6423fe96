package response

import (
	"time"

	"bus-booking/internal/domain"
	"bus-booking/internal/domain/allocation"
)

type PassengerResponse struct {
	Name        string        `json:"name"`
	Age         int           `json:"age"`
	Gender      domain.Gender `json:"gender"`
	PhoneNumber string        `json:"phone_number,omitempty"`
	Email       string        `json:"email,omitempty"`
	SeatNumber  string        `json:"seat_number,omitempty"`
}

type BookingResponse struct {
	ID            string               `json:"id"`
	Reference     string               `json:"reference"`
	BusID         string               `json:"bus_id"`
	BoardingPoint string               `json:"boarding_point"`
	DroppingPoint string               `json:"dropping_point"`
	BookingTime   time.Time            `json:"booking_time"`
	Passengers    []PassengerResponse  `json:"passengers"`
	SeatNumbers   []string             `json:"seat_numbers"`
	TotalAmount   float64              `json:"total_amount"`
	Status        domain.BookingStatus `json:"status"`
	CancelledAt   *time.Time           `json:"cancelled_at,omitempty"`
	Warnings      []allocation.Warning `json:"warnings,omitempty"`
}

func BookingFromDomain(b *domain.Booking, warnings []allocation.Warning) *BookingResponse {
	res := &BookingResponse{
		ID:            b.ID.String(),
		Reference:     b.Reference,
		BusID:         b.BusID.String(),
		BoardingPoint: b.BoardingPoint,
		DroppingPoint: b.DroppingPoint,
		BookingTime:   b.BookingTime,
		Passengers:    make([]PassengerResponse, len(b.Passengers)),
		SeatNumbers:   b.SeatNumbers(),
		TotalAmount:   b.TotalAmount,
		Status:        b.Status,
		CancelledAt:   b.CancelledAt,
		Warnings:      warnings,
	}
	for i, p := range b.Passengers {
		res.Passengers[i] = PassengerResponse{
			Name:        p.Name,
			Age:         p.Age,
			Gender:      p.Gender,
			PhoneNumber: p.PhoneNumber,
			Email:       p.Email,
			SeatNumber:  p.SeatNumber,
		}
	}
	return res
}
