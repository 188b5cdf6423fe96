// Package event publishes booking lifecycle events after they are committed.
package event

import (
	"context"
	"time"

	"bus-booking/internal/domain"

	"go.uber.org/zap"
)

type Type string

const (
	BookingCommitted Type = "booking.committed"
	BookingCancelled Type = "booking.cancelled"
)

type BookingEvent struct {
	Type        Type      `json:"type"`
	BookingID   string    `json:"booking_id"`
	Reference   string    `json:"reference"`
	BusID       string    `json:"bus_id"`
	SeatNumbers []string  `json:"seat_numbers"`
	Passengers  int       `json:"passengers"`
	TotalAmount float64   `json:"total_amount"`
	OccurredAt  time.Time `json:"occurred_at"`
}

func NewBookingEvent(t Type, b *domain.Booking, at time.Time) BookingEvent {
	return BookingEvent{
		Type:        t,
		BookingID:   b.ID.String(),
		Reference:   b.Reference,
		BusID:       b.BusID.String(),
		SeatNumbers: b.SeatNumbers(),
		Passengers:  len(b.Passengers),
		TotalAmount: b.TotalAmount,
		OccurredAt:  at.UTC(),
	}
}

type Publisher interface {
	Publish(ctx context.Context, e BookingEvent) error
	Close() error
}

// LogPublisher only logs events. It is used when no broker is configured.
type LogPublisher struct {
	log *zap.Logger
}

func NewLogPublisher(log *zap.Logger) *LogPublisher {
	return &LogPublisher{log: log.With(zap.String("publisher", "log"))}
}

func (p *LogPublisher) Publish(_ context.Context, e BookingEvent) error {
	p.log.Info("Booking event",
		zap.String("type", string(e.Type)),
		zap.String("booking_id", e.BookingID),
		zap.String("reference", e.Reference),
		zap.Strings("seats", e.SeatNumbers),
	)
	return nil
}

func (p *LogPublisher) Close() error { return nil }
