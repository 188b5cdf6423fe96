package entity

import (
	"time"

	"github.com/google/uuid"
)

type BookingStatus string

const (
	BookingStatusConfirmed BookingStatus = "CONFIRMED"
	BookingStatusCancelled BookingStatus = "CANCELLED"
)

type Booking struct {
	Base
	Reference     string        `db:"reference"`
	BusID         uuid.UUID     `db:"bus_id"`
	BoardingPoint string        `db:"boarding_point"`
	DroppingPoint string        `db:"dropping_point"`
	BookingTime   time.Time     `db:"booking_time"`
	TotalAmount   float64       `db:"total_amount"`
	Status        BookingStatus `db:"status"`
	CancelledAt   *time.Time    `db:"cancelled_at"`
}
