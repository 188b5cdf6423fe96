package entity

import "github.com/google/uuid"

type Passenger struct {
	BaseSimple
	BookingID   uuid.UUID `db:"booking_id"`
	Position    int       `db:"position"`
	Name        string    `db:"name"`
	Age         int       `db:"age"`
	Gender      string    `db:"gender"`
	PhoneNumber string    `db:"phone_number"`
	Email       string    `db:"email"`
	SeatNumber  *string   `db:"seat_number"`
}
