package entity

import "github.com/google/uuid"

type SeatStatus string

const (
	SeatStatusAvailable SeatStatus = "AVAILABLE"
	SeatStatusBooked    SeatStatus = "BOOKED"
)

type Seat struct {
	Base
	BusID       uuid.UUID  `db:"bus_id"`
	SeatNumber  string     `db:"seat_number"` // R1C1, R1C2, ...
	SeatRow     *int       `db:"seat_row"`
	SeatCol     *int       `db:"seat_col"`
	Deck        string     `db:"deck"`
	Status      SeatStatus `db:"status"`
	PassengerID *uuid.UUID `db:"passenger_id"`

	// joined from passengers, nil when the seat is free
	OccupantName   *string `db:"occupant_name"`
	OccupantGender *string `db:"occupant_gender"`
}
