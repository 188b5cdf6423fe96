package domain

import (
	"time"

	"github.com/google/uuid"
)

type Passenger struct {
	Name        string `json:"name"`
	Age         int    `json:"age"`
	Gender      Gender `json:"gender"`
	PhoneNumber string `json:"phone_number,omitempty"`
	Email       string `json:"email,omitempty"`
	SeatNumber  string `json:"seat_number,omitempty"`
}

func (p Passenger) Seated() bool { return p.SeatNumber != "" }

func (p Passenger) Occupant() *Occupant {
	return &Occupant{Name: p.Name, Gender: p.Gender}
}

// Assignment pairs a requested seat with the passenger who will sit there.
// Requests are ordered lists so that a repeated seat number stays visible.
type Assignment struct {
	SeatNumber string
	Passenger  Passenger
}

// Assignments extracts the seated passengers in order. Passengers without a seat are
// deferred and left out.
func Assignments(passengers []Passenger) []Assignment {
	out := make([]Assignment, 0, len(passengers))
	for _, p := range passengers {
		if !p.Seated() {
			continue
		}
		out = append(out, Assignment{SeatNumber: p.SeatNumber, Passenger: p})
	}
	return out
}

type BookingStatus string

const (
	BookingConfirmed BookingStatus = "CONFIRMED"
	BookingCancelled BookingStatus = "CANCELLED"
)

// Booking is a committed booking. Only Status and CancelledAt change after commit.
type Booking struct {
	ID            uuid.UUID
	Reference     string
	BusID         uuid.UUID
	BoardingPoint string
	DroppingPoint string
	BookingTime   time.Time
	Passengers    []Passenger
	TotalAmount   float64
	Status        BookingStatus
	CancelledAt   *time.Time
}

func (b *Booking) SeatNumbers() []string {
	out := make([]string, 0, len(b.Passengers))
	for _, p := range b.Passengers {
		if p.Seated() {
			out = append(out, p.SeatNumber)
		}
	}
	return out
}
