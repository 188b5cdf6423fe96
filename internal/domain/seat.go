package domain

import "strings"

type SeatStatus string

const (
	SeatAvailable SeatStatus = "AVAILABLE"
	SeatBooked    SeatStatus = "BOOKED"
)

func (s SeatStatus) Valid() bool {
	return s == SeatAvailable || s == SeatBooked
}

type Gender string

const (
	GenderMale   Gender = "MALE"
	GenderFemale Gender = "FEMALE"
	GenderOther  Gender = "OTHER"
)

func ParseGender(s string) (Gender, bool) {
	g := Gender(strings.ToUpper(strings.TrimSpace(s)))
	switch g {
	case GenderMale, GenderFemale, GenderOther:
		return g, true
	}
	return "", false
}

// Opposes reports whether the two genders trigger the adjacency policy.
// OTHER never does.
func (g Gender) Opposes(other Gender) bool {
	return (g == GenderMale && other == GenderFemale) || (g == GenderFemale && other == GenderMale)
}

// Occupant is the part of a passenger visible on the seat map.
type Occupant struct {
	Name   string `json:"name"`
	Gender Gender `json:"gender"`
}

type Seat struct {
	Number   string     `json:"seat_number"`
	Row      int        `json:"seat_row"`
	Col      int        `json:"seat_col"`
	Deck     string     `json:"deck,omitempty"`
	Status   SeatStatus `json:"status"`
	Occupant *Occupant  `json:"occupant"`
}

// Consistent checks the status/occupant pairing every seat must satisfy.
func (s Seat) Consistent() bool {
	switch s.Status {
	case SeatAvailable:
		return s.Occupant == nil
	case SeatBooked:
		return s.Occupant != nil
	}
	return false
}

// RawSeat is a seat as read from storage, before structural checks.
// Row and Col are nil when the stored value is missing.
type RawSeat struct {
	Number   string
	Row      *int
	Col      *int
	Deck     string
	Status   string
	Occupant *Occupant
}

// NormalizeSeatNumber trims and upper-cases a seat code.
func NormalizeSeatNumber(n string) string {
	return strings.ToUpper(strings.TrimSpace(n))
}
