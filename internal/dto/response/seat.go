package response

import (
	"time"

	"bus-booking/internal/data/entity"
	"bus-booking/internal/domain"
	"bus-booking/internal/domain/allocation"
)

// Legend keys shown on the seat map.
const (
	LegendAvailable    = "AVAILABLE"
	LegendBookedMale   = "BOOKED_MALE"
	LegendBookedFemale = "BOOKED_FEMALE"
	LegendBookedOther  = "BOOKED_OTHER"
)

type SeatResponse struct {
	SeatNumber string            `json:"seat_number"`
	SeatRow    int               `json:"seat_row"`
	SeatCol    int               `json:"seat_col"`
	Deck       string            `json:"deck,omitempty"`
	Status     domain.SeatStatus `json:"status"`
	Occupant   *domain.Occupant  `json:"occupant"`
	Legend     string            `json:"legend"`
}

type BusSummary struct {
	ID            string    `json:"id"`
	BusName       string    `json:"bus_name"`
	BusNumber     string    `json:"bus_number"`
	RouteFrom     string    `json:"route_from"`
	RouteTo       string    `json:"route_to"`
	DepartureTime time.Time `json:"departure_time"`
	ArrivalTime   time.Time `json:"arrival_time"`
	Price         float64   `json:"price"`
}

type LegendEntry struct {
	Key   string `json:"key"`
	Label string `json:"label"`
}

type SeatGridResponse struct {
	Bus            BusSummary       `json:"bus"`
	MaxRows        int              `json:"max_rows"`
	TotalSeats     int              `json:"total_seats"`
	AvailableSeats int              `json:"available_seats"`
	Rows           [][]SeatResponse `json:"rows"`
	Legend         []LegendEntry    `json:"legend"`
}

type SeatCheckResponse struct {
	Available bool                  `json:"available"`
	Warnings  []allocation.Warning  `json:"warnings,omitempty"`
	Conflicts []domain.SeatConflict `json:"conflicts,omitempty"`
}

var seatLegend = []LegendEntry{
	{Key: LegendAvailable, Label: "Available"},
	{Key: LegendBookedMale, Label: "Booked (male)"},
	{Key: LegendBookedFemale, Label: "Booked (female)"},
	{Key: LegendBookedOther, Label: "Booked (other)"},
}

func legendOf(s domain.Seat) string {
	if s.Status == domain.SeatAvailable || s.Occupant == nil {
		return LegendAvailable
	}
	switch s.Occupant.Gender {
	case domain.GenderMale:
		return LegendBookedMale
	case domain.GenderFemale:
		return LegendBookedFemale
	default:
		return LegendBookedOther
	}
}

func SeatFromDomain(s domain.Seat) SeatResponse {
	return SeatResponse{
		SeatNumber: s.Number,
		SeatRow:    s.Row,
		SeatCol:    s.Col,
		Deck:       s.Deck,
		Status:     s.Status,
		Occupant:   s.Occupant,
		Legend:     legendOf(s),
	}
}

func SeatGridFromDomain(bus *entity.Bus, grid *domain.Grid) *SeatGridResponse {
	res := &SeatGridResponse{
		Bus: BusSummary{
			ID:            bus.ID.String(),
			BusName:       bus.BusName,
			BusNumber:     bus.BusNumber,
			RouteFrom:     bus.RouteFrom,
			RouteTo:       bus.RouteTo,
			DepartureTime: bus.DepartureTime,
			ArrivalTime:   bus.ArrivalTime,
			Price:         bus.Price,
		},
		MaxRows:        grid.MaxRows(),
		TotalSeats:     grid.Len(),
		AvailableSeats: grid.Available(),
		Rows:           [][]SeatResponse{},
		Legend:         seatLegend,
	}
	for row := range grid.Rows() {
		seats := make([]SeatResponse, len(row))
		for i, s := range row {
			seats[i] = SeatFromDomain(s)
		}
		res.Rows = append(res.Rows, seats)
	}
	return res
}
