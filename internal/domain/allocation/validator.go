// Package allocation decides whether a set of seat assignments can be granted
// against a seat grid snapshot. It never mutates the grid.
package allocation

import (
	"fmt"
	"strings"

	"bus-booking/internal/domain"
)

type AdjacencyMode string

const (
	AdjacencyOff    AdjacencyMode = "off"
	AdjacencyWarn   AdjacencyMode = "warn"
	AdjacencyStrict AdjacencyMode = "strict"
)

func ParseAdjacencyMode(s string) (AdjacencyMode, error) {
	switch m := AdjacencyMode(strings.ToLower(strings.TrimSpace(s))); m {
	case AdjacencyOff, AdjacencyWarn, AdjacencyStrict:
		return m, nil
	case "":
		return AdjacencyWarn, nil
	default:
		return "", fmt.Errorf("unknown adjacency policy %q", s)
	}
}

type Policy struct {
	Adjacency AdjacencyMode
}

// Warning is an advisory finding that does not block the allocation.
type Warning struct {
	SeatNumber     string        `json:"seat_number"`
	NeighborSeat   string        `json:"neighbor_seat"`
	NeighborGender domain.Gender `json:"neighbor_gender"`
}

type Result struct {
	Assignments []domain.Assignment
	Warnings    []Warning
}

// Validate checks every assignment against grid. On success the assignments are
// returned untouched; otherwise a *domain.ConflictError names each failing seat once.
func Validate(grid *domain.Grid, assignments []domain.Assignment, policy Policy) (Result, error) {
	var (
		conflicts []domain.SeatConflict
		warnings  []Warning
		failed    = make(map[string]bool)
		seen      = make(map[string]bool, len(assignments))
	)
	fail := func(number string, reason domain.ConflictReason, detail string) {
		if failed[number] {
			return
		}
		failed[number] = true
		conflicts = append(conflicts, domain.SeatConflict{SeatNumber: number, Reason: reason, Detail: detail})
	}

	for _, a := range assignments {
		number := domain.NormalizeSeatNumber(a.SeatNumber)
		if number == "" {
			continue
		}
		if seen[number] {
			fail(number, domain.ReasonDuplicateSeat, "seat requested more than once")
			continue
		}
		seen[number] = true

		seat, ok := grid.Seat(number)
		if !ok {
			fail(number, domain.ReasonUnknownSeat, "seat does not exist on this bus")
			continue
		}
		if seat.Status != domain.SeatAvailable {
			fail(number, domain.ReasonUnavailable, fmt.Sprintf("seat is %s", seat.Status))
			continue
		}

		if policy.Adjacency == AdjacencyOff || policy.Adjacency == "" {
			continue
		}
		for _, n := range grid.Neighbors(number) {
			if n.Status != domain.SeatBooked || n.Occupant == nil {
				continue
			}
			if !a.Passenger.Gender.Opposes(n.Occupant.Gender) {
				continue
			}
			if policy.Adjacency == AdjacencyStrict {
				fail(number, domain.ReasonGenderAdjacency, fmt.Sprintf("next to %s occupied by %s passenger", n.Number, n.Occupant.Gender))
				break
			}
			warnings = append(warnings, Warning{SeatNumber: number, NeighborSeat: n.Number, NeighborGender: n.Occupant.Gender})
		}
	}

	if len(conflicts) > 0 {
		return Result{}, &domain.ConflictError{BusID: grid.BusID(), Seats: conflicts}
	}
	return Result{Assignments: assignments, Warnings: warnings}, nil
}
