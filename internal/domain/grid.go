package domain

import (
	"fmt"
	"iter"
	"slices"

	"github.com/google/uuid"
)

// Grid is an immutable snapshot of a bus's seat layout and occupancy.
type Grid struct {
	busID   uuid.UUID
	maxRows int
	seats   []Seat
	index   map[string]int
}

type position struct{ row, col int }

// NewGrid builds a grid from stored seats. Any structural defect fails the whole load
// with a *MalformedSeatError.
func NewGrid(busID uuid.UUID, maxRows int, raws []RawSeat) (*Grid, error) {
	g := &Grid{
		busID: busID,
		seats: make([]Seat, 0, len(raws)),
		index: make(map[string]int, len(raws)),
	}
	taken := make(map[position]string, len(raws))

	for _, raw := range raws {
		number := NormalizeSeatNumber(raw.Number)
		if number == "" {
			return nil, &MalformedSeatError{BusID: busID, Reason: "seat without a seat number"}
		}
		if raw.Row == nil || raw.Col == nil {
			return nil, &MalformedSeatError{BusID: busID, SeatNumber: number, Reason: "missing row or column"}
		}
		if *raw.Row < 1 || *raw.Col < 1 {
			return nil, &MalformedSeatError{
				BusID:      busID,
				SeatNumber: number,
				Reason:     fmt.Sprintf("row %d / column %d out of range", *raw.Row, *raw.Col),
			}
		}
		if _, dup := g.index[number]; dup {
			return nil, &MalformedSeatError{BusID: busID, SeatNumber: number, Reason: "duplicate seat number"}
		}
		pos := position{*raw.Row, *raw.Col}
		if other, dup := taken[pos]; dup {
			return nil, &MalformedSeatError{
				BusID:      busID,
				SeatNumber: number,
				Reason:     fmt.Sprintf("row %d column %d already used by %s", pos.row, pos.col, other),
			}
		}

		seat := Seat{
			Number:   number,
			Row:      pos.row,
			Col:      pos.col,
			Deck:     raw.Deck,
			Status:   SeatStatus(raw.Status),
			Occupant: raw.Occupant,
		}
		if !seat.Status.Valid() {
			return nil, &MalformedSeatError{BusID: busID, SeatNumber: number, Reason: fmt.Sprintf("unknown status %q", raw.Status)}
		}
		if !seat.Consistent() {
			return nil, &MalformedSeatError{BusID: busID, SeatNumber: number, Reason: "status does not match occupant"}
		}

		taken[pos] = number
		g.index[number] = len(g.seats)
		g.seats = append(g.seats, seat)
		if pos.row > g.maxRows {
			g.maxRows = pos.row
		}
	}

	if maxRows > g.maxRows {
		g.maxRows = maxRows
	}
	return g, nil
}

func (g *Grid) BusID() uuid.UUID { return g.busID }

func (g *Grid) MaxRows() int { return g.maxRows }

func (g *Grid) Len() int { return len(g.seats) }

func (g *Grid) Seat(number string) (Seat, bool) {
	i, ok := g.index[NormalizeSeatNumber(number)]
	if !ok {
		return Seat{}, false
	}
	return g.seats[i], true
}

// Seats returns a copy of the seats in load order.
func (g *Grid) Seats() []Seat {
	return slices.Clone(g.seats)
}

func (g *Grid) Available() int {
	n := 0
	for _, s := range g.seats {
		if s.Status == SeatAvailable {
			n++
		}
	}
	return n
}

// Neighbors returns the seats sharing the row with number and sitting one column away.
func (g *Grid) Neighbors(number string) []Seat {
	seat, ok := g.Seat(number)
	if !ok {
		return nil
	}
	var out []Seat
	for _, s := range g.seats {
		if s.Row == seat.Row && (s.Col == seat.Col-1 || s.Col == seat.Col+1) {
			out = append(out, s)
		}
	}
	slices.SortFunc(out, func(a, b Seat) int { return a.Col - b.Col })
	return out
}

// Rows yields the grid row by row: rows ascending, seats in a row ascending by column.
// Each call starts a fresh pass; the grid is never modified.
func (g *Grid) Rows() iter.Seq[[]Seat] {
	return func(yield func([]Seat) bool) {
		byRow := make(map[int][]Seat)
		for _, s := range g.seats {
			byRow[s.Row] = append(byRow[s.Row], s)
		}
		rows := make([]int, 0, len(byRow))
		for r := range byRow {
			rows = append(rows, r)
		}
		slices.Sort(rows)

		for _, r := range rows {
			row := byRow[r]
			slices.SortFunc(row, func(a, b Seat) int { return a.Col - b.Col })
			if !yield(row) {
				return
			}
		}
	}
}

// GroupByRow is Rows for callers holding a grid value.
func GroupByRow(g *Grid) iter.Seq[[]Seat] { return g.Rows() }
