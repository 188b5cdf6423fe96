package domain

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

// MalformedSeatError is returned when a bus's stored seats cannot form a valid grid.
// A grid with such a defect is never served, partially or repaired.
type MalformedSeatError struct {
	BusID      uuid.UUID
	SeatNumber string
	Reason     string
}

func (e *MalformedSeatError) Error() string {
	if e.SeatNumber == "" {
		return fmt.Sprintf("malformed seat grid for bus %s: %s", e.BusID, e.Reason)
	}
	return fmt.Sprintf("malformed seat %q on bus %s: %s", e.SeatNumber, e.BusID, e.Reason)
}

// ValidationError carries one message per offending field of a draft booking.
type ValidationError struct {
	Fields map[string]string
}

func NewValidationError(field, msg string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: msg}}
}

func (e *ValidationError) Add(field, msg string) {
	if e.Fields == nil {
		e.Fields = make(map[string]string)
	}
	e.Fields[field] = msg
}

func (e *ValidationError) Empty() bool { return len(e.Fields) == 0 }

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	msgs := make([]string, 0, len(keys))
	for _, k := range keys {
		msgs = append(msgs, fmt.Sprintf("%s: %s", k, e.Fields[k]))
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

type ConflictReason string

const (
	ReasonUnknownSeat     ConflictReason = "unknown_seat"
	ReasonUnavailable     ConflictReason = "unavailable"
	ReasonDuplicateSeat   ConflictReason = "duplicate_seat"
	ReasonGenderAdjacency ConflictReason = "gender_adjacency"
)

// SeatConflict explains why a single requested seat cannot be allocated.
type SeatConflict struct {
	SeatNumber string         `json:"seat_number"`
	Reason     ConflictReason `json:"reason"`
	Detail     string         `json:"detail,omitempty"`
}

// ConflictError lists every seat of a request that failed, one entry per seat.
type ConflictError struct {
	BusID uuid.UUID
	Seats []SeatConflict
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("seat conflict on bus %s: %s", e.BusID, strings.Join(e.SeatNumbers(), ", "))
}

func (e *ConflictError) SeatNumbers() []string {
	out := make([]string, len(e.Seats))
	for i, s := range e.Seats {
		out[i] = s.SeatNumber
	}
	return out
}

// BusyError means the per-bus critical section could not be entered in time.
type BusyError struct {
	BusID  uuid.UUID
	Waited time.Duration
}

func (e *BusyError) Error() string {
	return fmt.Sprintf("bus %s is busy: gave up after %s", e.BusID, e.Waited)
}

type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Resource, e.ID)
}

func IsMalformed(err error) bool {
	var target *MalformedSeatError
	return errors.As(err, &target)
}

func IsValidation(err error) bool {
	var target *ValidationError
	return errors.As(err, &target)
}

func IsConflict(err error) bool {
	var target *ConflictError
	return errors.As(err, &target)
}

func IsBusy(err error) bool {
	var target *BusyError
	return errors.As(err, &target)
}

func IsNotFound(err error) bool {
	var target *NotFoundError
	return errors.As(err, &target)
}
