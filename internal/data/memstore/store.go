// Package memstore is an in-process implementation of the repositories, used for
// local runs and tests. Transactions work on a private copy of the data that
// replaces the shared one only when the transaction function succeeds.
package memstore

import (
	"context"
	"maps"
	"sync"

	"bus-booking/internal/data/entity"
	"bus-booking/internal/data/repository"

	"github.com/google/uuid"
)

type state struct {
	buses      map[uuid.UUID]entity.Bus
	seats      map[uuid.UUID][]entity.Seat // by bus id
	bookings   map[uuid.UUID]entity.Booking
	passengers map[uuid.UUID]entity.Passenger
}

func newState() *state {
	return &state{
		buses:      make(map[uuid.UUID]entity.Bus),
		seats:      make(map[uuid.UUID][]entity.Seat),
		bookings:   make(map[uuid.UUID]entity.Booking),
		passengers: make(map[uuid.UUID]entity.Passenger),
	}
}

func (s *state) clone() *state {
	c := &state{
		buses:      maps.Clone(s.buses),
		seats:      make(map[uuid.UUID][]entity.Seat, len(s.seats)),
		bookings:   maps.Clone(s.bookings),
		passengers: maps.Clone(s.passengers),
	}
	for busID, seats := range s.seats {
		c.seats[busID] = append([]entity.Seat(nil), seats...)
	}
	return c
}

type Option func(*Store)

// WithTxDecorator lets callers wrap the repositories handed to transaction
// functions, e.g. to inject storage failures.
func WithTxDecorator(fn func(*repository.Repository) *repository.Repository) Option {
	return func(s *Store) {
		s.decorate = fn
	}
}

type Store struct {
	txMu     sync.Mutex   // one writer at a time
	mu       sync.RWMutex // guards cur
	cur      *state
	decorate func(*repository.Repository) *repository.Repository
}

func New(opts ...Option) *Store {
	s := &Store{cur: newState()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Repository returns repositories reading and writing the shared data.
func (s *Store) Repository() *repository.Repository {
	repo := bind(shared{s})
	repo.Tx = s
	return repo
}

func (s *Store) WithTx(ctx context.Context, fn func(*repository.Repository) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.RLock()
	snap := s.cur.clone()
	s.mu.RUnlock()

	repo := bind(private{snap})
	repo.Tx = joined{repo}
	if s.decorate != nil {
		repo = s.decorate(repo)
	}

	if err := fn(repo); err != nil {
		return err
	}

	s.mu.Lock()
	s.cur = snap
	s.mu.Unlock()
	return nil
}

type joined struct {
	repo *repository.Repository
}

func (j joined) WithTx(_ context.Context, fn func(*repository.Repository) error) error {
	return fn(j.repo)
}

// access hides whether a repository works on the shared data or a transaction copy.
type access interface {
	read(fn func(*state))
	write(fn func(*state) error) error
}

type shared struct {
	s *Store
}

func (a shared) read(fn func(*state)) {
	a.s.mu.RLock()
	defer a.s.mu.RUnlock()
	fn(a.s.cur)
}

// write outside a transaction still excludes transactions, so a commit cannot
// overwrite it with an older copy.
func (a shared) write(fn func(*state) error) error {
	a.s.txMu.Lock()
	defer a.s.txMu.Unlock()
	a.s.mu.Lock()
	defer a.s.mu.Unlock()
	return fn(a.s.cur)
}

type private struct {
	st *state
}

func (a private) read(fn func(*state))              { fn(a.st) }
func (a private) write(fn func(*state) error) error { return fn(a.st) }

func bind(acc access) *repository.Repository {
	return &repository.Repository{
		Bus:       &busRepo{acc},
		Seat:      &seatRepo{acc},
		Booking:   &bookingRepo{acc},
		Passenger: &passengerRepo{acc},
	}
}
