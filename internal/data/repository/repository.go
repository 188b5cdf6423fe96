package repository

import (
	"context"
	"errors"
	"fmt"

	"bus-booking/pkg/database"

	"go.uber.org/zap"
)

// Transactor runs fn against repositories bound to a single transaction.
// Returning an error from fn discards every write fn made.
type Transactor interface {
	WithTx(ctx context.Context, fn func(*Repository) error) error
}

type Repository struct {
	Bus       BusRepository
	Seat      SeatRepository
	Booking   BookingRepository
	Passenger PassengerRepository
	Tx        Transactor
}

func NewRepository(db database.PgxIface, log *zap.Logger) *Repository {
	repo := newQuerierRepository(db, log)
	repo.Tx = &pgTransactor{db: db, log: log.With(zap.String("repository", "tx"))}
	return repo
}

func newQuerierRepository(db database.Querier, log *zap.Logger) *Repository {
	return &Repository{
		Bus:       NewBusRepository(db, log),
		Seat:      NewSeatRepository(db, log),
		Booking:   NewBookingRepository(db, log),
		Passenger: NewPassengerRepository(db, log),
	}
}

func (r *Repository) WithTx(ctx context.Context, fn func(*Repository) error) error {
	return r.Tx.WithTx(ctx, fn)
}

type pgTransactor struct {
	db  database.PgxIface
	log *zap.Logger
}

func (t *pgTransactor) WithTx(ctx context.Context, fn func(*Repository) error) error {
	tx, err := t.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	txRepo := newQuerierRepository(tx, t.log)
	txRepo.Tx = joinedTx{repo: txRepo}

	if err := fn(txRepo); err != nil {
		if rbErr := tx.Rollback(ctx); rbErr != nil {
			t.log.Error("Failed to rollback transaction", zap.Error(rbErr))
			return errors.Join(err, fmt.Errorf("rollback: %w", rbErr))
		}
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		t.log.Error("Failed to commit transaction", zap.Error(err))
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// joinedTx reuses the enclosing transaction for nested WithTx calls.
type joinedTx struct {
	repo *Repository
}

func (j joinedTx) WithTx(_ context.Context, fn func(*Repository) error) error {
	return fn(j.repo)
}
