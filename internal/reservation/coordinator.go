// Package reservation is the only writer of seat state. Every change to a bus's
// seats happens inside that bus's critical section and a single store
// transaction, so a booking and its seats are persisted together or not at all.
package reservation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"bus-booking/internal/data/entity"
	"bus-booking/internal/data/repository"
	"bus-booking/internal/domain"
	"bus-booking/internal/domain/allocation"
	"bus-booking/internal/event"
	"bus-booking/internal/inventory"
	"bus-booking/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const DefaultLockWait = 3 * time.Second

type Config struct {
	Policy   allocation.Policy
	LockWait time.Duration
}

type CommitRequest struct {
	BoardingPoint string
	DroppingPoint string
	Passengers    []domain.Passenger
	TotalAmount   float64
}

type CommitResult struct {
	Booking  *domain.Booking
	Warnings []allocation.Warning
}

type Coordinator struct {
	repo      *repository.Repository
	locker    Locker
	publisher event.Publisher
	policy    allocation.Policy
	wait      time.Duration
	now       func() time.Time
	newRef    func(time.Time) string
	log       *zap.Logger
}

func NewCoordinator(repo *repository.Repository, locker Locker, publisher event.Publisher, cfg Config, log *zap.Logger) *Coordinator {
	if cfg.LockWait <= 0 {
		cfg.LockWait = DefaultLockWait
	}
	return &Coordinator{
		repo:      repo,
		locker:    locker,
		publisher: publisher,
		policy:    cfg.Policy,
		wait:      cfg.LockWait,
		now:       time.Now,
		newRef:    utils.GenerateBookingReference,
		log:       log.With(zap.String("component", "reservation")),
	}
}

func (c *Coordinator) Policy() allocation.Policy { return c.policy }

// Commit re-validates the request against the current seats and, if every seat is
// still free, books them all. A conflict or storage error leaves no trace.
func (c *Coordinator) Commit(ctx context.Context, busID uuid.UUID, req CommitRequest) (*CommitResult, error) {
	if len(req.Passengers) == 0 {
		return nil, domain.NewValidationError("passengers", "at least one passenger is required")
	}

	var result *CommitResult
	err := c.inSection(ctx, busID, func() error {
		var err error
		result, err = c.commitLocked(ctx, busID, req)
		return err
	})
	if err != nil {
		c.logFailure("Commit failed", busID, err)
		return nil, err
	}

	c.log.Info("Booking committed",
		zap.String("bus_id", busID.String()),
		zap.String("booking_id", result.Booking.ID.String()),
		zap.String("reference", result.Booking.Reference),
		zap.Strings("seats", result.Booking.SeatNumbers()),
		zap.Int("warnings", len(result.Warnings)),
	)
	c.publish(ctx, event.BookingCommitted, result.Booking)
	return result, nil
}

func (c *Coordinator) commitLocked(ctx context.Context, busID uuid.UUID, req CommitRequest) (*CommitResult, error) {
	var result *CommitResult

	err := c.repo.WithTx(ctx, func(tx *repository.Repository) error {
		_, grid, err := inventory.Load(ctx, tx, busID, true)
		if err != nil {
			return err
		}

		checked, err := allocation.Validate(grid, domain.Assignments(req.Passengers), c.policy)
		if err != nil {
			return err
		}

		now := c.now()
		booking := &entity.Booking{
			Base:          entity.Base{ID: uuid.New(), CreatedAt: now, UpdatedAt: now},
			Reference:     c.newRef(now),
			BusID:         busID,
			BoardingPoint: req.BoardingPoint,
			DroppingPoint: req.DroppingPoint,
			BookingTime:   now,
			TotalAmount:   req.TotalAmount,
			Status:        entity.BookingStatusConfirmed,
		}
		if err := tx.Booking.Create(ctx, booking); err != nil {
			return err
		}

		passengers := make([]*entity.Passenger, len(req.Passengers))
		for i, p := range req.Passengers {
			passengers[i] = &entity.Passenger{
				BaseSimple:  entity.BaseSimple{ID: uuid.New(), CreatedAt: now},
				BookingID:   booking.ID,
				Position:    i,
				Name:        p.Name,
				Age:         p.Age,
				Gender:      string(p.Gender),
				PhoneNumber: p.PhoneNumber,
				Email:       p.Email,
			}
			if seat := domain.NormalizeSeatNumber(p.SeatNumber); seat != "" {
				passengers[i].SeatNumber = &seat
			}
		}
		if err := tx.Passenger.CreateBatch(ctx, passengers); err != nil {
			return err
		}

		for _, p := range passengers {
			if p.SeatNumber == nil {
				continue
			}
			err := tx.Seat.MarkBooked(ctx, busID, *p.SeatNumber, p.ID)
			if errors.Is(err, repository.ErrSeatNotAvailable) {
				return &domain.ConflictError{BusID: busID, Seats: []domain.SeatConflict{{
					SeatNumber: *p.SeatNumber,
					Reason:     domain.ReasonUnavailable,
					Detail:     "seat changed while booking",
				}}}
			}
			if err != nil {
				return err
			}
		}

		result = &CommitResult{
			Booking:  inventory.BookingFromEntity(booking, passengers),
			Warnings: checked.Warnings,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Cancel frees the seats of a confirmed booking and marks it cancelled. Everything
// else about the booking is kept.
func (c *Coordinator) Cancel(ctx context.Context, bookingID uuid.UUID) (*domain.Booking, error) {
	current, err := c.repo.Booking.FindByID(ctx, bookingID)
	if err != nil {
		return nil, fmt.Errorf("find booking %s: %w", bookingID, err)
	}
	if current == nil {
		return nil, &domain.NotFoundError{Resource: "booking", ID: bookingID.String()}
	}
	busID := current.BusID

	var cancelled *domain.Booking
	err = c.inSection(ctx, busID, func() error {
		return c.repo.WithTx(ctx, func(tx *repository.Repository) error {
			booking, err := inventory.LoadBooking(ctx, tx, bookingID)
			if err != nil {
				return err
			}
			if booking.Status == domain.BookingCancelled {
				return domain.NewValidationError("status", "booking is already cancelled")
			}

			passengers, err := tx.Passenger.FindByBookingID(ctx, bookingID)
			if err != nil {
				return err
			}
			var seated []uuid.UUID
			for _, p := range passengers {
				if p.SeatNumber != nil {
					seated = append(seated, p.ID)
				}
			}

			released, err := tx.Seat.Release(ctx, busID, seated)
			if err != nil {
				return err
			}
			if released != int64(len(seated)) {
				c.log.Warn("Released seat count differs from seated passengers",
					zap.String("booking_id", bookingID.String()),
					zap.Int64("released", released),
					zap.Int("seated", len(seated)),
				)
			}

			at := c.now()
			if err := tx.Booking.MarkCancelled(ctx, bookingID, at); err != nil {
				return err
			}

			booking.Status = domain.BookingCancelled
			booking.CancelledAt = &at
			cancelled = booking
			return nil
		})
	})
	if err != nil {
		c.logFailure("Cancel failed", busID, err)
		return nil, err
	}

	c.log.Info("Booking cancelled",
		zap.String("bus_id", busID.String()),
		zap.String("booking_id", bookingID.String()),
		zap.Strings("seats", cancelled.SeatNumbers()),
	)
	c.publish(ctx, event.BookingCancelled, cancelled)
	return cancelled, nil
}

// EnsureLayout creates the default seat layout of a bus that has no seats yet.
// It reports whether seats were created.
func (c *Coordinator) EnsureLayout(ctx context.Context, busID uuid.UUID) (bool, error) {
	count, err := c.repo.Seat.CountByBusID(ctx, busID)
	if err != nil {
		return false, err
	}
	if count > 0 {
		return false, nil
	}

	created := false
	err = c.inSection(ctx, busID, func() error {
		return c.repo.WithTx(ctx, func(tx *repository.Repository) error {
			bus, err := tx.Bus.FindByID(ctx, busID)
			if err != nil {
				return err
			}
			if bus == nil {
				return &domain.NotFoundError{Resource: "bus", ID: busID.String()}
			}

			count, err := tx.Seat.CountByBusID(ctx, busID)
			if err != nil || count > 0 {
				return err
			}

			if err := tx.Seat.CreateBatch(ctx, inventory.DefaultLayout(bus, c.now())); err != nil {
				return err
			}
			created = true
			return nil
		})
	})
	if errors.Is(err, repository.ErrSeatExists) {
		// another instance laid the bus out between our count and insert
		c.log.Info("Seat layout already present", zap.String("bus_id", busID.String()))
		return false, nil
	}
	if err != nil {
		return false, err
	}

	if created {
		c.log.Info("Default seat layout created", zap.String("bus_id", busID.String()))
	}
	return created, nil
}

func (c *Coordinator) inSection(ctx context.Context, busID uuid.UUID, fn func() error) error {
	release, err := c.locker.Acquire(ctx, busID, c.wait)
	if err != nil {
		return err
	}
	defer release()

	return fn()
}

// publish runs after the section is released; a broker outage never undoes a booking.
func (c *Coordinator) publish(ctx context.Context, t event.Type, b *domain.Booking) {
	if c.publisher == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()

	if err := c.publisher.Publish(ctx, event.NewBookingEvent(t, b, c.now())); err != nil {
		c.log.Warn("Failed to publish booking event",
			zap.String("type", string(t)),
			zap.String("booking_id", b.ID.String()),
			zap.Error(err),
		)
	}
}

func (c *Coordinator) logFailure(msg string, busID uuid.UUID, err error) {
	fields := []zap.Field{zap.String("bus_id", busID.String()), zap.Error(err)}
	switch {
	case domain.IsConflict(err), domain.IsValidation(err), domain.IsNotFound(err):
		c.log.Info(msg, fields...)
	case domain.IsBusy(err):
		c.log.Warn(msg, fields...)
	default:
		c.log.Error(msg, fields...)
	}
}
