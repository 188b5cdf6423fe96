package usecase

import (
	"context"
	"fmt"

	"bus-booking/internal/data/repository"
	"bus-booking/internal/domain"
	"bus-booking/internal/domain/allocation"
	"bus-booking/internal/dto/request"
	"bus-booking/internal/dto/response"
	"bus-booking/internal/inventory"
	"bus-booking/internal/reservation"
	"bus-booking/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type BookingService interface {
	// CreateBooking turns a request already checked by the handler into a draft and
	// submits it.
	CreateBooking(ctx context.Context, req *request.CreateBookingRequest) (*response.BookingResponse, error)
	Submit(ctx context.Context, draft *domain.Draft) (*response.BookingResponse, error)

	GetBookingByID(ctx context.Context, bookingID string) (*response.BookingResponse, error)
	GetBusBookings(ctx context.Context, busID string, req *request.PaginatedRequest) (*response.PaginatedResponse[response.BookingResponse], error)
	CancelBooking(ctx context.Context, bookingID string) (*response.BookingResponse, error)
}

type bookingService struct {
	repo          *repository.Repository
	loader        *inventory.Loader
	coord         *reservation.Coordinator
	allowDeferred bool
	log           *zap.Logger
}

func NewBookingService(repo *repository.Repository, loader *inventory.Loader, coord *reservation.Coordinator, cfg utils.BookingConfig, log *zap.Logger) BookingService {
	return &bookingService{
		repo:          repo,
		loader:        loader,
		coord:         coord,
		allowDeferred: cfg.AllowDeferredSeating,
		log:           log.With(zap.String("service", "booking")),
	}
}

func (s *bookingService) CreateBooking(ctx context.Context, req *request.CreateBookingRequest) (*response.BookingResponse, error) {
	busID, err := parseID("bus_id", req.BusID)
	if err != nil {
		return nil, err
	}

	draft := domain.NewDraft(busID).SetRoute(req.BoardingPoint, req.DroppingPoint)
	for _, p := range req.Passengers {
		gender, _ := domain.ParseGender(p.Gender)
		draft.AppendPassenger(domain.Passenger{
			Name:        p.Name,
			Age:         p.Age,
			Gender:      gender,
			PhoneNumber: p.PhoneNumber,
			Email:       p.Email,
			SeatNumber:  p.SeatNumber,
		})
	}

	return s.Submit(ctx, draft)
}

// Submit checks the draft against a freshly loaded grid and hands it to the
// coordinator. Conflicts from either check come back unchanged and are not retried.
func (s *bookingService) Submit(ctx context.Context, draft *domain.Draft) (*response.BookingResponse, error) {
	passengers := draft.Passengers()

	verr := &domain.ValidationError{}
	if len(passengers) == 0 {
		verr.Add("passengers", "at least one passenger is required")
	}
	if draft.BoardingPoint == "" {
		verr.Add("boarding_point", "boarding point is required")
	}
	if draft.DroppingPoint == "" {
		verr.Add("dropping_point", "dropping point is required")
	}
	if !s.allowDeferred {
		for i, p := range passengers {
			if !p.Seated() {
				verr.Add(fmt.Sprintf("passengers[%d].seat_number", i), "seat is required")
			}
		}
	}
	if !verr.Empty() {
		return nil, verr
	}

	bus, grid, err := s.loader.LoadBusGrid(ctx, draft.BusID)
	if err != nil {
		return nil, err
	}

	if _, err := allocation.Validate(grid, domain.Assignments(passengers), s.coord.Policy()); err != nil {
		s.log.Info("Draft rejected before commit",
			zap.String("bus_id", draft.BusID.String()),
			zap.Error(err),
		)
		return nil, err
	}

	result, err := s.coord.Commit(ctx, draft.BusID, reservation.CommitRequest{
		BoardingPoint: draft.BoardingPoint,
		DroppingPoint: draft.DroppingPoint,
		Passengers:    passengers,
		TotalAmount:   bus.Price * float64(len(passengers)),
	})
	if err != nil {
		return nil, err
	}

	return response.BookingFromDomain(result.Booking, result.Warnings), nil
}

func (s *bookingService) GetBookingByID(ctx context.Context, bookingID string) (*response.BookingResponse, error) {
	id, err := parseID("booking_id", bookingID)
	if err != nil {
		return nil, err
	}

	booking, err := inventory.LoadBooking(ctx, s.repo, id)
	if err != nil {
		return nil, err
	}
	return response.BookingFromDomain(booking, nil), nil
}

func (s *bookingService) GetBusBookings(ctx context.Context, busID string, req *request.PaginatedRequest) (*response.PaginatedResponse[response.BookingResponse], error) {
	id, err := parseID("bus_id", busID)
	if err != nil {
		return nil, err
	}

	bus, err := s.repo.Bus.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("find bus %s: %w", busID, err)
	}
	if bus == nil {
		return nil, &domain.NotFoundError{Resource: "bus", ID: busID}
	}

	limit := req.Limit()
	offset := req.Offset()

	bookings, err := s.repo.Booking.FindByBusID(ctx, id, limit, offset)
	if err != nil {
		s.log.Error("Failed to get bus bookings",
			zap.Error(err),
			zap.String("bus_id", busID),
		)
		return nil, fmt.Errorf("get bus bookings: %w", err)
	}

	total, err := s.repo.Booking.CountByBusID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("count bus bookings: %w", err)
	}

	data := make([]response.BookingResponse, 0, len(bookings))
	for _, b := range bookings {
		passengers, err := s.repo.Passenger.FindByBookingID(ctx, b.ID)
		if err != nil {
			return nil, fmt.Errorf("get passengers of booking %s: %w", b.ID, err)
		}
		data = append(data, *response.BookingFromDomain(inventory.BookingFromEntity(b, passengers), nil))
	}

	return response.NewPaginatedResponse(data, max(req.Page, 1), limit, total), nil
}

func (s *bookingService) CancelBooking(ctx context.Context, bookingID string) (*response.BookingResponse, error) {
	id, err := parseID("booking_id", bookingID)
	if err != nil {
		return nil, err
	}

	booking, err := s.coord.Cancel(ctx, id)
	if err != nil {
		return nil, err
	}
	return response.BookingFromDomain(booking, nil), nil
}

func parseID(field, raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, domain.NewValidationError(field, "must be a valid UUID")
	}
	return id, nil
}
