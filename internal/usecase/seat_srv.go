package usecase

import (
	"context"
	"errors"

	"bus-booking/internal/domain"
	"bus-booking/internal/domain/allocation"
	"bus-booking/internal/dto/request"
	"bus-booking/internal/dto/response"
	"bus-booking/internal/inventory"
	"bus-booking/internal/reservation"

	"go.uber.org/zap"
)

type SeatService interface {
	GetSeatGrid(ctx context.Context, busID string) (*response.SeatGridResponse, error)
	// CheckSelection runs the allocation checks without booking anything.
	CheckSelection(ctx context.Context, busID string, req *request.CheckSeatsRequest) (*response.SeatCheckResponse, error)
}

type seatService struct {
	loader *inventory.Loader
	coord  *reservation.Coordinator
	log    *zap.Logger
}

func NewSeatService(loader *inventory.Loader, coord *reservation.Coordinator, log *zap.Logger) SeatService {
	return &seatService{
		loader: loader,
		coord:  coord,
		log:    log.With(zap.String("service", "seat")),
	}
}

func (s *seatService) GetSeatGrid(ctx context.Context, busID string) (*response.SeatGridResponse, error) {
	id, err := parseID("bus_id", busID)
	if err != nil {
		return nil, err
	}

	if _, err := s.coord.EnsureLayout(ctx, id); err != nil {
		return nil, err
	}

	bus, grid, err := s.loader.LoadBusGrid(ctx, id)
	if err != nil {
		return nil, err
	}
	return response.SeatGridFromDomain(bus, grid), nil
}

func (s *seatService) CheckSelection(ctx context.Context, busID string, req *request.CheckSeatsRequest) (*response.SeatCheckResponse, error) {
	id, err := parseID("bus_id", busID)
	if err != nil {
		return nil, err
	}

	grid, err := s.loader.LoadGrid(ctx, id)
	if err != nil {
		return nil, err
	}

	assignments := make([]domain.Assignment, len(req.Selections))
	for i, sel := range req.Selections {
		gender, _ := domain.ParseGender(sel.Gender)
		assignments[i] = domain.Assignment{
			SeatNumber: sel.SeatNumber,
			Passenger:  domain.Passenger{Gender: gender, SeatNumber: sel.SeatNumber},
		}
	}

	result, err := allocation.Validate(grid, assignments, s.coord.Policy())
	var ce *domain.ConflictError
	if errors.As(err, &ce) {
		return &response.SeatCheckResponse{Available: false, Conflicts: ce.Seats}, nil
	}
	if err != nil {
		return nil, err
	}
	return &response.SeatCheckResponse{Available: true, Warnings: result.Warnings}, nil
}
