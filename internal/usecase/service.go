package usecase

import (
	"bus-booking/internal/data/repository"
	"bus-booking/internal/inventory"
	"bus-booking/internal/reservation"
	"bus-booking/pkg/utils"

	"go.uber.org/zap"
)

type Service struct {
	Booking BookingService
	Seat    SeatService
}

func NewService(repo *repository.Repository, coord *reservation.Coordinator, config *utils.Config, log *zap.Logger) *Service {
	loader := inventory.NewLoader(repo, log)
	return &Service{
		Booking: NewBookingService(repo, loader, coord, config.Booking, log),
		Seat:    NewSeatService(loader, coord, log),
	}
}
