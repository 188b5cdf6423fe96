package adaptor

import (
	"errors"
	"net/http"

	"bus-booking/internal/domain"
	"bus-booking/internal/usecase"
	"bus-booking/pkg/utils"

	"go.uber.org/zap"
)

type Handler struct {
	Booking *BookingHandler
	Seat    *SeatHandler
}

func NewHandler(service *usecase.Service, log *zap.Logger) *Handler {
	return &Handler{
		Booking: NewBookingHandler(service.Booking, log),
		Seat:    NewSeatHandler(service.Seat, log),
	}
}

// handleServiceError maps typed service errors to responses. Anything unknown is a 500.
func handleServiceError(w http.ResponseWriter, log *zap.Logger, err error, operation string) {
	var (
		validationErr *domain.ValidationError
		conflictErr   *domain.ConflictError
		busyErr       *domain.BusyError
		notFoundErr   *domain.NotFoundError
		malformedErr  *domain.MalformedSeatError
	)

	switch {
	case errors.As(err, &validationErr):
		log.Warn(operation+" validation failed", zap.Error(err))
		utils.ResponseBadRequest(w, "Validation failed", validationErr.Fields)

	case errors.As(err, &conflictErr):
		log.Info(operation+" failed - seat conflict", zap.Strings("seats", conflictErr.SeatNumbers()))
		utils.ResponseConflict(w, "Some seats cannot be booked", conflictErr.Seats)

	case errors.As(err, &busyErr):
		log.Warn(operation+" failed - bus busy", zap.Error(err))
		utils.ResponseServiceUnavailable(w, "Seats of this bus are being booked, please retry", busyErr.Waited)

	case errors.As(err, &notFoundErr):
		log.Warn(operation+" failed - not found", zap.Error(err))
		utils.ResponseNotFound(w, notFoundErr.Error())

	case errors.As(err, &malformedErr):
		log.Error(operation+" failed - malformed seat grid", zap.Error(err))
		utils.ResponseInternalError(w, "Seat layout of this bus is invalid")

	default:
		log.Error(operation+" failed", zap.Error(err))
		utils.ResponseInternalError(w, "Internal server error")
	}
}
