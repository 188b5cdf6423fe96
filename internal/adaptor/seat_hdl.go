package adaptor

import (
	"encoding/json"
	"net/http"

	"bus-booking/internal/dto/request"
	"bus-booking/internal/usecase"
	"bus-booking/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type SeatHandler struct {
	service usecase.SeatService
	log     *zap.Logger
}

func NewSeatHandler(service usecase.SeatService, log *zap.Logger) *SeatHandler {
	return &SeatHandler{
		service: service,
		log:     log.With(zap.String("handler", "seat")),
	}
}

// GetSeatGrid handles GET /api/buses/{busId}/seats
func (h *SeatHandler) GetSeatGrid(w http.ResponseWriter, r *http.Request) {
	grid, err := h.service.GetSeatGrid(r.Context(), chi.URLParam(r, "busId"))
	if err != nil {
		handleServiceError(w, h.log, err, "get seat grid")
		return
	}

	utils.ResponseSuccess(w, "success", grid)
}

// CheckSeats handles POST /api/buses/{busId}/seats/check
func (h *SeatHandler) CheckSeats(w http.ResponseWriter, r *http.Request) {
	var req request.CheckSeatsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	result, err := h.service.CheckSelection(r.Context(), chi.URLParam(r, "busId"), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "check seats")
		return
	}

	utils.ResponseSuccess(w, "success", result)
}
