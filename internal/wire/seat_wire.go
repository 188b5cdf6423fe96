package wire

import (
	"bus-booking/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

func wireSeat(r chi.Router, seatHandler *adaptor.SeatHandler) {
	r.Route("/api/buses/{busId}/seats", func(r chi.Router) {
		// GET /api/buses/{busId}/seats - Seat grid, row by row
		r.Get("/", seatHandler.GetSeatGrid)

		// POST /api/buses/{busId}/seats/check - Dry run of a seat selection
		r.Post("/check", seatHandler.CheckSeats)
	})
}
