package wire

import (
	"bus-booking/internal/adaptor"
	"bus-booking/pkg/middleware"
	"bus-booking/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireBooking(
	r chi.Router,
	bookingHandler *adaptor.BookingHandler,
	config *utils.Config,
	log *zap.Logger,
) {
	limiter := middleware.NewRateLimiter(config.RateLimit)

	r.Route("/api/bookings", func(r chi.Router) {
		// POST /api/bookings - Submit a booking; rate limited per client
		r.With(limiter.Limit(log)).Post("/", bookingHandler.CreateBooking)

		// GET /api/bookings/{id} - Booking details with passengers
		r.Get("/{id}", bookingHandler.GetBookingByID)

		// PUT /api/bookings/{id}/cancel - Cancel and release seats
		r.Put("/{id}/cancel", bookingHandler.CancelBooking)
	})

	// GET /api/buses/{busId}/bookings - Bookings of a bus, newest first
	r.Get("/api/buses/{busId}/bookings", bookingHandler.GetBusBookings)
}
