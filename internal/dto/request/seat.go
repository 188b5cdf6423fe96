package request

type SeatSelection struct {
	SeatNumber string `json:"seat_number" validate:"required,max=10"`
	Gender     string `json:"gender" validate:"required,oneof=MALE FEMALE OTHER"`
}

// CheckSeatsRequest asks whether a selection could be booked right now.
type CheckSeatsRequest struct {
	Selections []SeatSelection `json:"selections" validate:"required,min=1,dive"`
}
