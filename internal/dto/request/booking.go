package request

type PassengerRequest struct {
	Name        string `json:"name" validate:"required,max=100"`
	Age         int    `json:"age" validate:"min=0,max=150"`
	Gender      string `json:"gender" validate:"required,oneof=MALE FEMALE OTHER"`
	PhoneNumber string `json:"phone_number" validate:"omitempty,max=20"`
	Email       string `json:"email" validate:"omitempty,email"`
	SeatNumber  string `json:"seat_number" validate:"omitempty,max=10"` // empty: seat assigned later
}

type CreateBookingRequest struct {
	BusID         string             `json:"bus_id" validate:"required,uuid"`
	BoardingPoint string             `json:"boarding_point" validate:"required,max=100"`
	DroppingPoint string             `json:"dropping_point" validate:"required,max=100"`
	Passengers    []PassengerRequest `json:"passengers" validate:"required,min=1,dive"`
}
