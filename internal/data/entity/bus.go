package entity

import "time"

type Bus struct {
	Base
	BusName       string    `db:"bus_name"`
	BusNumber     string    `db:"bus_number"`
	RouteFrom     string    `db:"route_from"`
	RouteTo       string    `db:"route_to"`
	DepartureTime time.Time `db:"departure_time"`
	ArrivalTime   time.Time `db:"arrival_time"`
	Price         float64   `db:"price"`
	SeatRows      int       `db:"seat_rows"` // default layout height, also the grid's maxRows
	SeatCols      int       `db:"seat_cols"`
}
