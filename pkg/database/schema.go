package database

import (
	"context"
	"fmt"
)

// seat_row/seat_col stay nullable so a missing position surfaces as a malformed
// grid. Two seats of one bus can never share a number or a position.
const schema = `
CREATE TABLE IF NOT EXISTS buses (
	id             UUID PRIMARY KEY,
	bus_name       TEXT NOT NULL,
	bus_number     TEXT NOT NULL UNIQUE,
	route_from     TEXT NOT NULL,
	route_to       TEXT NOT NULL,
	departure_time TIMESTAMPTZ NOT NULL,
	arrival_time   TIMESTAMPTZ NOT NULL,
	price          NUMERIC(12,2) NOT NULL DEFAULT 0,
	seat_rows      INT NOT NULL DEFAULT 7,
	seat_cols      INT NOT NULL DEFAULT 4,
	created_at     TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at     TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS bookings (
	id             UUID PRIMARY KEY,
	reference      TEXT NOT NULL UNIQUE,
	bus_id         UUID NOT NULL REFERENCES buses(id),
	boarding_point TEXT NOT NULL,
	dropping_point TEXT NOT NULL,
	booking_time   TIMESTAMPTZ NOT NULL,
	total_amount   NUMERIC(12,2) NOT NULL,
	status         TEXT NOT NULL,
	cancelled_at   TIMESTAMPTZ,
	created_at     TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at     TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_bookings_bus_id ON bookings(bus_id, booking_time DESC);

CREATE TABLE IF NOT EXISTS passengers (
	id           UUID PRIMARY KEY,
	booking_id   UUID NOT NULL REFERENCES bookings(id) ON DELETE CASCADE,
	position     INT NOT NULL,
	name         TEXT NOT NULL,
	age          INT NOT NULL,
	gender       TEXT NOT NULL,
	phone_number TEXT NOT NULL DEFAULT '',
	email        TEXT NOT NULL DEFAULT '',
	seat_number  TEXT,
	created_at   TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_passengers_booking_id ON passengers(booking_id);

CREATE TABLE IF NOT EXISTS seats (
	id           UUID PRIMARY KEY,
	bus_id       UUID NOT NULL REFERENCES buses(id) ON DELETE CASCADE,
	seat_number  TEXT NOT NULL,
	seat_row     INT,
	seat_col     INT,
	deck         TEXT NOT NULL DEFAULT '',
	status       TEXT NOT NULL DEFAULT 'AVAILABLE',
	passenger_id UUID REFERENCES passengers(id),
	created_at   TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at   TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	CONSTRAINT uq_seats_bus_number UNIQUE (bus_id, seat_number),
	CONSTRAINT uq_seats_bus_position UNIQUE (bus_id, seat_row, seat_col)
);
CREATE INDEX IF NOT EXISTS idx_seats_bus_id ON seats(bus_id);
`

// Migrate creates the tables when they do not exist yet.
func Migrate(ctx context.Context, db Querier) error {
	if _, err := db.Exec(ctx, schema); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}
