package models

import (
	"time"

	"github.com/jmoiron/sqlx/types"
)

// Room is a physical room with a capacity, a type, and its own weekly
// availability grid (spec.md §3).
type Room struct {
	ID           string         `db:"id" json:"id"`
	Name         string         `db:"name" json:"name"`
	RoomType     RoomType       `db:"room_type" json:"room_type"`
	Capacity     int            `db:"capacity" json:"capacity"`
	Availability types.JSONText `db:"availability" json:"availability"`
	CreatedAt    time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time      `db:"updated_at" json:"updated_at"`
}

// AvailabilityMap parses the stored JSON once into the typed lookup table.
func (r Room) AvailabilityMap() Availability {
	return ParseAvailability(r.Availability)
}

// IsAvailable applies the same permissive lookup rule as Teacher.IsAvailable
// (spec.md §4.1): missing day/period or a non-boolean value defaults to true.
func (r Room) IsAvailable(day, period int) bool {
	return r.AvailabilityMap().IsAvailable(day, period)
}
