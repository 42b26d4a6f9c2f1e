package models

import (
	"time"

	"github.com/jmoiron/sqlx/types"
)

// Teacher is an instructor with subject competencies and a weekly
// availability grid (spec.md §3).
type Teacher struct {
	ID             string         `db:"id" json:"id"`
	Name           string         `db:"name" json:"name"`
	Email          string         `db:"email" json:"email"`
	MaxPeriodsWeek int            `db:"max_periods_week" json:"max_periods_week"`
	Availability   types.JSONText `db:"availability" json:"availability"`
	CreatedAt      time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time      `db:"updated_at" json:"updated_at"`
}

// AvailabilityMap parses the stored JSON once into the typed lookup table.
func (t Teacher) AvailabilityMap() Availability {
	return ParseAvailability(t.Availability)
}

// IsAvailable applies the permissive lookup rule of spec.md §4.1: missing
// day/period or a non-boolean value defaults to true.
func (t Teacher) IsAvailable(day, period int) bool {
	return t.AvailabilityMap().IsAvailable(day, period)
}

// TeacherCompetency links a Teacher to a Subject they are qualified to teach.
type TeacherCompetency struct {
	TeacherID string `db:"teacher_id" json:"teacher_id"`
	SubjectID string `db:"subject_id" json:"subject_id"`
}
