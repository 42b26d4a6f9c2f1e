package models

import (
	"time"

	"github.com/jmoiron/sqlx/types"
)

// ConflictSeverity classifies a ConflictReport entry (spec.md §4.5).
type ConflictSeverity string

const (
	SeverityError   ConflictSeverity = "error"
	SeverityWarning ConflictSeverity = "warning"
	SeverityInfo    ConflictSeverity = "info"
)

// ConflictReport records one constraint violation or diagnostic surfaced
// when the Search Driver cannot produce a feasible timetable, or when
// enumeration or model building flags a structural problem (spec.md §4.5).
// Ordering of a listed batch follows the original's "-generated_at,
// severity" rule (most recent run first, then severity in alphabetical
// order within a run: error, info, warning).
type ConflictReport struct {
	ID          string           `db:"id" json:"id"`
	GeneratedAt time.Time        `db:"generated_at" json:"generated_at"`
	Severity    ConflictSeverity `db:"severity" json:"severity"`
	Message     string           `db:"message" json:"message"`
	Details     types.JSONText   `db:"details" json:"details"`
}
