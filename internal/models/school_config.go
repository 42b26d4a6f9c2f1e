package models

import "time"

// SchoolConfig is the single global timetable-generation configuration row
// (spec.md §3). SchoolName/AcademicYear are display-only fields carried over
// from the Django original (models.py) — the solver never reads them.
type SchoolConfig struct {
	ID                 string    `db:"id" json:"id"`
	SchoolName         string    `db:"school_name" json:"school_name"`
	AcademicYear       string    `db:"academic_year" json:"academic_year"`
	DaysPerWeek        int       `db:"days_per_week" json:"days_per_week"`
	LessonStartTime    string    `db:"lesson_start_time" json:"lesson_start_time"`
	LessonDurationMin  int       `db:"lesson_duration_min" json:"lesson_duration_min"`
	PeriodsBeforeBreak int       `db:"periods_before_break" json:"periods_before_break"`
	BreakDurationMin   int       `db:"break_duration_min" json:"break_duration_min"`
	PeriodsAfterBreak  int       `db:"periods_after_break" json:"periods_after_break"`
	LunchDurationMin   int       `db:"lunch_duration_min" json:"lunch_duration_min"`
	CreatedAt          time.Time `db:"created_at" json:"created_at"`
	UpdatedAt          time.Time `db:"updated_at" json:"updated_at"`
}
