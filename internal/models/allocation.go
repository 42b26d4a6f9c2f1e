package models

import "time"

// Allocation assigns a teacher to teach a subject for a class group; the
// enumerator treats one Allocation as needing `Subject.WeeklyPeriods`
// placements across the week (spec.md §3, §4.2).
type Allocation struct {
	ID           string    `db:"id" json:"id"`
	ClassGroupID string    `db:"class_group_id" json:"class_group_id"`
	SubjectID    string    `db:"subject_id" json:"subject_id"`
	TeacherID    string    `db:"teacher_id" json:"teacher_id"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}
