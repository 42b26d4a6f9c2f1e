package models

import "time"

// ClassGroup is a class or section that needs a timetable (spec.md §3).
type ClassGroup struct {
	ID           string    `db:"id" json:"id"`
	Name         string    `db:"name" json:"name"`
	StudentCount int       `db:"student_count" json:"student_count"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// RequiredSubject links a ClassGroup to one of the subjects it must be
// scheduled for.
type RequiredSubject struct {
	ClassGroupID string `db:"class_group_id" json:"class_group_id"`
	SubjectID    string `db:"subject_id" json:"subject_id"`
}
