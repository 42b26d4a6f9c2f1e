package models

import "time"

// TimetableEntry is one scheduled lesson: an allocation placed into a time
// slot and room (spec.md §3). Locked entries are held fixed by the search
// driver and skipped on replacement (spec.md §4.4, §5).
type TimetableEntry struct {
	ID           string    `db:"id" json:"id"`
	AllocationID string    `db:"allocation_id" json:"allocation_id"`
	ClassGroupID string    `db:"class_group_id" json:"class_group_id"`
	SubjectID    string    `db:"subject_id" json:"subject_id"`
	TeacherID    string    `db:"teacher_id" json:"teacher_id"`
	RoomID       string    `db:"room_id" json:"room_id"`
	TimeSlotID   string    `db:"timeslot_id" json:"timeslot_id"`
	IsLocked     bool      `db:"is_locked" json:"is_locked"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}
