package models

import "time"

// SubjectType distinguishes theory from practical subjects (spec.md §3).
type SubjectType string

const (
	SubjectTypeTheory    SubjectType = "theory"
	SubjectTypePractical SubjectType = "practical"
)

// SubjectDifficulty drives the early-bias soft term (spec.md §4.3).
type SubjectDifficulty string

const (
	DifficultyEasy      SubjectDifficulty = "easy"
	DifficultyFair      SubjectDifficulty = "fair"
	DifficultyDifficult SubjectDifficulty = "difficult"
)

// RoomType is the closed room-type enumeration shared by Subject.RequiredRoomType
// and Room.RoomType (spec.md §3, §4.1).
type RoomType string

const (
	RoomTypeClassroom   RoomType = "classroom"
	RoomTypeLab         RoomType = "lab"
	RoomTypeComputerLab RoomType = "computer_lab"
	RoomTypeGym         RoomType = "gym"
	RoomTypeArtRoom     RoomType = "art_room"
	RoomTypeMusicRoom   RoomType = "music_room"
)

// Subject is an academic subject with scheduling metadata.
type Subject struct {
	ID                         string            `db:"id" json:"id"`
	Name                       string            `db:"name" json:"name"`
	WeeklyPeriods              int               `db:"weekly_periods" json:"weekly_periods"`
	Type                       SubjectType       `db:"subject_type" json:"subject_type"`
	Difficulty                 SubjectDifficulty `db:"difficulty" json:"difficulty"`
	RequiredRoomType           RoomType          `db:"required_room_type" json:"required_room_type"`
	RequiresConsecutivePeriods bool              `db:"requires_consecutive_periods" json:"requires_consecutive_periods"`
	CreatedAt                  time.Time         `db:"created_at" json:"created_at"`
	UpdatedAt                  time.Time         `db:"updated_at" json:"updated_at"`
}
