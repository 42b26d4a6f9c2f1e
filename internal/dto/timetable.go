package dto

// GenerateRequest is the payload for POST /timetable/generate (spec.md
// §4.4's generate(time_limit_seconds)). TimeLimitSeconds of zero defers to
// the Search Driver's own default.
type GenerateRequest struct {
	TimeLimitSeconds int `json:"timeLimitSeconds" validate:"omitempty,min=1,max=3600"`
}

// ValidateMoveRequest is the payload for POST
// /timetable/entries/:id/validate-move (spec.md §4.7). NewRoomID is
// optional; an empty value keeps the entry's current room.
type ValidateMoveRequest struct {
	NewSlotID string `json:"newSlotId" validate:"required"`
	NewRoomID string `json:"newRoomId" validate:"omitempty"`
}

// ValidateMoveResponse reports the violations, if any, a proposed move would
// introduce. An empty Violations slice means the move is safe to commit.
type ValidateMoveResponse struct {
	Violations []string `json:"violations"`
}

// GenerateResponse summarises one generate() attempt.
type GenerateResponse struct {
	Status          string              `json:"status"`
	EngineVersion   string              `json:"engineVersion"`
	ConflictReports []ConflictReportDTO `json:"conflictReports,omitempty"`
}

// ConflictReportDTO is the wire representation of a models.ConflictReport.
type ConflictReportDTO struct {
	ID          string `json:"id,omitempty"`
	GeneratedAt string `json:"generatedAt"`
	Severity    string `json:"severity"`
	Message     string `json:"message"`
}
