package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/melsoft/timegrid/internal/models"
)

// TimetableEntryRepository manages persistence of scheduled lessons.
type TimetableEntryRepository struct {
	db *sqlx.DB
}

// NewTimetableEntryRepository constructs the repository.
func NewTimetableEntryRepository(db *sqlx.DB) *TimetableEntryRepository {
	return &TimetableEntryRepository{db: db}
}

const timetableEntryColumns = `id, allocation_id, class_group_id, subject_id, teacher_id, room_id,
	timeslot_id, is_locked, created_at, updated_at`

// List returns every timetable entry, locked and unlocked alike.
func (r *TimetableEntryRepository) List(ctx context.Context) ([]models.TimetableEntry, error) {
	query := `SELECT ` + timetableEntryColumns + ` FROM timetable_entries ORDER BY timeslot_id`
	var entries []models.TimetableEntry
	if err := r.db.SelectContext(ctx, &entries, query); err != nil {
		return nil, fmt.Errorf("list timetable entries: %w", err)
	}
	return entries, nil
}

// ListLocked returns only locked entries, the fixed part of the schedule the
// solver must preserve (spec.md §3, §4.3).
func (r *TimetableEntryRepository) ListLocked(ctx context.Context) ([]models.TimetableEntry, error) {
	query := `SELECT ` + timetableEntryColumns + ` FROM timetable_entries WHERE is_locked = TRUE`
	var entries []models.TimetableEntry
	if err := r.db.SelectContext(ctx, &entries, query); err != nil {
		return nil, fmt.Errorf("list locked timetable entries: %w", err)
	}
	return entries, nil
}

// FindByID returns a single timetable entry.
func (r *TimetableEntryRepository) FindByID(ctx context.Context, id string) (*models.TimetableEntry, error) {
	query := `SELECT ` + timetableEntryColumns + ` FROM timetable_entries WHERE id = $1`
	var entry models.TimetableEntry
	if err := r.db.GetContext(ctx, &entry, query, id); err != nil {
		return nil, err
	}
	return &entry, nil
}

// ReplaceNonLocked deletes every non-locked entry and inserts the solver's
// extracted tuples in a single transaction, leaving locked rows untouched
// (spec.md §4.4, §5: "Delete all non-locked TimetableEntry rows. Insert one
// row per extracted tuple... Locked entries remain untouched").
func (r *TimetableEntryRepository) ReplaceNonLocked(ctx context.Context, entries []models.TimetableEntry) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin replace timetable entries: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, `DELETE FROM timetable_entries WHERE is_locked = FALSE`); err != nil {
		return fmt.Errorf("clear non-locked timetable entries: %w", err)
	}

	for i := range entries {
		if entries[i].ID == "" {
			entries[i].ID = uuid.NewString()
		}
		entries[i].IsLocked = false
		const insertQuery = `INSERT INTO timetable_entries (` + timetableEntryColumns + `)
			VALUES (:id, :allocation_id, :class_group_id, :subject_id, :teacher_id, :room_id,
				:timeslot_id, :is_locked, :created_at, :updated_at)`
		if _, err = tx.NamedExecContext(ctx, insertQuery, &entries[i]); err != nil {
			return fmt.Errorf("insert timetable entry: %w", err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit replace timetable entries: %w", err)
	}
	return nil
}

// UpdateSlotAndRoom moves a single entry to a new time slot and room
// (spec.md §4.7). The manual edit validator never writes and does not call
// it; no service in this module calls it either.
func (r *TimetableEntryRepository) UpdateSlotAndRoom(ctx context.Context, id, newSlotID, newRoomID string) error {
	const query = `UPDATE timetable_entries SET timeslot_id = $1, room_id = $2, updated_at = now() WHERE id = $3`
	if _, err := r.db.ExecContext(ctx, query, newSlotID, newRoomID, id); err != nil {
		return fmt.Errorf("update timetable entry slot: %w", err)
	}
	return nil
}
