package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/melsoft/timegrid/internal/models"
)

// TimeSlotRepository manages persistence for the weekly time-slot grid.
type TimeSlotRepository struct {
	db *sqlx.DB
}

// NewTimeSlotRepository constructs a TimeSlotRepository.
func NewTimeSlotRepository(db *sqlx.DB) *TimeSlotRepository {
	return &TimeSlotRepository{db: db}
}

const timeSlotColumns = `id, day_index, period_index, start_time, end_time, created_at`

// List returns every time slot, ordered by day then period as in the
// original model.
func (r *TimeSlotRepository) List(ctx context.Context) ([]models.TimeSlot, error) {
	query := `SELECT ` + timeSlotColumns + ` FROM time_slots ORDER BY day_index, period_index`
	var slots []models.TimeSlot
	if err := r.db.SelectContext(ctx, &slots, query); err != nil {
		return nil, fmt.Errorf("list time slots: %w", err)
	}
	return slots, nil
}

// Count returns how many time slots currently exist. The generate flow does
// not call it; Search Driver rejects a solve with no slots as a missing
// precondition instead of running Generate Slots first.
func (r *TimeSlotRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM time_slots`); err != nil {
		return 0, fmt.Errorf("count time slots: %w", err)
	}
	return count, nil
}

// ReplaceAll clears the slot grid and inserts the generated replacement
// within one transaction, matching the clear-then-insert pattern used
// elsewhere in this repository package for whole-table replacements.
func (r *TimeSlotRepository) ReplaceAll(ctx context.Context, slots []models.TimeSlot) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin replace time slots: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, `DELETE FROM time_slots`); err != nil {
		return fmt.Errorf("clear existing time slots: %w", err)
	}

	for i := range slots {
		if slots[i].ID == "" {
			slots[i].ID = uuid.NewString()
		}
		const insertQuery = `INSERT INTO time_slots (id, day_index, period_index, start_time, end_time, created_at)
			VALUES (:id, :day_index, :period_index, :start_time, :end_time, :created_at)`
		if _, err = tx.NamedExecContext(ctx, insertQuery, &slots[i]); err != nil {
			return fmt.Errorf("insert time slot: %w", err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit replace time slots: %w", err)
	}
	return nil
}
