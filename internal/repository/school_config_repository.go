package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/melsoft/timegrid/internal/models"
)

// SchoolConfigRepository persists the single global timetable-generation
// configuration row.
type SchoolConfigRepository struct {
	db *sqlx.DB
}

// NewSchoolConfigRepository constructs a SchoolConfigRepository.
func NewSchoolConfigRepository(db *sqlx.DB) *SchoolConfigRepository {
	return &SchoolConfigRepository{db: db}
}

const schoolConfigColumns = `id, school_name, academic_year, days_per_week, lesson_start_time,
	lesson_duration_min, periods_before_break, break_duration_min, periods_after_break,
	lunch_duration_min, created_at, updated_at`

// Get loads the configuration row. There is exactly one; callers that find
// none should fall through to spec.md's ErrPreconditionMissing.
func (r *SchoolConfigRepository) Get(ctx context.Context) (*models.SchoolConfig, error) {
	query := `SELECT ` + schoolConfigColumns + ` FROM school_configs LIMIT 1`
	var cfg models.SchoolConfig
	if err := r.db.GetContext(ctx, &cfg, query); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Upsert writes the configuration row, reusing the existing row's ID if one
// exists rather than pinning a process-level singleton (the Django original's
// `save()` override is explicitly not carried over; see DESIGN.md).
func (r *SchoolConfigRepository) Upsert(ctx context.Context, cfg *models.SchoolConfig) error {
	existing, err := r.Get(ctx)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("load existing school config: %w", err)
	}
	now := time.Now().UTC()
	if existing != nil {
		cfg.ID = existing.ID
		cfg.CreatedAt = existing.CreatedAt
		cfg.UpdatedAt = now
		const query = `UPDATE school_configs SET school_name = :school_name, academic_year = :academic_year,
			days_per_week = :days_per_week, lesson_start_time = :lesson_start_time,
			lesson_duration_min = :lesson_duration_min, periods_before_break = :periods_before_break,
			break_duration_min = :break_duration_min, periods_after_break = :periods_after_break,
			lunch_duration_min = :lunch_duration_min, updated_at = :updated_at WHERE id = :id`
		if _, err := r.db.NamedExecContext(ctx, query, cfg); err != nil {
			return fmt.Errorf("update school config: %w", err)
		}
		return nil
	}

	if cfg.ID == "" {
		cfg.ID = uuid.NewString()
	}
	cfg.CreatedAt = now
	cfg.UpdatedAt = now
	const query = `INSERT INTO school_configs (` + schoolConfigColumns + `)
		VALUES (:id, :school_name, :academic_year, :days_per_week, :lesson_start_time,
			:lesson_duration_min, :periods_before_break, :break_duration_min, :periods_after_break,
			:lunch_duration_min, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, cfg); err != nil {
		return fmt.Errorf("insert school config: %w", err)
	}
	return nil
}
