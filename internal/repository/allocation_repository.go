package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/melsoft/timegrid/internal/models"
)

// AllocationRepository persists teacher-subject-class allocations, the
// demand side the candidate enumerator expands into placement tuples.
type AllocationRepository struct {
	db *sqlx.DB
}

// NewAllocationRepository constructs the repository.
func NewAllocationRepository(db *sqlx.DB) *AllocationRepository {
	return &AllocationRepository{db: db}
}

// List returns every allocation.
func (r *AllocationRepository) List(ctx context.Context) ([]models.Allocation, error) {
	const query = `SELECT id, class_group_id, subject_id, teacher_id, created_at FROM allocations`
	var allocations []models.Allocation
	if err := r.db.SelectContext(ctx, &allocations, query); err != nil {
		return nil, fmt.Errorf("list allocations: %w", err)
	}
	return allocations, nil
}

// Exists checks if the class-group/subject/teacher tuple already exists.
func (r *AllocationRepository) Exists(ctx context.Context, classGroupID, subjectID, teacherID string) (bool, error) {
	const query = `SELECT 1 FROM allocations WHERE class_group_id = $1 AND subject_id = $2 AND teacher_id = $3 LIMIT 1`
	var exists int
	if err := r.db.GetContext(ctx, &exists, query, classGroupID, subjectID, teacherID); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check allocation: %w", err)
	}
	return true, nil
}

// Create inserts a new allocation.
func (r *AllocationRepository) Create(ctx context.Context, allocation *models.Allocation) error {
	if allocation.ID == "" {
		allocation.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if allocation.CreatedAt.IsZero() {
		allocation.CreatedAt = now
	}
	const query = `INSERT INTO allocations (id, class_group_id, subject_id, teacher_id, created_at)
		VALUES (:id, :class_group_id, :subject_id, :teacher_id, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, allocation); err != nil {
		return fmt.Errorf("create allocation: %w", err)
	}
	return nil
}

// Delete removes an allocation.
func (r *AllocationRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM allocations WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete allocation: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("check deleted allocation rows: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
