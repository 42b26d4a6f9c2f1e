package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/melsoft/timegrid/internal/models"
)

// RequiredSubjectRepository manages the class-group to subject mapping that
// the conflict reporter reads to know which subjects a class group needs.
type RequiredSubjectRepository struct {
	db *sqlx.DB
}

// NewRequiredSubjectRepository creates a new repository.
func NewRequiredSubjectRepository(db *sqlx.DB) *RequiredSubjectRepository {
	return &RequiredSubjectRepository{db: db}
}

// ListByClassGroup returns the subject IDs required by a class group.
func (r *RequiredSubjectRepository) ListByClassGroup(ctx context.Context, classGroupID string) ([]models.RequiredSubject, error) {
	const query = `SELECT class_group_id, subject_id FROM required_subjects WHERE class_group_id = $1`
	var required []models.RequiredSubject
	if err := r.db.SelectContext(ctx, &required, query, classGroupID); err != nil {
		return nil, fmt.Errorf("list required subjects: %w", err)
	}
	return required, nil
}

// ReplaceForClassGroup replaces the required-subject mapping for a class
// group within a transaction, following the same clear-then-insert pattern
// the teacher uses for class-subject assignments.
func (r *RequiredSubjectRepository) ReplaceForClassGroup(ctx context.Context, classGroupID string, subjectIDs []string) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin replace required subjects: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, `DELETE FROM required_subjects WHERE class_group_id = $1`, classGroupID); err != nil {
		return fmt.Errorf("clear existing required subjects: %w", err)
	}

	for _, subjectID := range subjectIDs {
		if _, err = tx.ExecContext(ctx, `INSERT INTO required_subjects (class_group_id, subject_id) VALUES ($1, $2)`, classGroupID, subjectID); err != nil {
			return fmt.Errorf("insert required subject: %w", err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit replace required subjects: %w", err)
	}
	return nil
}
