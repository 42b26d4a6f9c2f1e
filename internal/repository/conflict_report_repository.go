package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/melsoft/timegrid/internal/models"
)

// ConflictReportRepository persists solver diagnostics.
type ConflictReportRepository struct {
	db *sqlx.DB
}

// NewConflictReportRepository constructs the repository.
func NewConflictReportRepository(db *sqlx.DB) *ConflictReportRepository {
	return &ConflictReportRepository{db: db}
}

const conflictReportColumns = `id, generated_at, severity, message, details`

// List returns conflict reports ordered newest-run-first, then by severity
// in alphabetical order within a run: error, info, warning (original_source/models.py
// `Meta.ordering = ['-generated_at', 'severity']`).
func (r *ConflictReportRepository) List(ctx context.Context) ([]models.ConflictReport, error) {
	query := `SELECT ` + conflictReportColumns + ` FROM conflict_reports ORDER BY generated_at DESC, severity ASC`
	var reports []models.ConflictReport
	if err := r.db.SelectContext(ctx, &reports, query); err != nil {
		return nil, fmt.Errorf("list conflict reports: %w", err)
	}
	return reports, nil
}

// Replace persists a fresh batch of conflict reports, replacing whatever was
// recorded by the previous solve. This runs in its own transaction, separate
// from the TimetableEntry write (spec.md §5: "ConflictReport persistence is
// also atomic, in a separate transaction from the TimetableEntry writes").
func (r *ConflictReportRepository) Replace(ctx context.Context, reports []models.ConflictReport) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin replace conflict reports: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, `DELETE FROM conflict_reports`); err != nil {
		return fmt.Errorf("clear conflict reports: %w", err)
	}

	for i := range reports {
		if reports[i].ID == "" {
			reports[i].ID = uuid.NewString()
		}
		const insertQuery = `INSERT INTO conflict_reports (` + conflictReportColumns + `)
			VALUES (:id, :generated_at, :severity, :message, :details)`
		if _, err = tx.NamedExecContext(ctx, insertQuery, &reports[i]); err != nil {
			return fmt.Errorf("insert conflict report: %w", err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit replace conflict reports: %w", err)
	}
	return nil
}
