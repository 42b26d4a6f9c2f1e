package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/melsoft/timegrid/internal/models"
)

func newSchoolConfigRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestSchoolConfigRepositoryUpsertInsertsWhenMissing(t *testing.T) {
	db, mock, cleanup := newSchoolConfigRepoMock(t)
	defer cleanup()
	repo := NewSchoolConfigRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT")).WillReturnError(sql.ErrNoRows)
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO school_configs")).
		WillReturnResult(sqlmock.NewResult(1, 1))

	cfg := &models.SchoolConfig{DaysPerWeek: 5, LessonDurationMin: 45}
	err := repo.Upsert(context.Background(), cfg)
	require.NoError(t, err)
	assert.NotEmpty(t, cfg.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSchoolConfigRepositoryUpsertReusesExistingID(t *testing.T) {
	db, mock, cleanup := newSchoolConfigRepoMock(t)
	defer cleanup()
	repo := NewSchoolConfigRepository(db)

	rows := sqlmock.NewRows([]string{"id", "school_name", "academic_year", "days_per_week",
		"lesson_start_time", "lesson_duration_min", "periods_before_break", "break_duration_min",
		"periods_after_break", "lunch_duration_min", "created_at", "updated_at"}).
		AddRow("cfg-1", "My School", "2024-2025", 5, "08:00:00", 45, 2, 15, 2, 45, time.Now(), time.Now())
	mock.ExpectQuery(regexp.QuoteMeta("SELECT")).WillReturnRows(rows)
	mock.ExpectExec(regexp.QuoteMeta("UPDATE school_configs")).
		WillReturnResult(sqlmock.NewResult(1, 1))

	cfg := &models.SchoolConfig{DaysPerWeek: 6}
	err := repo.Upsert(context.Background(), cfg)
	require.NoError(t, err)
	assert.Equal(t, "cfg-1", cfg.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}
