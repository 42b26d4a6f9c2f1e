package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/melsoft/timegrid/internal/models"
)

func newSubjectRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestSubjectRepositoryList(t *testing.T) {
	db, mock, cleanup := newSubjectRepoMock(t)
	defer cleanup()
	repo := NewSubjectRepository(db)

	rows := sqlmock.NewRows([]string{"id", "name", "weekly_periods", "subject_type", "difficulty",
		"required_room_type", "requires_consecutive_periods", "created_at", "updated_at"}).
		AddRow("sub-1", "Mathematics", 5, "theory", "difficult", "classroom", false, time.Now(), time.Now())
	mock.ExpectQuery(regexp.QuoteMeta("SELECT")).WillReturnRows(rows)

	subjects, err := repo.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, subjects, 1)
	assert.Equal(t, models.DifficultyDifficult, subjects[0].Difficulty)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSubjectRepositoryCreateAssignsID(t *testing.T) {
	db, mock, cleanup := newSubjectRepoMock(t)
	defer cleanup()
	repo := NewSubjectRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO subjects")).
		WillReturnResult(sqlmock.NewResult(1, 1))

	subject := &models.Subject{Name: "Physical Education", WeeklyPeriods: 2}
	err := repo.Create(context.Background(), subject)
	require.NoError(t, err)
	assert.NotEmpty(t, subject.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSubjectRepositoryCompetentTeacherIDs(t *testing.T) {
	db, mock, cleanup := newSubjectRepoMock(t)
	defer cleanup()
	repo := NewSubjectRepository(db)

	rows := sqlmock.NewRows([]string{"teacher_id"}).AddRow("t-1").AddRow("t-2")
	mock.ExpectQuery(regexp.QuoteMeta("SELECT teacher_id FROM teacher_competencies WHERE subject_id = $1")).
		WithArgs("sub-1").
		WillReturnRows(rows)

	ids, err := repo.CompetentTeacherIDs(context.Background(), "sub-1")
	require.NoError(t, err)
	assert.Equal(t, []string{"t-1", "t-2"}, ids)
	assert.NoError(t, mock.ExpectationsWereMet())
}
