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

func newClassGroupRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestClassGroupRepositoryList(t *testing.T) {
	db, mock, cleanup := newClassGroupRepoMock(t)
	defer cleanup()
	repo := NewClassGroupRepository(db)

	rows := sqlmock.NewRows([]string{"id", "name", "student_count", "created_at", "updated_at"}).
		AddRow("cg-1", "Grade 10A", 30, time.Now(), time.Now())
	mock.ExpectQuery(regexp.QuoteMeta("SELECT")).WillReturnRows(rows)

	groups, err := repo.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, groups, 1)
	assert.Equal(t, "Grade 10A", groups[0].Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestClassGroupRepositoryCreateAssignsID(t *testing.T) {
	db, mock, cleanup := newClassGroupRepoMock(t)
	defer cleanup()
	repo := NewClassGroupRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO class_groups")).
		WillReturnResult(sqlmock.NewResult(1, 1))

	group := &models.ClassGroup{Name: "Grade 11B", StudentCount: 28}
	err := repo.Create(context.Background(), group)
	require.NoError(t, err)
	assert.NotEmpty(t, group.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}
