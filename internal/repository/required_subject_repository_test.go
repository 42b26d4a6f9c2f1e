package repository

import (
	"context"
	"regexp"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRequiredSubjectRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestRequiredSubjectRepositoryListByClassGroup(t *testing.T) {
	db, mock, cleanup := newRequiredSubjectRepoMock(t)
	defer cleanup()
	repo := NewRequiredSubjectRepository(db)

	rows := sqlmock.NewRows([]string{"class_group_id", "subject_id"}).
		AddRow("cg-1", "sub-1").
		AddRow("cg-1", "sub-2")
	mock.ExpectQuery(regexp.QuoteMeta("SELECT class_group_id, subject_id FROM required_subjects WHERE class_group_id = $1")).
		WithArgs("cg-1").
		WillReturnRows(rows)

	required, err := repo.ListByClassGroup(context.Background(), "cg-1")
	require.NoError(t, err)
	assert.Len(t, required, 2)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRequiredSubjectRepositoryReplaceForClassGroup(t *testing.T) {
	db, mock, cleanup := newRequiredSubjectRepoMock(t)
	defer cleanup()
	repo := NewRequiredSubjectRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM required_subjects WHERE class_group_id = $1")).
		WithArgs("cg-1").
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO required_subjects")).
		WithArgs("cg-1", "sub-1").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	err := repo.ReplaceForClassGroup(context.Background(), "cg-1", []string{"sub-1"})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
