package repository

import (
	"context"
	"regexp"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/melsoft/timegrid/internal/models"
)

func newTimetableEntryRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestTimetableEntryRepositoryListLocked(t *testing.T) {
	db, mock, cleanup := newTimetableEntryRepoMock(t)
	defer cleanup()
	repo := NewTimetableEntryRepository(db)

	rows := sqlmock.NewRows([]string{"id", "allocation_id", "class_group_id", "subject_id", "teacher_id",
		"room_id", "timeslot_id", "is_locked", "created_at", "updated_at"})
	mock.ExpectQuery(regexp.QuoteMeta("SELECT")).WillReturnRows(rows)

	entries, err := repo.ListLocked(context.Background())
	require.NoError(t, err)
	assert.Empty(t, entries)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTimetableEntryRepositoryReplaceNonLocked(t *testing.T) {
	db, mock, cleanup := newTimetableEntryRepoMock(t)
	defer cleanup()
	repo := NewTimetableEntryRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM timetable_entries WHERE is_locked = FALSE")).
		WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO timetable_entries")).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	entries := []models.TimetableEntry{{
		AllocationID: "alloc-1", ClassGroupID: "cg-1", SubjectID: "sub-1",
		TeacherID: "t-1", RoomID: "room-1", TimeSlotID: "slot-1",
	}}
	err := repo.ReplaceNonLocked(context.Background(), entries)
	require.NoError(t, err)
	assert.False(t, entries[0].IsLocked)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTimetableEntryRepositoryUpdateSlotAndRoom(t *testing.T) {
	db, mock, cleanup := newTimetableEntryRepoMock(t)
	defer cleanup()
	repo := NewTimetableEntryRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE timetable_entries SET timeslot_id = $1, room_id = $2, updated_at = now() WHERE id = $3")).
		WithArgs("slot-2", "room-2", "entry-1").
		WillReturnResult(sqlmock.NewResult(1, 1))

	err := repo.UpdateSlotAndRoom(context.Background(), "entry-1", "slot-2", "room-2")
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
