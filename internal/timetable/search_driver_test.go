package timetable

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/melsoft/timegrid/internal/models"
	"github.com/melsoft/timegrid/internal/timetable/cpsat"
	appErrors "github.com/melsoft/timegrid/pkg/errors"
)

func newFixtureDriver() (*Driver, *fakeTimetableEntryStore, *fakeConflictReportStore) {
	classGroups := make(map[string]models.ClassGroup)
	for _, c := range fixtureClassGroups() {
		classGroups[c.ID] = c
	}
	entries := &fakeTimetableEntryStore{}
	reports := &fakeConflictReportStore{}
	driver := NewDriver(
		&fakeTimeSlotStore{slots: fixtureTimeSlots()},
		&fakeClassGroupStore{groups: fixtureClassGroups()},
		&fakeTeacherStore{teachers: fixtureTeachers()},
		&fakeRoomStore{rooms: fixtureRooms()},
		&fakeSubjectStore{subjects: subjectSlice(fixtureSubjects())},
		&fakeAllocationStore{allocations: fixtureAllocations()},
		entries,
		reports,
		nil,
		zap.NewNop(),
	)
	return driver, entries, reports
}

func subjectSlice(m map[string]models.Subject) []models.Subject {
	out := make([]models.Subject, 0, len(m))
	for _, s := range m {
		out = append(out, s)
	}
	return out
}

func TestDriverSolvePersistsTimetableOnSuccess(t *testing.T) {
	driver, entries, reports := newFixtureDriver()

	result, err := driver.Solve(context.Background(), 2)
	require.NoError(t, err)
	require.Contains(t, []cpsat.Status{cpsat.StatusOptimal, cpsat.StatusFeasible}, result.Status)
	assert.Equal(t, cpsat.EngineVersion, result.EngineVersion)
	assert.NotEmpty(t, entries.entries)
	assert.Empty(t, reports.reports, "a clean success leaves no conflict reports")
}

func TestDriverSolveRejectsMissingPreconditions(t *testing.T) {
	driver, _, _ := newFixtureDriver()
	driver.allocations = &fakeAllocationStore{}

	_, err := driver.Solve(context.Background(), 2)
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrPreconditionMissing.Code, appErr.Code)
}

func TestDriverSolveReportsZeroCandidateAllocations(t *testing.T) {
	driver, entries, reports := newFixtureDriver()
	driver.rooms = &fakeRoomStore{rooms: []models.Room{{ID: "room-tiny", Name: "Closet", RoomType: models.RoomTypeClassroom, Capacity: 5}}}

	result, err := driver.Solve(context.Background(), 1)
	require.NoError(t, err)
	assert.NotEmpty(t, result.ConflictReports)
	assert.NotEmpty(t, reports.reports)
	assert.Empty(t, entries.entries, "no room is large enough, so nothing could be scheduled")
}
