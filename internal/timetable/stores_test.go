package timetable

import (
	"context"

	"github.com/melsoft/timegrid/internal/models"
)

// In-memory fakes for the narrow store interfaces, used across this
// package's tests instead of a database fixture.

type fakeTimeSlotStore struct{ slots []models.TimeSlot }

func (f *fakeTimeSlotStore) List(ctx context.Context) ([]models.TimeSlot, error) { return f.slots, nil }
func (f *fakeTimeSlotStore) ReplaceAll(ctx context.Context, slots []models.TimeSlot) error {
	f.slots = slots
	return nil
}

type fakeClassGroupStore struct{ groups []models.ClassGroup }

func (f *fakeClassGroupStore) List(ctx context.Context) ([]models.ClassGroup, error) {
	return f.groups, nil
}

type fakeTeacherStore struct{ teachers []models.Teacher }

func (f *fakeTeacherStore) List(ctx context.Context) ([]models.Teacher, error) {
	return f.teachers, nil
}

type fakeRoomStore struct{ rooms []models.Room }

func (f *fakeRoomStore) List(ctx context.Context) ([]models.Room, error) { return f.rooms, nil }
func (f *fakeRoomStore) ListByType(ctx context.Context, roomType models.RoomType) ([]models.Room, error) {
	var out []models.Room
	for _, r := range f.rooms {
		if r.RoomType == roomType {
			out = append(out, r)
		}
	}
	return out, nil
}

type fakeSubjectStore struct{ subjects []models.Subject }

func (f *fakeSubjectStore) List(ctx context.Context) ([]models.Subject, error) {
	return f.subjects, nil
}

type fakeAllocationStore struct{ allocations []models.Allocation }

func (f *fakeAllocationStore) List(ctx context.Context) ([]models.Allocation, error) {
	return f.allocations, nil
}

type fakeTimetableEntryStore struct {
	entries []models.TimetableEntry
}

func (f *fakeTimetableEntryStore) List(ctx context.Context) ([]models.TimetableEntry, error) {
	return f.entries, nil
}

func (f *fakeTimetableEntryStore) ListLocked(ctx context.Context) ([]models.TimetableEntry, error) {
	var out []models.TimetableEntry
	for _, e := range f.entries {
		if e.IsLocked {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeTimetableEntryStore) FindByID(ctx context.Context, id string) (*models.TimetableEntry, error) {
	for _, e := range f.entries {
		if e.ID == id {
			copied := e
			return &copied, nil
		}
	}
	return nil, nil
}

func (f *fakeTimetableEntryStore) ReplaceNonLocked(ctx context.Context, entries []models.TimetableEntry) error {
	var locked []models.TimetableEntry
	for _, e := range f.entries {
		if e.IsLocked {
			locked = append(locked, e)
		}
	}
	f.entries = append(locked, entries...)
	return nil
}

func (f *fakeTimetableEntryStore) UpdateSlotAndRoom(ctx context.Context, id, newSlotID, newRoomID string) error {
	for i, e := range f.entries {
		if e.ID == id {
			f.entries[i].TimeSlotID = newSlotID
			f.entries[i].RoomID = newRoomID
			return nil
		}
	}
	return nil
}

type fakeConflictReportStore struct{ reports []models.ConflictReport }

func (f *fakeConflictReportStore) Replace(ctx context.Context, reports []models.ConflictReport) error {
	f.reports = reports
	return nil
}

type fakeSchoolConfigStore struct{ config models.SchoolConfig }

func (f *fakeSchoolConfigStore) Get(ctx context.Context) (*models.SchoolConfig, error) {
	cfg := f.config
	return &cfg, nil
}

type fakeRequiredSubjectStore struct {
	byClassGroup map[string][]string
}

func (f *fakeRequiredSubjectStore) ListByClassGroup(ctx context.Context, classGroupID string) ([]models.RequiredSubject, error) {
	out := make([]models.RequiredSubject, 0, len(f.byClassGroup[classGroupID]))
	for _, subjectID := range f.byClassGroup[classGroupID] {
		out = append(out, models.RequiredSubject{ClassGroupID: classGroupID, SubjectID: subjectID})
	}
	return out, nil
}

