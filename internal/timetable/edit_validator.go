package timetable

import (
	"context"
	"fmt"

	"github.com/melsoft/timegrid/internal/models"
	appErrors "github.com/melsoft/timegrid/pkg/errors"
)

// MoveRequest is the input to ValidateMove (spec.md §4.7): an existing
// TimetableEntry plus a proposed new slot and, optionally, a new room.
type MoveRequest struct {
	EntryID   string
	NewSlotID string
	NewRoomID string // empty means "keep the entry's current room"
}

// EditValidator implements spec.md §4.7: it re-runs the H2-H4 uniqueness
// checks (excluding the entry being moved) plus availability, capacity, and
// room-type checks, and never writes on its own.
type EditValidator struct {
	entries     TimetableEntryStore
	teachers    TeacherStore
	rooms       RoomStore
	classGroups ClassGroupStore
	subjects    SubjectStore
	timeSlots   TimeSlotStore
}

// NewEditValidator constructs an EditValidator.
func NewEditValidator(
	entries TimetableEntryStore,
	teachers TeacherStore,
	rooms RoomStore,
	classGroups ClassGroupStore,
	subjects SubjectStore,
	timeSlots TimeSlotStore,
) *EditValidator {
	return &EditValidator{
		entries:     entries,
		teachers:    teachers,
		rooms:       rooms,
		classGroups: classGroups,
		subjects:    subjects,
		timeSlots:   timeSlots,
	}
}

// Validate runs every check of spec.md §4.7 and returns the human-readable
// violations found, or an empty slice if the move is ok. The caller commits
// the change (via update_timetable_entry) only when the returned slice is
// empty.
func (v *EditValidator) Validate(ctx context.Context, req MoveRequest) ([]string, error) {
	entry, err := v.entries.FindByID(ctx, req.EntryID)
	if err != nil {
		return nil, appErrors.Wrap(err, "STORAGE_ERROR", 500, "failed to load timetable entry")
	}
	if entry == nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("timetable entry %s not found", req.EntryID))
	}

	roomID := req.NewRoomID
	if roomID == "" {
		roomID = entry.RoomID
	}

	slots, err := v.timeSlots.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, "STORAGE_ERROR", 500, "failed to load timeslots")
	}
	slot, ok := findSlot(slots, req.NewSlotID)
	if !ok {
		return []string{fmt.Sprintf("timeslot %s does not exist", req.NewSlotID)}, nil
	}

	rooms, err := v.rooms.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, "STORAGE_ERROR", 500, "failed to load rooms")
	}
	room, ok := findRoom(rooms, roomID)
	if !ok {
		return []string{fmt.Sprintf("room %s does not exist", roomID)}, nil
	}

	teachers, err := v.teachers.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, "STORAGE_ERROR", 500, "failed to load teachers")
	}
	teacher, ok := findTeacher(teachers, entry.TeacherID)
	if !ok {
		return []string{fmt.Sprintf("teacher %s does not exist", entry.TeacherID)}, nil
	}

	classGroups, err := v.classGroups.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, "STORAGE_ERROR", 500, "failed to load class groups")
	}
	class, ok := findClassGroup(classGroups, entry.ClassGroupID)
	if !ok {
		return []string{fmt.Sprintf("class group %s does not exist", entry.ClassGroupID)}, nil
	}

	subjects, err := v.subjects.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, "STORAGE_ERROR", 500, "failed to load subjects")
	}
	subject, ok := findSubject(subjects, entry.SubjectID)
	if !ok {
		return []string{fmt.Sprintf("subject %s does not exist", entry.SubjectID)}, nil
	}

	all, err := v.entries.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, "STORAGE_ERROR", 500, "failed to load timetable entries")
	}

	var violations []string
	for _, other := range all {
		if other.ID == entry.ID || other.TimeSlotID != slot.ID {
			continue
		}
		if other.TeacherID == entry.TeacherID {
			violations = append(violations, fmt.Sprintf("teacher %s is already scheduled at %s P%d", teacher.Name, slot.ID, slot.PeriodIndex))
		}
		if other.ClassGroupID == entry.ClassGroupID {
			violations = append(violations, fmt.Sprintf("class group %s is already scheduled at %s P%d", class.Name, slot.ID, slot.PeriodIndex))
		}
		if other.RoomID == roomID {
			violations = append(violations, fmt.Sprintf("room %s is already booked at %s P%d", room.Name, slot.ID, slot.PeriodIndex))
		}
	}

	if !teacher.IsAvailable(slot.DayIndex, slot.PeriodIndex) {
		violations = append(violations, fmt.Sprintf("teacher %s is not available on %s period %d", teacher.Name, models.DayIndex(slot.DayIndex), slot.PeriodIndex))
	}
	if !room.IsAvailable(slot.DayIndex, slot.PeriodIndex) {
		violations = append(violations, fmt.Sprintf("room %s is not available on %s period %d", room.Name, models.DayIndex(slot.DayIndex), slot.PeriodIndex))
	}
	if room.Capacity < class.StudentCount {
		violations = append(violations, fmt.Sprintf("room %s capacity %d is below class group %s size %d", room.Name, room.Capacity, class.Name, class.StudentCount))
	}
	if room.RoomType != subject.RequiredRoomType {
		violations = append(violations, fmt.Sprintf("room %s is type %q but subject %s requires %q", room.Name, room.RoomType, subject.Name, subject.RequiredRoomType))
	}

	return violations, nil
}

func findSlot(slots []models.TimeSlot, id string) (models.TimeSlot, bool) {
	for _, s := range slots {
		if s.ID == id {
			return s, true
		}
	}
	return models.TimeSlot{}, false
}

func findRoom(rooms []models.Room, id string) (models.Room, bool) {
	for _, r := range rooms {
		if r.ID == id {
			return r, true
		}
	}
	return models.Room{}, false
}

func findTeacher(teachers []models.Teacher, id string) (models.Teacher, bool) {
	for _, t := range teachers {
		if t.ID == id {
			return t, true
		}
	}
	return models.Teacher{}, false
}

func findClassGroup(classGroups []models.ClassGroup, id string) (models.ClassGroup, bool) {
	for _, c := range classGroups {
		if c.ID == id {
			return c, true
		}
	}
	return models.ClassGroup{}, false
}

func findSubject(subjects []models.Subject, id string) (models.Subject, bool) {
	for _, s := range subjects {
		if s.ID == id {
			return s, true
		}
	}
	return models.Subject{}, false
}
