package timetable

import (
	"context"

	"github.com/melsoft/timegrid/internal/models"
)

// The Search Driver and Manual Edit Validator depend on narrow, per-entity
// interfaces rather than a single repository facade, in the style of the
// source's schedule_generator_service.go (schedulerClassReader,
// teacherAssignmentFetcher, and friends). Each interface is satisfied
// directly by the corresponding *repository.XxxRepository without an
// adapter.

// TimeSlotStore reads and replaces the weekly slot grid (spec.md §6).
type TimeSlotStore interface {
	List(ctx context.Context) ([]models.TimeSlot, error)
	ReplaceAll(ctx context.Context, slots []models.TimeSlot) error
}

// ClassGroupStore reads class groups.
type ClassGroupStore interface {
	List(ctx context.Context) ([]models.ClassGroup, error)
}

// TeacherStore reads teachers.
type TeacherStore interface {
	List(ctx context.Context) ([]models.Teacher, error)
}

// RoomStore reads rooms, optionally filtered by type.
type RoomStore interface {
	List(ctx context.Context) ([]models.Room, error)
	ListByType(ctx context.Context, roomType models.RoomType) ([]models.Room, error)
}

// SubjectStore reads subjects.
type SubjectStore interface {
	List(ctx context.Context) ([]models.Subject, error)
}

// AllocationStore reads allocations.
type AllocationStore interface {
	List(ctx context.Context) ([]models.Allocation, error)
}

// TimetableEntryStore reads and replaces scheduled lessons (spec.md §4.4,
// §4.7).
type TimetableEntryStore interface {
	List(ctx context.Context) ([]models.TimetableEntry, error)
	ListLocked(ctx context.Context) ([]models.TimetableEntry, error)
	FindByID(ctx context.Context, id string) (*models.TimetableEntry, error)
	ReplaceNonLocked(ctx context.Context, entries []models.TimetableEntry) error
	UpdateSlotAndRoom(ctx context.Context, id, newSlotID, newRoomID string) error
}

// ConflictReportStore replaces the diagnostics from the last solve attempt
// (spec.md §4.5, §5).
type ConflictReportStore interface {
	Replace(ctx context.Context, reports []models.ConflictReport) error
}

// SchoolConfigStore reads the single school-wide configuration row (spec.md
// §4.6).
type SchoolConfigStore interface {
	Get(ctx context.Context) (*models.SchoolConfig, error)
}

// RequiredSubjectStore reads the class-group to subject mapping spec.md §3
// defines as part of ClassGroup ("required-subjects (set of Subject)"). The
// Search Driver doesn't consult it when building the model — the Allocation
// rows already say what gets scheduled — but the Conflict Reporter uses it to
// flag a class group for which no allocation exists at all for a subject it
// is supposed to receive.
type RequiredSubjectStore interface {
	ListByClassGroup(ctx context.Context, classGroupID string) ([]models.RequiredSubject, error)
}

// competencyLister is satisfied by repository.SubjectRepository. It is
// checked with a type assertion rather than added to SubjectStore so that
// fixture stores in tests can opt out of the competency check instead of
// having to stub it.
type competencyLister interface {
	CompetentTeacherIDs(ctx context.Context, subjectID string) ([]string, error)
}

// entitySnapshot is the full read of every entity the solver core needs for
// one solve attempt, gathered up front so enumeration and model building run
// against a single consistent view (spec.md §9: explicit input, no
// process-wide mutable state).
type entitySnapshot struct {
	ClassGroups   map[string]models.ClassGroup
	Teachers      map[string]models.Teacher
	Subjects      map[string]models.Subject
	Rooms         []models.Room
	TimeSlots     []models.TimeSlot
	Allocations   []models.Allocation
	LockedEntries []models.TimetableEntry
	// Competencies maps a subject ID to the teacher IDs qualified to teach
	// it. Populated only when the SubjectStore also implements
	// competencyLister; nil otherwise, in which case the competency-mismatch
	// conflict rule is skipped.
	Competencies map[string][]string
	// RequiredSubjects maps a class group ID to the subject IDs it must
	// receive. Nil when no RequiredSubjectStore was supplied, in which case
	// the missing-required-subject conflict rule is skipped.
	RequiredSubjects map[string][]string
}

func loadSnapshot(
	ctx context.Context,
	timeSlots TimeSlotStore,
	classGroups ClassGroupStore,
	teachers TeacherStore,
	rooms RoomStore,
	subjects SubjectStore,
	allocations AllocationStore,
	entries TimetableEntryStore,
	requiredSubjects RequiredSubjectStore,
) (*entitySnapshot, error) {
	slotList, err := timeSlots.List(ctx)
	if err != nil {
		return nil, err
	}
	classList, err := classGroups.List(ctx)
	if err != nil {
		return nil, err
	}
	teacherList, err := teachers.List(ctx)
	if err != nil {
		return nil, err
	}
	roomList, err := rooms.List(ctx)
	if err != nil {
		return nil, err
	}
	subjectList, err := subjects.List(ctx)
	if err != nil {
		return nil, err
	}
	allocationList, err := allocations.List(ctx)
	if err != nil {
		return nil, err
	}
	locked, err := entries.ListLocked(ctx)
	if err != nil {
		return nil, err
	}

	snapshot := &entitySnapshot{
		ClassGroups:   make(map[string]models.ClassGroup, len(classList)),
		Teachers:      make(map[string]models.Teacher, len(teacherList)),
		Subjects:      make(map[string]models.Subject, len(subjectList)),
		Rooms:         roomList,
		TimeSlots:     slotList,
		Allocations:   allocationList,
		LockedEntries: locked,
	}
	for _, c := range classList {
		snapshot.ClassGroups[c.ID] = c
	}
	for _, t := range teacherList {
		snapshot.Teachers[t.ID] = t
	}
	for _, s := range subjectList {
		snapshot.Subjects[s.ID] = s
	}

	if lister, ok := subjects.(competencyLister); ok {
		snapshot.Competencies = make(map[string][]string, len(subjectList))
		for _, s := range subjectList {
			teacherIDs, err := lister.CompetentTeacherIDs(ctx, s.ID)
			if err != nil {
				return nil, err
			}
			snapshot.Competencies[s.ID] = teacherIDs
		}
	}

	if requiredSubjects != nil {
		snapshot.RequiredSubjects = make(map[string][]string, len(classList))
		for _, c := range classList {
			required, err := requiredSubjects.ListByClassGroup(ctx, c.ID)
			if err != nil {
				return nil, err
			}
			ids := make([]string, 0, len(required))
			for _, r := range required {
				ids = append(ids, r.SubjectID)
			}
			snapshot.RequiredSubjects[c.ID] = ids
		}
	}

	return snapshot, nil
}
