package timetable

import (
	"sort"

	"github.com/melsoft/timegrid/internal/models"
)

// Candidate is one combination for which a decision variable is created
// (spec.md §4.2): one period of one allocation placed into a specific room
// and time slot.
type Candidate struct {
	AllocationID string
	ClassGroupID string
	SubjectID    string
	TeacherID    string
	RoomID       string
	TimeSlotID   string
	PeriodIndex  int
}

type teacherSlotKey struct{ TeacherID, TimeSlotID string }
type classSlotKey struct{ ClassGroupID, TimeSlotID string }
type roomSlotKey struct{ RoomID, TimeSlotID string }
type allocPeriodKey struct {
	AllocationID string
	Period       int
}

// EnumerationResult is the deterministic candidate set plus the secondary
// indexes the Constraint Model Builder reads from instead of scanning the
// full candidate list per constraint (spec.md §9: "must not perform linear
// scans per constraint emission at solver scale").
type EnumerationResult struct {
	Candidates []Candidate

	byAllocPeriod map[allocPeriodKey][]Candidate
	byTeacherSlot map[teacherSlotKey][]Candidate
	byClassSlot   map[classSlotKey][]Candidate
	byRoomSlot    map[roomSlotKey][]Candidate

	// RemainingPeriods is, per allocation, the number of periods still in
	// need of a decision variable: subject.WeeklyPeriods less however many
	// of that allocation's periods are already satisfied by a locked entry
	// (spec.md §4.3: "not emitting variables... for the Allocation.period
	// they already satisfy"). Period identity for locked entries isn't
	// tracked separately; only the remaining count is, since unlocked
	// periods are interchangeable slots in the decision model.
	RemainingPeriods map[string]int

	// ZeroCandidateAllocations lists, once per allocation, every Allocation
	// for which at least one remaining period produced no candidate tuple
	// (spec.md §4.2; surfaced by the Conflict Reporter at §4.5 rule 2).
	ZeroCandidateAllocations []models.Allocation

	// RoomFallbackSubjects lists subject IDs for which the room-of-type set
	// was empty and enumeration fell back to every room (spec.md §4.2 step
	// 1; optional diagnostic only, see §8 scenario 2 — not an error).
	RoomFallbackSubjects map[string]bool
}

// ForAllocationPeriod returns the candidates for one (allocation, period)
// pair, backing the H1 exactly-one constraint.
func (r *EnumerationResult) ForAllocationPeriod(allocationID string, period int) []Candidate {
	return r.byAllocPeriod[allocPeriodKey{allocationID, period}]
}

// ForTeacherSlot returns the candidates that would occupy a teacher at a
// slot, backing the H2 uniqueness constraint.
func (r *EnumerationResult) ForTeacherSlot(teacherID, timeSlotID string) []Candidate {
	return r.byTeacherSlot[teacherSlotKey{teacherID, timeSlotID}]
}

// ForClassSlot backs the H3 uniqueness constraint.
func (r *EnumerationResult) ForClassSlot(classGroupID, timeSlotID string) []Candidate {
	return r.byClassSlot[classSlotKey{classGroupID, timeSlotID}]
}

// ForRoomSlot backs the H4 uniqueness constraint.
func (r *EnumerationResult) ForRoomSlot(roomID, timeSlotID string) []Candidate {
	return r.byRoomSlot[roomSlotKey{roomID, timeSlotID}]
}

// RoomsUsedBy returns the distinct rooms appearing in any candidate for the
// given allocation, across every remaining period, in ascending id order.
// H5 uses this as R_A (spec.md §4.3 step 1).
func (r *EnumerationResult) RoomsUsedBy(allocationID string, remainingPeriods int) []string {
	seen := make(map[string]bool)
	var rooms []string
	for p := 0; p < remainingPeriods; p++ {
		for _, c := range r.byAllocPeriod[allocPeriodKey{allocationID, p}] {
			if !seen[c.RoomID] {
				seen[c.RoomID] = true
				rooms = append(rooms, c.RoomID)
			}
		}
	}
	sort.Strings(rooms)
	return rooms
}

// EnumerationInput bundles the entity snapshot the enumerator reads. Every
// field is an explicit input rather than process-wide state (spec.md §9:
// "the core should accept [SchoolConfig] as an explicit input struct rather
// than rely on process-wide mutable state" — generalized here to the whole
// entity snapshot).
type EnumerationInput struct {
	Allocations   []models.Allocation
	Subjects      map[string]models.Subject
	ClassGroups   map[string]models.ClassGroup
	Teachers      map[string]models.Teacher
	Rooms         []models.Room
	TimeSlots     []models.TimeSlot
	LockedEntries []models.TimetableEntry
}

// Enumerate produces the deterministic candidate set described by spec.md
// §4.2: allocations in persistence order, period index ascending, slots by
// (day, period), rooms by id.
func Enumerate(in EnumerationInput) *EnumerationResult {
	rooms := append([]models.Room{}, in.Rooms...)
	sort.Slice(rooms, func(i, j int) bool { return rooms[i].ID < rooms[j].ID })

	slots := append([]models.TimeSlot{}, in.TimeSlots...)
	sort.Slice(slots, func(i, j int) bool {
		if slots[i].DayIndex == slots[j].DayIndex {
			return slots[i].PeriodIndex < slots[j].PeriodIndex
		}
		return slots[i].DayIndex < slots[j].DayIndex
	})

	lockedTeacherSlot := make(map[teacherSlotKey]bool)
	lockedClassSlot := make(map[classSlotKey]bool)
	lockedRoomSlot := make(map[roomSlotKey]bool)
	lockedCountByAllocation := make(map[string]int)
	for _, e := range in.LockedEntries {
		lockedTeacherSlot[teacherSlotKey{e.TeacherID, e.TimeSlotID}] = true
		lockedClassSlot[classSlotKey{e.ClassGroupID, e.TimeSlotID}] = true
		lockedRoomSlot[roomSlotKey{e.RoomID, e.TimeSlotID}] = true
		lockedCountByAllocation[e.AllocationID]++
	}

	result := &EnumerationResult{
		byAllocPeriod:        make(map[allocPeriodKey][]Candidate),
		byTeacherSlot:        make(map[teacherSlotKey][]Candidate),
		byClassSlot:          make(map[classSlotKey][]Candidate),
		byRoomSlot:           make(map[roomSlotKey][]Candidate),
		RemainingPeriods:     make(map[string]int),
		RoomFallbackSubjects: make(map[string]bool),
	}

	zeroCandidateSeen := make(map[string]bool)

	for _, allocation := range in.Allocations {
		subject, ok := in.Subjects[allocation.SubjectID]
		if !ok {
			continue
		}
		class, ok := in.ClassGroups[allocation.ClassGroupID]
		if !ok {
			continue
		}
		teacher, ok := in.Teachers[allocation.TeacherID]
		if !ok {
			continue
		}

		roomsOfType := make([]models.Room, 0, len(rooms))
		for _, room := range rooms {
			if room.RoomType == subject.RequiredRoomType {
				roomsOfType = append(roomsOfType, room)
			}
		}
		if len(roomsOfType) == 0 {
			roomsOfType = rooms
			result.RoomFallbackSubjects[subject.ID] = true
		}

		remainingPeriods := subject.WeeklyPeriods - lockedCountByAllocation[allocation.ID]
		if remainingPeriods < 0 {
			remainingPeriods = 0
		}
		result.RemainingPeriods[allocation.ID] = remainingPeriods

		for p := 0; p < remainingPeriods; p++ {
			before := len(result.Candidates)
			for _, slot := range slots {
				if !teacher.IsAvailable(slot.DayIndex, slot.PeriodIndex) {
					continue
				}
				if lockedTeacherSlot[teacherSlotKey{teacher.ID, slot.ID}] {
					continue
				}
				if lockedClassSlot[classSlotKey{class.ID, slot.ID}] {
					continue
				}
				for _, room := range roomsOfType {
					if !room.IsAvailable(slot.DayIndex, slot.PeriodIndex) {
						continue
					}
					if lockedRoomSlot[roomSlotKey{room.ID, slot.ID}] {
						continue
					}
					if room.Capacity < class.StudentCount {
						continue
					}
					candidate := Candidate{
						AllocationID: allocation.ID,
						ClassGroupID: class.ID,
						SubjectID:    subject.ID,
						TeacherID:    teacher.ID,
						RoomID:       room.ID,
						TimeSlotID:   slot.ID,
						PeriodIndex:  p,
					}
					result.Candidates = append(result.Candidates, candidate)
					result.byAllocPeriod[allocPeriodKey{allocation.ID, p}] = append(result.byAllocPeriod[allocPeriodKey{allocation.ID, p}], candidate)
					result.byTeacherSlot[teacherSlotKey{teacher.ID, slot.ID}] = append(result.byTeacherSlot[teacherSlotKey{teacher.ID, slot.ID}], candidate)
					result.byClassSlot[classSlotKey{class.ID, slot.ID}] = append(result.byClassSlot[classSlotKey{class.ID, slot.ID}], candidate)
					result.byRoomSlot[roomSlotKey{room.ID, slot.ID}] = append(result.byRoomSlot[roomSlotKey{room.ID, slot.ID}], candidate)
				}
			}
			if len(result.Candidates) == before && !zeroCandidateSeen[allocation.ID] {
				zeroCandidateSeen[allocation.ID] = true
				result.ZeroCandidateAllocations = append(result.ZeroCandidateAllocations, allocation)
			}
		}
	}

	return result
}
