package timetable

import (
	"github.com/jmoiron/sqlx/types"

	"github.com/melsoft/timegrid/internal/models"
)

// Small deterministic fixture shared by the enumerator, model-builder, and
// search-driver tests: two class groups, two teachers, one classroom and
// one lab, a 2-day x 3-period grid, and one allocation per class group.

func fixtureRooms() []models.Room {
	return []models.Room{
		{ID: "room-classroom", Name: "Classroom A", RoomType: models.RoomTypeClassroom, Capacity: 40, Availability: types.JSONText("{}")},
		{ID: "room-lab", Name: "Science Lab", RoomType: models.RoomTypeLab, Capacity: 30, Availability: types.JSONText("{}")},
	}
}

func fixtureTeachers() []models.Teacher {
	return []models.Teacher{
		{ID: "teacher-math", Name: "Ada", Availability: types.JSONText("{}")},
		{ID: "teacher-science", Name: "Bo", Availability: types.JSONText("{}")},
	}
}

func fixtureClassGroups() []models.ClassGroup {
	return []models.ClassGroup{
		{ID: "class-1", Name: "Grade 7A", StudentCount: 25},
	}
}

func fixtureSubjects() map[string]models.Subject {
	return map[string]models.Subject{
		"subject-math": {
			ID: "subject-math", Name: "Mathematics", WeeklyPeriods: 2,
			Type: models.SubjectTypeTheory, Difficulty: models.DifficultyFair,
			RequiredRoomType: models.RoomTypeClassroom,
		},
		"subject-science": {
			ID: "subject-science", Name: "Science", WeeklyPeriods: 2,
			Type: models.SubjectTypePractical, Difficulty: models.DifficultyDifficult,
			RequiredRoomType:           models.RoomTypeLab,
			RequiresConsecutivePeriods: true,
		},
	}
}

func fixtureTimeSlots() []models.TimeSlot {
	var slots []models.TimeSlot
	id := 0
	for day := 0; day < 2; day++ {
		for period := 0; period < 3; period++ {
			slots = append(slots, models.TimeSlot{
				ID:          slotID(id),
				DayIndex:    day,
				PeriodIndex: period,
				StartTime:   "08:00:00",
				EndTime:     "08:45:00",
			})
			id++
		}
	}
	return slots
}

func slotID(n int) string {
	letters := "abcdefghijklmnopqrstuvwxyz"
	return "slot-" + string(letters[n%len(letters)])
}

func fixtureAllocations() []models.Allocation {
	return []models.Allocation{
		{ID: "alloc-math", ClassGroupID: "class-1", SubjectID: "subject-math", TeacherID: "teacher-math"},
		{ID: "alloc-science", ClassGroupID: "class-1", SubjectID: "subject-science", TeacherID: "teacher-science"},
	}
}

func fixtureEnumerationInput() EnumerationInput {
	classGroups := make(map[string]models.ClassGroup)
	for _, c := range fixtureClassGroups() {
		classGroups[c.ID] = c
	}
	teachers := make(map[string]models.Teacher)
	for _, t := range fixtureTeachers() {
		teachers[t.ID] = t
	}
	return EnumerationInput{
		Allocations: fixtureAllocations(),
		Subjects:    fixtureSubjects(),
		ClassGroups: classGroups,
		Teachers:    teachers,
		Rooms:       fixtureRooms(),
		TimeSlots:   fixtureTimeSlots(),
	}
}
