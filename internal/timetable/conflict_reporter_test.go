package timetable

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/melsoft/timegrid/internal/models"
	"github.com/melsoft/timegrid/internal/timetable/cpsat"
)

func TestGenerateConflictReportsStatusRules(t *testing.T) {
	base := ReportInput{
		Enumeration: &EnumerationResult{},
		Built:       &BuiltModel{},
		Subjects:    map[string]models.Subject{},
		Teachers:    map[string]models.Teacher{},
		ClassGroups: map[string]models.ClassGroup{},
	}

	unknown := base
	unknown.Status = cpsat.StatusUnknown
	reports := GenerateConflictReports(unknown)
	require.Len(t, reports, 1)
	assert.Equal(t, models.SeverityWarning, reports[0].Severity)

	infeasible := base
	infeasible.Status = cpsat.StatusInfeasible
	reports = GenerateConflictReports(infeasible)
	require.Len(t, reports, 1)
	assert.Equal(t, models.SeverityError, reports[0].Severity)

	optimal := base
	optimal.Status = cpsat.StatusOptimal
	assert.Empty(t, GenerateConflictReports(optimal))
}

func TestGenerateConflictReportsZeroCandidateRule(t *testing.T) {
	in := ReportInput{
		Status: cpsat.StatusOptimal,
		Enumeration: &EnumerationResult{
			ZeroCandidateAllocations: []models.Allocation{
				{ID: "alloc-math", ClassGroupID: "class-1", SubjectID: "subject-math", TeacherID: "teacher-math"},
			},
		},
		Built:       &BuiltModel{},
		Subjects:    fixtureSubjects(),
		Teachers:    map[string]models.Teacher{},
		ClassGroups: map[string]models.ClassGroup{},
		Rooms:       fixtureRooms(),
	}
	reports := GenerateConflictReports(in)
	require.Len(t, reports, 1)
	assert.Equal(t, models.SeverityError, reports[0].Severity)
	assert.Contains(t, reports[0].Message, "alloc-math")
}

func TestGenerateConflictReportsRoomTypeShortage(t *testing.T) {
	in := ReportInput{
		Status:      cpsat.StatusOptimal,
		Enumeration: &EnumerationResult{},
		Built:       &BuiltModel{},
		Subjects:    fixtureSubjects(),
		Teachers:    map[string]models.Teacher{},
		ClassGroups: map[string]models.ClassGroup{},
		Rooms:       []models.Room{{ID: "room-classroom", RoomType: models.RoomTypeClassroom}},
	}
	reports := GenerateConflictReports(in)
	// subject-science requires a lab, which doesn't exist in the room list.
	require.Len(t, reports, 1)
	assert.Contains(t, reports[0].Message, "Science")
}

func TestGenerateConflictReportsTeacherOverallocation(t *testing.T) {
	in := ReportInput{
		Status:      cpsat.StatusOptimal,
		Enumeration: &EnumerationResult{},
		Built:       &BuiltModel{},
		Allocations: []models.Allocation{{ID: "a1", TeacherID: "teacher-math", SubjectID: "subject-math"}},
		Subjects:    map[string]models.Subject{"subject-math": {ID: "subject-math", Name: "Mathematics", WeeklyPeriods: 5, RequiredRoomType: models.RoomTypeClassroom}},
		Teachers:    map[string]models.Teacher{"teacher-math": {ID: "teacher-math", Name: "Ada"}},
		ClassGroups: map[string]models.ClassGroup{},
		Rooms:       fixtureRooms(),
		TimeSlots: []models.TimeSlot{
			{ID: "s1", DayIndex: 0, PeriodIndex: 0},
			{ID: "s2", DayIndex: 0, PeriodIndex: 1},
		},
	}
	reports := GenerateConflictReports(in)
	require.Len(t, reports, 1)
	assert.Contains(t, reports[0].Message, "overallocated")
}

func TestGenerateConflictReportsCompetencyMismatch(t *testing.T) {
	in := ReportInput{
		Status:      cpsat.StatusOptimal,
		Enumeration: &EnumerationResult{},
		Built:       &BuiltModel{},
		Allocations: []models.Allocation{{ID: "a1", TeacherID: "teacher-art", SubjectID: "subject-math"}},
		Subjects:    map[string]models.Subject{"subject-math": {ID: "subject-math", Name: "Mathematics", RequiredRoomType: models.RoomTypeClassroom}},
		Teachers:    map[string]models.Teacher{"teacher-art": {ID: "teacher-art", Name: "Bea"}},
		ClassGroups: map[string]models.ClassGroup{},
		Rooms:       fixtureRooms(),
		Competencies: map[string][]string{
			"subject-math": {"teacher-math"},
		},
	}
	reports := GenerateConflictReports(in)
	require.Len(t, reports, 1)
	assert.Contains(t, reports[0].Message, "not on record as competent")
}

func TestGenerateConflictReportsSkipsCompetencyCheckWhenUnsupported(t *testing.T) {
	in := ReportInput{
		Status:      cpsat.StatusOptimal,
		Enumeration: &EnumerationResult{},
		Built:       &BuiltModel{},
		Allocations: []models.Allocation{{ID: "a1", TeacherID: "teacher-art", SubjectID: "subject-math"}},
		Subjects:    map[string]models.Subject{"subject-math": {ID: "subject-math", Name: "Mathematics", RequiredRoomType: models.RoomTypeClassroom}},
		Teachers:    map[string]models.Teacher{"teacher-art": {ID: "teacher-art", Name: "Bea"}},
		ClassGroups: map[string]models.ClassGroup{},
		Rooms:       fixtureRooms(),
	}
	assert.Empty(t, GenerateConflictReports(in))
}

func TestGenerateConflictReportsMissingRequiredSubject(t *testing.T) {
	in := ReportInput{
		Status:      cpsat.StatusOptimal,
		Enumeration: &EnumerationResult{},
		Built:       &BuiltModel{},
		Allocations: []models.Allocation{{ID: "a1", ClassGroupID: "class-1", SubjectID: "subject-math"}},
		Subjects: map[string]models.Subject{
			"subject-math":    {ID: "subject-math", Name: "Mathematics", RequiredRoomType: models.RoomTypeClassroom},
			"subject-science": {ID: "subject-science", Name: "Science", RequiredRoomType: models.RoomTypeLab},
		},
		Teachers:    map[string]models.Teacher{},
		ClassGroups: map[string]models.ClassGroup{"class-1": {ID: "class-1", Name: "Grade 1A"}},
		Rooms:       fixtureRooms(),
		RequiredSubjects: map[string][]string{
			"class-1": {"subject-math", "subject-science"},
		},
	}
	reports := GenerateConflictReports(in)
	require.Len(t, reports, 1)
	assert.Contains(t, reports[0].Message, "Grade 1A")
	assert.Contains(t, reports[0].Message, "Science")
}

func TestGenerateConflictReportsSkipsMissingRequiredSubjectWhenUnsupported(t *testing.T) {
	in := ReportInput{
		Status:      cpsat.StatusOptimal,
		Enumeration: &EnumerationResult{},
		Built:       &BuiltModel{},
		Allocations: []models.Allocation{{ID: "a1", ClassGroupID: "class-1", SubjectID: "subject-math"}},
		Subjects:    map[string]models.Subject{"subject-math": {ID: "subject-math", Name: "Mathematics", RequiredRoomType: models.RoomTypeClassroom}},
		Teachers:    map[string]models.Teacher{},
		ClassGroups: map[string]models.ClassGroup{"class-1": {ID: "class-1", Name: "Grade 1A"}},
		Rooms:       fixtureRooms(),
	}
	assert.Empty(t, GenerateConflictReports(in))
}
