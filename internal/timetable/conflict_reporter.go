package timetable

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/jmoiron/sqlx/types"

	"github.com/melsoft/timegrid/internal/models"
	"github.com/melsoft/timegrid/internal/timetable/cpsat"
)

// ReportInput bundles everything the Conflict Reporter's local checks need
// beyond the enumeration/build output (spec.md §4.5). The reporter never
// introspects the solver; every rule is a check against the input snapshot.
type ReportInput struct {
	Status      cpsat.Status
	Enumeration *EnumerationResult
	Built       *BuiltModel
	Allocations []models.Allocation
	Subjects    map[string]models.Subject
	Teachers    map[string]models.Teacher
	ClassGroups map[string]models.ClassGroup
	Rooms       []models.Room
	TimeSlots   []models.TimeSlot
	// Competencies maps a subject ID to the teacher IDs qualified to teach
	// it. Nil when the backing store couldn't supply it, in which case the
	// competency-mismatch rule produces no reports.
	Competencies map[string][]string
	// RequiredSubjects maps a class group ID to the subject IDs it must
	// receive. Nil when no RequiredSubjectStore was supplied, in which case
	// the missing-required-subject rule produces no reports.
	RequiredSubjects map[string][]string
}

// GenerateConflictReports implements spec.md §4.5's six rules. It is called
// whenever the solve didn't terminate in OPTIMAL/FEASIBLE, or whenever
// enumeration or model building flagged a structural infeasibility even if
// the solve otherwise succeeded.
func GenerateConflictReports(in ReportInput) []models.ConflictReport {
	var reports []models.ConflictReport

	switch in.Status {
	case cpsat.StatusUnknown:
		reports = append(reports, newReport(models.SeverityWarning,
			"solver did not reach a decision within the time limit", nil))
	case cpsat.StatusInfeasible:
		reports = append(reports, newReport(models.SeverityError,
			"no feasible timetable exists for the current constraints", nil))
	}

	reports = append(reports, zeroCandidateReports(in.Enumeration, in.Subjects)...)
	reports = append(reports, consecutiveBlockReports(in.Built, in.Subjects)...)
	reports = append(reports, roomTypeShortageReports(in.Subjects, in.Rooms)...)
	reports = append(reports, teacherOverallocationReports(in.Allocations, in.Subjects, in.Teachers, in.TimeSlots)...)
	reports = append(reports, classGroupOverallocationReports(in.Allocations, in.Subjects, in.ClassGroups, len(in.TimeSlots))...)
	reports = append(reports, competencyMismatchReports(in.Allocations, in.Subjects, in.Teachers, in.Competencies)...)
	reports = append(reports, missingRequiredSubjectReports(in.Allocations, in.ClassGroups, in.Subjects, in.RequiredSubjects)...)

	if len(reports) == 0 && in.Status != cpsat.StatusOptimal && in.Status != cpsat.StatusFeasible {
		severity := models.SeverityError
		if in.Status == cpsat.StatusUnknown {
			severity = models.SeverityWarning
		}
		reports = append(reports, newReport(severity,
			"timetable generation did not succeed; review allocations, teacher/room availability, and capacity", nil))
	}

	return reports
}

func newReport(severity models.ConflictSeverity, message string, details map[string]any) models.ConflictReport {
	report := models.ConflictReport{Severity: severity, Message: message}
	if len(details) > 0 {
		if raw, err := json.Marshal(details); err == nil {
			report.Details = types.JSONText(raw)
		}
	}
	return report
}

// zeroCandidateReports implements rule 2: one error per allocation for
// which at least one remaining period produced no candidate tuple.
func zeroCandidateReports(enum *EnumerationResult, subjects map[string]models.Subject) []models.ConflictReport {
	allocations := append([]models.Allocation{}, enum.ZeroCandidateAllocations...)
	sort.Slice(allocations, func(i, j int) bool { return allocations[i].ID < allocations[j].ID })

	reports := make([]models.ConflictReport, 0, len(allocations))
	for _, allocation := range allocations {
		subject := subjects[allocation.SubjectID]
		reports = append(reports, newReport(models.SeverityError,
			fmt.Sprintf("allocation %s has no feasible placement for at least one required period", allocation.ID),
			map[string]any{
				"class_group_id":     allocation.ClassGroupID,
				"subject_id":         allocation.SubjectID,
				"teacher_id":         allocation.TeacherID,
				"required_room_type": subject.RequiredRoomType,
			}))
	}
	return reports
}

// consecutiveBlockReports surfaces allocations H5 could not place as a
// block at all (spec.md §4.3 step 1: "If empty, mark A infeasible"). Not one
// of the spec's six numbered rules verbatim, but the same local-check
// philosophy: a structural condition discoverable without solver
// introspection.
func consecutiveBlockReports(built *BuiltModel, subjects map[string]models.Subject) []models.ConflictReport {
	if built == nil {
		return nil
	}
	allocations := append([]models.Allocation{}, built.InfeasibleConsecutiveAllocations...)
	sort.Slice(allocations, func(i, j int) bool { return allocations[i].ID < allocations[j].ID })

	reports := make([]models.ConflictReport, 0, len(allocations))
	for _, allocation := range allocations {
		subject := subjects[allocation.SubjectID]
		reports = append(reports, newReport(models.SeverityError,
			fmt.Sprintf("allocation %s requires consecutive periods but no room/day can host the whole block", allocation.ID),
			map[string]any{
				"class_group_id": allocation.ClassGroupID,
				"subject_id":     allocation.SubjectID,
				"teacher_id":     allocation.TeacherID,
				"weekly_periods": subject.WeeklyPeriods,
			}))
	}
	return reports
}

// roomTypeShortageReports implements rule 3: a subject whose required room
// type has no rooms of that type anywhere in the repository.
func roomTypeShortageReports(subjects map[string]models.Subject, rooms []models.Room) []models.ConflictReport {
	available := make(map[models.RoomType]bool)
	for _, room := range rooms {
		available[room.RoomType] = true
	}

	ids := make([]string, 0, len(subjects))
	for id := range subjects {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	var reports []models.ConflictReport
	for _, id := range ids {
		subject := subjects[id]
		if available[subject.RequiredRoomType] {
			continue
		}
		reports = append(reports, newReport(models.SeverityError,
			fmt.Sprintf("subject %s requires room type %q but no such room exists", subject.Name, subject.RequiredRoomType),
			map[string]any{"subject_id": subject.ID, "required_room_type": subject.RequiredRoomType}))
	}
	return reports
}

// teacherOverallocationReports implements rule 4: a teacher whose required
// weekly periods exceed the slots at which they are available.
func teacherOverallocationReports(
	allocations []models.Allocation,
	subjects map[string]models.Subject,
	teachers map[string]models.Teacher,
	timeSlots []models.TimeSlot,
) []models.ConflictReport {
	required := make(map[string]int)
	for _, allocation := range allocations {
		required[allocation.TeacherID] += subjects[allocation.SubjectID].WeeklyPeriods
	}

	ids := make([]string, 0, len(required))
	for id := range required {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	var reports []models.ConflictReport
	for _, id := range ids {
		teacher, ok := teachers[id]
		if !ok {
			continue
		}
		available := 0
		for _, slot := range timeSlots {
			if teacher.IsAvailable(slot.DayIndex, slot.PeriodIndex) {
				available++
			}
		}
		if required[id] > available {
			reports = append(reports, newReport(models.SeverityError,
				fmt.Sprintf("teacher %s is overallocated: %d periods required but only %d available", teacher.Name, required[id], available),
				map[string]any{"teacher_id": id, "required": required[id], "available": available}))
		}
	}
	return reports
}

// competencyMismatchReports is a supplemental rule, not one of the spec's
// six numbered ones: an allocation whose teacher is not on record as
// competent to teach its subject. Mirrors the original's
// generate_conflict_report check of `teacher not in
// allocation.subject.teachers.all()`, surfaced here instead of silently
// dropped. Skipped entirely when competencies is nil (store doesn't support
// the lookup).
func competencyMismatchReports(
	allocations []models.Allocation,
	subjects map[string]models.Subject,
	teachers map[string]models.Teacher,
	competencies map[string][]string,
) []models.ConflictReport {
	if competencies == nil {
		return nil
	}

	ids := make([]string, 0, len(allocations))
	byID := make(map[string]models.Allocation, len(allocations))
	for _, a := range allocations {
		ids = append(ids, a.ID)
		byID[a.ID] = a
	}
	sort.Strings(ids)

	var reports []models.ConflictReport
	for _, id := range ids {
		allocation := byID[id]
		competent := competencies[allocation.SubjectID]
		if competent == nil {
			continue
		}
		if contains(competent, allocation.TeacherID) {
			continue
		}
		subject := subjects[allocation.SubjectID]
		teacher := teachers[allocation.TeacherID]
		reports = append(reports, newReport(models.SeverityError,
			fmt.Sprintf("teacher %s is not on record as competent to teach %s", teacher.Name, subject.Name),
			map[string]any{"allocation_id": allocation.ID, "teacher_id": allocation.TeacherID, "subject_id": allocation.SubjectID}))
	}
	return reports
}

// missingRequiredSubjectReports is a supplemental rule: a class group for
// which spec.md §3's required-subjects set names a subject with no
// allocation at all. Unlike the overallocation rules above, this catches
// under-provisioning rather than over-provisioning — a curriculum gap the
// enumerator itself has no way to notice, since it only ever sees the
// allocations that do exist. Skipped entirely when requiredSubjects is nil
// (store doesn't support the lookup).
func missingRequiredSubjectReports(
	allocations []models.Allocation,
	classGroups map[string]models.ClassGroup,
	subjects map[string]models.Subject,
	requiredSubjects map[string][]string,
) []models.ConflictReport {
	if requiredSubjects == nil {
		return nil
	}

	covered := make(map[string]map[string]bool, len(classGroups))
	for _, a := range allocations {
		if covered[a.ClassGroupID] == nil {
			covered[a.ClassGroupID] = make(map[string]bool)
		}
		covered[a.ClassGroupID][a.SubjectID] = true
	}

	classIDs := make([]string, 0, len(requiredSubjects))
	for id := range requiredSubjects {
		classIDs = append(classIDs, id)
	}
	sort.Strings(classIDs)

	var reports []models.ConflictReport
	for _, classID := range classIDs {
		class, ok := classGroups[classID]
		if !ok {
			continue
		}
		required := append([]string{}, requiredSubjects[classID]...)
		sort.Strings(required)
		for _, subjectID := range required {
			if covered[classID][subjectID] {
				continue
			}
			subject := subjects[subjectID]
			reports = append(reports, newReport(models.SeverityError,
				fmt.Sprintf("class group %s has no allocation for required subject %s", class.Name, subject.Name),
				map[string]any{"class_group_id": classID, "subject_id": subjectID}))
		}
	}
	return reports
}

func contains(ids []string, target string) bool {
	for _, id := range ids {
		if id == target {
			return true
		}
	}
	return false
}

// classGroupOverallocationReports implements rule 5: a class group whose
// required weekly periods exceed the total number of time slots.
func classGroupOverallocationReports(
	allocations []models.Allocation,
	subjects map[string]models.Subject,
	classGroups map[string]models.ClassGroup,
	totalSlots int,
) []models.ConflictReport {
	required := make(map[string]int)
	for _, allocation := range allocations {
		required[allocation.ClassGroupID] += subjects[allocation.SubjectID].WeeklyPeriods
	}

	ids := make([]string, 0, len(required))
	for id := range required {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	var reports []models.ConflictReport
	for _, id := range ids {
		class, ok := classGroups[id]
		if !ok {
			continue
		}
		if required[id] > totalSlots {
			reports = append(reports, newReport(models.SeverityError,
				fmt.Sprintf("class group %s is overallocated: %d periods required but only %d slots exist", class.Name, required[id], totalSlots),
				map[string]any{"class_group_id": id, "required": required[id], "available": totalSlots}))
		}
	}
	return reports
}
