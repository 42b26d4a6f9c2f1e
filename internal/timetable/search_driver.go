package timetable

import (
	"context"
	"runtime"
	"time"

	"go.uber.org/zap"

	"github.com/melsoft/timegrid/internal/models"
	"github.com/melsoft/timegrid/internal/timetable/cpsat"
	appErrors "github.com/melsoft/timegrid/pkg/errors"
)

// defaultTimeLimitSeconds is the wall-clock budget spec.md §4.4 gives a
// solve attempt when the caller doesn't request a different one.
const defaultTimeLimitSeconds = 180

// maxWorkers caps the parallel worker count spec.md §5 assigns to a solve;
// a host with fewer hardware threads gets fewer workers.
const maxWorkers = 8

// Result is what a Driver.Solve call produces: the terminal solver status
// plus whatever diagnostics accompanied it. A successful solve also leaves
// a fresh set of TimetableEntry rows persisted through the injected store.
type Result struct {
	Status          cpsat.Status
	EngineVersion   string
	ConflictReports []models.ConflictReport
	CandidateCount  int
}

// Driver runs one generate cycle end to end: load the entity snapshot,
// enumerate candidates, build the constraint model, solve it, and persist
// either a new timetable or a conflict report (spec.md §4.4). It depends on
// narrow store interfaces rather than a single repository, in the style of
// the source's schedule_generator_service.go.
type Driver struct {
	timeSlots   TimeSlotStore
	classGroups ClassGroupStore
	teachers    TeacherStore
	rooms       RoomStore
	subjects    SubjectStore
	allocations AllocationStore
	entries     TimetableEntryStore
	reports     ConflictReportStore
	required    RequiredSubjectStore
	logger      *zap.Logger
}

// NewDriver constructs a Driver. A nil logger defaults to a no-op logger,
// matching the nil-defaulting constructor pattern used throughout the
// service layer.
func NewDriver(
	timeSlots TimeSlotStore,
	classGroups ClassGroupStore,
	teachers TeacherStore,
	rooms RoomStore,
	subjects SubjectStore,
	allocations AllocationStore,
	entries TimetableEntryStore,
	reports ConflictReportStore,
	required RequiredSubjectStore,
	logger *zap.Logger,
) *Driver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Driver{
		timeSlots:   timeSlots,
		classGroups: classGroups,
		teachers:    teachers,
		rooms:       rooms,
		subjects:    subjects,
		allocations: allocations,
		entries:     entries,
		reports:     reports,
		required:    required,
		logger:      logger,
	}
}

// Solve implements spec.md §4.4's generate(time_limit_seconds) operation.
func (d *Driver) Solve(ctx context.Context, timeLimitSeconds int) (*Result, error) {
	if timeLimitSeconds <= 0 {
		timeLimitSeconds = defaultTimeLimitSeconds
	}

	snapshot, err := loadSnapshot(ctx, d.timeSlots, d.classGroups, d.teachers, d.rooms, d.subjects, d.allocations, d.entries, d.required)
	if err != nil {
		return nil, appErrors.Wrap(err, "STORAGE_ERROR", 500, "failed to load entity snapshot for solve")
	}

	if len(snapshot.TimeSlots) == 0 || len(snapshot.Allocations) == 0 || len(snapshot.Rooms) == 0 {
		return nil, appErrors.Clone(appErrors.ErrPreconditionMissing,
			"cannot generate a timetable with no timeslots, allocations, or rooms")
	}

	enumeration := Enumerate(EnumerationInput{
		Allocations:   snapshot.Allocations,
		Subjects:      snapshot.Subjects,
		ClassGroups:   snapshot.ClassGroups,
		Teachers:      snapshot.Teachers,
		Rooms:         snapshot.Rooms,
		TimeSlots:     snapshot.TimeSlots,
		LockedEntries: snapshot.LockedEntries,
	})

	built := Build(BuildInput{
		Enumeration: enumeration,
		Allocations: snapshot.Allocations,
		Subjects:    snapshot.Subjects,
		Teachers:    snapshot.Teachers,
		TimeSlots:   snapshot.TimeSlots,
	})

	solveCtx, cancelSolve := context.WithTimeout(ctx, time.Duration(timeLimitSeconds)*time.Second)
	solver := cpsat.NewCpSolver(built.Model)
	status := solver.Solve(solveCtx, cpsat.SolveParameters{
		TimeLimitSeconds: timeLimitSeconds,
		NumWorkers:       workerCount(),
		RandomSeed:       0,
	})
	cancelSolve()

	d.logger.Info("timetable solve finished",
		zap.String("engine_version", cpsat.EngineVersion),
		zap.String("status", status.String()),
		zap.Int("candidates", len(enumeration.Candidates)),
		zap.Int("time_limit_seconds", timeLimitSeconds),
	)

	structuralIssues := len(enumeration.ZeroCandidateAllocations) > 0 || len(built.InfeasibleConsecutiveAllocations) > 0
	succeeded := status == cpsat.StatusOptimal || status == cpsat.StatusFeasible

	result := &Result{Status: status, EngineVersion: cpsat.EngineVersion, CandidateCount: len(enumeration.Candidates)}

	if succeeded {
		entries := extractSolution(enumeration, built, solver, snapshot.LockedEntries)
		if err := d.entries.ReplaceNonLocked(ctx, entries); err != nil {
			return result, appErrors.Wrap(err, "STORAGE_ERROR", 500, "failed to persist generated timetable")
		}
	}

	if !succeeded || structuralIssues {
		reports := GenerateConflictReports(ReportInput{
			Status:      status,
			Enumeration: enumeration,
			Built:       built,
			Allocations:      snapshot.Allocations,
			Subjects:         snapshot.Subjects,
			Teachers:         snapshot.Teachers,
			ClassGroups:      snapshot.ClassGroups,
			Rooms:            snapshot.Rooms,
			TimeSlots:        snapshot.TimeSlots,
			Competencies:     snapshot.Competencies,
			RequiredSubjects: snapshot.RequiredSubjects,
		})
		stamped := make([]models.ConflictReport, len(reports))
		now := time.Now().UTC()
		for i, r := range reports {
			r.GeneratedAt = now
			stamped[i] = r
		}
		if err := d.reports.Replace(ctx, stamped); err != nil {
			return result, appErrors.Wrap(err, "STORAGE_ERROR", 500, "failed to persist conflict reports")
		}
		result.ConflictReports = stamped
	}

	return result, nil
}

// extractSolution reads the solved boolean assignment back into persisted
// TimetableEntry rows, one per chosen candidate, alongside the locked
// entries a replace must leave untouched (spec.md §4.4: "ReplaceNonLocked
// deletes only non-locked rows and inserts the new assignment").
func extractSolution(enum *EnumerationResult, built *BuiltModel, solver *cpsat.CpSolver, locked []models.TimetableEntry) []models.TimetableEntry {
	entries := make([]models.TimetableEntry, 0, len(enum.Candidates))
	for _, c := range enum.Candidates {
		v, ok := built.Var(c)
		if !ok || !solver.BooleanValue(v) {
			continue
		}
		entries = append(entries, models.TimetableEntry{
			AllocationID: c.AllocationID,
			ClassGroupID: c.ClassGroupID,
			SubjectID:    c.SubjectID,
			TeacherID:    c.TeacherID,
			RoomID:       c.RoomID,
			TimeSlotID:   c.TimeSlotID,
			IsLocked:     false,
		})
	}
	return entries
}

// workerCount returns the parallel worker count spec.md §5 assigns to a
// solve, lowered to the host's hardware thread count when that is smaller.
func workerCount() int {
	if n := runtime.NumCPU(); n < maxWorkers {
		return n
	}
	return maxWorkers
}
