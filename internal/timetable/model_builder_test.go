package timetable

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/melsoft/timegrid/internal/models"
	"github.com/melsoft/timegrid/internal/timetable/cpsat"
)

func buildFixtureModel(t *testing.T) (*EnumerationResult, *BuiltModel) {
	t.Helper()
	enumIn := fixtureEnumerationInput()
	enum := Enumerate(enumIn)
	built := Build(BuildInput{
		Enumeration: enum,
		Allocations: enumIn.Allocations,
		Subjects:    enumIn.Subjects,
		Teachers:    enumIn.Teachers,
		TimeSlots:   enumIn.TimeSlots,
	})
	return enum, built
}

func TestBuildEmitsOneVariablePerCandidate(t *testing.T) {
	enum, built := buildFixtureModel(t)
	assert.Len(t, built.Vars, len(enum.Candidates))
	assert.Empty(t, built.InfeasibleConsecutiveAllocations)
}

func TestSolveSatisfiesExactlyOneAndUniqueness(t *testing.T) {
	_, built := buildFixtureModel(t)
	solver := cpsat.NewCpSolver(built.Model)
	status := solver.Solve(context.Background(), cpsat.SolveParameters{TimeLimitSeconds: 2, RandomSeed: 0})
	require.Contains(t, []cpsat.Status{cpsat.StatusOptimal, cpsat.StatusFeasible}, status)

	teacherSlot := make(map[teacherSlotKey]int)
	classSlot := make(map[classSlotKey]int)
	roomSlot := make(map[roomSlotKey]int)
	periodsFilled := make(map[string]int)

	for key, v := range built.Vars {
		if !solver.BooleanValue(v) {
			continue
		}
		c := built.Candidates[key]
		teacherSlot[teacherSlotKey{c.TeacherID, c.TimeSlotID}]++
		classSlot[classSlotKey{c.ClassGroupID, c.TimeSlotID}]++
		roomSlot[roomSlotKey{c.RoomID, c.TimeSlotID}]++
		periodsFilled[c.AllocationID]++
	}

	for _, count := range teacherSlot {
		assert.LessOrEqual(t, count, 1, "H2: a teacher must not be double-booked in one slot")
	}
	for _, count := range classSlot {
		assert.LessOrEqual(t, count, 1, "H3: a class must not be double-booked in one slot")
	}
	for _, count := range roomSlot {
		assert.LessOrEqual(t, count, 1, "H4: a room must not be double-booked in one slot")
	}
	assert.Equal(t, 2, periodsFilled["alloc-math"], "H1: every required period gets exactly one placement")
	assert.Equal(t, 2, periodsFilled["alloc-science"])
}

func TestAddConsecutiveBlocksMarksInfeasibleWhenNoBlockFits(t *testing.T) {
	enumIn := fixtureEnumerationInput()
	// Shrink to a single period per day: a 2-period consecutive block can
	// never fit anywhere.
	enumIn.TimeSlots = []models.TimeSlot{
		{ID: "slot-a", DayIndex: 0, PeriodIndex: 0},
		{ID: "slot-b", DayIndex: 1, PeriodIndex: 0},
	}
	enum := Enumerate(enumIn)
	built := Build(BuildInput{
		Enumeration: enum,
		Allocations: enumIn.Allocations,
		Subjects:    enumIn.Subjects,
		Teachers:    enumIn.Teachers,
		TimeSlots:   enumIn.TimeSlots,
	})

	require.Len(t, built.InfeasibleConsecutiveAllocations, 1)
	assert.Equal(t, "alloc-science", built.InfeasibleConsecutiveAllocations[0].ID)
}
