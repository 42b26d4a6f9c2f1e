package timetable

import (
	"fmt"
	"sort"

	"github.com/melsoft/timegrid/internal/models"
	"github.com/melsoft/timegrid/internal/timetable/cpsat"
)

// Soft objective weights (spec.md §4.3). The spec fixes these; the source's
// alternate draft (10 / -5 / 2) is not used.
const (
	weightTeacherGap       = 5
	weightEarlyBiasPenalty = -2
	weightDailyLoadUnit    = 1
	weightAllocPresence    = -50
)

type candidateKey struct {
	AllocationID string
	RoomID       string
	TimeSlotID   string
	PeriodIndex  int
}

func keyOf(c Candidate) candidateKey {
	return candidateKey{c.AllocationID, c.RoomID, c.TimeSlotID, c.PeriodIndex}
}

// BuildInput bundles the enumerated candidates with the entities the
// reified soft terms and H5 need beyond the candidate set itself.
type BuildInput struct {
	Enumeration *EnumerationResult
	Allocations []models.Allocation
	Subjects    map[string]models.Subject
	Teachers    map[string]models.Teacher
	TimeSlots   []models.TimeSlot
}

// BuiltModel is the constraint model plus the lookup the Search Driver needs
// to translate a solved assignment back into candidate tuples.
type BuiltModel struct {
	Model      *cpsat.CpModel
	Vars       map[candidateKey]cpsat.BoolVar
	Candidates map[candidateKey]Candidate

	// InfeasibleConsecutiveAllocations lists allocations that require
	// consecutive placement but for which no valid block could be formed
	// (spec.md §4.3 H5 step 1: "If empty, mark A infeasible and skip").
	InfeasibleConsecutiveAllocations []models.Allocation
}

// Var returns the decision variable for a candidate tuple, if one was
// emitted.
func (b *BuiltModel) Var(c Candidate) (cpsat.BoolVar, bool) {
	v, ok := b.Vars[keyOf(c)]
	return v, ok
}

func (b *BuiltModel) varsFor(candidates []Candidate) []cpsat.BoolVar {
	vars := make([]cpsat.BoolVar, 0, len(candidates))
	for _, c := range candidates {
		if v, ok := b.Vars[keyOf(c)]; ok {
			vars = append(vars, v)
		}
	}
	return vars
}

// Build emits one boolean variable per candidate tuple, the hard
// constraints H1-H5, and the weighted soft objective of spec.md §4.3.
func Build(in BuildInput) *BuiltModel {
	model := cpsat.NewCpModel()
	built := &BuiltModel{
		Model:      model,
		Vars:       make(map[candidateKey]cpsat.BoolVar),
		Candidates: make(map[candidateKey]Candidate),
	}

	for _, c := range in.Enumeration.Candidates {
		name := fmt.Sprintf("x_c%s_s%s_t%s_r%s_ts%s_p%d",
			c.ClassGroupID, c.SubjectID, c.TeacherID, c.RoomID, c.TimeSlotID, c.PeriodIndex)
		v := model.NewBoolVar(name)
		k := keyOf(c)
		built.Vars[k] = v
		built.Candidates[k] = c
	}

	addExactlyOnePerPeriod(model, built, in)
	addUniquenessConstraints(model, built, in)
	addConsecutiveBlocks(model, built, in)

	objective := buildSoftObjective(model, built, in)
	model.Minimize(objective)

	return built
}

// H1: each required period of each allocation is assigned exactly once,
// when at least one candidate exists for it.
func addExactlyOnePerPeriod(model *cpsat.CpModel, built *BuiltModel, in BuildInput) {
	for _, allocation := range in.Allocations {
		remaining := in.Enumeration.RemainingPeriods[allocation.ID]
		for p := 0; p < remaining; p++ {
			candidates := in.Enumeration.ForAllocationPeriod(allocation.ID, p)
			if len(candidates) == 0 {
				continue
			}
			vars := built.varsFor(candidates)
			model.AddLinearConstraint(cpsat.Sum(vars...), cpsat.OpEqual, 1)
		}
	}
}

// H2-H4: a teacher, class, or room appears at most once per slot. Iterating
// the secondary indexes built during enumeration avoids a linear scan of
// every candidate per teacher/class/room × slot pair (spec.md §9).
func addUniquenessConstraints(model *cpsat.CpModel, built *BuiltModel, in BuildInput) {
	for _, candidates := range in.Enumeration.byTeacherSlot {
		vars := built.varsFor(candidates)
		model.AddLinearConstraint(cpsat.Sum(vars...), cpsat.OpLessOrEqual, 1)
	}
	for _, candidates := range in.Enumeration.byClassSlot {
		vars := built.varsFor(candidates)
		model.AddLinearConstraint(cpsat.Sum(vars...), cpsat.OpLessOrEqual, 1)
	}
	for _, candidates := range in.Enumeration.byRoomSlot {
		vars := built.varsFor(candidates)
		model.AddLinearConstraint(cpsat.Sum(vars...), cpsat.OpLessOrEqual, 1)
	}
}

// daySlots groups time slots by day, sorted by period index ascending.
func daySlots(slots []models.TimeSlot) map[int][]models.TimeSlot {
	byDay := make(map[int][]models.TimeSlot)
	for _, s := range slots {
		byDay[s.DayIndex] = append(byDay[s.DayIndex], s)
	}
	for day := range byDay {
		sort.Slice(byDay[day], func(i, j int) bool {
			return byDay[day][i].PeriodIndex < byDay[day][j].PeriodIndex
		})
	}
	return byDay
}

// addConsecutiveBlocks implements H5 (spec.md §4.3): for every allocation
// requiring consecutive periods, a start indicator y[A,d,i,r] is created for
// each day/start-period/room combination that can host the whole block, an
// implication pins each offset's chosen tuple to that room, and exactly one
// start indicator is selected.
func addConsecutiveBlocks(model *cpsat.CpModel, built *BuiltModel, in BuildInput) {
	byDay := daySlots(in.TimeSlots)
	days := make([]int, 0, len(byDay))
	for d := range byDay {
		days = append(days, d)
	}
	sort.Ints(days)

	for _, allocation := range in.Allocations {
		subject, ok := in.Subjects[allocation.SubjectID]
		if !ok || !subject.RequiresConsecutivePeriods {
			continue
		}
		k := in.Enumeration.RemainingPeriods[allocation.ID]
		if k < 2 {
			continue
		}

		rooms := in.Enumeration.RoomsUsedBy(allocation.ID, k)
		if len(rooms) == 0 {
			built.InfeasibleConsecutiveAllocations = append(built.InfeasibleConsecutiveAllocations, allocation)
			continue
		}

		var starts []cpsat.Literal
		for _, d := range days {
			slots := byDay[d]
			for i := 0; i+k <= len(slots); i++ {
				if !consecutiveByPeriod(slots[i : i+k]) {
					continue
				}
				for _, roomID := range rooms {
					offsetVars, complete := blockOffsetVars(built, in.Enumeration, allocation.ID, roomID, slots[i:i+k])
					if !complete {
						continue
					}
					y := model.NewBoolVar(fmt.Sprintf("y_%s_d%d_i%d_r%s", allocation.ID, d, slots[i].PeriodIndex, roomID))
					for _, v := range offsetVars {
						model.AddLinearConstraint(cpsat.Sum(v...), cpsat.OpGreaterOrEqual, 1).OnlyEnforceIf(y.True())
					}
					starts = append(starts, y.True())
				}
			}
		}

		if len(starts) == 0 {
			built.InfeasibleConsecutiveAllocations = append(built.InfeasibleConsecutiveAllocations, allocation)
			continue
		}
		sum := cpsat.NewLinearExpr(0)
		for _, lit := range starts {
			sum = sum.AddTerm(1, lit.Var())
		}
		model.AddLinearConstraint(sum, cpsat.OpEqual, 1)
	}
}

// consecutiveByPeriod reports whether slots hold back-to-back period
// indices (i, i+1, ..., i+k-1).
func consecutiveByPeriod(slots []models.TimeSlot) bool {
	for j := 1; j < len(slots); j++ {
		if slots[j].PeriodIndex != slots[j-1].PeriodIndex+1 {
			return false
		}
	}
	return true
}

// blockOffsetVars returns, for each offset j in the block, the decision
// variables matching (allocation, room, slot(d,i+j), j); complete is false
// if any offset has no such candidate, meaning this (day, start, room) can't
// host the block at all.
func blockOffsetVars(built *BuiltModel, enum *EnumerationResult, allocationID, roomID string, slots []models.TimeSlot) ([][]cpsat.BoolVar, bool) {
	offsetVars := make([][]cpsat.BoolVar, len(slots))
	for j, slot := range slots {
		var vars []cpsat.BoolVar
		for _, c := range enum.ForAllocationPeriod(allocationID, j) {
			if c.RoomID == roomID && c.TimeSlotID == slot.ID {
				if v, ok := built.Var(c); ok {
					vars = append(vars, v)
				}
			}
		}
		if len(vars) == 0 {
			return nil, false
		}
		offsetVars[j] = vars
	}
	return offsetVars, true
}
