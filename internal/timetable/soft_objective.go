package timetable

import (
	"fmt"
	"sort"

	"github.com/melsoft/timegrid/internal/models"
	"github.com/melsoft/timegrid/internal/timetable/cpsat"
)

// reifyOr creates b ⇔ (Σ vars ≥ 1), the standard two-directional
// reification idiom for "at least one of these is chosen".
func reifyOr(model *cpsat.CpModel, name string, vars []cpsat.BoolVar) cpsat.BoolVar {
	b := model.NewBoolVar(name)
	if len(vars) == 0 {
		model.AddLinearConstraint(cpsat.Sum(b), cpsat.OpEqual, 0)
		return b
	}
	model.AddLinearConstraint(cpsat.Sum(vars...), cpsat.OpGreaterOrEqual, 1).OnlyEnforceIf(b.True())
	model.AddLinearConstraint(cpsat.Sum(vars...), cpsat.OpEqual, 0).OnlyEnforceIf(b.Not())
	return b
}

// reifyAnd creates b ⇔ AND(lits).
func reifyAnd(model *cpsat.CpModel, name string, lits []cpsat.Literal) cpsat.BoolVar {
	b := model.NewBoolVar(name)
	model.AddBoolAnd(lits).OnlyEnforceIf(b.True())
	model.AddBoolAnd([]cpsat.Literal{b.True()}).OnlyEnforceIf(lits...)
	return b
}

// buildSoftObjective assembles the four weighted terms of spec.md §4.3. If
// no term applies to the given input (no candidates at all), the returned
// expression is the constant 0, matching "if the set of soft terms is
// empty, the objective is the constant 0".
func buildSoftObjective(model *cpsat.CpModel, built *BuiltModel, in BuildInput) cpsat.LinearExpr {
	objective := cpsat.NewLinearExpr(0)
	objective = objective.Plus(teacherGapTerm(model, built, in))
	objective = objective.Plus(earlyBiasTerm(built, in))
	objective = objective.Plus(dailyLoadTerm(model, built, in))
	objective = objective.Plus(allocationPresenceTerm(model, built, in))
	return objective
}

func slotsByID(slots []models.TimeSlot) map[string]models.TimeSlot {
	out := make(map[string]models.TimeSlot, len(slots))
	for _, s := range slots {
		out[s.ID] = s
	}
	return out
}

// teacherGapTerm adds +5 for every (teacher, day, i..i+2) triple where the
// teacher is busy before and after the middle period but free during it
// (spec.md §4.3, "Teacher gaps").
func teacherGapTerm(model *cpsat.CpModel, built *BuiltModel, in BuildInput) cpsat.LinearExpr {
	expr := cpsat.NewLinearExpr(0)
	byDay := daySlots(in.TimeSlots)
	days := make([]int, 0, len(byDay))
	for d := range byDay {
		days = append(days, d)
	}
	sort.Ints(days)

	teacherIDs := make([]string, 0, len(in.Teachers))
	for id := range in.Teachers {
		teacherIDs = append(teacherIDs, id)
	}
	sort.Strings(teacherIDs)

	for _, teacherID := range teacherIDs {
		for _, d := range days {
			slots := byDay[d]
			for i := 0; i+2 < len(slots); i++ {
				triple := slots[i : i+3]
				if !consecutiveByPeriod(triple) {
					continue
				}
				before := reifyOr(model, fmt.Sprintf("has_before_t%s_d%d_i%d", teacherID, d, triple[0].PeriodIndex),
					built.varsFor(in.Enumeration.ForTeacherSlot(teacherID, triple[0].ID)))
				middle := reifyOr(model, fmt.Sprintf("has_middle_t%s_d%d_i%d", teacherID, d, triple[0].PeriodIndex),
					built.varsFor(in.Enumeration.ForTeacherSlot(teacherID, triple[1].ID)))
				after := reifyOr(model, fmt.Sprintf("has_after_t%s_d%d_i%d", teacherID, d, triple[0].PeriodIndex),
					built.varsFor(in.Enumeration.ForTeacherSlot(teacherID, triple[2].ID)))
				gap := reifyAnd(model, fmt.Sprintf("gap_t%s_d%d_i%d", teacherID, d, triple[0].PeriodIndex),
					[]cpsat.Literal{before.True(), middle.Not(), after.True()})
				expr = expr.AddTerm(weightTeacherGap, gap)
			}
		}
	}
	return expr
}

// earlyBiasTerm adds -2 for every candidate of a difficult subject placed in
// period index 0 or 1 (spec.md §4.3, "Difficult-subject early-bias").
func earlyBiasTerm(built *BuiltModel, in BuildInput) cpsat.LinearExpr {
	expr := cpsat.NewLinearExpr(0)
	slots := slotsByID(in.TimeSlots)
	for key, v := range built.Vars {
		c := built.Candidates[key]
		subject, ok := in.Subjects[c.SubjectID]
		if !ok || subject.Difficulty != models.DifficultyDifficult {
			continue
		}
		slot, ok := slots[c.TimeSlotID]
		if !ok || slot.PeriodIndex > 1 {
			continue
		}
		expr = expr.AddTerm(weightEarlyBiasPenalty, v)
	}
	return expr
}

// dailyLoadTerm adds +1 per unit of each teacher's peak daily load (spec.md
// §4.3, "Teacher daily load balancing"): daily_load[T,d] = Σ of T's
// assignments on day d, max_daily[T] = max over d of daily_load[T,d].
func dailyLoadTerm(model *cpsat.CpModel, built *BuiltModel, in BuildInput) cpsat.LinearExpr {
	expr := cpsat.NewLinearExpr(0)
	byDay := daySlots(in.TimeSlots)
	days := make([]int, 0, len(byDay))
	for d := range byDay {
		days = append(days, d)
	}
	sort.Ints(days)

	teacherIDs := make([]string, 0, len(in.Teachers))
	for id := range in.Teachers {
		teacherIDs = append(teacherIDs, id)
	}
	sort.Strings(teacherIDs)

	for _, teacherID := range teacherIDs {
		var dailyLoads []cpsat.IntVar
		for _, d := range days {
			slots := byDay[d]
			sum := cpsat.NewLinearExpr(0)
			for _, slot := range slots {
				for _, v := range built.varsFor(in.Enumeration.ForTeacherSlot(teacherID, slot.ID)) {
					sum = sum.AddTerm(1, v)
				}
			}
			load := model.NewIntVar(0, int64(len(slots)), fmt.Sprintf("daily_load_t%s_d%d", teacherID, d))
			model.AddLinearConstraint(sum.AddIntTerm(-1, load), cpsat.OpEqual, 0)
			dailyLoads = append(dailyLoads, load)
		}
		if len(dailyLoads) == 0 {
			continue
		}
		maxDaily := model.NewIntVar(0, int64(len(in.TimeSlots)), fmt.Sprintf("max_daily_t%s", teacherID))
		model.AddMaxEquality(maxDaily, dailyLoads)
		expr = expr.AddIntTerm(weightDailyLoadUnit, maxDaily)
	}
	return expr
}

// allocationPresenceTerm adds -50 for every (allocation, period) that has at
// least one candidate and is actually scheduled, accelerating feasibility
// search (spec.md §4.3, "Allocation-presence strong preference").
func allocationPresenceTerm(model *cpsat.CpModel, built *BuiltModel, in BuildInput) cpsat.LinearExpr {
	expr := cpsat.NewLinearExpr(0)
	for _, allocation := range in.Allocations {
		remaining := in.Enumeration.RemainingPeriods[allocation.ID]
		for p := 0; p < remaining; p++ {
			candidates := in.Enumeration.ForAllocationPeriod(allocation.ID, p)
			if len(candidates) == 0 {
				continue
			}
			present := reifyOr(model, fmt.Sprintf("alloc_present_%s_p%d", allocation.ID, p), built.varsFor(candidates))
			expr = expr.AddTerm(weightAllocPresence, present)
		}
	}
	return expr
}
