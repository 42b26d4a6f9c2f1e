package cpsat

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCpSolverExactlyOneConstraint(t *testing.T) {
	model := NewCpModel()
	a := model.NewBoolVar("a")
	b := model.NewBoolVar("b")
	c := model.NewBoolVar("c")
	model.AddLinearConstraint(Sum(a, b, c), OpEqual, 1)

	solver := NewCpSolver(model)
	status := solver.Solve(context.Background(), SolveParameters{TimeLimitSeconds: 1, RandomSeed: 0})

	require.Equal(t, StatusOptimal, status)
	count := 0
	for _, v := range []BoolVar{a, b, c} {
		if solver.BooleanValue(v) {
			count++
		}
	}
	assert.Equal(t, 1, count)
}

func TestCpSolverOnlyEnforceIf(t *testing.T) {
	model := NewCpModel()
	cond := model.NewBoolVar("cond")
	a := model.NewBoolVar("a")
	b := model.NewBoolVar("b")
	// When cond holds, a and b must both hold too.
	model.AddBoolAnd([]Literal{a.True(), b.True()}).OnlyEnforceIf(cond.True())
	model.AddLinearConstraint(Sum(cond), OpEqual, 1)

	solver := NewCpSolver(model)
	status := solver.Solve(context.Background(), SolveParameters{TimeLimitSeconds: 1, RandomSeed: 1})

	require.Contains(t, []Status{StatusOptimal, StatusFeasible}, status)
	assert.True(t, solver.BooleanValue(cond))
	assert.True(t, solver.BooleanValue(a))
	assert.True(t, solver.BooleanValue(b))
}

func TestCpSolverMaxEquality(t *testing.T) {
	model := NewCpModel()
	a := model.NewIntVar(0, 5, "a")
	b := model.NewIntVar(0, 5, "b")
	target := model.NewIntVar(0, 5, "max")
	model.AddLinearConstraint(NewLinearExpr(0).AddIntTerm(1, a), OpEqual, 3)
	model.AddLinearConstraint(NewLinearExpr(0).AddIntTerm(1, b), OpEqual, 2)
	model.AddMaxEquality(target, []IntVar{a, b})

	solver := NewCpSolver(model)
	status := solver.Solve(context.Background(), SolveParameters{TimeLimitSeconds: 1, RandomSeed: 2})

	require.Equal(t, StatusOptimal, status)
	assert.Equal(t, int64(3), solver.Value(target))
}

func TestCpSolverMinimizesObjective(t *testing.T) {
	model := NewCpModel()
	a := model.NewBoolVar("a")
	b := model.NewBoolVar("b")
	model.AddLinearConstraint(Sum(a, b), OpEqual, 1)
	model.Minimize(Weighted(map[BoolVar]int64{a: 10, b: 1}))

	solver := NewCpSolver(model)
	status := solver.Solve(context.Background(), SolveParameters{TimeLimitSeconds: 1, RandomSeed: 3})

	require.Equal(t, StatusFeasible, status)
	assert.False(t, solver.BooleanValue(a))
	assert.True(t, solver.BooleanValue(b))
}

func TestCpModelValidateRejectsBadBounds(t *testing.T) {
	model := NewCpModel()
	model.NewIntVar(5, 1, "broken")

	solver := NewCpSolver(model)
	status := solver.Solve(context.Background(), SolveParameters{TimeLimitSeconds: 1})

	assert.Equal(t, StatusModelInvalid, status)
}

func TestEngineVersionIsDocumented(t *testing.T) {
	assert.Equal(t, "timegrid-refsolver/0.1", EngineVersion)
}
