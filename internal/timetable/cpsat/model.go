package cpsat

import "fmt"

// ComparisonOp identifies the relational operator of a linear constraint.
type ComparisonOp int

const (
	OpEqual ComparisonOp = iota
	OpLessOrEqual
	OpGreaterOrEqual
)

type constraintKind int

const (
	kindLinear constraintKind = iota
	kindBoolAnd
	kindMaxEquality
)

// Constraint is a hard requirement emitted against the model. A constraint
// with enforcement literals (OnlyEnforceIf) is only checked when every
// enforcement literal holds in the current assignment, mirroring CP-SAT's
// half-reification; this is how the timetable core expresses implications
// like "y[A,d,i,r] ⇒ x[...] for every period in the block" (spec.md §4.3,
// constraint H5) without the engine needing to know what a timetable is.
type Constraint struct {
	kind constraintKind

	expr  LinearExpr
	op    ComparisonOp
	bound int64

	boolAndLits []Literal

	maxTarget   IntVar
	maxOperands []IntVar

	enforce []Literal
}

// OnlyEnforceIf restricts the constraint to apply only when every given
// literal is satisfied by the current assignment.
func (c *Constraint) OnlyEnforceIf(lits ...Literal) *Constraint {
	c.enforce = append(c.enforce, lits...)
	return c
}

// Model is the abstract CP-SAT capability set the timetable core is written
// against (spec.md §9): bounded boolean/integer variables, linear
// constraints, half-reified OnlyEnforceIf, AddMaxEquality, boolean
// conjunctions, and a minimization objective. Any backend supplying this
// capability set can replace CpModel/CpSolver without changes to the
// enumerator, constraint model builder, or search driver.
type Model interface {
	NewBoolVar(name string) BoolVar
	NewIntVar(lb, ub int64, name string) IntVar
	AddLinearConstraint(expr LinearExpr, op ComparisonOp, bound int64) *Constraint
	AddBoolAnd(lits []Literal) *Constraint
	AddMaxEquality(target IntVar, vars []IntVar) *Constraint
	Minimize(expr LinearExpr)
}

// CpModel is the reference Model implementation: an in-memory variable and
// constraint store consumed by CpSolver.
type CpModel struct {
	boolVars    []BoolVar
	intVars     []IntVar
	constraints []*Constraint
	objective   *LinearExpr
}

// NewCpModel constructs an empty model.
func NewCpModel() *CpModel {
	return &CpModel{}
}

// NewBoolVar declares a new boolean decision variable.
func (m *CpModel) NewBoolVar(name string) BoolVar {
	v := BoolVar{id: len(m.boolVars), name: name}
	m.boolVars = append(m.boolVars, v)
	return v
}

// NewIntVar declares a new bounded integer decision variable.
func (m *CpModel) NewIntVar(lb, ub int64, name string) IntVar {
	v := IntVar{id: len(m.intVars), name: name, lb: lb, ub: ub}
	m.intVars = append(m.intVars, v)
	return v
}

// AddLinearConstraint requires expr to satisfy op against bound, e.g.
// Sum(xs...) == 1 for an exactly-one constraint.
func (m *CpModel) AddLinearConstraint(expr LinearExpr, op ComparisonOp, bound int64) *Constraint {
	c := &Constraint{kind: kindLinear, expr: expr, op: op, bound: bound}
	m.constraints = append(m.constraints, c)
	return c
}

// AddBoolAnd requires every literal in lits to hold (subject to
// OnlyEnforceIf). Used to force a reified indicator's consequences true.
func (m *CpModel) AddBoolAnd(lits []Literal) *Constraint {
	c := &Constraint{kind: kindBoolAnd, boolAndLits: append([]Literal{}, lits...)}
	m.constraints = append(m.constraints, c)
	return c
}

// AddMaxEquality requires target to equal the maximum value among vars,
// used for the daily-load balancing term's max_daily[T] (spec.md §4.3).
func (m *CpModel) AddMaxEquality(target IntVar, vars []IntVar) *Constraint {
	c := &Constraint{kind: kindMaxEquality, maxTarget: target, maxOperands: append([]IntVar{}, vars...)}
	m.constraints = append(m.constraints, c)
	return c
}

// Minimize sets the objective expression. Calling it more than once replaces
// the previous objective.
func (m *CpModel) Minimize(expr LinearExpr) {
	m.objective = &expr
}

func (m *CpModel) validate() error {
	for _, v := range m.intVars {
		if v.lb > v.ub {
			return fmt.Errorf("cpsat: int var %q has lower bound %d greater than upper bound %d", v.name, v.lb, v.ub)
		}
	}
	for _, c := range m.constraints {
		if c.kind == kindMaxEquality && len(c.maxOperands) == 0 {
			return fmt.Errorf("cpsat: max equality constraint for %q has no operands", c.maxTarget.name)
		}
	}
	return nil
}

// String reports the model's variable and constraint counts, useful in
// logs when a solve produces MODEL_INVALID or UNKNOWN.
func (m *CpModel) String() string {
	return fmt.Sprintf("CpModel{bools=%d ints=%d constraints=%d}", len(m.boolVars), len(m.intVars), len(m.constraints))
}
