// Package cpsat defines the abstract constraint-programming capability set
// the timetable core depends on (spec.md §9): boolean and bounded-integer
// decision variables, linear constraints, half-reified OnlyEnforceIf,
// AddMaxEquality, boolean conjunctions, and a minimization objective. The
// reference implementation in this package (CpModel/CpSolver) is a
// deterministic local-search backend; a production deployment may supply a
// different Solve implementation against the same Model interface (Google
// OR-Tools CP-SAT is the reference engine the original system used) without
// touching the enumerator, model builder, or search driver.
package cpsat

// BoolVar is an opaque handle to a boolean decision variable.
type BoolVar struct {
	id   int
	name string
}

// Name returns the variable's debug name.
func (b BoolVar) Name() string { return b.name }

// True returns the literal asserting b holds.
func (b BoolVar) True() Literal { return Literal{v: b} }

// Not returns the literal asserting b does not hold.
func (b BoolVar) Not() Literal { return Literal{v: b, negated: true} }

// IntVar is an opaque handle to a bounded integer decision variable.
type IntVar struct {
	id     int
	name   string
	lb, ub int64
}

// Name returns the variable's debug name.
func (v IntVar) Name() string { return v.name }

// Literal is a boolean variable or its negation, the operand of OnlyEnforceIf
// and AddBoolAnd (spec.md §9's "half-reified OnlyEnforceIf").
type Literal struct {
	v       BoolVar
	negated bool
}

// Not returns the complementary literal.
func (l Literal) Not() Literal {
	return Literal{v: l.v, negated: !l.negated}
}

// Var returns the underlying boolean variable. Callers that only ever
// construct literals via BoolVar.True() (never Not()) use this to fold a
// slice of literals back into plain variables for a linear sum.
func (l Literal) Var() BoolVar { return l.v }
