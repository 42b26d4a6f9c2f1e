package cpsat

// LinearExpr is a weighted sum of boolean and integer variables plus a
// constant offset: the operand type for AddLinearConstraint and Minimize,
// matching the Σ-style formal notation spec.md §4.3 uses for hard and soft
// terms alike.
type LinearExpr struct {
	boolTerms []boolTerm
	intTerms  []intTerm
	constant  int64
}

type boolTerm struct {
	coeff int64
	v     BoolVar
}

type intTerm struct {
	coeff int64
	v     IntVar
}

// NewLinearExpr starts an expression with the given constant offset.
func NewLinearExpr(constant int64) LinearExpr {
	return LinearExpr{constant: constant}
}

// AddTerm returns a copy of e with coeff*v appended.
func (e LinearExpr) AddTerm(coeff int64, v BoolVar) LinearExpr {
	next := e
	next.boolTerms = append(append([]boolTerm{}, e.boolTerms...), boolTerm{coeff, v})
	return next
}

// AddIntTerm returns a copy of e with coeff*v appended for an integer
// variable, used to tie a defining variable (e.g. a daily-load counter) to
// the sum of the booleans it counts.
func (e LinearExpr) AddIntTerm(coeff int64, v IntVar) LinearExpr {
	next := e
	next.intTerms = append(append([]intTerm{}, e.intTerms...), intTerm{coeff, v})
	return next
}

// Plus returns the sum of two expressions.
func (e LinearExpr) Plus(other LinearExpr) LinearExpr {
	next := e
	next.boolTerms = append(append([]boolTerm{}, e.boolTerms...), other.boolTerms...)
	next.intTerms = append(append([]intTerm{}, e.intTerms...), other.intTerms...)
	next.constant += other.constant
	return next
}

// Sum builds the unweighted sum of the given boolean variables, the common
// shape of the hard constraints in spec.md §4.3 (H1-H4).
func Sum(vars ...BoolVar) LinearExpr {
	e := LinearExpr{}
	for _, v := range vars {
		e = e.AddTerm(1, v)
	}
	return e
}

// Weighted builds a weighted sum of one variable per weight, used for the
// soft objective terms (spec.md §4.3's teacher-gap, early-bias, daily-load,
// and allocation-presence penalties).
func Weighted(terms map[BoolVar]int64) LinearExpr {
	e := LinearExpr{}
	for v, w := range terms {
		e = e.AddTerm(w, v)
	}
	return e
}
