package dappi

import (
	"fmt"

	"github.com/crillab/gophersat/solver"
)

// Var identifies a Boolean variable allocated from a [Solver]. [Solver.NewVar] allocates
// variables starting from the zero Var, so a zero Var is itself a valid, real variable and must
// not be used as a sentinel for "no variable" — callers that need one track presence separately
// (e.g. with a boolean flag alongside the Var).
type Var = solver.Var

// Pos returns the literal asserting that v is true.
func Pos(v Var) int { return int(v.Int()) }

// Neg returns the literal asserting that v is false.
func Neg(v Var) int { return -int(v.Int()) }

// Solver is the minimal SAT interface this package's encoder and optimizer consume: allocate a
// variable, add a clause, solve under optional assumption literals, and read back a model value.
//
// [github.com/crillab/gophersat/solver] does not expose true incremental assumption push/pop the
// way the underlying minisat-family solvers it wraps do internally; its [solver.Problem] is built
// once from a closed set of constraints and solved once. Solver works around this by keeping the
// permanent clause set in memory and rebuilding a fresh [solver.Problem]/[solver.Solver] pair for
// every [Solver.Solve] call, appending the probe's assumption literals as extra unit clauses that
// are discarded when Solve returns, whatever its result; a literal becomes part of the permanent
// clause set only when the caller passes it to [Solver.AssertUnit]: clauses are append-only
// between optimization phases, while assumptions are not.
type Solver struct {
	nextVar Var
	clauses []solver.PBConstr
	model   []bool
}

// NewSolver returns an empty [Solver] with no variables and no clauses.
func NewSolver() *Solver {
	return &Solver{}
}

// NewVar allocates and returns a fresh variable.
func (s *Solver) NewVar() Var {
	v := s.nextVar
	s.nextVar++
	return v
}

// AddClause asserts the disjunction of the given literals (see [Pos] and [Neg]) as a permanent
// clause.
func (s *Solver) AddClause(lits ...int) {
	s.clauses = append(s.clauses, solver.PropClause(lits...))
}

// AssertUnit permanently asserts a single literal, e.g. to pin the tightest satisfiable
// cardinality assumption found by an upper-bound search between optimization phases.
func (s *Solver) AssertUnit(lit int) {
	s.AddClause(lit)
}

// Solve searches for a model that entails every assumption literal, in addition to every
// permanent clause added so far via [Solver.AddClause]. It returns true iff such a model exists;
// after a true result, [Solver.ModelValue] reads the model. The assumption literals are not
// retained after Solve returns; to make an assumption permanent, pass it to [Solver.AssertUnit]
// and call Solve again.
func (s *Solver) Solve(assumptions ...int) (bool, error) {
	constrs := make([]solver.PBConstr, len(s.clauses), len(s.clauses)+len(assumptions))
	copy(constrs, s.clauses)
	for _, a := range assumptions {
		constrs = append(constrs, solver.PropClause(a))
	}
	prob := solver.ParsePBConstrs(constrs)
	inner := solver.New(prob)
	switch status := inner.Solve(); status {
	case solver.Sat:
		s.model = inner.Model()
		return true, nil
	case solver.Unsat:
		return false, nil
	default:
		return false, fmt.Errorf("sat solver returned an indeterminate status: %v", status)
	}
}

// ModelValue reports v's assignment in the most recent satisfying model found by
// [Solver.Solve]. It panics if Solve has never returned true. A variable never referenced by any
// clause reached by the solver has no constraint on its value and is reported false, which is
// always a safe reading for such a variable.
func (s *Solver) ModelValue(v Var) bool {
	if s.model == nil {
		panic("dappi: ModelValue called before any satisfying Solve")
	}
	i := int(v)
	if i < 0 || i >= len(s.model) {
		return false
	}
	return s.model[i]
}
