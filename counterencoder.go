package dappi

// BuildSequentialCounter emits clauses defining a sequential (Sinz-style staircase) cardinality
// counter over violations and returns the resulting [CounterSet]. The encoding is one-directional:
// it only asserts that C[k] is true whenever at least k of violations are true, never the
// converse. That is sufficient for an upper-bound search over the counter via assumption
// negation (see [Optimize]) and is deliberately cheaper than an equisatisfiable two-directional
// encoding, which this package has no need for.
//
// For an empty violations slice, BuildSequentialCounter returns an empty [CounterSet]; callers
// must not call [CounterSet.AtLeast] on it.
func BuildSequentialCounter(s *Solver, violations []Var) CounterSet {
	n := len(violations)
	if n == 0 {
		return CounterSet{}
	}

	// row holds c[last-1, 1..last] going into each iteration, and c[last, 1..last+1] coming out.
	c01 := s.NewVar()
	s.AddClause(Neg(violations[0]), Pos(c01)) // V[0] -> c[0,1]
	row := []Var{c01}

	for last := 1; last < n; last++ {
		v := violations[last]
		prev := row
		next := make([]Var, last+1)

		// Case B': num = 1.
		c1 := s.NewVar()
		s.AddClause(Neg(prev[0]), Pos(c1)) // c[last-1,1] -> c[last,1]
		s.AddClause(Neg(v), Pos(c1))       // V[last] -> c[last,1]
		next[0] = c1

		// Case B: 1 < num <= last.
		for num := 2; num <= last; num++ {
			cNum := s.NewVar()
			s.AddClause(Neg(prev[num-1]), Pos(cNum))           // c[last-1,num] -> c[last,num]
			s.AddClause(Neg(v), Neg(prev[num-2]), Pos(cNum)) // V[last] & c[last-1,num-1] -> c[last,num]
			next[num-1] = cNum
		}

		// Case C: num = last+1 (cap).
		cCap := s.NewVar()
		s.AddClause(Neg(v), Neg(prev[last-1]), Pos(cCap)) // V[last] & c[last-1,last] -> c[last,last+1]
		next[last] = cCap

		row = next
	}

	return CounterSet{vars: row}
}
