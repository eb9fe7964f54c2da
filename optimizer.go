package dappi

// Optimize drives p's [Solver] to a lexicographically optimal model: first minimizing the number
// of true unlock variables, then — having pinned that count — minimizing the number of true
// version-penalty variables. It returns [ErrConflict] if the initial, unconstrained solve is
// already unsatisfiable.
//
// Selections are snapshotted onto p's name table after every improving (satisfiable) probe, so
// that if a later probe fails unexpectedly the last good snapshot remains the result — the
// optimizer never regresses a selection it has already proven achievable.
func Optimize(p *Problem) error {
	sat, err := p.Solver.Solve()
	if err != nil {
		return err
	}
	if !sat {
		return ErrConflict
	}
	p.snapshotSelections()

	if len(p.unlocks) > 0 {
		u := BuildSequentialCounter(p.Solver, p.unlocks)
		tightest, err := minimizeCounter(p, u)
		if err != nil {
			return err
		}
		if tightest != 0 {
			p.Solver.AssertUnit(Neg(u.AtLeast(tightest)))
		}
	}

	if len(p.penalties) > 0 {
		pen := BuildSequentialCounter(p.Solver, p.penalties)
		if _, err := minimizeCounter(p, pen); err != nil {
			return err
		}
	}

	return nil
}

// minimizeCounter performs an upper-bound (binary) search over c for the smallest k such that
// asserting "fewer than k of c's inputs are true" (¬c.AtLeast(k)) as an assumption still leaves the
// problem satisfiable. It snapshots selections on every satisfiable probe and returns the tightest
// k found to be satisfiable, or 0 if even the loosest bound (k = c.Size(), "fewer than all of them
// are true") was never satisfiable — which can only happen if the initial, unconstrained solve
// (with no cardinality assumption at all) was itself the best achievable, in which case the
// returned 0 signals "nothing to pin".
//
// The search space is k = 1..c.Size(): probing k asks "can we do with strictly fewer than k
// violations?". The predicate "solve(¬c.AtLeast(k)) is satisfiable" is monotone in k (if fewer
// than k-1 violations is feasible, so is fewer than k), so a classical binary search over the
// index range is valid.
func minimizeCounter(p *Problem, c CounterSet) (int, error) {
	lo, hi := 1, c.Size()
	best := 0
	for lo <= hi {
		mid := lo + (hi-lo)/2
		sat, err := p.Solver.Solve(Neg(c.AtLeast(mid)))
		if err != nil {
			return 0, err
		}
		if sat {
			best = mid
			p.snapshotSelections()
			hi = mid - 1
		} else {
			lo = mid + 1
		}
	}
	if best != 0 {
		// The binary search's last probe is not necessarily the tightest one (it may have moved on
		// to test a smaller, ultimately infeasible, k after finding best satisfiable). Re-probe the
		// tightest known-satisfiable bound so the snapshot left on p reflects it.
		sat, err := p.Solver.Solve(Neg(c.AtLeast(best)))
		if err != nil {
			return 0, err
		}
		if !sat {
			panic("dappi: previously satisfiable cardinality bound became unsatisfiable")
		}
		p.snapshotSelections()
	}
	return best, nil
}
