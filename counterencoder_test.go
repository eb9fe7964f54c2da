package dappi_test

import (
	"testing"

	. "github.com/flokart-world/dappi"
)

func TestSequentialCounterEmpty(t *testing.T) {
	t.Parallel()
	s := NewSolver()
	c := BuildSequentialCounter(s, nil)
	if got, want := c.Size(), 0; got != want {
		t.Errorf("Size() = %d, want %d", got, want)
	}
}

func TestSequentialCounterAtLeastK(t *testing.T) {
	t.Parallel()
	// For every k and every number of forced-true inputs n, AtLeast(k) must be true whenever
	// n >= k (the one-directional invariant in the documentation for [BuildSequentialCounter]).
	s := NewSolver()
	const n = 5
	vars := make([]Var, n)
	for i := range vars {
		vars[i] = s.NewVar()
	}
	c := BuildSequentialCounter(s, vars)
	if got, want := c.Size(), n; got != want {
		t.Fatalf("Size() = %d, want %d", got, want)
	}
	for numTrue := 0; numTrue <= n; numTrue++ {
		forced := map[int]bool{}
		for i := 0; i < numTrue; i++ {
			forced[i] = true
		}
		for k := 1; k <= n; k++ {
			var assumptions []int
			for i, v := range vars {
				if forced[i] {
					assumptions = append(assumptions, Pos(v))
				} else {
					assumptions = append(assumptions, Neg(v))
				}
			}
			if numTrue >= k {
				assumptions = append(assumptions, Neg(c.AtLeast(k)))
				sat, err := s.Solve(assumptions...)
				if err != nil {
					t.Fatal(err)
				}
				if sat {
					t.Errorf("numTrue=%d k=%d: expected AtLeast(%d) forced true, but solver found a model with it false", numTrue, k, k)
				}
			}
		}
	}
}

func TestSequentialCounterAtLeastPanicsOutOfRange(t *testing.T) {
	t.Parallel()
	s := NewSolver()
	v := s.NewVar()
	c := BuildSequentialCounter(s, []Var{v})
	defer func() {
		if recover() == nil {
			t.Error("AtLeast(2) did not panic on a counter set of size 1")
		}
	}()
	c.AtLeast(2)
}

func TestCounterMergerSumsSizes(t *testing.T) {
	t.Parallel()
	s := NewSolver()
	m := NewCounterMerger()
	mkVars := func(n int) []Var {
		vs := make([]Var, n)
		for i := range vs {
			vs[i] = s.NewVar()
		}
		return vs
	}
	groups := [][]Var{mkVars(2), mkVars(3), mkVars(1)}
	for _, g := range groups {
		m.Add(BuildSequentialCounter(s, g))
	}
	m.Merge(s)
	merged := m.Release()
	if got, want := merged.Size(), 2+3+1; got != want {
		t.Errorf("merged Size() = %d, want %d", got, want)
	}

	// Forcing every input of every group true must force AtLeast(total) on the merged set.
	var assumptions []int
	for _, g := range groups {
		for _, v := range g {
			assumptions = append(assumptions, Pos(v))
		}
	}
	assumptions = append(assumptions, Neg(merged.AtLeast(merged.Size())))
	sat, err := s.Solve(assumptions...)
	if err != nil {
		t.Fatal(err)
	}
	if sat {
		t.Error("expected AtLeast(total) forced true when every input is true, but solver found a model with it false")
	}
}

func TestCounterMergerReleasePanicsBeforeMerge(t *testing.T) {
	t.Parallel()
	s := NewSolver()
	m := NewCounterMerger()
	m.Add(BuildSequentialCounter(s, []Var{s.NewVar()}))
	m.Add(BuildSequentialCounter(s, []Var{s.NewVar()}))
	defer func() {
		if recover() == nil {
			t.Error("Release() did not panic with two unmerged counter sets remaining")
		}
	}()
	m.Release()
}
