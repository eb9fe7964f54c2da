package dappi

import "container/heap"

// counterHeap is a priority queue of [CounterSet] ordered smallest-first by [CounterSet.Size].
type counterHeap []CounterSet

func (h counterHeap) Len() int            { return len(h) }
func (h counterHeap) Less(i, j int) bool  { return h[i].Size() < h[j].Size() }
func (h counterHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *counterHeap) Push(x any)         { *h = append(*h, x.(CounterSet)) }
func (h *counterHeap) Pop() any {
	old := *h
	n := len(old)
	v := old[n-1]
	*h = old[:n-1]
	return v
}

// A CounterMerger combines multiple [CounterSet] objects, built independently (e.g. one per
// penalty group), into a single counter set representing the sum of their inputs. It is not used
// on this package's primary optimization path — [BuildSequentialCounter] is called once over a
// single flat violation list for each of the unlock and penalty objectives — but it belongs to the
// same algorithmic vocabulary and is retained for composing counter sets built from heterogeneous
// sources.
//
// Fusing two sets of sizes p and q emits p*q+p+q clauses, so merging smallest-first keeps each
// fusion as cheap as the remaining sets allow, which matters most for unbalanced inputs.
type CounterMerger struct {
	h counterHeap
}

// NewCounterMerger returns an empty [CounterMerger].
func NewCounterMerger() *CounterMerger {
	return &CounterMerger{}
}

// Add inserts a counter set to be merged.
func (m *CounterMerger) Add(c CounterSet) {
	heap.Push(&m.h, c)
}

// Empty reports whether no counter sets remain.
func (m *CounterMerger) Empty() bool {
	return len(m.h) == 0
}

// Release returns the sole remaining counter set. Its precondition is that exactly one set
// remains, typically because [CounterMerger.Merge] was already called; Release panics otherwise.
func (m *CounterMerger) Release() CounterSet {
	if len(m.h) != 1 {
		panic("dappi: CounterMerger.Release requires exactly one remaining counter set")
	}
	return m.h[0]
}

// Merge repeatedly pops the two smallest counter sets and fuses them into one combined counter
// set over their concatenated inputs, until a single counter set remains. Its precondition is that
// at least one counter set has been added; Merge panics otherwise.
func (m *CounterMerger) Merge(s *Solver) {
	if len(m.h) == 0 {
		panic("dappi: CounterMerger.Merge requires at least one counter set")
	}
	for len(m.h) > 1 {
		l := heap.Pop(&m.h).(CounterSet)
		r := heap.Pop(&m.h).(CounterSet)
		heap.Push(&m.h, mergeCounterPair(s, l, r))
	}
}

// mergeCounterPair allocates p+q fresh counter variables M[1..p+q] for L (size p) and R (size q)
// and emits the three clause families that make M[k] true whenever at least k of L's and R's
// inputs combined are true: L[i] -> M[i], R[j] -> M[j], and L[i] & R[j] -> M[i+j].
func mergeCounterPair(s *Solver, l, r CounterSet) CounterSet {
	p, q := l.Size(), r.Size()
	m := make([]Var, p+q)
	for i := range m {
		m[i] = s.NewVar()
	}
	for i := 1; i <= p; i++ {
		s.AddClause(Neg(l.AtLeast(i)), Pos(m[i-1]))
	}
	for j := 1; j <= q; j++ {
		s.AddClause(Neg(r.AtLeast(j)), Pos(m[j-1]))
	}
	for i := 1; i <= p; i++ {
		for j := 1; j <= q; j++ {
			s.AddClause(Neg(l.AtLeast(i)), Neg(r.AtLeast(j)), Pos(m[i+j-1]))
		}
	}
	return CounterSet{vars: m}
}
