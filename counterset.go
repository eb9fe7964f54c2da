package dappi

// A CounterSet is an immutable sequence of variables C[1], C[2], …, C[n] over some input sequence
// V[1], …, V[n], such that in every model where at least k of V are true, C[k] is true. The
// converse is not guaranteed; see [BuildSequentialCounter].
type CounterSet struct {
	vars []Var
}

// Size returns the number of counters, i.e. the length of the input sequence the counter set was
// built from.
func (c CounterSet) Size() int {
	return len(c.vars)
}

// AtLeast returns the counter variable for "at least k of the input literals are true". k must
// satisfy 1 <= k <= c.Size(); AtLeast panics on a [CounterSet] built from an empty input.
func (c CounterSet) AtLeast(k int) Var {
	if k < 1 || k > len(c.vars) {
		panic("dappi: CounterSet.AtLeast index out of range")
	}
	return c.vars[k-1]
}

// All returns the counter variables in order, AtLeast(1) first.
func (c CounterSet) All() []Var {
	return c.vars
}
