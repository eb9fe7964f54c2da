package dappi

import (
	"cmp"
	"fmt"
	"iter"
	"slices"
)

// candidate is one named candidate: a pairing of a fresh Boolean variable with the package it
// would select if true.
type candidate struct {
	id      PackageId
	version string
	ncVar   Var
}

// name is the SAT-encoding-time representation of a logical name: its ordered candidate list (in
// input order) and the mutable selection slot the optimizer overwrites after every improving
// model.
type name struct {
	name       string
	candidates []candidate
	hasUnlock  bool
	unlockVar  Var
	selection  PackageId // empty means unselected
}

// Problem is the result of [Encode]: the populated [Solver] plus the bookkeeping the optimizer and
// driver need — the package and name tables, and the global penalty and unlock variable lists.
type Problem struct {
	Solver      *Solver
	packageVars map[PackageId]Var
	names       map[string]*name
	nameOrder   []string
	penalties   []Var
	unlocks     []Var
}

// Names returns the logical name strings in the problem, in the same stable order used for
// output.
func (p *Problem) Names() []string {
	return p.nameOrder
}

// Selection returns the package a name currently resolves to in the optimizer's best-known model,
// or "" if the name is unselected.
func (p *Problem) Selection(nm string) PackageId {
	n := p.names[nm]
	if n == nil {
		return ""
	}
	return n.selection
}

// Penalties returns the global version-penalty soft variable list: for each name in name order,
// one variable per version group in ascending version order, the k-th of which is true whenever a
// candidate at or below the k-th version group is selected.
func (p *Problem) Penalties() []Var {
	return p.penalties
}

// Unlocks returns the global lock-deviation soft variable list.
func (p *Problem) Unlocks() []Var {
	return p.unlocks
}

// snapshotSelections records, for every name, the candidate (if any) whose nc_var is true in the
// solver's most recent satisfying model. It is called by [Optimize] after every improving probe.
func (p *Problem) snapshotSelections() {
	for _, n := range p.names {
		n.selection = ""
		for _, c := range n.candidates {
			if p.Solver.ModelValue(c.ncVar) {
				n.selection = c.id
				break
			}
		}
	}
}

// Encode translates an ingested [State] into hard clauses in a fresh [Solver], plus the two
// soft-constraint variable lists (version penalties and lock unlocks). It returns
// [ErrUnresolvedReference] if a dependency edge names an unknown name,
// and [ErrUnsatisfiableEdge] if a dependency edge's range matches no candidate of its target name.
// Encode first calls [State.Validate], so an unresolved candidate, lock, selected or entry id is
// also reported as [ErrUnresolvedReference] before any clause is emitted.
func Encode(st *State) (*Problem, error) {
	if err := st.Validate(); err != nil {
		return nil, err
	}
	s := NewSolver()
	p := &Problem{
		Solver:      s,
		packageVars: make(map[PackageId]Var, len(st.Packages)),
		names:       make(map[string]*name, len(st.Names)),
	}

	// Step 1: allocate package variables, in a deterministic (sorted) order so that repeated
	// encodings of the same input allocate variables identically (see the idempotence invariant).
	pkgIds := slices.Sorted(mapKeys(st.Packages))
	for _, id := range pkgIds {
		p.packageVars[id] = s.NewVar()
	}

	// Step 2: build names and candidates.
	nameKeys := slices.Sorted(mapKeys(st.Names))
	for _, nm := range nameKeys {
		input := st.Names[nm]
		n := &name{name: nm}
		for _, id := range input.Known {
			pkg := st.Packages[id]
			ncVar := s.NewVar()
			s.AddClause(Neg(ncVar), Pos(p.packageVars[id])) // nc_var -> pkg_var
			if input.Locked != "" && id != input.Locked {
				if !n.hasUnlock {
					n.unlockVar = s.NewVar()
					n.hasUnlock = true
					p.unlocks = append(p.unlocks, n.unlockVar)
				}
				s.AddClause(Neg(ncVar), Pos(n.unlockVar)) // nc_var -> unlock_var
			}
			n.candidates = append(n.candidates, candidate{id: id, version: pkg.Version, ncVar: ncVar})
		}
		// Pairwise exclusion.
		for i := 0; i < len(n.candidates); i++ {
			for j := i + 1; j < len(n.candidates); j++ {
				s.AddClause(Neg(n.candidates[i].ncVar), Neg(n.candidates[j].ncVar))
			}
		}
		// Version-ordered groups, multimap semantics for ties, and the penalty prefix ladder.
		groups, err := groupByVersion(n.candidates)
		if err != nil {
			return nil, err
		}
		var prefix []candidate
		for _, group := range groups {
			prefix = append(prefix, group...)
			penaltyVar := s.NewVar()
			for _, c := range prefix {
				s.AddClause(Neg(c.ncVar), Pos(penaltyVar)) // c.nc_var -> penalty_var
			}
			p.penalties = append(p.penalties, penaltyVar)
		}
		p.names[nm] = n
		p.nameOrder = append(p.nameOrder, nm)
	}

	// Step 3: dependencies.
	for _, id := range pkgIds {
		pkg := st.Packages[id]
		pkgVar := p.packageVars[id]
		for _, dep := range pkg.Dependencies {
			n := p.names[dep.Name]
			if n == nil {
				return nil, fmt.Errorf("%w: %q depends on unknown name %q", ErrUnresolvedReference, id, dep.Name)
			}
			g := s.NewVar()
			s.AddClause(Neg(pkgVar), Pos(g)) // P.pkg_var -> g
			clause := []int{Neg(g)}
			for _, c := range n.candidates {
				ok, err := versionSatisfies(c.version, dep.RequiredVersion)
				if err != nil {
					return nil, err
				}
				if ok {
					clause = append(clause, Pos(c.ncVar))
				}
			}
			if len(clause) == 1 {
				return nil, fmt.Errorf("%w: %q depends on %q with range %q, satisfied by no candidate",
					ErrUnsatisfiableEdge, id, dep.Name, dep.RequiredVersion)
			}
			s.AddClause(clause...)
		}
	}

	// Step 4: entry point.
	if st.Entry != "" {
		s.AddClause(Pos(p.packageVars[st.Entry]))
		// The entry point is also selected through one of the candidates referencing it, so the
		// name offering it resolves to it rather than being left unselected.
		var entryLits []int
		for _, nm := range p.nameOrder {
			for _, c := range p.names[nm].candidates {
				if c.id == st.Entry {
					entryLits = append(entryLits, Pos(c.ncVar))
				}
			}
		}
		if len(entryLits) > 0 {
			s.AddClause(entryLits...)
		}
	}

	return p, nil
}

func mapKeys[K cmp.Ordered, V any](m map[K]V) iter.Seq[K] {
	return func(yield func(K) bool) {
		for k := range m {
			if !yield(k) {
				return
			}
		}
	}
}

// groupByVersion partitions candidates into ascending-semver-ordered groups, with equal versions
// sharing a group (multimap semantics), following the input order within a tied group.
func groupByVersion(cands []candidate) ([][]candidate, error) {
	if len(cands) == 0 {
		return nil, nil
	}
	type bucket struct {
		key   string
		items []candidate
	}
	order := make([]string, 0, len(cands))
	buckets := make(map[string]*bucket, len(cands))
	for _, c := range cands {
		v, err := parseVersion(c.version)
		if err != nil {
			return nil, err
		}
		key := v.String()
		b, ok := buckets[key]
		if !ok {
			b = &bucket{key: key}
			buckets[key] = b
			order = append(order, key)
		}
		b.items = append(b.items, c)
	}
	slices.SortStableFunc(order, func(a, b string) int {
		less, _ := versionLess(a, b)
		switch {
		case less:
			return -1
		case a == b:
			return 0
		default:
			return 1
		}
	})
	groups := make([][]candidate, len(order))
	for i, k := range order {
		groups[i] = buckets[k].items
	}
	return groups, nil
}
