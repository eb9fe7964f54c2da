package dappi

import (
	"context"
	"iter"

	"github.com/flokart-world/dappi/internal/itertools"
)

// A SelectionGraph presents an already-[Optimize]d [Problem]'s selections as a navigable graph,
// for diagnostics: which selected package's dependency edges were satisfied by which other
// selected package. This is a read-only view computed after optimization finishes; walking it
// never touches the [Solver]. It is built on the generic graph walker in walkgraph.go.
type SelectionGraph interface {
	// Root returns the [Selection] satisfying the problem's entry point, or the zero Selection if
	// there is no entry point or it is not reachable from any name's candidate list.
	Root() Selection

	// DirectDeps returns the selections that satisfy sel's package's own dependency edges.
	DirectDeps(sel Selection) iter.Seq[Selection]
}

type selectionGraph struct {
	st *State
	p  *Problem
}

// NewSelectionGraph builds a [SelectionGraph] over an already-[Optimize]d problem.
func NewSelectionGraph(st *State, p *Problem) SelectionGraph {
	return &selectionGraph{st: st, p: p}
}

func (g *selectionGraph) Root() Selection {
	if g.st.Entry == "" {
		return Selection{}
	}
	for _, nm := range g.p.Names() {
		if g.p.Selection(nm) == g.st.Entry {
			return Selection{Name: nm, Package: g.st.Entry}
		}
	}
	return Selection{}
}

func (g *selectionGraph) DirectDeps(sel Selection) iter.Seq[Selection] {
	return func(yield func(Selection) bool) {
		pkg, ok := g.st.Packages[sel.Package]
		if !ok {
			return
		}
		for _, dep := range pkg.Dependencies {
			target := g.p.Selection(dep.Name)
			if target == "" {
				continue
			}
			if !yield(Selection{Name: dep.Name, Package: target}) {
				return
			}
		}
	}
}

func selectionEdges(g SelectionGraph) func(Selection) iter.Seq2[Selection, struct{}] {
	return func(sel Selection) iter.Seq2[Selection, struct{}] {
		return itertools.Attach(g.DirectDeps(sel), struct{}{})
	}
}

func walkSelectionGraph(ctx context.Context, g SelectionGraph, start Selection,
	nodeVisit func(ctx context.Context, m Selection) (bool, error),
	edgeVisit func(ctx context.Context, p, m Selection, _ struct{}) error) error {

	return walkGraph(ctx, start, nodeVisit, nil, selectionEdges(g), edgeVisit)
}

// WalkSelectionGraph visits each [Selection] reachable from start exactly once, calling nodeVisit
// for each (if non-nil) and edgeVisit for each edge (if non-nil), via the concurrent topological
// walker in walkgraph.go.
func WalkSelectionGraph(g SelectionGraph, start Selection,
	nodeVisit func(m Selection) (bool, error),
	edgeVisit func(p, m Selection) error) error {

	var nv func(ctx context.Context, m Selection) (bool, error)
	if nodeVisit != nil {
		nv = func(_ context.Context, m Selection) (bool, error) { return nodeVisit(m) }
	}
	var ev func(ctx context.Context, p, m Selection, _ struct{}) error
	if edgeVisit != nil {
		ev = func(_ context.Context, p, m Selection, _ struct{}) error { return edgeVisit(p, m) }
	}
	return walkSelectionGraph(context.Background(), g, start, nv, ev)
}

// AllSelections walks g from start and yields every [Selection] encountered, in topological order.
func AllSelections(g SelectionGraph, start Selection) (iter.Seq[Selection], func() error) {
	return allNodes(context.Background(), g, start, walkSelectionGraph)
}
