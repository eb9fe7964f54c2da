// Package dappi resolves package dependencies by compiling them into a weighted Boolean
// satisfiability (SAT) problem and handing it to a CDCL solver.
//
// # Model
//
// A [Package] is a concrete, versioned artifact identified by a string id (see [PackageId]). A
// logical dependency label — a "name" in the ingested [State] — may be satisfied by any one of
// several packages at different versions; internally each such candidate pairs a SAT variable
// with the package it would select. A package's own [DependencyEdge] names another name and a
// version range that must be satisfied by whichever candidate of that name ends up selected.
//
// [DecodeState] builds a [State] from the ingested JSON shape described in SPEC_FULL.md §6.
// [Encode] walks a [State] and emits the
// corresponding hard clauses, the version-penalty soft variables, and the lock-unlock soft
// variables into a solver built via [NewSolver], returning a [Problem]. [Optimize] then
// lexicographically minimizes unlocks, then penalties, snapshotting the best-known selection for
// each name after every improving solve; [Problem.Selection] reads it back, and [Resolve]
// sequences all three steps for a single JSON state.
//
// # Why SAT
//
// Expressing "at most one candidate per name", "a selected package's dependency must be satisfied
// by some selected candidate", and "prefer fewer unlocks, then fewer downgrades" as arbitrary
// Boolean formulas lets an off-the-shelf CDCL solver carry all of the combinatorial search. The
// two soft objectives are encoded as [CounterSet] cardinality networks (see
// [BuildSequentialCounter]) so that "fewer than k of these are true" can be asked of the solver as
// a single assumption literal rather than re-deriving a sum each time.
//
// # Concurrency
//
// [Encode] and [Optimize] are synchronous and single-threaded; a [*Solver] must not be shared
// across goroutines while a resolution is in flight. The only place this package's call graph
// forks goroutines is in the read-only [SelectionGraph] walker, which inspects an already-resolved
// [Selection] set.
package dappi
