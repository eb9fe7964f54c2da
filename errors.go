package dappi

import "errors"

// Sentinel errors the driver inspects with [errors.Is] to choose an exit code and diagnostic
// message, without string-matching error text.
var (
	// ErrMalformed indicates the ingested JSON or YAML did not match the expected shape.
	ErrMalformed = errors.New("malformed input")

	// ErrUnresolvedReference indicates a candidate id, lock id, or entry id that is not present in
	// the package table.
	ErrUnresolvedReference = errors.New("unresolved reference")

	// ErrUnsatisfiableEdge indicates a dependency edge whose version range matches no candidate of
	// the target name.
	ErrUnsatisfiableEdge = errors.New("unsatisfiable dependency edge")

	// ErrConflict indicates the initial solve, before any optimization, found no satisfying model.
	ErrConflict = errors.New("dependency conflicted")
)
