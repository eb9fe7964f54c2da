package dappi

import "io"

// Resolve is the thin coordinator the driver calls for the `run` subcommand: it decodes a JSON
// state from r, encodes it into a SAT problem, runs the optimizer, and returns the resulting
// [Problem] (whose selections [WriteDirectives] or [BuildLockFile] can then render).
func Resolve(r io.Reader) (*State, *Problem, error) {
	st, err := DecodeState(r)
	if err != nil {
		return nil, nil, err
	}
	p, err := Encode(st)
	if err != nil {
		return nil, nil, err
	}
	if err := Optimize(p); err != nil {
		return nil, nil, err
	}
	return st, p, nil
}
