package dappi

import (
	"encoding/json"
	"fmt"
	"io"
)

// PackageId identifies a concrete, versioned package. It is opaque to this package beyond string
// equality; the version used for ordering and range satisfaction is carried separately on
// [Package].
type PackageId string

// Integrity carries an opaque algorithm/digest pair. dappi never verifies integrity; it only
// round-trips whatever was ingested, through to the lockfile it writes.
type Integrity struct {
	Algorithm string `json:"algorithm"`
	Digest    string `json:"digest"`
}

// DependencyEdge is a single required-dependency edge: a logical name and the version range that
// must be satisfied by whichever candidate of that name is selected. An empty RequiredVersion
// means "any version".
type DependencyEdge struct {
	Name            string `json:"name"`
	RequiredVersion string `json:"requiredVersion"`
}

// Package is one entry of the ingested "daps" map: an id, its version, and its own dependency
// edges.
type Package struct {
	Id           PackageId        `json:"-"`
	Version      string           `json:"version"`
	Location     string           `json:"location,omitempty"`
	Integrity    *Integrity       `json:"integrity,omitempty"`
	Dependencies []DependencyEdge `json:"dependencies,omitempty"`
}

// NameInput is one entry of the ingested "names" map.
type NameInput struct {
	Name     string      `json:"-"`
	Selected PackageId   `json:"selected,omitempty"`
	Locked   PackageId   `json:"locked,omitempty"`
	Known    []PackageId `json:"known,omitempty"`
}

// State is the fully ingested solver input: every known package, every logical name and its
// candidate set, and an optional entry point that must be part of every solution.
type State struct {
	Packages map[PackageId]*Package
	Names    map[string]*NameInput
	Entry    PackageId
}

// jsonState mirrors the wire shape of the JSON state described in SPEC_FULL.md §6:
// {"daps": {...}, "names": {...}, "entry": "..."}.
type jsonState struct {
	Daps  map[string]*Package   `json:"daps"`
	Names map[string]*NameInput `json:"names"`
	Entry string                `json:"entry"`
}

// DecodeState reads and validates a JSON state from r, in the shape documented in SPEC_FULL.md
// §6. Absent "daps"/"names" sections are treated as empty;
// missing "requiredVersion" fields default to the universal range.
//
// DecodeState itself only checks structural validity (well-formed JSON, the expected shape); it
// does not check that every referenced id resolves to a known package. Call [State.Validate] for
// that, or rely on [Encode] to do so.
func DecodeState(r io.Reader) (*State, error) {
	var js jsonState
	dec := json.NewDecoder(r)
	if err := dec.Decode(&js); err != nil {
		return nil, fmt.Errorf("%w: decoding JSON state: %v", ErrMalformed, err)
	}
	st := &State{
		Packages: make(map[PackageId]*Package, len(js.Daps)),
		Names:    make(map[string]*NameInput, len(js.Names)),
		Entry:    PackageId(js.Entry),
	}
	for id, p := range js.Daps {
		if p == nil {
			return nil, fmt.Errorf("%w: dap %q has no content", ErrMalformed, id)
		}
		p.Id = PackageId(id)
		if p.Version == "" {
			return nil, fmt.Errorf("%w: dap %q is missing a version", ErrMalformed, id)
		}
		for i, dep := range p.Dependencies {
			if dep.Name == "" {
				return nil, fmt.Errorf("%w: dap %q dependency %d has no name", ErrMalformed, id, i)
			}
		}
		st.Packages[PackageId(id)] = p
	}
	for name, n := range js.Names {
		if n == nil {
			n = &NameInput{}
		}
		n.Name = name
		st.Names[name] = n
	}
	return st, nil
}

// Validate checks that every id referenced from a name's candidate list, from the locked map, or
// from the entry point, resolves to a known package.
func (st *State) Validate() error {
	resolves := func(id PackageId) bool {
		_, ok := st.Packages[id]
		return ok
	}
	for name, n := range st.Names {
		for _, id := range n.Known {
			if !resolves(id) {
				return fmt.Errorf("%w: name %q known candidate %q", ErrUnresolvedReference, name, id)
			}
		}
		if n.Locked != "" && !resolves(n.Locked) {
			return fmt.Errorf("%w: name %q locked candidate %q", ErrUnresolvedReference, name, n.Locked)
		}
		if n.Selected != "" && !resolves(n.Selected) {
			return fmt.Errorf("%w: name %q selected candidate %q", ErrUnresolvedReference, name, n.Selected)
		}
	}
	if st.Entry != "" && !resolves(st.Entry) {
		return fmt.Errorf("%w: entry point %q", ErrUnresolvedReference, st.Entry)
	}
	return nil
}
