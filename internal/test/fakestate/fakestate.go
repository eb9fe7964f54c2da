// Package fakestate makes it easy to build synthetic [dappi.State] solver input to facilitate
// testing, via a small functional-options builder instead of embedding JSON literals in test
// bodies.
package fakestate

import (
	"fmt"
	"testing"

	"github.com/flokart-world/dappi"
)

type config struct {
	st *dappi.State
}

// An Option adds one package or one name to a state under construction.
type Option func(*config) error

// A PackageOption customizes a package added with [Package].
type PackageOption func(*dappi.Package)

// A NameOption customizes a name added with [Name].
type NameOption func(*dappi.NameInput)

// Location returns a [PackageOption] that sets a package's location.
func Location(loc string) PackageOption {
	return func(p *dappi.Package) { p.Location = loc }
}

// Integrity returns a [PackageOption] that sets a package's integrity record.
func Integrity(algorithm, digest string) PackageOption {
	return func(p *dappi.Package) {
		p.Integrity = &dappi.Integrity{Algorithm: algorithm, Digest: digest}
	}
}

// DependsOn returns a [PackageOption] that adds a dependency edge naming another logical name and
// the version range it must satisfy. An empty requiredVersion means "any version".
func DependsOn(name, requiredVersion string) PackageOption {
	return func(p *dappi.Package) {
		p.Dependencies = append(p.Dependencies, dappi.DependencyEdge{Name: name, RequiredVersion: requiredVersion})
	}
}

// Package returns an [Option] that adds a package with the given id and version to the state
// under construction.
func Package(id dappi.PackageId, version string, opts ...PackageOption) Option {
	return func(cfg *config) error {
		if _, dup := cfg.st.Packages[id]; dup {
			return fmt.Errorf("duplicate package id %q", id)
		}
		if version == "" {
			return fmt.Errorf("package %q has no version", id)
		}
		p := &dappi.Package{Id: id, Version: version}
		for _, opt := range opts {
			opt(p)
		}
		cfg.st.Packages[id] = p
		return nil
	}
}

// Known returns a [NameOption] that appends id to a name's candidate list.
func Known(id dappi.PackageId) NameOption {
	return func(n *dappi.NameInput) { n.Known = append(n.Known, id) }
}

// Locked returns a [NameOption] that sets a name's locked candidate.
func Locked(id dappi.PackageId) NameOption {
	return func(n *dappi.NameInput) { n.Locked = id }
}

// Selected returns a [NameOption] that sets a name's previously selected candidate.
func Selected(id dappi.PackageId) NameOption {
	return func(n *dappi.NameInput) { n.Selected = id }
}

// Name returns an [Option] that adds a logical name with the given candidate options to the state
// under construction.
func Name(name string, opts ...NameOption) Option {
	return func(cfg *config) error {
		if _, dup := cfg.st.Names[name]; dup {
			return fmt.Errorf("duplicate name %q", name)
		}
		n := &dappi.NameInput{Name: name}
		for _, opt := range opts {
			opt(n)
		}
		cfg.st.Names[name] = n
		return nil
	}
}

// Entry returns an [Option] that sets the state's entry point package id.
func Entry(id dappi.PackageId) Option {
	return func(cfg *config) error {
		cfg.st.Entry = id
		return nil
	}
}

// Build assembles a [dappi.State] from the given options, applied in order. It does not call
// [dappi.State.Validate]; use [BuildValid] when a test wants validation, or call Validate
// explicitly when a test wants a malformed reference to survive construction.
func Build(opts ...Option) (*dappi.State, error) {
	cfg := &config{st: &dappi.State{
		Packages: map[dappi.PackageId]*dappi.Package{},
		Names:    map[string]*dappi.NameInput{},
	}}
	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}
	return cfg.st, nil
}

// BuildValid is like [Build], but also calls [dappi.State.Validate] and returns any error from
// that.
func BuildValid(opts ...Option) (*dappi.State, error) {
	st, err := Build(opts...)
	if err != nil {
		return nil, err
	}
	if err := st.Validate(); err != nil {
		return nil, err
	}
	return st, nil
}

// TestBuild is like [BuildValid], but meant for use directly inside a test function: it calls
// t.Fatal instead of returning an error.
func TestBuild(t *testing.T, opts ...Option) *dappi.State {
	t.Helper()
	st, err := BuildValid(opts...)
	if err != nil {
		t.Fatal(err)
	}
	return st
}
