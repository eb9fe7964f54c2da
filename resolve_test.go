package dappi_test

import (
	"errors"
	"strings"
	"testing"

	. "github.com/flokart-world/dappi"
	fs "github.com/flokart-world/dappi/internal/test/fakestate"
)

// These mirror the end-to-end scenarios listed in SPEC_FULL.md §8:
// S1 (entry with no deps) through S6 (lock preference dominates version preference).

func resolveDirectives(t *testing.T, opts ...fs.Option) (string, error) {
	t.Helper()
	st, err := fs.Build(opts...)
	if err != nil {
		t.Fatal(err)
	}
	p, err := Encode(st)
	if err != nil {
		return "", err
	}
	if err := Optimize(p); err != nil {
		return "", err
	}
	var sb strings.Builder
	if err := WriteDirectives(&sb, p); err != nil {
		t.Fatal(err)
	}
	return sb.String(), nil
}

func TestScenarioEntryWithNoDeps(t *testing.T) {
	t.Parallel()
	got, err := resolveDirectives(t,
		fs.Package("A1", "1.0.0"),
		fs.Name("A", fs.Known("A1")),
		fs.Entry("A1"),
	)
	if err != nil {
		t.Fatal(err)
	}
	if want := "DAPPI_SELECT(A A1)\n"; got != want {
		t.Errorf("directives = %q, want %q", got, want)
	}
}

func TestScenarioVersionPreferenceWithoutEntry(t *testing.T) {
	t.Parallel()
	got, err := resolveDirectives(t,
		fs.Package("A1", "1.0.0"),
		fs.Package("A2", "2.0.0"),
		fs.Name("A", fs.Known("A1"), fs.Known("A2")),
	)
	if err != nil {
		t.Fatal(err)
	}
	if want := "DAPPI_UNSELECT(A)\n"; got != want {
		t.Errorf("directives = %q, want %q", got, want)
	}
}

func TestScenarioForcedSelectionChoosesLatest(t *testing.T) {
	t.Parallel()
	got, err := resolveDirectives(t,
		fs.Package("A1", "1.0.0"),
		fs.Package("A2", "2.0.0"),
		fs.Name("A", fs.Known("A1"), fs.Known("A2")),
		fs.Package("ROOT", "1.0.0", fs.DependsOn("A", "")),
		fs.Name("ROOT", fs.Known("ROOT")),
		fs.Entry("ROOT"),
	)
	if err != nil {
		t.Fatal(err)
	}
	if want := "DAPPI_SELECT(A A2)\nDAPPI_SELECT(ROOT ROOT)\n"; got != want {
		t.Errorf("directives = %q, want %q", got, want)
	}
}

func TestScenarioVersionConstraintForcesDowngrade(t *testing.T) {
	t.Parallel()
	got, err := resolveDirectives(t,
		fs.Package("A1", "1.0.0"),
		fs.Package("A2", "2.0.0"),
		fs.Name("A", fs.Known("A1"), fs.Known("A2")),
		fs.Package("ROOT", "1.0.0", fs.DependsOn("A", "^1")),
		fs.Name("ROOT", fs.Known("ROOT")),
		fs.Entry("ROOT"),
	)
	if err != nil {
		t.Fatal(err)
	}
	if want := "DAPPI_SELECT(A A1)\nDAPPI_SELECT(ROOT ROOT)\n"; got != want {
		t.Errorf("directives = %q, want %q", got, want)
	}
}

func TestScenarioUnsatDependency(t *testing.T) {
	t.Parallel()
	st, err := fs.Build(
		fs.Package("A1", "1.0.0"),
		fs.Package("A2", "2.0.0"),
		fs.Name("A", fs.Known("A1"), fs.Known("A2")),
		fs.Package("ROOT", "1.0.0", fs.DependsOn("A", "^3")),
		fs.Name("ROOT", fs.Known("ROOT")),
		fs.Entry("ROOT"),
	)
	if err != nil {
		t.Fatal(err)
	}
	_, err = Encode(st)
	if err == nil {
		t.Fatal("Encode() error = nil, want ErrUnsatisfiableEdge")
	}
	if !errors.Is(err, ErrUnsatisfiableEdge) {
		t.Errorf("Encode() error = %v, want wrapping %v", err, ErrUnsatisfiableEdge)
	}
}

func TestScenarioLockPreferenceDominatesVersionPreference(t *testing.T) {
	t.Parallel()
	got, err := resolveDirectives(t,
		fs.Package("A1", "1.0.0"),
		fs.Package("A2", "2.0.0"),
		fs.Name("A", fs.Known("A1"), fs.Known("A2"), fs.Locked("A1")),
		fs.Package("ROOT", "1.0.0", fs.DependsOn("A", "")),
		fs.Name("ROOT", fs.Known("ROOT")),
		fs.Entry("ROOT"),
	)
	if err != nil {
		t.Fatal(err)
	}
	if want := "DAPPI_SELECT(A A1)\nDAPPI_SELECT(ROOT ROOT)\n"; got != want {
		t.Errorf("directives = %q, want %q", got, want)
	}
}

func TestResolveGlobalConflict(t *testing.T) {
	t.Parallel()
	// ROOT depends on both B (which needs A at ^2) and directly on A at ^1. Each edge is
	// individually satisfiable, but since only one candidate of A can ever be selected, no model
	// satisfies both at once: the initial solve must fail.
	st, err := fs.Build(
		fs.Package("A1", "1.0.0"),
		fs.Package("A2", "2.0.0"),
		fs.Name("A", fs.Known("A1"), fs.Known("A2")),
		fs.Package("B", "1.0.0", fs.DependsOn("A", "^2")),
		fs.Name("B", fs.Known("B")),
		fs.Package("ROOT", "1.0.0", fs.DependsOn("A", "^1"), fs.DependsOn("B", "")),
		fs.Name("ROOT", fs.Known("ROOT")),
		fs.Entry("ROOT"),
	)
	if err != nil {
		t.Fatal(err)
	}
	p, err := Encode(st)
	if err != nil {
		t.Fatal(err)
	}
	if err := Optimize(p); !errors.Is(err, ErrConflict) {
		t.Errorf("Optimize() error = %v, want ErrConflict", err)
	}
}

func TestResolveIdempotent(t *testing.T) {
	t.Parallel()
	build := func() (*State, error) {
		return fs.Build(
			fs.Package("A1", "1.0.0"),
			fs.Package("A2", "2.0.0"),
			fs.Name("A", fs.Known("A1"), fs.Known("A2"), fs.Locked("A1")),
			fs.Package("ROOT", "1.0.0", fs.DependsOn("A", "")),
			fs.Name("ROOT", fs.Known("ROOT")),
			fs.Entry("ROOT"),
		)
	}
	var results []string
	for i := 0; i < 3; i++ {
		st, err := build()
		if err != nil {
			t.Fatal(err)
		}
		p, err := Encode(st)
		if err != nil {
			t.Fatal(err)
		}
		if err := Optimize(p); err != nil {
			t.Fatal(err)
		}
		var sb strings.Builder
		if err := WriteDirectives(&sb, p); err != nil {
			t.Fatal(err)
		}
		results = append(results, sb.String())
	}
	for i := 1; i < len(results); i++ {
		if results[i] != results[0] {
			t.Errorf("run %d = %q, want %q (idempotence)", i, results[i], results[0])
		}
	}
}
