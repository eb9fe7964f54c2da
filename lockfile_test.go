package dappi_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	. "github.com/flokart-world/dappi"
	fs "github.com/flokart-world/dappi/internal/test/fakestate"
)

func TestLockFileRoundTrip(t *testing.T) {
	t.Parallel()
	st := fs.TestBuild(t,
		fs.Package("svc@1.0.0", "1.0.0",
			fs.Location("https://example.test/svc-1.0.0.tgz"),
			fs.Integrity("sha256", "deadbeef"),
			fs.DependsOn("util", ""),
		),
		fs.Package("util@1.0.0", "1.0.0"),
		fs.Name("svc", fs.Known("svc@1.0.0"), fs.Selected("svc@1.0.0")),
		fs.Name("util", fs.Known("util@1.0.0")),
		fs.Entry("svc@1.0.0"),
	)
	p, err := Encode(st)
	if err != nil {
		t.Fatal(err)
	}
	if err := Optimize(p); err != nil {
		t.Fatal(err)
	}
	lf := BuildLockFile(st, p)

	var first bytes.Buffer
	if err := lf.Encode(&first); err != nil {
		t.Fatal(err)
	}

	decoded, err := DecodeLockFile(strings.NewReader(first.String()))
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(lf, decoded, cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("decoded lockfile differs from original (-want +got):\n%s", diff)
	}

	// Re-encoding the decoded form must produce byte-identical output (invariant 8 in SPEC_FULL.md
	// §8).
	var second bytes.Buffer
	if err := decoded.Encode(&second); err != nil {
		t.Fatal(err)
	}
	if first.String() != second.String() {
		t.Errorf("re-encoded lockfile differs from the original:\n--- first ---\n%s\n--- second ---\n%s", first.String(), second.String())
	}
}

func TestLockFileEncodeIsStable(t *testing.T) {
	t.Parallel()
	lf := &LockFile{
		Version: 1,
		Packages: map[string]LockPackage{
			"zeta":  {Version: "1.0.0"},
			"alpha": {Version: "2.0.0", Dependencies: []string{"zeta", "beta"}},
		},
	}
	var a, b bytes.Buffer
	if err := lf.Encode(&a); err != nil {
		t.Fatal(err)
	}
	if err := lf.Encode(&b); err != nil {
		t.Fatal(err)
	}
	if a.String() != b.String() {
		t.Errorf("encoding the same LockFile twice produced different output")
	}
	out := a.String()
	alphaIdx := strings.Index(out, `"alpha"`)
	zetaIdx := strings.Index(out, `"zeta"`)
	if alphaIdx < 0 || zetaIdx < 0 || alphaIdx > zetaIdx {
		t.Errorf("Encode() did not list packages in key-sorted order:\n%s", out)
	}
	for _, want := range []string{`"version": 1`, `"packages":`, `"version": "2.0.0"`, `"dependencies":`} {
		if !strings.Contains(out, want) {
			t.Errorf("Encode() output missing %q:\n%s", want, out)
		}
	}
}

func TestDecodeLockFileMalformed(t *testing.T) {
	t.Parallel()
	_, err := DecodeLockFile(strings.NewReader(`packages:
  foo: {}
`))
	if err == nil {
		t.Fatal("DecodeLockFile() error = nil, want an error for a package missing its version")
	}
}
