package dappi_test

import (
	"strings"
	"testing"

	. "github.com/flokart-world/dappi"
	fs "github.com/flokart-world/dappi/internal/test/fakestate"
)

func TestWriteDirectivesSortedByName(t *testing.T) {
	t.Parallel()
	st, err := fs.BuildValid(
		fs.Package("z@1.0.0", "1.0.0", fs.DependsOn("alpha", "")),
		fs.Name("zeta", fs.Known("z@1.0.0")),
		fs.Package("a@1.0.0", "1.0.0"),
		fs.Name("alpha", fs.Known("a@1.0.0")),
		fs.Entry("z@1.0.0"),
	)
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
	if want := "DAPPI_SELECT(alpha a@1.0.0)\nDAPPI_SELECT(zeta z@1.0.0)\n"; sb.String() != want {
		t.Errorf("WriteDirectives() = %q, want %q", sb.String(), want)
	}
}
