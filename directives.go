package dappi

import (
	"fmt"
	"io"
	"slices"
)

// WriteDirectives emits one output directive per name in p, in name-sorted order for determinism:
// "DAPPI_SELECT(<name> <id>)" for a resolved name, or "DAPPI_UNSELECT(<name>)" for a name left
// unresolved in the best-known model.
func WriteDirectives(w io.Writer, p *Problem) error {
	names := slices.Sorted(slices.Values(p.Names()))
	for _, nm := range names {
		sel := p.Selection(nm)
		var err error
		if sel == "" {
			_, err = fmt.Fprintf(w, "DAPPI_UNSELECT(%s)\n", nm)
		} else {
			_, err = fmt.Fprintf(w, "DAPPI_SELECT(%s %s)\n", nm, sel)
		}
		if err != nil {
			return err
		}
	}
	return nil
}
