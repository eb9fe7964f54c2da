package dappi

import "fmt"

// A Selection is a resolved (name, package) pair: one node in a [SelectionGraph]. Selection is
// comparable so it can be used as a map key and as the node type for the generic graph walker in
// walkgraph.go.
type Selection struct {
	Name    string
	Package PackageId
}

func (s Selection) String() string {
	return fmt.Sprintf("%s=%s", s.Name, s.Package)
}

// SelectionCompare orders selections by name, then by package id, for deterministic output.
func SelectionCompare(a, b Selection) int {
	if a.Name != b.Name {
		if a.Name < b.Name {
			return -1
		}
		return 1
	}
	if a.Package != b.Package {
		if a.Package < b.Package {
			return -1
		}
		return 1
	}
	return 0
}
