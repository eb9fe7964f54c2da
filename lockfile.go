package dappi

import (
	"fmt"
	"io"
	"slices"
	"strconv"

	"gopkg.in/yaml.v3"
)

// LockFile is the in-memory form of the YAML lockfile format described in SPEC_FULL.md §6:
// version 1, a packages map keyed by logical name, each
// entry carrying a resolved version, optional location, optional integrity, and a sorted
// dependency-name sequence.
type LockFile struct {
	Version  int
	Packages map[string]LockPackage
}

// LockPackage is one resolved entry in a [LockFile].
type LockPackage struct {
	Version      string
	Location     string
	Integrity    *Integrity
	Dependencies []string
}

// BuildLockFile snapshots the resolved selections in p (after a call to [Optimize]) into a
// [LockFile], pulling location/integrity/dependency metadata from st. Unselected names are
// omitted.
func BuildLockFile(st *State, p *Problem) *LockFile {
	lf := &LockFile{Version: 1, Packages: map[string]LockPackage{}}
	for _, nm := range p.Names() {
		id := p.Selection(nm)
		if id == "" {
			continue
		}
		pkg := st.Packages[id]
		deps := make([]string, 0, len(pkg.Dependencies))
		for _, d := range pkg.Dependencies {
			deps = append(deps, d.Name)
		}
		slices.Sort(deps)
		lf.Packages[nm] = LockPackage{
			Version:      pkg.Version,
			Location:     pkg.Location,
			Integrity:    pkg.Integrity,
			Dependencies: deps,
		}
	}
	return lf
}

// Encode writes lf in the key-quoted, stably-ordered YAML shape the lockfile round-trip invariant
// requires: encoding the same [LockFile] twice, byte for byte, must produce identical output. This
// bypasses yaml.v3's default struct-tag-driven Marshal (whose map key ordering and quoting are not
// stable enough for a round-trip guarantee) in favor of building the [yaml.Node] tree directly.
func (lf *LockFile) Encode(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	defer enc.Close()
	return enc.Encode(lf.node())
}

func (lf *LockFile) node() *yaml.Node {
	root := &yaml.Node{Kind: yaml.MappingNode}
	appendYamlKV(root, "version", intNode(lf.Version))
	packagesNode := &yaml.Node{Kind: yaml.MappingNode}
	for _, nm := range slices.Sorted(mapKeys(lf.Packages)) {
		appendYamlKV(packagesNode, nm, lf.Packages[nm].node())
	}
	appendYamlKV(root, "packages", packagesNode)
	return root
}

func (pkg LockPackage) node() *yaml.Node {
	n := &yaml.Node{Kind: yaml.MappingNode}
	appendYamlKV(n, "version", strNode(pkg.Version))
	if pkg.Location != "" {
		appendYamlKV(n, "location", strNode(pkg.Location))
	}
	if pkg.Integrity != nil {
		in := &yaml.Node{Kind: yaml.MappingNode}
		appendYamlKV(in, "algorithm", strNode(pkg.Integrity.Algorithm))
		appendYamlKV(in, "digest", strNode(pkg.Integrity.Digest))
		appendYamlKV(n, "integrity", in)
	}
	if len(pkg.Dependencies) > 0 {
		deps := slices.Clone(pkg.Dependencies)
		slices.Sort(deps)
		dn := &yaml.Node{Kind: yaml.SequenceNode}
		for _, d := range deps {
			dn.Content = append(dn.Content, strNode(d))
		}
		appendYamlKV(n, "dependencies", dn)
	}
	return n
}

func appendYamlKV(m *yaml.Node, key string, val *yaml.Node) {
	m.Content = append(m.Content, strNode(key), val)
}

func strNode(s string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: s, Style: yaml.DoubleQuotedStyle}
}

func intNode(n int) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!int", Value: strconv.Itoa(n)}
}

// DecodeLockFile reads a [LockFile] previously written by [LockFile.Encode].
func DecodeLockFile(r io.Reader) (*LockFile, error) {
	var raw struct {
		Version  int `yaml:"version"`
		Packages map[string]struct {
			Version   string   `yaml:"version"`
			Location  string   `yaml:"location"`
			Integrity *Integrity `yaml:"integrity"`
			Dependencies []string `yaml:"dependencies"`
		} `yaml:"packages"`
	}
	if err := yaml.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("%w: decoding lockfile: %v", ErrMalformed, err)
	}
	lf := &LockFile{Version: raw.Version, Packages: make(map[string]LockPackage, len(raw.Packages))}
	for nm, p := range raw.Packages {
		if p.Version == "" {
			return nil, fmt.Errorf("%w: lockfile package %q is missing a version", ErrMalformed, nm)
		}
		lf.Packages[nm] = LockPackage{
			Version:      p.Version,
			Location:     p.Location,
			Integrity:    p.Integrity,
			Dependencies: p.Dependencies,
		}
	}
	return lf, nil
}

// Manifest is the in-memory form of the "da" manifest YAML format: a packages map keyed by
// logical name, each entry naming the version a manifest author wants and the package's own
// declared dependency ranges. It shares its shape with [LockFile] closely enough that `load -t da`
// and `load -t dal` share the directive-emission logic in [EmitLoadDirectives]. Both decoders only
// require a non-empty version; neither checks whether it is an exact version or a range.
type Manifest struct {
	Packages map[string]ManifestPackage
}

// ManifestPackage is one entry in a [Manifest].
type ManifestPackage struct {
	Version      string
	Dependencies map[string]string
}

// DecodeManifest reads the "da" manifest YAML format.
func DecodeManifest(r io.Reader) (*Manifest, error) {
	var raw struct {
		Packages map[string]struct {
			Version      string            `yaml:"version"`
			Dependencies map[string]string `yaml:"dependencies"`
		} `yaml:"packages"`
	}
	if err := yaml.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("%w: decoding manifest: %v", ErrMalformed, err)
	}
	m := &Manifest{Packages: make(map[string]ManifestPackage, len(raw.Packages))}
	for nm, p := range raw.Packages {
		if p.Version == "" {
			return nil, fmt.Errorf("%w: manifest package %q is missing a version", ErrMalformed, nm)
		}
		m.Packages[nm] = ManifestPackage{Version: p.Version, Dependencies: p.Dependencies}
	}
	return m, nil
}

// EmitLoadDirectives writes one DAPPI_SELECT directive per package recorded in a manifest or
// lockfile, synthesizing the package id as "<name>@<version>" since neither YAML format carries a
// separate opaque id the way the JSON solver-input state does.
func EmitLoadDirectives(w io.Writer, names map[string]string) error {
	for _, nm := range slices.Sorted(mapKeys(names)) {
		if _, err := fmt.Fprintf(w, "DAPPI_SELECT(%s %s@%s)\n", nm, nm, names[nm]); err != nil {
			return err
		}
	}
	return nil
}
