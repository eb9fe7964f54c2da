package dappi

import (
	"fmt"

	"github.com/Masterminds/semver/v3"

	"github.com/flokart-world/dappi/internal/syncmap"
)

// universalRange is the range string substituted for a missing requiredVersion field.
const universalRange = "*"

var (
	versionCache    syncmap.Map[string, *semver.Version]
	constraintCache syncmap.Map[string, *semver.Constraints]
)

func parseVersion(s string) (*semver.Version, error) {
	if v, ok := versionCache.Load(s); ok {
		return v, nil
	}
	v, err := semver.NewVersion(s)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid version %q: %v", ErrMalformed, s, err)
	}
	v, _ = versionCache.LoadOrStore(s, v)
	return v, nil
}

func parseConstraint(s string) (*semver.Constraints, error) {
	if s == "" {
		s = universalRange
	}
	if c, ok := constraintCache.Load(s); ok {
		return c, nil
	}
	c, err := semver.NewConstraint(s)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid version range %q: %v", ErrMalformed, s, err)
	}
	c, _ = constraintCache.LoadOrStore(s, c)
	return c, nil
}

// versionSatisfies reports whether the given version string satisfies the given semver range
// string, with prerelease versions always eligible for matching (unlike
// [github.com/Masterminds/semver/v3]'s default npm-style gate, which only admits a prerelease
// version against a comparator that itself names a prerelease at the same major.minor.patch). A
// prerelease version that fails the gated check is retried with its prerelease component
// stripped, so that an inclusive range such as ">=1.0.0 <2.0.0" still admits "1.5.0-beta.1".
func versionSatisfies(versionStr, rangeStr string) (bool, error) {
	v, err := parseVersion(versionStr)
	if err != nil {
		return false, err
	}
	c, err := parseConstraint(rangeStr)
	if err != nil {
		return false, err
	}
	if c.Check(v) {
		return true, nil
	}
	if v.Prerelease() == "" {
		return false, nil
	}
	stable, err := semver.NewVersion(fmt.Sprintf("%d.%d.%d", v.Major(), v.Minor(), v.Patch()))
	if err != nil {
		return false, nil
	}
	return c.Check(stable), nil
}

// versionLess reports whether a sorts strictly before b by semantic version precedence.
func versionLess(a, b string) (bool, error) {
	va, err := parseVersion(a)
	if err != nil {
		return false, err
	}
	vb, err := parseVersion(b)
	if err != nil {
		return false, err
	}
	return va.Compare(vb) < 0, nil
}
