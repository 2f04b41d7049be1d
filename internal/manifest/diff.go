package manifest

import (
	"slices"

	"github.com/git-pkgs/modsync/internal/core"
)

// Diff compares two lists of PackageIDs and returns signed change lines.
//
// The first pass yields "-c" for every c in current that previous lacks, in
// current order. The second pass yields "+p" for every p in previous that
// current lacks, in previous order. All "-" lines precede all "+" lines.
// Note the signs: a package that is new in current is written as "-".
func Diff(previous, current []string) []string {
	var changes []string
	for _, c := range current {
		if !slices.Contains(previous, c) {
			changes = append(changes, "-"+c)
		}
	}
	for _, p := range previous {
		if !slices.Contains(current, p) {
			changes = append(changes, "+"+p)
		}
	}
	return changes
}

// StripVersions maps full names to PackageIDs, keeping order.
func StripVersions(names []string) ([]string, error) {
	ids := make([]string, len(names))
	for i, name := range names {
		id, err := core.PackageID(name)
		if err != nil {
			return nil, err
		}
		ids[i] = id
	}
	return ids, nil
}

// Changes diffs the dependencies recorded in m against a newly resolved set.
func Changes(m *Manifest, deps core.DependencySet) ([]string, error) {
	previous, err := StripVersions(m.Dependencies())
	if err != nil {
		return nil, &core.ManifestError{Op: "parse", Path: keyDependencies, Err: err}
	}
	current := make([]string, len(deps))
	for i, full := range deps {
		id, err := core.PackageID(full)
		if err != nil {
			return nil, &core.UnknownPackageError{ID: full, Reason: "resolved version has a malformed full name"}
		}
		current[i] = id
	}
	return Diff(previous, current), nil
}
