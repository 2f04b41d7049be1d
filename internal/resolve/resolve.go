// Package resolve computes the top-level dependency set of a profile.
//
// A mod only needs to be listed in a pack manifest when nothing else in the
// profile already depends on it: dependencies are installed transitively.
// Resolve keeps the enabled, non-modpack mods that no profile entry declares
// as a dependency, and pins each to the latest version in the index.
package resolve

import (
	"fmt"

	"github.com/git-pkgs/modsync/internal/core"
)

// Resolve returns the top-level dependency set of mods, in profile order.
//
// Dependencies of every entry count as references, including disabled and
// modpack entries. Only enabled entries are looked up in the index.
func Resolve(index core.Index, mods []core.ProfileMod) (core.DependencySet, error) {
	referenced, err := References(mods)
	if err != nil {
		return nil, err
	}

	deps := make(core.DependencySet, 0, len(mods))
	for _, mod := range mods {
		if !mod.Enabled {
			continue
		}

		entry, err := index.Lookup(mod.Name)
		if err != nil {
			return nil, err
		}
		if entry.IsModpack() {
			continue
		}
		if _, ok := referenced[mod.Name]; ok {
			continue
		}

		latest, ok := entry.Latest()
		if !ok {
			return nil, &core.UnknownPackageError{ID: mod.Name, Reason: "no published versions"}
		}
		if _, err := core.PackageID(latest); err != nil {
			return nil, &core.UnknownPackageError{ID: mod.Name, Reason: fmt.Sprintf("latest version has malformed full name %q", latest)}
		}
		deps = append(deps, latest)
	}

	return deps, nil
}

// References returns the set of PackageIDs that any entry of mods declares
// as a dependency.
func References(mods []core.ProfileMod) (map[string]struct{}, error) {
	referenced := make(map[string]struct{})
	for _, mod := range mods {
		for _, dep := range mod.Dependencies {
			id, err := core.PackageID(dep)
			if err != nil {
				return nil, &core.DecodeError{Stage: "dependency", Err: err}
			}
			referenced[id] = struct{}{}
		}
	}
	return referenced, nil
}
