// Package core provides shared types and the source registry system.
package core

// Categories that exclude a package from being a top-level requirement.
const CategoryModpacks = "Modpacks"

// IndexEntry represents one package record from a registry's package index.
type IndexEntry struct {
	FullName   string // namespace-name, no version
	Categories []string
	Versions   []IndexVersion // index 0 is the latest
}

// IndexVersion represents one published version of an index entry.
type IndexVersion struct {
	FullName      string // namespace-name-version
	VersionNumber string
}

// IsModpack reports whether the entry is tagged as a modpack.
func (e IndexEntry) IsModpack() bool {
	for _, c := range e.Categories {
		if c == CategoryModpacks {
			return true
		}
	}
	return false
}

// Latest returns the full name of the first-listed version.
func (e IndexEntry) Latest() (string, bool) {
	if len(e.Versions) == 0 {
		return "", false
	}
	return e.Versions[0].FullName, true
}

// Index maps a PackageID to its index entry.
// It is built once per run and passed explicitly; it is never cached.
type Index map[string]IndexEntry

// Add inserts an entry keyed by its full name. Later entries with the
// same key replace earlier ones.
func (idx Index) Add(e IndexEntry) {
	idx[e.FullName] = e
}

// Lookup returns the entry for id or an UnknownPackageError.
func (idx Index) Lookup(id string) (IndexEntry, error) {
	e, ok := idx[id]
	if !ok {
		return IndexEntry{}, &UnknownPackageError{ID: id}
	}
	return e, nil
}

// ProfileMod is one entry of a profile's mods.yml.
type ProfileMod struct {
	Name         string   `yaml:"name"`
	Enabled      bool     `yaml:"enabled"`
	Dependencies []string `yaml:"dependencies"`
}

// DependencySet is the ordered list of top-level full names for a profile.
type DependencySet []string
