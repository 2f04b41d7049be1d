package manifest

import (
	"os"

	"github.com/spf13/afero"

	"github.com/git-pkgs/modsync/internal/core"
)

// Updater writes a new manifest and appends to its changelog.
type Updater struct {
	fs            afero.Fs
	manifestPath  string
	changelogPath string
}

// NewUpdater creates an Updater for the given files on fsys.
func NewUpdater(fsys afero.Fs, manifestPath, changelogPath string) *Updater {
	return &Updater{
		fs:            fsys,
		manifestPath:  manifestPath,
		changelogPath: changelogPath,
	}
}

// Release is the result of preparing an update.
type Release struct {
	Version  string
	Manifest []byte
	Entry    string
}

// Prepare bumps the version of m, replaces its dependencies, and renders the
// new manifest and changelog entry without touching the filesystem.
func Prepare(m *Manifest, changes []string, deps core.DependencySet) (*Release, error) {
	version, err := Bump(m.Version())
	if err != nil {
		return nil, err
	}
	if err := m.SetDependencies(deps); err != nil {
		return nil, err
	}
	if err := m.SetVersion(version); err != nil {
		return nil, err
	}

	data, err := m.Marshal()
	if err != nil {
		return nil, err
	}
	return &Release{
		Version:  version,
		Manifest: data,
		Entry:    Changelog(version, changes),
	}, nil
}

// Apply prepares a release from m and writes it: the manifest is replaced in
// full, then the changelog entry is appended. With no changes it writes
// nothing and returns nil. The two writes are not atomic with each other.
func (u *Updater) Apply(m *Manifest, changes []string, deps core.DependencySet) (*Release, error) {
	if len(changes) == 0 {
		return nil, nil
	}

	rel, err := Prepare(m, changes, deps)
	if err != nil {
		return nil, err
	}

	if err := afero.WriteFile(u.fs, u.manifestPath, rel.Manifest, 0o644); err != nil {
		return nil, &core.ManifestError{Op: "write", Path: u.manifestPath, Err: err}
	}

	f, err := u.fs.OpenFile(u.changelogPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, &core.ManifestError{Op: "append", Path: u.changelogPath, Err: err}
	}
	if _, err := f.WriteString(rel.Entry); err != nil {
		_ = f.Close()
		return nil, &core.ManifestError{Op: "append", Path: u.changelogPath, Err: err}
	}
	if err := f.Close(); err != nil {
		return nil, &core.ManifestError{Op: "append", Path: u.changelogPath, Err: err}
	}

	return rel, nil
}
