// Package pipeline runs one synchronization of a pack manifest against a
// remote profile: fetch, decode, resolve, diff, update.
package pipeline

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/afero"

	"github.com/git-pkgs/modsync/internal/core"
	"github.com/git-pkgs/modsync/internal/manifest"
	"github.com/git-pkgs/modsync/internal/resolve"
)

// Options configures a Run.
type Options struct {
	Source        core.Source
	FS            afero.Fs
	ManifestPath  string
	ChangelogPath string
	DryRun        bool
	Logger        *log.Logger
}

// Result describes what a Run found and did.
type Result struct {
	Dependencies core.DependencySet
	Changes      []string
	Version      string // version after the run
	Written      bool
}

// Run synchronizes the manifest with the profile identified by code.
// Any error aborts the run; nothing is retried.
func Run(ctx context.Context, code string, opts Options) (*Result, error) {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	fsys := opts.FS
	if fsys == nil {
		fsys = afero.NewOsFs()
	}

	m, err := manifest.Load(fsys, opts.ManifestPath)
	if err != nil {
		return nil, err
	}

	index, err := opts.Source.FetchIndex(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetching package index: %w", err)
	}
	logger.Debug("index loaded", "packages", len(index))

	mods, err := opts.Source.FetchProfile(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("fetching profile: %w", err)
	}
	logger.Debug("profile decoded", "code", code, "mods", len(mods))

	deps, err := resolve.Resolve(index, mods)
	if err != nil {
		return nil, fmt.Errorf("resolving profile %s: %w", code, err)
	}
	logDependencies(logger, opts.Source.URLs(), deps)

	changes, err := manifest.Changes(m, deps)
	if err != nil {
		return nil, err
	}

	result := &Result{
		Dependencies: deps,
		Changes:      changes,
		Version:      m.Version(),
	}
	if len(changes) == 0 {
		logger.Info("no changes", "version", result.Version)
		return result, nil
	}
	for _, c := range changes {
		logger.Info("change", "entry", c)
	}

	if opts.DryRun {
		before, err := m.Marshal()
		if err != nil {
			return nil, err
		}
		rel, err := manifest.Prepare(m, changes, deps)
		if err != nil {
			return nil, err
		}
		result.Version = rel.Version
		logger.Info("dry run, nothing written", "version", rel.Version)
		logger.Print(manifest.TextDiff(string(before), string(rel.Manifest)))
		return result, nil
	}

	rel, err := manifest.NewUpdater(fsys, opts.ManifestPath, opts.ChangelogPath).Apply(m, changes, deps)
	if err != nil {
		return nil, err
	}
	result.Version = rel.Version
	result.Written = true
	logger.Info("manifest updated", "version", rel.Version, "path", opts.ManifestPath)
	return result, nil
}

func logDependencies(logger *log.Logger, urls core.URLBuilder, deps core.DependencySet) {
	logger.Info("resolved dependencies", "count", len(deps))
	for _, full := range deps {
		id, version, err := core.SplitFullName(full)
		if err != nil {
			continue
		}
		namespace, name := core.SplitID(id)
		logger.Debug("dependency", "name", full, "url", urls.Package(namespace, name, version))
	}
}
