// Package modsync keeps a mod pack manifest in step with a remote mod profile.
//
// A run fetches the community package index and a profile bundle, resolves
// the profile to its top-level dependencies, and, when they differ from the
// manifest's, rewrites the manifest with a bumped patch version and appends a
// changelog entry.
//
// Basic usage:
//
//	import (
//		"context"
//		"github.com/git-pkgs/modsync"
//		_ "github.com/git-pkgs/modsync/all"
//	)
//
//	src, err := modsync.NewSource("thunderstore", modsync.Endpoints{}, nil)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	res, err := modsync.Sync(context.Background(), "018cf71c-...", modsync.Options{
//		Source:        src,
//		ManifestPath:  "WhalesCompany/manifest.json",
//		ChangelogPath: "WhalesCompany/README.md",
//	})
package modsync

import (
	"context"

	"github.com/git-pkgs/modsync/client"
	"github.com/git-pkgs/modsync/fetch"
	"github.com/git-pkgs/modsync/internal/core"
	"github.com/git-pkgs/modsync/internal/manifest"
	"github.com/git-pkgs/modsync/internal/pipeline"
	"github.com/git-pkgs/modsync/internal/resolve"
)

// Re-export types from internal/core
type (
	// Source is the interface implemented by mod registry clients.
	Source = core.Source

	// Index maps a PackageID to its registry entry.
	Index = core.Index

	// IndexEntry is one package record of an index.
	IndexEntry = core.IndexEntry

	// IndexVersion is one published version of a package.
	IndexVersion = core.IndexVersion

	// ProfileMod is one entry of a profile's mod list.
	ProfileMod = core.ProfileMod

	// DependencySet is an ordered list of top-level full names.
	DependencySet = core.DependencySet
)

// Re-export types from client and fetch
type (
	// Endpoints configures where a source is reached.
	Endpoints = client.Endpoints

	// Fetcher is the HTTP transport used by sources.
	Fetcher = fetch.Fetcher
)

// Re-export pipeline types
type (
	// Options configures Sync.
	Options = pipeline.Options

	// Result describes what Sync found and did.
	Result = pipeline.Result
)

// Re-export errors
var (
	ErrNotFound    = core.ErrNotFound
	ErrInvalidName = core.ErrInvalidName
	ErrEmptyCode   = core.ErrEmptyCode
)

// Error types
type (
	TransportError      = fetch.TransportError
	DecodeError         = core.DecodeError
	UnknownPackageError = core.UnknownPackageError
	VersionFormatError  = core.VersionFormatError
	ManifestError       = core.ManifestError
)

// NewSource creates a source by name. Empty endpoint fields use the
// source's defaults. If fetcher is nil, DefaultFetcher() is used.
//
// Supported sources: "thunderstore"
func NewSource(name string, urls Endpoints, fetcher *Fetcher) (Source, error) {
	if fetcher == nil {
		return core.New(name, urls, nil)
	}
	return core.New(name, urls, fetcher)
}

// DefaultFetcher returns a fetcher with sensible defaults:
// - 5m timeout (the package index is large)
// - no retries
// - DNS cache refreshed every 5 minutes
func DefaultFetcher() *Fetcher {
	return fetch.NewFetcher()
}

// SupportedSources returns all registered source names.
// Note: sources must be imported to be registered.
func SupportedSources() []string {
	return core.SupportedSources()
}

// DefaultEndpoints returns the default endpoints of a source.
func DefaultEndpoints(name string) Endpoints {
	return core.DefaultEndpoints(name)
}

// Sync runs one synchronization for the profile identified by code.
func Sync(ctx context.Context, code string, opts Options) (*Result, error) {
	return pipeline.Run(ctx, code, opts)
}

// Resolve returns the top-level dependency set of a profile.
func Resolve(index Index, mods []ProfileMod) (DependencySet, error) {
	return resolve.Resolve(index, mods)
}

// Diff returns the signed change lines between two PackageID lists.
// Entries of current missing from previous come first with "-", then
// entries of previous missing from current with "+".
func Diff(previous, current []string) []string {
	return manifest.Diff(previous, current)
}

// PackageID strips the version suffix from a full name.
func PackageID(fullName string) (string, error) {
	return core.PackageID(fullName)
}

// BumpPatch increments the patch component of a MAJOR.MINOR.PATCH version.
func BumpPatch(version string) (string, error) {
	return manifest.Bump(version)
}
