package core

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

// Source is the interface implemented by mod registry clients.
type Source interface {
	// Name returns the source identifier (e.g., "thunderstore").
	Name() string

	// FetchIndex retrieves the full package index of the configured community.
	FetchIndex(ctx context.Context) (Index, error)

	// FetchProfile retrieves and decodes the profile identified by code.
	FetchProfile(ctx context.Context, code string) ([]ProfileMod, error)

	// URLs returns the URL builder for this source.
	URLs() URLBuilder
}

// Factory creates a source instance for the given endpoints.
type Factory func(urls Endpoints, fetcher Fetcher) Source

var (
	factories = make(map[string]Factory)
	defaults  = make(map[string]Endpoints)
	mu        sync.RWMutex
)

// Register adds a source factory to the global registry.
// defaultURLs fills any endpoint field left empty by callers of New.
func Register(name string, defaultURLs Endpoints, factory Factory) {
	mu.Lock()
	defer mu.Unlock()
	factories[name] = factory
	defaults[name] = defaultURLs
}

// New creates a new source by name.
// Empty fields of urls are taken from the source's defaults.
// If fetcher is nil, a Fetcher with default options is used.
func New(name string, urls Endpoints, fetcher Fetcher) (Source, error) {
	mu.RLock()
	factory, ok := factories[name]
	defaultURLs := defaults[name]
	mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("unknown source: %s", name)
	}

	if fetcher == nil {
		fetcher = NewFetcher()
	}

	return factory(urls.Merge(defaultURLs), fetcher), nil
}

// SupportedSources returns all registered source names, sorted.
func SupportedSources() []string {
	mu.RLock()
	defer mu.RUnlock()

	names := make([]string, 0, len(factories))
	for name := range factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DefaultEndpoints returns the default endpoints for a source.
func DefaultEndpoints(name string) Endpoints {
	mu.RLock()
	defer mu.RUnlock()
	return defaults[name]
}
