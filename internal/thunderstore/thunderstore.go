// Package thunderstore provides a mod source client for thunderstore.io.
package thunderstore

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/git-pkgs/modsync/fetch"
	"github.com/git-pkgs/modsync/internal/core"
	"github.com/git-pkgs/modsync/internal/profile"
)

const (
	DefaultIndexURL   = "https://thunderstore.io"
	DefaultProfileURL = "https://gcdn.thunderstore.io"
	DefaultCommunity  = "lethal-company"
	name              = "thunderstore"
)

// ErrEmptyCode is returned when FetchProfile is called without a profile code.
var ErrEmptyCode = core.ErrEmptyCode

func init() {
	defaults := core.Endpoints{
		IndexBase:   DefaultIndexURL,
		ProfileBase: DefaultProfileURL,
		Community:   DefaultCommunity,
	}
	core.Register(name, defaults, func(urls core.Endpoints, fetcher core.Fetcher) core.Source {
		return New(urls, fetcher)
	})
}

type Source struct {
	urls    core.Endpoints
	fetcher core.Fetcher
}

func New(urls core.Endpoints, fetcher core.Fetcher) *Source {
	return &Source{
		urls: urls.Merge(core.Endpoints{
			IndexBase:   DefaultIndexURL,
			ProfileBase: DefaultProfileURL,
			Community:   DefaultCommunity,
		}),
		fetcher: fetcher,
	}
}

func (s *Source) Name() string {
	return name
}

func (s *Source) URLs() core.URLBuilder {
	return s.urls
}

// packageRecord holds the fields of an index record that resolution needs.
// The feed carries many more (owner, rating, downloads, ...).
type packageRecord struct {
	FullName   string          `json:"full_name"`
	Categories []string        `json:"categories"`
	Versions   []versionRecord `json:"versions"`
}

type versionRecord struct {
	FullName      string `json:"full_name"`
	VersionNumber string `json:"version_number"`
}

// FetchIndex downloads the community package index. The feed is a single
// JSON array; records are decoded one at a time to keep memory flat.
func (s *Source) FetchIndex(ctx context.Context) (core.Index, error) {
	url := s.urls.Index()

	artifact, err := s.fetcher.Fetch(ctx, url)
	if err != nil {
		return nil, err
	}
	defer func() { _ = artifact.Body.Close() }()

	dec := json.NewDecoder(artifact.Body)
	tok, err := dec.Token()
	if err != nil {
		return nil, indexError(url, err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '[' {
		return nil, indexError(url, fmt.Errorf("expected array, got %v", tok))
	}

	idx := make(core.Index)
	for dec.More() {
		var rec packageRecord
		if err := dec.Decode(&rec); err != nil {
			return nil, indexError(url, err)
		}
		idx.Add(rec.entry())
	}
	if _, err := dec.Token(); err != nil {
		return nil, indexError(url, err)
	}

	return idx, nil
}

func (rec packageRecord) entry() core.IndexEntry {
	versions := make([]core.IndexVersion, len(rec.Versions))
	for i, v := range rec.Versions {
		versions[i] = core.IndexVersion{FullName: v.FullName, VersionNumber: v.VersionNumber}
	}
	return core.IndexEntry{
		FullName:   rec.FullName,
		Categories: rec.Categories,
		Versions:   versions,
	}
}

func indexError(url string, err error) error {
	return &fetch.TransportError{URL: url, Err: fmt.Errorf("decoding package index: %w", err)}
}

// FetchProfile downloads the profile bundle for code and decodes its mod list.
func (s *Source) FetchProfile(ctx context.Context, code string) ([]core.ProfileMod, error) {
	if code == "" {
		return nil, ErrEmptyCode
	}

	body, err := s.fetcher.FetchBytes(ctx, s.urls.Profile(code))
	if err != nil {
		return nil, err
	}

	mods, err := profile.Decode(string(body))
	if err != nil {
		return nil, fmt.Errorf("profile %s: %w", code, err)
	}
	return mods, nil
}
