package core

import (
	"github.com/git-pkgs/modsync/client"
	"github.com/git-pkgs/modsync/fetch"
)

// Type aliases shared with source implementations.
type (
	Fetcher    = fetch.FetcherInterface
	URLBuilder = client.URLBuilder
	Endpoints  = client.Endpoints
)

// NewFetcher is the transport used by New when none is given.
var NewFetcher = fetch.NewFetcher
