// Package client builds the URLs a mod source is reached at.
package client

import (
	"fmt"
	"net/url"
	"strings"
)

// URLBuilder constructs URLs for a mod source.
type URLBuilder interface {
	Index() string
	Profile(code string) string
	Package(namespace, name, version string) string
}

// Endpoints provides the default URLBuilder implementation.
// Empty fields are filled from the source's defaults by Merge.
type Endpoints struct {
	IndexBase   string // e.g. https://thunderstore.io
	ProfileBase string // e.g. https://gcdn.thunderstore.io
	Community   string // e.g. lethal-company
}

// Merge returns e with empty fields taken from defaults.
func (e Endpoints) Merge(defaults Endpoints) Endpoints {
	if e.IndexBase == "" {
		e.IndexBase = defaults.IndexBase
	}
	if e.ProfileBase == "" {
		e.ProfileBase = defaults.ProfileBase
	}
	if e.Community == "" {
		e.Community = defaults.Community
	}
	e.IndexBase = strings.TrimSuffix(e.IndexBase, "/")
	e.ProfileBase = strings.TrimSuffix(e.ProfileBase, "/")
	return e
}

// Index returns the URL of the community's full package index.
func (e Endpoints) Index() string {
	return fmt.Sprintf("%s/c/%s/api/v1/package/", e.IndexBase, url.PathEscape(e.Community))
}

// Profile returns the URL of a legacy profile bundle.
func (e Endpoints) Profile(code string) string {
	return fmt.Sprintf("%s/live/modpacks/legacyprofile/%s", e.ProfileBase, url.PathEscape(code))
}

// Package returns the web page of a package, pinned to version when given.
func (e Endpoints) Package(namespace, name, version string) string {
	base := fmt.Sprintf("%s/c/%s/p/%s/%s/", e.IndexBase, url.PathEscape(e.Community), url.PathEscape(namespace), url.PathEscape(name))
	if version != "" {
		return base + "v/" + url.PathEscape(version) + "/"
	}
	return base
}
