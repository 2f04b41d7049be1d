// Package all imports all supported mod sources.
//
// Import this package for its side effects to register every source:
//
//	import (
//		"github.com/git-pkgs/modsync"
//		_ "github.com/git-pkgs/modsync/all"
//	)
//
//	// Now all sources are available
//	sources := modsync.SupportedSources()
//	// ["thunderstore"]
package all

import (
	_ "github.com/git-pkgs/modsync/internal/thunderstore"
)
