package manifest

import (
	"regexp"
	"strconv"

	"github.com/Masterminds/semver/v3"

	"github.com/git-pkgs/modsync/internal/core"
)

var versionPattern = regexp.MustCompile(`^(\d+)\.(\d+)\.(\d+)$`)

// Bump increments the patch component of a MAJOR.MINOR.PATCH version.
// Minor and major never change.
func Bump(version string) (string, error) {
	m := versionPattern.FindStringSubmatch(version)
	if m == nil {
		return "", &core.VersionFormatError{Version: version}
	}

	var parts [3]uint64
	for i := range parts {
		n, err := strconv.ParseUint(m[i+1], 10, 64)
		if err != nil {
			return "", &core.VersionFormatError{Version: version}
		}
		parts[i] = n
	}

	next := semver.New(parts[0], parts[1], parts[2], "", "").IncPatch()
	return next.String(), nil
}
