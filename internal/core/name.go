package core

import (
	"fmt"
	"regexp"
	"strings"
)

var packageIDPattern = regexp.MustCompile(`^[a-zA-Z0-9_]+-[a-zA-Z0-9_]+`)

// PackageID returns the namespace-name prefix of s, dropping any version
// suffix: "BepInEx-BepInExPack-5.4.2100" becomes "BepInEx-BepInExPack".
// It is the single identity function used by both resolution and diffing.
func PackageID(s string) (string, error) {
	id := packageIDPattern.FindString(s)
	if id == "" {
		return "", fmt.Errorf("%w: %q", ErrInvalidName, s)
	}
	return id, nil
}

// SplitFullName splits a full name into its PackageID and version.
// The version is empty when s carries none.
func SplitFullName(s string) (id, version string, err error) {
	id, err = PackageID(s)
	if err != nil {
		return "", "", err
	}
	return id, strings.TrimPrefix(s[len(id):], "-"), nil
}

// SplitID splits a PackageID into namespace and name.
func SplitID(id string) (namespace, name string) {
	namespace, name, _ = strings.Cut(id, "-")
	return namespace, name
}
