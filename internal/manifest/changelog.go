package manifest

import (
	"strings"
)

// Changelog formats the README block recorded for a release:
//
//	<blank line>
//	1.0.4
//	======
//	* -Team-Mod
//	* +Other-Mod
func Changelog(version string, changes []string) string {
	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(version)
	b.WriteString("\n======\n")
	for i, c := range changes {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString("* ")
		b.WriteString(c)
	}
	b.WriteString("\n")
	return b.String()
}
