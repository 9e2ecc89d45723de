package lifecycle

import (
	"regexp"
	"strings"
)

var bracketGroups = regexp.MustCompile(`\[[^\]]*\]`)

// CleanTestName strips bracketed parametrization suffixes (device
// labels and the like) from a test name and trims leftover separators.
func CleanTestName(name string) string {
	cleaned := bracketGroups.ReplaceAllString(name, "")
	return strings.Trim(cleaned, "_ ")
}
