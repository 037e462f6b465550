package domain

import (
	"strings"
	"unicode"
)

// NormalizeName prepares a subject or candidate name for comparison:
//   - trims leading/trailing whitespace
//   - converts to lowercase
//   - compresses runs of whitespace into one space
//
// Names written in Han script are trimmed only, without case folding or
// whitespace compression. Empty input normalizes to "".
func NormalizeName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return ""
	}
	if hasHan(name) {
		return name
	}
	return strings.Join(strings.Fields(strings.ToLower(name)), " ")
}

func hasHan(s string) bool {
	for _, r := range s {
		if unicode.Is(unicode.Han, r) {
			return true
		}
	}
	return false
}
