// Package chunking normalizes extracted document text and splits it into
// overlapping windows suitable for embedding.
package chunking

import (
	"regexp"
	"strings"
)

var (
	controlReplacer = strings.NewReplacer(
		"\x00", "",
		"\uFFFD", "",
		"\r\n", "\n",
		"\r", "\n",
	)
	blankRuns = regexp.MustCompile(`\n{3,}`)
)

// Sanitize strips null bytes and replacement characters, normalizes line breaks to "\n",
// collapses three or more consecutive newlines into one blank line, and trims the result.
func Sanitize(raw string) string {
	if raw == "" {
		return ""
	}

	s := controlReplacer.Replace(raw)
	s = blankRuns.ReplaceAllString(s, "\n\n")
	return strings.TrimSpace(s)
}
