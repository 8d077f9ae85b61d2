package textutil

import (
	"regexp"
	"strings"
)

var tagPattern = regexp.MustCompile(`<[^>]+>`)

// CleanText strips tag-like runs and collapses whitespace. It accepts
// arbitrary input, including malformed markup, and never fails.
func CleanText(s string) string {
	if s == "" {
		return ""
	}
	s = tagPattern.ReplaceAllString(s, "")
	s = strings.ReplaceAll(s, "\u00a0", " ")
	return strings.Join(strings.Fields(s), " ")
}

// Truncate bounds s to max runes, appending an ellipsis marker when
// anything was cut.
func Truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max]) + "..."
}
