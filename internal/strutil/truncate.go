// Package strutil holds rune-safe string helpers.
package strutil

import "unicode/utf8"

// Ellipsis marks text that was cut by Truncate.
const Ellipsis = "..."

// Truncate truncates a string to a maximum length and appends Ellipsis when
// anything was cut. Truncation is rune-level so multi-byte text is never split.
// Returns empty string if maxLen <= 0 to prevent slice bounds panic.
func Truncate(s string, maxLen int) string {
	if s == "" || maxLen <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= maxLen {
		return s
	}
	return Prefix(s, maxLen) + Ellipsis
}

// Prefix returns the first maxLen runes of s with no marker.
func Prefix(s string, maxLen int) string {
	if maxLen <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	return string(runes[:maxLen])
}
