// Package utils provides shared utilities for text, math, and logging.
package utils

import (
	"strings"
	"unicode/utf8"
)

// Prefix returns at most maxLen characters (runes) of s. If maxLen is 0 or negative, returns s unchanged.
func Prefix(s string, maxLen int) string {
	if maxLen <= 0 || utf8.RuneCountInString(s) <= maxLen {
		return s
	}
	n := 0
	for i := range s {
		if n == maxLen {
			return s[:i]
		}
		n++
	}
	return s
}

// Truncate returns s truncated to maxLen characters, with "..." appended if truncated.
// If maxLen is 0 or negative, returns s unchanged.
func Truncate(s string, maxLen int) string {
	p := Prefix(s, maxLen)
	if len(p) == len(s) {
		return s
	}
	return p + "..."
}

// Preview returns the first maxLen characters of s followed by "...", whether or not s was cut.
func Preview(s string, maxLen int) string {
	return Prefix(s, maxLen) + "..."
}

// CollapseSpace replaces every run of whitespace with a single space and trims the ends.
func CollapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
