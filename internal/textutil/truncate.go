// Package textutil holds small string helpers shared by the CLI and UI
// surfaces.
package textutil

import "unicode/utf8"

// Truncate returns at most max runes of s. Cutting by runes keeps the
// result valid UTF-8 regardless of where the limit lands.
func Truncate(s string, max int) string {
	if max <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	return string([]rune(s)[:max])
}

// Ellipsis truncates s to max runes and appends "..." when anything
// was cut.
func Ellipsis(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	return Truncate(s, max) + "..."
}
