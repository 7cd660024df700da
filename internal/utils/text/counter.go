// Package text holds the small string helpers shared by the summary
// providers and the notification channels.
package text

import "unicode/utf8"

// CountRunes counts Unicode characters rather than bytes, so "太郎" is 2.
func CountRunes(s string) int {
	return utf8.RuneCountInString(s)
}

// Truncate shortens s to at most max runes, replacing the tail with "..."
// when it had to cut. max below 4 returns the first max runes unmarked.
func Truncate(s string, max int) string {
	if max <= 0 {
		return ""
	}
	if CountRunes(s) <= max {
		return s
	}
	runes := []rune(s)
	if max < 4 {
		return string(runes[:max])
	}
	return string(runes[:max-3]) + "..."
}
