package ui

import (
	"strings"
	"unicode/utf8"
)

// MaskSecret hides all but the last four characters of a secret. Secrets of
// eight characters or fewer are hidden entirely.
func MaskSecret(secret string) string {
	n := utf8.RuneCountInString(secret)
	if n <= 8 {
		return strings.Repeat("*", n)
	}
	runes := []rune(secret)
	return strings.Repeat("*", n-4) + string(runes[n-4:])
}
