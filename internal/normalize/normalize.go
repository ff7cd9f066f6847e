// Package normalize folds text for fuzzy title/author comparison.
package normalize

import (
	"strings"
	"unicode"
)

// Normalize lowercases s, strips every rune that is not a letter, digit or
// whitespace, collapses whitespace runs to a single space and trims the ends.
// It is pure and total: any input (including "") yields a valid result, and
// Normalize(Normalize(s)) == Normalize(s).
func Normalize(s string) string {
	if s == "" {
		return ""
	}

	var b strings.Builder
	b.Grow(len(s))
	for _, r := range strings.ToLower(s) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
		case unicode.IsSpace(r):
			b.WriteRune(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// Pair folds a (title, author) pair into a single comparable key for duplicate
// detection.
func Pair(title, author string) string {
	return Normalize(title) + "\x00" + Normalize(author)
}
