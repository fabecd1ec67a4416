// Package textfold normalizes free text for fuzzy keyword matching:
// lowercasing, diacritic stripping and whitespace collapsing, so that
// "Café Royal" and "cafe royal" compare equal.
package textfold

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// stripMarks removes combining marks left behind by NFD decomposition.
var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Fold returns a canonical lowercase, diacritic-free, space-collapsed form.
func Fold(s string) string {
	folded, _, err := transform.String(stripMarks, s)
	if err != nil {
		folded = s
	}
	return strings.Join(strings.Fields(strings.ToLower(folded)), " ")
}

// Contains reports whether the folded form of b occurs in the folded form
// of a. Empty strings never match.
func Contains(a, b string) bool {
	fa, fb := Fold(a), Fold(b)
	if fa == "" || fb == "" {
		return false
	}
	return strings.Contains(fa, fb)
}

// ContainsEither reports containment in either direction, the rule used for
// anchor resolution and removal keywords.
func ContainsEither(a, b string) bool {
	return Contains(a, b) || Contains(b, a)
}

// Equal reports whether two strings fold to the same form.
func Equal(a, b string) bool {
	return Fold(a) != "" && Fold(a) == Fold(b)
}

// Tokens splits a string into folded words, dropping punctuation so that
// comma-laden addresses tokenize cleanly.
func Tokens(s string) []string {
	return strings.FieldsFunc(Fold(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

// TokenOverlap returns how many of b's tokens occur in a's token set.
func TokenOverlap(a, b string) int {
	set := make(map[string]bool)
	for _, tok := range Tokens(a) {
		set[tok] = true
	}
	n := 0
	for _, tok := range Tokens(b) {
		if set[tok] {
			n++
		}
	}
	return n
}
