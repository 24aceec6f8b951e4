package entities

import (
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
)

var nonASCII = runes.Predicate(func(r rune) bool { return r > unicode.MaxASCII })

// StripNonASCII removes every character outside 7-bit ASCII. Characters are
// dropped, not transliterated: "Café" becomes "Caf".
func StripNonASCII(s string) string {
	for _, r := range s {
		if r > unicode.MaxASCII {
			out, _, err := transform.String(runes.Remove(nonASCII), s)
			if err != nil {
				return s
			}
			return out
		}
	}
	return s
}
