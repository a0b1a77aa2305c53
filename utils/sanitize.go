package utils

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// The blockchain gateway only accepts ASCII metadata. Folding decomposes
// accented characters (NFD), strips the combining marks, then drops anything
// still outside printable ASCII. Applying it twice is a no-op.
var asciiFolder = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)))

// SanitizeMetadata ASCII-folds a metadata string for gateway submission.
func SanitizeMetadata(s string) string {
	folded, _, err := transform.String(asciiFolder, s)
	if err != nil {
		folded = s
	}

	var b strings.Builder
	b.Grow(len(folded))
	for _, r := range folded {
		if r >= 0x20 && r < 0x7f {
			b.WriteRune(r)
		}
	}
	return b.String()
}
