package match

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var diacriticStripper = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Normalize lowercases a string, strips diacritics, collapses internal
// whitespace and trims. All fuzzy comparisons operate on normalized text.
func Normalize(s string) string {
	stripped, _, err := transform.String(diacriticStripper, s)
	if err != nil {
		stripped = s
	}
	return strings.Join(strings.Fields(strings.ToLower(stripped)), " ")
}

// Tokens splits a string into normalized significant tokens, dropping any
// token of length minLen or shorter
func Tokens(s string, minLen int) []string {
	var out []string
	for _, tok := range strings.Fields(Normalize(s)) {
		if len(tok) > minLen {
			out = append(out, tok)
		}
	}
	return out
}

// ReverseTokens returns the tokens of a normalized string in reverse order,
// e.g. "maria perez" becomes "perez maria"
func ReverseTokens(s string) string {
	toks := strings.Fields(Normalize(s))
	for i, j := 0, len(toks)-1; i < j; i, j = i+1, j-1 {
		toks[i], toks[j] = toks[j], toks[i]
	}
	return strings.Join(toks, " ")
}
