// Package normalize canonicalizes counterparty names for comparison.
package normalize

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// folds is the fixed diacritic set. Characters outside it are kept as-is.
var folds = map[rune]rune{
	'á': 'a', 'ä': 'a', 'â': 'a', 'à': 'a',
	'é': 'e', 'ë': 'e', 'ê': 'e', 'è': 'e',
	'í': 'i', 'ï': 'i', 'î': 'i', 'ì': 'i',
	'ó': 'o', 'ö': 'o', 'ô': 'o', 'ò': 'o',
	'ú': 'u', 'ü': 'u', 'û': 'u', 'ù': 'u',
	'ý': 'y', 'ÿ': 'y',
	'ň': 'n', 'š': 's', 'č': 'c', 'ť': 't', 'ž': 'z', 'ľ': 'l', 'ř': 'r', 'ď': 'd',
}

func fold(r rune) rune {
	if f, ok := folds[r]; ok {
		return f
	}
	return r
}

// newTransformer composes, lowercases and folds. Transformers carry state, so
// each call gets its own chain.
func newTransformer() transform.Transformer {
	return transform.Chain(norm.NFC, cases.Lower(language.Und), runes.Map(fold))
}

// Name lowercases s, folds the fixed diacritic set, collapses whitespace runs
// to a single space and trims. It never fails; Name("") is "".
func Name(s string) string {
	out, _, err := transform.String(newTransformer(), s)
	if err != nil {
		out = strings.Map(fold, strings.ToLower(norm.NFC.String(s)))
	}
	return strings.Join(strings.Fields(out), " ")
}
