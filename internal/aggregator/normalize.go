package aggregator

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// NormalizeQuery prepares a free-text query for the external search API.
// Strips accents and collapses whitespace; preserves case and punctuation,
// which the API handles better than aggressive cleaning.
func NormalizeQuery(query string) string {
	s := removeAccents(query)
	fields := strings.Fields(s)
	return strings.Join(fields, " ")
}

// cleanTitle normalizes a title for similarity scoring.
// Lowercases, strips accents and punctuation, and collapses whitespace.
func cleanTitle(title string) string {
	s := strings.ToLower(title)
	s = removeAccents(s)
	s = strings.ReplaceAll(s, "&", " and ")
	s = strings.ReplaceAll(s, "-", " ")
	s = strings.ReplaceAll(s, "'", "")

	var b strings.Builder
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) {
			b.WriteRune(r)
		}
	}

	fields := strings.Fields(b.String())
	return strings.Join(fields, " ")
}

func removeAccents(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	result, _, _ := transform.String(t, s)
	return result
}
