package utils

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	slugInvalid = regexp.MustCompile(`[^a-z0-9-]+`)
	slugDashes  = regexp.MustCompile(`-+`)
)

// GenerateSlug turns a display name into a URL-friendly slug:
// "Whey Protein Isolate" -> "whey-protein-isolate".
func GenerateSlug(input string) string {
	ascii := removeDiacritics(input)
	lower := strings.ToLower(ascii)
	hyphenated := strings.ReplaceAll(lower, " ", "-")
	cleaned := slugInvalid.ReplaceAllString(hyphenated, "-")
	normalized := slugDashes.ReplaceAllString(cleaned, "-")
	return strings.Trim(normalized, "-")
}

// removeDiacritics folds accented characters to their base form so the
// slug stays plain ASCII.
func removeDiacritics(input string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, input)
	if err != nil {
		return input
	}
	return out
}
