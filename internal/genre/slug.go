// Package genre provides genre name normalization and the default genre list.
package genre

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

var (
	// Matches any non-alphanumeric character.
	nonAlphanumeric = regexp.MustCompile(`[^a-z0-9]+`)
	// Matches runs of whitespace.
	whitespace = regexp.MustCompile(`\s+`)
)

// Slugify converts a genre name to a URL-safe slug.
// "Science Fiction" -> "science-fiction".
// "Children's Literature" -> "children-s-literature".
func Slugify(s string) string {
	// Decompose accented characters, then drop the marks.
	s = norm.NFKD.String(s)
	s = strings.Map(func(r rune) rune {
		if r > unicode.MaxASCII {
			return -1
		}
		return r
	}, s)

	s = strings.ToLower(s)
	s = nonAlphanumeric.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// DisplayName tidies an operator-supplied genre name: NFC form, single
// spaces, title case.
func DisplayName(s string) string {
	s = norm.NFC.String(strings.TrimSpace(s))
	s = whitespace.ReplaceAllString(s, " ")
	return cases.Title(language.English, cases.NoLower).String(s)
}
