// Package content handles user-submitted rich text: sanitizing descriptions,
// rendering Markdown to HTML, and converting stored HTML back to Markdown.
package content

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/text/unicode/norm"
)

// Sanitizer checks submitted rich text against an allow-list of markup.
// It never repairs input: text that the allow-list would change is refused.
type Sanitizer struct {
	policy *bluemonday.Policy
}

// NewSanitizer returns a sanitizer using bluemonday's user-generated-content policy.
func NewSanitizer() *Sanitizer {
	return &Sanitizer{policy: bluemonday.UGCPolicy()}
}

// Normalize puts text in the form that is stored: NFC, LF line endings,
// no surrounding whitespace.
func Normalize(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	return strings.TrimSpace(norm.NFC.String(text))
}

// Clean returns the normalized text and true when the allow-list accepts it
// unchanged, or "" and false when anything would be stripped.
//
// Entity escaping alone does not count as a change: "a < b" is fine, while
// "<script>" is not.
func (s *Sanitizer) Clean(text string) (string, bool) {
	normalized := Normalize(text)
	sanitized := s.policy.Sanitize(normalized)
	if html.UnescapeString(sanitized) != html.UnescapeString(normalized) {
		return "", false
	}
	return normalized, true
}

// Policy exposes the allow-list for rendering.
func (s *Sanitizer) Policy() *bluemonday.Policy {
	return s.policy
}
