package content

import (
	"bytes"
	"fmt"
	"html/template"
	"regexp"
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	gmhtml "github.com/yuin/goldmark/renderer/html"
)

// htmlTagPattern matches common HTML tags to detect if a string contains HTML.
var htmlTagPattern = regexp.MustCompile(`<(p|br|div|span|b|i|strong|em|a|ul|ol|li|h[1-6]|blockquote|pre|code|table)[\s>/]`)

// Renderer turns Markdown into HTML that is safe to place in a page.
type Renderer struct {
	md        goldmark.Markdown
	sanitizer *Sanitizer
}

// NewRenderer creates a renderer with GitHub-flavoured Markdown. Inline HTML
// is passed through goldmark and then filtered by the sanitizer's allow-list.
func NewRenderer(sanitizer *Sanitizer) *Renderer {
	md := goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithRendererOptions(
			gmhtml.WithHardWraps(),
			gmhtml.WithUnsafe(),
		),
	)
	return &Renderer{md: md, sanitizer: sanitizer}
}

// RenderString converts Markdown to sanitized HTML.
func (r *Renderer) RenderString(source string) (string, error) {
	var buf bytes.Buffer
	if err := r.md.Convert([]byte(source), &buf); err != nil {
		return "", fmt.Errorf("render markdown: %w", err)
	}
	return strings.TrimSpace(string(r.sanitizer.Policy().SanitizeBytes(buf.Bytes()))), nil
}

// Render is RenderString typed for html/template.
func (r *Renderer) Render(source string) (template.HTML, error) {
	out, err := r.RenderString(source)
	if err != nil {
		return "", err
	}
	//#nosec G203 -- output has been through the sanitizer policy
	return template.HTML(out), nil
}

// Trusted re-sanitizes HTML that was rendered before storage and marks it safe for templates.
func (r *Renderer) Trusted(stored string) template.HTML {
	//#nosec G203 -- sanitized on every call
	return template.HTML(r.sanitizer.Policy().Sanitize(stored))
}

// ToMarkdown converts stored HTML back to Markdown so it can be edited.
// Text without HTML is returned unchanged.
func ToMarkdown(s string) (string, error) {
	if s == "" || !htmlTagPattern.MatchString(strings.ToLower(s)) {
		return s, nil
	}

	markdown, err := htmltomarkdown.ConvertString(s)
	if err != nil {
		return "", fmt.Errorf("convert html to markdown: %w", err)
	}
	return strings.TrimSpace(markdown), nil
}
