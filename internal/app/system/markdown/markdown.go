// Package markdown renders the editor's live preview.
//
// The converter is deliberately small: headings, bold, italic, inline code
// and line breaks. Everything else passes through as text. The output is
// run through a bluemonday UGC policy so that document content can never
// inject markup into the page.
package markdown

import (
	"fmt"
	"html"
	"html/template"
	"regexp"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var (
	h1Re     = regexp.MustCompile(`^# (.*)$`)
	h2Re     = regexp.MustCompile(`^## (.*)$`)
	h3Re     = regexp.MustCompile(`^### (.*)$`)
	boldRe   = regexp.MustCompile(`\*\*(.+?)\*\*`)
	italicRe = regexp.MustCompile(`\*(.+?)\*`)
	codeRe   = regexp.MustCompile("`(.+?)`")
)

var policy = buildPolicy()

func buildPolicy() *bluemonday.Policy {
	p := bluemonday.UGCPolicy()
	return p
}

// Preview converts markdown content to sanitized HTML for the editor's
// preview pane.
func Preview(content string) template.HTML {
	lines := strings.Split(content, "\n")
	var b strings.Builder

	for i, line := range lines {
		escaped := html.EscapeString(line)

		switch {
		case h3Re.MatchString(escaped):
			b.WriteString(h3Re.ReplaceAllString(escaped, "<h3>$1</h3>"))
		case h2Re.MatchString(escaped):
			b.WriteString(h2Re.ReplaceAllString(escaped, "<h2>$1</h2>"))
		case h1Re.MatchString(escaped):
			b.WriteString(h1Re.ReplaceAllString(escaped, "<h1>$1</h1>"))
		default:
			out := boldRe.ReplaceAllString(escaped, "<strong>$1</strong>")
			out = italicRe.ReplaceAllString(out, "<em>$1</em>")
			out = codeRe.ReplaceAllString(out, "<code>$1</code>")
			b.WriteString(out)
		}

		if i < len(lines)-1 {
			b.WriteString("<br />")
		}
	}

	return template.HTML(policy.Sanitize(b.String()))
}

// Snippet returns the first line of content trimmed to max runes, for the
// dashboard's document list.
func Snippet(content string, max int) string {
	line := content
	if i := strings.IndexByte(line, '\n'); i >= 0 {
		line = line[:i]
	}
	line = strings.TrimLeft(line, "# ")
	runes := []rune(line)
	if len(runes) <= max {
		return line
	}
	return fmt.Sprintf("%s…", string(runes[:max]))
}
