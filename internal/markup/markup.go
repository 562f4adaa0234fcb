// Package markup turns the model's lightly formatted reply into HTML.
package markup

import (
	"html"
	"html/template"
	"regexp"
	"strings"
)

var boldPattern = regexp.MustCompile(`\*\*(.*?)\*\*`)

// FormatAnalysis escapes text and then honours exactly two constructs:
// **bold** becomes <strong> and a newline becomes <br>. Unpaired ** is kept
// as typed.
func FormatAnalysis(text string) template.HTML {
	out := html.EscapeString(text)
	out = strings.ReplaceAll(out, "\r\n", "\n")
	out = boldPattern.ReplaceAllString(out, "<strong>$1</strong>")
	out = strings.ReplaceAll(out, "\n", "<br>")
	return template.HTML(out)
}
