package normalize

import (
	"html"
	"regexp"
	"strings"
)

// Pre-compiled regular expressions for markup folding performance.
var (
	brTags        = regexp.MustCompile(`(?i)<br\s*/?>`)
	closeParaTags = regexp.MustCompile(`(?i)</p>`)
	inlineTags    = regexp.MustCompile(`(?i)</?(p|em|strong|i|b|u)(\s[^>]*)?>`)
	allTags       = regexp.MustCompile(`<[^>]+>`)
	multiNewlines = regexp.MustCompile(`\n{3,}`)
	multiSpaces   = regexp.MustCompile(`[ \t]+`)
)

// Text folds question markup into plain text.
//
// Entities are decoded first, then structure: <br> becomes a newline,
// closing paragraphs become a blank line, paragraph and emphasis tags are
// stripped keeping their content, everything else is removed. Runs of three
// or more newlines collapse to exactly two.
func Text(markup string) string {
	if markup == "" {
		return ""
	}

	text := html.UnescapeString(markup)

	text = brTags.ReplaceAllString(text, "\n")
	text = closeParaTags.ReplaceAllString(text, "\n\n")
	text = inlineTags.ReplaceAllString(text, "")
	text = allTags.ReplaceAllString(text, "")

	text = multiSpaces.ReplaceAllString(text, " ")

	// Trim each line before collapsing so whitespace-only lines count as blank
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(line)
	}
	text = strings.Join(lines, "\n")

	text = multiNewlines.ReplaceAllString(text, "\n\n")
	return strings.TrimSpace(text)
}
