package enrich

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// MaxTextLength bounds the page text handed to the model, in characters.
const MaxTextLength = 12000

// Element bodies run to their closing tag, or to the end of input when it is missing.
var (
	scriptBlockRe   = regexp.MustCompile(`(?i)<script[\s\S]*?(?:</script\s*>|$)`)
	styleBlockRe    = regexp.MustCompile(`(?i)<style[\s\S]*?(?:</style\s*>|$)`)
	noscriptBlockRe = regexp.MustCompile(`(?i)<noscript[\s\S]*?(?:</noscript\s*>|$)`)
	tagRe           = regexp.MustCompile(`</?[^>]+(?:>|$)`)
	strayAngleRe    = strings.NewReplacer("<", " ", ">", " ")
)

// ExtractText reduces an HTML document to visible text, collapsed to single spaces and
// truncated to MaxTextLength characters.
func ExtractText(html string) string {
	text := scriptBlockRe.ReplaceAllString(html, " ")
	text = styleBlockRe.ReplaceAllString(text, " ")
	text = noscriptBlockRe.ReplaceAllString(text, " ")
	text = tagRe.ReplaceAllString(text, " ")
	text = strayAngleRe.Replace(text)
	text = strings.Join(strings.Fields(text), " ")
	return truncateRunes(text, MaxTextLength)
}

func truncateRunes(text string, limit int) string {
	if utf8.RuneCountInString(text) <= limit {
		return text
	}
	count := 0
	for i := range text {
		if count == limit {
			return text[:i]
		}
		count++
	}
	return text
}
