package scrape

import (
	"html"
	"strings"
	"unicode/utf8"

	"github.com/microcosm-cc/bluemonday"
)

var strictPolicy = bluemonday.StrictPolicy()

// cleanText flattens one scraped node's text: drop invalid UTF-8, strip any
// markup the selector dragged in, decode entities back to literal text,
// collapse whitespace.
func cleanText(s string) string {
	if !utf8.ValidString(s) {
		s = strings.ToValidUTF8(s, "")
	}
	s = strictPolicy.Sanitize(s)
	s = html.UnescapeString(s)
	return normalizeSpace(s)
}

func normalizeSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// localizeOdds renders a price the way the Italian market pages do, with a
// decimal comma. Sheet columns and notification texts both expect it.
func localizeOdds(s string) string {
	return strings.ReplaceAll(s, ".", ",")
}
