package adapter

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/microcosm-cc/bluemonday"
)

var sanitizePolicy = bluemonday.UGCPolicy()

// SanitizeHTML strips scripts, event handlers and anything else outside
// user-generated-content markup from a backend-provided description.
func SanitizeHTML(html string) string {
	return sanitizePolicy.Sanitize(html)
}

// FlattenHTML converts HTML to plain text with collapsed whitespace.
// Falls back to the input when parsing fails.
func FlattenHTML(html string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return cleanText(html)
	}
	return cleanText(doc.Text())
}

// cleanText collapses runs of whitespace into single spaces.
func cleanText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Truncate cuts a string to max length, appending ellipsis if truncated.
func Truncate(text string, maxLen int) string {
	if len(text) <= maxLen {
		return text
	}
	if maxLen > 3 {
		return text[:maxLen-3] + "..."
	}
	return text[:maxLen]
}
