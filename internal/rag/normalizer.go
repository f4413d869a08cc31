package rag

import (
	"regexp"
	"strings"
)

// MinTextLength is the default minimum length of cleaned text below which a
// document is considered unreadable (likely an image-based PDF).
const MinTextLength = 50

var (
	whitespaceRegex = regexp.MustCompile(`\s+`)
	pdfHeaderRegex  = regexp.MustCompile(`%PDF.*?endobj`)
	pdfObjectRegex  = regexp.MustCompile(`obj.*?endobj`)
)

// Clean normalizes extracted text: collapses whitespace runs to a single
// space, strips leftover PDF structural markers from malformed extractions,
// and trims. Total function; unparseable input yields a best-effort string,
// possibly empty. Callers treat results shorter than MinTextLength as a
// warning condition, not a fatal error.
func Clean(text string) string {
	text = whitespaceRegex.ReplaceAllString(text, " ")
	text = pdfHeaderRegex.ReplaceAllString(text, "")
	text = pdfObjectRegex.ReplaceAllString(text, "")
	return strings.TrimSpace(text)
}

// truncateRunes cuts s to at most limit runes, reporting whether anything
// was cut. Truncation happens on rune boundaries so multibyte text (Hindi
// answers in particular) never yields invalid UTF-8.
func truncateRunes(s string, limit int) (string, bool) {
	count := 0
	for i := range s {
		if count == limit {
			return s[:i], true
		}
		count++
	}
	return s, false
}
