package view

import (
	"html"
	"strings"
	"unicode"

	"github.com/microcosm-cc/bluemonday"
)

const maxFieldLen = 2000

var strict = bluemonday.StrictPolicy()

// cleanText removes control characters so server text cannot move the
// cursor or recolor the terminal. Tabs and newlines are kept.
func cleanText(s string) string {
	if s == "" {
		return ""
	}
	var b strings.Builder
	b.Grow(len(s))
	n := 0
	for _, r := range s {
		if unicode.IsControl(r) && r != '\t' && r != '\n' {
			continue
		}
		if r == unicode.ReplacementChar {
			continue
		}
		if n == maxFieldLen {
			break
		}
		b.WriteRune(r)
		n++
	}
	return strings.TrimSpace(b.String())
}

// cleanName is cleanText plus markup stripping, for names and other labels
// that the server may echo back from user input.
func cleanName(s string) string {
	return cleanText(html.UnescapeString(strict.Sanitize(s)))
}
