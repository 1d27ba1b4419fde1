// Package sanitize cleans user-entered address text before it is stored.
package sanitize

import (
	"regexp"
	"strings"
	"unicode"
)

var (
	htmlTagRegex   = regexp.MustCompile(`<[^>]*>`)
	blankRunRegex  = regexp.MustCompile(`[ \t]+`)
	entityReplacer = strings.NewReplacer("&lt;", "<", "&gt;", ">", "&amp;", "&", "&quot;", "\"", "&#39;", "'", "&nbsp;", " ")
)

// StripHTML removes HTML tags, decoding common entities first so encoded
// tags are removed too.
func StripHTML(s string) string {
	result := htmlTagRegex.ReplaceAllString(s, "")
	result = entityReplacer.Replace(result)
	result = htmlTagRegex.ReplaceAllString(result, "")
	return strings.TrimSpace(result)
}

// Line sanitizes a single-line field such as a floor, door or building name.
// Control characters and line breaks become spaces and runs of blanks collapse.
func Line(s string) string {
	s = StripHTML(s)
	s = strings.Map(func(r rune) rune {
		if unicode.IsControl(r) || unicode.IsSpace(r) {
			return ' '
		}
		return r
	}, s)
	return strings.TrimSpace(blankRunRegex.ReplaceAllString(s, " "))
}

// Text sanitizes free text like delivery instructions. Line breaks are kept,
// each line is cleaned like Line and blank lines are dropped.
func Text(s string) string {
	s = strings.ReplaceAll(StripHTML(s), "\r\n", "\n")

	lines := strings.Split(s, "\n")
	kept := lines[:0]
	for _, line := range lines {
		if line = Line(line); line != "" {
			kept = append(kept, line)
		}
	}
	return strings.Join(kept, "\n")
}
