// Package lines turns raw extractor output into normalized lines.
package lines

import (
	"regexp"
	"strings"
)

var (
	reCRLF       = regexp.MustCompile(`\r\n?`)
	reWhitespace = regexp.MustCompile(`[\s\x{00A0}]+`)
)

const formFeed = "\f"

// Line is one normalized line. Text keeps the trimmed display form, Key
// collapses internal whitespace runs and is what recognizers match against.
// PageBreak is set when a form feed preceded or sat on this line.
type Line struct {
	Raw       string
	Text      string
	Key       string
	Blank     bool
	PageBreak bool
}

// Split breaks an extractor text blob into raw lines, keeping form feeds in place.
func Split(text string) []string {
	if text == "" {
		return nil
	}
	text = reCRLF.ReplaceAllString(text, "\n")
	text = strings.TrimSuffix(text, "\n")
	return strings.Split(text, "\n")
}

// Normalize cleans every raw line. The output has the same length as the input.
func Normalize(raw []string) []Line {
	out := make([]Line, len(raw))
	for i, r := range raw {
		out[i] = NormalizeLine(r)
	}
	return out
}

// NormalizeLine cleans a single raw line.
func NormalizeLine(raw string) Line {
	l := Line{Raw: raw}
	s := raw
	if strings.Contains(s, formFeed) {
		l.PageBreak = true
		s = strings.ReplaceAll(s, formFeed, "")
	}
	s = strings.ReplaceAll(s, "\t", " ")
	s = strings.ReplaceAll(s, "\u00a0", " ")
	l.Text = strings.TrimSpace(s)
	l.Key = reWhitespace.ReplaceAllString(l.Text, " ")
	l.Blank = l.Key == ""
	return l
}
