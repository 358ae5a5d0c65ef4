package document

import (
	"strings"
	"unicode"
)

// NormalizeText collapses runs of horizontal whitespace to single spaces and
// runs of blank lines to single newlines, dropping unprintable characters.
// Line boundaries are preserved so downstream excerpt logic can still find
// "the first line" of a section.
func NormalizeText(input string) string {
	input = strings.ReplaceAll(input, "\r\n", "\n")
	input = strings.ReplaceAll(input, "\r", "\n")

	var out []string
	for _, line := range strings.Split(input, "\n") {
		fields := strings.FieldsFunc(line, unicode.IsSpace)
		cleaned := make([]string, 0, len(fields))
		for _, f := range fields {
			if w := stripUnprintable(f); w != "" {
				cleaned = append(cleaned, w)
			}
		}
		if len(cleaned) > 0 {
			out = append(out, strings.Join(cleaned, " "))
		}
	}
	return strings.Join(out, "\n")
}

func stripUnprintable(s string) string {
	var b strings.Builder
	for _, r := range s {
		if unicode.IsPrint(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// FirstLine returns the first nonempty line of normalized text.
func FirstLine(s string) string {
	for _, line := range strings.Split(s, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			return line
		}
	}
	return ""
}
