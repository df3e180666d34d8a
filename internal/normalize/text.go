// Package normalize provides the pure text and date normalizers that keep a
// ResumeForm in canonical shape.
package normalize

import (
	"regexp"
	"strings"
)

var (
	whitespaceRe = regexp.MustCompile(`[\s\p{Z}\x{FEFF}]+`)
	blankRunRe   = regexp.MustCompile(`\n{3,}`)
	skillSepRe   = regexp.MustCompile(`[,;\n]+`)
)

// Spaces collapses every run of whitespace to a single space and trims the ends.
func Spaces(s string) string {
	return strings.TrimSpace(whitespaceRe.ReplaceAllString(s, " "))
}

// Multiline cleans each line like Spaces while keeping line breaks, and
// collapses three or more consecutive newlines into one blank line.
func Multiline(s string) string {
	lines := strings.Split(strings.ReplaceAll(s, "\r\n", "\n"), "\n")
	for i, l := range lines {
		lines[i] = Spaces(l)
	}
	joined := blankRunRe.ReplaceAllString(strings.Join(lines, "\n"), "\n\n")
	return strings.TrimSpace(joined)
}

// Email trims surrounding whitespace.
func Email(s string) string {
	return strings.TrimSpace(s)
}

// Phone keeps the original formatting apart from collapsed spaces.
func Phone(s string) string {
	return Spaces(s)
}

// ParseSkillsText splits on commas, semicolons and newlines, drops empty
// tokens and removes case-insensitive duplicates. The first casing seen wins
// and first-seen order is kept.
func ParseSkillsText(text string) []string {
	out := []string{}
	seen := make(map[string]bool)
	for _, raw := range skillSepRe.Split(text, -1) {
		item := strings.TrimSpace(raw)
		if item == "" {
			continue
		}
		key := strings.ToLower(item)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, item)
	}
	return out
}

// Truncate cuts s to at most n runes.
func Truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
