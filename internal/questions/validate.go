package questions

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

const (
	minLineChars = 8
	maxLineChars = 600
)

// listMarkerRe matches leading bullets and numbering: "-", "*", "•",
// "1. ", "2)", "(3)", "Q4.", "Q5:". A dotted number needs trailing
// whitespace so "1.5 kg" is left alone.
var listMarkerRe = regexp.MustCompile(`^(?:[-*•·–]+\s*|\(?[0-9]{1,3}\)\s*|[0-9]{1,3}\.\s+|[Qq][0-9]{1,3}[.:)]\s*)`)

// optionLineRe matches a standalone MCQ option such as "A) 4 KB" or "(b). 8 KB".
var optionLineRe = regexp.MustCompile(`^\(?[A-Da-d][).]\.?\s`)

// preambleRe matches chatty lead-ins a model prepends to its list.
var preambleRe = regexp.MustCompile(`(?i)^(here\s+(are|is)|sure\b|certainly\b|below\s+are)`)

var injectionPattern = regexp.MustCompile(
	`(?i)(ignore\s+(previous|all|above)|system\s*prompt|you\s+are\s+now|` +
		`act\s+as\s+|pretend\s+|forget\s+(everything|all)|` +
		`new\s+instructions)`,
)

// ParseLines splits a model response into candidate question lines: trimmed,
// list markers removed, blanks, preambles and invalid lines dropped. For MCQs
// options belong on the question line, so option-only lines are dropped too.
func ParseLines(raw string, kind Kind) []string {
	var out []string
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(strings.Trim(strings.TrimSpace(line), "*"))
		line = strings.TrimSpace(listMarkerRe.ReplaceAllString(line, ""))
		if line == "" {
			continue
		}
		if preambleRe.MatchString(line) && strings.HasSuffix(line, ":") {
			continue
		}
		if kind == KindMCQ && optionLineRe.MatchString(line) {
			continue
		}
		if !ValidLine(line) {
			continue
		}
		out = append(out, line)
	}
	return out
}

// ValidLine rejects lines that are too short or long to be a question, and
// lines that echo instructions back at the caller.
func ValidLine(line string) bool {
	n := utf8.RuneCountInString(line)
	if n < minLineChars || n > maxLineChars {
		return false
	}
	return !injectionPattern.MatchString(line)
}

var (
	slugInvalidRe = regexp.MustCompile(`[^a-z0-9-]`)
	slugDashesRe  = regexp.MustCompile(`-+`)
)

// Slugify converts a string to a file-name-safe slug.
func Slugify(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = slugInvalidRe.ReplaceAllString(s, "-")
	s = slugDashesRe.ReplaceAllString(s, "-")
	s = strings.Trim(s, "-")
	if len(s) > 50 {
		s = strings.TrimRight(s[:50], "-")
	}
	return s
}
