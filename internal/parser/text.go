package parser

import (
	"bufio"
	"io"
	"regexp"
	"strings"
)

// unitHeadingRe matches common syllabus unit headers such as "UNIT I",
// "Unit 2: Memory", "Module 3 - Files" or "Chapter 4".
var unitHeadingRe = regexp.MustCompile(`(?i)^(unit|module|chapter)\s+([0-9]+|[ivxlc]+)\b`)

// TextParser handles plain text files. Unit/module/chapter lines start new
// sections; blank lines separate paragraphs.
type TextParser struct{}

func (p *TextParser) Parse(r io.Reader, filename string) (*Document, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var b sectionBuilder
	var para []string
	endPara := func() {
		if len(para) > 0 {
			b.text(strings.Join(para, "\n"))
			para = nil
		}
	}

	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), " \t\r")
		trimmed := strings.TrimSpace(line)
		switch {
		case trimmed == "":
			endPara()
		case unitHeadingRe.MatchString(trimmed):
			endPara()
			b.heading(trimmed, 1, 0)
		default:
			para = append(para, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	endPara()

	return &Document{Title: baseTitle(filename), Sections: b.done()}, nil
}

// IsUnitHeading reports whether line looks like a syllabus unit header.
func IsUnitHeading(line string) bool {
	return unitHeadingRe.MatchString(strings.TrimSpace(line))
}
