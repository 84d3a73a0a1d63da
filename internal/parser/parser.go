// Package parser turns uploaded syllabus files into plain text.
package parser

import (
	"bytes"
	"fmt"
	"io"
	"path/filepath"
	"strings"
)

// Document is a parsed syllabus: an ordered list of sections.
type Document struct {
	Title    string
	Sections []Section
}

// Section is one heading and the body text under it. Heading is empty for
// text that precedes any heading.
type Section struct {
	Heading string
	Level   int // 1 for top-level headings, 0 when Heading is empty.
	Page    int // Source page, 0 if N/A.
	Text    string
}

// PlainText flattens the document: each heading on its own line followed by
// its body, sections separated by a blank line.
func (d *Document) PlainText() string {
	if d == nil {
		return ""
	}
	var parts []string
	for _, s := range d.Sections {
		var b strings.Builder
		if s.Heading != "" {
			b.WriteString(s.Heading)
			if s.Text != "" {
				b.WriteString("\n")
			}
		}
		b.WriteString(s.Text)
		if t := strings.TrimSpace(b.String()); t != "" {
			parts = append(parts, t)
		}
	}
	return strings.Join(parts, "\n\n")
}

// Parser converts raw document bytes into a Document.
type Parser interface {
	Parse(r io.Reader, filename string) (*Document, error)
}

// SupportedExtensions lists file extensions this service can handle.
var SupportedExtensions = map[string]bool{
	".txt":      true,
	".md":       true,
	".markdown": true,
	".csv":      true,
	".html":     true,
	".htm":      true,
	".pdf":      true,
	".docx":     true,
	".xlsx":     true,
}

// Options tune parser construction.
type Options struct {
	PDFFallbackPdftotext bool
}

// ForFile returns the appropriate parser for a filename.
func ForFile(filename string, opts Options) (Parser, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".txt":
		return &TextParser{}, nil
	case ".md", ".markdown":
		return &MarkdownParser{}, nil
	case ".csv":
		return &CSVParser{}, nil
	case ".html", ".htm":
		return &HTMLParser{}, nil
	case ".pdf":
		return &PDFParser{FallbackPdftotext: opts.PDFFallbackPdftotext}, nil
	case ".docx":
		return &DOCXParser{}, nil
	case ".xlsx":
		return &XLSXParser{}, nil
	default:
		return nil, fmt.Errorf("unsupported file extension: %q", ext)
	}
}

// IsSupportedExtension checks if a file extension is supported.
func IsSupportedExtension(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	return SupportedExtensions[ext]
}

// Extractor pulls plain text out of uploads. It never fails: unsupported or
// unreadable input yields "".
type Extractor struct {
	Options Options
	// OnError, if set, observes parse failures that were swallowed.
	OnError func(filename string, err error)
}

// ExtractText returns the trimmed plain text of data, or "" if the file
// type is unsupported or the content cannot be parsed.
func (e *Extractor) ExtractText(data []byte, filename string) string {
	p, err := ForFile(filename, e.Options)
	if err != nil {
		e.report(filename, err)
		return ""
	}
	doc, err := p.Parse(bytes.NewReader(data), filename)
	if err != nil {
		e.report(filename, err)
		return ""
	}
	return strings.TrimSpace(doc.PlainText())
}

func (e *Extractor) report(filename string, err error) {
	if e.OnError != nil {
		e.OnError(filename, err)
	}
}

// ExtractText is Extractor.ExtractText with default options.
func ExtractText(data []byte, filename string) string {
	e := &Extractor{Options: Options{PDFFallbackPdftotext: true}}
	return e.ExtractText(data, filename)
}

func baseTitle(filename string) string {
	base := filepath.Base(filename)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// sectionBuilder accumulates paragraphs under the current heading.
type sectionBuilder struct {
	sections []Section
	cur      Section
	body     []string
}

func (b *sectionBuilder) heading(title string, level, page int) {
	b.flush()
	b.cur = Section{Heading: title, Level: level, Page: page}
}

func (b *sectionBuilder) text(t string) {
	if t = strings.TrimSpace(t); t != "" {
		b.body = append(b.body, t)
	}
}

func (b *sectionBuilder) flush() {
	b.cur.Text = strings.Join(b.body, "\n\n")
	if b.cur.Heading != "" || b.cur.Text != "" {
		b.sections = append(b.sections, b.cur)
	}
	b.cur = Section{}
	b.body = nil
}

func (b *sectionBuilder) done() []Section {
	b.flush()
	return b.sections
}
