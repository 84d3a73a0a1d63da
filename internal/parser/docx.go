package parser

import (
	"bytes"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fumiama/go-docx"
)

// DOCXParser handles .docx files. Heading-styled paragraphs and syllabus
// unit lines open sections; tables are flattened row by row.
type DOCXParser struct{}

func (p *DOCXParser) Parse(r io.Reader, filename string) (*Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read docx: %w", err)
	}
	d, err := docx.Parse(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("parse docx: %w", err)
	}

	var b sectionBuilder
	for _, item := range d.Document.Body.Items {
		switch it := item.(type) {
		case *docx.Paragraph:
			text := ParagraphText(it)
			if text == "" {
				continue
			}
			if level := docxHeadingLevel(it); level > 0 {
				b.heading(text, level, 0)
			} else if IsUnitHeading(text) {
				b.heading(text, 1, 0)
			} else {
				b.text(text)
			}
		case *docx.Table:
			var rows []string
			for _, row := range it.TableRows {
				var cells []string
				for _, cell := range row.TableCells {
					var parts []string
					for _, para := range cell.Paragraphs {
						if t := ParagraphText(para); t != "" {
							parts = append(parts, t)
						}
					}
					if len(parts) > 0 {
						cells = append(cells, strings.Join(parts, " "))
					}
				}
				if len(cells) > 0 {
					rows = append(rows, strings.Join(cells, " | "))
				}
			}
			b.text(strings.Join(rows, "\n"))
		}
	}
	return &Document{Title: baseTitle(filename), Sections: b.done()}, nil
}

// docxHeadingLevel reads "Heading2", "heading 2" or "Title" styles.
func docxHeadingLevel(para *docx.Paragraph) int {
	if para.Properties == nil || para.Properties.Style == nil {
		return 0
	}
	style := strings.ToLower(strings.ReplaceAll(para.Properties.Style.Val, " ", ""))
	if style == "title" {
		return 1
	}
	if rest, ok := strings.CutPrefix(style, "heading"); ok {
		if n, err := strconv.Atoi(rest); err == nil && n >= 1 && n <= 9 {
			return n
		}
	}
	return 0
}

// ParagraphText joins the text runs of a paragraph.
func ParagraphText(para *docx.Paragraph) string {
	var buf strings.Builder
	for _, child := range para.Children {
		run, ok := child.(*docx.Run)
		if !ok {
			continue
		}
		for _, rc := range run.Children {
			switch t := rc.(type) {
			case *docx.Text:
				buf.WriteString(t.Text)
			case *docx.Tab:
				buf.WriteByte('\t')
			}
		}
	}
	return strings.TrimSpace(buf.String())
}
