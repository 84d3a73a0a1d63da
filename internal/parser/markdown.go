package parser

import (
	"bytes"
	"io"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// MarkdownParser handles Markdown files using goldmark. Every heading starts
// a section; list items become one line each.
type MarkdownParser struct{}

func (p *MarkdownParser) Parse(r io.Reader, filename string) (*Document, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	root := goldmark.New().Parser().Parse(text.NewReader(src))

	var b sectionBuilder
	for n := root.FirstChild(); n != nil; n = n.NextSibling() {
		switch node := n.(type) {
		case *ast.Heading:
			b.heading(inlineText(node, src), node.Level, 0)
		case *ast.List:
			var items []string
			for li := node.FirstChild(); li != nil; li = li.NextSibling() {
				if t := blockText(li, src); t != "" {
					items = append(items, "- "+t)
				}
			}
			b.text(strings.Join(items, "\n"))
		default:
			b.text(blockText(n, src))
		}
	}
	return &Document{Title: baseTitle(filename), Sections: b.done()}, nil
}

// blockText returns a block's raw lines, or its inline text for blocks
// without lines of their own.
func blockText(n ast.Node, src []byte) string {
	var buf bytes.Buffer
	if n.Type() == ast.TypeBlock && n.Lines().Len() > 0 {
		lines := n.Lines()
		for i := 0; i < lines.Len(); i++ {
			seg := lines.At(i)
			if i > 0 {
				buf.WriteByte('\n')
			}
			buf.Write(bytes.TrimRight(seg.Value(src), "\r\n"))
		}
		return strings.TrimSpace(buf.String())
	}
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		t := blockText(c, src)
		if t == "" {
			t = inlineText(c, src)
		}
		if t != "" {
			if buf.Len() > 0 {
				buf.WriteByte(' ')
			}
			buf.WriteString(t)
		}
	}
	return strings.TrimSpace(buf.String())
}

func inlineText(n ast.Node, src []byte) string {
	var buf bytes.Buffer
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		if t, ok := c.(*ast.Text); ok {
			buf.Write(t.Segment.Value(src))
			if t.SoftLineBreak() || t.HardLineBreak() {
				buf.WriteByte(' ')
			}
			continue
		}
		buf.WriteString(inlineText(c, src))
	}
	return strings.TrimSpace(buf.String())
}
