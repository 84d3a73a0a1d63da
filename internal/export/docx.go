package export

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/fumiama/go-docx"

	"github.com/dgallion1/bloomgen/internal/questions"
)

const headerShade = "D9E2F3"

// DOCXWriter renders a Word document. With a Template, the template's body
// is kept (placeholders substituted) and the questions are appended.
type DOCXWriter struct {
	Template []byte
}

func (d *DOCXWriter) Ext() string { return ".docx" }

func (d *DOCXWriter) ContentType() string {
	return "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
}

func (d *DOCXWriter) Write(w io.Writer, subs Substitutions, res *questions.Result) error {
	var doc *docx.Docx
	if len(d.Template) > 0 {
		t, err := docx.Parse(bytes.NewReader(d.Template), int64(len(d.Template)))
		if err != nil {
			return fmt.Errorf("parse template: %w", err)
		}
		substitute(t, subs)
		doc = t
	} else {
		doc = docx.New().WithDefaultTheme()
		doc.AddParagraph().Justification("center").AddText("Generated Questions & Assignments").Bold().Size("32")
		doc.AddParagraph().Justification("center").AddText(subs.Apply("{{SUBJECT}} | {{DATE}} | Total marks: {{TOTAL_MARKS}}"))
	}

	doc.AddParagraph().AddText(res.Kind.Heading()).Bold().Size("28")
	addQuestionTable(doc, res.Records)

	if _, err := doc.WriteTo(w); err != nil {
		return fmt.Errorf("write docx: %w", err)
	}
	return nil
}

func addQuestionTable(doc *docx.Docx, records []questions.Record) {
	tbl := doc.AddTable(len(records)+1, len(Columns), 9000, nil)
	for j, name := range Columns {
		cell := tbl.TableRows[0].TableCells[j]
		cell.Shade("clear", "auto", headerShade)
		cell.AddParagraph().AddText(name).Bold()
	}
	for i, r := range records {
		for j, v := range row(r) {
			tbl.TableRows[i+1].TableCells[j].AddParagraph().AddText(v)
		}
	}
}

// substitute rewrites {{KEY}} placeholders in every body and table
// paragraph. Word often splits a placeholder across runs, so a paragraph
// containing one is collapsed into its first text node.
func substitute(doc *docx.Docx, subs Substitutions) {
	for _, item := range doc.Document.Body.Items {
		switch it := item.(type) {
		case *docx.Paragraph:
			substituteParagraph(it, subs)
		case *docx.Table:
			for _, tr := range it.TableRows {
				for _, tc := range tr.TableCells {
					for _, p := range tc.Paragraphs {
						substituteParagraph(p, subs)
					}
				}
			}
		}
	}
}

func substituteParagraph(p *docx.Paragraph, subs Substitutions) {
	var texts []*docx.Text
	var full strings.Builder
	for _, child := range p.Children {
		run, ok := child.(*docx.Run)
		if !ok {
			continue
		}
		for _, rc := range run.Children {
			if t, ok := rc.(*docx.Text); ok {
				texts = append(texts, t)
				full.WriteString(t.Text)
			}
		}
	}
	if len(texts) == 0 || !strings.Contains(full.String(), "{{") {
		return
	}
	replaced := subs.Apply(full.String())
	if replaced == full.String() {
		return
	}
	texts[0].Text = replaced
	for _, t := range texts[1:] {
		t.Text = ""
	}
}
