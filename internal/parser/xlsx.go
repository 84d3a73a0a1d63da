package parser

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

// XLSXParser handles spreadsheet course plans: one section per non-empty
// sheet, rows rendered like CSV.
type XLSXParser struct{}

func (p *XLSXParser) Parse(r io.Reader, filename string) (*Document, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open xlsx: %w", err)
	}
	defer f.Close()

	doc := &Document{Title: baseTitle(filename)}
	sheets := f.GetSheetList()
	for _, sheet := range sheets {
		rows, err := f.GetRows(sheet)
		if err != nil {
			return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
		}
		text := tableText(rows)
		if text == "" {
			continue
		}
		sec := Section{Text: text}
		if len(sheets) > 1 {
			sec.Heading = sheet
			sec.Level = 1
		}
		doc.Sections = append(doc.Sections, sec)
	}
	return doc, nil
}
