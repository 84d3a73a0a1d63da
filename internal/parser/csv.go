package parser

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
)

// CSVParser handles CSV course plans. The first row is taken as headers and
// each data row becomes one "Header: value" line.
type CSVParser struct{}

func (p *CSVParser) Parse(r io.Reader, filename string) (*Document, error) {
	reader := csv.NewReader(r)
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}
	doc := &Document{Title: baseTitle(filename)}
	if text := tableText(records); text != "" {
		doc.Sections = []Section{{Text: text}}
	}
	return doc, nil
}

// tableText renders rows under their headers, skipping empty cells.
func tableText(rows [][]string) string {
	if len(rows) == 0 {
		return ""
	}
	headers := rows[0]
	if len(rows) == 1 {
		return strings.Join(nonEmpty(headers), ", ")
	}

	var lines []string
	for _, row := range rows[1:] {
		var cells []string
		for j, cell := range row {
			cell = strings.TrimSpace(cell)
			if cell == "" {
				continue
			}
			if j < len(headers) && strings.TrimSpace(headers[j]) != "" {
				cells = append(cells, strings.TrimSpace(headers[j])+": "+cell)
			} else {
				cells = append(cells, cell)
			}
		}
		if len(cells) > 0 {
			lines = append(lines, strings.Join(cells, ", "))
		}
	}
	return strings.Join(lines, "\n")
}

func nonEmpty(ss []string) []string {
	var out []string
	for _, s := range ss {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
