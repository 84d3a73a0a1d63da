package export

import (
	"fmt"
	"io"
	"sort"

	"github.com/xuri/excelize/v2"

	"github.com/dgallion1/bloomgen/internal/questions"
)

const (
	questionsSheet = "Questions"
	summarySheet   = "Summary"
)

// XLSXWriter renders a workbook: the question table plus a summary sheet of
// the substitution fields.
type XLSXWriter struct{}

func (x *XLSXWriter) Ext() string { return ".xlsx" }

func (x *XLSXWriter) ContentType() string {
	return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
}

func (x *XLSXWriter) Write(w io.Writer, subs Substitutions, res *questions.Result) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", questionsSheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	header := make([]interface{}, len(Columns))
	for i, c := range Columns {
		header[i] = c
	}
	if err := f.SetSheetRow(questionsSheet, "A1", &header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for i, r := range res.Records {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		vals := []interface{}{r.Seq, r.Text, r.Level, r.CO, r.PO, r.Marks}
		if err := f.SetSheetRow(questionsSheet, cell, &vals); err != nil {
			return fmt.Errorf("write row %d: %w", r.Seq, err)
		}
	}

	style, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{headerShade}},
	})
	if err != nil {
		return fmt.Errorf("header style: %w", err)
	}
	lastCol, _ := excelize.ColumnNumberToName(len(Columns))
	if err := f.SetCellStyle(questionsSheet, "A1", lastCol+"1", style); err != nil {
		return fmt.Errorf("apply header style: %w", err)
	}
	_ = f.SetColWidth(questionsSheet, "B", "B", 90)
	_ = f.SetColWidth(questionsSheet, "C", "C", 18)
	_ = f.SetPanes(questionsSheet, &excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"})

	if _, err := f.NewSheet(summarySheet); err != nil {
		return fmt.Errorf("add summary sheet: %w", err)
	}
	keys := make([]string, 0, len(subs))
	for k := range subs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for i, k := range keys {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		vals := []interface{}{k, subs[k]}
		if err := f.SetSheetRow(summarySheet, cell, &vals); err != nil {
			return fmt.Errorf("write summary: %w", err)
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write xlsx: %w", err)
	}
	return nil
}
