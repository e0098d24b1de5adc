// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package xlsx renders an assembled workbook to an .xlsx file. Keyword
// sheets carry rich-text cells: the highlight spans computed upstream
// render bold in the highlight color, the rest of the cell in the
// default style. Spans arrive sorted and non-overlapping, so each
// character is formatted at most once.
package xlsx

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/pdiddy/paper-pipeline/internal/keyword"
	"github.com/pdiddy/paper-pipeline/internal/sheets"
	"github.com/pdiddy/paper-pipeline/pkg/types"
)

const summarySheet = "Summary"

// highlightColor is the font color for highlighted runs.
const highlightColor = "CC0000"

// columns defines the record sheets' header row and widths, mirroring
// the reading widths the output is tuned for.
var columns = []struct {
	header string
	width  float64
}{
	{"Title", 60},
	{"Journal", 25},
	{"Published Date", 15},
	{"Authors", 40},
	{"DOI", 20},
	{"Abstract", 80},
	{"URL", 15},
}

// fileNameFmt is the YYMMDD layout used in workbook file names.
const fileNameFmt = "060102"

// FileName returns the workbook file name for a run,
// e.g. "240101_240131_Papers.xlsx".
func FileName(r types.DateRange) string {
	return r.Start.Format(fileNameFmt) + "_" + r.End.Format(fileNameFmt) + "_Papers.xlsx"
}

// Write renders the workbook to path. Any failure here is fatal to the
// run; errors carry the sheet or file that failed.
func Write(wb sheets.Workbook, path string) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", summarySheet); err != nil {
		return fmt.Errorf("creating sheet %s: %w", summarySheet, err)
	}
	if err := writeSummary(f, wb.Summary); err != nil {
		return fmt.Errorf("rendering sheet %s: %w", summarySheet, err)
	}

	for _, s := range wb.Sheets {
		if err := writeRecords(f, s); err != nil {
			return fmt.Errorf("rendering sheet %s: %w", s.Name, err)
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("writing workbook %s: %w", path, err)
	}
	return nil
}

// writeSummary renders the run metadata block and the per-journal table.
func writeSummary(f *excelize.File, s sheets.Summary) error {
	meta := [][2]any{
		{"Collection Period", s.Range.String()},
		{"Total Papers", s.Total},
		{"Collection Timestamp", s.GeneratedAt.Format("2006-01-02 15:04:05")},
	}
	row := 1
	for _, m := range meta {
		if err := setRow(f, summarySheet, row, m[0], m[1]); err != nil {
			return err
		}
		row++
	}

	row++ // blank separator
	if err := setRow(f, summarySheet, row, "Journal Name", "Number of Papers", "Status"); err != nil {
		return err
	}
	if err := boldRow(f, summarySheet, row, 3); err != nil {
		return err
	}
	row++

	for _, st := range s.Statuses {
		status := "ok"
		count := any(st.Count)
		if !st.OK() {
			status = "ERROR: " + st.Err
			count = "-"
		}
		if err := setRow(f, summarySheet, row, st.Journal, count, status); err != nil {
			return err
		}
		row++
	}
	if err := setRow(f, summarySheet, row, "Total", s.Total, ""); err != nil {
		return err
	}
	if err := boldRow(f, summarySheet, row, 2); err != nil {
		return err
	}

	if err := f.SetColWidth(summarySheet, "A", "A", 40); err != nil {
		return err
	}
	return f.SetColWidth(summarySheet, "B", "C", 30)
}

// writeRecords renders a Papers or keyword sheet: header with autofilter,
// one row per record, rich text where spans are present.
func writeRecords(f *excelize.File, s sheets.Sheet) error {
	if _, err := f.NewSheet(s.Name); err != nil {
		return err
	}

	headers := make([]any, len(columns))
	for i, c := range columns {
		headers[i] = c.header
	}
	if err := setRow(f, s.Name, 1, headers...); err != nil {
		return err
	}
	if err := boldRow(f, s.Name, 1, len(columns)); err != nil {
		return err
	}

	lastCol, err := excelize.ColumnNumberToName(len(columns))
	if err != nil {
		return err
	}
	if err := f.AutoFilter(s.Name, fmt.Sprintf("A1:%s1", lastCol), nil); err != nil {
		return err
	}

	for i, c := range columns {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return err
		}
		if err := f.SetColWidth(s.Name, col, col, c.width); err != nil {
			return err
		}
	}

	wrap, err := f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{WrapText: true, Vertical: "top"},
	})
	if err != nil {
		return err
	}

	for i, row := range s.Rows {
		n := i + 2
		p := row.Paper

		date := ""
		if !p.Date.IsZero() {
			date = p.Date.Format(types.DateFormat)
		}
		if err := setRow(f, s.Name, n,
			nil, p.Journal, date, joinAuthors(p.Authors), p.DOI, nil, p.URL); err != nil {
			return err
		}

		if err := setText(f, s.Name, "A", n, p.Title, row.TitleSpans); err != nil {
			return err
		}
		if err := setText(f, s.Name, "F", n, p.Abstract, row.AbstractSpans); err != nil {
			return err
		}
		for _, col := range []string{"A", "F"} {
			cell := fmt.Sprintf("%s%d", col, n)
			if err := f.SetCellStyle(s.Name, cell, cell, wrap); err != nil {
				return err
			}
		}

		if p.URL != "" {
			cell := fmt.Sprintf("G%d", n)
			if err := f.SetCellHyperLink(s.Name, cell, p.URL, "External"); err != nil {
				return err
			}
		}
	}
	return nil
}

// setText writes a text cell, as rich text when highlight spans exist.
func setText(f *excelize.File, sheet, col string, row int, text string, spans []keyword.Span) error {
	cell := fmt.Sprintf("%s%d", col, row)
	if len(spans) == 0 {
		return f.SetCellValue(sheet, cell, text)
	}
	return f.SetCellRichText(sheet, cell, richRuns(text, spans))
}

// richRuns splits text into plain and highlighted runs. Spans are sorted
// and non-overlapping, so the walk is a single pass.
func richRuns(text string, spans []keyword.Span) []excelize.RichTextRun {
	runes := []rune(text)
	var runs []excelize.RichTextRun
	cur := 0
	for _, s := range spans {
		if s.Start > cur {
			runs = append(runs, excelize.RichTextRun{Text: string(runes[cur:s.Start])})
		}
		runs = append(runs, excelize.RichTextRun{
			Text: string(runes[s.Start:s.End]),
			Font: &excelize.Font{Bold: true, Color: highlightColor},
		})
		cur = s.End
	}
	if cur < len(runes) {
		runs = append(runs, excelize.RichTextRun{Text: string(runes[cur:])})
	}
	return runs
}

// setRow writes values left to right starting at column A. Nil values
// leave the cell untouched for a later rich-text write.
func setRow(f *excelize.File, sheet string, row int, values ...any) error {
	for i, v := range values {
		if v == nil {
			continue
		}
		cell, err := excelize.CoordinatesToCellName(i+1, row)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, v); err != nil {
			return err
		}
	}
	return nil
}

// boldRow applies a bold style to the first n cells of a row.
func boldRow(f *excelize.File, sheet string, row, n int) error {
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}
	first, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	last, err := excelize.CoordinatesToCellName(n, row)
	if err != nil {
		return err
	}
	return f.SetCellStyle(sheet, first, last, bold)
}

// joinAuthors renders the author list as one display string.
func joinAuthors(authors []string) string {
	return strings.Join(authors, "; ")
}
