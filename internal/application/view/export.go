package view

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

const (
	sheetProjects = "Projects"
	sheetSummary  = "Summary"
)

// ExportCSV 將明細表以顯示文字寫出，第一列為標題，最後一欄為名次。
func ExportCSV(w io.Writer, v View) error {
	cw := csv.NewWriter(w)
	header := append(Headers(DetailColumns), "דירוג")
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, row := range v.Detail {
		record := append(append([]string{}, row.Cells...), row.Badge.Medal())
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ExportXLSX 將明細與彙總分別寫入兩個工作表。
func ExportXLSX(w io.Writer, v View) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetProjects); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	if _, err := f.NewSheet(sheetSummary); err != nil {
		return fmt.Errorf("create sheet: %w", err)
	}

	detail := make([][]string, 0, len(v.Detail))
	for _, row := range v.Detail {
		detail = append(detail, append(append([]string{}, row.Cells...), row.Badge.Medal()))
	}
	if err := writeSheet(f, sheetProjects, append(Headers(DetailColumns), "דירוג"), detail); err != nil {
		return err
	}

	summary := make([][]string, 0, len(v.Summary))
	for _, row := range v.Summary {
		summary = append(summary, append(append([]string{}, row.Cells...), row.Badge.Medal()))
	}
	if err := writeSheet(f, sheetSummary, append(Headers(SummaryColumns), "דירוג"), summary); err != nil {
		return err
	}

	return f.Write(w)
}

func writeSheet(f *excelize.File, sheet string, header []string, rows [][]string) error {
	all := append([][]string{header}, rows...)
	for i, r := range all {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		values := make([]interface{}, len(r))
		for j, s := range r {
			values[j] = s
		}
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return fmt.Errorf("write %s row %d: %w", sheet, i+1, err)
		}
	}
	return nil
}
