package dqcheck

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

// WriteWorkbook writes the report as an xlsx sheet with one row per check,
// color-coded by status
func (r *Report) WriteWorkbook(path string) error {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Data Quality"
	f.SetSheetName("Sheet1", sheet)

	headers := []string{"Status", "File", "Check", "Detail"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return fmt.Errorf("failed to write header: %w", err)
		}
	}
	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err == nil {
		f.SetCellStyle(sheet, "A1", "D1", headerStyle)
	}
	f.SetPanes(sheet, &excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"})

	warnStyle, _ := f.NewStyle(&excelize.Style{
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"FFF2CC"}},
	})
	failStyle, _ := f.NewStyle(&excelize.Style{
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"F4CCCC"}},
	})

	for i, res := range r.Results {
		row := i + 2
		values := []interface{}{string(res.Status), res.File, res.Check, res.Detail}
		for j, v := range values {
			cell, _ := excelize.CoordinatesToCellName(j+1, row)
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return fmt.Errorf("failed to write row %d: %w", i, err)
			}
		}
		first, _ := excelize.CoordinatesToCellName(1, row)
		last, _ := excelize.CoordinatesToCellName(len(values), row)
		switch res.Status {
		case SeverityWarn:
			f.SetCellStyle(sheet, first, last, warnStyle)
		case SeverityFail:
			f.SetCellStyle(sheet, first, last, failStyle)
		}
	}

	summary := fmt.Sprintf("Summary: %d PASS, %d WARN, %d FAIL", r.Pass, r.Warn, r.Fail)
	cell, _ := excelize.CoordinatesToCellName(1, len(r.Results)+3)
	f.SetCellValue(sheet, cell, summary)

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook %s: %w", path, err)
	}
	return nil
}
