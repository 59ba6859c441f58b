package exporter

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"matchpulse/internal/dataset"
)

// WriteScoutingWorkbook writes the scouting profiles as an xlsx workbook
// with a frozen, bold header row
func WriteScoutingWorkbook(path string, rows []dataset.ScoutingProfile) error {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Scouting Profiles"
	f.SetSheetName("Sheet1", sheet)

	headers := []string{
		"Player ID", "Player", "Position", "Age", "Active",
		"Career Minutes", "Career Goals", "Career Assists",
		"Latest Season", "Latest Competition", "Latest Rating",
		"Form Rating (10)", "Form Goals (10)", "Form xG (10)",
		"Standout Stat 1", "Pct 1", "Standout Stat 2", "Pct 2", "Standout Stat 3", "Pct 3",
	}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return fmt.Errorf("failed to write header: %w", err)
		}
	}
	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err == nil {
		last, _ := excelize.CoordinatesToCellName(len(headers), 1)
		f.SetCellStyle(sheet, "A1", last, headerStyle)
	}
	f.SetPanes(sheet, &excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"})

	for i, r := range rows {
		values := []interface{}{
			r.PlayerID, r.PlayerName, strOrEmpty(r.Position), floatOrEmpty(r.AgeToday), r.Active,
			floatOrEmpty(r.CareerMinutes), intOrEmpty(r.CareerGoals), intOrEmpty(r.CareerAssists),
			strOrEmpty(r.LatestSeason), strOrEmpty(r.LatestCompetition), floatOrEmpty(r.LatestRating),
			floatOrEmpty(r.FormAvgRating), floatOrEmpty(r.FormGoals), floatOrEmpty(r.FormXGTotal),
			strOrEmpty(r.TopStat1Name), floatOrEmpty(r.TopStat1Pct),
			strOrEmpty(r.TopStat2Name), floatOrEmpty(r.TopStat2Pct),
			strOrEmpty(r.TopStat3Name), floatOrEmpty(r.TopStat3Pct),
		}
		for j, v := range values {
			if v == nil {
				continue
			}
			cell, _ := excelize.CoordinatesToCellName(j+1, i+2)
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return fmt.Errorf("failed to write row %d: %w", i, err)
			}
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook %s: %w", path, err)
	}
	return nil
}

func strOrEmpty(v *string) interface{} {
	if v == nil {
		return nil
	}
	return *v
}

func floatOrEmpty(v *float64) interface{} {
	if v == nil {
		return nil
	}
	return *v
}

func intOrEmpty(v *int64) interface{} {
	if v == nil {
		return nil
	}
	return *v
}
