// Package exporter writes the human-facing mirrors of selected artifacts:
// CSV copies of the score and scouting tables and an xlsx workbook for the
// scouting desk. Parquet stays the machine format; these files exist for
// spreadsheet users.
package exporter

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"matchpulse/internal/dataset"
)

// writeCSV writes headers plus records, replacing any existing file
func writeCSV(path string, headers []string, records [][]string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer file.Close()

	w := csv.NewWriter(file)
	if err := w.Write(headers); err != nil {
		return fmt.Errorf("failed to write headers: %w", err)
	}
	for i, rec := range records {
		if err := w.Write(rec); err != nil {
			return fmt.Errorf("failed to write record %d: %w", i, err)
		}
	}
	w.Flush()
	return w.Error()
}

func cellInt(v *int64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatInt(*v, 10)
}

func cellFloat(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

func cellStr(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}

// WriteMatchScoresCSV mirrors the resolved score table
func WriteMatchScoresCSV(path string, rows []dataset.MatchScore) error {
	headers := []string{"match_id", "season", "competition_slug", "home_score", "away_score", "score_source", "total_goals", "result"}
	records := make([][]string, 0, len(rows))
	for _, r := range rows {
		records = append(records, []string{
			r.MatchID, r.Season, r.Competition,
			cellInt(r.HomeScore), cellInt(r.AwayScore),
			r.ScoreSource, cellInt(r.TotalGoals), cellStr(r.Result),
		})
	}
	return writeCSV(path, headers, records)
}

// WriteScoutingCSV mirrors the scouting profile table with the columns the
// scouting desk actually reads
func WriteScoutingCSV(path string, rows []dataset.ScoutingProfile) error {
	headers := []string{
		"player_id", "player_name", "player_position", "age_today", "active",
		"career_minutes", "career_goals", "career_assists",
		"latest_season", "latest_competition", "latest_rating", "latest_minutes",
		"form_avg_rating", "form_goals", "form_xg_total",
		"top_pct_stat_1_name", "top_pct_stat_1_pct",
		"top_pct_stat_2_name", "top_pct_stat_2_pct",
		"top_pct_stat_3_name", "top_pct_stat_3_pct",
	}
	records := make([][]string, 0, len(rows))
	for _, r := range rows {
		records = append(records, []string{
			strconv.FormatInt(r.PlayerID, 10), r.PlayerName, cellStr(r.Position),
			cellFloat(r.AgeToday), strconv.FormatBool(r.Active),
			cellFloat(r.CareerMinutes), cellInt(r.CareerGoals), cellInt(r.CareerAssists),
			cellStr(r.LatestSeason), cellStr(r.LatestCompetition),
			cellFloat(r.LatestRating), cellFloat(r.LatestMinutes),
			cellFloat(r.FormAvgRating), cellFloat(r.FormGoals), cellFloat(r.FormXGTotal),
			cellStr(r.TopStat1Name), cellFloat(r.TopStat1Pct),
			cellStr(r.TopStat2Name), cellFloat(r.TopStat2Pct),
			cellStr(r.TopStat3Name), cellFloat(r.TopStat3Pct),
		})
	}
	return writeCSV(path, headers, records)
}
