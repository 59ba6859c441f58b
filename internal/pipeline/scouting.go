package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"matchpulse/internal/dataset"
	"matchpulse/internal/exporter"
)

// appearanceDOB reads only the identity columns needed for age
type appearanceDOB struct {
	PlayerID    int64  `parquet:"player_id"`
	DateOfBirth *int64 `parquet:"player_dateOfBirthTimestamp,optional"`
}

// BuildScoutingProfiles denormalizes one row per tracked player: identity,
// age, career shape, latest qualifying season, window-10 form, and the
// player's three strongest in-competition percentile stats. Also writes the
// spreadsheet-facing CSV mirror and xlsx workbook.
func (e *Env) BuildScoutingProfiles(ctx context.Context) error {
	players, err := e.Store.ReadPlayerIndex()
	if err != nil {
		return err
	}
	dobs, err := dataset.ReadTable[appearanceDOB](e.Paths.Derived(dataset.FileAppearances))
	if err != nil {
		return err
	}
	seasons, err := dataset.ReadTable[dataset.PlayerSeason](e.Paths.Processed(dataset.FilePlayerSeasonStats))
	if err != nil {
		return err
	}
	careers, err := dataset.ReadTable[dataset.PlayerCareer](e.Paths.Processed(dataset.FilePlayerCareerStats))
	if err != nil {
		return err
	}
	form, err := dataset.ReadTable[dataset.RollingForm](e.Paths.Processed(dataset.FileRollingForm))
	if err != nil {
		return err
	}
	ranks, err := dataset.ReadTable[dataset.PercentileRank](e.Paths.Processed(dataset.FilePercentileRanks))
	if err != nil {
		return err
	}

	dobByPlayer := map[int64]int64{}
	for _, d := range dobs {
		if d.DateOfBirth != nil {
			if _, seen := dobByPlayer[d.PlayerID]; !seen {
				dobByPlayer[d.PlayerID] = *d.DateOfBirth
			}
		}
	}
	careerByPlayer := map[int64]*dataset.PlayerCareer{}
	for i := range careers {
		careerByPlayer[careers[i].PlayerID] = &careers[i]
	}
	form10ByPlayer := map[int64]*dataset.RollingForm{}
	for i := range form {
		if form[i].Window == 10 {
			form10ByPlayer[form[i].PlayerID] = &form[i]
		}
	}

	// Latest sufficient-minutes season per player
	latestByPlayer := map[int64]*dataset.PlayerSeason{}
	for i := range seasons {
		s := &seasons[i]
		if !s.SufficientMinutes {
			continue
		}
		cur := latestByPlayer[s.PlayerID]
		if cur == nil || s.Season > cur.Season {
			latestByPlayer[s.PlayerID] = s
		}
	}

	// Top three in-competition percentile stats per player
	ranksByPlayer := map[int64][]dataset.PercentileRank{}
	for _, r := range ranks {
		ranksByPlayer[r.PlayerID] = append(ranksByPlayer[r.PlayerID], r)
	}
	for _, playerRanks := range ranksByPlayer {
		sort.Slice(playerRanks, func(i, j int) bool {
			if playerRanks[i].PctInComp != playerRanks[j].PctInComp {
				return playerRanks[i].PctInComp > playerRanks[j].PctInComp
			}
			return playerRanks[i].StatName < playerRanks[j].StatName
		})
	}

	nowSec := float64(time.Now().UTC().Unix())
	rows := make([]dataset.ScoutingProfile, 0, len(players))
	for _, p := range players {
		row := dataset.ScoutingProfile{
			PlayerID:        p.PlayerID,
			PlayerName:      p.PlayerName,
			PlayerSlug:      p.PlayerSlug,
			PlayerShortName: p.PlayerShortName,
			NMatches:        p.NMatches,
		}
		if dob, ok := dobByPlayer[p.PlayerID]; ok {
			row.AgeToday = fptr((nowSec - float64(dob)) / (365.25 * 24 * 3600))
		}
		if c, ok := careerByPlayer[p.PlayerID]; ok {
			row.Position = sptr(c.Position)
			row.CareerMinutes = fptr(c.TotalMinutes)
			row.CareerGoals = iptr(c.Goals)
			row.CareerAssists = iptr(c.Assists)
			row.FirstSeason = sptr(c.FirstSeason)
			row.LastSeason = sptr(c.LastSeason)
			row.Active = true
		}
		if latest, ok := latestByPlayer[p.PlayerID]; ok {
			row.LatestSeason = sptr(latest.Season)
			row.LatestCompetition = sptr(latest.Competition)
			row.LatestRating = latest.AvgRating
			row.LatestMinutes = fptr(latest.TotalMinutes)
			row.LatestAppearances = iptr(latest.Appearances)
			row.SufficientLatest = latest.TotalMinutes >= e.Cfg.Pipeline.MinMinutesSeason
		}
		if f, ok := form10ByPlayer[p.PlayerID]; ok {
			row.FormAvgRating = f.AvgRating
			row.FormGoals = fptr(f.Goals)
			row.FormXGTotal = f.XGTotal
			row.FormMinutes = fptr(f.TotalMinutes)
		}
		if top := ranksByPlayer[p.PlayerID]; len(top) > 0 {
			fillTopStats(&row, top)
		}
		rows = append(rows, row)
	}

	sort.Slice(rows, func(i, j int) bool { return rows[i].PlayerID < rows[j].PlayerID })
	if err := dataset.WriteTable(e.Paths.Processed(dataset.FileScoutingProfiles), rows); err != nil {
		return err
	}
	if err := exporter.WriteScoutingCSV(e.Paths.Processed(dataset.FileScoutingCSVMirror), rows); err != nil {
		return fmt.Errorf("failed to write scouting csv mirror: %w", err)
	}
	xlsxPath := e.Paths.Processed("08_player_scouting_profiles.xlsx")
	if err := exporter.WriteScoutingWorkbook(xlsxPath, rows); err != nil {
		return fmt.Errorf("failed to write scouting workbook: %w", err)
	}

	e.Logger.InfoContext(ctx, "built scouting profiles", slog.Int("players", len(rows)))
	return nil
}

func fillTopStats(row *dataset.ScoutingProfile, top []dataset.PercentileRank) {
	if len(top) > 0 {
		row.TopStat1Name = sptr(top[0].StatName)
		row.TopStat1Value = fptr(top[0].StatValue)
		row.TopStat1Pct = fptr(top[0].PctInComp)
	}
	if len(top) > 1 {
		row.TopStat2Name = sptr(top[1].StatName)
		row.TopStat2Value = fptr(top[1].StatValue)
		row.TopStat2Pct = fptr(top[1].PctInComp)
	}
	if len(top) > 2 {
		row.TopStat3Name = sptr(top[2].StatName)
		row.TopStat3Value = fptr(top[2].StatValue)
		row.TopStat3Pct = fptr(top[2].PctInComp)
	}
}
