package pipeline

import (
	"context"
	"log/slog"
	"strings"

	"matchpulse/internal/dataset"
	"matchpulse/internal/stats"
)

// BuildPlayerCareerStats rolls player season rows up into one lifetime row
// per player: summed totals, career per-90s, season and competition history,
// and the peak seasons by rating and expected goals.
func (e *Env) BuildPlayerCareerStats(ctx context.Context) error {
	seasons, err := dataset.ReadTable[dataset.PlayerSeason](e.Paths.Processed(dataset.FilePlayerSeasonStats))
	if err != nil {
		return err
	}

	byPlayer := map[int64][]dataset.PlayerSeason{}
	for _, s := range seasons {
		byPlayer[s.PlayerID] = append(byPlayer[s.PlayerID], s)
	}

	rows := make([]dataset.PlayerCareer, 0, len(byPlayer))
	for _, playerID := range sortedKeys(byPlayer) {
		rows = append(rows, buildCareerRow(byPlayer[playerID], e.Cfg.Pipeline.MinMinutesCareer))
	}

	if err := dataset.WriteTable(e.Paths.Processed(dataset.FilePlayerCareerStats), rows); err != nil {
		return err
	}
	e.Logger.InfoContext(ctx, "aggregated player careers",
		slog.Int("players", len(rows)), slog.Int("player_seasons", len(seasons)))
	return nil
}

func buildCareerRow(seasons []dataset.PlayerSeason, minMinutes float64) dataset.PlayerCareer {
	first := seasons[0]
	row := dataset.PlayerCareer{
		PlayerID:   first.PlayerID,
		PlayerName: first.PlayerName,
		Position:   first.Position,
	}

	seasonSet := map[string]bool{}
	compSet := map[string]bool{}
	var peakRating *float64
	var peakXG *float64
	for _, s := range seasons {
		row.Appearances += s.Appearances
		row.Starts += s.Starts
		row.TotalMinutes += s.TotalMinutes
		row.Goals += s.Goals
		row.Assists += s.Assists
		row.GoalContributions += s.GoalContributions
		row.YellowCards += s.YellowCards
		row.RedCards += s.RedCards
		seasonSet[s.Season] = true
		compSet[s.Competition] = true

		if s.AvgRating != nil && (peakRating == nil || *s.AvgRating > *peakRating) {
			peakRating = s.AvgRating
			row.PeakRatingSeason = sptr(s.Season)
			row.PeakRating = s.AvgRating
		}
		if s.XGPer90 != nil && (peakXG == nil || *s.XGPer90 > *peakXG) {
			peakXG = s.XGPer90
			row.PeakXGSeason = sptr(s.Season)
		}
	}

	row.SubAppearances = row.Appearances - row.Starts
	if row.Appearances > 0 {
		row.AvgMinutesPerGame = row.TotalMinutes / float64(row.Appearances)
	}
	row.SufficientMinutes = row.TotalMinutes >= minMinutes

	goals, assists, contrib := float64(row.Goals), float64(row.Assists), float64(row.GoalContributions)
	row.GoalsPer90 = stats.Per90(&goals, row.TotalMinutes)
	row.AssistsPer90 = stats.Per90(&assists, row.TotalMinutes)
	row.ContributionsPer90 = stats.Per90(&contrib, row.TotalMinutes)

	seasonNames := sortedKeys(seasonSet)
	compNames := sortedKeys(compSet)
	row.FirstSeason = seasonNames[0]
	row.LastSeason = seasonNames[len(seasonNames)-1]
	row.NSeasons = int64(len(seasonNames))
	row.NCompetitions = int64(len(compNames))
	row.SeasonsList = strings.Join(seasonNames, ",")
	row.CompetitionsList = strings.Join(compNames, ",")
	return row
}
