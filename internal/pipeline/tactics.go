package pipeline

import (
	"context"
	"log/slog"
	"sort"

	"matchpulse/internal/dataset"
)

// BuildTacticalProfiles derives style indices per (team, season,
// competition) from the team season table, then ranks each index within its
// competition season as a fraction in (0, 1]. Ties share their average
// rank.
func (e *Env) BuildTacticalProfiles(ctx context.Context) error {
	teams, err := dataset.ReadTable[dataset.TeamSeason](e.Paths.Processed(dataset.FileTeamSeasonStats))
	if err != nil {
		return err
	}

	rows := make([]dataset.TacticalProfile, 0, len(teams))
	for _, t := range teams {
		row := dataset.TacticalProfile{
			TeamName:    t.TeamName,
			Season:      t.Season,
			Competition: t.Competition,
		}
		row.PossessionIndex = t.PossessionAvg
		if t.PassesTotal > 0 {
			row.DirectnessIndex = fptr(t.LongBalls / t.PassesTotal)
		}
		row.PressingIndex = fptr(t.TacklesTotal + t.Interceptions)
		row.AerialIndex = t.AerialDuelsAvg
		row.CrossingIndex = fptr(t.Crosses)
		row.ChanceCreationIndex = fptr(t.BigChancesTotal)
		if t.XGAgainstTotal > 0 {
			row.DefensiveSolidity = fptr(1 / t.XGAgainstTotal)
		}
		if t.MatchesHome > 0 && t.MatchesAway > 0 {
			homePG := t.XGForHome / float64(t.MatchesHome)
			awayPG := t.XGForAway / float64(t.MatchesAway)
			diff := homePG - awayPG
			if diff < 0 {
				diff = -diff
			}
			row.HomeAwayConsistency = fptr(1 / (1 + diff))
		}
		if t.ShotsFirstHalf > 0 {
			row.SecondHalfIntensity = fptr(t.ShotsSecondHalf / t.ShotsFirstHalf)
		}
		rows = append(rows, row)
	}

	rankWithinGroups(rows)

	sort.Slice(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if a.TeamName != b.TeamName {
			return a.TeamName < b.TeamName
		}
		if a.Season != b.Season {
			return a.Season < b.Season
		}
		return a.Competition < b.Competition
	})

	if err := dataset.WriteTable(e.Paths.Processed(dataset.FileTacticalProfiles), rows); err != nil {
		return err
	}
	e.Logger.InfoContext(ctx, "built tactical profiles", slog.Int("team_seasons", len(rows)))
	return nil
}

// tacticalIndexes binds each index to its rank column
var tacticalIndexes = []struct {
	value func(*dataset.TacticalProfile) *float64
	rank  func(*dataset.TacticalProfile, *float64)
}{
	{func(p *dataset.TacticalProfile) *float64 { return p.PossessionIndex }, func(p *dataset.TacticalProfile, v *float64) { p.PossessionPct = v }},
	{func(p *dataset.TacticalProfile) *float64 { return p.DirectnessIndex }, func(p *dataset.TacticalProfile, v *float64) { p.DirectnessPct = v }},
	{func(p *dataset.TacticalProfile) *float64 { return p.PressingIndex }, func(p *dataset.TacticalProfile, v *float64) { p.PressingPct = v }},
	{func(p *dataset.TacticalProfile) *float64 { return p.AerialIndex }, func(p *dataset.TacticalProfile, v *float64) { p.AerialPct = v }},
	{func(p *dataset.TacticalProfile) *float64 { return p.CrossingIndex }, func(p *dataset.TacticalProfile, v *float64) { p.CrossingPct = v }},
	{func(p *dataset.TacticalProfile) *float64 { return p.ChanceCreationIndex }, func(p *dataset.TacticalProfile, v *float64) { p.ChanceCreationPct = v }},
	{func(p *dataset.TacticalProfile) *float64 { return p.DefensiveSolidity }, func(p *dataset.TacticalProfile, v *float64) { p.DefSolidityPct = v }},
	{func(p *dataset.TacticalProfile) *float64 { return p.HomeAwayConsistency }, func(p *dataset.TacticalProfile, v *float64) { p.HomeAwayPct = v }},
	{func(p *dataset.TacticalProfile) *float64 { return p.SecondHalfIntensity }, func(p *dataset.TacticalProfile, v *float64) { p.SecondHalfPct = v }},
}

func rankWithinGroups(rows []dataset.TacticalProfile) {
	type group struct{ season, competition string }
	byGroup := map[group][]int{}
	for i, r := range rows {
		g := group{r.Season, r.Competition}
		byGroup[g] = append(byGroup[g], i)
	}

	for _, idx := range tacticalIndexes {
		for _, members := range byGroup {
			type obs struct {
				row   int
				value float64
			}
			present := []obs{}
			for _, i := range members {
				if v := idx.value(&rows[i]); v != nil {
					present = append(present, obs{i, *v})
				}
			}
			if len(present) == 0 {
				continue
			}
			sort.Slice(present, func(a, b int) bool { return present[a].value < present[b].value })
			n := float64(len(present))
			// Average rank for ties, scaled to (0, 1]
			i := 0
			for i < len(present) {
				j := i
				for j < len(present) && present[j].value == present[i].value {
					j++
				}
				avgRank := float64(i+j+1) / 2 // 1-based average of ranks i+1..j
				for k := i; k < j; k++ {
					idx.rank(&rows[present[k].row], fptr(avgRank/n))
				}
				i = j
			}
		}
	}
}
