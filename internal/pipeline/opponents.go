package pipeline

import (
	"context"
	"log/slog"
	"sort"

	"matchpulse/internal/dataset"
	"matchpulse/internal/stats"
)

// BuildOpponentContext splits each player's season by opponent strength.
// Teams are tiered per (season, competition) on xg_against_total: a tercile
// cut when at least three distinct values exist, otherwise a median split
// where only the strictly-above-median teams form top_third and everything
// else is bottom_third (no mid tier). Player aggregates per tier require 90
// minutes of exposure. A summary table pivots rating by tier into a
// big-game delta.
func (e *Env) BuildOpponentContext(ctx context.Context) error {
	apps, err := e.Store.ReadAppearances()
	if err != nil {
		return err
	}
	teams, err := dataset.ReadTable[dataset.TeamSeason](e.Paths.Processed(dataset.FileTeamSeasonStats))
	if err != nil {
		return err
	}
	spine, err := e.Store.ReadMatchIndex()
	if err != nil {
		return err
	}

	tierByTeam := tierTeams(teams)

	matchByID := make(map[string]dataset.MatchIndexRow, len(spine))
	for _, m := range spine {
		matchByID[m.MatchID] = m
	}

	type tierKey struct {
		playerID    int64
		season      string
		competition string
		tier        string
	}
	type tierAgg struct {
		name, position string
		n              int64
		minutes        float64
		rating         optMean
		goals          optSum
		xg, keyPasses  optSum
		tackles        optSum
	}
	aggs := map[tierKey]*tierAgg{}
	for i := range apps {
		a := &apps[i]
		m, ok := matchByID[a.MatchID]
		if !ok {
			continue
		}
		opponent := m.AwayTeamName
		if a.Side != "home" {
			opponent = m.HomeTeamName
		}
		tier, ok := tierByTeam[teamSeasonKeyOf(opponent, m.Season, m.Competition)]
		if !ok {
			continue
		}
		key := tierKey{a.PlayerID, m.Season, m.Competition, tier}
		agg := aggs[key]
		if agg == nil {
			agg = &tierAgg{name: a.PlayerName, position: a.Position}
			aggs[key] = agg
		}
		agg.n++
		agg.minutes += a.Minutes()
		agg.rating.Add(a.Rating)
		agg.goals.Add(a.Goals)
		agg.xg.Add(a.ExpectedGoals)
		agg.keyPasses.Add(a.KeyPasses)
		agg.tackles.Add(a.Tackles)
	}

	var rows []dataset.OpponentContext
	for key, agg := range aggs {
		if agg.minutes < 90 {
			continue
		}
		rows = append(rows, dataset.OpponentContext{
			PlayerID:     key.playerID,
			PlayerName:   agg.name,
			Position:     agg.position,
			Season:       key.season,
			Competition:  key.competition,
			OpponentTier: key.tier,
			NAppearances: agg.n,
			AvgRating:    agg.rating.Ptr(),
			Goals:        agg.goals.Total,
			XGTotal:      agg.xg.Ptr(),
			XGPer90:      stats.Per90(agg.xg.Ptr(), agg.minutes),
			KeyPassPer90: stats.Per90(agg.keyPasses.Ptr(), agg.minutes),
			TacklesPer90: stats.Per90(agg.tackles.Ptr(), agg.minutes),
		})
	}

	sort.Slice(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if a.PlayerID != b.PlayerID {
			return a.PlayerID < b.PlayerID
		}
		if a.Season != b.Season {
			return a.Season < b.Season
		}
		if a.Competition != b.Competition {
			return a.Competition < b.Competition
		}
		return a.OpponentTier < b.OpponentTier
	})

	if err := dataset.WriteTable(e.Paths.Processed(dataset.FileOpponentContext), rows); err != nil {
		return err
	}

	summary := buildOpponentSummary(rows)
	if err := dataset.WriteTable(e.Paths.Processed(dataset.FileOpponentSummary), summary); err != nil {
		return err
	}
	e.Logger.InfoContext(ctx, "built opponent context",
		slog.Int("tier_rows", len(rows)), slog.Int("summary_rows", len(summary)))
	return nil
}

func teamSeasonKeyOf(team, season, competition string) string {
	return team + "\x00" + season + "\x00" + competition
}

// tierTeams labels every (team, season, competition) with an opponent
// strength tier based on xg_against_total within its competition season.
// Lower xg against reads as the stronger defensive side.
func tierTeams(teams []dataset.TeamSeason) map[string]string {
	type group struct{ season, competition string }
	byGroup := map[group][]dataset.TeamSeason{}
	for _, t := range teams {
		g := group{t.Season, t.Competition}
		byGroup[g] = append(byGroup[g], t)
	}

	out := map[string]string{}
	for _, members := range byGroup {
		values := make([]float64, 0, len(members))
		distinct := map[float64]bool{}
		for _, m := range members {
			values = append(values, m.XGAgainstTotal)
			distinct[m.XGAgainstTotal] = true
		}
		if len(values) < 2 {
			continue
		}
		if len(distinct) >= 3 && len(values) >= 3 {
			q33 := deref(stats.Quantile(values, 100.0/3))
			q66 := deref(stats.Quantile(values, 200.0/3))
			for _, m := range members {
				tier := dataset.TierBottom
				switch {
				case m.XGAgainstTotal <= q33:
					tier = dataset.TierTop
				case m.XGAgainstTotal <= q66:
					tier = dataset.TierMid
				}
				out[teamSeasonKeyOf(m.TeamName, m.Season, m.Competition)] = tier
			}
			continue
		}
		median := deref(stats.Quantile(values, 50))
		for _, m := range members {
			tier := dataset.TierBottom
			if m.XGAgainstTotal > median {
				tier = dataset.TierTop
			}
			out[teamSeasonKeyOf(m.TeamName, m.Season, m.Competition)] = tier
		}
	}
	return out
}

func buildOpponentSummary(rows []dataset.OpponentContext) []dataset.OpponentSummary {
	type key struct {
		playerID            int64
		season, competition string
	}
	summaries := map[key]*dataset.OpponentSummary{}
	order := []key{}
	for _, r := range rows {
		k := key{r.PlayerID, r.Season, r.Competition}
		s := summaries[k]
		if s == nil {
			s = &dataset.OpponentSummary{
				PlayerID:    r.PlayerID,
				PlayerName:  r.PlayerName,
				Position:    r.Position,
				Season:      r.Season,
				Competition: r.Competition,
			}
			summaries[k] = s
			order = append(order, k)
		}
		switch r.OpponentTier {
		case dataset.TierTop:
			s.RatingVsTop = r.AvgRating
		case dataset.TierBottom:
			s.RatingVsBottom = r.AvgRating
		}
	}

	out := make([]dataset.OpponentSummary, 0, len(order))
	for _, k := range order {
		s := summaries[k]
		if s.RatingVsTop != nil && s.RatingVsBottom != nil {
			s.BigGameDelta = fptr(*s.RatingVsTop - *s.RatingVsBottom)
		}
		out = append(out, *s)
	}
	return out
}
