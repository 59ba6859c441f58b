package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"golang.org/x/sync/errgroup"

	"matchpulse/internal/dataset"
	"matchpulse/internal/stats"
)

// teamMatchObs is one team's parsed side of one match's team_statistics.csv
type teamMatchObs struct {
	matchID     string
	season      string
	competition string
	teamName    string
	side        string

	vals               map[string]*float64
	xg1st, xg2nd       *float64
	shots1st, shots2nd *float64
}

// Raw stat display names, as written by the source
const (
	statBallPossession = "Ball possession"
	statExpectedGoals  = "Expected goals"
	statBigChances     = "Big chances"
	statTotalShots     = "Total shots"
	statShotsOnTarget  = "Shots on target"
	statPasses         = "Passes"
	statAccuratePasses = "Accurate passes"
	statLongBalls      = "Long balls"
	statCrosses        = "Crosses"
	statCornerKicks    = "Corner kicks"
	statFouls          = "Fouls"
	statYellowCards    = "Yellow cards"
	statRedCards       = "Red cards"
	statTotalTackles   = "Total tackles"
	statTacklesWon     = "Tackles won"
	statInterceptions  = "Interceptions"
	statRecoveries     = "Recoveries"
	statClearances     = "Clearances"
	statTotalSaves     = "Total saves"
	statDuels          = "Duels"
	statGroundDuels    = "Ground duels"
	statAerialDuels    = "Aerial duels"
	statDribbles       = "Dribbles"
)

// BuildTeamSeasonStats aggregates raw per-match team statistics into one row
// per (team, season, competition). Raw files load concurrently; aggregation
// runs over the sorted match list so output does not depend on scheduling.
func (e *Env) BuildTeamSeasonStats(ctx context.Context) error {
	spine, err := e.Store.ReadMatchIndex()
	if err != nil {
		return err
	}
	meta := make(map[string]dataset.MatchIndexRow, len(spine))
	for _, m := range spine {
		meta[m.MatchID] = m
	}

	scores, err := dataset.ReadTable[dataset.MatchScore](e.Paths.Processed(dataset.FileMatchScores))
	if err != nil {
		return err
	}
	scoreByMatch := make(map[string]dataset.MatchScore, len(scores))
	for _, s := range scores {
		scoreByMatch[s.MatchID] = s
	}

	refs, err := e.Store.ListRawMatches()
	if err != nil {
		return err
	}

	// One slot per raw match dir, filled concurrently, consumed in order.
	// A nil slot means the match had no usable statistics file.
	obs := make([][]teamMatchObs, len(refs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.Cfg.Pipeline.RawLoadConcurrency)
	skipped := 0
	for i, ref := range refs {
		g.Go(func() error {
			if gctx.Err() != nil {
				return gctx.Err()
			}
			m, known := meta[ref.MatchID]
			if !known || m.Season != ref.Season || m.Competition != ref.Competition {
				return nil
			}
			pair, err := parseTeamMatch(ref, m)
			if err != nil {
				e.Logger.WarnContext(gctx, "skipping unreadable team statistics",
					slog.String("match_id", ref.MatchID), slog.String("error", err.Error()))
				return nil
			}
			obs[i] = pair
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return fmt.Errorf("failed to load raw team statistics: %w", err)
	}

	// Opponent xG per match: key the paired observations before aggregating
	type matchXG struct{ home, away *float64 }
	xgByMatch := map[string]matchXG{}
	for _, pair := range obs {
		for _, o := range pair {
			mx := xgByMatch[o.matchID]
			if o.side == "home" {
				mx.home = o.vals[statExpectedGoals]
			} else {
				mx.away = o.vals[statExpectedGoals]
			}
			xgByMatch[o.matchID] = mx
		}
	}

	aggs := map[string]*teamSeasonAgg{}
	for _, pair := range obs {
		if pair == nil {
			skipped++
			continue
		}
		for _, o := range pair {
			key := o.teamName + "\x00" + o.season + "\x00" + o.competition
			a := aggs[key]
			if a == nil {
				a = &teamSeasonAgg{teamName: o.teamName, season: o.season, competition: o.competition}
				aggs[key] = a
			}
			a.add(o, xgByMatch[o.matchID], scoreByMatch[o.matchID])
		}
	}

	rows := make([]dataset.TeamSeason, 0, len(aggs))
	for _, key := range sortedKeys(aggs) {
		rows = append(rows, aggs[key].row())
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].TeamName != rows[j].TeamName {
			return rows[i].TeamName < rows[j].TeamName
		}
		if rows[i].Season != rows[j].Season {
			return rows[i].Season < rows[j].Season
		}
		return rows[i].Competition < rows[j].Competition
	})

	if err := dataset.WriteTable(e.Paths.Processed(dataset.FileTeamSeasonStats), rows); err != nil {
		return err
	}
	e.Logger.InfoContext(ctx, "aggregated team season stats",
		slog.Int("team_seasons", len(rows)),
		slog.Int("raw_matches", len(refs)),
		slog.Int("skipped", skipped))
	return nil
}

// parseTeamMatch reads one match's statistics file into a home and an away
// observation. Returns nil when the file is absent or carries no full-match
// period.
func parseTeamMatch(ref dataset.RawMatchRef, m dataset.MatchIndexRow) ([]teamMatchObs, error) {
	lines, ok, err := ref.ReadTeamStatistics()
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}

	home := newTeamObs(ref, m.HomeTeamName, "home")
	away := newTeamObs(ref, m.AwayTeamName, "away")

	byPeriod := map[string]map[string][2]string{}
	for _, l := range lines {
		period := byPeriod[l.Period]
		if period == nil {
			period = map[string][2]string{}
			byPeriod[l.Period] = period
		}
		// Duplicate stat names keep the first occurrence
		if _, seen := period[l.Name]; !seen {
			period[l.Name] = [2]string{l.Home, l.Away}
		}
	}

	all, ok := byPeriod["ALL"]
	if !ok || len(all) == 0 {
		return nil, nil
	}
	for name, cells := range all {
		home.vals[name] = stats.ParseStatValue(cells[0])
		away.vals[name] = stats.ParseStatValue(cells[1])
	}
	if first := byPeriod["1ST"]; first != nil {
		home.xg1st = stats.ParseStatValue(first[statExpectedGoals][0])
		away.xg1st = stats.ParseStatValue(first[statExpectedGoals][1])
		home.shots1st = stats.ParseStatValue(first[statTotalShots][0])
		away.shots1st = stats.ParseStatValue(first[statTotalShots][1])
	}
	if second := byPeriod["2ND"]; second != nil {
		home.xg2nd = stats.ParseStatValue(second[statExpectedGoals][0])
		away.xg2nd = stats.ParseStatValue(second[statExpectedGoals][1])
		home.shots2nd = stats.ParseStatValue(second[statTotalShots][0])
		away.shots2nd = stats.ParseStatValue(second[statTotalShots][1])
	}
	return []teamMatchObs{home, away}, nil
}

func newTeamObs(ref dataset.RawMatchRef, team, side string) teamMatchObs {
	return teamMatchObs{
		matchID:     ref.MatchID,
		season:      ref.Season,
		competition: ref.Competition,
		teamName:    team,
		side:        side,
		vals:        map[string]*float64{},
	}
}

// teamSeasonAgg accumulates one (team, season, competition) group
type teamSeasonAgg struct {
	teamName    string
	season      string
	competition string

	matchesTotal, matchesHome, matchesAway int64

	xgFor, xgAgainst, xgHome, xgAway   optSum
	xg1st, xg2nd, shots1st, shots2nd   optSum
	shots, shotsOT, bigChances         optSum
	passes, accPasses, longBalls       optSum
	crosses, corners, fouls            optSum
	yellow, red                        optSum
	tackles, tacklesWon, interceptions optSum
	clearances, recoveries, saves      optSum

	possession, aerial, ground, duels, dribbles optMean

	goalsFor, goalsAgainst int64
}

func (a *teamSeasonAgg) add(o teamMatchObs, mx struct{ home, away *float64 }, score dataset.MatchScore) {
	a.matchesTotal++
	if o.side == "home" {
		a.matchesHome++
		a.xgHome.Add(o.vals[statExpectedGoals])
		a.xgAgainst.Add(mx.away)
	} else {
		a.matchesAway++
		a.xgAway.Add(o.vals[statExpectedGoals])
		a.xgAgainst.Add(mx.home)
	}

	a.xgFor.Add(o.vals[statExpectedGoals])
	a.xg1st.Add(o.xg1st)
	a.xg2nd.Add(o.xg2nd)
	a.shots1st.Add(o.shots1st)
	a.shots2nd.Add(o.shots2nd)
	a.shots.Add(o.vals[statTotalShots])
	a.shotsOT.Add(o.vals[statShotsOnTarget])
	a.bigChances.Add(o.vals[statBigChances])
	a.passes.Add(o.vals[statPasses])
	a.accPasses.Add(o.vals[statAccuratePasses])
	a.longBalls.Add(o.vals[statLongBalls])
	a.crosses.Add(o.vals[statCrosses])
	a.corners.Add(o.vals[statCornerKicks])
	a.fouls.Add(o.vals[statFouls])
	a.yellow.Add(o.vals[statYellowCards])
	a.red.Add(o.vals[statRedCards])
	a.tackles.Add(o.vals[statTotalTackles])
	a.tacklesWon.Add(o.vals[statTacklesWon])
	a.interceptions.Add(o.vals[statInterceptions])
	a.clearances.Add(o.vals[statClearances])
	a.recoveries.Add(o.vals[statRecoveries])
	a.saves.Add(o.vals[statTotalSaves])

	a.possession.Add(o.vals[statBallPossession])
	a.aerial.Add(o.vals[statAerialDuels])
	a.ground.Add(o.vals[statGroundDuels])
	a.duels.Add(o.vals[statDuels])
	a.dribbles.Add(o.vals[statDribbles])

	if score.HomeScore != nil && score.AwayScore != nil {
		if o.side == "home" {
			a.goalsFor += *score.HomeScore
			a.goalsAgainst += *score.AwayScore
		} else {
			a.goalsFor += *score.AwayScore
			a.goalsAgainst += *score.HomeScore
		}
	}
}

func (a *teamSeasonAgg) row() dataset.TeamSeason {
	row := dataset.TeamSeason{
		TeamName:        a.teamName,
		Season:          a.season,
		Competition:     a.competition,
		MatchesTotal:    a.matchesTotal,
		MatchesHome:     a.matchesHome,
		MatchesAway:     a.matchesAway,
		XGForTotal:      a.xgFor.Total,
		XGAgainstTotal:  a.xgAgainst.Total,
		XGForHome:       a.xgHome.Total,
		XGForAway:       a.xgAway.Total,
		XGForFirstHalf:  a.xg1st.Total,
		XGForSecondHalf: a.xg2nd.Total,
		ShotsFirstHalf:  a.shots1st.Total,
		ShotsSecondHalf: a.shots2nd.Total,
		ShotsTotal:      a.shots.Total,
		ShotsOnTarget:   a.shotsOT.Total,
		BigChancesTotal: a.bigChances.Total,
		PassesTotal:     a.passes.Total,
		AccPassesTotal:  a.accPasses.Total,
		LongBalls:       a.longBalls.Total,
		Crosses:         a.crosses.Total,
		CornersTotal:    a.corners.Total,
		FoulsTotal:      a.fouls.Total,
		YellowCards:     a.yellow.Total,
		RedCards:        a.red.Total,
		TacklesTotal:    a.tackles.Total,
		TacklesWon:      a.tacklesWon.Total,
		Interceptions:   a.interceptions.Total,
		Clearances:      a.clearances.Total,
		Recoveries:      a.recoveries.Total,
		KeeperSaves:     a.saves.Total,
		PossessionAvg:   a.possession.Ptr(),
		AerialDuelsAvg:  a.aerial.Ptr(),
		GroundDuelsAvg:  a.ground.Ptr(),
		DuelsAvg:        a.duels.Ptr(),
		DribblesAvg:     a.dribbles.Ptr(),
		GoalsFor:        a.goalsFor,
		GoalsAgainst:    a.goalsAgainst,
		GoalDiff:        a.goalsFor - a.goalsAgainst,
	}
	// Season pass accuracy is the ratio of sums, not the mean of per-match
	// ratios: matches with more passes must weigh more.
	if a.accPasses.Seen && a.passes.Seen && a.passes.Total > 0 {
		row.PassAccuracyAvg = fptr(a.accPasses.Total / a.passes.Total)
	}
	return row
}
