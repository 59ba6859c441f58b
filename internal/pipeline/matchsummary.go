package pipeline

import (
	"context"
	"log/slog"
	"sort"

	"matchpulse/internal/dataset"
	"matchpulse/internal/stats"
)

// BuildMatchSummary denormalizes one row per spine match: resolved score,
// full-match xG and shot numbers, possession, and the managers when the raw
// files carry them. Matches without raw data still get a row; the stat
// columns just stay null.
func (e *Env) BuildMatchSummary(ctx context.Context) error {
	spine, err := e.Store.ReadMatchIndex()
	if err != nil {
		return err
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
	refByMatch := make(map[string]dataset.RawMatchRef, len(refs))
	for _, r := range refs {
		refByMatch[r.MatchID] = r
	}

	unreadable := 0
	rows := make([]dataset.MatchSummary, 0, len(spine))
	for _, m := range spine {
		row := dataset.MatchSummary{
			MatchID:      m.MatchID,
			Season:       m.Season,
			Competition:  m.Competition,
			Round:        m.Round,
			MatchDate:    m.MatchDate,
			HomeTeamName: m.HomeTeamName,
			AwayTeamName: m.AwayTeamName,
			ScoreSource:  dataset.SourceNotScraped,
		}
		if s, ok := scoreByMatch[m.MatchID]; ok {
			row.HomeScore, row.AwayScore = s.HomeScore, s.AwayScore
			row.Result = s.Result
			row.ScoreSource = s.ScoreSource
		}

		if ref, ok := refByMatch[m.MatchID]; ok {
			if err := fillSummaryStats(&row, ref); err != nil {
				unreadable++
				e.Logger.WarnContext(ctx, "skipping unreadable match files",
					slog.String("match_id", m.MatchID), slog.String("error", err.Error()))
			}
		}

		if row.HomeXG != nil && row.AwayXG != nil {
			row.XGSwing = fptr(*row.HomeXG - *row.AwayXG)
		}
		if row.HomeScore != nil && row.HomeXG != nil {
			row.HomeXGOverperf = fptr(float64(*row.HomeScore) - *row.HomeXG)
		}
		if row.AwayScore != nil && row.AwayXG != nil {
			row.AwayXGOverperf = fptr(float64(*row.AwayScore) - *row.AwayXG)
		}
		rows = append(rows, row)
	}

	sort.Slice(rows, func(i, j int) bool { return rows[i].MatchID < rows[j].MatchID })
	if err := dataset.WriteTable(e.Paths.Processed(dataset.FileMatchSummary), rows); err != nil {
		return err
	}
	e.Logger.InfoContext(ctx, "built match summary",
		slog.Int("matches", len(rows)), slog.Int("unreadable", unreadable))
	return nil
}

func fillSummaryStats(row *dataset.MatchSummary, ref dataset.RawMatchRef) error {
	lines, ok, err := ref.ReadTeamStatistics()
	if err != nil {
		return err
	}
	if ok {
		seen := map[string]bool{}
		for _, l := range lines {
			if l.Period != "ALL" || seen[l.Name] {
				continue
			}
			seen[l.Name] = true
			h, a := stats.ParseStatValue(l.Home), stats.ParseStatValue(l.Away)
			switch l.Name {
			case statExpectedGoals:
				row.HomeXG, row.AwayXG = h, a
			case statBallPossession:
				row.HomePossession, row.AwayPossession = h, a
			case statTotalShots:
				row.HomeShots, row.AwayShots = h, a
			case statShotsOnTarget:
				row.HomeShotsOT, row.AwayShotsOT = h, a
			}
		}
	}

	mgrs, ok, err := ref.ReadManagers()
	if err != nil {
		return err
	}
	if ok {
		if mgrs.HomeManager != nil {
			row.HomeManagerName = sptr(mgrs.HomeManager.Name)
		}
		if mgrs.AwayManager != nil {
			row.AwayManagerName = sptr(mgrs.AwayManager.Name)
		}
	}
	return nil
}
