package pipeline

import (
	"context"
	"log/slog"
	"sort"
	"strings"

	"matchpulse/internal/dataset"
)

// BuildManagers turns each match's managers file into two per-side rows
// carrying the manager's own result, then aggregates lifetime records per
// manager. Points per match uses the conventional 3/1/0 scoring.
func (e *Env) BuildManagers(ctx context.Context) error {
	spine, err := e.Store.ReadMatchIndex()
	if err != nil {
		return err
	}
	matchByID := make(map[string]dataset.MatchIndexRow, len(spine))
	for _, m := range spine {
		matchByID[m.MatchID] = m
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

	var rows []dataset.ManagerMatch
	unreadable := 0
	for _, ref := range refs {
		mgrs, ok, err := ref.ReadManagers()
		if err != nil {
			unreadable++
			e.Logger.WarnContext(ctx, "skipping unreadable managers file",
				slog.String("match_id", ref.MatchID), slog.String("error", err.Error()))
			continue
		}
		if !ok {
			continue
		}
		m, known := matchByID[ref.MatchID]
		if !known {
			continue
		}
		score := scoreByMatch[ref.MatchID]

		for _, side := range []struct {
			name string
			mgr  *dataset.ManagerRef
			team string
		}{
			{"home", mgrs.HomeManager, m.HomeTeamName},
			{"away", mgrs.AwayManager, m.AwayTeamName},
		} {
			if side.mgr == nil {
				continue
			}
			row := dataset.ManagerMatch{
				MatchID:     ref.MatchID,
				Season:      ref.Season,
				Competition: ref.Competition,
				ManagerID:   iptr(side.mgr.ID),
				ManagerName: side.mgr.Name,
				ManagerSlug: side.mgr.Slug,
				Side:        side.name,
				TeamName:    side.team,
				Result:      sideResult(score.Result, side.name),
			}
			if score.HomeScore != nil && score.AwayScore != nil {
				if side.name == "home" {
					row.ScoreOwn, row.ScoreOpp = score.HomeScore, score.AwayScore
				} else {
					row.ScoreOwn, row.ScoreOpp = score.AwayScore, score.HomeScore
				}
			}
			rows = append(rows, row)
		}
	}

	sort.Slice(rows, func(i, j int) bool {
		if rows[i].MatchID != rows[j].MatchID {
			return rows[i].MatchID < rows[j].MatchID
		}
		return rows[i].Side < rows[j].Side
	})
	if err := dataset.WriteTable(e.Paths.Processed(dataset.FileManagers), rows); err != nil {
		return err
	}

	careers := buildManagerCareers(rows)
	if err := dataset.WriteTable(e.Paths.Processed(dataset.FileManagerCareers), careers); err != nil {
		return err
	}
	e.Logger.InfoContext(ctx, "built managers",
		slog.Int("manager_matches", len(rows)),
		slog.Int("managers", len(careers)),
		slog.Int("unreadable", unreadable))
	return nil
}

// sideResult converts the match result (H, D, A) into the given side's own
// W/D/L. Matches with no resolved score count as draws, same as the
// upstream convention.
func sideResult(result *string, side string) string {
	if result == nil {
		return "D"
	}
	switch *result {
	case "H":
		if side == "home" {
			return "W"
		}
		return "L"
	case "A":
		if side == "away" {
			return "W"
		}
		return "L"
	default:
		return "D"
	}
}

func buildManagerCareers(rows []dataset.ManagerMatch) []dataset.ManagerCareer {
	type agg struct {
		name                string
		matches             map[string]bool
		wins, draws, losses int64
		seasons, comps      map[string]bool
		teams               map[string]bool
	}
	byManager := map[int64]*agg{}
	for _, r := range rows {
		if r.ManagerID == nil {
			continue
		}
		a := byManager[*r.ManagerID]
		if a == nil {
			a = &agg{
				name:    r.ManagerName,
				matches: map[string]bool{},
				seasons: map[string]bool{},
				comps:   map[string]bool{},
				teams:   map[string]bool{},
			}
			byManager[*r.ManagerID] = a
		}
		a.matches[r.MatchID] = true
		a.seasons[r.Season] = true
		a.comps[r.Competition] = true
		a.teams[r.TeamName] = true
		switch r.Result {
		case "W":
			a.wins++
		case "L":
			a.losses++
		default:
			a.draws++
		}
	}

	out := make([]dataset.ManagerCareer, 0, len(byManager))
	for _, managerID := range sortedKeys(byManager) {
		a := byManager[managerID]
		c := dataset.ManagerCareer{
			ManagerID:    managerID,
			ManagerName:  a.name,
			TotalMatches: int64(len(a.matches)),
			Wins:         a.wins,
			Draws:        a.draws,
			Losses:       a.losses,
			Seasons:      strings.Join(sortedKeys(a.seasons), ","),
			Competitions: strings.Join(sortedKeys(a.comps), ","),
			Teams:        strings.Join(sortedKeys(a.teams), ","),
		}
		if c.TotalMatches > 0 {
			c.WinRate = fptr(float64(c.Wins) / float64(c.TotalMatches))
			c.PointsPerMatch = float64(3*c.Wins+c.Draws) / float64(c.TotalMatches)
		}
		out = append(out, c)
	}
	return out
}
