package pipeline

import (
	"context"
	"log/slog"
	"math"
	"sort"

	"matchpulse/internal/dataset"
	"matchpulse/internal/stats"
)

// BuildPercentileRanks ranks every sufficient-minutes player season against
// its peers for each published stat. The rank is the empirical CDF value:
// the share of peers strictly below the player, scaled to 0-100. For stats
// where lower is better the rank is inverted so 100 always reads as elite.
// Peer groups are (position, competition, season) and, for the pct_global
// column, (position, season). Groups under two observations are skipped.
func (e *Env) BuildPercentileRanks(ctx context.Context) error {
	seasons, err := dataset.ReadTable[dataset.PlayerSeason](e.Paths.Processed(dataset.FilePlayerSeasonStats))
	if err != nil {
		return err
	}

	type groupKey struct{ position, competition, season string }
	groups := map[groupKey][]*dataset.PlayerSeason{}
	globals := map[groupKey][]*dataset.PlayerSeason{}
	for i := range seasons {
		s := &seasons[i]
		if !s.SufficientMinutes {
			continue
		}
		gk := groupKey{s.Position, s.Competition, s.Season}
		groups[gk] = append(groups[gk], s)
		gg := groupKey{s.Position, GlobalPool, s.Season}
		globals[gg] = append(globals[gg], s)
	}

	ranked := dataset.RankedStats()

	// Global percentile per (player, position, season, stat), computed once
	// and joined onto the in-competition rows.
	type globalKey struct {
		playerID int64
		position string
		season   string
		stat     string
	}
	globalPct := map[globalKey]float64{}
	globalN := map[globalKey]int64{}
	for gk, members := range globals {
		for _, spec := range ranked {
			peers := statValues(members, spec)
			if len(peers) < 2 {
				continue
			}
			for _, m := range members {
				v := spec.Get(m)
				if v == nil {
					continue
				}
				key := globalKey{m.PlayerID, gk.position, gk.season, spec.Name}
				globalPct[key] = orientedPercentile(peers, *v, spec.Name)
				globalN[key] = int64(len(peers))
			}
		}
	}

	var rows []dataset.PercentileRank
	for gk, members := range groups {
		for _, spec := range ranked {
			peers := statValues(members, spec)
			if len(peers) < 2 {
				continue
			}
			for _, m := range members {
				v := spec.Get(m)
				if v == nil {
					continue
				}
				row := dataset.PercentileRank{
					PlayerID:       m.PlayerID,
					PlayerName:     m.PlayerName,
					Position:       gk.position,
					Season:         gk.season,
					Competition:    gk.competition,
					StatName:       spec.Name,
					StatValue:      *v,
					PctInComp:      orientedPercentile(peers, *v, spec.Name),
					NPlayersInComp: int64(len(peers)),
				}
				key := globalKey{m.PlayerID, gk.position, gk.season, spec.Name}
				if n, ok := globalN[key]; ok {
					row.PctGlobal = fptr(globalPct[key])
					row.NPlayersGlobal = iptr(n)
				}
				rows = append(rows, row)
			}
		}
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
		return a.StatName < b.StatName
	})

	if err := dataset.WriteTable(e.Paths.Processed(dataset.FilePercentileRanks), rows); err != nil {
		return err
	}
	e.Logger.InfoContext(ctx, "built percentile ranks", slog.Int("rank_rows", len(rows)))
	return nil
}

func statValues(members []*dataset.PlayerSeason, spec dataset.SeasonStat) []float64 {
	values := make([]float64, 0, len(members))
	for _, m := range members {
		if v := spec.Get(m); v != nil {
			values = append(values, *v)
		}
	}
	return values
}

// orientedPercentile rounds to one decimal and inverts lower-is-better
// stats so a high rank is always the strong end.
func orientedPercentile(peers []float64, v float64, statName string) float64 {
	pct := stats.ECDFPercentile(peers, v)
	if stats.LowerIsBetter[statName] {
		pct = 100 - pct
	}
	return math.Round(pct*10) / 10
}
