package pipeline

import (
	"context"
	"log/slog"
	"sort"

	"matchpulse/internal/dataset"
	"matchpulse/internal/stats"
)

// GlobalPool is the synthetic competition label for cross-competition
// benchmark and percentile groups
const GlobalPool = "all_competitions"

// BuildCompetitionBenchmarks computes distribution rows per (position,
// competition, season, stat) over sufficient-minutes players, plus a global
// pool per (position, season). Groups with fewer than two observations are
// omitted rather than published with meaningless quantiles.
func (e *Env) BuildCompetitionBenchmarks(ctx context.Context) error {
	seasons, err := dataset.ReadTable[dataset.PlayerSeason](e.Paths.Processed(dataset.FilePlayerSeasonStats))
	if err != nil {
		return err
	}

	type groupKey struct{ position, competition, season string }
	groups := map[groupKey][]*dataset.PlayerSeason{}
	for i := range seasons {
		s := &seasons[i]
		if !s.SufficientMinutes {
			continue
		}
		groups[groupKey{s.Position, s.Competition, s.Season}] = append(groups[groupKey{s.Position, s.Competition, s.Season}], s)
		groups[groupKey{s.Position, GlobalPool, s.Season}] = append(groups[groupKey{s.Position, GlobalPool, s.Season}], s)
	}

	benchStats := dataset.BenchmarkStats()
	var rows []dataset.Benchmark
	for key, members := range groups {
		for _, spec := range benchStats {
			values := make([]float64, 0, len(members))
			for _, m := range members {
				if v := spec.Get(m); v != nil {
					values = append(values, *v)
				}
			}
			if len(values) < 2 {
				continue
			}
			rows = append(rows, dataset.Benchmark{
				Position:    key.position,
				Competition: key.competition,
				Season:      key.season,
				StatName:    spec.Name,
				NPlayers:    int64(len(values)),
				Mean:        deref(stats.Mean(values)),
				Median:      deref(stats.Quantile(values, 50)),
				P25:         deref(stats.Quantile(values, 25)),
				P75:         deref(stats.Quantile(values, 75)),
				P90:         deref(stats.Quantile(values, 90)),
				Std:         stats.SampleStd(values),
			})
		}
	}

	sort.Slice(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if a.Position != b.Position {
			return a.Position < b.Position
		}
		if a.Competition != b.Competition {
			return a.Competition < b.Competition
		}
		if a.Season != b.Season {
			return a.Season < b.Season
		}
		return a.StatName < b.StatName
	})

	if err := dataset.WriteTable(e.Paths.Processed(dataset.FileBenchmarks), rows); err != nil {
		return err
	}
	e.Logger.InfoContext(ctx, "built competition benchmarks",
		slog.Int("benchmark_rows", len(rows)), slog.Int("stats", len(benchStats)))
	return nil
}
