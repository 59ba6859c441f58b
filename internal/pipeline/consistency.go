package pipeline

import (
	"context"
	"log/slog"
	"sort"

	"matchpulse/internal/dataset"
	"matchpulse/internal/stats"
)

// Consistency tier thresholds on the rating coefficient of variation. The
// gap between 0.15 and 0.2 deliberately falls through to plain "variable".
const (
	cvVeryConsistent = 0.08
	cvConsistent     = 0.15
	cvVeryVariable   = 0.2
)

// BuildPlayerConsistency measures per-appearance variability per (player,
// season, competition): mean, sample std, and coefficient of variation for
// rating, xG, xA, key passes, and touches. Groups below the appearance
// floor are dropped; a CV over one or two appearances says nothing.
func (e *Env) BuildPlayerConsistency(ctx context.Context) error {
	apps, err := e.Store.ReadAppearances()
	if err != nil {
		return err
	}

	type obs struct {
		name, position                   string
		rating, xg, xa, keyPass, touches []float64
		n                                int64
	}
	groups := map[playerSeasonKey]*obs{}
	for i := range apps {
		a := &apps[i]
		if a.Minutes() < 1 {
			continue
		}
		key := playerSeasonKey{a.PlayerID, a.Season, a.Competition}
		g := groups[key]
		if g == nil {
			g = &obs{name: a.PlayerName, position: a.Position}
			groups[key] = g
		}
		g.n++
		g.rating = appendOpt(g.rating, a.Rating)
		g.xg = appendOpt(g.xg, a.ExpectedGoals)
		g.xa = appendOpt(g.xa, a.ExpectedAssists)
		g.keyPass = appendOpt(g.keyPass, a.KeyPasses)
		g.touches = appendOpt(g.touches, a.Touches)
	}

	minApps := int64(e.Cfg.Pipeline.MinAppearancesCV)
	var rows []dataset.Consistency
	for key, g := range groups {
		if g.n < minApps {
			continue
		}
		row := dataset.Consistency{
			PlayerID:     key.PlayerID,
			PlayerName:   g.name,
			Position:     g.position,
			Season:       key.Season,
			Competition:  key.Competition,
			NAppearances: g.n,
		}
		row.RatingMean, row.RatingStd, row.RatingCV = spread(g.rating)
		row.XGMean, row.XGStd, row.XGCV = spread(g.xg)
		row.XAMean, row.XAStd, row.XACV = spread(g.xa)
		row.KeyPassMean, row.KeyPassStd, row.KeyPassCV = spread(g.keyPass)
		row.TouchesMean, row.TouchesStd, row.TouchesCV = spread(g.touches)
		if len(g.rating) > 0 {
			minR, maxR := g.rating[0], g.rating[0]
			for _, r := range g.rating[1:] {
				if r < minR {
					minR = r
				}
				if r > maxR {
					maxR = r
				}
			}
			row.RatingMin, row.RatingMax = fptr(minR), fptr(maxR)
		}
		row.Tier = consistencyTier(row.RatingCV)
		rows = append(rows, row)
	}

	sort.Slice(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if a.PlayerID != b.PlayerID {
			return a.PlayerID < b.PlayerID
		}
		if a.Season != b.Season {
			return a.Season < b.Season
		}
		return a.Competition < b.Competition
	})

	if err := dataset.WriteTable(e.Paths.Processed(dataset.FileConsistency), rows); err != nil {
		return err
	}
	e.Logger.InfoContext(ctx, "built player consistency",
		slog.Int("qualifying_groups", len(rows)), slog.Int("all_groups", len(groups)))
	return nil
}

func appendOpt(values []float64, v *float64) []float64 {
	if v == nil {
		return values
	}
	return append(values, *v)
}

func spread(values []float64) (mean, std, cv *float64) {
	mean = stats.Mean(values)
	std = stats.SampleStd(values)
	if mean != nil && std != nil && *mean != 0 {
		cv = fptr(*std / *mean)
	}
	return mean, std, cv
}

func consistencyTier(ratingCV *float64) string {
	if ratingCV == nil {
		return "variable"
	}
	switch {
	case *ratingCV < cvVeryConsistent:
		return "very_consistent"
	case *ratingCV < cvConsistent:
		return "consistent"
	case *ratingCV >= cvVeryVariable:
		return "very_variable"
	default:
		return "variable"
	}
}
