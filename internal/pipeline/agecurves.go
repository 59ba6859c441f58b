package pipeline

import (
	"context"
	"log/slog"
	"sort"

	"matchpulse/internal/dataset"
	"matchpulse/internal/stats"
)

const (
	ageBinMin        = 16
	ageBinMax        = 45
	reliableBinFloor = 20
)

// BuildAgeCurves bins qualifying player seasons by position and integer age
// at season start, publishing the median of each curve stat per bin. Bins
// backed by fewer than twenty player seasons are kept but flagged
// unreliable; peak ages are read from reliable bins only.
func (e *Env) BuildAgeCurves(ctx context.Context) error {
	seasons, err := dataset.ReadTable[dataset.PlayerSeason](e.Paths.Processed(dataset.FilePlayerSeasonStats))
	if err != nil {
		return err
	}

	type binKey struct {
		position string
		age      int64
	}
	type binObs struct {
		rating, xg, xa, goals, keyPass []float64
		tackles, passAcc, duelWin      []float64
		n                              int64
	}
	bins := map[binKey]*binObs{}
	for i := range seasons {
		s := &seasons[i]
		if !s.SufficientMinutes || s.AgeAtSeasonStart == nil {
			continue
		}
		age := int64(*s.AgeAtSeasonStart)
		if age < ageBinMin || age > ageBinMax {
			continue
		}
		key := binKey{s.Position, age}
		b := bins[key]
		if b == nil {
			b = &binObs{}
			bins[key] = b
		}
		b.n++
		b.rating = appendOpt(b.rating, s.AvgRating)
		b.xg = appendOpt(b.xg, s.XGPer90)
		b.xa = appendOpt(b.xa, s.XAPer90)
		b.goals = appendOpt(b.goals, s.GoalsPer90)
		b.keyPass = appendOpt(b.keyPass, s.KeyPassesPer90)
		b.tackles = appendOpt(b.tackles, s.TacklesPer90)
		b.passAcc = appendOpt(b.passAcc, s.PassAccuracy)
		b.duelWin = appendOpt(b.duelWin, s.DuelWinRate)
	}

	var rows []dataset.AgeCurve
	for key, b := range bins {
		rows = append(rows, dataset.AgeCurve{
			Position:       key.position,
			AgeBin:         key.age,
			NPlayerSeasons: b.n,
			Reliable:       b.n >= reliableBinFloor,
			MedianRating:   stats.Quantile(b.rating, 50),
			MedianXGPer90:  stats.Quantile(b.xg, 50),
			MedianXAPer90:  stats.Quantile(b.xa, 50),
			MedianGoals90:  stats.Quantile(b.goals, 50),
			MedianKeyPass:  stats.Quantile(b.keyPass, 50),
			MedianTackles:  stats.Quantile(b.tackles, 50),
			MedianPassAcc:  stats.Quantile(b.passAcc, 50),
			MedianDuelWin:  stats.Quantile(b.duelWin, 50),
		})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Position != rows[j].Position {
			return rows[i].Position < rows[j].Position
		}
		return rows[i].AgeBin < rows[j].AgeBin
	})

	if err := dataset.WriteTable(e.Paths.Processed(dataset.FileAgeCurves), rows); err != nil {
		return err
	}

	peaks := buildPeakAges(rows)
	if err := dataset.WriteTable(e.Paths.Processed(dataset.FilePeakAgeByPosition), peaks); err != nil {
		return err
	}
	e.Logger.InfoContext(ctx, "built age curves",
		slog.Int("bins", len(rows)), slog.Int("positions", len(peaks)))
	return nil
}

func buildPeakAges(curves []dataset.AgeCurve) []dataset.PeakAge {
	type best struct {
		ratingAge, xgAge *int64
		rating, xg       float64
	}
	byPosition := map[string]*best{}
	for _, c := range curves {
		if !c.Reliable {
			continue
		}
		b := byPosition[c.Position]
		if b == nil {
			b = &best{}
			byPosition[c.Position] = b
		}
		if c.MedianRating != nil && (b.ratingAge == nil || *c.MedianRating > b.rating) {
			b.ratingAge = iptr(c.AgeBin)
			b.rating = *c.MedianRating
		}
		if c.MedianXGPer90 != nil && (b.xgAge == nil || *c.MedianXGPer90 > b.xg) {
			b.xgAge = iptr(c.AgeBin)
			b.xg = *c.MedianXGPer90
		}
	}

	out := make([]dataset.PeakAge, 0, len(byPosition))
	for _, position := range sortedKeys(byPosition) {
		b := byPosition[position]
		out = append(out, dataset.PeakAge{
			Position:      position,
			PeakRatingAge: b.ratingAge,
			PeakXGAge:     b.xgAge,
		})
	}
	return out
}
