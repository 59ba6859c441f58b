package pipeline

import (
	"context"
	"log/slog"
	"sort"

	"matchpulse/internal/dataset"
)

// BuildSubstitutionImpact emits one row per substitute appearance with
// recorded playing time. The source has no substitution incident type, so
// the replaced player is unknown and the entry minute is estimated as
// 90 minus minutes played. Bench players who never came on carry no
// information and are excluded.
func (e *Env) BuildSubstitutionImpact(ctx context.Context) error {
	apps, err := e.Store.ReadAppearances()
	if err != nil {
		return err
	}

	var rows []dataset.SubstitutionImpact
	for i := range apps {
		a := &apps[i]
		if !a.Substitute || a.Minutes() <= 0 {
			continue
		}
		minutes := a.Minutes()
		subMinute := 90 - minutes
		if subMinute < 0 {
			subMinute = 0
		}
		rows = append(rows, dataset.SubstitutionImpact{
			MatchID:            a.MatchID,
			Season:             a.Season,
			Competition:        a.Competition,
			PlayerInID:         a.PlayerID,
			PlayerInName:       a.PlayerName,
			PlayerInPos:        a.Position,
			SubMinute:          subMinute,
			MinutesAfterSub:    minutes,
			SubMinuteEstimated: true,
			Rating:             a.Rating,
			Goals:              deref(a.Goals),
			Assists:            deref(a.Assists),
			XG:                 a.ExpectedGoals,
			KeyPasses:          a.KeyPasses,
		})
	}

	sort.Slice(rows, func(i, j int) bool {
		if rows[i].MatchID != rows[j].MatchID {
			return rows[i].MatchID < rows[j].MatchID
		}
		return rows[i].PlayerInID < rows[j].PlayerInID
	})

	if err := dataset.WriteTable(e.Paths.Processed(dataset.FileSubstitutionImpact), rows); err != nil {
		return err
	}
	e.Logger.InfoContext(ctx, "built substitution impact", slog.Int("substitutions", len(rows)))
	return nil
}
