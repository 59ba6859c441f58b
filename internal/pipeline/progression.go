package pipeline

import (
	"context"
	"log/slog"
	"sort"

	"matchpulse/internal/dataset"
)

// BuildPlayerProgression emits one row per consecutive pair of qualifying
// season rows per player, carrying the stat deltas between them. Direction
// is judged on the rating delta with a 0.1 dead band.
func (e *Env) BuildPlayerProgression(ctx context.Context) error {
	seasons, err := dataset.ReadTable[dataset.PlayerSeason](e.Paths.Processed(dataset.FilePlayerSeasonStats))
	if err != nil {
		return err
	}

	byPlayer := map[int64][]*dataset.PlayerSeason{}
	for i := range seasons {
		s := &seasons[i]
		if !s.SufficientMinutes {
			continue
		}
		byPlayer[s.PlayerID] = append(byPlayer[s.PlayerID], s)
	}

	var rows []dataset.Progression
	for _, playerID := range sortedKeys(byPlayer) {
		history := byPlayer[playerID]
		if len(history) < 2 {
			continue
		}
		sort.Slice(history, func(i, j int) bool {
			if history[i].Season != history[j].Season {
				return history[i].Season < history[j].Season
			}
			return history[i].Competition < history[j].Competition
		})
		for i := 0; i+1 < len(history); i++ {
			rows = append(rows, buildProgressionRow(history[i], history[i+1]))
		}
	}

	if err := dataset.WriteTable(e.Paths.Processed(dataset.FileProgression), rows); err != nil {
		return err
	}
	e.Logger.InfoContext(ctx, "built player progression", slog.Int("season_pairs", len(rows)))
	return nil
}

func buildProgressionRow(from, to *dataset.PlayerSeason) dataset.Progression {
	row := dataset.Progression{
		PlayerID:        to.PlayerID,
		PlayerName:      to.PlayerName,
		Position:        to.Position,
		SeasonFrom:      from.Season,
		SeasonTo:        to.Season,
		CompetitionFrom: from.Competition,
		CompetitionTo:   to.Competition,
		SameCompetition: from.Competition == to.Competition,
		AgeAtSeasonTo:   to.AgeAtSeasonStart,
		MinutesDelta:    int64(to.TotalMinutes) - int64(from.TotalMinutes),
	}

	row.RatingDelta = delta(from.AvgRating, to.AvgRating)
	row.XGPer90Delta = delta(from.XGPer90, to.XGPer90)
	row.XAPer90Delta = delta(from.XAPer90, to.XAPer90)
	row.GoalsPer90Delta = delta(from.GoalsPer90, to.GoalsPer90)
	row.AssistsPer90Delta = delta(from.AssistsPer90, to.AssistsPer90)
	row.KeyPassPer90Delta = delta(from.KeyPassesPer90, to.KeyPassesPer90)
	row.TacklesPer90Delta = delta(from.TacklesPer90, to.TacklesPer90)
	row.DuelWinRateDelta = delta(from.DuelWinRate, to.DuelWinRate)
	row.PassAccuracyDelta = delta(from.PassAccuracy, to.PassAccuracy)

	if row.RatingDelta != nil {
		switch {
		case *row.RatingDelta > 0.1:
			row.Direction = sptr("improving")
		case *row.RatingDelta < -0.1:
			row.Direction = sptr("declining")
		default:
			row.Direction = sptr("stable")
		}
	}
	return row
}

func delta(from, to *float64) *float64 {
	if from == nil || to == nil {
		return nil
	}
	return fptr(*to - *from)
}
