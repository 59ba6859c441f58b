package pipeline

import (
	"context"
	"log/slog"
	"sort"

	"matchpulse/internal/dataset"
)

var formWindows = []int64{5, 10, 20}

// BuildRollingForm snapshots each player's trailing form over the last 5,
// 10, and 20 appearances ordered by match date. One current row per
// (player, window); n_available records how many appearances actually
// backed the window.
func (e *Env) BuildRollingForm(ctx context.Context) error {
	apps, err := e.Store.ReadAppearances()
	if err != nil {
		return err
	}

	byPlayer := map[int64][]*dataset.Appearance{}
	for i := range apps {
		a := &apps[i]
		byPlayer[a.PlayerID] = append(byPlayer[a.PlayerID], a)
	}

	var rows []dataset.RollingForm
	for _, playerID := range sortedKeys(byPlayer) {
		history := byPlayer[playerID]
		sort.Slice(history, func(i, j int) bool {
			if history[i].MatchDate != history[j].MatchDate {
				return history[i].MatchDate < history[j].MatchDate
			}
			return history[i].MatchID < history[j].MatchID
		})
		latest := history[len(history)-1]
		for _, w := range formWindows {
			window := history
			if int64(len(window)) > w {
				window = window[int64(len(window))-w:]
			}
			rows = append(rows, buildFormRow(playerID, latest, window, w))
		}
	}

	if err := dataset.WriteTable(e.Paths.Processed(dataset.FileRollingForm), rows); err != nil {
		return err
	}
	e.Logger.InfoContext(ctx, "built rolling form",
		slog.Int("players", len(byPlayer)), slog.Int("form_rows", len(rows)))
	return nil
}

func buildFormRow(playerID int64, latest *dataset.Appearance, window []*dataset.Appearance, w int64) dataset.RollingForm {
	row := dataset.RollingForm{
		PlayerID:    playerID,
		PlayerName:  latest.PlayerName,
		Position:    latest.Position,
		Window:      w,
		NAvailable:  int64(len(window)),
		AsOfMatchID: latest.MatchID,
		AsOfDate:    latest.MatchDate,
	}

	var rating, keyPasses, shots, tackles, intercepts, dribblesWon, touches optMean
	var goals, assists, xg, xa, minutes optSum
	for _, a := range window {
		rating.Add(a.Rating)
		keyPasses.Add(a.KeyPasses)
		shots.Add(a.Shots)
		tackles.Add(a.Tackles)
		intercepts.Add(a.Interceptions)
		dribblesWon.Add(a.DribblesWon)
		touches.Add(a.Touches)
		goals.Add(a.Goals)
		assists.Add(a.Assists)
		xg.Add(a.ExpectedGoals)
		xa.Add(a.ExpectedAssists)
		minutes.Add(a.MinutesPlayed)
	}

	row.AvgRating = rating.Ptr()
	row.Goals = goals.Total
	row.Assists = assists.Total
	row.XGTotal = xg.Ptr()
	row.XATotal = xa.Ptr()
	row.TotalMinutes = minutes.Total
	row.AvgKeyPasses = keyPasses.Ptr()
	row.AvgShots = shots.Ptr()
	row.AvgTackles = tackles.Ptr()
	row.AvgIntercepts = intercepts.Ptr()
	row.AvgDribblesWon = dribblesWon.Ptr()
	row.AvgTouches = touches.Ptr()
	return row
}
