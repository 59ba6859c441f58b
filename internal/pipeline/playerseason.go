package pipeline

import (
	"context"
	"log/slog"
	"sort"
	"strings"

	"matchpulse/internal/dataset"
	"matchpulse/internal/stats"
)

type playerSeasonKey struct {
	PlayerID    int64
	Season      string
	Competition string
}

// BuildPlayerSeasonStats aggregates appearances with at least one recorded
// minute into one row per (player, season, competition). Cards come from
// the incident stream, everything else from the appearance stat lines. The
// artifact is regenerated in full on every run.
func (e *Env) BuildPlayerSeasonStats(ctx context.Context) error {
	apps, err := e.Store.ReadAppearances()
	if err != nil {
		return err
	}
	incidents, err := e.Store.ReadIncidents()
	if err != nil {
		return err
	}

	aggs := map[playerSeasonKey]*playerSeasonAgg{}
	order := []playerSeasonKey{}
	for i := range apps {
		a := &apps[i]
		if a.Minutes() < 1 {
			continue
		}
		key := playerSeasonKey{a.PlayerID, a.Season, a.Competition}
		agg := aggs[key]
		if agg == nil {
			agg = newPlayerSeasonAgg(a)
			aggs[key] = agg
			order = append(order, key)
		}
		agg.add(a)
	}

	for _, inc := range incidents {
		if inc.PlayerID == nil || inc.IncidentType != "card" {
			continue
		}
		key := playerSeasonKey{*inc.PlayerID, inc.Season, inc.Competition}
		agg := aggs[key]
		if agg == nil {
			continue
		}
		class := strings.ToLower(inc.IncidentClass)
		switch {
		case strings.Contains(class, "red"):
			agg.redCards++
		case strings.Contains(class, "yellow"):
			agg.yellowCards++
		}
	}

	rows := make([]dataset.PlayerSeason, 0, len(aggs))
	for _, key := range order {
		rows = append(rows, aggs[key].row(e.Cfg.Pipeline.MinMinutesSeason))
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].PlayerID != rows[j].PlayerID {
			return rows[i].PlayerID < rows[j].PlayerID
		}
		if rows[i].Season != rows[j].Season {
			return rows[i].Season < rows[j].Season
		}
		return rows[i].Competition < rows[j].Competition
	})

	if err := dataset.WriteTable(e.Paths.Processed(dataset.FilePlayerSeasonStats), rows); err != nil {
		return err
	}
	e.Logger.InfoContext(ctx, "aggregated player season stats",
		slog.Int("player_seasons", len(rows)), slog.Int("appearances", len(apps)))
	return nil
}

type playerSeasonAgg struct {
	key        playerSeasonKey
	name       string
	shortName  string
	position   string
	dob        *int64
	firstMatch int64

	matches      map[string]bool
	starts       int64
	totalMinutes float64
	rating       optMean

	goals, assists optSum

	xg, xa, keyPasses, shots, shotsOT              optSum
	touches, tackles, interceptions, clearances    optSum
	fouls, wasFouled, offsides, possessionLost     optSum
	dispossessed, saves, goalsPrevented            optSum
	progression, dribblesWon                       optSum
	totalPasses, accPasses                         optSum
	longBalls, accLongBalls, crosses, accCrosses   optSum
	duelsWon, duelsLost, aerialsWon, aerialsLost   optSum
	tacklesWon, dribbles                           optSum

	passValue, shotValue, defValue, dribbleValue, gkValue optMean

	yellowCards, redCards int64
}

func newPlayerSeasonAgg(a *dataset.Appearance) *playerSeasonAgg {
	return &playerSeasonAgg{
		key:        playerSeasonKey{a.PlayerID, a.Season, a.Competition},
		name:       a.PlayerName,
		shortName:  a.PlayerShortName,
		position:   a.Position,
		dob:        a.DateOfBirth,
		firstMatch: a.MatchDate,
		matches:    map[string]bool{},
	}
}

func (p *playerSeasonAgg) add(a *dataset.Appearance) {
	p.matches[a.MatchID] = true
	if !a.Substitute {
		p.starts++
	}
	p.totalMinutes += a.Minutes()
	if a.MatchDate > 0 && (p.firstMatch == 0 || a.MatchDate < p.firstMatch) {
		p.firstMatch = a.MatchDate
	}
	p.rating.Add(a.Rating)

	p.goals.Add(a.Goals)
	p.assists.Add(a.Assists)
	p.xg.Add(a.ExpectedGoals)
	p.xa.Add(a.ExpectedAssists)
	p.keyPasses.Add(a.KeyPasses)
	p.shots.Add(a.Shots)
	p.shotsOT.Add(a.ShotsOnTarget)
	p.touches.Add(a.Touches)
	p.tackles.Add(a.Tackles)
	p.interceptions.Add(a.Interceptions)
	p.clearances.Add(a.Clearances)
	p.fouls.Add(a.Fouls)
	p.wasFouled.Add(a.WasFouled)
	p.offsides.Add(a.Offsides)
	p.possessionLost.Add(a.PossessionLost)
	p.dispossessed.Add(a.Dispossessed)
	p.saves.Add(a.Saves)
	p.goalsPrevented.Add(a.GoalsPrevented)
	p.progression.Add(a.Progression)
	p.dribblesWon.Add(a.DribblesWon)
	p.totalPasses.Add(a.TotalPasses)
	p.accPasses.Add(a.AccuratePasses)
	p.longBalls.Add(a.TotalLongBalls)
	p.accLongBalls.Add(a.AccLongBalls)
	p.crosses.Add(a.TotalCrosses)
	p.accCrosses.Add(a.AccCrosses)
	p.duelsWon.Add(a.DuelsWon)
	p.duelsLost.Add(a.DuelsLost)
	p.aerialsWon.Add(a.AerialsWon)
	p.aerialsLost.Add(a.AerialsLost)
	p.tacklesWon.Add(a.TacklesWon)
	p.dribbles.Add(a.Dribbles)

	p.passValue.Add(a.PassValue)
	p.shotValue.Add(a.ShotValue)
	p.defValue.Add(a.DefensiveValue)
	p.dribbleValue.Add(a.DribbleValue)
	p.gkValue.Add(a.GoalkeeperValue)
}

func (p *playerSeasonAgg) row(minMinutes float64) dataset.PlayerSeason {
	apps := int64(len(p.matches))
	row := dataset.PlayerSeason{
		PlayerID:          p.key.PlayerID,
		Season:            p.key.Season,
		Competition:       p.key.Competition,
		PlayerName:        p.name,
		PlayerShortName:   p.shortName,
		Position:          p.position,
		Appearances:       apps,
		Starts:            p.starts,
		SubAppearances:    apps - p.starts,
		TotalMinutes:      p.totalMinutes,
		SufficientMinutes: p.totalMinutes >= minMinutes,
		AvgRating:         p.rating.Ptr(),
		Goals:             int64(p.goals.Total),
		Assists:           int64(p.assists.Total),
		YellowCards:       p.yellowCards,
		RedCards:          p.redCards,
	}
	row.GoalContributions = row.Goals + row.Assists
	if apps > 0 {
		row.AvgMinutesPerGame = p.totalMinutes / float64(apps)
	}
	if p.dob != nil && p.firstMatch > 0 {
		row.AgeAtSeasonStart = fptr(float64(p.firstMatch-*p.dob) / (365.25 * 24 * 3600))
	}

	mins := p.totalMinutes
	row.GoalsPer90 = stats.Per90(p.goals.Ptr(), mins)
	row.AssistsPer90 = stats.Per90(p.assists.Ptr(), mins)
	row.XGPer90 = stats.Per90(p.xg.Ptr(), mins)
	row.XAPer90 = stats.Per90(p.xa.Ptr(), mins)
	row.KeyPassesPer90 = stats.Per90(p.keyPasses.Ptr(), mins)
	row.ShotsPer90 = stats.Per90(p.shots.Ptr(), mins)
	row.ShotsOTPer90 = stats.Per90(p.shotsOT.Ptr(), mins)
	row.TouchesPer90 = stats.Per90(p.touches.Ptr(), mins)
	row.TacklesPer90 = stats.Per90(p.tackles.Ptr(), mins)
	row.InterceptionsPer90 = stats.Per90(p.interceptions.Ptr(), mins)
	row.ClearancesPer90 = stats.Per90(p.clearances.Ptr(), mins)
	row.FoulsPer90 = stats.Per90(p.fouls.Ptr(), mins)
	row.WasFouledPer90 = stats.Per90(p.wasFouled.Ptr(), mins)
	row.OffsidesPer90 = stats.Per90(p.offsides.Ptr(), mins)
	row.PossessionLostPer90 = stats.Per90(p.possessionLost.Ptr(), mins)
	row.DispossessedPer90 = stats.Per90(p.dispossessed.Ptr(), mins)
	row.SavesPer90 = stats.Per90(p.saves.Ptr(), mins)
	row.GoalsPreventedPer90 = stats.Per90(p.goalsPrevented.Ptr(), mins)
	row.ProgressionPer90 = stats.Per90(p.progression.Ptr(), mins)
	row.DribblesWonPer90 = stats.Per90(p.dribblesWon.Ptr(), mins)

	row.PassAccuracy = stats.Ratio(p.accPasses.Ptr(), p.totalPasses.Ptr())
	row.TackleSuccessRate = stats.Ratio(p.tacklesWon.Ptr(), p.tackles.Ptr())
	row.DribbleSuccessRate = stats.Ratio(p.dribblesWon.Ptr(), p.dribbles.Ptr())
	row.CrossAccuracy = stats.Ratio(p.accCrosses.Ptr(), p.crosses.Ptr())
	row.LongBallAccuracy = stats.Ratio(p.accLongBalls.Ptr(), p.longBalls.Ptr())
	if p.duelsWon.Seen || p.duelsLost.Seen {
		total := p.duelsWon.Total + p.duelsLost.Total
		row.DuelWinRate = stats.Ratio(p.duelsWon.Ptr(), &total)
	}
	if p.aerialsWon.Seen || p.aerialsLost.Seen {
		total := p.aerialsWon.Total + p.aerialsLost.Total
		row.AerialWinRate = stats.Ratio(p.aerialsWon.Ptr(), &total)
	}

	row.PassValueAvg = p.passValue.Ptr()
	row.ShotValueAvg = p.shotValue.Ptr()
	row.DefensiveValueAvg = p.defValue.Ptr()
	row.DribbleValueAvg = p.dribbleValue.Ptr()
	row.GKValueAvg = p.gkValue.Ptr()
	return row
}
