package dataset

// SeasonStat binds a published stat name to its accessor on PlayerSeason.
// The benchmark stage, the percentile stage, and the data-quality checker
// all iterate this one table, so the set of ranked stats is declared exactly
// once.
type SeasonStat struct {
	Name string
	Get  func(*PlayerSeason) *float64

	// Benchmarked stats get distribution rows in the benchmark artifact.
	// Ranked stats get percentile rows. The two sets overlap but differ:
	// card totals are ranked (inverted) but not benchmarked, and the
	// crossing and long-ball accuracy rates are benchmarked only.
	Benchmarked bool
	Ranked      bool
}

func intStat(get func(*PlayerSeason) int64) func(*PlayerSeason) *float64 {
	return func(p *PlayerSeason) *float64 {
		v := float64(get(p))
		return &v
	}
}

// SeasonStats is the full published stat schema for player season rows
var SeasonStats = []SeasonStat{
	{Name: "goals_per90", Get: func(p *PlayerSeason) *float64 { return p.GoalsPer90 }, Benchmarked: true, Ranked: true},
	{Name: "goalAssist_per90", Get: func(p *PlayerSeason) *float64 { return p.AssistsPer90 }, Benchmarked: true, Ranked: true},
	{Name: "expectedGoals_per90", Get: func(p *PlayerSeason) *float64 { return p.XGPer90 }, Benchmarked: true, Ranked: true},
	{Name: "expectedAssists_per90", Get: func(p *PlayerSeason) *float64 { return p.XAPer90 }, Benchmarked: true, Ranked: true},
	{Name: "keyPass_per90", Get: func(p *PlayerSeason) *float64 { return p.KeyPassesPer90 }, Benchmarked: true, Ranked: true},
	{Name: "totalShots_per90", Get: func(p *PlayerSeason) *float64 { return p.ShotsPer90 }, Benchmarked: true, Ranked: true},
	{Name: "onTargetScoringAttempt_per90", Get: func(p *PlayerSeason) *float64 { return p.ShotsOTPer90 }, Benchmarked: true, Ranked: true},
	{Name: "touches_per90", Get: func(p *PlayerSeason) *float64 { return p.TouchesPer90 }, Benchmarked: true, Ranked: true},
	{Name: "totalTackle_per90", Get: func(p *PlayerSeason) *float64 { return p.TacklesPer90 }, Benchmarked: true, Ranked: true},
	{Name: "interceptionWon_per90", Get: func(p *PlayerSeason) *float64 { return p.InterceptionsPer90 }, Benchmarked: true, Ranked: true},
	{Name: "totalClearance_per90", Get: func(p *PlayerSeason) *float64 { return p.ClearancesPer90 }, Benchmarked: true, Ranked: true},
	{Name: "fouls_per90", Get: func(p *PlayerSeason) *float64 { return p.FoulsPer90 }, Benchmarked: true, Ranked: true},
	{Name: "wasFouled_per90", Get: func(p *PlayerSeason) *float64 { return p.WasFouledPer90 }, Benchmarked: true, Ranked: true},
	{Name: "totalOffside_per90", Get: func(p *PlayerSeason) *float64 { return p.OffsidesPer90 }, Benchmarked: true, Ranked: true},
	{Name: "possessionLostCtrl_per90", Get: func(p *PlayerSeason) *float64 { return p.PossessionLostPer90 }, Benchmarked: true, Ranked: true},
	{Name: "dispossessed_per90", Get: func(p *PlayerSeason) *float64 { return p.DispossessedPer90 }, Benchmarked: true, Ranked: true},
	{Name: "saves_per90", Get: func(p *PlayerSeason) *float64 { return p.SavesPer90 }, Benchmarked: true, Ranked: true},
	{Name: "goalsPrevented_per90", Get: func(p *PlayerSeason) *float64 { return p.GoalsPreventedPer90 }, Benchmarked: true, Ranked: true},
	{Name: "totalProgression_per90", Get: func(p *PlayerSeason) *float64 { return p.ProgressionPer90 }, Benchmarked: true, Ranked: true},
	{Name: "wonContest_per90", Get: func(p *PlayerSeason) *float64 { return p.DribblesWonPer90 }, Benchmarked: true, Ranked: true},

	{Name: "pass_accuracy", Get: func(p *PlayerSeason) *float64 { return p.PassAccuracy }, Benchmarked: true, Ranked: true},
	{Name: "duel_win_rate", Get: func(p *PlayerSeason) *float64 { return p.DuelWinRate }, Benchmarked: true, Ranked: true},
	{Name: "aerial_win_rate", Get: func(p *PlayerSeason) *float64 { return p.AerialWinRate }, Benchmarked: true, Ranked: true},
	{Name: "tackle_success_rate", Get: func(p *PlayerSeason) *float64 { return p.TackleSuccessRate }, Benchmarked: true, Ranked: true},
	{Name: "dribble_success_rate", Get: func(p *PlayerSeason) *float64 { return p.DribbleSuccessRate }, Benchmarked: true},
	{Name: "cross_accuracy", Get: func(p *PlayerSeason) *float64 { return p.CrossAccuracy }, Benchmarked: true},
	{Name: "long_ball_accuracy", Get: func(p *PlayerSeason) *float64 { return p.LongBallAccuracy }, Benchmarked: true},

	{Name: "yellow_cards", Get: intStat(func(p *PlayerSeason) int64 { return p.YellowCards }), Ranked: true},
	{Name: "red_cards", Get: intStat(func(p *PlayerSeason) int64 { return p.RedCards }), Ranked: true},
}

// BenchmarkStats returns the stats that receive distribution rows
func BenchmarkStats() []SeasonStat {
	return filterStats(func(s SeasonStat) bool { return s.Benchmarked })
}

// RankedStats returns the stats that receive percentile rows
func RankedStats() []SeasonStat {
	return filterStats(func(s SeasonStat) bool { return s.Ranked })
}

func filterStats(keep func(SeasonStat) bool) []SeasonStat {
	out := make([]SeasonStat, 0, len(SeasonStats))
	for _, s := range SeasonStats {
		if keep(s) {
			out = append(out, s)
		}
	}
	return out
}
