package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"matchpulse/internal/dataset"
)

func TestConsistencyTier(t *testing.T) {
	tests := []struct {
		name string
		cv   *float64
		want string
	}{
		{"no ratings at all", nil, "variable"},
		{"very steady", fptr(0.05), "very_consistent"},
		{"steady", fptr(0.10), "consistent"},
		{"lower boundary of the gap", fptr(0.15), "variable"},
		{"inside the gap", fptr(0.17), "variable"},
		{"upper boundary", fptr(0.2), "very_variable"},
		{"erratic", fptr(0.3), "very_variable"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, consistencyTier(tt.cv))
		})
	}
}

func TestSpread(t *testing.T) {
	mean, std, cv := spread([]float64{6, 7, 8})
	require.NotNil(t, mean)
	require.NotNil(t, std)
	require.NotNil(t, cv)
	assert.InDelta(t, 7, *mean, 1e-9)
	assert.InDelta(t, 1, *std, 1e-9)
	assert.InDelta(t, 1.0/7, *cv, 1e-9)

	mean, std, cv = spread([]float64{5})
	require.NotNil(t, mean)
	assert.Nil(t, std)
	assert.Nil(t, cv)

	mean, std, cv = spread(nil)
	assert.Nil(t, mean)
	assert.Nil(t, std)
	assert.Nil(t, cv)
}

func TestOrientedPercentile(t *testing.T) {
	peers := []float64{1, 2, 3, 4}
	assert.InDelta(t, 75, orientedPercentile(peers, 4, "goals_per90"), 1e-9)
	// lower-is-better stats are inverted so 100 stays the strong end
	assert.InDelta(t, 25, orientedPercentile(peers, 4, "fouls_per90"), 1e-9)
	// one-decimal rounding
	assert.InDelta(t, 66.7, orientedPercentile([]float64{1, 2, 3}, 3, "goals_per90"), 1e-9)
}

func TestSummarizeMomentum(t *testing.T) {
	points := []dataset.MomentumPoint{
		{MatchID: "m1", Minute: 10, Momentum: 20, Period: "1ST"},
		{MatchID: "m1", Minute: 45, Momentum: -5, Period: "1ST"},
		{MatchID: "m1", Minute: 50, Momentum: 0, Period: "2ND"},
		{MatchID: "m1", Minute: 90, Momentum: 35, Period: "2ND"},
	}
	s := summarizeMomentum("m1", points)
	assert.Equal(t, "m1", s.MatchID)
	assert.InDelta(t, 12.5, s.AvgMomentum, 1e-9)
	assert.Equal(t, int64(2), s.HomeDominatedMin)
	assert.Equal(t, int64(1), s.AwayDominatedMin)
	assert.Equal(t, int64(3), s.MomentumSwings)
	require.NotNil(t, s.HalftimeMomentum)
	assert.Equal(t, int64(-5), *s.HalftimeMomentum)
	require.NotNil(t, s.FinalMomentum)
	assert.Equal(t, int64(35), *s.FinalMomentum)

	empty := summarizeMomentum("m2", nil)
	assert.Nil(t, empty.HalftimeMomentum)
	assert.Nil(t, empty.FinalMomentum)
	assert.Zero(t, empty.MomentumSwings)
}

func TestSideResult(t *testing.T) {
	assert.Equal(t, "W", sideResult(sptr("H"), "home"))
	assert.Equal(t, "L", sideResult(sptr("H"), "away"))
	assert.Equal(t, "W", sideResult(sptr("A"), "away"))
	assert.Equal(t, "L", sideResult(sptr("A"), "home"))
	assert.Equal(t, "D", sideResult(sptr("D"), "home"))
	assert.Equal(t, "D", sideResult(nil, "away"))
}

func TestTierTeamsTercile(t *testing.T) {
	teams := make([]dataset.TeamSeason, 0, 6)
	for i, name := range []string{"a", "b", "c", "d", "e", "f"} {
		teams = append(teams, dataset.TeamSeason{
			TeamName: name, Season: "2023/2024", Competition: "england-premier-league",
			XGAgainstTotal: float64(i + 1),
		})
	}
	tiers := tierTeams(teams)
	require.Len(t, tiers, 6)
	// lowest xg against reads as the strongest defensive sides
	assert.Equal(t, dataset.TierTop, tiers[teamSeasonKeyOf("a", "2023/2024", "england-premier-league")])
	assert.Equal(t, dataset.TierTop, tiers[teamSeasonKeyOf("b", "2023/2024", "england-premier-league")])
	assert.Equal(t, dataset.TierMid, tiers[teamSeasonKeyOf("c", "2023/2024", "england-premier-league")])
	assert.Equal(t, dataset.TierMid, tiers[teamSeasonKeyOf("d", "2023/2024", "england-premier-league")])
	assert.Equal(t, dataset.TierBottom, tiers[teamSeasonKeyOf("e", "2023/2024", "england-premier-league")])
	assert.Equal(t, dataset.TierBottom, tiers[teamSeasonKeyOf("f", "2023/2024", "england-premier-league")])
}

func TestTierTeamsMedianSplit(t *testing.T) {
	teams := []dataset.TeamSeason{
		{TeamName: "a", Season: "2023/2024", Competition: "uefa-super-cup", XGAgainstTotal: 1},
		{TeamName: "b", Season: "2023/2024", Competition: "uefa-super-cup", XGAgainstTotal: 2},
	}
	tiers := tierTeams(teams)
	require.Len(t, tiers, 2)
	// strictly-above-median forms top_third, everything else bottom; no mid tier
	assert.Equal(t, dataset.TierBottom, tiers[teamSeasonKeyOf("a", "2023/2024", "uefa-super-cup")])
	assert.Equal(t, dataset.TierTop, tiers[teamSeasonKeyOf("b", "2023/2024", "uefa-super-cup")])
}

func TestTierTeamsSkipsSingletonGroups(t *testing.T) {
	tiers := tierTeams([]dataset.TeamSeason{
		{TeamName: "solo", Season: "2023/2024", Competition: "uefa-super-cup", XGAgainstTotal: 3},
	})
	assert.Empty(t, tiers)
}

func TestBuildOpponentSummary(t *testing.T) {
	rows := []dataset.OpponentContext{
		{PlayerID: 1, PlayerName: "p", Season: "s", Competition: "c",
			OpponentTier: dataset.TierTop, AvgRating: fptr(7.4)},
		{PlayerID: 1, PlayerName: "p", Season: "s", Competition: "c",
			OpponentTier: dataset.TierBottom, AvgRating: fptr(7.0)},
		{PlayerID: 2, PlayerName: "q", Season: "s", Competition: "c",
			OpponentTier: dataset.TierTop, AvgRating: fptr(6.8)},
	}
	summary := buildOpponentSummary(rows)
	require.Len(t, summary, 2)

	require.NotNil(t, summary[0].BigGameDelta)
	assert.InDelta(t, 0.4, *summary[0].BigGameDelta, 1e-9)

	// only one tier observed: no delta
	assert.Nil(t, summary[1].BigGameDelta)
	require.NotNil(t, summary[1].RatingVsTop)
}

func TestBuildManagerCareers(t *testing.T) {
	id := int64(42)
	rows := []dataset.ManagerMatch{
		{MatchID: "m1", Season: "2022/2023", Competition: "italy-serie-a", ManagerID: &id,
			ManagerName: "Coach", TeamName: "Alpha", Result: "W"},
		{MatchID: "m2", Season: "2023/2024", Competition: "italy-serie-a", ManagerID: &id,
			ManagerName: "Coach", TeamName: "Alpha", Result: "W"},
		{MatchID: "m3", Season: "2023/2024", Competition: "uefa-europa-league", ManagerID: &id,
			ManagerName: "Coach", TeamName: "Beta", Result: "D"},
		{MatchID: "m4", Season: "2023/2024", Competition: "italy-serie-a", ManagerID: nil,
			ManagerName: "Unknown", TeamName: "Gamma", Result: "L"},
	}
	careers := buildManagerCareers(rows)
	require.Len(t, careers, 1)

	c := careers[0]
	assert.Equal(t, int64(42), c.ManagerID)
	assert.Equal(t, int64(3), c.TotalMatches)
	assert.Equal(t, int64(2), c.Wins)
	assert.Equal(t, int64(1), c.Draws)
	assert.Equal(t, int64(0), c.Losses)
	require.NotNil(t, c.WinRate)
	assert.InDelta(t, 2.0/3, *c.WinRate, 1e-9)
	assert.InDelta(t, 7.0/3, c.PointsPerMatch, 1e-9)
	assert.Equal(t, "2022/2023,2023/2024", c.Seasons)
	assert.Equal(t, "italy-serie-a,uefa-europa-league", c.Competitions)
	assert.Equal(t, "Alpha,Beta", c.Teams)
}

func TestRankWithinGroups(t *testing.T) {
	rows := []dataset.TacticalProfile{
		{TeamName: "a", Season: "s", Competition: "c", PossessionIndex: fptr(10)},
		{TeamName: "b", Season: "s", Competition: "c", PossessionIndex: fptr(20)},
		{TeamName: "c", Season: "s", Competition: "c", PossessionIndex: fptr(20)},
		{TeamName: "d", Season: "s", Competition: "other", PossessionIndex: fptr(99)},
	}
	rankWithinGroups(rows)

	require.NotNil(t, rows[0].PossessionPct)
	assert.InDelta(t, 1.0/3, *rows[0].PossessionPct, 1e-9)
	// tied values share the average of their ranks
	require.NotNil(t, rows[1].PossessionPct)
	assert.InDelta(t, 2.5/3, *rows[1].PossessionPct, 1e-9)
	require.NotNil(t, rows[2].PossessionPct)
	assert.InDelta(t, 2.5/3, *rows[2].PossessionPct, 1e-9)
	// singleton group ranks at the top of its own group
	require.NotNil(t, rows[3].PossessionPct)
	assert.InDelta(t, 1, *rows[3].PossessionPct, 1e-9)
}

func TestBuildProgressionRowDirection(t *testing.T) {
	from := &dataset.PlayerSeason{PlayerID: 1, Season: "2022/2023", Competition: "c",
		TotalMinutes: 900, AvgRating: fptr(6.8)}
	to := &dataset.PlayerSeason{PlayerID: 1, Season: "2023/2024", Competition: "c",
		TotalMinutes: 1200, AvgRating: fptr(7.1)}

	row := buildProgressionRow(from, to)
	assert.Equal(t, "2022/2023", row.SeasonFrom)
	assert.Equal(t, "2023/2024", row.SeasonTo)
	assert.True(t, row.SameCompetition)
	assert.Equal(t, int64(300), row.MinutesDelta)
	require.NotNil(t, row.RatingDelta)
	assert.InDelta(t, 0.3, *row.RatingDelta, 1e-9)
	require.NotNil(t, row.Direction)
	assert.Equal(t, "improving", *row.Direction)

	to.AvgRating = fptr(6.75)
	row = buildProgressionRow(from, to)
	require.NotNil(t, row.Direction)
	assert.Equal(t, "stable", *row.Direction)

	to.AvgRating = fptr(6.2)
	row = buildProgressionRow(from, to)
	require.NotNil(t, row.Direction)
	assert.Equal(t, "declining", *row.Direction)

	to.AvgRating = nil
	row = buildProgressionRow(from, to)
	assert.Nil(t, row.Direction)
}
