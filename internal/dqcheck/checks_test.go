package dqcheck

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"matchpulse/internal/dataset"
)

func fptr(v float64) *float64 { return &v }
func iptr(v int64) *int64     { return &v }
func sptr(v string) *string   { return &v }

func resultFor(t *testing.T, results []Result, check string) Result {
	t.Helper()
	for _, r := range results {
		if r.Check == check {
			return r
		}
	}
	t.Fatalf("check %s not found", check)
	return Result{}
}

func scoreRow(id string, home, away int64, source string) dataset.MatchScore {
	result := "D"
	if home > away {
		result = "H"
	} else if home < away {
		result = "A"
	}
	return dataset.MatchScore{
		MatchID: id, Season: "2023/2024", Competition: "england-premier-league",
		HomeScore: iptr(home), AwayScore: iptr(away),
		TotalGoals: iptr(home + away), Result: sptr(result), ScoreSource: source,
	}
}

func TestCheckMatchScoresClean(t *testing.T) {
	var s Suite
	spine := []dataset.MatchIndexRow{{MatchID: "m1"}, {MatchID: "m2"}}
	rows := []dataset.MatchScore{
		scoreRow("m1", 2, 1, dataset.SourceOriginal),
		scoreRow("m2", 0, 0, dataset.SourceZeroAssumed),
	}
	s.checkMatchScores(rows, spine)

	for _, r := range s.ck.Results() {
		assert.Equal(t, SeverityPass, r.Status, "check %s: %s", r.Check, r.Detail)
	}
}

func TestCheckMatchScoresDetectsInconsistencies(t *testing.T) {
	var s Suite
	spine := []dataset.MatchIndexRow{{MatchID: "m1"}, {MatchID: "m2"}}
	bad := scoreRow("m1", 2, 1, "guessed")
	bad.TotalGoals = iptr(9)
	bad.Result = sptr("A")
	s.checkMatchScores([]dataset.MatchScore{bad}, spine)

	results := s.ck.Results()
	assert.Equal(t, SeverityFail, resultFor(t, results, "score_source_values_valid").Status)
	assert.Equal(t, SeverityFail, resultFor(t, results, "total_goals_consistent").Status)
	assert.Equal(t, SeverityFail, resultFor(t, results, "result_consistent_with_scores").Status)
	spineCheck := resultFor(t, results, "all_matches_csv_ids_present")
	assert.Equal(t, SeverityFail, spineCheck.Status)
	assert.Contains(t, spineCheck.Detail, "missing=1")
}

func TestCheckMatchScoresCoverageWarn(t *testing.T) {
	var s Suite
	spine := []dataset.MatchIndexRow{{MatchID: "m1"}, {MatchID: "m2"}}
	rows := []dataset.MatchScore{
		scoreRow("m1", 1, 0, dataset.SourceOriginal),
		{MatchID: "m2", ScoreSource: dataset.SourceNotScraped},
	}
	s.checkMatchScores(rows, spine)

	coverage := resultFor(t, s.ck.Results(), "coverage_gte_85pct")
	assert.Equal(t, SeverityWarn, coverage.Status)
}

func TestCheckBenchmarksQuantileOrder(t *testing.T) {
	var s Suite
	rows := []dataset.Benchmark{
		{Position: "M", Competition: "england-premier-league", Season: "2023/2024",
			StatName: "goals_per90", NPlayers: 10, Mean: 0.4, Median: 0.35, P25: 0.2, P75: 0.5, P90: 0.8},
		{Position: "F", Competition: "all_competitions", Season: "2023/2024",
			StatName: "goals_per90", NPlayers: 40, Mean: 0.6, Median: 0.55, P25: 0.3, P75: 0.7, P90: 1.1},
	}
	s.checkBenchmarks(rows)
	for _, r := range s.ck.Results() {
		assert.Equal(t, SeverityPass, r.Status, "check %s: %s", r.Check, r.Detail)
	}
}

func TestCheckBenchmarksViolations(t *testing.T) {
	var s Suite
	rows := []dataset.Benchmark{
		{Position: "X", Competition: "mystery-league", Season: "2023/2024",
			StatName: "goals_per90", NPlayers: 1, Mean: 0.1, Median: 0.2, P25: 0.5, P75: 0.1, P90: 0.05},
	}
	s.checkBenchmarks(rows)

	results := s.ck.Results()
	assert.Equal(t, SeverityFail, resultFor(t, results, "p25_lte_median").Status)
	assert.Equal(t, SeverityFail, resultFor(t, results, "median_lte_p75").Status)
	assert.Equal(t, SeverityFail, resultFor(t, results, "p75_lte_p90").Status)
	assert.Equal(t, SeverityFail, resultFor(t, results, "n_players_gte_2").Status)
	assert.Equal(t, SeverityFail, resultFor(t, results, "competition_slug_values_valid").Status)
	assert.Equal(t, SeverityFail, resultFor(t, results, "player_position_values_valid").Status)
	assert.Equal(t, SeverityWarn, resultFor(t, results, "mean_gte_p25_for_all_rows").Status)
}

func TestCheckPlayerCareersCrossFile(t *testing.T) {
	var s Suite
	seasons := []dataset.PlayerSeason{
		{PlayerID: 1, Season: "2022/2023", Competition: "c", Goals: 5},
		{PlayerID: 1, Season: "2023/2024", Competition: "c", Goals: 7},
	}
	careers := []dataset.PlayerCareer{
		{PlayerID: 1, TotalMinutes: 2000, SufficientMinutes: true,
			FirstSeason: "2022/2023", LastSeason: "2023/2024",
			NSeasons: 2, NCompetitions: 1, Goals: 12},
	}
	s.checkPlayerCareers(careers, seasons)
	for _, r := range s.ck.Results() {
		assert.Equal(t, SeverityPass, r.Status, "check %s: %s", r.Check, r.Detail)
	}

	var s2 Suite
	careers[0].Goals = 11
	s2.checkPlayerCareers(careers, seasons)
	assert.Equal(t, SeverityFail,
		resultFor(t, s2.ck.Results(), "career_goals_eq_sum_of_season_goals").Status)
}

func TestCheckConsistencyTierValues(t *testing.T) {
	var s Suite
	rows := []dataset.Consistency{
		{PlayerID: 1, NAppearances: 8, Tier: "consistent", RatingCV: fptr(0.1), RatingStd: fptr(0.6)},
		{PlayerID: 2, NAppearances: 4, Tier: "rock_solid"},
	}
	s.checkConsistency(rows)

	results := s.ck.Results()
	floor := resultFor(t, results, "n_appearances_gte_5")
	assert.Equal(t, SeverityFail, floor.Status)
	assert.Contains(t, floor.Detail, "min=4")
	assert.Equal(t, SeverityFail, resultFor(t, results, "consistency_tier_values_valid").Status)
}

func TestCheckSubstitutionsEmpty(t *testing.T) {
	var s Suite
	s.checkSubstitutions(nil)
	results := s.ck.Results()
	require.Len(t, results, 1)
	assert.Equal(t, SeverityWarn, results[0].Status)
	assert.Equal(t, "has_rows", results[0].Check)
}

func TestReportTallyAndExit(t *testing.T) {
	report := NewReport([]Result{
		{File: "00", Check: "a", Status: SeverityPass},
		{File: "00", Check: "b", Status: SeverityWarn, Detail: "27 rows"},
		{File: "01", Check: "c", Status: SeverityFail, Detail: "broken"},
	})
	assert.Equal(t, 1, report.Pass)
	assert.Equal(t, 1, report.Warn)
	assert.Equal(t, 1, report.Fail)
	assert.True(t, report.HasFailures())

	var buf bytes.Buffer
	report.Render(&buf)
	out := buf.String()
	assert.Contains(t, out, "[PASS]")
	assert.Contains(t, out, "[WARN]")
	assert.Contains(t, out, "[FAIL]")
	assert.Contains(t, out, "Summary: 1 PASS, 1 WARN, 1 FAIL")
	assert.Contains(t, out, "FAILURES DETECTED")
}

func TestReportRemediationHint(t *testing.T) {
	report := NewReport([]Result{
		{File: "00_match_scores_full", Check: "all_matches_csv_ids_present", Status: SeverityFail},
	})
	var buf bytes.Buffer
	report.Render(&buf)
	assert.Contains(t, buf.String(), "--from-step scores")
}

func TestReportWriteJSON(t *testing.T) {
	report := NewReport([]Result{
		{File: "00", Check: "a", Status: SeverityPass},
		{File: "01", Check: "b", Status: SeverityFail, Detail: "oops"},
	})
	path := filepath.Join(t.TempDir(), "dq_report.json")
	require.NoError(t, report.WriteJSON(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var payload struct {
		Summary struct {
			Pass int `json:"pass"`
			Warn int `json:"warn"`
			Fail int `json:"fail"`
		} `json:"summary"`
		Checks []Result `json:"checks"`
	}
	require.NoError(t, json.Unmarshal(data, &payload))
	assert.Equal(t, 1, payload.Summary.Pass)
	assert.Equal(t, 1, payload.Summary.Fail)
	require.Len(t, payload.Checks, 2)
	assert.Equal(t, "oops", payload.Checks[1].Detail)
}
