package dqcheck

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"strings"
	"time"

	"matchpulse/internal/config"
	"matchpulse/internal/dataset"
	"matchpulse/internal/stats"
)

// freshnessWindow is how old the key artifact may get before a warning
const freshnessWindow = 48 * time.Hour

// Suite runs every artifact check against the processed directory
type Suite struct {
	Paths  *config.Paths
	Store  *dataset.Store
	Logger *slog.Logger

	ck Checker
}

// NewSuite wires a check suite
func NewSuite(paths *config.Paths, store *dataset.Store, logger *slog.Logger) *Suite {
	return &Suite{Paths: paths, Store: store, Logger: logger}
}

// loadArtifact reads one processed table. A missing or unreadable file is
// recorded as a FAIL and yields no rows; the remaining checks still run.
func loadArtifact[T any](s *Suite, name string) []T {
	path := s.Paths.Processed(name)
	if _, err := os.Stat(path); err != nil {
		s.ck.MissingFile(name, path)
		return nil
	}
	rows, err := dataset.ReadTable[T](path)
	if err != nil {
		s.ck.Check(name, "file_readable", false, err.Error())
		return nil
	}
	return rows
}

// Run executes the full suite and returns the report
func (s *Suite) Run(ctx context.Context) (*Report, error) {
	spine, err := s.Store.ReadMatchIndex()
	if err != nil {
		return nil, fmt.Errorf("failed to read match index: %w", err)
	}
	s.Logger.InfoContext(ctx, "loading processed artifacts",
		slog.String("dir", s.Paths.ProcessedDir), slog.Int("spine_matches", len(spine)))

	scores := loadArtifact[dataset.MatchScore](s, dataset.FileMatchScores)
	teams := loadArtifact[dataset.TeamSeason](s, dataset.FileTeamSeasonStats)
	summaries := loadArtifact[dataset.MatchSummary](s, dataset.FileMatchSummary)
	seasons := loadArtifact[dataset.PlayerSeason](s, dataset.FilePlayerSeasonStats)
	careers := loadArtifact[dataset.PlayerCareer](s, dataset.FilePlayerCareerStats)
	benchmarks := loadArtifact[dataset.Benchmark](s, dataset.FileBenchmarks)
	ranks := loadArtifact[dataset.PercentileRank](s, dataset.FilePercentileRanks)
	form := loadArtifact[dataset.RollingForm](s, dataset.FileRollingForm)
	scouting := loadArtifact[dataset.ScoutingProfile](s, dataset.FileScoutingProfiles)
	progression := loadArtifact[dataset.Progression](s, dataset.FileProgression)
	consistency := loadArtifact[dataset.Consistency](s, dataset.FileConsistency)
	opponents := loadArtifact[dataset.OpponentContext](s, dataset.FileOpponentContext)
	subs := loadArtifact[dataset.SubstitutionImpact](s, dataset.FileSubstitutionImpact)
	momentum := loadArtifact[dataset.MomentumPoint](s, dataset.FileMatchMomentum)
	momentumSum := loadArtifact[dataset.MomentumSummary](s, dataset.FileMomentumSummary)
	managers := loadArtifact[dataset.ManagerMatch](s, dataset.FileManagers)
	managerCareers := loadArtifact[dataset.ManagerCareer](s, dataset.FileManagerCareers)
	tactics := loadArtifact[dataset.TacticalProfile](s, dataset.FileTacticalProfiles)
	ageCurves := loadArtifact[dataset.AgeCurve](s, dataset.FileAgeCurves)
	peakAges := loadArtifact[dataset.PeakAge](s, dataset.FilePeakAgeByPosition)

	s.checkFreshness()

	if len(scores) > 0 {
		s.checkMatchScores(scores, spine)
	}
	if len(teams) > 0 {
		s.checkTeamSeasons(teams)
	}
	if len(summaries) > 0 {
		s.checkMatchSummaries(summaries, scores, spine)
	}
	if len(seasons) > 0 {
		s.checkPlayerSeasons(seasons)
	}
	if len(careers) > 0 && len(seasons) > 0 {
		s.checkPlayerCareers(careers, seasons)
	}
	if len(benchmarks) > 0 {
		s.checkBenchmarks(benchmarks)
	}
	if len(ranks) > 0 && len(seasons) > 0 {
		s.checkPercentileRanks(ranks, seasons)
	}
	if len(form) > 0 {
		s.checkRollingForm(form)
	}
	if len(scouting) > 0 && len(careers) > 0 {
		s.checkScoutingProfiles(scouting, careers)
	}
	if len(progression) > 0 {
		s.checkProgression(progression)
	}
	if len(consistency) > 0 {
		s.checkConsistency(consistency)
	}
	if len(opponents) > 0 && len(seasons) > 0 {
		s.checkOpponentContext(opponents, seasons)
	}
	s.checkSubstitutions(subs)
	if len(momentum) > 0 {
		s.checkMomentum(momentum, momentumSum, scores)
	}
	if len(managers) > 0 {
		s.checkManagers(managers, managerCareers)
	}
	if len(tactics) > 0 && len(teams) > 0 {
		s.checkTacticalProfiles(tactics, teams)
	}
	if len(ageCurves) > 0 {
		s.checkAgeCurves(ageCurves, peakAges)
	}

	report := NewReport(s.ck.Results())
	s.Logger.InfoContext(ctx, "data quality check finished",
		slog.Int("pass", report.Pass), slog.Int("warn", report.Warn), slog.Int("fail", report.Fail))
	return report, nil
}

// checkFreshness warns when the key artifact has not been rebuilt recently
func (s *Suite) checkFreshness() {
	info, err := os.Stat(s.Paths.Processed(dataset.FileMatchSummary))
	if err != nil {
		return
	}
	age := time.Since(info.ModTime())
	s.ck.Warn("02_match_summary", "artifact_freshness_48h", age <= freshnessWindow,
		fmt.Sprintf("file age %.1fh (warn if > %.0fh)", age.Hours(), freshnessWindow.Hours()))
}

func (s *Suite) checkMatchScores(rows []dataset.MatchScore, spine []dataset.MatchIndexRow) {
	const f = "00_match_scores_full"

	nullIDs := 0
	validSources := map[string]bool{
		dataset.SourceOriginal: true, dataset.SourceFromIncident: true,
		dataset.SourceZeroAssumed: true, dataset.SourceNotScraped: true,
	}
	badSources := map[string]bool{}
	var homeScores, awayScores []float64
	goalMismatches, resultMismatches, scraped := 0, 0, 0
	for _, r := range rows {
		if r.MatchID == "" {
			nullIDs++
		}
		if !validSources[r.ScoreSource] {
			badSources[r.ScoreSource] = true
		}
		if r.ScoreSource != dataset.SourceNotScraped {
			scraped++
		}
		if r.HomeScore == nil || r.AwayScore == nil {
			continue
		}
		homeScores = append(homeScores, float64(*r.HomeScore))
		awayScores = append(awayScores, float64(*r.AwayScore))
		if r.TotalGoals == nil || *r.TotalGoals != *r.HomeScore+*r.AwayScore {
			goalMismatches++
		}
		expected := "D"
		switch {
		case *r.HomeScore > *r.AwayScore:
			expected = "H"
		case *r.HomeScore < *r.AwayScore:
			expected = "A"
		}
		if r.Result == nil || *r.Result != expected {
			resultMismatches++
		}
	}

	s.ck.Check(f, "no_null_match_id", nullIDs == 0, fmt.Sprintf("%d empty match ids", nullIDs))
	s.ck.Check(f, "score_source_values_valid", len(badSources) == 0, setString(badSources))
	s.ck.Check(f, "home_score_non_negative", noNegatives(homeScores), "")
	s.ck.Check(f, "away_score_non_negative", noNegatives(awayScores), "")
	s.ck.Check(f, "home_score_max_15", inRange(homeScores, 0, 15), "")
	s.ck.Check(f, "away_score_max_15", inRange(awayScores, 0, 15), "")
	s.ck.Check(f, "total_goals_consistent", goalMismatches == 0, fmt.Sprintf("%d mismatches", goalMismatches))
	s.ck.Check(f, "result_consistent_with_scores", resultMismatches == 0, fmt.Sprintf("%d mismatches", resultMismatches))

	coverage := 0.0
	if len(rows) > 0 {
		coverage = float64(scraped) / float64(len(rows))
	}
	s.ck.Warn(f, "coverage_gte_85pct", coverage >= 0.85,
		fmt.Sprintf("%.1f%% (%d not_scraped matches)", coverage*100, len(rows)-scraped))

	spineIDs := make(map[string]bool, len(spine))
	for _, m := range spine {
		spineIDs[m.MatchID] = true
	}
	rowIDs := make(map[string]bool, len(rows))
	for _, r := range rows {
		rowIDs[r.MatchID] = true
	}
	missing, extra := setDiff(spineIDs, rowIDs), setDiff(rowIDs, spineIDs)
	s.ck.Check(f, "all_matches_csv_ids_present", missing == 0 && extra == 0,
		fmt.Sprintf("missing=%d, extra=%d", missing, extra))
}

func (s *Suite) checkTeamSeasons(rows []dataset.TeamSeason) {
	const f = "01_team_season_stats"

	dupes := 0
	seen := map[string]bool{}
	matchSplitOK, goalDiffOK := true, true
	var xgTotals, goalsFor, goalsAgainst, passAcc, possession []float64
	xgSplitBad := 0
	for _, r := range rows {
		key := r.TeamName + "\x00" + r.Season + "\x00" + r.Competition
		if seen[key] {
			dupes++
		}
		seen[key] = true
		if r.MatchesHome+r.MatchesAway != r.MatchesTotal {
			matchSplitOK = false
		}
		if r.GoalDiff != r.GoalsFor-r.GoalsAgainst {
			goalDiffOK = false
		}
		xgTotals = append(xgTotals, r.XGForTotal)
		goalsFor = append(goalsFor, float64(r.GoalsFor))
		goalsAgainst = append(goalsAgainst, float64(r.GoalsAgainst))
		if r.PassAccuracyAvg != nil {
			passAcc = append(passAcc, *r.PassAccuracyAvg)
		}
		if r.PossessionAvg != nil {
			possession = append(possession, *r.PossessionAvg)
		}
		if r.XGForHome+r.XGForAway > r.XGForTotal+0.1 {
			xgSplitBad++
		}
	}

	s.ck.Check(f, "no_duplicate_team_season_comp", dupes == 0, fmt.Sprintf("%d duplicates", dupes))
	s.ck.Check(f, "matches_home_plus_away_eq_total", matchSplitOK, "")
	s.ck.Check(f, "xg_for_total_non_negative", noNegatives(xgTotals), "")
	s.ck.Check(f, "goals_for_non_negative", noNegatives(goalsFor), "")
	s.ck.Check(f, "goals_against_non_negative", noNegatives(goalsAgainst), "")
	s.ck.Check(f, "goal_diff_correct", goalDiffOK, "")
	s.ck.Check(f, "pass_accuracy_avg_in_range_0_1", inRange(passAcc, 0, 1), rangeDetail(passAcc))
	s.ck.Check(f, "possession_avg_in_range_0_1", inRange(possession, 0, 1), rangeDetail(possession))
	s.ck.Warn(f, "xg_home_plus_away_lte_total", xgSplitBad == 0, fmt.Sprintf("%d rows exceed total", xgSplitBad))
}

func (s *Suite) checkMatchSummaries(rows []dataset.MatchSummary, scores []dataset.MatchScore, spine []dataset.MatchIndexRow) {
	const f = "02_match_summary"

	spineIDs := make(map[string]bool, len(spine))
	for _, m := range spine {
		spineIDs[m.MatchID] = true
	}
	rowIDs := make(map[string]bool, len(rows))
	for _, r := range rows {
		rowIDs[r.MatchID] = true
	}
	missing, extra := setDiff(spineIDs, rowIDs), setDiff(rowIDs, spineIDs)
	s.ck.Check(f, "all_matches_csv_ids_present", missing == 0 && extra == 0,
		fmt.Sprintf("missing=%d, extra=%d", missing, extra))

	sameTeams := 0
	for _, r := range rows {
		if strings.TrimSpace(r.HomeTeamName) == strings.TrimSpace(r.AwayTeamName) {
			sameTeams++
		}
	}
	s.ck.Check(f, "home_away_team_names_differ", sameTeams == 0,
		fmt.Sprintf("%d rows with identical home/away team", sameTeams))

	scoreByID := make(map[string]dataset.MatchScore, len(scores))
	for _, sc := range scores {
		scoreByID[sc.MatchID] = sc
	}
	scoreMismatches := 0
	swingBad, overperfBad := 0, 0
	nullXG, nullManager := 0, 0
	perCompSeason := map[string]int{}
	for _, r := range rows {
		if sc, ok := scoreByID[r.MatchID]; ok &&
			r.HomeScore != nil && r.AwayScore != nil && sc.HomeScore != nil && sc.AwayScore != nil {
			if *r.HomeScore != *sc.HomeScore || *r.AwayScore != *sc.AwayScore {
				scoreMismatches++
			}
		}
		if r.HomeXG != nil && r.AwayXG != nil && r.XGSwing != nil {
			if diff := *r.XGSwing - (*r.HomeXG - *r.AwayXG); diff > 0.001 || diff < -0.001 {
				swingBad++
			}
		}
		if r.HomeXGOverperf != nil && r.HomeXG != nil && r.HomeScore != nil {
			if diff := *r.HomeXGOverperf - (float64(*r.HomeScore) - *r.HomeXG); diff > 0.001 || diff < -0.001 {
				overperfBad++
			}
		}
		if r.HomeXG == nil {
			nullXG++
		}
		if r.HomeManagerName == nil {
			nullManager++
		}
		perCompSeason[r.Competition+"\x00"+r.Season]++
	}
	s.ck.Check(f, "scores_consistent_with_00", scoreMismatches == 0, fmt.Sprintf("%d mismatches", scoreMismatches))
	s.ck.Warn(f, "xg_swing_consistent", swingBad <= 5,
		fmt.Sprintf("%d rows with xg_swing != home_xg - away_xg", swingBad))
	s.ck.Warn(f, "home_xg_overperformance_consistent", overperfBad <= 5,
		fmt.Sprintf("%d rows inconsistent", overperfBad))
	s.ck.Warn(f, "null_home_xg_lt_25pct", pctNull(nullXG, len(rows)) < 0.25,
		fmt.Sprintf("%.1f%% null", pctNull(nullXG, len(rows))*100))
	s.ck.Warn(f, "null_home_manager_lt_15pct", pctNull(nullManager, len(rows)) < 0.15,
		fmt.Sprintf("%.1f%% null", pctNull(nullManager, len(rows))*100))

	// 1-600 matches per league season is the plausible range
	oversized := 0
	for _, n := range perCompSeason {
		if n > 600 {
			oversized++
		}
	}
	s.ck.Check(f, "competition_season_count_plausible", oversized == 0,
		fmt.Sprintf("%d competition-seasons with >600 matches", oversized))
}

func (s *Suite) checkPlayerSeasons(rows []dataset.PlayerSeason) {
	const f = "03_player_season_stats"

	dupes := 0
	seen := map[string]bool{}
	minutesOK, sufficientOK := true, true
	var ratings, goals []float64
	nullRatings := 0
	for _, r := range rows {
		key := fmt.Sprintf("%d\x00%s\x00%s", r.PlayerID, r.Season, r.Competition)
		if seen[key] {
			dupes++
		}
		seen[key] = true
		if r.TotalMinutes < 1 {
			minutesOK = false
		}
		if r.SufficientMinutes != (r.TotalMinutes >= 450) {
			sufficientOK = false
		}
		if r.AvgRating != nil {
			ratings = append(ratings, *r.AvgRating)
		} else {
			nullRatings++
		}
		goals = append(goals, float64(r.Goals))
	}
	s.ck.Check(f, "no_duplicate_player_season_comp", dupes == 0, fmt.Sprintf("%d duplicates", dupes))
	s.ck.Check(f, "total_minutes_gte_1", minutesOK, "")
	s.ck.Check(f, "sufficient_minutes_flag_correct", sufficientOK, "")
	s.ck.Check(f, "avg_rating_in_range_1_10", inRange(ratings, 1, 10), rangeDetail(ratings))

	var badPer90, badRate []string
	for _, stat := range dataset.SeasonStats {
		if strings.HasSuffix(stat.Name, "_per90") && !stats.NegativeAllowed[stat.Name] {
			if !noNegatives(seasonStatValues(rows, stat)) {
				badPer90 = append(badPer90, stat.Name)
			}
		}
	}
	for _, stat := range dataset.SeasonStats {
		switch stat.Name {
		case "pass_accuracy", "duel_win_rate", "aerial_win_rate", "tackle_success_rate",
			"dribble_success_rate", "cross_accuracy", "long_ball_accuracy":
			if !inRange(seasonStatValues(rows, stat), 0, 1) {
				badRate = append(badRate, stat.Name)
			}
		}
	}
	s.ck.Check(f, "all_per90_non_negative", len(badPer90) == 0,
		"negative values in: "+strings.Join(badPer90, ", "))
	s.ck.Check(f, "rate_cols_in_range_0_1", len(badRate) == 0,
		"out-of-range: "+strings.Join(badRate, ", "))
	s.ck.Check(f, "goals_in_range_0_50", inRange(goals, 0, 50), rangeDetail(goals))
	s.ck.Warn(f, "null_avg_rating_lt_5pct", pctNull(nullRatings, len(rows)) < 0.05,
		fmt.Sprintf("%.1f%% null", pctNull(nullRatings, len(rows))*100))
}

func (s *Suite) checkPlayerCareers(rows []dataset.PlayerCareer, seasons []dataset.PlayerSeason) {
	const f = "04_player_career_stats"

	dupes := 0
	seen := map[int64]bool{}
	seasonIDs := map[int64]bool{}
	seasonGoals := map[int64]int64{}
	for _, r := range seasons {
		seasonIDs[r.PlayerID] = true
		seasonGoals[r.PlayerID] += r.Goals
	}

	orphans, goalMismatches := 0, 0
	sufficientOK, seasonOrderOK, nSeasonsOK, nCompsOK := true, true, true, true
	var goalsPer90, assistsPer90 []float64
	for _, r := range rows {
		if seen[r.PlayerID] {
			dupes++
		}
		seen[r.PlayerID] = true
		if !seasonIDs[r.PlayerID] {
			orphans++
		}
		if r.SufficientMinutes != (r.TotalMinutes >= 900) {
			sufficientOK = false
		}
		if r.FirstSeason > r.LastSeason {
			seasonOrderOK = false
		}
		if r.NSeasons < 1 {
			nSeasonsOK = false
		}
		if r.NCompetitions < 1 {
			nCompsOK = false
		}
		if r.Goals != seasonGoals[r.PlayerID] {
			goalMismatches++
		}
		if r.GoalsPer90 != nil {
			goalsPer90 = append(goalsPer90, *r.GoalsPer90)
		}
		if r.AssistsPer90 != nil {
			assistsPer90 = append(assistsPer90, *r.AssistsPer90)
		}
	}
	s.ck.Check(f, "no_duplicate_player_id", dupes == 0, fmt.Sprintf("%d duplicates", dupes))
	s.ck.Check(f, "all_player_ids_in_03", orphans == 0,
		fmt.Sprintf("%d player_ids in 04 not in 03", orphans))
	s.ck.Check(f, "sufficient_minutes_flag_correct", sufficientOK, "")
	s.ck.Check(f, "first_season_lte_last_season", seasonOrderOK, "")
	s.ck.Check(f, "n_seasons_gte_1", nSeasonsOK, "")
	s.ck.Check(f, "n_competitions_gte_1", nCompsOK, "")
	s.ck.Check(f, "career_goals_eq_sum_of_season_goals", goalMismatches == 0,
		fmt.Sprintf("%d mismatches", goalMismatches))
	s.ck.Check(f, "goals_per90_non_negative", noNegatives(goalsPer90), "")
	s.ck.Check(f, "assists_per90_non_negative", noNegatives(assistsPer90), "")
}

// validCompetitions are the slugs the tracked sources may produce, plus the
// synthetic global pool
var validCompetitions = map[string]bool{
	"belgium-pro-league": true, "england-premier-league": true, "france-ligue-1": true,
	"germany-bundesliga": true, "italy-serie-a": true, "netherlands-eredivisie": true,
	"portugal-primeira-liga": true, "saudi-pro-league": true, "spain-laliga": true,
	"turkey-super-lig": true, "uefa-champions-league": true, "uefa-europa-league": true,
	"uefa-conference-league": true, "uefa-super-cup": true, "all_competitions": true,
	"england-fa-cup": true, "england-league-cup": true, "spain-copa-del-rey": true,
	"italy-coppa-italia": true, "germany-dfb-pokal": true, "netherlands-knvb-beker": true,
	"brazil-serie-a": true, "copa-libertadores": true,
}

var validPositions = map[string]bool{"G": true, "D": true, "M": true, "F": true}

func (s *Suite) checkBenchmarks(rows []dataset.Benchmark) {
	const f = "05_competition_benchmarks"

	const eps = 1e-9
	p25Bad, medianBad, p90Bad, nPlayersBad, meanBelowP25 := 0, 0, 0, 0, 0
	badComps := map[string]bool{}
	badPositions := map[string]bool{}
	for _, r := range rows {
		if r.P25 > r.Median+eps {
			p25Bad++
		}
		if r.Median > r.P75+eps {
			medianBad++
		}
		if r.P75 > r.P90+eps {
			p90Bad++
		}
		if r.NPlayers < 2 {
			nPlayersBad++
		}
		if !validCompetitions[r.Competition] {
			badComps[r.Competition] = true
		}
		if !validPositions[r.Position] {
			badPositions[r.Position] = true
		}
		if r.Mean < r.P25 {
			meanBelowP25++
		}
	}
	s.ck.Check(f, "p25_lte_median", p25Bad == 0, fmt.Sprintf("%d violations", p25Bad))
	s.ck.Check(f, "median_lte_p75", medianBad == 0, fmt.Sprintf("%d violations", medianBad))
	s.ck.Check(f, "p75_lte_p90", p90Bad == 0, fmt.Sprintf("%d violations", p90Bad))
	s.ck.Check(f, "n_players_gte_2", nPlayersBad == 0, fmt.Sprintf("%d rows below 2", nPlayersBad))
	s.ck.Check(f, "competition_slug_values_valid", len(badComps) == 0, setString(badComps))
	s.ck.Check(f, "player_position_values_valid", len(badPositions) == 0, setString(badPositions))
	s.ck.Warn(f, "mean_gte_p25_for_all_rows", meanBelowP25 == 0,
		fmt.Sprintf("%d rows (expected for left-skewed sparse GK stats)", meanBelowP25))
}

func (s *Suite) checkPercentileRanks(rows []dataset.PercentileRank, seasons []dataset.PlayerSeason) {
	const f = "06_player_percentile_ranks"

	seasonIDs := map[int64]bool{}
	for _, r := range seasons {
		seasonIDs[r.PlayerID] = true
	}
	rankedNames := map[string]bool{}
	for _, stat := range dataset.RankedStats() {
		rankedNames[stat.Name] = true
	}

	var inComp, global []float64
	nullGlobal, orphans := 0, 0
	unknownStats := map[string]bool{}
	for _, r := range rows {
		inComp = append(inComp, r.PctInComp)
		if r.PctGlobal != nil {
			global = append(global, *r.PctGlobal)
		} else {
			nullGlobal++
		}
		if !seasonIDs[r.PlayerID] {
			orphans++
		}
		if !rankedNames[r.StatName] {
			unknownStats[r.StatName] = true
		}
	}
	s.ck.Check(f, "pct_in_competition_range_0_100", inRange(inComp, 0, 100), rangeDetail(inComp))
	s.ck.Check(f, "pct_global_range_0_100", inRange(global, 0, 100), rangeDetail(global))
	s.ck.Warn(f, "null_pct_global_lt_10_rows", nullGlobal < 10,
		fmt.Sprintf("%d null pct_global rows", nullGlobal))
	s.ck.Check(f, "all_player_ids_in_03", orphans == 0, fmt.Sprintf("%d not in 03", orphans))
	s.ck.Check(f, "stat_names_in_ranked_schema", len(unknownStats) == 0, setString(unknownStats))
}

func (s *Suite) checkRollingForm(rows []dataset.RollingForm) {
	const f = "07_player_rolling_form"

	validWindows := map[int64]bool{5: true, 10: true, 20: true}
	badWindows := map[string]bool{}
	dupes, overWindow := 0, 0
	seen := map[string]bool{}
	var ratings, minutes []float64
	for _, r := range rows {
		if !validWindows[r.Window] {
			badWindows[fmt.Sprintf("%d", r.Window)] = true
		}
		key := fmt.Sprintf("%d\x00%d", r.PlayerID, r.Window)
		if seen[key] {
			dupes++
		}
		seen[key] = true
		if r.NAvailable > r.Window {
			overWindow++
		}
		if r.AvgRating != nil {
			ratings = append(ratings, *r.AvgRating)
		}
		minutes = append(minutes, r.TotalMinutes)
	}
	s.ck.Check(f, "window_values_valid", len(badWindows) == 0, setString(badWindows))
	s.ck.Check(f, "no_duplicate_player_window", dupes == 0, fmt.Sprintf("%d duplicates", dupes))
	s.ck.Check(f, "n_available_lte_window", overWindow == 0,
		fmt.Sprintf("%d rows exceed window", overWindow))
	s.ck.Check(f, "avg_rating_in_range_1_10", inRange(ratings, 1, 10), rangeDetail(ratings))
	s.ck.Check(f, "total_minutes_non_negative", noNegatives(minutes), "")
}

func (s *Suite) checkScoutingProfiles(rows []dataset.ScoutingProfile, careers []dataset.PlayerCareer) {
	const f = "08_player_scouting_profiles"

	careerIDs := map[int64]bool{}
	for _, r := range careers {
		careerIDs[r.PlayerID] = true
	}
	dupes, orphans := 0, 0
	seen := map[int64]bool{}
	var ages []float64
	active, activeWithoutLatest := 0, 0
	for _, r := range rows {
		if seen[r.PlayerID] {
			dupes++
		}
		seen[r.PlayerID] = true
		if !careerIDs[r.PlayerID] {
			orphans++
		}
		if r.AgeToday != nil {
			ages = append(ages, *r.AgeToday)
		}
		if r.Active {
			active++
			if r.LatestSeason == nil {
				activeWithoutLatest++
			}
		}
	}
	s.ck.Check(f, "no_duplicate_player_id", dupes == 0, fmt.Sprintf("%d duplicates", dupes))
	// The profile spine is players.csv, so tracked players with zero
	// recorded appearances legitimately have no career row.
	s.ck.Warn(f, "all_player_ids_in_04", orphans == 0,
		fmt.Sprintf("%d tracked players with no appearance data (expected)", orphans))
	s.ck.Check(f, "age_today_in_range_15_60", inRange(ages, 15, 60), rangeDetail(ages))
	// active only means some career data exists; the latest-season block
	// additionally requires a sufficient-minutes season
	activeDenom := active
	if activeDenom == 0 {
		activeDenom = 1
	}
	s.ck.Warn(f, "active_players_with_no_latest_season_lt_40pct",
		float64(activeWithoutLatest)/float64(activeDenom) < 0.40,
		fmt.Sprintf("%d active players without a qualifying season (expected for low-minute players)", activeWithoutLatest))
}

func (s *Suite) checkProgression(rows []dataset.Progression) {
	const f = "09_player_progression"

	backward := 0
	badDirections := map[string]bool{}
	nullRatingDelta := 0
	for _, r := range rows {
		if r.SeasonFrom > r.SeasonTo {
			backward++
		}
		if r.Direction != nil {
			switch *r.Direction {
			case "improving", "declining", "stable":
			default:
				badDirections[*r.Direction] = true
			}
		}
		if r.RatingDelta == nil {
			nullRatingDelta++
		}
	}
	// season_from == season_to is valid: two competitions in the same
	// season produce a cross-competition pair
	s.ck.Warn(f, "season_from_lte_season_to", backward == 0,
		fmt.Sprintf("%d backward violations (same-season pairs expected)", backward))
	s.ck.Check(f, "progression_direction_values_valid", len(badDirections) == 0, setString(badDirections))
	s.ck.Warn(f, "null_avg_rating_delta_lt_30pct", pctNull(nullRatingDelta, len(rows)) < 0.30,
		fmt.Sprintf("%.1f%% null", pctNull(nullRatingDelta, len(rows))*100))
}

func (s *Suite) checkConsistency(rows []dataset.Consistency) {
	const f = "10_player_consistency"

	validTiers := map[string]bool{
		"very_consistent": true, "consistent": true, "variable": true, "very_variable": true,
	}
	minAppearances := int64(1 << 62)
	badTiers := map[string]bool{}
	var cvs, stds []float64
	for _, r := range rows {
		if r.NAppearances < minAppearances {
			minAppearances = r.NAppearances
		}
		if !validTiers[r.Tier] {
			badTiers[r.Tier] = true
		}
		if r.RatingCV != nil {
			cvs = append(cvs, *r.RatingCV)
		}
		if r.RatingStd != nil {
			stds = append(stds, *r.RatingStd)
		}
	}
	s.ck.Check(f, "n_appearances_gte_5", minAppearances >= 5, fmt.Sprintf("min=%d", minAppearances))
	s.ck.Check(f, "consistency_tier_values_valid", len(badTiers) == 0, setString(badTiers))
	s.ck.Check(f, "rating_cv_non_negative", noNegatives(cvs), "")
	s.ck.Check(f, "rating_std_non_negative", noNegatives(stds), "")
}

func (s *Suite) checkOpponentContext(rows []dataset.OpponentContext, seasons []dataset.PlayerSeason) {
	const f = "11_player_opponent_context"

	validTiers := map[string]bool{dataset.TierTop: true, dataset.TierMid: true, dataset.TierBottom: true}
	seasonIDs := map[int64]bool{}
	for _, r := range seasons {
		seasonIDs[r.PlayerID] = true
	}

	badTiers := map[string]bool{}
	nullTiers, orphans := 0, 0
	covered := map[string]bool{}
	for _, r := range rows {
		if r.OpponentTier == "" {
			nullTiers++
		} else if !validTiers[r.OpponentTier] {
			badTiers[r.OpponentTier] = true
		}
		if !seasonIDs[r.PlayerID] {
			orphans++
		}
		covered[fmt.Sprintf("%d\x00%s\x00%s", r.PlayerID, r.Season, r.Competition)] = true
	}
	s.ck.Check(f, "opponent_tier_values_valid", len(badTiers) == 0, setString(badTiers))
	s.ck.Check(f, "no_null_opponent_tier", nullTiers == 0, fmt.Sprintf("%d nulls", nullTiers))
	s.ck.Check(f, "all_player_ids_in_03", orphans == 0, fmt.Sprintf("%d not in 03", orphans))

	sufficient, sufficientCovered := 0, 0
	for _, r := range seasons {
		if !r.SufficientMinutes {
			continue
		}
		sufficient++
		if covered[fmt.Sprintf("%d\x00%s\x00%s", r.PlayerID, r.Season, r.Competition)] {
			sufficientCovered++
		}
	}
	coverage := 1.0
	if sufficient > 0 {
		coverage = float64(sufficientCovered) / float64(sufficient)
	}
	s.ck.Warn(f, "sufficient_minutes_players_coverage_gte_80pct", coverage >= 0.80,
		fmt.Sprintf("%.1f%% covered (%d uncovered)", coverage*100, sufficient-sufficientCovered))
}

func (s *Suite) checkSubstitutions(rows []dataset.SubstitutionImpact) {
	const f = "12_substitution_impact"

	if len(rows) == 0 {
		s.ck.Warn(f, "has_rows", false, "no substitute appearances found")
		return
	}
	zeroMinutes := 0
	var subMinutes []float64
	nullOut, nullRating := 0, 0
	for _, r := range rows {
		if r.MinutesAfterSub <= 0 {
			zeroMinutes++
		}
		subMinutes = append(subMinutes, r.SubMinute)
		if r.PlayerOutID == nil {
			nullOut++
		}
		if r.Rating == nil {
			nullRating++
		}
	}
	s.ck.Check(f, "minutes_after_sub_gt_0", zeroMinutes == 0,
		fmt.Sprintf("%d zero-minute rows remain", zeroMinutes))
	s.ck.Check(f, "sub_minute_in_range_0_120", inRange(subMinutes, 0, 120), rangeDetail(subMinutes))
	// the source has no substitution incident type, so the replaced player
	// is never identifiable
	s.ck.Warn(f, "player_out_id_null_documented", nullOut == len(rows),
		"player_out_id always null (source has no sub incidents)")
	s.ck.Warn(f, "null_player_in_rating_lt_65pct", pctNull(nullRating, len(rows)) < 0.65,
		fmt.Sprintf("%.1f%% null player_in_rating", pctNull(nullRating, len(rows))*100))
}

func (s *Suite) checkMomentum(points []dataset.MomentumPoint, summaries []dataset.MomentumSummary, scores []dataset.MatchScore) {
	const f = "13_match_momentum"

	var minutes []float64
	badPeriods := map[string]bool{}
	nullIDs := 0
	for _, p := range points {
		minutes = append(minutes, float64(p.Minute))
		if p.Period != "1ST" && p.Period != "2ND" {
			badPeriods[p.Period] = true
		}
		if p.MatchID == "" {
			nullIDs++
		}
	}
	s.ck.Check(f, "minute_in_range_0_130", inRange(minutes, 0, 130), rangeDetail(minutes))
	s.ck.Check(f, "period_values_valid", len(badPeriods) == 0, setString(badPeriods))
	s.ck.Check(f, "no_null_match_id", nullIDs == 0, fmt.Sprintf("%d empty match ids", nullIDs))

	scoredIDs := map[string]bool{}
	for _, sc := range scores {
		if sc.ScoreSource != dataset.SourceNotScraped {
			scoredIDs[sc.MatchID] = true
		}
	}
	summarized, nullHalftime := 0, 0
	for _, sum := range summaries {
		if scoredIDs[sum.MatchID] {
			summarized++
		}
		if sum.HalftimeMomentum == nil {
			nullHalftime++
		}
	}
	coverage := 0.0
	if len(scoredIDs) > 0 {
		coverage = float64(summarized) / float64(len(scoredIDs))
	}
	s.ck.Warn(f, "momentum_summary_coverage_gte_95pct", coverage >= 0.95,
		fmt.Sprintf("%.1f%% of scored matches have momentum data", coverage*100))
	s.ck.Check(f, "match_momentum_summary_no_null_halftime", nullHalftime == 0,
		fmt.Sprintf("%d summaries without halftime momentum", nullHalftime))
}

func (s *Suite) checkManagers(matches []dataset.ManagerMatch, careers []dataset.ManagerCareer) {
	const f = "14_managers"

	badResults := map[string]bool{}
	nullIDs := 0
	for _, m := range matches {
		if m.Result != "W" && m.Result != "D" && m.Result != "L" {
			badResults[m.Result] = true
		}
		if m.ManagerID == nil {
			nullIDs++
		}
	}
	s.ck.Check(f, "result_values_valid", len(badResults) == 0, setString(badResults))
	s.ck.Warn(f, "null_manager_id_lt_10", nullIDs < 10, fmt.Sprintf("%d null manager_id rows", nullIDs))

	if len(careers) == 0 {
		return
	}
	wdlMismatches := 0
	var winRates []float64
	for _, c := range careers {
		if c.Wins+c.Draws+c.Losses != c.TotalMatches {
			wdlMismatches++
		}
		if c.WinRate != nil {
			winRates = append(winRates, *c.WinRate)
		}
	}
	s.ck.Check(f, "wins_draws_losses_eq_total_matches", wdlMismatches == 0,
		fmt.Sprintf("%d mismatches", wdlMismatches))
	s.ck.Check(f, "win_rate_in_range_0_1", inRange(winRates, 0, 1), rangeDetail(winRates))
}

func (s *Suite) checkTacticalProfiles(rows []dataset.TacticalProfile, teams []dataset.TeamSeason) {
	const f = "15_team_tactical_profiles"

	dupes := 0
	seen := map[string]bool{}
	badPct := map[string]bool{}
	pctCols := []struct {
		name string
		get  func(*dataset.TacticalProfile) *float64
	}{
		{"possession_index_pct", func(t *dataset.TacticalProfile) *float64 { return t.PossessionPct }},
		{"directness_index_pct", func(t *dataset.TacticalProfile) *float64 { return t.DirectnessPct }},
		{"pressing_index_pct", func(t *dataset.TacticalProfile) *float64 { return t.PressingPct }},
		{"aerial_index_pct", func(t *dataset.TacticalProfile) *float64 { return t.AerialPct }},
		{"crossing_index_pct", func(t *dataset.TacticalProfile) *float64 { return t.CrossingPct }},
		{"chance_creation_index_pct", func(t *dataset.TacticalProfile) *float64 { return t.ChanceCreationPct }},
		{"defensive_solidity_pct", func(t *dataset.TacticalProfile) *float64 { return t.DefSolidityPct }},
		{"home_away_consistency_pct", func(t *dataset.TacticalProfile) *float64 { return t.HomeAwayPct }},
		{"second_half_intensity_pct", func(t *dataset.TacticalProfile) *float64 { return t.SecondHalfPct }},
	}
	for i := range rows {
		r := &rows[i]
		key := r.TeamName + "\x00" + r.Season + "\x00" + r.Competition
		if seen[key] {
			dupes++
		}
		seen[key] = true
		for _, col := range pctCols {
			if v := col.get(r); v != nil && (*v < 0 || *v > 1) {
				badPct[col.name] = true
			}
		}
	}
	s.ck.Check(f, "no_duplicate_team_season_comp", dupes == 0, fmt.Sprintf("%d duplicates", dupes))
	s.ck.Check(f, "all_pct_cols_in_range_0_1", len(badPct) == 0, "out-of-range: "+setString(badPct))

	teamNames := map[string]bool{}
	for _, t := range teams {
		teamNames[t.TeamName] = true
	}
	unknownTeams := 0
	for _, r := range rows {
		if !teamNames[r.TeamName] {
			unknownTeams++
		}
	}
	// WARN only: a mismatch usually means 15 was built from an older 01;
	// re-running from step team through tactics resyncs them
	s.ck.Warn(f, "team_names_all_in_01", unknownTeams == 0,
		fmt.Sprintf("%d team(s) in 15 not in 01, re-run pipeline from step team to tactics", unknownTeams))
}

func (s *Suite) checkAgeCurves(rows []dataset.AgeCurve, peaks []dataset.PeakAge) {
	const f = "16_player_age_curves"

	var bins []float64
	reliableOK := true
	for _, r := range rows {
		bins = append(bins, float64(r.AgeBin))
		if r.Reliable != (r.NPlayerSeasons >= 20) {
			reliableOK = false
		}
	}
	s.ck.Check(f, "age_bin_in_range_16_45", inRange(bins, 16, 45), rangeDetail(bins))
	s.ck.Check(f, "reliable_flag_correct", reliableOK, "")
	s.ck.Check(f, "16_peak_age_by_position_has_4_rows", len(peaks) == 4,
		fmt.Sprintf("found %d rows (expected 4: G/D/M/F)", len(peaks)))
}

// seasonStatValues collects the non-null values of one stat across rows
func seasonStatValues(rows []dataset.PlayerSeason, stat dataset.SeasonStat) []float64 {
	out := make([]float64, 0, len(rows))
	for i := range rows {
		if v := stat.Get(&rows[i]); v != nil {
			out = append(out, *v)
		}
	}
	return out
}

// setDiff counts keys of a missing from b
func setDiff(a, b map[string]bool) int {
	n := 0
	for k := range a {
		if !b[k] {
			n++
		}
	}
	return n
}

// setString renders the offending values of a failed membership check
func setString(set map[string]bool) string {
	if len(set) == 0 {
		return ""
	}
	vals := make([]string, 0, len(set))
	for v := range set {
		vals = append(vals, v)
	}
	sort.Strings(vals)
	return strings.Join(vals, ", ")
}

func rangeDetail(vals []float64) string {
	if len(vals) == 0 {
		return ""
	}
	lo, hi := vals[0], vals[0]
	for _, v := range vals[1:] {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	return fmt.Sprintf("min=%.2f max=%.2f", lo, hi)
}
