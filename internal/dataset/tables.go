package dataset

// Output artifact row types, one struct per processed table. Artifact file
// names live next to the types so stages and the checker share them.

// Processed artifact file names
const (
	FileMatchScores          = "00_match_scores_full.parquet"
	FileTeamSeasonStats      = "01_team_season_stats.parquet"
	FileMatchSummary         = "02_match_summary.parquet"
	FilePlayerSeasonStats    = "03_player_season_stats.parquet"
	FilePlayerCareerStats    = "04_player_career_stats.parquet"
	FileBenchmarks           = "05_competition_benchmarks.parquet"
	FilePercentileRanks      = "06_player_percentile_ranks.parquet"
	FileRollingForm          = "07_player_rolling_form.parquet"
	FileScoutingProfiles     = "08_player_scouting_profiles.parquet"
	FileProgression          = "09_player_progression.parquet"
	FileConsistency          = "10_player_consistency.parquet"
	FileOpponentContext      = "11_player_opponent_context.parquet"
	FileOpponentSummary      = "11_player_opponent_context_summary.parquet"
	FileSubstitutionImpact   = "12_substitution_impact.parquet"
	FileMatchMomentum        = "13_match_momentum.parquet"
	FileMomentumSummary      = "match_momentum_summary.parquet"
	FileManagers             = "14_managers.parquet"
	FileManagerCareers       = "manager_career_stats.parquet"
	FileTacticalProfiles     = "15_team_tactical_profiles.parquet"
	FileAgeCurves            = "16_player_age_curves.parquet"
	FilePeakAgeByPosition    = "16_peak_age_by_position.parquet"
	FileMatchScoresCSVMirror = "00_match_scores_full.csv"
	FileScoutingCSVMirror    = "08_player_scouting_profiles.csv"
)

// Score source labels, in descending confidence order
const (
	SourceOriginal     = "original"
	SourceFromIncident = "derived_from_incidents"
	SourceZeroAssumed  = "zero_zero_assumed"
	SourceNotScraped   = "not_scraped"
)

// Opponent strength tiers
const (
	TierTop    = "top_third"
	TierMid    = "mid_third"
	TierBottom = "bottom_third"
)

// MatchScore is the resolved authoritative score for one spine match.
// Exactly one row exists per match in matches.csv.
type MatchScore struct {
	MatchID     string   `parquet:"match_id"`
	Season      string   `parquet:"season"`
	Competition string   `parquet:"competition_slug"`
	HomeScore   *int64   `parquet:"home_score,optional"`
	AwayScore   *int64   `parquet:"away_score,optional"`
	ScoreSource string   `parquet:"score_source"`
	TotalGoals  *int64   `parquet:"total_goals,optional"`
	Result      *string  `parquet:"result,optional"` // H, D, A
}

// TeamSeason aggregates raw team statistics per (team, season, competition)
type TeamSeason struct {
	TeamName    string `parquet:"team_name"`
	Season      string `parquet:"season"`
	Competition string `parquet:"competition_slug"`

	MatchesTotal int64 `parquet:"matches_total"`
	MatchesHome  int64 `parquet:"matches_home"`
	MatchesAway  int64 `parquet:"matches_away"`

	XGForTotal      float64  `parquet:"xg_for_total"`
	XGAgainstTotal  float64  `parquet:"xg_against_total"`
	XGForHome       float64  `parquet:"xg_for_home"`
	XGForAway       float64  `parquet:"xg_for_away"`
	XGForFirstHalf  float64  `parquet:"xg_for_first_half"`
	XGForSecondHalf float64  `parquet:"xg_for_second_half"`
	ShotsFirstHalf  float64  `parquet:"shots_first_half"`
	ShotsSecondHalf float64  `parquet:"shots_second_half"`
	ShotsTotal      float64  `parquet:"shots_total"`
	ShotsOnTarget   float64  `parquet:"shots_on_target"`
	BigChancesTotal float64  `parquet:"big_chances_total"`
	PassesTotal     float64  `parquet:"passes_total"`
	AccPassesTotal  float64  `parquet:"accurate_passes_total"`
	LongBalls       float64  `parquet:"long_balls"`
	Crosses         float64  `parquet:"crosses"`
	CornersTotal    float64  `parquet:"corners_total"`
	FoulsTotal      float64  `parquet:"fouls_total"`
	YellowCards     float64  `parquet:"yellow_cards_total"`
	RedCards        float64  `parquet:"red_cards_total"`
	TacklesTotal    float64  `parquet:"tackles_total"`
	TacklesWon      float64  `parquet:"tackles_won"`
	Interceptions   float64  `parquet:"interceptions_total"`
	Clearances      float64  `parquet:"clearances_total"`
	Recoveries      float64  `parquet:"recoveries_total"`
	KeeperSaves     float64  `parquet:"goalkeeper_saves_total"`
	PossessionAvg   *float64 `parquet:"possession_avg,optional"`
	AerialDuelsAvg  *float64 `parquet:"aerial_duels_avg,optional"`
	GroundDuelsAvg  *float64 `parquet:"ground_duels_avg,optional"`
	DuelsAvg        *float64 `parquet:"duels_avg,optional"`
	DribblesAvg     *float64 `parquet:"dribbles_avg,optional"`
	PassAccuracyAvg *float64 `parquet:"pass_accuracy_avg,optional"`

	GoalsFor     int64 `parquet:"goals_for"`
	GoalsAgainst int64 `parquet:"goals_against"`
	GoalDiff     int64 `parquet:"goal_diff"`
}

// MatchSummary is one denormalized row per spine match
type MatchSummary struct {
	MatchID     string `parquet:"match_id"`
	Season      string `parquet:"season"`
	Competition string `parquet:"competition_slug"`
	Round       string `parquet:"round,optional"`
	MatchDate   int64  `parquet:"match_date"`

	HomeTeamName string  `parquet:"home_team_name"`
	AwayTeamName string  `parquet:"away_team_name"`
	HomeScore    *int64  `parquet:"home_score,optional"`
	AwayScore    *int64  `parquet:"away_score,optional"`
	Result       *string `parquet:"result,optional"`
	ScoreSource  string  `parquet:"score_source"`

	HomeXG         *float64 `parquet:"home_xg,optional"`
	AwayXG         *float64 `parquet:"away_xg,optional"`
	XGSwing        *float64 `parquet:"xg_swing,optional"`
	HomeXGOverperf *float64 `parquet:"home_xg_overperformance,optional"`
	AwayXGOverperf *float64 `parquet:"away_xg_overperformance,optional"`
	HomePossession *float64 `parquet:"home_possession,optional"`
	AwayPossession *float64 `parquet:"away_possession,optional"`
	HomeShots      *float64 `parquet:"home_shots,optional"`
	AwayShots      *float64 `parquet:"away_shots,optional"`
	HomeShotsOT    *float64 `parquet:"home_shots_on_target,optional"`
	AwayShotsOT    *float64 `parquet:"away_shots_on_target,optional"`

	HomeManagerName *string `parquet:"home_manager_name,optional"`
	AwayManagerName *string `parquet:"away_manager_name,optional"`
}

// PlayerSeason aggregates appearances per (player, season, competition).
// Regenerated in full on every run, never incrementally mutated.
type PlayerSeason struct {
	PlayerID        int64  `parquet:"player_id"`
	Season          string `parquet:"season"`
	Competition     string `parquet:"competition_slug"`
	PlayerName      string `parquet:"player_name"`
	PlayerShortName string `parquet:"player_shortName,optional"`
	Position        string `parquet:"player_position"`

	Appearances       int64    `parquet:"appearances"`
	Starts            int64    `parquet:"starts"`
	SubAppearances    int64    `parquet:"sub_appearances"`
	TotalMinutes      float64  `parquet:"total_minutes"`
	AvgMinutesPerGame float64  `parquet:"avg_minutes_per_game"`
	SufficientMinutes bool     `parquet:"sufficient_minutes"`
	AvgRating         *float64 `parquet:"avg_rating,optional"`
	AgeAtSeasonStart  *float64 `parquet:"age_at_season_start,optional"`

	Goals             int64 `parquet:"goals"`
	Assists           int64 `parquet:"assists"`
	GoalContributions int64 `parquet:"goal_contributions"`
	YellowCards       int64 `parquet:"yellow_cards"`
	RedCards          int64 `parquet:"red_cards"`

	GoalsPer90          *float64 `parquet:"goals_per90,optional"`
	AssistsPer90        *float64 `parquet:"goalAssist_per90,optional"`
	XGPer90             *float64 `parquet:"expectedGoals_per90,optional"`
	XAPer90             *float64 `parquet:"expectedAssists_per90,optional"`
	KeyPassesPer90      *float64 `parquet:"keyPass_per90,optional"`
	ShotsPer90          *float64 `parquet:"totalShots_per90,optional"`
	ShotsOTPer90        *float64 `parquet:"onTargetScoringAttempt_per90,optional"`
	TouchesPer90        *float64 `parquet:"touches_per90,optional"`
	TacklesPer90        *float64 `parquet:"totalTackle_per90,optional"`
	InterceptionsPer90  *float64 `parquet:"interceptionWon_per90,optional"`
	ClearancesPer90     *float64 `parquet:"totalClearance_per90,optional"`
	FoulsPer90          *float64 `parquet:"fouls_per90,optional"`
	WasFouledPer90      *float64 `parquet:"wasFouled_per90,optional"`
	OffsidesPer90       *float64 `parquet:"totalOffside_per90,optional"`
	PossessionLostPer90 *float64 `parquet:"possessionLostCtrl_per90,optional"`
	DispossessedPer90   *float64 `parquet:"dispossessed_per90,optional"`
	SavesPer90          *float64 `parquet:"saves_per90,optional"`
	GoalsPreventedPer90 *float64 `parquet:"goalsPrevented_per90,optional"`
	ProgressionPer90    *float64 `parquet:"totalProgression_per90,optional"`
	DribblesWonPer90    *float64 `parquet:"wonContest_per90,optional"`

	PassAccuracy       *float64 `parquet:"pass_accuracy,optional"`
	DuelWinRate        *float64 `parquet:"duel_win_rate,optional"`
	AerialWinRate      *float64 `parquet:"aerial_win_rate,optional"`
	TackleSuccessRate  *float64 `parquet:"tackle_success_rate,optional"`
	DribbleSuccessRate *float64 `parquet:"dribble_success_rate,optional"`
	CrossAccuracy      *float64 `parquet:"cross_accuracy,optional"`
	LongBallAccuracy   *float64 `parquet:"long_ball_accuracy,optional"`

	PassValueAvg      *float64 `parquet:"pass_value_avg,optional"`
	ShotValueAvg      *float64 `parquet:"shot_value_avg,optional"`
	DefensiveValueAvg *float64 `parquet:"defensive_value_avg,optional"`
	DribbleValueAvg   *float64 `parquet:"dribble_value_avg,optional"`
	GKValueAvg        *float64 `parquet:"gk_value_avg,optional"`
}

// PlayerCareer aggregates season rows per player over their whole history
type PlayerCareer struct {
	PlayerID   int64  `parquet:"player_id"`
	PlayerName string `parquet:"player_name"`
	Position   string `parquet:"player_position"`

	Appearances       int64   `parquet:"appearances"`
	Starts            int64   `parquet:"starts"`
	SubAppearances    int64   `parquet:"sub_appearances"`
	TotalMinutes      float64 `parquet:"total_minutes"`
	AvgMinutesPerGame float64 `parquet:"avg_minutes_per_game"`
	SufficientMinutes bool    `parquet:"sufficient_minutes"`

	Goals             int64 `parquet:"goals"`
	Assists           int64 `parquet:"assists"`
	GoalContributions int64 `parquet:"goal_contributions"`
	YellowCards       int64 `parquet:"yellow_cards"`
	RedCards          int64 `parquet:"red_cards"`

	GoalsPer90         *float64 `parquet:"goals_per90,optional"`
	AssistsPer90       *float64 `parquet:"assists_per90,optional"`
	ContributionsPer90 *float64 `parquet:"goal_contributions_per90,optional"`

	FirstSeason      string   `parquet:"first_season"`
	LastSeason       string   `parquet:"last_season"`
	NSeasons         int64    `parquet:"n_seasons"`
	NCompetitions    int64    `parquet:"n_competitions"`
	SeasonsList      string   `parquet:"seasons_list"`
	CompetitionsList string   `parquet:"competitions_list"`
	PeakRatingSeason *string  `parquet:"peak_rating_season,optional"`
	PeakRating       *float64 `parquet:"peak_rating,optional"`
	PeakXGSeason     *string  `parquet:"peak_xg_per90_season,optional"`
}

// Benchmark is one distributional row per (position, competition, season,
// stat). Competition "all_competitions" is the synthetic global pool.
type Benchmark struct {
	Position    string   `parquet:"player_position"`
	Competition string   `parquet:"competition_slug"`
	Season      string   `parquet:"season"`
	StatName    string   `parquet:"stat_name"`
	NPlayers    int64    `parquet:"n_players"`
	Mean        float64  `parquet:"mean"`
	Median      float64  `parquet:"median"`
	P25         float64  `parquet:"p25"`
	P75         float64  `parquet:"p75"`
	P90         float64  `parquet:"p90"`
	Std         *float64 `parquet:"std,optional"`
}

// PercentileRank is one player's rank for one stat in their peer group
type PercentileRank struct {
	PlayerID       int64    `parquet:"player_id"`
	PlayerName     string   `parquet:"player_name"`
	Position       string   `parquet:"player_position"`
	Season         string   `parquet:"season"`
	Competition    string   `parquet:"competition_slug"`
	StatName       string   `parquet:"stat_name"`
	StatValue      float64  `parquet:"stat_value"`
	PctInComp      float64  `parquet:"pct_in_competition"`
	NPlayersInComp int64    `parquet:"n_players_in_competition"`
	PctGlobal      *float64 `parquet:"pct_global,optional"`
	NPlayersGlobal *int64   `parquet:"n_players_global,optional"`
}

// RollingForm is the current trailing-window snapshot per (player, window)
type RollingForm struct {
	PlayerID       int64    `parquet:"player_id"`
	PlayerName     string   `parquet:"player_name"`
	Position       string   `parquet:"player_position"`
	Window         int64    `parquet:"window"`
	NAvailable     int64    `parquet:"n_available"`
	AsOfMatchID    string   `parquet:"as_of_match_id"`
	AsOfDate       int64    `parquet:"as_of_date"`
	AvgRating      *float64 `parquet:"avg_rating,optional"`
	Goals          float64  `parquet:"goals"`
	Assists        float64  `parquet:"assists"`
	XGTotal        *float64 `parquet:"xg_total,optional"`
	XATotal        *float64 `parquet:"xa_total,optional"`
	TotalMinutes   float64  `parquet:"total_minutes"`
	AvgKeyPasses   *float64 `parquet:"avg_key_passes,optional"`
	AvgShots       *float64 `parquet:"avg_shots,optional"`
	AvgTackles     *float64 `parquet:"avg_tackles,optional"`
	AvgIntercepts  *float64 `parquet:"avg_interceptions,optional"`
	AvgDribblesWon *float64 `parquet:"avg_dribbles_won,optional"`
	AvgTouches     *float64 `parquet:"avg_touches,optional"`
}

// ScoutingProfile denormalizes identity, career, latest season, form, and
// percentile highlights into one row per tracked player
type ScoutingProfile struct {
	PlayerID        int64    `parquet:"player_id"`
	PlayerName      string   `parquet:"player_name"`
	PlayerSlug      string   `parquet:"player_slug"`
	PlayerShortName string   `parquet:"player_shortName,optional"`
	NMatches        int64    `parquet:"n_matches"`
	AgeToday        *float64 `parquet:"age_today,optional"`
	Active          bool     `parquet:"active"`

	Position       *string  `parquet:"player_position,optional"`
	CareerMinutes  *float64 `parquet:"career_minutes,optional"`
	CareerGoals    *int64   `parquet:"career_goals,optional"`
	CareerAssists  *int64   `parquet:"career_assists,optional"`
	FirstSeason    *string  `parquet:"first_season,optional"`
	LastSeason     *string  `parquet:"last_season,optional"`

	LatestSeason      *string  `parquet:"latest_season,optional"`
	LatestCompetition *string  `parquet:"latest_competition,optional"`
	LatestRating      *float64 `parquet:"latest_rating,optional"`
	LatestMinutes     *float64 `parquet:"latest_minutes,optional"`
	LatestAppearances *int64   `parquet:"latest_appearances,optional"`
	SufficientLatest  bool     `parquet:"sufficient_minutes_latest_season"`

	FormAvgRating *float64 `parquet:"form_avg_rating,optional"`
	FormGoals     *float64 `parquet:"form_goals,optional"`
	FormXGTotal   *float64 `parquet:"form_xg_total,optional"`
	FormMinutes   *float64 `parquet:"form_total_minutes,optional"`

	TopStat1Name  *string  `parquet:"top_pct_stat_1_name,optional"`
	TopStat1Value *float64 `parquet:"top_pct_stat_1_value,optional"`
	TopStat1Pct   *float64 `parquet:"top_pct_stat_1_pct,optional"`
	TopStat2Name  *string  `parquet:"top_pct_stat_2_name,optional"`
	TopStat2Value *float64 `parquet:"top_pct_stat_2_value,optional"`
	TopStat2Pct   *float64 `parquet:"top_pct_stat_2_pct,optional"`
	TopStat3Name  *string  `parquet:"top_pct_stat_3_name,optional"`
	TopStat3Value *float64 `parquet:"top_pct_stat_3_value,optional"`
	TopStat3Pct   *float64 `parquet:"top_pct_stat_3_pct,optional"`
}

// Progression is one consecutive season pair per player
type Progression struct {
	PlayerID        int64    `parquet:"player_id"`
	PlayerName      string   `parquet:"player_name"`
	Position        string   `parquet:"player_position"`
	SeasonFrom      string   `parquet:"season_from"`
	SeasonTo        string   `parquet:"season_to"`
	CompetitionFrom string   `parquet:"competition_from"`
	CompetitionTo   string   `parquet:"competition_to"`
	SameCompetition bool     `parquet:"same_competition"`
	AgeAtSeasonTo   *float64 `parquet:"age_at_season_to,optional"`

	RatingDelta       *float64 `parquet:"avg_rating_delta,optional"`
	XGPer90Delta      *float64 `parquet:"expectedGoals_per90_delta,optional"`
	XAPer90Delta      *float64 `parquet:"expectedAssists_per90_delta,optional"`
	GoalsPer90Delta   *float64 `parquet:"goals_per90_delta,optional"`
	AssistsPer90Delta *float64 `parquet:"goalAssist_per90_delta,optional"`
	KeyPassPer90Delta *float64 `parquet:"keyPass_per90_delta,optional"`
	TacklesPer90Delta *float64 `parquet:"totalTackle_per90_delta,optional"`
	DuelWinRateDelta  *float64 `parquet:"duel_win_rate_delta,optional"`
	PassAccuracyDelta *float64 `parquet:"pass_accuracy_delta,optional"`
	MinutesDelta      int64    `parquet:"minutes_delta"`

	Direction *string `parquet:"progression_direction,optional"` // improving, declining, stable
}

// Consistency holds per-appearance variability statistics for one
// (player, season, competition)
type Consistency struct {
	PlayerID    int64  `parquet:"player_id"`
	PlayerName  string `parquet:"player_name"`
	Position    string `parquet:"player_position"`
	Season      string `parquet:"season"`
	Competition string `parquet:"competition_slug"`

	NAppearances int64 `parquet:"n_appearances"`

	RatingMean *float64 `parquet:"rating_mean,optional"`
	RatingStd  *float64 `parquet:"rating_std,optional"`
	RatingCV   *float64 `parquet:"rating_cv,optional"`
	RatingMin  *float64 `parquet:"rating_min,optional"`
	RatingMax  *float64 `parquet:"rating_max,optional"`

	XGMean *float64 `parquet:"expectedGoals_mean,optional"`
	XGStd  *float64 `parquet:"expectedGoals_std,optional"`
	XGCV   *float64 `parquet:"expectedGoals_cv,optional"`

	XAMean *float64 `parquet:"expectedAssists_mean,optional"`
	XAStd  *float64 `parquet:"expectedAssists_std,optional"`
	XACV   *float64 `parquet:"expectedAssists_cv,optional"`

	KeyPassMean *float64 `parquet:"keyPass_mean,optional"`
	KeyPassStd  *float64 `parquet:"keyPass_std,optional"`
	KeyPassCV   *float64 `parquet:"keyPass_cv,optional"`

	TouchesMean *float64 `parquet:"touches_mean,optional"`
	TouchesStd  *float64 `parquet:"touches_std,optional"`
	TouchesCV   *float64 `parquet:"touches_cv,optional"`

	Tier string `parquet:"consistency_tier"`
}

// OpponentContext is one player's aggregate versus one opponent tier
type OpponentContext struct {
	PlayerID      int64    `parquet:"player_id"`
	PlayerName    string   `parquet:"player_name"`
	Position      string   `parquet:"player_position"`
	Season        string   `parquet:"season"`
	Competition   string   `parquet:"competition_slug"`
	OpponentTier  string   `parquet:"opponent_tier"`
	NAppearances  int64    `parquet:"n_appearances"`
	AvgRating     *float64 `parquet:"avg_rating,optional"`
	Goals         float64  `parquet:"goals"`
	XGTotal       *float64 `parquet:"xg_total,optional"`
	XGPer90       *float64 `parquet:"xg_per90,optional"`
	KeyPassPer90  *float64 `parquet:"key_passes_per90,optional"`
	TacklesPer90  *float64 `parquet:"tackles_per90,optional"`
}

// OpponentSummary pivots rating by tier into a big-game delta per player
type OpponentSummary struct {
	PlayerID       int64    `parquet:"player_id"`
	PlayerName     string   `parquet:"player_name"`
	Position       string   `parquet:"player_position"`
	Season         string   `parquet:"season"`
	Competition    string   `parquet:"competition_slug"`
	RatingVsTop    *float64 `parquet:"rating_vs_top,optional"`
	RatingVsBottom *float64 `parquet:"rating_vs_bottom,optional"`
	BigGameDelta   *float64 `parquet:"big_game_rating_delta,optional"`
}

// SubstitutionImpact is one substitute appearance with recorded minutes.
// The source has no substitution incident type, so the replaced player is
// unavailable and sub_minute is estimated as 90 - minutes played.
type SubstitutionImpact struct {
	MatchID      string `parquet:"match_id"`
	Season       string `parquet:"season"`
	Competition  string `parquet:"competition_slug"`
	PlayerInID   int64  `parquet:"player_in_id"`
	PlayerInName string `parquet:"player_in_name"`
	PlayerInPos  string `parquet:"player_in_position"`
	PlayerOutID  *int64 `parquet:"player_out_id,optional"`

	SubMinute        float64 `parquet:"sub_minute"`
	MinutesAfterSub  float64 `parquet:"minutes_after_sub"`
	SubMinuteEstimated bool  `parquet:"sub_minute_estimated"`

	Rating    *float64 `parquet:"player_in_rating,optional"`
	Goals     float64  `parquet:"player_in_goals"`
	Assists   float64  `parquet:"player_in_assists"`
	XG        *float64 `parquet:"player_in_xg,optional"`
	KeyPasses *float64 `parquet:"player_in_key_passes,optional"`
}

// MomentumPoint is one minute of one match's momentum graph
type MomentumPoint struct {
	MatchID  string `parquet:"match_id"`
	Minute   int64  `parquet:"minute"`
	Momentum int64  `parquet:"momentum_value"`
	Period   string `parquet:"period"` // 1ST, 2ND
}

// MomentumSummary is one match's momentum digest
type MomentumSummary struct {
	MatchID          string   `parquet:"match_id"`
	AvgMomentum      float64  `parquet:"avg_home_momentum"`
	HomeDominatedMin int64    `parquet:"home_dominated_minutes"`
	AwayDominatedMin int64    `parquet:"away_dominated_minutes"`
	MomentumSwings   int64    `parquet:"momentum_swings"`
	HalftimeMomentum *int64   `parquet:"halftime_momentum,optional"`
	FinalMomentum    *int64   `parquet:"final_momentum,optional"`
}

// ManagerMatch is one manager's side of one match
type ManagerMatch struct {
	MatchID     string `parquet:"match_id"`
	Season      string `parquet:"season"`
	Competition string `parquet:"competition_slug"`
	ManagerID   *int64 `parquet:"manager_id,optional"`
	ManagerName string `parquet:"manager_name"`
	ManagerSlug string `parquet:"manager_slug,optional"`
	Side        string `parquet:"side"`
	TeamName    string `parquet:"team_name"`
	ScoreOwn    *int64 `parquet:"score_own,optional"`
	ScoreOpp    *int64 `parquet:"score_opp,optional"`
	Result      string `parquet:"result"` // W, D, L
}

// ManagerCareer aggregates manager matches lifetime
type ManagerCareer struct {
	ManagerID      int64    `parquet:"manager_id"`
	ManagerName    string   `parquet:"manager_name"`
	TotalMatches   int64    `parquet:"total_matches"`
	Wins           int64    `parquet:"wins"`
	Draws          int64    `parquet:"draws"`
	Losses         int64    `parquet:"losses"`
	WinRate        *float64 `parquet:"win_rate,optional"`
	PointsPerMatch float64  `parquet:"points_per_match"`
	Seasons        string   `parquet:"seasons"`
	Competitions   string   `parquet:"competitions"`
	Teams          string   `parquet:"teams"`
}

// TacticalProfile holds style indices per (team, season, competition) with
// within-group percentile ranks in [0,1]
type TacticalProfile struct {
	TeamName    string `parquet:"team_name"`
	Season      string `parquet:"season"`
	Competition string `parquet:"competition_slug"`

	PossessionIndex     *float64 `parquet:"possession_index,optional"`
	DirectnessIndex     *float64 `parquet:"directness_index,optional"`
	PressingIndex       *float64 `parquet:"pressing_index,optional"`
	AerialIndex         *float64 `parquet:"aerial_index,optional"`
	CrossingIndex       *float64 `parquet:"crossing_index,optional"`
	ChanceCreationIndex *float64 `parquet:"chance_creation_index,optional"`
	DefensiveSolidity   *float64 `parquet:"defensive_solidity,optional"`
	HomeAwayConsistency *float64 `parquet:"home_away_consistency,optional"`
	SecondHalfIntensity *float64 `parquet:"second_half_intensity,optional"`

	PossessionPct     *float64 `parquet:"possession_index_pct,optional"`
	DirectnessPct     *float64 `parquet:"directness_index_pct,optional"`
	PressingPct       *float64 `parquet:"pressing_index_pct,optional"`
	AerialPct         *float64 `parquet:"aerial_index_pct,optional"`
	CrossingPct       *float64 `parquet:"crossing_index_pct,optional"`
	ChanceCreationPct *float64 `parquet:"chance_creation_index_pct,optional"`
	DefSolidityPct    *float64 `parquet:"defensive_solidity_pct,optional"`
	HomeAwayPct       *float64 `parquet:"home_away_consistency_pct,optional"`
	SecondHalfPct     *float64 `parquet:"second_half_intensity_pct,optional"`
}

// AgeCurve is one (position, age) bin of medians over qualifying seasons
type AgeCurve struct {
	Position       string   `parquet:"player_position"`
	AgeBin         int64    `parquet:"age_bin"`
	NPlayerSeasons int64    `parquet:"n_player_seasons"`
	Reliable       bool     `parquet:"reliable"`
	MedianRating   *float64 `parquet:"median_avg_rating,optional"`
	MedianXGPer90  *float64 `parquet:"median_expectedGoals_per90,optional"`
	MedianXAPer90  *float64 `parquet:"median_expectedAssists_per90,optional"`
	MedianGoals90  *float64 `parquet:"median_goals_per90,optional"`
	MedianKeyPass  *float64 `parquet:"median_keyPass_per90,optional"`
	MedianTackles  *float64 `parquet:"median_totalTackle_per90,optional"`
	MedianPassAcc  *float64 `parquet:"median_pass_accuracy,optional"`
	MedianDuelWin  *float64 `parquet:"median_duel_win_rate,optional"`
}

// PeakAge is the strongest age bin per position among reliable bins
type PeakAge struct {
	Position      string `parquet:"player_position"`
	PeakRatingAge *int64 `parquet:"peak_rating_age,optional"`
	PeakXGAge     *int64 `parquet:"peak_xg_age,optional"`
}
