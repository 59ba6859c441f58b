// Package dataset is the artifact storage layer: explicit row types for
// every input and output table, parquet persistence, and CSV mirrors for
// the human-auditable indices. Every table the pipeline touches is declared
// here — there is no schema-by-convention anywhere else.
package dataset

// MatchIndexRow is one row of matches.csv, the authoritative spine of all
// matches ever indexed. Matches are never removed from the spine.
type MatchIndexRow struct {
	MatchID      string
	Season       string
	Competition  string
	Round        string
	MatchDate    int64 // unix seconds, 0 when unknown
	HomeTeamName string
	AwayTeamName string
}

// PlayerIndexRow is one row of players.csv, the tracked-player index
type PlayerIndexRow struct {
	PlayerID        int64
	PlayerName      string
	PlayerSlug      string
	PlayerShortName string
	NMatches        int64
}

// Appearance is one player's stat line in one match, produced by the
// extraction collaborator. Stat fields are pointers: nil means the source
// never measured the stat for this appearance.
type Appearance struct {
	MatchID         string `parquet:"match_id"`
	Season          string `parquet:"season"`
	Competition     string `parquet:"competition_slug"`
	PlayerID        int64  `parquet:"player_id"`
	PlayerName      string `parquet:"player_name"`
	PlayerShortName string `parquet:"player_shortName,optional"`
	Position        string `parquet:"player_position"`
	DateOfBirth     *int64 `parquet:"player_dateOfBirthTimestamp,optional"`
	Side            string `parquet:"side"` // "home" or "away"
	Substitute      bool   `parquet:"substitute"`
	MatchDate       int64  `parquet:"match_date"` // unix seconds

	MinutesPlayed   *float64 `parquet:"stat_minutesPlayed,optional"`
	Rating          *float64 `parquet:"stat_rating,optional"`
	Goals           *float64 `parquet:"stat_goals,optional"`
	Assists         *float64 `parquet:"stat_goalAssist,optional"`
	ExpectedGoals   *float64 `parquet:"stat_expectedGoals,optional"`
	ExpectedAssists *float64 `parquet:"stat_expectedAssists,optional"`
	KeyPasses       *float64 `parquet:"stat_keyPass,optional"`
	Shots           *float64 `parquet:"stat_totalShots,optional"`
	ShotsOnTarget   *float64 `parquet:"stat_onTargetScoringAttempt,optional"`
	Touches         *float64 `parquet:"stat_touches,optional"`
	TotalPasses     *float64 `parquet:"stat_totalPass,optional"`
	AccuratePasses  *float64 `parquet:"stat_accuratePass,optional"`
	TotalLongBalls  *float64 `parquet:"stat_totalLongBalls,optional"`
	AccLongBalls    *float64 `parquet:"stat_accurateLongBalls,optional"`
	TotalCrosses    *float64 `parquet:"stat_totalCross,optional"`
	AccCrosses      *float64 `parquet:"stat_accurateCross,optional"`
	DuelsWon        *float64 `parquet:"stat_duelWon,optional"`
	DuelsLost       *float64 `parquet:"stat_duelLost,optional"`
	AerialsWon      *float64 `parquet:"stat_aerialWon,optional"`
	AerialsLost     *float64 `parquet:"stat_aerialLost,optional"`
	Tackles         *float64 `parquet:"stat_totalTackle,optional"`
	TacklesWon      *float64 `parquet:"stat_wonTackle,optional"`
	Dribbles        *float64 `parquet:"stat_totalContest,optional"`
	DribblesWon     *float64 `parquet:"stat_wonContest,optional"`
	Interceptions   *float64 `parquet:"stat_interceptionWon,optional"`
	Clearances      *float64 `parquet:"stat_totalClearance,optional"`
	Fouls           *float64 `parquet:"stat_fouls,optional"`
	WasFouled       *float64 `parquet:"stat_wasFouled,optional"`
	Offsides        *float64 `parquet:"stat_totalOffside,optional"`
	PossessionLost  *float64 `parquet:"stat_possessionLostCtrl,optional"`
	Dispossessed    *float64 `parquet:"stat_dispossessed,optional"`
	Saves           *float64 `parquet:"stat_saves,optional"`
	GoalsPrevented  *float64 `parquet:"stat_goalsPrevented,optional"`
	Progression     *float64 `parquet:"stat_totalProgression,optional"`
	PassValue       *float64 `parquet:"stat_passValueNormalized,optional"`
	DefensiveValue  *float64 `parquet:"stat_defensiveValueNormalized,optional"`
	ShotValue       *float64 `parquet:"stat_shotValueNormalized,optional"`
	DribbleValue    *float64 `parquet:"stat_dribbleValueNormalized,optional"`
	GoalkeeperValue *float64 `parquet:"stat_goalkeeperValueNormalized,optional"`
}

// Minutes returns the recorded minutes played, 0 when unmeasured
func (a *Appearance) Minutes() float64 {
	if a.MinutesPlayed == nil {
		return 0
	}
	return *a.MinutesPlayed
}

// Incident is one typed in-match event involving a player. HomeScore and
// AwayScore carry the running score at the time of the incident when the
// source recorded it.
type Incident struct {
	MatchID       string   `parquet:"match_id"`
	Season        string   `parquet:"season"`
	Competition   string   `parquet:"competition_slug"`
	PlayerID      *int64   `parquet:"player_id,optional"`
	PlayerName    string   `parquet:"player_name,optional"`
	IncidentType  string   `parquet:"incidentType"` // goal, card, varDecision, inGamePenalty
	IncidentClass string   `parquet:"incidentClass,optional"`
	Minute        *float64 `parquet:"time,optional"`
	HomeScore     *float64 `parquet:"homeScore,optional"`
	AwayScore     *float64 `parquet:"awayScore,optional"`
}

// TrustedScore is one row of the pre-existing trusted score table
type TrustedScore struct {
	MatchID   string `parquet:"match_id"`
	HomeScore int64  `parquet:"home_score"`
	AwayScore int64  `parquet:"away_score"`
}
