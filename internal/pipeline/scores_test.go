package pipeline

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"matchpulse/internal/config"
	"matchpulse/internal/dataset"
)

func newTestEnv(t *testing.T) *Env {
	t.Helper()
	dir := t.TempDir()
	paths := &config.Paths{
		DataDir:      dir,
		IndexDir:     filepath.Join(dir, "index"),
		DerivedDir:   filepath.Join(dir, "derived"),
		ProcessedDir: filepath.Join(dir, "processed"),
		RawDir:       filepath.Join(dir, "raw"),
		LogsDir:      filepath.Join(dir, "logs"),
	}
	for _, d := range []string{paths.IndexDir, paths.DerivedDir, paths.ProcessedDir, paths.RawDir} {
		require.NoError(t, os.MkdirAll(d, 0o755))
	}
	cfg := &config.Config{}
	cfg.Pipeline.MinMinutesSeason = 450
	cfg.Pipeline.MinMinutesCareer = 900
	cfg.Pipeline.MinAppearancesCV = 5
	cfg.Pipeline.RawLoadConcurrency = 2
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewEnv(cfg, paths, dataset.NewStore(paths), logger)
}

func writeMatchesCSV(t *testing.T, env *Env, ids ...string) {
	t.Helper()
	content := "match_id,season,competition_slug,round,match_date,home_team_name,away_team_name\n"
	for _, id := range ids {
		content += id + ",2023/2024,england-premier-league,5,1700000000,Home FC,Away FC\n"
	}
	require.NoError(t, os.WriteFile(env.Paths.MatchesCSV(), []byte(content), 0o644))
}

func TestBuildMatchScoresCascade(t *testing.T) {
	env := newTestEnv(t)
	writeMatchesCSV(t, env, "m1", "m2", "m3", "m4", "m5")

	require.NoError(t, dataset.WriteTable(env.Paths.Derived(dataset.FileTrustedScores),
		[]dataset.TrustedScore{{MatchID: "m1", HomeScore: 2, AwayScore: 1}}))

	incidents := []dataset.Incident{
		{MatchID: "m2", IncidentType: "goal", HomeScore: fptr(1), AwayScore: fptr(0)},
		{MatchID: "m2", IncidentType: "goal", HomeScore: fptr(1), AwayScore: fptr(1)},
		{MatchID: "m3", IncidentType: "varDecision", HomeScore: fptr(0), AwayScore: fptr(0)},
	}
	require.NoError(t, dataset.WriteTable(env.Paths.Derived(dataset.FileIncidents), incidents))

	apps := []appearanceKey{{MatchID: "m1"}, {MatchID: "m2"}, {MatchID: "m3"}, {MatchID: "m4"}}
	require.NoError(t, dataset.WriteTable(env.Paths.Derived(dataset.FileAppearances), apps))

	require.NoError(t, env.BuildMatchScores(context.Background()))

	rows, err := dataset.ReadTable[dataset.MatchScore](env.Paths.Processed(dataset.FileMatchScores))
	require.NoError(t, err)
	require.Len(t, rows, 5)

	byID := map[string]dataset.MatchScore{}
	for _, r := range rows {
		byID[r.MatchID] = r
	}

	// trusted table wins over everything
	m1 := byID["m1"]
	assert.Equal(t, dataset.SourceOriginal, m1.ScoreSource)
	require.NotNil(t, m1.HomeScore)
	assert.Equal(t, int64(2), *m1.HomeScore)
	require.NotNil(t, m1.Result)
	assert.Equal(t, "H", *m1.Result)

	// incident-derived score is the max running score on any incident
	m2 := byID["m2"]
	assert.Equal(t, dataset.SourceFromIncident, m2.ScoreSource)
	require.NotNil(t, m2.HomeScore)
	require.NotNil(t, m2.AwayScore)
	assert.Equal(t, int64(1), *m2.HomeScore)
	assert.Equal(t, int64(1), *m2.AwayScore)
	require.NotNil(t, m2.Result)
	assert.Equal(t, "D", *m2.Result)

	// an incident-derived 0-0 is indistinguishable from the assumption case
	m3 := byID["m3"]
	assert.Equal(t, dataset.SourceZeroAssumed, m3.ScoreSource)
	require.NotNil(t, m3.TotalGoals)
	assert.Equal(t, int64(0), *m3.TotalGoals)

	// appearance data with no goals at all reads as 0-0
	m4 := byID["m4"]
	assert.Equal(t, dataset.SourceZeroAssumed, m4.ScoreSource)
	require.NotNil(t, m4.Result)
	assert.Equal(t, "D", *m4.Result)

	// never scraped: null scores, but the spine row still exists
	m5 := byID["m5"]
	assert.Equal(t, dataset.SourceNotScraped, m5.ScoreSource)
	assert.Nil(t, m5.HomeScore)
	assert.Nil(t, m5.Result)

	// deterministic output order
	for i := 1; i < len(rows); i++ {
		assert.Less(t, rows[i-1].MatchID, rows[i].MatchID)
	}

	_, err = os.Stat(env.Paths.Processed(dataset.FileMatchScoresCSVMirror))
	assert.NoError(t, err)
}

func TestBuildMatchScoresWithoutTrustedTable(t *testing.T) {
	env := newTestEnv(t)
	writeMatchesCSV(t, env, "m1")

	require.NoError(t, dataset.WriteTable(env.Paths.Derived(dataset.FileIncidents), []dataset.Incident{}))
	require.NoError(t, dataset.WriteTable(env.Paths.Derived(dataset.FileAppearances),
		[]appearanceKey{{MatchID: "m1"}}))

	require.NoError(t, env.BuildMatchScores(context.Background()))

	rows, err := dataset.ReadTable[dataset.MatchScore](env.Paths.Processed(dataset.FileMatchScores))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, dataset.SourceZeroAssumed, rows[0].ScoreSource)
}
