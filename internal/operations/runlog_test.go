package operations

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRunLog(t *testing.T) *RunLog {
	t.Helper()
	dir := t.TempDir()
	return NewRunLog(filepath.Join(dir, "pipeline_runs.csv"), filepath.Join(dir, "latest_successful_run.json"))
}

func TestRunLogEmptyLoad(t *testing.T) {
	l := newTestRunLog(t)
	records, err := l.Load()
	require.NoError(t, err)
	assert.Empty(t, records)

	_, ok, err := l.LatestSuccess()
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRunLogBeginAndComplete(t *testing.T) {
	l := newTestRunLog(t)

	require.NoError(t, l.Begin(RunRecord{
		RunID:      "run-1",
		StartedUTC: time.Now().UTC(),
		StepsRun:   "scores,team",
		Env:        "test",
	}))

	records, err := l.Load()
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, RunStatusRunning, records[0].Status)
	assert.Nil(t, records[0].EndedUTC)

	require.NoError(t, l.Complete("run-1", RunStatusOK, ""))

	records, err = l.Load()
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, RunStatusOK, records[0].Status)
	require.NotNil(t, records[0].EndedUTC)

	runID, ok, err := l.LatestSuccess()
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "run-1", runID)
}

func TestRunLogFailureKeepsLatestSuccess(t *testing.T) {
	l := newTestRunLog(t)

	require.NoError(t, l.Begin(RunRecord{RunID: "run-1", StartedUTC: time.Now().UTC(), StepsRun: "scores"}))
	require.NoError(t, l.Complete("run-1", RunStatusOK, ""))

	require.NoError(t, l.Begin(RunRecord{RunID: "run-2", StartedUTC: time.Now().UTC(), StepsRun: "scores"}))
	require.NoError(t, l.Complete("run-2", RunStatusFail, "scores"))

	// the marker still names the last fully successful run
	runID, ok, err := l.LatestSuccess()
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "run-1", runID)

	records, err := l.Load()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, RunStatusFail, records[1].Status)
	assert.Equal(t, "scores", records[1].FailedStep)
}

func TestRunLogClosesStaleRunningRows(t *testing.T) {
	l := newTestRunLog(t)

	// simulate an interrupted process: Begin with no Complete
	require.NoError(t, l.Begin(RunRecord{RunID: "stale", StartedUTC: time.Now().UTC(), StepsRun: "scores"}))

	require.NoError(t, l.Begin(RunRecord{RunID: "fresh", StartedUTC: time.Now().UTC(), StepsRun: "scores"}))

	records, err := l.Load()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, RunStatusFail, records[0].Status)
	require.NotNil(t, records[0].EndedUTC)
	assert.Equal(t, RunStatusRunning, records[1].Status)
}

func TestRunLogCompleteUnknownRun(t *testing.T) {
	l := newTestRunLog(t)
	require.NoError(t, l.Begin(RunRecord{RunID: "run-1", StartedUTC: time.Now().UTC()}))
	assert.Error(t, l.Complete("nope", RunStatusOK, ""))
}

func TestRunLogRoundTripFields(t *testing.T) {
	l := newTestRunLog(t)
	started := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, l.Begin(RunRecord{
		RunID: "run-1", StartedUTC: started, StepsRun: "scores,team,summary", Env: "prod",
	}))
	require.NoError(t, l.Complete("run-1", RunStatusOK, ""))

	records, err := l.Load()
	require.NoError(t, err)
	require.Len(t, records, 1)
	rec := records[0]
	assert.Equal(t, "run-1", rec.RunID)
	assert.True(t, rec.StartedUTC.Equal(started))
	assert.Equal(t, "scores,team,summary", rec.StepsRun)
	assert.Equal(t, "prod", rec.Env)

	data, err := os.ReadFile(l.csvPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "run_id,started_utc,ended_utc,steps_run,status,failed_step,env")
}
