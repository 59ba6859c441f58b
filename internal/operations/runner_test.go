package operations

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace/noop"
)

func newTestRunner(t *testing.T, registry *Registry) *Runner {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	tracer := noop.NewTracerProvider().Tracer("test")
	r := NewRunner(registry, newTestRunLog(t), logger, tracer)
	r.Env = "test"
	return r
}

func recordingStep(id string, order *[]string, err error) Step {
	return NewStep(id, id, nil, nil, func(context.Context) error {
		*order = append(*order, id)
		return err
	})
}

func TestRunnerRunsStepsInOrder(t *testing.T) {
	var order []string
	registry := NewRegistry()
	for _, id := range []string{"a", "b", "c"} {
		require.NoError(t, registry.Register(recordingStep(id, &order, nil)))
	}
	runner := newTestRunner(t, registry)

	result, err := runner.Run(context.Background(), "", "")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, order)
	assert.Equal(t, RunStatusOK, result.Status)
	assert.Empty(t, result.FailedStep)

	runID, ok, err := runner.runLog.LatestSuccess()
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, result.RunID, runID)
}

func TestRunnerContinuesAfterFailureByDefault(t *testing.T) {
	var order []string
	registry := NewRegistry()
	require.NoError(t, registry.Register(recordingStep("a", &order, nil)))
	require.NoError(t, registry.Register(recordingStep("b", &order, fmt.Errorf("boom"))))
	require.NoError(t, registry.Register(recordingStep("c", &order, nil)))
	runner := newTestRunner(t, registry)

	result, err := runner.Run(context.Background(), "", "")
	require.Error(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, order)
	assert.Equal(t, RunStatusFail, result.Status)
	assert.Equal(t, "b", result.FailedStep)
	assert.ErrorContains(t, err, "step b failed")

	// a failing run never refreshes the latest-success marker
	_, ok, err := runner.runLog.LatestSuccess()
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRunnerFailFastAborts(t *testing.T) {
	var order []string
	registry := NewRegistry()
	require.NoError(t, registry.Register(recordingStep("a", &order, fmt.Errorf("boom"))))
	require.NoError(t, registry.Register(recordingStep("b", &order, nil)))
	runner := newTestRunner(t, registry)
	runner.FailFast = true

	result, err := runner.Run(context.Background(), "", "")
	require.Error(t, err)
	assert.Equal(t, []string{"a"}, order)
	assert.Equal(t, "a", result.FailedStep)
}

func TestRunnerReportsFirstFailure(t *testing.T) {
	var order []string
	registry := NewRegistry()
	require.NoError(t, registry.Register(recordingStep("a", &order, fmt.Errorf("first"))))
	require.NoError(t, registry.Register(recordingStep("b", &order, fmt.Errorf("second"))))
	runner := newTestRunner(t, registry)

	result, err := runner.Run(context.Background(), "", "")
	require.Error(t, err)
	assert.Equal(t, "a", result.FailedStep)
	assert.ErrorContains(t, err, "first")
}

func TestRunnerRunsRequestedRangeOnly(t *testing.T) {
	var order []string
	registry := NewRegistry()
	for _, id := range []string{"a", "b", "c", "d"} {
		require.NoError(t, registry.Register(recordingStep(id, &order, nil)))
	}
	runner := newTestRunner(t, registry)

	result, err := runner.Run(context.Background(), "b", "c")
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "c"}, order)
	assert.Equal(t, []string{"b", "c"}, result.StepsRun)
}

func TestRunnerStepTimeout(t *testing.T) {
	registry := NewRegistry()
	require.NoError(t, registry.Register(NewStep("slow", "slow", nil, nil, func(ctx context.Context) error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(5 * time.Second):
			return nil
		}
	})))
	runner := newTestRunner(t, registry)
	runner.StepTimeout = 20 * time.Millisecond

	result, err := runner.Run(context.Background(), "", "")
	require.Error(t, err)
	assert.Equal(t, "slow", result.FailedStep)
	assert.ErrorIs(t, result.Err, context.DeadlineExceeded)
}

func TestRunnerRecordsRunLogRow(t *testing.T) {
	var order []string
	registry := NewRegistry()
	require.NoError(t, registry.Register(recordingStep("a", &order, nil)))
	runner := newTestRunner(t, registry)

	result, err := runner.Run(context.Background(), "", "")
	require.NoError(t, err)

	records, err := runner.runLog.Load()
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, result.RunID, records[0].RunID)
	assert.Equal(t, "a", records[0].StepsRun)
	assert.Equal(t, "test", records[0].Env)
	assert.Equal(t, RunStatusOK, records[0].Status)
}
