package operations

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Runner executes a step range sequentially, recording the run in the run
// log and a span per step.
type Runner struct {
	registry *Registry
	runLog   *RunLog
	logger   *slog.Logger
	tracer   trace.Tracer

	// StepTimeout bounds each step; zero means unbounded.
	StepTimeout time.Duration
	// FailFast aborts on the first failing step. Otherwise later steps
	// still run and the first failure is reported at the end.
	FailFast bool
	// Env is recorded verbatim in the run log
	Env string
}

// NewRunner wires a runner
func NewRunner(registry *Registry, runLog *RunLog, logger *slog.Logger, tracer trace.Tracer) *Runner {
	return &Runner{registry: registry, runLog: runLog, logger: logger, tracer: tracer}
}

// RunResult summarizes one invocation
type RunResult struct {
	RunID      string
	Status     string
	StepsRun   []string
	FailedStep string
	Err        error
}

// Run executes the inclusive step range. The run log gets a running row up
// front and an upserted final row no matter how the run ends; only a fully
// successful run refreshes the latest-success marker.
func (r *Runner) Run(ctx context.Context, fromStep, toStep string) (RunResult, error) {
	steps, err := r.registry.Range(fromStep, toStep)
	if err != nil {
		return RunResult{}, err
	}

	ids := make([]string, len(steps))
	for i, s := range steps {
		ids[i] = s.ID()
	}
	result := RunResult{RunID: uuid.NewString(), StepsRun: ids}

	if err := r.runLog.Begin(RunRecord{
		RunID:      result.RunID,
		StartedUTC: time.Now().UTC(),
		StepsRun:   strings.Join(ids, ","),
		Env:        r.Env,
	}); err != nil {
		return RunResult{}, err
	}

	ctx, span := r.tracer.Start(ctx, "pipeline.run",
		trace.WithAttributes(
			attribute.String("run.id", result.RunID),
			attribute.StringSlice("run.steps", ids)))
	defer span.End()

	r.logger.InfoContext(ctx, "pipeline run started",
		slog.String("run_id", result.RunID),
		slog.String("from", ids[0]),
		slog.String("to", ids[len(ids)-1]),
		slog.Int("steps", len(ids)))

	for _, step := range steps {
		if err := r.runStep(ctx, step); err != nil {
			if result.Err == nil {
				result.FailedStep = step.ID()
				result.Err = err
			}
			if r.FailFast {
				break
			}
		}
	}

	result.Status = RunStatusOK
	if result.Err != nil {
		result.Status = RunStatusFail
	}
	if err := r.runLog.Complete(result.RunID, result.Status, result.FailedStep); err != nil {
		return result, err
	}

	r.logger.InfoContext(ctx, "pipeline run finished",
		slog.String("run_id", result.RunID),
		slog.String("status", result.Status),
		slog.String("failed_step", result.FailedStep))
	if result.Err != nil {
		span.SetStatus(codes.Error, result.FailedStep)
		return result, fmt.Errorf("step %s failed: %w", result.FailedStep, result.Err)
	}
	return result, nil
}

func (r *Runner) runStep(ctx context.Context, step Step) error {
	stepCtx := ctx
	if r.StepTimeout > 0 {
		var cancel context.CancelFunc
		stepCtx, cancel = context.WithTimeout(ctx, r.StepTimeout)
		defer cancel()
	}

	stepCtx, span := r.tracer.Start(stepCtx, "pipeline.step",
		trace.WithAttributes(attribute.String("step.id", step.ID())))
	defer span.End()

	start := time.Now()
	r.logger.InfoContext(stepCtx, "step started",
		slog.String("step", step.ID()), slog.String("name", step.Name()))

	if err := step.Execute(stepCtx); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		r.logger.ErrorContext(stepCtx, "step failed",
			slog.String("step", step.ID()),
			slog.Duration("duration", time.Since(start)),
			slog.String("error", err.Error()))
		return err
	}

	r.logger.InfoContext(stepCtx, "step completed",
		slog.String("step", step.ID()),
		slog.Duration("duration", time.Since(start)))
	return nil
}
