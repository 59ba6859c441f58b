// Command pipeline runs the analytics build: an inclusive range of
// registered steps over the data directory, recorded in the run log.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"matchpulse/internal/config"
	"matchpulse/internal/dataset"
	"matchpulse/internal/infrastructure"
	"matchpulse/internal/operations"
	"matchpulse/internal/pipeline"
)

func main() {
	fromStep := flag.String("from-step", "", "first step to run (default: first registered step)")
	toStep := flag.String("to-step", "", "last step to run (default: last registered step)")
	failFast := flag.Bool("fail-fast", false, "abort on the first failing step")
	rebuildAll := flag.Bool("rebuild-all", false, "rebuild everything from derived through validate")
	listSteps := flag.Bool("list-steps", false, "print the registered steps in order and exit")
	flag.Parse()

	if err := run(*fromStep, *toStep, *failFast, *rebuildAll, *listSteps); err != nil {
		slog.Error("pipeline failed", "error", err)
		os.Exit(1)
	}
}

func run(fromStep, toStep string, failFast, rebuildAll, listSteps bool) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		return err
	}
	defer infrastructure.CloseLogFile()

	ctx := infrastructure.WithTraceID(context.Background())
	tracer, shutdownTracing, err := infrastructure.InitTracing(ctx, cfg.Tracing)
	if err != nil {
		return err
	}
	defer shutdownTracing(ctx)

	paths := config.NewPaths(cfg)
	if err := paths.EnsureProcessed(); err != nil {
		return err
	}
	store := dataset.NewStore(paths)
	env := pipeline.NewEnv(cfg, paths, store, logger)

	registry := operations.NewRegistry()
	if err := pipeline.RegisterSteps(registry, env); err != nil {
		return err
	}

	if listSteps {
		for _, id := range registry.IDs() {
			step, err := registry.Get(id)
			if err != nil {
				return err
			}
			fmt.Printf("%-12s %s\n", id, step.Name())
		}
		return nil
	}

	if rebuildAll {
		fromStep, toStep = "derived", "validate"
	}

	runLog := operations.NewRunLog(paths.RunLogCSV(), paths.LatestSuccessJSON())
	runner := operations.NewRunner(registry, runLog, logger, tracer)
	runner.StepTimeout = cfg.Pipeline.StepTimeout
	runner.FailFast = failFast
	runner.Env = cfg.Env

	result, err := runner.Run(ctx, fromStep, toStep)
	if err != nil {
		return err
	}
	logger.InfoContext(ctx, "pipeline complete",
		slog.String("run_id", result.RunID), slog.Int("steps", len(result.StepsRun)))
	return nil
}
