// Command dqcheck validates every processed artifact and prints a
// PASS / WARN / FAIL report. Exits non-zero when any check fails.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"

	"matchpulse/internal/config"
	"matchpulse/internal/dataset"
	"matchpulse/internal/dqcheck"
	"matchpulse/internal/infrastructure"
)

func main() {
	jsonOut := flag.Bool("json", false, "also write dq_report.json next to the artifacts")
	xlsxOut := flag.Bool("xlsx", false, "also write dq_report.xlsx next to the artifacts")
	flag.Parse()

	failed, err := run(*jsonOut, *xlsxOut)
	if err != nil {
		slog.Error("data quality check failed to run", "error", err)
		os.Exit(1)
	}
	if failed {
		os.Exit(1)
	}
}

func run(jsonOut, xlsxOut bool) (failed bool, err error) {
	cfg, err := config.Load()
	if err != nil {
		return false, err
	}
	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		return false, err
	}
	defer infrastructure.CloseLogFile()

	ctx := infrastructure.WithTraceID(context.Background())
	paths := config.NewPaths(cfg)
	store := dataset.NewStore(paths)

	suite := dqcheck.NewSuite(paths, store, logger)
	report, err := suite.Run(ctx)
	if err != nil {
		return false, err
	}
	report.Render(os.Stdout)

	if jsonOut {
		if err := report.WriteJSON(paths.Processed("dq_report.json")); err != nil {
			return false, err
		}
	}
	if xlsxOut {
		if err := report.WriteWorkbook(paths.Processed("dq_report.xlsx")); err != nil {
			return false, err
		}
	}
	return report.HasFailures(), nil
}
