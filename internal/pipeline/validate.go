package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"matchpulse/internal/dataset"
	"matchpulse/internal/dqcheck"
)

// allArtifacts is every processed file the full build produces
var allArtifacts = []string{
	dataset.FileMatchScores,
	dataset.FileTeamSeasonStats,
	dataset.FileMatchSummary,
	dataset.FilePlayerSeasonStats,
	dataset.FilePlayerCareerStats,
	dataset.FileBenchmarks,
	dataset.FilePercentileRanks,
	dataset.FileRollingForm,
	dataset.FileScoutingProfiles,
	dataset.FileProgression,
	dataset.FileConsistency,
	dataset.FileOpponentContext,
	dataset.FileOpponentSummary,
	dataset.FileSubstitutionImpact,
	dataset.FileMatchMomentum,
	dataset.FileMomentumSummary,
	dataset.FileManagers,
	dataset.FileManagerCareers,
	dataset.FileTacticalProfiles,
	dataset.FileAgeCurves,
	dataset.FilePeakAgeByPosition,
}

// RunDataQuality executes the full check suite as a pipeline step. The
// report lands next to the artifacts; any FAIL fails the step.
func (e *Env) RunDataQuality(ctx context.Context) error {
	suite := dqcheck.NewSuite(e.Paths, e.Store, e.Logger)
	report, err := suite.Run(ctx)
	if err != nil {
		return err
	}
	if err := report.WriteJSON(e.Paths.Processed("dq_report.json")); err != nil {
		return err
	}
	report.Render(os.Stdout)
	if report.HasFailures() {
		return fmt.Errorf("data quality check found %d failing checks", report.Fail)
	}
	return nil
}

// ValidateArtifacts is the closing reconciliation pass: every artifact the
// build declares must exist, and the resolved score table must cover the
// spine exactly.
func (e *Env) ValidateArtifacts(ctx context.Context) error {
	for _, name := range allArtifacts {
		path := e.Paths.Processed(name)
		if _, err := os.Stat(path); err != nil {
			return fmt.Errorf("missing artifact %s: %w", path, err)
		}
	}

	spine, err := e.Store.ReadMatchIndex()
	if err != nil {
		return err
	}
	scores, err := dataset.ReadTable[dataset.MatchScore](e.Paths.Processed(dataset.FileMatchScores))
	if err != nil {
		return err
	}
	if len(scores) != len(spine) {
		return fmt.Errorf("score table has %d rows for a %d match spine", len(scores), len(spine))
	}

	e.Logger.InfoContext(ctx, "artifact validation passed",
		slog.Int("artifacts", len(allArtifacts)), slog.Int("spine_matches", len(spine)))
	return nil
}
