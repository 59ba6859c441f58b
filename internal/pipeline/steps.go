package pipeline

import (
	"matchpulse/internal/dataset"
	"matchpulse/internal/operations"
)

const (
	fileMatchesCSV = "matches.csv"
	filePlayersCSV = "players.csv"
	fileDQReport   = "dq_report.json"
)

// RegisterSteps registers every build stage in execution order. The order
// is the data flow: each stage's declared inputs are produced by an
// earlier stage or by the extraction collaborator.
func RegisterSteps(reg *operations.Registry, env *Env) error {
	steps := []operations.Step{
		operations.NewStep("index", "Index preflight",
			[]string{fileMatchesCSV, filePlayersCSV}, nil,
			env.CheckIndex),
		operations.NewStep("derived", "Derived artifact reconciliation",
			[]string{fileMatchesCSV, dataset.FileAppearances, dataset.FileIncidents}, nil,
			env.CheckDerived),
		operations.NewStep("scores", "Match score resolution",
			[]string{fileMatchesCSV, dataset.FileTrustedScores, dataset.FileIncidents, dataset.FileAppearances},
			[]string{dataset.FileMatchScores, dataset.FileMatchScoresCSVMirror},
			env.BuildMatchScores),
		operations.NewStep("team", "Team season stats",
			[]string{fileMatchesCSV, dataset.FileMatchScores},
			[]string{dataset.FileTeamSeasonStats},
			env.BuildTeamSeasonStats),
		operations.NewStep("summary", "Match summaries",
			[]string{fileMatchesCSV, dataset.FileMatchScores},
			[]string{dataset.FileMatchSummary},
			env.BuildMatchSummary),
		operations.NewStep("players", "Player season stats",
			[]string{dataset.FileAppearances, dataset.FileIncidents},
			[]string{dataset.FilePlayerSeasonStats},
			env.BuildPlayerSeasonStats),
		operations.NewStep("career", "Player career stats",
			[]string{dataset.FilePlayerSeasonStats},
			[]string{dataset.FilePlayerCareerStats},
			env.BuildPlayerCareerStats),
		operations.NewStep("benchmarks", "Competition benchmarks",
			[]string{dataset.FilePlayerSeasonStats},
			[]string{dataset.FileBenchmarks},
			env.BuildCompetitionBenchmarks),
		operations.NewStep("percentiles", "Player percentile ranks",
			[]string{dataset.FilePlayerSeasonStats},
			[]string{dataset.FilePercentileRanks},
			env.BuildPercentileRanks),
		operations.NewStep("form", "Rolling form",
			[]string{dataset.FileAppearances, fileMatchesCSV},
			[]string{dataset.FileRollingForm},
			env.BuildRollingForm),
		operations.NewStep("scouting", "Scouting profiles",
			[]string{filePlayersCSV, dataset.FilePlayerSeasonStats, dataset.FilePlayerCareerStats,
				dataset.FileRollingForm, dataset.FilePercentileRanks},
			[]string{dataset.FileScoutingProfiles, dataset.FileScoutingCSVMirror},
			env.BuildScoutingProfiles),
		operations.NewStep("progression", "Player progression",
			[]string{dataset.FilePlayerSeasonStats},
			[]string{dataset.FileProgression},
			env.BuildPlayerProgression),
		operations.NewStep("consistency", "Player consistency",
			[]string{dataset.FileAppearances},
			[]string{dataset.FileConsistency},
			env.BuildPlayerConsistency),
		operations.NewStep("opponents", "Opponent context",
			[]string{dataset.FileAppearances, dataset.FileTeamSeasonStats, fileMatchesCSV},
			[]string{dataset.FileOpponentContext, dataset.FileOpponentSummary},
			env.BuildOpponentContext),
		operations.NewStep("subs", "Substitution impact",
			[]string{dataset.FileAppearances},
			[]string{dataset.FileSubstitutionImpact},
			env.BuildSubstitutionImpact),
		operations.NewStep("momentum", "Match momentum",
			[]string{fileMatchesCSV},
			[]string{dataset.FileMatchMomentum, dataset.FileMomentumSummary},
			env.BuildMatchMomentum),
		operations.NewStep("managers", "Managers",
			[]string{fileMatchesCSV, dataset.FileMatchScores},
			[]string{dataset.FileManagers, dataset.FileManagerCareers},
			env.BuildManagers),
		operations.NewStep("tactics", "Team tactical profiles",
			[]string{dataset.FileTeamSeasonStats},
			[]string{dataset.FileTacticalProfiles},
			env.BuildTacticalProfiles),
		operations.NewStep("agecurves", "Player age curves",
			[]string{dataset.FilePlayerSeasonStats},
			[]string{dataset.FileAgeCurves, dataset.FilePeakAgeByPosition},
			env.BuildAgeCurves),
		operations.NewStep("dq", "Data quality checks",
			nil,
			[]string{fileDQReport},
			env.RunDataQuality),
		operations.NewStep("validate", "Artifact validation",
			nil, nil,
			env.ValidateArtifacts),
	}
	for _, s := range steps {
		if err := reg.Register(s); err != nil {
			return err
		}
	}
	return nil
}
