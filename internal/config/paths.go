package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// Paths resolves every directory the pipeline reads or writes.
// The layout mirrors the extraction collaborator's contract:
//
//	data/index/      matches.csv, players.csv, pipeline_runs.csv
//	data/derived/    player_appearances.parquet, player_incidents.parquet, match_scores.parquet
//	data/processed/  every build artifact (00_* .. 16_*, dq_report.json)
//	data/raw/        <season>/club/<competition>/<match_id>/ per-match raw files
type Paths struct {
	DataDir      string
	IndexDir     string
	DerivedDir   string
	ProcessedDir string
	RawDir       string
	LogsDir      string
}

// NewPaths builds the directory layout rooted at cfg.Paths.DataDir
func NewPaths(cfg *Config) *Paths {
	data := cfg.Paths.DataDir
	return &Paths{
		DataDir:      data,
		IndexDir:     filepath.Join(data, "index"),
		DerivedDir:   filepath.Join(data, "derived"),
		ProcessedDir: filepath.Join(data, "processed"),
		RawDir:       filepath.Join(data, "raw"),
		LogsDir:      cfg.Paths.LogsDir,
	}
}

// EnsureProcessed creates the processed directory if needed
func (p *Paths) EnsureProcessed() error {
	if err := os.MkdirAll(p.ProcessedDir, 0o755); err != nil {
		return fmt.Errorf("failed to create processed dir %s: %w", p.ProcessedDir, err)
	}
	return nil
}

// MatchesCSV is the authoritative match spine
func (p *Paths) MatchesCSV() string { return filepath.Join(p.IndexDir, "matches.csv") }

// PlayersCSV is the tracked-player index
func (p *Paths) PlayersCSV() string { return filepath.Join(p.IndexDir, "players.csv") }

// RunLogCSV is the append-only pipeline run log
func (p *Paths) RunLogCSV() string { return filepath.Join(p.IndexDir, "pipeline_runs.csv") }

// LatestSuccessJSON is the latest fully-successful run marker
func (p *Paths) LatestSuccessJSON() string {
	return filepath.Join(p.IndexDir, "latest_successful_run.json")
}

// Derived returns the path of a derived artifact by file name
func (p *Paths) Derived(name string) string { return filepath.Join(p.DerivedDir, name) }

// Processed returns the path of a processed artifact by file name
func (p *Paths) Processed(name string) string { return filepath.Join(p.ProcessedDir, name) }

// RawMatchDir returns the raw per-match directory, which may not exist
func (p *Paths) RawMatchDir(season, competition, matchID string) string {
	return filepath.Join(p.RawDir, season, "club", competition, matchID)
}
