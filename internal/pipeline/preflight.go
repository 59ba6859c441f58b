package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"matchpulse/internal/dataset"
)

// CheckIndex verifies the authoritative indices before anything builds:
// matches.csv exists, is non-empty, and has no duplicate match ids, and
// players.csv is readable.
func (e *Env) CheckIndex(ctx context.Context) error {
	spine, err := e.Store.ReadMatchIndex()
	if err != nil {
		return err
	}
	if len(spine) == 0 {
		return fmt.Errorf("match index %s has no rows", e.Paths.MatchesCSV())
	}
	seen := make(map[string]bool, len(spine))
	for _, m := range spine {
		if m.MatchID == "" {
			return fmt.Errorf("match index %s has a row with empty match_id", e.Paths.MatchesCSV())
		}
		if seen[m.MatchID] {
			return fmt.Errorf("match index %s has duplicate match_id %s", e.Paths.MatchesCSV(), m.MatchID)
		}
		seen[m.MatchID] = true
	}

	players, err := e.Store.ReadPlayerIndex()
	if err != nil {
		return err
	}

	e.Logger.InfoContext(ctx, "index check passed",
		slog.Int("matches", len(spine)), slog.Int("players", len(players)))
	return nil
}

// CheckDerived reconciles the extraction collaborator's derived artifacts
// against the spine: both parquet files must exist and every appearance
// match id must be a spine match. Coverage below the full spine is normal
// (unscraped matches), coverage outside the spine is not.
func (e *Env) CheckDerived(ctx context.Context) error {
	for _, name := range []string{dataset.FileAppearances, dataset.FileIncidents} {
		path := e.Paths.Derived(name)
		if _, err := os.Stat(path); err != nil {
			return fmt.Errorf("missing derived artifact %s: %w", path, err)
		}
	}

	spine, err := e.Store.ReadMatchIndex()
	if err != nil {
		return err
	}
	inSpine := make(map[string]bool, len(spine))
	for _, m := range spine {
		inSpine[m.MatchID] = true
	}

	appKeys, err := dataset.ReadTable[appearanceKey](e.Paths.Derived(dataset.FileAppearances))
	if err != nil {
		return err
	}
	covered := map[string]bool{}
	for _, k := range appKeys {
		if !inSpine[k.MatchID] {
			return fmt.Errorf("appearances reference match %s which is not in the spine", k.MatchID)
		}
		covered[k.MatchID] = true
	}

	e.Logger.InfoContext(ctx, "derived check passed",
		slog.Int("spine_matches", len(spine)),
		slog.Int("covered_matches", len(covered)))
	return nil
}
