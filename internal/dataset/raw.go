package dataset

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Raw per-match scrape files. Any of them may be missing for a given match;
// stages skip what they cannot find.
const (
	RawTeamStatisticsCSV = "team_statistics.csv"
	RawMomentumJSON      = "graph.json"
	RawManagersJSON      = "managers.json"
)

// RawMatchRef locates one match's raw directory
type RawMatchRef struct {
	Season      string
	Competition string
	MatchID     string
	Dir         string
}

// ListRawMatches walks data/raw/<season>/club/<competition>/<match_id> and
// returns the discovered match directories in sorted order. Hidden entries
// are skipped. A missing raw root yields an empty list, not an error.
func (s *Store) ListRawMatches() ([]RawMatchRef, error) {
	seasons, err := listDirs(s.Paths.RawDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to list raw dir: %w", err)
	}

	var refs []RawMatchRef
	for _, season := range seasons {
		club := filepath.Join(s.Paths.RawDir, season, "club")
		comps, err := listDirs(club)
		if err != nil {
			continue
		}
		for _, comp := range comps {
			matches, err := listDirs(filepath.Join(club, comp))
			if err != nil {
				continue
			}
			for _, matchID := range matches {
				refs = append(refs, RawMatchRef{
					Season:      season,
					Competition: comp,
					MatchID:     matchID,
					Dir:         filepath.Join(club, comp, matchID),
				})
			}
		}
	}
	return refs, nil
}

func listDirs(path string) ([]string, error) {
	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)
	return names, nil
}

// TeamStatLine is one stat row of a match's team_statistics.csv. Home and
// Away hold the raw cell text; the team stage parses them.
type TeamStatLine struct {
	Period string
	Name   string
	Home   string
	Away   string
}

// ReadTeamStatistics reads one match's team_statistics.csv. ok is false when
// the file does not exist.
func (r RawMatchRef) ReadTeamStatistics() (lines []TeamStatLine, ok bool, err error) {
	path := filepath.Join(r.Dir, RawTeamStatisticsCSV)
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	cr := csv.NewReader(f)
	cr.FieldsPerRecord = -1
	records, err := cr.ReadAll()
	if err != nil {
		return nil, false, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if len(records) < 2 {
		return nil, true, nil
	}
	col := columnIndex(records[0])
	for _, rec := range records[1:] {
		lines = append(lines, TeamStatLine{
			Period: field(rec, col, "period"),
			Name:   field(rec, col, "name"),
			Home:   field(rec, col, "home"),
			Away:   field(rec, col, "away"),
		})
	}
	return lines, true, nil
}

// MomentumGraph mirrors graph.json
type MomentumGraph struct {
	GraphPoints []MomentumGraphPoint `json:"graphPoints"`
}

// MomentumGraphPoint is one minute sample. Positive value means home
// pressure, negative means away.
type MomentumGraphPoint struct {
	Minute float64 `json:"minute"`
	Value  float64 `json:"value"`
}

// ReadMomentumGraph reads one match's graph.json. ok is false when the file
// does not exist. Malformed JSON is an error; the momentum stage decides
// whether to tolerate it.
func (r RawMatchRef) ReadMomentumGraph() (graph MomentumGraph, ok bool, err error) {
	return readRawJSON[MomentumGraph](filepath.Join(r.Dir, RawMomentumJSON))
}

// ManagersFile mirrors managers.json
type ManagersFile struct {
	HomeManager *ManagerRef `json:"homeManager"`
	AwayManager *ManagerRef `json:"awayManager"`
}

// ManagerRef identifies one manager
type ManagerRef struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// ReadManagers reads one match's managers.json
func (r RawMatchRef) ReadManagers() (mgrs ManagersFile, ok bool, err error) {
	return readRawJSON[ManagersFile](filepath.Join(r.Dir, RawManagersJSON))
}

func readRawJSON[T any](path string) (out T, ok bool, err error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return out, false, nil
		}
		return out, false, fmt.Errorf("failed to read %s: %w", path, err)
	}
	if err := json.Unmarshal(data, &out); err != nil {
		return out, false, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return out, true, nil
}
