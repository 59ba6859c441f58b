package dataset

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"github.com/parquet-go/parquet-go"

	"matchpulse/internal/config"
)

// Derived artifact file names produced by the extraction collaborator
const (
	FileAppearances   = "player_appearances.parquet"
	FileIncidents     = "player_incidents.parquet"
	FileTrustedScores = "match_scores.parquet"
)

// ReadTable reads every row of a parquet artifact into memory. Build-stage
// tables are small enough (low millions of rows at most) that whole-file
// reads are the simplest correct approach.
func ReadTable[T any](path string) ([]T, error) {
	rows, err := parquet.ReadFile[T](path)
	if err != nil {
		return nil, fmt.Errorf("failed to read parquet %s: %w", path, err)
	}
	return rows, nil
}

// WriteTable writes rows to a parquet artifact, replacing any existing file.
// Callers sort rows first so re-runs are byte-identical.
func WriteTable[T any](path string, rows []T) error {
	if err := parquet.WriteFile(path, rows); err != nil {
		return fmt.Errorf("failed to write parquet %s: %w", path, err)
	}
	return nil
}

// Store reads the extraction collaborator's outputs and the CSV indices
type Store struct {
	Paths *config.Paths
}

// NewStore wires a store over the resolved path layout
func NewStore(paths *config.Paths) *Store {
	return &Store{Paths: paths}
}

// ReadAppearances loads every per-match player stat line
func (s *Store) ReadAppearances() ([]Appearance, error) {
	return ReadTable[Appearance](s.Paths.Derived(FileAppearances))
}

// ReadIncidents loads every typed in-match event
func (s *Store) ReadIncidents() ([]Incident, error) {
	return ReadTable[Incident](s.Paths.Derived(FileIncidents))
}

// ReadTrustedScores loads the pre-existing trusted score table. A missing
// file is not an error; the score cascade simply falls through to the next
// source.
func (s *Store) ReadTrustedScores() ([]TrustedScore, error) {
	path := s.Paths.Derived(FileTrustedScores)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, nil
	}
	return ReadTable[TrustedScore](path)
}

// ReadMatchIndex loads matches.csv, the authoritative spine. Every artifact
// keyed by match must cover exactly these match IDs.
func (s *Store) ReadMatchIndex() ([]MatchIndexRow, error) {
	records, header, err := readCSV(s.Paths.MatchesCSV())
	if err != nil {
		return nil, err
	}
	col := columnIndex(header)
	rows := make([]MatchIndexRow, 0, len(records))
	for _, rec := range records {
		rows = append(rows, MatchIndexRow{
			MatchID:      field(rec, col, "match_id"),
			Season:       field(rec, col, "season"),
			Competition:  field(rec, col, "competition_slug"),
			Round:        field(rec, col, "round"),
			MatchDate:    parseInt(field(rec, col, "match_date")),
			HomeTeamName: field(rec, col, "home_team_name"),
			AwayTeamName: field(rec, col, "away_team_name"),
		})
	}
	return rows, nil
}

// ReadPlayerIndex loads players.csv, the tracked-player index
func (s *Store) ReadPlayerIndex() ([]PlayerIndexRow, error) {
	records, header, err := readCSV(s.Paths.PlayersCSV())
	if err != nil {
		return nil, err
	}
	col := columnIndex(header)
	rows := make([]PlayerIndexRow, 0, len(records))
	for _, rec := range records {
		rows = append(rows, PlayerIndexRow{
			PlayerID:        parseInt(field(rec, col, "player_id")),
			PlayerName:      field(rec, col, "player_name"),
			PlayerSlug:      field(rec, col, "player_slug"),
			PlayerShortName: field(rec, col, "player_shortName"),
			NMatches:        parseInt(field(rec, col, "n_matches")),
		})
	}
	return rows, nil
}

func readCSV(path string) (records [][]string, header []string, err error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	all, err := r.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if len(all) == 0 {
		return nil, nil, fmt.Errorf("%s is empty", path)
	}
	return all[1:], all[0], nil
}

func columnIndex(header []string) map[string]int {
	idx := make(map[string]int, len(header))
	for i, name := range header {
		idx[name] = i
	}
	return idx
}

func field(rec []string, col map[string]int, name string) string {
	i, ok := col[name]
	if !ok || i >= len(rec) {
		return ""
	}
	return rec[i]
}

func parseInt(s string) int64 {
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0
	}
	return v
}
