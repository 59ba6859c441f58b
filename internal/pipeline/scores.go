package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"matchpulse/internal/dataset"
	"matchpulse/internal/exporter"
)

// appearanceKey reads only the match_id column of the appearances artifact
type appearanceKey struct {
	MatchID string `parquet:"match_id"`
}

// BuildMatchScores resolves the authoritative score for every match in the
// spine. Sources are tried in priority order: the trusted score table, then
// the running score carried on goal incidents, then a 0-0 assumption for
// matches that have appearance data but no recorded goals. Matches with no
// data at all keep null scores.
func (e *Env) BuildMatchScores(ctx context.Context) error {
	spine, err := e.Store.ReadMatchIndex()
	if err != nil {
		return err
	}
	trusted, err := e.Store.ReadTrustedScores()
	if err != nil {
		return err
	}
	incidents, err := e.Store.ReadIncidents()
	if err != nil {
		return err
	}
	appKeys, err := dataset.ReadTable[appearanceKey](e.Paths.Derived(dataset.FileAppearances))
	if err != nil {
		return err
	}

	trustedByMatch := make(map[string]dataset.TrustedScore, len(trusted))
	for _, t := range trusted {
		trustedByMatch[t.MatchID] = t
	}

	// Final score from incidents: the max running score seen on any incident
	// that carries both sides.
	type runningScore struct{ home, away int64 }
	incidentScore := make(map[string]runningScore)
	for _, inc := range incidents {
		if inc.HomeScore == nil || inc.AwayScore == nil {
			continue
		}
		s := incidentScore[inc.MatchID]
		if h := int64(*inc.HomeScore); h > s.home {
			s.home = h
		}
		if a := int64(*inc.AwayScore); a > s.away {
			s.away = a
		}
		incidentScore[inc.MatchID] = s
	}

	scraped := make(map[string]bool, len(appKeys))
	for _, k := range appKeys {
		scraped[k.MatchID] = true
	}

	rows := make([]dataset.MatchScore, 0, len(spine))
	bySource := map[string]int{}
	for _, m := range spine {
		row := dataset.MatchScore{
			MatchID:     m.MatchID,
			Season:      m.Season,
			Competition: m.Competition,
		}
		switch {
		case hasTrusted(trustedByMatch, m.MatchID):
			t := trustedByMatch[m.MatchID]
			row.HomeScore, row.AwayScore = iptr(t.HomeScore), iptr(t.AwayScore)
			row.ScoreSource = dataset.SourceOriginal
		case hasIncidentScore(incidentScore, m.MatchID):
			s := incidentScore[m.MatchID]
			row.HomeScore, row.AwayScore = iptr(s.home), iptr(s.away)
			row.ScoreSource = dataset.SourceFromIncident
		case scraped[m.MatchID]:
			row.HomeScore, row.AwayScore = iptr(0), iptr(0)
			row.ScoreSource = dataset.SourceZeroAssumed
		default:
			row.ScoreSource = dataset.SourceNotScraped
		}

		if row.HomeScore != nil && row.AwayScore != nil {
			row.TotalGoals = iptr(*row.HomeScore + *row.AwayScore)
			switch {
			case *row.HomeScore > *row.AwayScore:
				row.Result = sptr("H")
			case *row.HomeScore < *row.AwayScore:
				row.Result = sptr("A")
			default:
				row.Result = sptr("D")
			}
			// An incident-derived 0-0 means no goal incidents existed at
			// all, which is indistinguishable from the assumption case.
			if row.ScoreSource == dataset.SourceFromIncident && *row.TotalGoals == 0 {
				row.ScoreSource = dataset.SourceZeroAssumed
			}
		}
		bySource[row.ScoreSource]++
		rows = append(rows, row)
	}

	sort.Slice(rows, func(i, j int) bool { return rows[i].MatchID < rows[j].MatchID })

	out := e.Paths.Processed(dataset.FileMatchScores)
	if err := dataset.WriteTable(out, rows); err != nil {
		return err
	}
	if err := exporter.WriteMatchScoresCSV(e.Paths.Processed(dataset.FileMatchScoresCSVMirror), rows); err != nil {
		return fmt.Errorf("failed to write score csv mirror: %w", err)
	}

	e.Logger.InfoContext(ctx, "resolved match scores",
		slog.Int("matches", len(rows)),
		slog.Int("original", bySource[dataset.SourceOriginal]),
		slog.Int("derived_from_incidents", bySource[dataset.SourceFromIncident]),
		slog.Int("zero_zero_assumed", bySource[dataset.SourceZeroAssumed]),
		slog.Int("not_scraped", bySource[dataset.SourceNotScraped]))
	return nil
}

func hasTrusted(m map[string]dataset.TrustedScore, id string) bool {
	_, ok := m[id]
	return ok
}

func hasIncidentScore[T any](m map[string]T, id string) bool {
	_, ok := m[id]
	return ok
}
