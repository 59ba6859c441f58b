package pipeline

import (
	"context"
	"log/slog"
	"sort"

	"matchpulse/internal/dataset"
)

// BuildMatchMomentum parses each match's momentum graph into per-minute
// rows plus a per-match digest. Positive values mean home pressure. Swings
// count every minute-to-minute change in value; halftime momentum is the
// last sample at or before minute 45 and final momentum the last sample
// overall.
func (e *Env) BuildMatchMomentum(ctx context.Context) error {
	refs, err := e.Store.ListRawMatches()
	if err != nil {
		return err
	}

	var detail []dataset.MomentumPoint
	var summaries []dataset.MomentumSummary
	unreadable := 0
	for _, ref := range refs {
		graph, ok, err := ref.ReadMomentumGraph()
		if err != nil {
			unreadable++
			e.Logger.WarnContext(ctx, "skipping unreadable momentum graph",
				slog.String("match_id", ref.MatchID), slog.String("error", err.Error()))
			continue
		}
		if !ok || len(graph.GraphPoints) == 0 {
			continue
		}

		points := make([]dataset.MomentumPoint, 0, len(graph.GraphPoints))
		for _, p := range graph.GraphPoints {
			period := "1ST"
			if p.Minute > 45 {
				period = "2ND"
			}
			points = append(points, dataset.MomentumPoint{
				MatchID:  ref.MatchID,
				Minute:   int64(p.Minute),
				Momentum: int64(p.Value),
				Period:   period,
			})
		}
		sort.Slice(points, func(i, j int) bool { return points[i].Minute < points[j].Minute })
		detail = append(detail, points...)
		summaries = append(summaries, summarizeMomentum(ref.MatchID, points))
	}

	if err := dataset.WriteTable(e.Paths.Processed(dataset.FileMatchMomentum), detail); err != nil {
		return err
	}
	if err := dataset.WriteTable(e.Paths.Processed(dataset.FileMomentumSummary), summaries); err != nil {
		return err
	}
	e.Logger.InfoContext(ctx, "built match momentum",
		slog.Int("matches", len(summaries)),
		slog.Int("points", len(detail)),
		slog.Int("unreadable", unreadable))
	return nil
}

func summarizeMomentum(matchID string, points []dataset.MomentumPoint) dataset.MomentumSummary {
	s := dataset.MomentumSummary{MatchID: matchID}
	var total int64
	var prev int64
	for i, p := range points {
		total += p.Momentum
		if p.Momentum > 0 {
			s.HomeDominatedMin++
		} else if p.Momentum < 0 {
			s.AwayDominatedMin++
		}
		if i > 0 && p.Momentum != prev {
			s.MomentumSwings++
		}
		prev = p.Momentum
		if p.Minute <= 45 {
			s.HalftimeMomentum = iptr(p.Momentum)
		}
	}
	if len(points) > 0 {
		s.AvgMomentum = float64(total) / float64(len(points))
		s.FinalMomentum = iptr(points[len(points)-1].Momentum)
	}
	return s
}
