package aggregator

import (
	"sort"

	"github.com/pable/go-gameplan/internal/model"
)

// Summarize computes run/pass totals and the play-call leaderboard.
// Percentages are of all plays and rounded to one decimal.
func Summarize(plays []model.Play) (model.Summary, error) {
	s := model.Summary{Total: len(plays)}
	if len(plays) == 0 {
		return s, nil
	}
	for _, p := range plays {
		switch p.PlayType {
		case model.PlayTypeRun:
			s.RunCount++
		case model.PlayTypePass:
			s.PassCount++
		}
	}
	runPct, err := percentOf(s.RunCount, s.Total)
	if err != nil {
		return s, err
	}
	passPct, err := percentOf(s.PassCount, s.Total)
	if err != nil {
		return s, err
	}
	s.RunPct, s.PassPct = Round1(runPct), Round1(passPct)

	rows, err := Conditional(plays, []Field{PlayCall})
	if err != nil {
		return s, err
	}
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].Count != rows[j].Count {
			return rows[i].Count > rows[j].Count
		}
		return rows[i].Key[0] < rows[j].Key[0]
	})
	s.TopPlays = make([]model.PlayCallShare, len(rows))
	for i, r := range rows {
		s.TopPlays[i] = model.PlayCallShare{PlayCall: r.Key[0], Count: r.Count, Pct: Round1(r.Pct)}
	}
	return s, nil
}
