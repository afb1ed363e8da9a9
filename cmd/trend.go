package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-gameplan/internal/aggregator"
	"github.com/pable/go-gameplan/internal/model"
	"github.com/pable/go-gameplan/internal/report"
)

var trendCmd = &cobra.Command{
	Use:   "trend",
	Short: "Chronological per-game run/pass trend",
	Args:  cobra.NoArgs,
	RunE:  runTrend,
}

func init() {
	addFilterFlags(trendCmd)
}

func runTrend(cmd *cobra.Command, args []string) error {
	plays, _, err := loadPlays()
	if err != nil {
		return err
	}
	if len(plays) == 0 {
		fmt.Println("no games found")
		return nil
	}
	rows, err := gameTrend(plays)
	if err != nil {
		return err
	}
	report.PrintTrendTable(os.Stdout, rows)
	return nil
}

// gameTrend summarizes plays one game at a time, in game order. Plays come
// from the store already ordered by game number.
func gameTrend(plays []model.Play) ([]report.TrendRow, error) {
	var out []report.TrendRow
	for start := 0; start < len(plays); {
		end := start
		for end < len(plays) && plays[end].GameHash == plays[start].GameHash {
			end++
		}
		s, err := aggregator.Summarize(plays[start:end])
		if err != nil {
			return nil, fmt.Errorf("summarize game %d: %w", plays[start].GameNumber, err)
		}
		p := plays[start]
		out = append(out, report.TrendRow{GameNumber: p.GameNumber, Date: p.Date, Opponent: p.Opponent, Summary: s})
		start = end
	}
	return out, nil
}
