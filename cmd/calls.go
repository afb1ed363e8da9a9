package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-gameplan/internal/aggregator"
	"github.com/pable/go-gameplan/internal/report"
)

var callsHTML string

var callsCmd = &cobra.Command{
	Use:   "calls",
	Short: "Break down play calls and routes by down and distance",
	Long: `For every down and distance bucket, list each formation, backfield, play
call and route combination with its share of the bucket above it. Plays with
no route concept show "-" in the routes column.`,
	Args: cobra.NoArgs,
	RunE: runCalls,
}

func init() {
	addFilterFlags(callsCmd)
	callsCmd.Flags().StringVar(&callsHTML, "html", "", "also write the breakdown as HTML to this path")
}

func runCalls(cmd *cobra.Command, args []string) error {
	plays, filter, err := loadPlays()
	if err != nil {
		return err
	}
	if len(plays) == 0 {
		fmt.Fprintln(os.Stdout, "No plays match the filters.")
		return nil
	}
	rows, err := aggregator.DownDistanceCalls(plays, aggregator.DefaultBuckets)
	if err != nil {
		return fmt.Errorf("play calls: %w", err)
	}
	report.PrintCallsTable(os.Stdout, rows)

	if callsHTML == "" {
		return nil
	}
	return writeHTMLReport(callsHTML, report.Document{
		Title:    "Down & Distance Calls",
		Subtitle: fmt.Sprintf("%s  |  %d plays", describeFilter(filter), len(plays)),
		Sections: []report.Section{report.CallsSection(rows)},
	})
}
