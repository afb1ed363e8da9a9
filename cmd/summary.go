package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-gameplan/internal/report"
	"github.com/pable/go-gameplan/internal/storage"
)

// summaryCmd is the cobra command for displaying a high-level database overview.
var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Show a high-level overview of the play store",
	Long: `Display aggregate statistics about all stored games: game and play
counts, date range, route coverage and a per-opponent breakdown.`,
	Args: cobra.NoArgs,
	RunE: runSummary,
}

func runSummary(cmd *cobra.Command, args []string) error {
	db, err := storage.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer db.Close()

	ov, err := db.Overview()
	if err != nil {
		return fmt.Errorf("get overview: %w", err)
	}
	if ov.TotalGames == 0 {
		fmt.Fprintln(os.Stdout, "No games stored yet. Run 'gameplan import <dir>' to add some.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "\n=== Play Store Summary ===\n\n")
	fmt.Fprintf(os.Stdout, "  Games stored  : %d\n", ov.TotalGames)
	fmt.Fprintf(os.Stdout, "  Date range    : %s → %s\n", ov.EarliestGame, ov.LatestGame)
	fmt.Fprintf(os.Stdout, "  Opponents     : %d\n", ov.UniqueOpponent)
	fmt.Fprintf(os.Stdout, "  Total plays   : %d\n", ov.TotalPlays)
	routePct := 0.0
	if ov.TotalPlays > 0 {
		routePct = 100.0 * float64(ov.RoutePlays) / float64(ov.TotalPlays)
	}
	fmt.Fprintf(os.Stdout, "  With routes   : %d (%.0f%%)\n", ov.RoutePlays, routePct)

	opps, err := db.OpponentCounts()
	if err != nil {
		return fmt.Errorf("get opponent counts: %w", err)
	}
	fmt.Fprintf(os.Stdout, "\n--- Opponents ---\n\n")
	report.PrintOpponentTable(os.Stdout, opps)
	return nil
}
