package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-gameplan/internal/aggregator"
	"github.com/pable/go-gameplan/internal/model"
	"github.com/pable/go-gameplan/internal/report"
	"github.com/pable/go-gameplan/internal/storage"
)

var showCmd = &cobra.Command{
	Use:   "show <hash-prefix>",
	Short: "Show one stored game's summary and down-and-distance split",
	Args:  cobra.ExactArgs(1),
	RunE:  runShow,
}

func runShow(cmd *cobra.Command, args []string) error {
	prefix := args[0]

	db, err := storage.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer db.Close()

	game, err := db.GetGameByPrefix(prefix)
	if err != nil {
		return fmt.Errorf("query game: %w", err)
	}
	if game == nil {
		fmt.Fprintf(os.Stderr, "No game found with hash prefix %q\n", prefix)
		return nil
	}
	plays, err := db.Plays(storage.PlayFilter{GamePrefixes: []string{game.Hash}})
	if err != nil {
		return fmt.Errorf("query plays: %w", err)
	}
	return printGame(*game, plays)
}

func printGame(game model.Game, plays []model.Play) error {
	summary, err := aggregator.Summarize(plays)
	if err != nil {
		return fmt.Errorf("summarize: %w", err)
	}
	dnd, err := aggregator.DownAndDistance(plays, aggregator.DefaultBuckets)
	if err != nil {
		return fmt.Errorf("down and distance: %w", err)
	}
	report.PrintGameHeader(os.Stdout, game)
	report.PrintSummary(os.Stdout, summary, 10)
	report.PrintDownDistanceTable(os.Stdout, dnd)
	return nil
}
