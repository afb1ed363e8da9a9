package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pable/go-gameplan/internal/storage"
)

var (
	dropForce bool
	dropGame  string
)

// dropCmd deletes the play database file, or one game from it.
var dropCmd = &cobra.Command{
	Use:   "drop",
	Short: "Delete the play database or a single game",
	Long: `Permanently delete the SQLite play database. All imported games will be lost.
Re-import your game sheets afterwards to rebuild.

With --game, only the game matching the hash prefix and its plays are removed.`,
	Args: cobra.NoArgs,
	RunE: runDrop,
}

func init() {
	dropCmd.Flags().BoolVarP(&dropForce, "force", "f", false, "skip confirmation prompt")
	dropCmd.Flags().StringVar(&dropGame, "game", "", "delete only the game with this hash prefix")
}

func runDrop(cmd *cobra.Command, args []string) error {
	if dropGame != "" {
		return dropOneGame(dropGame)
	}
	if strings.Contains(dbPath, "://") {
		return fmt.Errorf("drop only removes SQLite files; use --game or drop the PostgreSQL tables yourself")
	}
	if !dropForce {
		fmt.Fprintf(os.Stderr, "This will permanently delete: %s\n", dbPath)
		fmt.Fprintf(os.Stderr, "Re-run with --force to confirm.\n")
		return nil
	}
	if err := os.Remove(dbPath); err != nil {
		if os.IsNotExist(err) {
			fmt.Fprintln(os.Stdout, "Database does not exist, nothing to drop.")
			return nil
		}
		return fmt.Errorf("remove database: %w", err)
	}
	fmt.Fprintf(os.Stdout, "Deleted: %s\n", dbPath)
	return nil
}

func dropOneGame(prefix string) error {
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
	if !dropForce {
		fmt.Fprintf(os.Stderr, "This will permanently delete game %d vs %s (%d plays).\n",
			game.GameNumber, game.Opponent, game.PlayCount)
		fmt.Fprintf(os.Stderr, "Re-run with --force to confirm.\n")
		return nil
	}
	if _, err := db.DeleteGame(game.Hash); err != nil {
		return fmt.Errorf("delete game: %w", err)
	}
	fmt.Fprintf(os.Stdout, "Deleted game %d (%s)\n", game.GameNumber, game.Hash[:min(12, len(game.Hash))])
	return nil
}
