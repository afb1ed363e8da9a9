package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pable/go-gameplan/internal/report"
	"github.com/pable/go-gameplan/internal/storage"
)

var sqlCmd = &cobra.Command{
	Use:   "sql <query>",
	Short: "Run a raw SQL query against the play store",
	Long: `Run an arbitrary SQL query against the play store and print results as a table.

Schema overview:
  games(hash, game_number, game_date, opponent, source_file, play_count,
    import_id, imported_at)
  plays(game_hash, play_index, down, distance, formation, backfield,
    play_call, play_type, routes)

Note: routes is NULL for plays with no route concept.
  gameplan sql "SELECT formation, COUNT(*) FROM plays WHERE down = 3 GROUP BY formation"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSQL,
}

func runSQL(cmd *cobra.Command, args []string) error {
	query := strings.Join(args, " ")
	db, err := storage.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer db.Close()

	cols, rows, err := db.QueryRaw(query)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		fmt.Println("(no rows)")
		return nil
	}
	report.PrintRaw(os.Stdout, cols, rows)
	fmt.Fprintf(os.Stdout, "\n(%d rows)\n", len(rows))
	return nil
}
