package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pable/go-gameplan/internal/model"
	"github.com/pable/go-gameplan/internal/report"
	"github.com/pable/go-gameplan/internal/storage"
)

var (
	playsDown      int
	playsType      string
	playsFormation string
	playsRoutes    bool
)

// playsCmd is the cobra command for a per-snap drill-down of one game.
var playsCmd = &cobra.Command{
	Use:   "plays <hash-prefix>",
	Short: "Per-play drill-down for one game",
	Args:  cobra.ExactArgs(1),
	RunE:  runPlays,
}

func init() {
	playsCmd.Flags().IntVar(&playsDown, "down", 0, "only show plays on this down")
	playsCmd.Flags().StringVar(&playsType, "type", "", "filter by play type: run or pass")
	playsCmd.Flags().StringVar(&playsFormation, "formation", "", "only show plays from this formation")
	playsCmd.Flags().BoolVar(&playsRoutes, "routes", false, "only show plays with a route concept")
}

// filterPlays applies --down, --type, --formation and --routes.
func filterPlays(plays []model.Play, down int, playType, formation string, routesOnly bool) []model.Play {
	want := model.ParsePlayType(playType)
	var out []model.Play
	for _, p := range plays {
		if down != 0 && p.Down != down {
			continue
		}
		if playType != "" && p.PlayType != want {
			continue
		}
		if formation != "" && !strings.EqualFold(p.Formation, formation) {
			continue
		}
		if routesOnly && !p.Routes.Valid {
			continue
		}
		out = append(out, p)
	}
	return out
}

func runPlays(cmd *cobra.Command, args []string) error {
	db, err := storage.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer db.Close()

	game, err := db.GetGameByPrefix(args[0])
	if err != nil {
		return fmt.Errorf("query game: %w", err)
	}
	if game == nil {
		return fmt.Errorf("game not found: %s", args[0])
	}
	plays, err := db.Plays(storage.PlayFilter{GamePrefixes: []string{game.Hash}})
	if err != nil {
		return fmt.Errorf("query plays: %w", err)
	}

	plays = filterPlays(plays, playsDown, playsType, playsFormation, playsRoutes)
	if len(plays) == 0 {
		fmt.Println("no plays match the filters")
		return nil
	}
	report.PrintGameHeader(os.Stdout, *game)
	report.PrintPlayTable(os.Stdout, plays)
	return nil
}
