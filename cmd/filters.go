package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pable/go-gameplan/internal/model"
	"github.com/pable/go-gameplan/internal/storage"
)

var (
	filterOpponent string
	filterGames    []string
	filterFrom     int
	filterLast     int
	filterDowns    []int
)

// addFilterFlags binds the shared play filters to c.
func addFilterFlags(c *cobra.Command) {
	c.Flags().StringVar(&filterOpponent, "opponent", "", "only games against this opponent")
	c.Flags().StringSliceVar(&filterGames, "game", nil, "only games with this hash prefix (repeatable)")
	c.Flags().IntVar(&filterFrom, "from", 0, "only games numbered N and later")
	c.Flags().IntVar(&filterLast, "last", 0, "only the N most recent matching games")
	c.Flags().IntSliceVar(&filterDowns, "down", nil, "only plays on this down (repeatable)")
}

func currentFilter() (storage.PlayFilter, error) {
	for _, d := range filterDowns {
		if d < 1 || d > 4 {
			return storage.PlayFilter{}, fmt.Errorf("invalid --down %d: must be 1-4", d)
		}
	}
	if filterFrom < 0 || filterLast < 0 {
		return storage.PlayFilter{}, fmt.Errorf("--from and --last must not be negative")
	}
	return storage.PlayFilter{
		Opponent:     filterOpponent,
		GamePrefixes: filterGames,
		FromGame:     filterFrom,
		LastN:        filterLast,
		Downs:        filterDowns,
	}, nil
}

// describeFilter renders the active filters for report headers.
func describeFilter(f storage.PlayFilter) string {
	var parts []string
	if f.Opponent != "" {
		parts = append(parts, "opponent "+f.Opponent)
	}
	if len(f.GamePrefixes) > 0 {
		parts = append(parts, "games "+strings.Join(f.GamePrefixes, ","))
	}
	if f.FromGame > 0 {
		parts = append(parts, fmt.Sprintf("from game %d", f.FromGame))
	}
	if f.LastN > 0 {
		parts = append(parts, fmt.Sprintf("last %d games", f.LastN))
	}
	if len(f.Downs) > 0 {
		downs := make([]string, len(f.Downs))
		for i, d := range f.Downs {
			downs[i] = fmt.Sprint(d)
		}
		parts = append(parts, "downs "+strings.Join(downs, ","))
	}
	if len(parts) == 0 {
		return "all games"
	}
	return strings.Join(parts, ", ")
}

// loadPlays opens the store and returns the plays matching the shared filters.
func loadPlays() ([]model.Play, storage.PlayFilter, error) {
	f, err := currentFilter()
	if err != nil {
		return nil, f, err
	}
	db, err := storage.Open(dbPath)
	if err != nil {
		return nil, f, fmt.Errorf("open storage: %w", err)
	}
	defer db.Close()

	plays, err := db.Plays(f)
	if err != nil {
		return nil, f, fmt.Errorf("query plays: %w", err)
	}
	return plays, f, nil
}

// countGames returns the number of distinct games in plays.
func countGames(plays []model.Play) int {
	seen := make(map[string]struct{})
	for _, p := range plays {
		seen[p.GameHash] = struct{}{}
	}
	return len(seen)
}
