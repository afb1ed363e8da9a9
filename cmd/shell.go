package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/pable/go-gameplan/internal/aggregator"
	"github.com/pable/go-gameplan/internal/report"
	"github.com/pable/go-gameplan/internal/storage"
)

var (
	cPrompt   = color.New(color.FgCyan, color.Bold)
	cMuted    = color.New(color.Faint)
	cError    = color.New(color.FgRed, color.Bold)
	cWarn     = color.New(color.FgYellow)
	cHeader   = color.New(color.FgCyan, color.Bold)
	cCmd      = color.New(color.FgYellow, color.Bold)
	cGreeting = color.New(color.Bold)
)

var shellCmd = &cobra.Command{
	Use:   "shell",
	Short: "Start an interactive REPL session",
	Long:  "Open a persistent session against the play store. Type 'help' for available commands.",
	Args:  cobra.NoArgs,
	RunE:  runShell,
}

func runShell(_ *cobra.Command, _ []string) error {
	db, err := storage.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer db.Close()

	cGreeting.Println("gameplan shell")
	cMuted.Println("type 'help' or 'exit'")
	fmt.Println()

	scanner := bufio.NewScanner(os.Stdin)
	for {
		cPrompt.Print("gameplan")
		cMuted.Print("> ")
		if !scanner.Scan() {
			fmt.Println()
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		tokens := strings.Fields(line)
		cmd, args := tokens[0], tokens[1:]

		switch cmd {
		case "exit", "quit":
			return nil
		case "help":
			shellHelp()
		case "list":
			shellList(db)
		case "show":
			if len(args) == 0 {
				cError.Fprintln(os.Stderr, "usage: show <hash-prefix>")
				continue
			}
			shellShow(db, args[0])
		case "report", "calls":
			f, err := parseShellFilter(args)
			if err != nil {
				cError.Fprintf(os.Stderr, "error: %v\n", err)
				continue
			}
			shellReport(db, f, cmd == "calls")
		default:
			cWarn.Fprintf(os.Stderr, "unknown command %q, type 'help'\n", cmd)
		}
	}
	return nil
}

func shellHelp() {
	fmt.Println()
	type entry struct{ cmd, desc string }
	rows := []entry{
		{"list", "list all stored games"},
		{"show <hash-prefix>", "show one game's summary"},
		{"report [opponent] [--last N]", "tendency report over matching games"},
		{"calls [opponent] [--last N]", "down & distance play calls and routes"},
		{"help", "show this message"},
		{"exit / quit", "close the session"},
	}
	for _, r := range rows {
		fmt.Print("  ")
		cCmd.Printf("%-38s", r.cmd)
		fmt.Println(r.desc)
	}
	fmt.Println()
}

// parseShellFilter reads "[opponent] [--last N] [--down D]" arguments.
func parseShellFilter(args []string) (storage.PlayFilter, error) {
	var f storage.PlayFilter
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "--last", "--down":
			if i+1 >= len(args) {
				return f, fmt.Errorf("%s needs a value", args[i])
			}
			n, err := strconv.Atoi(args[i+1])
			if err != nil {
				return f, fmt.Errorf("invalid %s %q", args[i], args[i+1])
			}
			if args[i] == "--last" {
				f.LastN = n
			} else {
				f.Downs = append(f.Downs, n)
			}
			i++
		default:
			f.Opponent = args[i]
		}
	}
	return f, nil
}

func shellList(db *storage.DB) {
	games, err := db.ListGames()
	if err != nil {
		cError.Fprintf(os.Stderr, "error: %v\n", err)
		return
	}
	if len(games) == 0 {
		cMuted.Println("No games stored yet.")
		return
	}
	report.PrintGameList(os.Stdout, games)
}

func shellShow(db *storage.DB, prefix string) {
	game, err := db.GetGameByPrefix(prefix)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return
	}
	if game == nil {
		fmt.Fprintf(os.Stderr, "no game found with prefix %q\n", prefix)
		return
	}
	plays, err := db.Plays(storage.PlayFilter{GamePrefixes: []string{game.Hash}})
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return
	}
	if err := printGame(*game, plays); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
	}
}

func shellReport(db *storage.DB, f storage.PlayFilter, calls bool) {
	plays, err := db.Plays(f)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return
	}
	if len(plays) == 0 {
		cMuted.Println("No plays match.")
		return
	}
	fmt.Fprintln(os.Stdout)
	cHeader.Fprintf(os.Stdout, "=== %s  |  %d games  |  %d plays ===\n", describeFilter(f), countGames(plays), len(plays))

	if calls {
		rows, err := aggregator.DownDistanceCalls(plays, aggregator.DefaultBuckets)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			return
		}
		report.PrintCallsTable(os.Stdout, rows)
		return
	}

	summary, err := aggregator.Summarize(plays)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return
	}
	dnd, err := aggregator.DownAndDistance(plays, aggregator.DefaultBuckets)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return
	}
	rows, err := aggregator.FormationTendencies(plays)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return
	}
	report.PrintSummary(os.Stdout, summary, 10)
	report.PrintDownDistanceTable(os.Stdout, dnd)
	report.PrintTendencyTable(os.Stdout, "Formation > Backfield > Routes Tendencies",
		[]string{"formation", "backfield", "routes"}, rows)
}
