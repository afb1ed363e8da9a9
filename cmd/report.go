package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pable/go-gameplan/internal/aggregator"
	"github.com/pable/go-gameplan/internal/report"
)

var (
	reportHTML   string
	reportLevels []string
	reportTop    int
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Print the game plan: run/pass summary, down & distance, tendencies",
	Long: `Build the tendency report over the stored plays matching the filters.

The default tendency hierarchy is formation > backfield > routes, computed on
plays that have a route concept. --levels picks any other hierarchy, e.g.
--levels formation,backfield,playcall. Valid level names: formation,
backfield, playcall, playtype, routes, down, distance, opponent.`,
	Args: cobra.NoArgs,
	RunE: runReport,
}

func init() {
	addFilterFlags(reportCmd)
	reportCmd.Flags().StringVar(&reportHTML, "html", "", "also write a printable HTML report to this path")
	reportCmd.Flags().StringSliceVar(&reportLevels, "levels", nil, "tendency hierarchy (default formation,backfield,routes)")
	reportCmd.Flags().IntVar(&reportTop, "top", 10, "play calls to list in the summary (0 = all)")
}

func tendencyLevels() ([]aggregator.Field, []string, error) {
	if len(reportLevels) == 0 {
		return []aggregator.Field{aggregator.Formation, aggregator.Backfield, aggregator.Routes},
			[]string{"formation", "backfield", "routes"}, nil
	}
	fields := make([]aggregator.Field, len(reportLevels))
	names := make([]string, len(reportLevels))
	for i, name := range reportLevels {
		f, err := aggregator.FieldByName(name)
		if err != nil {
			return nil, nil, err
		}
		fields[i], names[i] = f, f.Name
	}
	return fields, names, nil
}

func runReport(cmd *cobra.Command, args []string) error {
	levels, names, err := tendencyLevels()
	if err != nil {
		return err
	}
	plays, filter, err := loadPlays()
	if err != nil {
		return err
	}
	if len(plays) == 0 {
		fmt.Fprintln(os.Stdout, "No plays match the filters.")
		return nil
	}

	summary, err := aggregator.Summarize(plays)
	if err != nil {
		return fmt.Errorf("summarize: %w", err)
	}
	dnd, err := aggregator.DownAndDistance(plays, aggregator.DefaultBuckets)
	if err != nil {
		return fmt.Errorf("down and distance: %w", err)
	}
	tendencies, err := aggregator.Tendencies(plays, levels...)
	if err != nil {
		return fmt.Errorf("tendencies: %w", err)
	}

	title := "Game Plan"
	if filterOpponent != "" {
		title += " vs " + filterOpponent
	}
	subtitle := fmt.Sprintf("%s  |  %d games  |  %d plays", describeFilter(filter), countGames(plays), len(plays))
	tendencyTitle := tendencyTitle(names)

	fmt.Fprintf(os.Stdout, "\n=== %s ===\n%s\n", title, subtitle)
	report.PrintSummary(os.Stdout, summary, reportTop)
	report.PrintDownDistanceTable(os.Stdout, dnd)
	report.PrintTendencyTable(os.Stdout, tendencyTitle, names, tendencies)

	if reportHTML == "" {
		return nil
	}
	return writeHTMLReport(reportHTML, report.Document{
		Title:    title,
		Subtitle: subtitle,
		Sections: append(report.SummarySections(summary, reportTop),
			report.DownDistanceSection(dnd),
			report.TendencySection(tendencyTitle, names, tendencies),
		),
	})
}

func tendencyTitle(names []string) string {
	parts := make([]string, len(names))
	for i, n := range names {
		parts[i] = strings.ToUpper(n[:1]) + n[1:]
	}
	return strings.Join(parts, " > ") + " Tendencies"
}

func writeHTMLReport(path string, doc report.Document) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := report.WriteHTML(f, doc); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	fmt.Fprintf(os.Stderr, "Wrote %s\n", path)
	return nil
}
