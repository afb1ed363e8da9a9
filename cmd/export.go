package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/pable/go-gameplan/internal/aggregator"
	"github.com/pable/go-gameplan/internal/model"
	"github.com/pable/go-gameplan/internal/storage"
)

var exportOut string

// gamePlanExport is the JSON document written by export and sent to analyze.
type gamePlanExport struct {
	GeneratedAt  string           `json:"generated_at"`
	Filter       string           `json:"filter"`
	Games        int              `json:"games"`
	Plays        int              `json:"plays"`
	Summary      summaryExport    `json:"summary"`
	DownDistance []downDistExport `json:"down_distance"`
	Tendencies   []tendencyExport `json:"formation_tendencies"`
	Calls        []callExport     `json:"calls,omitempty"`
}

type summaryExport struct {
	RunCount  int              `json:"run_count"`
	PassCount int              `json:"pass_count"`
	RunPct    decimal.Decimal  `json:"run_pct"`
	PassPct   decimal.Decimal  `json:"pass_pct"`
	TopPlays  []playCallExport `json:"top_plays"`
}

type playCallExport struct {
	PlayCall string          `json:"play_call"`
	Count    int             `json:"count"`
	Pct      decimal.Decimal `json:"pct"`
}

type downDistExport struct {
	Down     int             `json:"down"`
	Distance string          `json:"distance"`
	Run      int             `json:"run"`
	Pass     int             `json:"pass"`
	RunPct   decimal.Decimal `json:"run_pct"`
	PassPct  decimal.Decimal `json:"pass_pct"`
}

type tendencyExport struct {
	Level string          `json:"level"`
	Value string          `json:"value"`
	Count int             `json:"count"`
	Pct   decimal.Decimal `json:"pct"`
}

type callExport struct {
	Key   []string        `json:"key"`
	Count int             `json:"count"`
	Pct   decimal.Decimal `json:"pct"`
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the game plan as JSON",
	Long: `Compute the run/pass summary, down & distance split, formation tendencies
and down & distance play calls for the filtered plays and write them as one
JSON document.

Example:
  gameplan export --opponent Westview --last 3 --out westview.json`,
	Args: cobra.NoArgs,
	RunE: runExport,
}

func init() {
	addFilterFlags(exportCmd)
	exportCmd.Flags().StringVar(&exportOut, "out", "", "output file path (default: stdout)")
}

func runExport(_ *cobra.Command, _ []string) error {
	plays, filter, err := loadPlays()
	if err != nil {
		return err
	}
	if len(plays) == 0 {
		return fmt.Errorf("no plays match the filters (%s)", describeFilter(filter))
	}
	fmt.Fprintf(os.Stderr, "Building game plan from %d plays in %d games...\n", len(plays), countGames(plays))

	doc, err := buildExport(plays, filter, true)
	if err != nil {
		return err
	}
	b, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}
	b = append(b, '\n')

	if exportOut == "" {
		_, err = os.Stdout.Write(b)
		return err
	}
	if err := os.WriteFile(exportOut, b, 0644); err != nil {
		return fmt.Errorf("write %s: %w", exportOut, err)
	}
	fmt.Fprintf(os.Stderr, "Wrote %s\n", exportOut)
	return nil
}

// buildExport runs every report over plays. withCalls adds the per-call
// breakdown, which can be large.
func buildExport(plays []model.Play, filter storage.PlayFilter, withCalls bool) (gamePlanExport, error) {
	doc := gamePlanExport{
		GeneratedAt: time.Now().UTC().Format(time.RFC3339),
		Filter:      describeFilter(filter),
		Games:       countGames(plays),
		Plays:       len(plays),
	}

	s, err := aggregator.Summarize(plays)
	if err != nil {
		return doc, fmt.Errorf("summarize: %w", err)
	}
	doc.Summary = summaryExport{RunCount: s.RunCount, PassCount: s.PassCount, RunPct: s.RunPct, PassPct: s.PassPct}
	for _, p := range s.TopPlays {
		doc.Summary.TopPlays = append(doc.Summary.TopPlays, playCallExport{PlayCall: p.PlayCall, Count: p.Count, Pct: p.Pct})
	}

	dnd, err := aggregator.DownAndDistance(plays, aggregator.DefaultBuckets)
	if err != nil {
		return doc, fmt.Errorf("down and distance: %w", err)
	}
	for _, r := range dnd {
		doc.DownDistance = append(doc.DownDistance, downDistExport{
			Down: r.Down, Distance: r.DistanceRange,
			Run: r.RunCount, Pass: r.PassCount,
			RunPct: r.RunPct, PassPct: r.PassPct,
		})
	}

	levels := []string{"formation", "backfield", "routes"}
	rows, err := aggregator.FormationTendencies(plays)
	if err != nil {
		return doc, fmt.Errorf("tendencies: %w", err)
	}
	for _, r := range rows {
		doc.Tendencies = append(doc.Tendencies, tendencyExport{
			Level: levels[r.Depth], Value: r.Label(), Count: r.Count, Pct: r.Pct,
		})
	}

	if !withCalls {
		return doc, nil
	}
	calls, err := aggregator.DownDistanceCalls(plays, aggregator.DefaultBuckets)
	if err != nil {
		return doc, fmt.Errorf("play calls: %w", err)
	}
	for _, c := range calls {
		doc.Calls = append(doc.Calls, callExport{Key: c.Key, Count: c.Count, Pct: aggregator.Round1(c.Pct)})
	}
	return doc, nil
}
