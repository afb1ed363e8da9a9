package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/shopspring/decimal"

	"github.com/pable/go-gameplan/internal/model"
)

// Column headers shared by the terminal and HTML renderers.
var (
	DownDistanceHeaders = []string{"DN", "DIST", "RUN", "PASS", "RUN %", "PASS %"}
	SummaryHeaders      = []string{"TYPE", "%", "COUNT"}
	TopPlayHeaders      = []string{"PLAY", "%", "COUNT"}
	CallsHeaders        = []string{"DN", "DIST", "FORMATION", "BACKSET", "PLAY", "ROUTES", "COUNT", "%"}
)

// TendencyHeaders returns one column per level name plus the percentage.
func TendencyHeaders(levels []string) []string {
	h := make([]string, 0, len(levels)+1)
	for _, l := range levels {
		h = append(h, strings.ToUpper(l))
	}
	return append(h, "%")
}

func pct1(d decimal.Decimal) string { return d.StringFixed(1) }

func pct0(d decimal.Decimal) string { return d.StringFixed(0) + "%" }

// PrintGameHeader prints a one-line summary header for a stored game.
func PrintGameHeader(w io.Writer, g model.Game) {
	fmt.Fprintf(w, "\nGame %d  |  Date: %s  |  Opponent: %s  |  Plays: %d  |  Hash: %s\n\n",
		g.GameNumber, g.Date, g.Opponent, g.PlayCount, g.Hash[:min(12, len(g.Hash))])
}

func newTable(w io.Writer) *tablewriter.Table {
	return tablewriter.NewTable(w, tablewriter.WithConfig(tablewriter.Config{
		Row: tw.CellConfig{
			Alignment: tw.CellAlignment{Global: tw.AlignRight},
		},
		Header: tw.CellConfig{
			Alignment: tw.CellAlignment{Global: tw.AlignCenter},
		},
	}))
}

func render(w io.Writer, headers []string, records [][]string) {
	table := newTable(w)
	h := make([]any, len(headers))
	for i, c := range headers {
		h[i] = c
	}
	table.Header(h...)
	for _, rec := range records {
		row := make([]any, len(rec))
		for i, v := range rec {
			row[i] = v
		}
		table.Append(row...)
	}
	table.Render()
}

// SummaryRecords renders the run/pass totals as table rows.
func SummaryRecords(s model.Summary) [][]string {
	total := strconv.Itoa(s.Total)
	return [][]string{
		{"Run", pct1(s.RunPct), strconv.Itoa(s.RunCount) + "/" + total},
		{"Pass", pct1(s.PassPct), strconv.Itoa(s.PassCount) + "/" + total},
	}
}

// TopPlayRecords renders up to limit leaderboard entries (0 = all).
func TopPlayRecords(s model.Summary, limit int) [][]string {
	plays := s.TopPlays
	if limit > 0 && len(plays) > limit {
		plays = plays[:limit]
	}
	total := strconv.Itoa(s.Total)
	out := make([][]string, len(plays))
	for i, p := range plays {
		out[i] = []string{p.PlayCall, pct1(p.Pct), strconv.Itoa(p.Count) + "/" + total}
	}
	return out
}

// DownDistanceRecords renders down-and-distance rows.
func DownDistanceRecords(rows []model.DownDistanceRow) [][]string {
	out := make([][]string, len(rows))
	for i, r := range rows {
		out[i] = []string{
			strconv.Itoa(r.Down),
			r.DistanceRange,
			strconv.Itoa(r.RunCount),
			strconv.Itoa(r.PassCount),
			pct0(r.RunPct),
			pct0(r.PassPct),
		}
	}
	return out
}

// TendencyRecords renders a flattened tendency report. Absent cells are blank.
func TendencyRecords(rows []model.TendencyRow) [][]string {
	out := make([][]string, len(rows))
	for i, r := range rows {
		rec := make([]string, 0, len(r.Cells)+1)
		for _, c := range r.Cells {
			rec = append(rec, c.String())
		}
		out[i] = append(rec, pct1(r.Pct))
	}
	return out
}

// CallsRecords renders the down-and-distance play-call breakdown.
func CallsRecords(rows []model.ConditionalRow) [][]string {
	out := make([][]string, len(rows))
	for i, r := range rows {
		rec := append([]string(nil), r.Key...)
		out[i] = append(rec, strconv.Itoa(r.Count), pct1(r.Pct.RoundBank(1)))
	}
	return out
}

// PrintSummary prints run/pass totals and the top play calls.
func PrintSummary(w io.Writer, s model.Summary, topN int) {
	if s.Total == 0 {
		fmt.Fprintln(w, "No plays match.")
		return
	}
	fmt.Fprintln(w, "\n--- Run/Pass ---")
	render(w, SummaryHeaders, SummaryRecords(s))
	fmt.Fprintln(w, "\n--- Top Plays ---")
	render(w, TopPlayHeaders, TopPlayRecords(s, topN))
}

// PrintDownDistanceTable prints the run/pass split per down and distance.
func PrintDownDistanceTable(w io.Writer, rows []model.DownDistanceRow) {
	fmt.Fprintln(w, "\n--- Down & Distance ---")
	if len(rows) == 0 {
		fmt.Fprintln(w, "(no plays)")
		return
	}
	render(w, DownDistanceHeaders, DownDistanceRecords(rows))
}

// PrintTendencyTable prints a flattened tendency report under title.
func PrintTendencyTable(w io.Writer, title string, levels []string, rows []model.TendencyRow) {
	fmt.Fprintf(w, "\n--- %s ---\n", title)
	if len(rows) == 0 {
		fmt.Fprintln(w, "(no plays)")
		return
	}
	render(w, TendencyHeaders(levels), TendencyRecords(rows))
}

// PrintCallsTable prints the down-and-distance play-call breakdown.
func PrintCallsTable(w io.Writer, rows []model.ConditionalRow) {
	fmt.Fprintln(w, "\n--- Down & Distance Plays and Routes ---")
	if len(rows) == 0 {
		fmt.Fprintln(w, "(no plays)")
		return
	}
	render(w, CallsHeaders, CallsRecords(rows))
}

// PrintGameList prints stored games, one per line.
func PrintGameList(w io.Writer, games []model.Game) {
	fmt.Fprintf(w, "%-4s  %-14s  %-10s  %-16s  %5s  %s\n",
		"NO", "HASH", "DATE", "OPPONENT", "PLAYS", "FILE")
	fmt.Fprintf(w, "%-4s  %-14s  %-10s  %-16s  %5s  %s\n",
		"────", "──────────────", "──────────", "────────────────", "─────", "────")
	for _, g := range games {
		fmt.Fprintf(w, "%-4d  %-14s  %-10s  %-16s  %5d  %s\n",
			g.GameNumber, g.Hash[:min(12, len(g.Hash))], g.Date, g.Opponent, g.PlayCount, g.SourceFile)
	}
}

// PrintOpponentTable prints per-opponent game and play counts.
func PrintOpponentTable(w io.Writer, counts []model.OpponentCount) {
	records := make([][]string, len(counts))
	for i, c := range counts {
		name := c.Opponent
		if name == "" {
			name = "—"
		}
		records[i] = []string{name, strconv.Itoa(c.Games), strconv.Itoa(c.Plays)}
	}
	render(w, []string{"OPPONENT", "GAMES", "PLAYS"}, records)
}

// PrintRaw prints arbitrary query results.
func PrintRaw(w io.Writer, cols []string, rows [][]string) {
	render(w, cols, rows)
}

// TrendRow is one game in a chronological run/pass trend.
type TrendRow struct {
	GameNumber int
	Date       string
	Opponent   string
	Summary    model.Summary
}

// PrintTrendTable prints one row per game with its run/pass split and most
// frequent call.
func PrintTrendTable(w io.Writer, rows []TrendRow) {
	fmt.Fprintln(w, "\n--- Run/Pass Trend ---")
	records := make([][]string, len(rows))
	for i, r := range rows {
		top := "—"
		if len(r.Summary.TopPlays) > 0 {
			p := r.Summary.TopPlays[0]
			top = fmt.Sprintf("%s (%d)", p.PlayCall, p.Count)
		}
		records[i] = []string{
			strconv.Itoa(r.GameNumber), r.Date, r.Opponent,
			strconv.Itoa(r.Summary.Total),
			pct1(r.Summary.RunPct), pct1(r.Summary.PassPct),
			top,
		}
	}
	render(w, []string{"GAME", "DATE", "OPPONENT", "PLAYS", "RUN %", "PASS %", "TOP CALL"}, records)
}

// PrintPlayTable prints individual snaps. Plays without a route show "—".
func PrintPlayTable(w io.Writer, plays []model.Play) {
	records := make([][]string, len(plays))
	for i, p := range plays {
		routes := "—"
		if p.Routes.Valid {
			routes = p.Routes.String
		}
		records[i] = []string{
			strconv.Itoa(p.PlayIndex + 1),
			strconv.Itoa(p.Down), strconv.Itoa(p.Distance),
			p.Formation, p.Backfield, p.PlayCall, p.PlayType.String(), routes,
		}
	}
	render(w, []string{"#", "DN", "DIST", "FORMATION", "BACKSET", "PLAY", "TYPE", "ROUTES"}, records)
}
