package model

import (
	"database/sql"
	"strings"

	"github.com/shopspring/decimal"
)

// PlayType is the run/pass classification of an offensive play.
type PlayType string

const (
	PlayTypeRun  PlayType = "Run"
	PlayTypePass PlayType = "Pass"
)

// ParsePlayType normalizes a raw sheet value. Values other than run/pass are
// returned trimmed but otherwise untouched.
func ParsePlayType(s string) PlayType {
	s = strings.TrimSpace(s)
	switch strings.ToLower(s) {
	case "run":
		return PlayTypeRun
	case "pass":
		return PlayTypePass
	default:
		return PlayType(s)
	}
}

func (t PlayType) String() string { return string(t) }

// ---- Raw ingestion output ----

// RawGame is one cleaned game file, ready to be stored.
type RawGame struct {
	Hash       string
	SourceFile string
	Date       string
	Opponent   string
	Plays      []Play
	Skipped    int // offensive rows dropped for a blank down
}

// ---- Stored entities ----

// Play is one offensive snap.
type Play struct {
	GameHash  string
	PlayIndex int

	Down     int
	Distance int

	Formation string
	Backfield string
	PlayCall  string
	PlayType  PlayType
	Routes    sql.NullString // invalid when the play has no route concept

	// Populated when queried across games (JOIN with games table).
	GameNumber int
	Date       string
	Opponent   string
}

// Game is a lightweight record for list/show commands.
type Game struct {
	Hash       string
	GameNumber int
	Date       string
	Opponent   string
	SourceFile string
	PlayCount  int
	ImportID   string // shared by all games loaded in one import run
	ImportedAt string
}

// ---- Derived tables ----

// ConditionalRow is one partition of a conditional percentage table.
// Pct is kept at full precision; round it only for display.
type ConditionalRow struct {
	Key         []string
	Count       int
	ParentCount int
	Pct         decimal.Decimal
}

// Cell is a report column value that is either present or absent.
type Cell struct {
	Value   string
	Present bool
}

// Some returns a present cell.
func Some(v string) Cell { return Cell{Value: v, Present: true} }

// String renders an absent cell as the empty string.
func (c Cell) String() string {
	if !c.Present {
		return ""
	}
	return c.Value
}

// TendencyRow is one line of a flattened hierarchical tendency report.
// Exactly one cell is present: the one at Depth.
type TendencyRow struct {
	Cells []Cell
	Depth int
	Count int
	Pct   decimal.Decimal // rounded to 1 decimal
}

// Label returns the populated cell's value.
func (r TendencyRow) Label() string {
	if r.Depth < 0 || r.Depth >= len(r.Cells) {
		return ""
	}
	return r.Cells[r.Depth].Value
}

// DownDistanceRow is the run/pass split for one down and distance bucket.
type DownDistanceRow struct {
	Down          int
	DistanceRange string
	RunCount      int
	PassCount     int
	OtherCount    int // play types outside run/pass; excluded from percentages
	RunPct        decimal.Decimal
	PassPct       decimal.Decimal
}

// Total is the number of run and pass plays in the bucket.
func (r DownDistanceRow) Total() int { return r.RunCount + r.PassCount }

// PlayCallShare is one entry in the play-call leaderboard.
type PlayCallShare struct {
	PlayCall string
	Count    int
	Pct      decimal.Decimal
}

// Summary holds run/pass totals and the play-call leaderboard.
type Summary struct {
	Total     int
	RunCount  int
	PassCount int
	RunPct    decimal.Decimal
	PassPct   decimal.Decimal
	TopPlays  []PlayCallShare
}

// ---- Storage overview ----

// Overview holds high-level statistics about the whole store.
type Overview struct {
	TotalGames     int
	TotalPlays     int
	EarliestGame   string
	LatestGame     string
	UniqueOpponent int
	RoutePlays     int
}

// OpponentCount is a per-opponent game/play tally.
type OpponentCount struct {
	Opponent string
	Games    int
	Plays    int
}
