package aggregator

import (
	"errors"
	"reflect"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/pable/go-gameplan/internal/model"
)

type flatRow struct {
	form, back, route, pct string
}

func flat(rows []model.TendencyRow) []flatRow {
	out := make([]flatRow, len(rows))
	for i, r := range rows {
		out[i] = flatRow{r.Cells[0].String(), r.Cells[1].String(), r.Cells[2].String(), fixed1(r.Pct)}
	}
	return out
}

// TestFormationTendencies_GunEmptyScenario: 10 Gun/Empty plays, Stick×7, Go×3.
func TestFormationTendencies_GunEmptyScenario(t *testing.T) {
	plays := append(repeat(7, makePlay("Gun", "Empty", "Stick")), repeat(3, makePlay("Gun", "Empty", "Go"))...)

	rows, err := FormationTendencies(plays)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []flatRow{
		{"Gun", "", "", "100.0"},
		{"", "Empty", "", "100.0"},
		{"", "", "Go", "30.0"},
		{"", "", "Stick", "70.0"},
	}
	if got := flat(rows); !reflect.DeepEqual(got, want) {
		t.Errorf("report mismatch:\n got  %v\n want %v", got, want)
	}
	for i, r := range rows {
		if r.Depth != i && i < 2 {
			t.Errorf("row %d depth: got %d", i, r.Depth)
		}
		present := 0
		for _, c := range r.Cells {
			if c.Present {
				present++
			}
		}
		if present != 1 {
			t.Errorf("row %d: expected exactly one present cell, got %d", i, present)
		}
	}
}

func TestFormationTendencies_MixedHierarchy(t *testing.T) {
	rows, err := FormationTendencies(mixedPlays())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// 14 route plays: Ace 1, Gun 10, Trips 3.
	want := []flatRow{
		{"Ace", "", "", "7.1"},
		{"", "Near", "", "100.0"},
		{"", "", "Smash", "100.0"},
		{"Gun", "", "", "71.4"},
		{"", "Empty", "", "70.0"},
		{"", "", "Mesh", "28.6"},
		{"", "", "Stick", "71.4"},
		{"", "Near", "", "30.0"},
		{"", "", "Stick", "100.0"},
		{"Trips", "", "", "21.4"},
		{"", "Far", "", "100.0"},
		{"", "", "Flood", "33.3"},
		{"", "", "Verts", "66.7"},
	}
	if got := flat(rows); !reflect.DeepEqual(got, want) {
		t.Errorf("report mismatch:\n got  %v\n want %v", got, want)
	}
}

// TestFormationTendencies_NullRoutesExcluded: route-less plays contribute to
// no level, and a formation with only route-less plays is absent.
func TestFormationTendencies_NullRoutesExcluded(t *testing.T) {
	plays := append(repeat(2, makePlay("Gun", "Empty", "Stick")), repeat(8, makePlay("Gun", "Near", ""))...)
	plays = append(plays, repeat(5, makePlay("I", "Far", ""))...)

	rows, err := FormationTendencies(plays)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []flatRow{
		{"Gun", "", "", "100.0"},
		{"", "Empty", "", "100.0"},
		{"", "", "Stick", "100.0"},
	}
	if got := flat(rows); !reflect.DeepEqual(got, want) {
		t.Errorf("report mismatch:\n got  %v\n want %v", got, want)
	}
}

func TestFormationTendencies_LeafCountMatchesDistinctTriples(t *testing.T) {
	plays := mixedPlays()
	rows, err := FormationTendencies(plays)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	triples := make(map[[3]string]struct{})
	for _, p := range plays {
		if p.Routes.Valid {
			triples[[3]string{p.Formation, p.Backfield, p.Routes.String}] = struct{}{}
		}
	}
	leaves := 0
	for _, r := range rows {
		if r.Depth == 2 {
			leaves++
		}
	}
	if leaves != len(triples) {
		t.Errorf("leaf rows: got %d, want %d", leaves, len(triples))
	}
}

func TestFormationTendencies_PermutationInvariant(t *testing.T) {
	plays := mixedPlays()
	base, err := FormationTendencies(plays)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for seed := int64(1); seed <= 5; seed++ {
		got, err := FormationTendencies(shuffled(plays, seed))
		if err != nil {
			t.Fatalf("seed %d: unexpected error: %v", seed, err)
		}
		if !reflect.DeepEqual(flat(got), flat(base)) {
			t.Errorf("seed %d: report differs from unshuffled input", seed)
		}
	}
}

func TestFormationTendencies_Empty(t *testing.T) {
	rows, err := FormationTendencies(nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rows) != 0 {
		t.Errorf("expected no rows, got %d", len(rows))
	}
}

func TestTendencies_TwoLevels(t *testing.T) {
	rows, err := Tendencies(mixedPlays(), Formation, Backfield)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// Every play counts here: Ace 7, Gun 10, Trips 7 of 24.
	if len(rows) != 9 {
		t.Fatalf("expected 9 rows, got %d", len(rows))
	}
	if rows[0].Label() != "Ace" || fixed1(rows[0].Pct) != "29.2" || rows[0].Count != 7 {
		t.Errorf("Ace header: %+v (pct %s)", rows[0], fixed1(rows[0].Pct))
	}
	if len(rows[0].Cells) != 2 {
		t.Errorf("expected 2 cells per row, got %d", len(rows[0].Cells))
	}
}

func TestTendencies_NoLevels(t *testing.T) {
	if _, err := Tendencies(mixedPlays()); !errors.Is(err, ErrNoLevels) {
		t.Errorf("expected ErrNoLevels, got %v", err)
	}
}

// TestJoinTables_MissIsFatal: a leaf whose parent key is missing must fail
// rather than produce a blank percentage.
func TestJoinTables_MissIsFatal(t *testing.T) {
	leaf := model.ConditionalRow{Key: []string{"Gun", "Empty", "Stick"}, Count: 1, ParentCount: 1, Pct: hundred}
	tables := []map[string]model.ConditionalRow{
		{joinKey([]string{"Gun"}): {Key: []string{"Gun"}, Count: 1, ParentCount: 1, Pct: hundred}},
		{}, // formation+backfield table computed over a different set
		{joinKey(leaf.Key): leaf},
	}
	_, err := joinTables([]model.ConditionalRow{leaf}, tables)
	if !errors.Is(err, ErrJoinMiss) {
		t.Errorf("expected ErrJoinMiss, got %v", err)
	}
}

func TestTendencies_IntermediatePrecisionKept(t *testing.T) {
	// 1 of 3 formations → 33.333…; the flattened row is rounded once.
	plays := append(repeat(1, makePlay("Ace", "Far", "Go")), repeat(2, makePlay("Gun", "Far", "Go"))...)
	rows, err := FormationTendencies(plays)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !rows[0].Pct.Equal(decimal.RequireFromString("33.3")) {
		t.Errorf("Ace pct: got %s, want 33.3", rows[0].Pct)
	}
}
