package aggregator

import (
	"database/sql"
	"errors"
	"math/rand"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/pable/go-gameplan/internal/model"
)

// makePlay creates a minimal third-and-five pass with the given grouping values.
// An empty routes string means no route concept.
func makePlay(formation, backfield, routes string) model.Play {
	p := model.Play{
		GameHash:  "testhash",
		Down:      3,
		Distance:  5,
		Formation: formation,
		Backfield: backfield,
		PlayCall:  "Base",
		PlayType:  model.PlayTypePass,
	}
	if routes != "" {
		p.Routes = sql.NullString{String: routes, Valid: true}
	}
	return p
}

func repeat(n int, p model.Play) []model.Play {
	out := make([]model.Play, n)
	for i := range out {
		out[i] = p
		out[i].PlayIndex = i
	}
	return out
}

func fixed1(d decimal.Decimal) string { return d.StringFixed(1) }

// mixedPlays is a spread of formations, backfields and routes, including
// route-less runs.
func mixedPlays() []model.Play {
	var plays []model.Play
	plays = append(plays, repeat(5, makePlay("Gun", "Empty", "Stick"))...)
	plays = append(plays, repeat(2, makePlay("Gun", "Empty", "Mesh"))...)
	plays = append(plays, repeat(3, makePlay("Gun", "Near", "Stick"))...)
	plays = append(plays, repeat(1, makePlay("Trips", "Far", "Flood"))...)
	plays = append(plays, repeat(2, makePlay("Trips", "Far", "Verts"))...)
	plays = append(plays, repeat(4, makePlay("Trips", "Near", ""))...)
	plays = append(plays, repeat(6, makePlay("Ace", "Far", ""))...)
	plays = append(plays, repeat(1, makePlay("Ace", "Near", "Smash"))...)
	return plays
}

// ---- Conditional percentage primitive ----

func TestConditional_SingleLevelIsShareOfAll(t *testing.T) {
	plays := append(repeat(3, makePlay("Gun", "Empty", "Stick")), repeat(1, makePlay("Ace", "Far", "Go"))...)

	rows, err := Conditional(plays, []Field{Formation})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	// First-seen order.
	if rows[0].Key[0] != "Gun" || rows[0].Count != 3 || rows[0].ParentCount != 4 {
		t.Errorf("Gun row: %+v", rows[0])
	}
	if fixed1(rows[0].Pct) != "75.0" || fixed1(rows[1].Pct) != "25.0" {
		t.Errorf("pcts: got %s / %s, want 75.0 / 25.0", fixed1(rows[0].Pct), fixed1(rows[1].Pct))
	}
}

func TestConditional_ParentIsAllButLastLevel(t *testing.T) {
	rows, err := Conditional(mixedPlays(), []Field{Formation, Backfield})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, r := range rows {
		if r.Key[0] == "Gun" && r.Key[1] == "Near" {
			if r.Count != 3 || r.ParentCount != 10 {
				t.Errorf("Gun/Near: count=%d parent=%d, want 3/10", r.Count, r.ParentCount)
			}
			if fixed1(r.Pct) != "30.0" {
				t.Errorf("Gun/Near pct: got %s, want 30.0", fixed1(r.Pct))
			}
		}
	}
}

func TestConditional_ExcludeNullDropsFromNumeratorAndDenominator(t *testing.T) {
	plays := append(repeat(2, makePlay("Gun", "Empty", "Stick")), repeat(6, makePlay("Gun", "Empty", ""))...)

	rows, err := Conditional(plays, []Field{Formation}, Routes)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rows) != 1 || rows[0].Count != 2 || rows[0].ParentCount != 2 {
		t.Fatalf("expected a single Gun row of 2/2, got %+v", rows)
	}
}

func TestConditional_NullFilledWhenNotExcluded(t *testing.T) {
	plays := append(repeat(1, makePlay("Gun", "Empty", "Stick")), repeat(3, makePlay("Gun", "Empty", ""))...)

	rows, err := Conditional(plays, []Field{Formation, Routes})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	found := false
	for _, r := range rows {
		if r.Key[1] == NoRoute {
			found = true
			if r.Count != 3 || fixed1(r.Pct) != "75.0" {
				t.Errorf("filled row: count=%d pct=%s, want 3 / 75.0", r.Count, fixed1(r.Pct))
			}
		}
	}
	if !found {
		t.Error("expected a row keyed by the NoRoute placeholder")
	}
}

func TestConditional_NoLevels(t *testing.T) {
	_, err := Conditional(mixedPlays(), nil)
	if !errors.Is(err, ErrNoLevels) {
		t.Errorf("expected ErrNoLevels, got %v", err)
	}
}

func TestConditional_EmptyInput(t *testing.T) {
	rows, err := Conditional(nil, []Field{Formation, Backfield})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rows) != 0 {
		t.Errorf("expected no rows, got %d", len(rows))
	}
}

func TestPercentOf_ZeroParentFails(t *testing.T) {
	if _, err := percentOf(0, 0); !errors.Is(err, ErrEmptyParent) {
		t.Errorf("expected ErrEmptyParent, got %v", err)
	}
}

// TestConditional_ChildrenSumTo100: per parent, rounded child percentages
// sum to 100 within 0.1 per child.
func TestConditional_ChildrenSumTo100(t *testing.T) {
	var plays []model.Play
	plays = append(plays, repeat(1, makePlay("Gun", "Empty", "A"))...)
	plays = append(plays, repeat(1, makePlay("Gun", "Empty", "B"))...)
	plays = append(plays, repeat(1, makePlay("Gun", "Empty", "C"))...)
	plays = append(plays, repeat(2, makePlay("Gun", "Near", "A"))...)
	plays = append(plays, repeat(5, makePlay("Gun", "Near", "B"))...)
	plays = append(plays, repeat(7, makePlay("Ace", "Far", "A"))...)
	plays = append(plays, repeat(7, makePlay("Ace", "Far", "B"))...)
	plays = append(plays, repeat(7, makePlay("Ace", "Far", "C"))...)

	rows, err := Conditional(plays, []Field{Formation, Backfield, Routes})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	sums := make(map[string]decimal.Decimal)
	children := make(map[string]int)
	for _, r := range rows {
		parent := joinKey(r.Key[:2])
		sums[parent] = sums[parent].Add(Round1(r.Pct))
		children[parent]++
	}
	for parent, sum := range sums {
		tol := decimal.NewFromFloat(0.1).Mul(decimal.NewFromInt(int64(children[parent])))
		if sum.Sub(hundred).Abs().GreaterThan(tol) {
			t.Errorf("parent %q: child pcts sum to %s", parent, sum)
		}
	}
}

func TestFieldByName(t *testing.T) {
	for _, name := range []string{"formation", "Backfield", "play_call", "routes", "down", "distance", "opponent", "playtype"} {
		if _, err := FieldByName(name); err != nil {
			t.Errorf("FieldByName(%q): %v", name, err)
		}
	}
	if _, err := FieldByName("hash"); err == nil {
		t.Error("expected error for unknown field")
	}
}

// ---- Summary ----

func TestSummarize(t *testing.T) {
	var plays []model.Play
	for i := 0; i < 3; i++ {
		p := makePlay("Gun", "Empty", "")
		p.PlayType = model.PlayTypeRun
		p.PlayCall = "Inside Zone"
		plays = append(plays, p)
	}
	for i := 0; i < 4; i++ {
		p := makePlay("Gun", "Empty", "Stick")
		p.PlayCall = "Stick"
		plays = append(plays, p)
	}
	p := makePlay("Gun", "Empty", "Go")
	p.PlayCall = "Fade"
	plays = append(plays, p)

	s, err := Summarize(plays)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.Total != 8 || s.RunCount != 3 || s.PassCount != 5 {
		t.Errorf("totals: %+v", s)
	}
	if fixed1(s.RunPct) != "37.5" || fixed1(s.PassPct) != "62.5" {
		t.Errorf("pcts: run=%s pass=%s", fixed1(s.RunPct), fixed1(s.PassPct))
	}
	if len(s.TopPlays) != 3 || s.TopPlays[0].PlayCall != "Stick" || s.TopPlays[1].PlayCall != "Inside Zone" {
		t.Errorf("leaderboard order: %+v", s.TopPlays)
	}
	if fixed1(s.TopPlays[2].Pct) != "12.5" {
		t.Errorf("Fade pct: got %s, want 12.5", fixed1(s.TopPlays[2].Pct))
	}
}

func TestSummarize_Empty(t *testing.T) {
	s, err := Summarize(nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.Total != 0 || len(s.TopPlays) != 0 {
		t.Errorf("expected empty summary, got %+v", s)
	}
}

func shuffled(plays []model.Play, seed int64) []model.Play {
	out := append([]model.Play(nil), plays...)
	r := rand.New(rand.NewSource(seed))
	r.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	return out
}
