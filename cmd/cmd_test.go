package cmd

import (
	"database/sql"
	"testing"

	"github.com/pable/go-gameplan/internal/model"
	"github.com/pable/go-gameplan/internal/storage"
)

func TestParseShellFilter(t *testing.T) {
	f, err := parseShellFilter([]string{"Westview", "--last", "3", "--down", "3", "--down", "4"})
	if err != nil {
		t.Fatalf("parseShellFilter: %v", err)
	}
	if f.Opponent != "Westview" || f.LastN != 3 || len(f.Downs) != 2 || f.Downs[1] != 4 {
		t.Errorf("unexpected filter %+v", f)
	}

	if _, err := parseShellFilter([]string{"--last"}); err == nil {
		t.Error("expected error for missing --last value")
	}
	if _, err := parseShellFilter([]string{"--down", "x"}); err == nil {
		t.Error("expected error for non-numeric --down")
	}
}

func TestDescribeFilter(t *testing.T) {
	cases := []struct {
		f    storage.PlayFilter
		want string
	}{
		{storage.PlayFilter{}, "all games"},
		{storage.PlayFilter{Opponent: "Westview", LastN: 2}, "opponent Westview, last 2 games"},
		{storage.PlayFilter{FromGame: 4, Downs: []int{3, 4}}, "from game 4, downs 3,4"},
	}
	for _, c := range cases {
		if got := describeFilter(c.f); got != c.want {
			t.Errorf("describeFilter(%+v) = %q, want %q", c.f, got, c.want)
		}
	}
}

func TestTendencyLevels(t *testing.T) {
	defer func() { reportLevels = nil }()

	_, names, err := tendencyLevels()
	if err != nil || len(names) != 3 || names[2] != "routes" {
		t.Fatalf("default levels: %v %v", names, err)
	}

	reportLevels = []string{"Formation", "play"}
	_, names, err = tendencyLevels()
	if err != nil {
		t.Fatalf("tendencyLevels: %v", err)
	}
	if names[0] != "formation" || names[1] != "playcall" {
		t.Errorf("names: %v", names)
	}
	if got := tendencyTitle(names); got != "Formation > Playcall Tendencies" {
		t.Errorf("title: %q", got)
	}

	reportLevels = []string{"weather"}
	if _, _, err := tendencyLevels(); err == nil {
		t.Error("expected error for unknown level")
	}
}

func TestBuildExport(t *testing.T) {
	route := func(s string) sql.NullString { return sql.NullString{String: s, Valid: true} }
	plays := []model.Play{
		{GameHash: "g1", Down: 1, Distance: 10, Formation: "Gun", Backfield: "Empty", PlayCall: "Stick", PlayType: model.PlayTypePass, Routes: route("Stick")},
		{GameHash: "g1", Down: 2, Distance: 4, Formation: "Gun", Backfield: "Empty", PlayCall: "Go", PlayType: model.PlayTypePass, Routes: route("Go")},
		{GameHash: "g2", Down: 3, Distance: 2, Formation: "I", Backfield: "Strong", PlayCall: "Power", PlayType: model.PlayTypeRun},
	}
	doc, err := buildExport(plays, storage.PlayFilter{}, true)
	if err != nil {
		t.Fatalf("buildExport: %v", err)
	}
	if doc.Games != 2 || doc.Plays != 3 {
		t.Errorf("counts: games=%d plays=%d", doc.Games, doc.Plays)
	}
	if doc.Summary.RunCount != 1 || doc.Summary.PassCount != 2 {
		t.Errorf("summary: %+v", doc.Summary)
	}
	// Gun header, Empty sub-header, Go and Stick leaves; the run play has no route.
	if len(doc.Tendencies) != 4 {
		t.Fatalf("want 4 tendency rows, got %+v", doc.Tendencies)
	}
	if doc.Tendencies[0].Level != "formation" || doc.Tendencies[2].Level != "routes" || doc.Tendencies[2].Value != "Go" {
		t.Errorf("tendency rows: %+v", doc.Tendencies)
	}
	if len(doc.Calls) != 3 {
		t.Errorf("want 3 call rows, got %d", len(doc.Calls))
	}

	noCalls, err := buildExport(plays, storage.PlayFilter{}, false)
	if err != nil {
		t.Fatalf("buildExport without calls: %v", err)
	}
	if noCalls.Calls != nil {
		t.Error("calls should be omitted")
	}
}

func TestGameTrendSplitsByGame(t *testing.T) {
	plays := []model.Play{
		{GameHash: "a", GameNumber: 1, Opponent: "Westview", PlayCall: "Power", PlayType: model.PlayTypeRun},
		{GameHash: "a", GameNumber: 1, Opponent: "Westview", PlayCall: "Stick", PlayType: model.PlayTypePass},
		{GameHash: "b", GameNumber: 2, Opponent: "Central", PlayCall: "Power", PlayType: model.PlayTypeRun},
	}
	rows, err := gameTrend(plays)
	if err != nil {
		t.Fatalf("gameTrend: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("want 2 games, got %d", len(rows))
	}
	if rows[0].Summary.Total != 2 || rows[1].Opponent != "Central" || rows[1].Summary.RunCount != 1 {
		t.Errorf("trend rows: %+v", rows)
	}
}

func TestFilterPlays(t *testing.T) {
	plays := []model.Play{
		{Down: 1, Formation: "Gun", PlayType: model.PlayTypePass, Routes: sql.NullString{String: "Go", Valid: true}},
		{Down: 3, Formation: "Gun", PlayType: model.PlayTypeRun},
		{Down: 3, Formation: "I", PlayType: model.PlayTypeRun},
	}
	if got := filterPlays(plays, 3, "", "", false); len(got) != 2 {
		t.Errorf("down filter: got %d", len(got))
	}
	if got := filterPlays(plays, 0, "RUN", "gun", false); len(got) != 1 {
		t.Errorf("type+formation filter: got %d", len(got))
	}
	if got := filterPlays(plays, 0, "", "", true); len(got) != 1 || got[0].Down != 1 {
		t.Errorf("routes filter: %+v", got)
	}
}
