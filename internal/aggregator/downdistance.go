package aggregator

import (
	"fmt"
	"sort"

	"github.com/pable/go-gameplan/internal/model"
)

// DistanceBucket is a half-open distance range starting at Min and ending at
// the next bucket's Min.
type DistanceBucket struct {
	Label string
	Min   int
}

// Buckets is an ascending list of distance buckets.
type Buckets []DistanceBucket

// DefaultBuckets are the scouting report's distance ranges. The "7-10" label
// is cosmetic: the boundary is at 6 yards.
var DefaultBuckets = Buckets{
	{Label: "0-6", Min: 0},
	{Label: "7-10", Min: 6},
	{Label: "10+", Min: 10},
}

// Index returns the bucket holding distance, or -1 if it is below the first one.
func (b Buckets) Index(distance int) int {
	idx := -1
	for i, bk := range b {
		if distance < bk.Min {
			break
		}
		idx = i
	}
	return idx
}

// Order returns the position of the bucket with the given label, or len(b).
func (b Buckets) Order(label string) int {
	for i, bk := range b {
		if bk.Label == label {
			return i
		}
	}
	return len(b)
}

func validatePlay(p model.Play) error {
	if p.Down < 1 || p.Down > 4 {
		return fmt.Errorf("%w: game %s play %d has down %d", ErrInvalidPlay, shortHash(p.GameHash), p.PlayIndex, p.Down)
	}
	if p.Distance < 0 {
		return fmt.Errorf("%w: game %s play %d has distance %d", ErrInvalidPlay, shortHash(p.GameHash), p.PlayIndex, p.Distance)
	}
	return nil
}

func shortHash(h string) string {
	if len(h) > 12 {
		return h[:12]
	}
	return h
}

// DownAndDistance cross-tabulates plays by down and distance bucket against
// play type. Buckets without a run or pass play are omitted. Rows are ordered
// by down, then bucket order.
func DownAndDistance(plays []model.Play, buckets Buckets) ([]model.DownDistanceRow, error) {
	type ddKey struct{ down, bucket int }
	cells := make(map[ddKey]*model.DownDistanceRow)

	for _, p := range plays {
		if err := validatePlay(p); err != nil {
			return nil, err
		}
		bi := buckets.Index(p.Distance)
		if bi < 0 {
			return nil, fmt.Errorf("%w: distance %d below first bucket", ErrInvalidPlay, p.Distance)
		}
		k := ddKey{p.Down, bi}
		row, ok := cells[k]
		if !ok {
			row = &model.DownDistanceRow{Down: p.Down, DistanceRange: buckets[bi].Label}
			cells[k] = row
		}
		switch p.PlayType {
		case model.PlayTypeRun:
			row.RunCount++
		case model.PlayTypePass:
			row.PassCount++
		default:
			row.OtherCount++
		}
	}

	keys := make([]ddKey, 0, len(cells))
	for k := range cells {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].down != keys[j].down {
			return keys[i].down < keys[j].down
		}
		return keys[i].bucket < keys[j].bucket
	})

	out := make([]model.DownDistanceRow, 0, len(keys))
	for _, k := range keys {
		row := cells[k]
		total := row.Total()
		if total == 0 {
			continue
		}
		runPct, err := percentOf(row.RunCount, total)
		if err != nil {
			return nil, err
		}
		passPct, err := percentOf(row.PassCount, total)
		if err != nil {
			return nil, err
		}
		row.RunPct = runPct.RoundBank(0)
		row.PassPct = passPct.RoundBank(0)
		out = append(out, *row)
	}
	return out, nil
}

// DownDistanceCalls breaks each down and distance bucket into formation,
// backfield, play call and route percentages. Plays without a route concept
// are kept under the NoRoute key.
func DownDistanceCalls(plays []model.Play, buckets Buckets) ([]model.ConditionalRow, error) {
	for _, p := range plays {
		if err := validatePlay(p); err != nil {
			return nil, err
		}
	}
	rows, err := Conditional(plays, []Field{Down, DistanceRange(buckets), Formation, Backfield, PlayCall, Routes})
	if err != nil {
		return nil, err
	}
	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i].Key, rows[j].Key
		if a[0] != b[0] {
			return a[0] < b[0] // single digit downs
		}
		oa, ob := buckets.Order(a[1]), buckets.Order(b[1])
		if oa != ob {
			return oa < ob
		}
		return lessKey(a[2:], b[2:])
	})
	return rows, nil
}
