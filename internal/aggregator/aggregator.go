// Package aggregator computes play tendencies: conditional percentage tables,
// the down-and-distance run/pass split and flattened hierarchical reports.
package aggregator

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/pable/go-gameplan/internal/model"
)

var (
	// ErrNoLevels is returned when a table is requested with no grouping levels.
	ErrNoLevels = errors.New("no grouping levels")
	// ErrEmptyParent is returned when a percentage would divide by an empty group.
	ErrEmptyParent = errors.New("empty parent group")
	// ErrJoinMiss is returned when a child key has no row in its parent table.
	ErrJoinMiss = errors.New("child key missing from parent table")
	// ErrInvalidPlay is returned for plays that break the down and distance rules.
	ErrInvalidPlay = errors.New("invalid play")
)

// NoRoute is the key used for a play without a route concept when routes are
// filled rather than excluded.
const NoRoute = "-"

var hundred = decimal.NewFromInt(100)

// Field selects one categorical column of a play.
type Field struct {
	Name string
	// Fill is the key used for a null value when the field is not excluded.
	Fill  string
	value func(p model.Play) (string, bool)
}

// Value returns the field's value for p and whether it is present.
func (f Field) Value(p model.Play) (string, bool) {
	return f.value(p)
}

var (
	Formation = Field{Name: "formation", value: func(p model.Play) (string, bool) { return p.Formation, true }}
	Backfield = Field{Name: "backfield", value: func(p model.Play) (string, bool) { return p.Backfield, true }}
	PlayCall  = Field{Name: "playcall", value: func(p model.Play) (string, bool) { return p.PlayCall, true }}
	PlayType  = Field{Name: "playtype", value: func(p model.Play) (string, bool) { return p.PlayType.String(), true }}
	Opponent  = Field{Name: "opponent", value: func(p model.Play) (string, bool) { return p.Opponent, true }}
	Down      = Field{Name: "down", value: func(p model.Play) (string, bool) { return strconv.Itoa(p.Down), true }}
	Routes    = Field{Name: "routes", Fill: NoRoute, value: func(p model.Play) (string, bool) {
		return p.Routes.String, p.Routes.Valid
	}}
)

// DistanceRange returns a field keyed by the distance bucket label.
func DistanceRange(b Buckets) Field {
	return Field{Name: "distance", Fill: "?", value: func(p model.Play) (string, bool) {
		i := b.Index(p.Distance)
		if i < 0 {
			return "", false
		}
		return b[i].Label, true
	}}
}

// FieldByName resolves a --levels style field name.
func FieldByName(name string) (Field, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "formation", "form":
		return Formation, nil
	case "backfield", "backset":
		return Backfield, nil
	case "playcall", "play_call", "play":
		return PlayCall, nil
	case "playtype", "play_type", "type":
		return PlayType, nil
	case "routes", "route":
		return Routes, nil
	case "down":
		return Down, nil
	case "distance":
		return DistanceRange(DefaultBuckets), nil
	case "opponent":
		return Opponent, nil
	}
	return Field{}, fmt.Errorf("unknown field %q", name)
}

// Conditional partitions plays by the full levels tuple and computes, for each
// partition, its percentage of the partition formed by all but the last level.
// Plays that are null at any excludeNullOn field are dropped first. Rows come
// back in first-seen order.
func Conditional(plays []model.Play, levels []Field, excludeNullOn ...Field) ([]model.ConditionalRow, error) {
	if len(levels) == 0 {
		return nil, ErrNoLevels
	}

	type partition struct {
		key   []string
		count int
	}
	parts := make(map[string]*partition)
	parents := make(map[string]int)
	var order []string

	for _, p := range plays {
		if nullAt(p, excludeNullOn) {
			continue
		}
		key := make([]string, len(levels))
		for i, f := range levels {
			v, ok := f.Value(p)
			if !ok {
				v = f.Fill
			}
			key[i] = v
		}
		k := joinKey(key)
		pt, ok := parts[k]
		if !ok {
			pt = &partition{key: key}
			parts[k] = pt
			order = append(order, k)
		}
		pt.count++
		parents[joinKey(key[:len(key)-1])]++
	}

	rows := make([]model.ConditionalRow, 0, len(order))
	for _, k := range order {
		pt := parts[k]
		parent := parents[joinKey(pt.key[:len(pt.key)-1])]
		pct, err := percentOf(pt.count, parent)
		if err != nil {
			return nil, fmt.Errorf("partition %v: %w", pt.key, err)
		}
		rows = append(rows, model.ConditionalRow{
			Key:         pt.key,
			Count:       pt.count,
			ParentCount: parent,
			Pct:         pct,
		})
	}
	return rows, nil
}

// SortRows orders conditional rows lexicographically by key.
func SortRows(rows []model.ConditionalRow) {
	sort.SliceStable(rows, func(i, j int) bool {
		return lessKey(rows[i].Key, rows[j].Key)
	})
}

func lessKey(a, b []string) bool {
	for i := 0; i < len(a) && i < len(b); i++ {
		if a[i] != b[i] {
			return a[i] < b[i]
		}
	}
	return len(a) < len(b)
}

func nullAt(p model.Play, fields []Field) bool {
	for _, f := range fields {
		if _, ok := f.Value(p); !ok {
			return true
		}
	}
	return false
}

// joinKey builds a map key from a key tuple. NUL never appears in sheet text.
func joinKey(key []string) string {
	return strings.Join(key, "\x00")
}

// percentOf returns 100*n/d at full precision.
func percentOf(n, d int) (decimal.Decimal, error) {
	if d <= 0 {
		return decimal.Decimal{}, ErrEmptyParent
	}
	return decimal.NewFromInt(int64(n)).Mul(hundred).Div(decimal.NewFromInt(int64(d))), nil
}

// Round1 rounds a percentage to one decimal, half to even.
func Round1(d decimal.Decimal) decimal.Decimal {
	return d.RoundBank(1)
}
