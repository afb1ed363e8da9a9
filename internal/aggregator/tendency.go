package aggregator

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/pable/go-gameplan/internal/model"
)

// FormationTendencies builds the formation → backfield → route concept report.
// Plays without a route concept are excluded from every level.
func FormationTendencies(plays []model.Play) ([]model.TendencyRow, error) {
	return Tendencies(plays, Formation, Backfield, Routes)
}

// Tendencies computes one conditional percentage table per prefix of levels,
// joins them on their shared keys and flattens the result depth-first: a
// header row per first-level value, then a row per second-level value under
// it, and so on down to the leaves. Plays null at any level are dropped
// before anything is counted. Siblings are ordered lexicographically.
func Tendencies(plays []model.Play, levels ...Field) ([]model.TendencyRow, error) {
	if len(levels) == 0 {
		return nil, ErrNoLevels
	}

	filtered := make([]model.Play, 0, len(plays))
	for _, p := range plays {
		if !nullAt(p, levels) {
			filtered = append(filtered, p)
		}
	}

	tables := make([]map[string]model.ConditionalRow, len(levels))
	var leaves []model.ConditionalRow
	for depth := range levels {
		rows, err := Conditional(filtered, levels[:depth+1])
		if err != nil {
			return nil, fmt.Errorf("level %s: %w", levels[depth].Name, err)
		}
		tables[depth] = indexRows(rows)
		leaves = rows
	}

	root, err := joinTables(leaves, tables)
	if err != nil {
		return nil, err
	}
	var out []model.TendencyRow
	flatten(root, len(levels), &out)
	return out, nil
}

// tendencyNode is one value in the joined hierarchy.
type tendencyNode struct {
	label    string
	depth    int
	count    int
	pct      decimal.Decimal
	children map[string]*tendencyNode
}

func newNode(label string, depth int) *tendencyNode {
	return &tendencyNode{label: label, depth: depth, children: make(map[string]*tendencyNode)}
}

func indexRows(rows []model.ConditionalRow) map[string]model.ConditionalRow {
	idx := make(map[string]model.ConditionalRow, len(rows))
	for _, r := range rows {
		idx[joinKey(r.Key)] = r
	}
	return idx
}

// joinTables walks every leaf key and attaches each of its prefixes to the
// row in the table of matching depth. Only keys present in the leaf table
// reach the tree.
func joinTables(leaves []model.ConditionalRow, tables []map[string]model.ConditionalRow) (*tendencyNode, error) {
	root := newNode("", -1)
	for _, leaf := range leaves {
		if len(leaf.Key) != len(tables) {
			return nil, fmt.Errorf("%w: key %v has %d levels, want %d", ErrJoinMiss, leaf.Key, len(leaf.Key), len(tables))
		}
		parent := root
		for depth := range tables {
			prefix := leaf.Key[:depth+1]
			row, ok := tables[depth][joinKey(prefix)]
			if !ok {
				return nil, fmt.Errorf("%w: %v", ErrJoinMiss, prefix)
			}
			label := prefix[depth]
			child, ok := parent.children[label]
			if !ok {
				child = newNode(label, depth)
				child.count = row.Count
				child.pct = row.Pct
				parent.children[label] = child
			}
			parent = child
		}
	}
	return root, nil
}

func flatten(n *tendencyNode, width int, out *[]model.TendencyRow) {
	if n.depth >= 0 {
		cells := make([]model.Cell, width)
		cells[n.depth] = model.Some(n.label)
		*out = append(*out, model.TendencyRow{
			Cells: cells,
			Depth: n.depth,
			Count: n.count,
			Pct:   Round1(n.pct),
		})
	}
	labels := make([]string, 0, len(n.children))
	for l := range n.children {
		labels = append(labels, l)
	}
	sort.Strings(labels)
	for _, l := range labels {
		flatten(n.children[l], width, out)
	}
}
