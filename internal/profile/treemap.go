// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package profile

import (
	"cmp"
	"math"
	"slices"
	"strings"

	"github.com/ManuGH/innoviz/internal/dataset"
)

// missingCategory names the parent of rows without a category.
const missingCategory = "(unclassified)"

// idEscaper keeps "/" usable as the parent/leaf separator of node ids.
var idEscaper = strings.NewReplacer("%", "%25", "/", "%2F")

func nodeID(parts ...string) string {
	for i, p := range parts {
		parts[i] = idEscaper.Replace(p)
	}
	return strings.Join(parts, "/")
}

// Node is one tile of a two-level treemap. Parents have an empty Parent.
// IDs join the escaped parent and leaf names with "/".
type Node struct {
	ID     string  `json:"id"`
	Parent string  `json:"parent,omitempty"`
	Name   string  `json:"name"`
	Value  float64 `json:"value"`
	// Color is the prody value; nil without prody colouring or when unknown.
	Color *float64 `json:"color,omitempty"`
	// Code is the IPC4 subclass code of patent leaves.
	Code string `json:"code,omitempty"`
	// Leaves is the number of leaf tiles under a parent.
	Leaves int `json:"leaves,omitempty"`
}

// ColorScale describes continuous treemap colouring.
type ColorScale struct {
	Column string     `json:"column"`
	Scale  string     `json:"scale"`
	Label  string     `json:"label"`
	Range  ColorRange `json:"range"`
}

// Treemap is a country's two-level hierarchy: broad concept > concept for
// publications, IPC section > subclass for patents.
type Treemap struct {
	Kind        Kind        `json:"kind"`
	Country     Country     `json:"country"`
	ValueColumn string      `json:"valueColumn"`
	Color       *ColorScale `json:"color,omitempty"`
	Total       float64     `json:"total"`
	// Nodes lists each parent followed by its leaves, both ordered by
	// descending value then name.
	Nodes []Node `json:"nodes"`
}

type treeRow struct {
	parent, name, code string
	value, color       float64
}

// BuildTreemap builds the treemap of kind for country. Rows whose value is
// not positive are left out.
func BuildTreemap(t *dataset.Tables, kind Kind, country Country, o Options) (*Treemap, error) {
	cols, err := o.Columns(kind)
	if err != nil {
		return nil, err
	}

	var rows []treeRow
	switch kind {
	case KindPublications:
		for _, r := range t.PublicationsFor(country.Code) {
			tr, err := rowValues(r.Value, cols)
			if err != nil {
				return nil, err
			}
			tr.parent, tr.name = r.BroadConceptName, r.ConceptName
			rows = append(rows, tr)
		}
	case KindPatents:
		for _, r := range t.PatentsFor(country.Code) {
			tr, err := rowValues(r.Value, cols)
			if err != nil {
				return nil, err
			}
			tr.parent, tr.name, tr.code = r.SectionName, r.SubclassName, r.SubclassCode
			rows = append(rows, tr)
		}
	default:
		return nil, ErrUnknownKind
	}

	tm := &Treemap{Kind: kind, Country: country, ValueColumn: cols.Value, Nodes: []Node{}}
	if cols.Color != "" {
		tm.Color = &ColorScale{
			Column: cols.Color,
			Scale:  ColorScaleName,
			Label:  ColorLabel,
			Range:  ColorRanges[cols.Color],
		}
	}
	tm.Nodes, tm.Total = buildTree(rows, cols.Color != "")
	return tm, nil
}

func rowValues(value func(string) (float64, error), cols Columns) (treeRow, error) {
	v, err := value(cols.Value)
	if err != nil {
		return treeRow{}, err
	}
	c := math.NaN()
	if cols.Color != "" {
		if c, err = value(cols.Color); err != nil {
			return treeRow{}, err
		}
	}
	return treeRow{value: v, color: c}, nil
}

// weighted accumulates a value-weighted mean of finite colours.
type weighted struct {
	value, colorSum, colorWeight float64
}

func (w *weighted) add(value, color float64) {
	w.value += value
	if !math.IsNaN(color) && !math.IsInf(color, 0) {
		w.colorSum += value * color
		w.colorWeight += value
	}
}

func (w *weighted) color() *float64 {
	if w.colorWeight <= 0 {
		return nil
	}
	c := w.colorSum / w.colorWeight
	return &c
}

type leaf struct {
	name, code string
	weighted
}

type branch struct {
	name   string
	leaves map[string]*leaf
	weighted
}

func buildTree(rows []treeRow, colored bool) ([]Node, float64) {
	branches := make(map[string]*branch)
	var total float64
	for _, r := range rows {
		if !(r.value > 0) || math.IsInf(r.value, 0) {
			continue
		}
		parent := r.parent
		if parent == "" {
			parent = missingCategory
		}
		b, ok := branches[parent]
		if !ok {
			b = &branch{name: parent, leaves: make(map[string]*leaf)}
			branches[parent] = b
		}
		l, ok := b.leaves[r.name]
		if !ok {
			l = &leaf{name: r.name, code: r.code}
			b.leaves[r.name] = l
		}
		l.add(r.value, r.color)
		b.add(r.value, r.color)
		total += r.value
	}

	ordered := make([]*branch, 0, len(branches))
	for _, b := range branches {
		ordered = append(ordered, b)
	}
	slices.SortFunc(ordered, func(a, b *branch) int { return byValueThenName(a.value, b.value, a.name, b.name) })

	nodes := make([]Node, 0, len(rows)+len(ordered))
	for _, b := range ordered {
		parentID := nodeID(b.name)
		parent := Node{ID: parentID, Name: b.name, Value: b.value, Leaves: len(b.leaves)}
		if colored {
			parent.Color = b.color()
		}
		nodes = append(nodes, parent)

		leaves := make([]*leaf, 0, len(b.leaves))
		for _, l := range b.leaves {
			leaves = append(leaves, l)
		}
		slices.SortFunc(leaves, func(x, y *leaf) int { return byValueThenName(x.value, y.value, x.name, y.name) })
		for _, l := range leaves {
			n := Node{ID: nodeID(b.name, l.name), Parent: parentID, Name: l.name, Value: l.value, Code: l.code}
			if colored {
				n.Color = l.color()
			}
			nodes = append(nodes, n)
		}
	}
	return nodes, total
}

func byValueThenName(va, vb float64, na, nb string) int {
	if c := cmp.Compare(vb, va); c != 0 {
		return c
	}
	return cmp.Compare(na, nb)
}

// Children returns the leaves under the parent with the given id.
func (t *Treemap) Children(id string) []Node {
	var out []Node
	for _, n := range t.Nodes {
		if n.Parent == id {
			out = append(out, n)
		}
	}
	return out
}

// Roots returns the parent nodes.
func (t *Treemap) Roots() []Node {
	var out []Node
	for _, n := range t.Nodes {
		if n.Parent == "" {
			out = append(out, n)
		}
	}
	return out
}
