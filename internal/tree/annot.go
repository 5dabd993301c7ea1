package tree

import (
	"sort"
	"strings"
)

// Centis is a clock reading in centiseconds.
type Centis int

// Eval carries a computer evaluation: centipawns or a mate distance,
// plus the engine's preferred continuation when known.
type Eval struct {
	CP   *int
	Mate *int
	Best string
}

// IsEmpty reports whether the eval carries no information.
func (e *Eval) IsEmpty() bool {
	return e == nil || (e.CP == nil && e.Mate == nil && e.Best == "")
}

// Opening is an opening-book match for a position.
type Opening struct {
	ECO  string
	Name string
}

// Dests maps each origin square to its legal destination squares.
// A nil map means destinations are unknown for this node.
type Dests map[Square][]Square

// Encode renders the compact wire form: one group per origin, the origin's
// piotr code followed by the destination codes, groups space-separated.
// Origins and destinations are emitted in square order so the encoding is
// deterministic.
func (d Dests) Encode() string {
	origs := make([]Square, 0, len(d))
	for o := range d {
		origs = append(origs, o)
	}
	sort.Slice(origs, func(i, j int) bool { return origs[i] < origs[j] })

	var sb strings.Builder
	for i, o := range origs {
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteByte(o.Piotr())
		dests := append([]Square(nil), d[o]...)
		sort.Slice(dests, func(i, j int) bool { return dests[i] < dests[j] })
		for _, t := range dests {
			sb.WriteByte(t.Piotr())
		}
	}
	return sb.String()
}

// ParseDests is the inverse of Encode. Malformed characters are skipped.
func ParseDests(s string) Dests {
	if s == "" {
		return Dests{}
	}
	d := make(Dests)
	for _, group := range strings.Split(s, " ") {
		if len(group) < 2 {
			continue
		}
		orig, ok := SquareFromPiotr(group[0])
		if !ok {
			continue
		}
		for i := 1; i < len(group); i++ {
			if dest, ok := SquareFromPiotr(group[i]); ok {
				d[orig] = append(d[orig], dest)
			}
		}
	}
	return d
}

// Drops lists the squares a held piece may be dropped on.
// The distinction between nil (unknown) and empty (no drops) is carried
// by a pointer on the node.
type Drops []Square

// Encode renders the drop squares as concatenated piotr codes, in square order.
func (d Drops) Encode() string {
	sorted := append(Drops(nil), d...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
	b := make([]byte, len(sorted))
	for i, s := range sorted {
		b[i] = s.Piotr()
	}
	return string(b)
}

// ParseDrops is the inverse of Encode.
func ParseDrops(s string) Drops {
	d := make(Drops, 0, len(s))
	for i := 0; i < len(s); i++ {
		if sq, ok := SquareFromPiotr(s[i]); ok {
			d = append(d, sq)
		}
	}
	return d
}

// ShapeType discriminates board shapes on the wire.
type ShapeType string

const (
	ShapeCircle ShapeType = "circle"
	ShapeArrow  ShapeType = "arrow"
)

// Shape is a freeform board annotation: a circle on one square, or an
// arrow between two. Shapes have no uniqueness constraint.
type Shape struct {
	Brush string
	Orig  Square
	Dest  *Square // nil for circles
}

func (s Shape) Type() ShapeType {
	if s.Dest != nil {
		return ShapeArrow
	}
	return ShapeCircle
}

// Shapes supports free concatenation.
type Shapes []Shape

// Concat returns the receiver followed by other, leaving both untouched.
func (ss Shapes) Concat(other Shapes) Shapes {
	out := make(Shapes, 0, len(ss)+len(other))
	out = append(out, ss...)
	return append(out, other...)
}

// Glyph is a standard move assessment symbol ("!", "??", "!?", ...).
type Glyph struct {
	ID     int
	Symbol string
	Name   string
}

type Glyphs []Glyph

// Pocket maps piece role names to counts held in hand.
type Pocket map[string]int

// CrazyData holds crazyhouse pocket state, white first.
type CrazyData struct {
	Pockets [2]Pocket
}
