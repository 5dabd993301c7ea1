// Package wire converts game trees to and from their versioned external
// JSON representation. Field presence is value-driven: a field appears only
// when its source is present and non-default, so the encoder is an explicit
// ordered builder rather than reflection over struct tags.
package wire

import (
	"bytes"
	"encoding/json"

	"github.com/chesskit/studytree/internal/tree"
)

// Mode selects the subtree encoding.
type Mode int

const (
	// Full always includes a children field, even when empty. Used by
	// consumers needing a stable schema.
	Full Mode = iota
	// Minimal includes children only when non-empty. Used for compact
	// exports.
	Minimal
)

// field is one key/value pair of an ordered object.
type field struct {
	key string
	val any
}

// obj is an insertion-ordered JSON object. Declaration order is preserved
// on the wire, which keeps output deterministic.
type obj struct {
	fields []field
}

func (o *obj) set(key string, val any) {
	o.fields = append(o.fields, field{key, val})
}

func (o *obj) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range o.fields {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(f.key)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		v, err := json.Marshal(f.val)
		if err != nil {
			return nil, err
		}
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Marshal serializes a root and its subtree.
func Marshal(r *tree.Root, mode Mode) ([]byte, error) {
	return json.Marshal(rootObj(r, mode))
}

// MarshalBranch serializes a branch and its subtree.
func MarshalBranch(b *tree.Branch, mode Mode) ([]byte, error) {
	return json.Marshal(branchObj(b, mode, true))
}

// MarshalPartition ignores variations entirely and serializes the mainline
// as a flat ordered array of minimal-mode nodes: no children fields, no
// recursion. This is the collapsed-mainline export.
func MarshalPartition(r *tree.Root) ([]byte, error) {
	line := r.Mainline()
	out := make([]any, 0, len(line))
	for _, b := range line {
		out = append(out, branchObj(b, Minimal, false))
	}
	return json.Marshal(out)
}

func rootObj(r *tree.Root, mode Mode) *obj {
	o := &obj{}
	o.set("ply", r.Ply)
	o.set("fen", r.FEN)
	annotFields(o, &r.Node)
	if r.ClockWhite != nil && r.ClockBlack != nil {
		o.set("clock", []any{int(*r.ClockWhite), int(*r.ClockBlack)})
	}
	if r.Crazy != nil {
		o.set("crazy", crazyObj(r.Crazy))
	}
	if r.Comp {
		o.set("comp", true)
	}
	childrenField(o, r.Children, mode)
	return o
}

func branchObj(b *tree.Branch, mode Mode, recurse bool) *obj {
	o := &obj{}
	o.set("ply", b.Ply)
	o.set("fen", b.FEN)
	o.set("id", string(b.ID))
	o.set("uci", b.Move.UCI)
	o.set("san", b.Move.SAN)
	annotFields(o, &b.Node)
	if b.Clock != nil {
		o.set("clock", int(*b.Clock))
	}
	if b.Crazy != nil {
		o.set("crazy", crazyObj(b.Crazy))
	}
	if b.Comp {
		o.set("comp", true)
	}
	if recurse {
		childrenField(o, b.Children, mode)
	}
	return o
}

// annotFields emits the shared conditional fields between fen and clock:
// check, eval, comments, glyphs, shapes, opening, dests, drops.
func annotFields(o *obj, n *tree.Node) {
	if n.Check {
		o.set("check", true)
	}
	if !n.Eval.IsEmpty() {
		o.set("eval", evalObj(n.Eval))
	}
	if comments := n.Comments.FilterMeta(); len(comments) > 0 {
		vals := make([]any, 0, len(comments))
		for _, c := range comments {
			vals = append(vals, commentObj(c))
		}
		o.set("comments", vals)
	}
	if len(n.Glyphs) > 0 {
		vals := make([]any, 0, len(n.Glyphs))
		for _, g := range n.Glyphs {
			vals = append(vals, glyphObj(g))
		}
		o.set("glyphs", vals)
	}
	if len(n.Shapes) > 0 {
		vals := make([]any, 0, len(n.Shapes))
		for _, s := range n.Shapes {
			vals = append(vals, shapeObj(s))
		}
		o.set("shapes", vals)
	}
	if n.Opening != nil {
		op := &obj{}
		op.set("eco", n.Opening.ECO)
		op.set("name", n.Opening.Name)
		o.set("opening", op)
	}
	if n.Dests != nil {
		o.set("dests", n.Dests.Encode())
	}
	if n.Drops != nil {
		o.set("drops", n.Drops.Encode())
	}
}

func childrenField(o *obj, children tree.Branches, mode Mode) {
	if mode == Minimal && len(children) == 0 {
		return
	}
	vals := make([]any, 0, len(children))
	for _, c := range children {
		vals = append(vals, branchObj(c, mode, true))
	}
	o.set("children", vals)
}

func evalObj(e *tree.Eval) *obj {
	o := &obj{}
	if e.CP != nil {
		o.set("cp", *e.CP)
	}
	if e.Mate != nil {
		o.set("mate", *e.Mate)
	}
	if e.Best != "" {
		o.set("best", e.Best)
	}
	return o
}

func commentObj(c tree.Comment) *obj {
	o := &obj{}
	o.set("id", string(c.ID))
	o.set("text", c.Text)
	o.set("by", tree.EncodeAuthor(c.By))
	return o
}

func glyphObj(g tree.Glyph) *obj {
	o := &obj{}
	o.set("id", g.ID)
	o.set("symbol", g.Symbol)
	o.set("name", g.Name)
	return o
}

func shapeObj(s tree.Shape) *obj {
	o := &obj{}
	o.set("type", string(s.Type()))
	o.set("brush", s.Brush)
	squares := []string{s.Orig.String()}
	if s.Dest != nil {
		squares = append(squares, s.Dest.String())
	}
	o.set("squares", squares)
	return o
}

func crazyObj(c *tree.CrazyData) *obj {
	o := &obj{}
	pockets := make([]any, 2)
	for i, p := range c.Pockets {
		if p == nil {
			p = tree.Pocket{}
		}
		pockets[i] = p
	}
	o.set("pockets", pockets)
	return o
}
