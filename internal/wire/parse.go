package wire

import (
	"errors"
	"fmt"

	"github.com/ohler55/ojg/oj"

	"github.com/chesskit/studytree/internal/tree"
)

var errNotObject = errors.New("wire: not a JSON object")

// Unmarshal parses a full or minimal mode root back into a tree.
// Omitted optional fields decode to their absent values.
func Unmarshal(data []byte) (*tree.Root, error) {
	v, err := oj.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse tree json: %w", err)
	}
	m, ok := v.(map[string]any)
	if !ok {
		return nil, errNotObject
	}
	r := &tree.Root{}
	if err := decodeCommon(m, &r.Node); err != nil {
		return nil, err
	}
	if c, ok := m["clock"].([]any); ok && len(c) == 2 {
		if w, ok := asInt(c[0]); ok {
			cw := tree.Centis(w)
			r.ClockWhite = &cw
		}
		if b, ok := asInt(c[1]); ok {
			cb := tree.Centis(b)
			r.ClockBlack = &cb
		}
	}
	return r, nil
}

// UnmarshalBranch parses a single serialized branch and its subtree.
func UnmarshalBranch(data []byte) (*tree.Branch, error) {
	v, err := oj.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse branch json: %w", err)
	}
	m, ok := v.(map[string]any)
	if !ok {
		return nil, errNotObject
	}
	return decodeBranch(m)
}

func decodeBranch(m map[string]any) (*tree.Branch, error) {
	b := &tree.Branch{}
	if err := decodeCommon(m, &b.Node); err != nil {
		return nil, err
	}
	if id, ok := m["id"].(string); ok {
		b.ID = tree.ID(id)
	}
	b.Move.UCI, _ = m["uci"].(string)
	b.Move.SAN, _ = m["san"].(string)
	if c, ok := asInt(m["clock"]); ok {
		clock := tree.Centis(c)
		b.Clock = &clock
	}
	return b, nil
}

func decodeCommon(m map[string]any, n *tree.Node) error {
	if ply, ok := asInt(m["ply"]); ok {
		n.Ply = ply
	}
	n.FEN, _ = m["fen"].(string)
	n.Check, _ = m["check"].(bool)
	n.Comp, _ = m["comp"].(bool)
	if ev, ok := m["eval"].(map[string]any); ok {
		n.Eval = decodeEval(ev)
	}
	if cs, ok := m["comments"].([]any); ok {
		for _, cv := range cs {
			if cm, ok := cv.(map[string]any); ok {
				n.Comments = append(n.Comments, decodeComment(cm))
			}
		}
	}
	if gs, ok := m["glyphs"].([]any); ok {
		for _, gv := range gs {
			if gm, ok := gv.(map[string]any); ok {
				n.Glyphs = append(n.Glyphs, decodeGlyph(gm))
			}
		}
	}
	if ss, ok := m["shapes"].([]any); ok {
		for _, sv := range ss {
			if sm, ok := sv.(map[string]any); ok {
				if shape, ok := decodeShape(sm); ok {
					n.Shapes = append(n.Shapes, shape)
				}
			}
		}
	}
	if om, ok := m["opening"].(map[string]any); ok {
		eco, _ := om["eco"].(string)
		name, _ := om["name"].(string)
		n.Opening = &tree.Opening{ECO: eco, Name: name}
	}
	if d, ok := m["dests"].(string); ok {
		n.Dests = tree.ParseDests(d)
	}
	if d, ok := m["drops"].(string); ok {
		drops := tree.ParseDrops(d)
		n.Drops = &drops
	}
	if cm, ok := m["crazy"].(map[string]any); ok {
		n.Crazy = decodeCrazy(cm)
	}
	if cs, ok := m["children"].([]any); ok {
		for _, cv := range cs {
			childMap, ok := cv.(map[string]any)
			if !ok {
				return errNotObject
			}
			child, err := decodeBranch(childMap)
			if err != nil {
				return err
			}
			n.Children = append(n.Children, child)
		}
	}
	return nil
}

func decodeEval(m map[string]any) *tree.Eval {
	e := &tree.Eval{}
	if cp, ok := asInt(m["cp"]); ok {
		e.CP = &cp
	}
	if mate, ok := asInt(m["mate"]); ok {
		e.Mate = &mate
	}
	e.Best, _ = m["best"].(string)
	return e
}

func decodeComment(m map[string]any) tree.Comment {
	id, _ := m["id"].(string)
	text, _ := m["text"].(string)
	return tree.Comment{
		ID:   tree.CommentID(id),
		Text: text,
		By:   tree.ParseAuthor(m["by"]),
	}
}

func decodeGlyph(m map[string]any) tree.Glyph {
	id, _ := asInt(m["id"])
	symbol, _ := m["symbol"].(string)
	name, _ := m["name"].(string)
	return tree.Glyph{ID: id, Symbol: symbol, Name: name}
}

func decodeShape(m map[string]any) (tree.Shape, bool) {
	squares, _ := m["squares"].([]any)
	if len(squares) == 0 {
		return tree.Shape{}, false
	}
	first, _ := squares[0].(string)
	orig, ok := tree.ParseSquare(first)
	if !ok {
		return tree.Shape{}, false
	}
	brush, _ := m["brush"].(string)
	shape := tree.Shape{Brush: brush, Orig: orig}
	if len(squares) > 1 {
		if second, ok := squares[1].(string); ok {
			if dest, ok := tree.ParseSquare(second); ok {
				shape.Dest = &dest
			}
		}
	}
	return shape, true
}

func decodeCrazy(m map[string]any) *tree.CrazyData {
	c := &tree.CrazyData{}
	pockets, _ := m["pockets"].([]any)
	for i := 0; i < len(pockets) && i < 2; i++ {
		pm, ok := pockets[i].(map[string]any)
		if !ok {
			continue
		}
		pocket := tree.Pocket{}
		for role, count := range pm {
			if v, ok := asInt(count); ok {
				pocket[role] = v
			}
		}
		c.Pockets[i] = pocket
	}
	return c
}

// asInt accepts the integer shapes ojg produces for JSON numbers.
func asInt(v any) (int, bool) {
	switch t := v.(type) {
	case int64:
		return int(t), true
	case int:
		return t, true
	case float64:
		return int(t), true
	}
	return 0, false
}
