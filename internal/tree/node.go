// Package tree models a chess game as a persistent, path-addressed tree of
// positions: the mainline plus arbitrarily nested side variations, with
// per-node annotations. Nodes are immutable value objects — every mutation
// returns a new node sharing unchanged subtrees, and the owning controller
// publishes whole-tree updates by replacing its root reference.
package tree

// Move is a single move in both machine and human notation.
type Move struct {
	UCI string
	SAN string
}

// Node holds the attributes common to the root and every branch.
// Children order is load-bearing: index 0 is always the mainline
// continuation, later entries are side variations.
type Node struct {
	Ply      int    // half-move number, 0 for the starting position
	FEN      string // serialized board state
	Check    bool
	Dests    Dests  // nil = unknown
	Drops    *Drops // nil = unknown, empty = no legal drops
	Eval     *Eval
	Shapes   Shapes
	Comments Comments
	Glyphs   Glyphs
	Opening  *Opening
	Crazy    *CrazyData
	Comp     bool // synthesized by computer analysis
	Children Branches
}

// Root is the tree root: ply 0 or an arbitrary imported starting position.
// It has no move of its own; instead it may carry the game's initial clock
// budgets.
type Root struct {
	Node
	ClockWhite *Centis
	ClockBlack *Centis
}

// Branch is a played or analyzed move and the position it leads to.
type Branch struct {
	Node
	ID             ID     // path segment, derived from the move squares
	Move           Move
	Clock          *Centis // clock reading after the move
	ForceVariation bool    // never treat as an unmarked mainline continuation
}

// Branches is an ordered child list.
type Branches []*Branch

// First returns the mainline continuation, or nil.
func (bs Branches) First() *Branch {
	if len(bs) == 0 {
		return nil
	}
	return bs[0]
}

// Get returns the child with the given id, or nil.
func (bs Branches) Get(id ID) *Branch {
	for _, b := range bs {
		if b.ID == id {
			return b
		}
	}
	return nil
}

func (bs Branches) add(b *Branch) Branches {
	out := make(Branches, 0, len(bs)+1)
	out = append(out, bs...)
	return append(out, b)
}

func (bs Branches) prepend(b *Branch) Branches {
	out := make(Branches, 0, len(bs)+1)
	out = append(out, b)
	return append(out, bs...)
}

func (bs Branches) dropFirst() Branches {
	if len(bs) == 0 {
		return bs
	}
	out := make(Branches, len(bs)-1)
	copy(out, bs[1:])
	return out
}

// AddChild returns a copy of the root with b appended as the last
// variation. The existing mainline is never displaced.
func (r *Root) AddChild(b *Branch) *Root {
	n := *r
	n.Children = r.Children.add(b)
	return &n
}

// PrependChild returns a copy of the root with b as the new mainline head.
func (r *Root) PrependChild(b *Branch) *Root {
	n := *r
	n.Children = r.Children.prepend(b)
	return &n
}

// DropFirstChild returns a copy of the root without its mainline head.
// A childless root is returned unchanged.
func (r *Root) DropFirstChild() *Root {
	if len(r.Children) == 0 {
		return r
	}
	n := *r
	n.Children = r.Children.dropFirst()
	return &n
}

// AddChild returns a copy of the branch with c appended as the last variation.
func (b *Branch) AddChild(c *Branch) *Branch {
	n := *b
	n.Children = b.Children.add(c)
	return &n
}

// PrependChild returns a copy of the branch with c as the new mainline head.
func (b *Branch) PrependChild(c *Branch) *Branch {
	n := *b
	n.Children = b.Children.prepend(c)
	return &n
}

// DropFirstChild returns a copy of the branch without its mainline head.
// A childless branch is returned unchanged.
func (b *Branch) DropFirstChild() *Branch {
	if len(b.Children) == 0 {
		return b
	}
	n := *b
	n.Children = b.Children.dropFirst()
	return &n
}

// SetComp returns a copy of the branch with the computer flag set.
func (b *Branch) SetComp(v bool) *Branch {
	n := *b
	n.Comp = v
	return &n
}

// SetComment returns a copy of the root with c upserted by author identity.
func (r *Root) SetComment(c Comment) *Root {
	n := *r
	n.Comments = r.Comments.Set(c)
	return &n
}

// SetComment returns a copy of the branch with c upserted by author identity.
func (b *Branch) SetComment(c Comment) *Branch {
	n := *b
	n.Comments = b.Comments.Set(c)
	return &n
}

// DeleteComment returns a copy of the root without the given comment.
func (r *Root) DeleteComment(id CommentID) *Root {
	n := *r
	n.Comments = r.Comments.Delete(id)
	return &n
}

// DeleteComment returns a copy of the branch without the given comment.
func (b *Branch) DeleteComment(id CommentID) *Branch {
	n := *b
	n.Comments = b.Comments.Delete(id)
	return &n
}

// SetShapes returns a copy of the branch with the given shapes.
func (b *Branch) SetShapes(ss Shapes) *Branch {
	n := *b
	n.Shapes = ss
	return &n
}

// SetGlyphs returns a copy of the branch with the given glyphs.
func (b *Branch) SetGlyphs(gs Glyphs) *Branch {
	n := *b
	n.Glyphs = gs
	return &n
}

// Mainline is the finite chain of nodes reached by always descending into
// child index 0, ending at the first childless node. It does not include
// the receiver, so it is empty exactly when the node has no children.
func (r *Root) Mainline() []*Branch {
	return mainline(r.Children)
}

// Mainline is the chain of first children below this branch.
func (b *Branch) Mainline() []*Branch {
	return mainline(b.Children)
}

func mainline(bs Branches) []*Branch {
	var line []*Branch
	for b := bs.First(); b != nil; b = b.Children.First() {
		line = append(line, b)
	}
	return line
}

// MainlinePath is the address of the last mainline node.
func (r *Root) MainlinePath() Path {
	var p Path
	for _, b := range r.Mainline() {
		p = append(p, b.ID)
	}
	return p
}

// At resolves a path to the branch it addresses. The empty path addresses
// the root itself and yields (nil, false); callers treat that case directly.
func (r *Root) At(p Path) (*Branch, bool) {
	if len(p) == 0 {
		return nil, false
	}
	b := r.Children.Get(p[0])
	for _, id := range p[1:] {
		if b == nil {
			return nil, false
		}
		b = b.Children.Get(id)
	}
	if b == nil {
		return nil, false
	}
	return b, true
}
