// Package view projects a game tree into the nested cell structure the UI
// renders. The projection is a stateful recursive descent under three
// composable policies: mainline-vs-variation layout, concealment of
// not-yet-revealed moves, and depth-limited truncation of off-path
// variations with short-variation inlining. It is purely functional over
// the immutable tree: no I/O, no shared mutable state, total over
// well-formed input.
package view

import (
	"strconv"

	"github.com/chesskit/studytree/api"
	"github.com/chesskit/studytree/internal/tree"
)

// Answer is a concealment predicate's verdict for one branch.
type Answer int

const (
	// Reveal renders the branch normally.
	Reveal Answer = iota
	// Conceal renders the branch but marks it visually hidden.
	Conceal
	// Hide renders nothing for the branch or its descendants.
	Hide
)

// ConcealFunc decides visibility for the branch at the given path.
type ConcealFunc func(p tree.Path, b *tree.Branch) Answer

// LineOverride lets an external add-on (e.g. a review/retro renderer)
// replace a whole variation line with its own cells. Returning false
// falls back to the standard rendering.
type LineOverride func(b *tree.Branch) ([]api.Cell, bool)

// Config is the policy bundle supplied by the owning controller.
type Config struct {
	Path         tree.Path // current display path
	ShowComputer bool      // include computer-generated branches
	ShowGlyphs   bool
	ShowComments bool
	Conceal      ConcealFunc  // nil means always reveal
	Line         LineOverride // nil means no override
}

// DefaultConfig shows everything and conceals nothing.
func DefaultConfig() Config {
	return Config{ShowComputer: true, ShowGlyphs: true, ShowComments: true}
}

// Tuning constants carried over from the reference display behavior.
const (
	// inlineLookahead is how many plies ahead a second branch is searched
	// for forks before it may be fused inline with its sibling.
	inlineLookahead = 6
	// compTruncate is the depth budget for computer lines off the current
	// display path.
	compTruncate = 3
)

// concealState is the resolved concealment for a child set. Distinct from
// Answer because "not yet resolved" must propagate through recursion.
type concealState int

const (
	concealUnset concealState = iota
	concealNone
	concealOn
	concealHide
)

// propagate maps a resolved state to what the next mainline child set
// inherits: an active conceal carries over, a plain reveal leaves the
// deeper set free to consult the predicate again.
func propagate(c concealState) concealState {
	if c == concealNone {
		return concealUnset
	}
	return c
}

// opts is the per-call policy bundle. Each recursive call receives its own
// value; callees never mutate a caller's copy.
type opts struct {
	parentPath tree.Path
	isMainline bool
	conceal    concealState
	noConceal  bool
	withIndex  bool
	truncate   *int // nil = unlimited
	inline     *tree.Branch
}

// Render projects the tree from its root: root comments first as a boxed
// callout, then the root's children as the mainline.
func Render(cfg Config, root *tree.Root) []api.Cell {
	v := &renderer{cfg: cfg}
	var out []api.Cell
	if comments := v.commentCells(root.Comments, root.Ply, concealNone, false); len(comments) > 0 {
		out = append(out, api.Cell{Kind: api.KindInterrupt, Cells: comments})
	}
	return append(out, v.childrenOf(root.Children, opts{isMainline: true})...)
}

type renderer struct {
	cfg Config
}

// eligible filters children by the show-computer flag.
func (v *renderer) eligible(children tree.Branches) tree.Branches {
	if v.cfg.ShowComputer {
		return children
	}
	var out tree.Branches
	for _, b := range children {
		if !b.Comp {
			out = append(out, b)
		}
	}
	return out
}

// resolveConceal picks the concealment for a child set: an explicit
// no-conceal override wins, then an inherited state, then the external
// predicate. Any verdict that is neither reveal nor hide counts as conceal.
func (v *renderer) resolveConceal(o opts, main *tree.Branch) concealState {
	if o.noConceal {
		return concealNone
	}
	if o.conceal != concealUnset {
		return o.conceal
	}
	if v.cfg.Conceal == nil {
		return concealNone
	}
	switch v.cfg.Conceal(o.parentPath.Append(main.ID), main) {
	case Reveal:
		return concealNone
	case Hide:
		return concealHide
	default:
		return concealOn
	}
}

func (v *renderer) childrenOf(children tree.Branches, o opts) []api.Cell {
	cs := v.eligible(children)
	main := cs.First()
	if main == nil {
		return nil
	}
	conceal := v.resolveConceal(o, main)
	if conceal == concealHide {
		return nil
	}

	if o.isMainline {
		isWhite := main.Ply%2 == 1
		commentCells := v.commentCells(main.Comments, main.Ply, conceal, true)

		// A lone continuation with no comments and no forced boundary
		// collapses into the flat mainline run.
		if len(cs) == 1 && len(commentCells) == 0 && !main.ForceVariation {
			var out []api.Cell
			if isWhite {
				out = append(out, indexCell(main.Ply, false))
			}
			return append(out, v.moveAndChildrenOf(main, opts{
				parentPath: o.parentPath,
				isMainline: true,
				conceal:    conceal,
			})...)
		}

		var mainChildren []api.Cell
		if !main.ForceVariation {
			mainChildren = v.childrenOf(main.Children, opts{
				parentPath: o.parentPath.Append(main.ID),
				isMainline: true,
				conceal:    propagate(conceal),
			})
		}

		pass := opts{parentPath: o.parentPath, isMainline: !main.ForceVariation, conceal: conceal}
		var out []api.Cell
		if isWhite {
			out = append(out, indexCell(main.Ply, false))
		}
		if !main.ForceVariation {
			out = append(out, v.moveOf(main, pass))
			if isWhite {
				out = append(out, emptyCell(conceal))
			}
		}

		lineNodes := cs[1:]
		if main.ForceVariation {
			// The boundary move is suppressed above and surfaces here
			// alongside its siblings.
			lineNodes = cs
		}
		interrupt := commentCells
		if len(lineNodes) > 0 {
			interrupt = append(interrupt, v.linesCell(lineNodes, opts{
				parentPath: o.parentPath,
				isMainline: true,
				conceal:    conceal,
				noConceal:  conceal == concealNone,
			}))
		}
		out = append(out, api.Cell{Kind: api.KindInterrupt, Cells: interrupt})

		if isWhite && len(mainChildren) > 0 {
			out = append(out, indexCell(main.Ply, false), emptyCell(conceal))
		}
		return append(out, mainChildren...)
	}

	if len(cs) == 1 {
		return v.moveAndChildrenOf(main, o)
	}
	if inlined := v.inlined(cs, o); inlined != nil {
		return inlined
	}
	return []api.Cell{v.linesCell(cs, o)}
}

// inlined fuses a two-branch fork into one line when the second branch has
// no fork of its own within the lookahead. Returns nil when inlining is
// not allowed.
func (v *renderer) inlined(cs tree.Branches, o opts) []api.Cell {
	if len(cs) != 2 {
		return nil
	}
	if hasBranching(cs[1], inlineLookahead) {
		return nil
	}
	return v.moveAndChildrenOf(cs[0], opts{
		parentPath: o.parentPath,
		isMainline: false,
		noConceal:  o.noConceal,
		truncate:   o.truncate,
		inline:     cs[1],
	})
}

// hasBranching reports whether b forks anywhere within depth plies. An
// exhausted budget counts as branching, which keeps long unbranched lines
// out of the inline form.
func hasBranching(b *tree.Branch, depth int) bool {
	if depth <= 0 {
		return true
	}
	if len(b.Children) > 1 {
		return true
	}
	if first := b.Children.First(); first != nil {
		return hasBranching(first, depth-1)
	}
	return false
}

// linesCell renders one visual sub-line per branch. Computer branches off
// the current display path get a depth budget; everything else renders in
// full.
func (v *renderer) linesCell(nodes tree.Branches, o opts) api.Cell {
	rows := make([][]api.Cell, 0, len(nodes))
	for _, n := range nodes {
		if v.cfg.Line != nil {
			if row, ok := v.cfg.Line(n); ok {
				rows = append(rows, row)
				continue
			}
		}
		var truncate *int
		if n.Comp && !v.cfg.Path.Contains(o.parentPath.Append(n.ID)) {
			budget := compTruncate
			truncate = &budget
		}
		rows = append(rows, v.moveAndChildrenOf(n, opts{
			parentPath: o.parentPath,
			isMainline: false,
			withIndex:  true,
			noConceal:  o.noConceal,
			truncate:   truncate,
		}))
	}
	cell := api.Cell{Kind: api.KindLines, Lines: rows}
	if len(nodes) == 1 {
		cell.Classes = []string{api.ClassSingleLine}
	}
	return cell
}

func (v *renderer) moveAndChildrenOf(b *tree.Branch, o opts) []api.Cell {
	path := o.parentPath.Append(b.ID)
	// Depth cutoff: a negative budget degrades to already-zero.
	if o.truncate != nil && *o.truncate <= 0 {
		return []api.Cell{{Kind: api.KindElision, Path: path.String(), Text: "[...]"}}
	}
	out := []api.Cell{v.moveOf(b, o)}
	out = append(out, v.inlineCommentCells(b, o.conceal)...)
	if o.inline != nil {
		out = append(out, v.inlineCell(o.inline, o))
	}
	var truncate *int
	if o.truncate != nil {
		budget := *o.truncate - 1
		truncate = &budget
	}
	return append(out, v.childrenOf(b.Children, opts{
		parentPath: path,
		isMainline: o.isMainline,
		conceal:    propagate(o.conceal),
		noConceal:  o.noConceal,
		truncate:   truncate,
	})...)
}

// inlineCell wraps a fused short variation.
func (v *renderer) inlineCell(b *tree.Branch, o opts) api.Cell {
	return api.Cell{
		Kind: api.KindInline,
		Cells: v.moveAndChildrenOf(b, opts{
			parentPath: o.parentPath,
			isMainline: false,
			withIndex:  true,
			noConceal:  o.noConceal,
			truncate:   o.truncate,
		}),
	}
}

func (v *renderer) moveOf(b *tree.Branch, o opts) api.Cell {
	path := o.parentPath.Append(b.ID)
	cell := api.Cell{
		Kind:    api.KindMove,
		Path:    path.String(),
		Classes: v.moveClasses(path, o),
	}
	if o.isMainline {
		cell.Text = b.Move.SAN
		return cell
	}
	text := b.Move.SAN
	if o.withIndex || b.Ply%2 == 1 {
		text = indexText(b.Ply, true) + text
	}
	if v.cfg.ShowGlyphs {
		for _, g := range b.Glyphs {
			text += g.Symbol
		}
	}
	cell.Text = text
	return cell
}

func (v *renderer) moveClasses(path tree.Path, o opts) []string {
	var classes []string
	if path.Equal(v.cfg.Path) {
		classes = append(classes, api.ClassCurrent)
	}
	if o.conceal == concealOn {
		classes = append(classes, api.ClassConceal)
	}
	return classes
}

// commentCells renders boxed comment callouts: one per comment surviving
// meta-stripping, tagged with color parity when requested, severity from
// the text prefix, and concealment when applicable.
func (v *renderer) commentCells(comments tree.Comments, ply int, conceal concealState, withColor bool) []api.Cell {
	if !v.cfg.ShowComments {
		return nil
	}
	var out []api.Cell
	for _, c := range comments.FilterMeta() {
		var classes []string
		if withColor {
			if ply%2 == 0 {
				classes = append(classes, api.ClassBlack)
			} else {
				classes = append(classes, api.ClassWhite)
			}
		}
		if sev, ok := c.Severity(); ok {
			classes = append(classes, string(sev))
		}
		if conceal == concealOn {
			classes = append(classes, api.ClassConceal)
		}
		out = append(out, api.Cell{Kind: api.KindComment, Text: c.Text, Classes: classes})
	}
	return out
}

// inlineCommentCells renders a node's comments mid-line: same as the boxed
// form but placed inline and never color-tagged. Concealment still applies.
func (v *renderer) inlineCommentCells(b *tree.Branch, conceal concealState) []api.Cell {
	if !v.cfg.ShowComments {
		return nil
	}
	var out []api.Cell
	for _, c := range b.Comments.FilterMeta() {
		classes := []string{api.ClassInline}
		if sev, ok := c.Severity(); ok {
			classes = append(classes, string(sev))
		}
		if conceal == concealOn {
			classes = append(classes, api.ClassConceal)
		}
		out = append(out, api.Cell{Kind: api.KindComment, Text: c.Text, Classes: classes})
	}
	return out
}

// indexCell is a move-number marker ("12" before White's 23rd ply).
func indexCell(ply int, withDots bool) api.Cell {
	return api.Cell{Kind: api.KindIndex, Text: indexText(ply, withDots)}
}

func indexText(ply int, withDots bool) string {
	num := strconv.Itoa((ply + 1) / 2)
	if !withDots {
		return num
	}
	if ply%2 == 1 {
		return num + "."
	}
	return num + "..."
}

// emptyCell is the literal-ellipsis placeholder standing in for a move
// slot broken by an interrupt block.
func emptyCell(conceal concealState) api.Cell {
	cell := api.Cell{Kind: api.KindEmpty, Text: "..."}
	if conceal == concealOn {
		cell.Classes = []string{api.ClassConceal}
	}
	return cell
}
