package view

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chesskit/studytree/api"
	"github.com/chesskit/studytree/internal/tree"
)

// branch builds a test branch whose id derives from the uci move.
func branch(t *testing.T, ply int, uci, san string, children ...*tree.Branch) *tree.Branch {
	t.Helper()
	id, ok := tree.IDFromUCI(uci)
	require.True(t, ok, "uci %q", uci)
	return &tree.Branch{
		Node: tree.Node{Ply: ply, FEN: "fen:" + uci, Children: children},
		ID:   id,
		Move: tree.Move{UCI: uci, SAN: san},
	}
}

func root(children ...*tree.Branch) *tree.Root {
	return &tree.Root{Node: tree.Node{Ply: 0, FEN: "startpos", Children: children}}
}

// flatten walks the cell tree depth-first.
func flatten(cells []api.Cell) []api.Cell {
	var out []api.Cell
	for _, c := range cells {
		out = append(out, c)
		out = append(out, flatten(c.Cells)...)
		for _, line := range c.Lines {
			out = append(out, flatten(line)...)
		}
	}
	return out
}

func kindsOf(cells []api.Cell) []api.Kind {
	out := make([]api.Kind, len(cells))
	for i, c := range cells {
		out[i] = c.Kind
	}
	return out
}

func countKind(cells []api.Cell, k api.Kind) int {
	n := 0
	for _, c := range flatten(cells) {
		if c.Kind == k {
			n++
		}
	}
	return n
}

func TestFlatRunCollapse(t *testing.T) {
	// Root at ply 0, one mainline child at ply 1, itself with a single
	// child at ply 2: both collapse into one flat run.
	r := root(branch(t, 1, "e2e4", "e4", branch(t, 2, "e7e5", "e5")))

	cells := Render(DefaultConfig(), r)
	require.Equal(t, []api.Kind{api.KindIndex, api.KindMove, api.KindMove}, kindsOf(cells))
	assert.Equal(t, "1", cells[0].Text, "a single move-index marker before the White move")
	assert.Equal(t, "e4", cells[1].Text)
	assert.Equal(t, "e5", cells[2].Text, "no move-index before the Black reply")
	assert.Zero(t, countKind(cells, api.KindInterrupt))
}

func TestMainlineMoveCellsCarryPaths(t *testing.T) {
	first := branch(t, 1, "e2e4", "e4", branch(t, 2, "e7e5", "e5"))
	r := root(first)

	cells := Render(DefaultConfig(), r)
	wantFirst := tree.Path{first.ID}.String()
	assert.Equal(t, wantFirst, cells[1].Path)
	wantSecond := tree.Path{first.ID, first.Children[0].ID}.String()
	assert.Equal(t, wantSecond, cells[2].Path)
}

func TestVariationInterruptsMainline(t *testing.T) {
	main := branch(t, 1, "e2e4", "e4", branch(t, 2, "e7e5", "e5"))
	alt := branch(t, 1, "d2d4", "d4")
	r := root(main, alt)

	cells := Render(DefaultConfig(), r)
	// index, move, empty placeholder, interrupt, index, empty, continuation
	require.Equal(t, []api.Kind{
		api.KindIndex, api.KindMove, api.KindEmpty, api.KindInterrupt,
		api.KindIndex, api.KindEmpty, api.KindMove,
	}, kindsOf(cells))

	interrupt := cells[3]
	require.Len(t, interrupt.Cells, 1)
	lines := interrupt.Cells[0]
	require.Equal(t, api.KindLines, lines.Kind)
	require.Len(t, lines.Lines, 1)
	assert.Contains(t, lines.Classes, api.ClassSingleLine)

	row := lines.Lines[0]
	require.NotEmpty(t, row)
	assert.Equal(t, api.KindMove, row[0].Kind)
	assert.Equal(t, "1.d4", row[0].Text, "variation moves carry a forced move-number prefix")
}

func TestVariationBlackMoveIndex(t *testing.T) {
	main := branch(t, 1, "e2e4", "e4",
		branch(t, 2, "e7e5", "e5"),
		branch(t, 2, "c7c5", "c5"),
	)
	r := root(main)

	cells := Render(DefaultConfig(), r)
	var row []api.Cell
	for _, c := range flatten(cells) {
		if c.Kind == api.KindLines {
			require.Len(t, c.Lines, 1)
			row = c.Lines[0]
		}
	}
	require.NotEmpty(t, row, "the sicilian should land in a lines group")
	assert.Equal(t, "1...c5", row[0].Text)
}

func TestTwoBranchInlining(t *testing.T) {
	// Inside a variation, a two-child fork whose second branch never
	// branches within the lookahead is fused inline.
	varMain := branch(t, 2, "e7e5", "e5", branch(t, 3, "g1f3", "Nf3"))
	varAlt := branch(t, 2, "c7c5", "c5", branch(t, 3, "b1c3", "Nc3"))
	variation := branch(t, 1, "d2d4", "d4", varMain, varAlt)
	main := branch(t, 1, "e2e4", "e4")
	r := root(main, variation)

	cells := Render(DefaultConfig(), r)
	var row []api.Cell
	for _, c := range flatten(cells) {
		if c.Kind == api.KindLines {
			require.Len(t, c.Lines, 1)
			row = c.Lines[0]
		}
	}
	require.NotEmpty(t, row)

	assert.Equal(t, 1, countKind(row, api.KindInline), "second child fused via inline wrapper")
	assert.Zero(t, countKind(row, api.KindLines), "no nested lines group for the fork")

	var inline api.Cell
	for _, c := range flatten(row) {
		if c.Kind == api.KindInline {
			inline = c
		}
	}
	require.NotEmpty(t, inline.Cells)
	assert.Equal(t, "2...c5", inline.Cells[0].Text, "inlined move keeps a forced index")
}

func TestInliningDisallowedWhenSecondBranchForks(t *testing.T) {
	forked := branch(t, 3, "b1c3", "Nc3")
	forked.Children = tree.Branches{
		branch(t, 4, "g8f6", "Nf6"),
		branch(t, 4, "b8c6", "Nc6"),
		branch(t, 4, "e7e6", "e6"),
	}
	varMain := branch(t, 2, "e7e5", "e5")
	varAlt := branch(t, 2, "c7c5", "c5", forked)
	variation := branch(t, 1, "d2d4", "d4", varMain, varAlt)
	r := root(branch(t, 1, "e2e4", "e4"), variation)

	cells := Render(DefaultConfig(), r)
	assert.Zero(t, countKind(cells, api.KindInline))
	assert.GreaterOrEqual(t, countKind(cells, api.KindLines), 2,
		"the fork opens its own lines group")
}

func TestInliningDisallowedBeyondLookahead(t *testing.T) {
	// A second branch that is a pure chain longer than the lookahead
	// still may not inline.
	chain := branch(t, 2+inlineLookahead, "h2h3", "h3")
	for ply := 1 + inlineLookahead; ply > 2; ply-- {
		chain = branch(t, ply, "h2h3", "h3", chain)
	}
	varMain := branch(t, 2, "e7e5", "e5")
	varAlt := branch(t, 2, "c7c5", "c5", chain)
	variation := branch(t, 1, "d2d4", "d4", varMain, varAlt)
	r := root(branch(t, 1, "e2e4", "e4"), variation)

	cells := Render(DefaultConfig(), r)
	assert.Zero(t, countKind(cells, api.KindInline))
}

func TestInliningInsideTruncatedLine(t *testing.T) {
	// A qualifying two-child fork inside a truncated computer line must not
	// shed the depth budget: the fused sibling renders, the chain still
	// cuts off with a single elision.
	chain := branch(t, 10, "a7a6", "a6")
	for ply := 9; ply >= 2; ply-- {
		chain = branch(t, ply, "a7a6", "a6", chain)
	}
	side := branch(t, 2, "h7h6", "h6")
	comp := branch(t, 1, "g1f3", "Nf3", chain, side)
	comp.Comp = true
	r := root(branch(t, 1, "e2e4", "e4"), comp)

	cells := Render(DefaultConfig(), r)
	var row []api.Cell
	for _, c := range flatten(cells) {
		if c.Kind == api.KindLines {
			row = c.Lines[0]
		}
	}
	require.NotEmpty(t, row)

	assert.Equal(t, 1, countKind(row, api.KindInline))
	assert.Equal(t, 1, countKind(row, api.KindElision),
		"the budget survives the fused fork")
	assert.Equal(t, 4, countKind(row, api.KindMove),
		"three budgeted chain moves plus the fused sibling")
}

func TestConcealPropagatesThroughCollapse(t *testing.T) {
	second := branch(t, 2, "e7e5", "e5")
	first := branch(t, 1, "e2e4", "e4", second)
	r := root(first)

	cfg := DefaultConfig()
	cfg.Conceal = func(p tree.Path, b *tree.Branch) Answer {
		if len(p) == 1 {
			return Conceal
		}
		return Reveal
	}
	cells := Render(cfg, r)

	require.Equal(t, []api.Kind{api.KindIndex, api.KindMove, api.KindMove}, kindsOf(cells))
	assert.Contains(t, cells[1].Classes, api.ClassConceal)
	assert.Contains(t, cells[2].Classes, api.ClassConceal,
		"an inherited conceal wins over the deeper reveal")
}

func TestInlineCommentConcealClass(t *testing.T) {
	b := branch(t, 2, "e7e5", "e5")
	b.Comments = tree.Comments{{ID: "c1", Text: "a note"}}

	v := &renderer{cfg: DefaultConfig()}
	cells := v.moveAndChildrenOf(b, opts{conceal: concealOn})
	require.GreaterOrEqual(t, len(cells), 2)

	require.Equal(t, api.KindComment, cells[1].Kind)
	assert.Contains(t, cells[1].Classes, api.ClassInline)
	assert.Contains(t, cells[1].Classes, api.ClassConceal)
}

func TestComputerLineTruncation(t *testing.T) {
	// A computer branch off the display path renders at most compTruncate
	// moves, then a single elision placeholder.
	leaf := branch(t, 6, "a7a6", "a6")
	chain := leaf
	for ply := 5; ply >= 2; ply-- {
		chain = branch(t, ply, "a7a6", "a6", chain)
	}
	comp := branch(t, 1, "g1f3", "Nf3", chain)
	comp.Comp = true
	main := branch(t, 1, "e2e4", "e4")
	r := root(main, comp)

	cells := Render(DefaultConfig(), r)
	var row []api.Cell
	for _, c := range flatten(cells) {
		if c.Kind == api.KindLines {
			row = c.Lines[0]
		}
	}
	require.NotEmpty(t, row)

	assert.Equal(t, compTruncate, countKind(row, api.KindMove),
		"no move cell beyond the truncation depth")
	assert.Equal(t, 1, countKind(row, api.KindElision))

	var elision api.Cell
	for _, c := range flatten(row) {
		if c.Kind == api.KindElision {
			elision = c
		}
	}
	assert.Equal(t, "[...]", elision.Text)
	assert.NotEmpty(t, elision.Path, "the cutoff cell still addresses its node")
}

func TestComputerLineOnDisplayPathNotTruncated(t *testing.T) {
	leaf := branch(t, 6, "a7a6", "a6")
	chain := leaf
	for ply := 5; ply >= 2; ply-- {
		chain = branch(t, ply, "a7a6", "a6", chain)
	}
	comp := branch(t, 1, "g1f3", "Nf3", chain)
	comp.Comp = true
	r := root(branch(t, 1, "e2e4", "e4"), comp)

	cfg := DefaultConfig()
	cfg.Path = tree.Path{comp.ID} // studying the computer line
	cells := Render(cfg, r)
	assert.Zero(t, countKind(cells, api.KindElision))
}

func TestShowComputerOff(t *testing.T) {
	comp := branch(t, 1, "g1f3", "Nf3")
	comp.Comp = true
	r := root(branch(t, 1, "e2e4", "e4"), comp)

	cfg := DefaultConfig()
	cfg.ShowComputer = false
	cells := Render(cfg, r)
	assert.Zero(t, countKind(cells, api.KindInterrupt),
		"with the only variation filtered, the mainline collapses flat")
	assert.Equal(t, 1, countKind(cells, api.KindMove))
}

func TestConcealHideRemovesSubtree(t *testing.T) {
	second := branch(t, 2, "e7e5", "e5", branch(t, 3, "g1f3", "Nf3"))
	first := branch(t, 1, "e2e4", "e4", second)
	r := root(first)

	hidden := tree.Path{first.ID, second.ID}
	cfg := DefaultConfig()
	cfg.Conceal = func(p tree.Path, b *tree.Branch) Answer {
		if p.Contains(hidden) {
			return Hide
		}
		return Reveal
	}

	cells := Render(cfg, r)
	for _, c := range flatten(cells) {
		if c.Path == "" {
			continue
		}
		assert.False(t, tree.ParsePath(c.Path).Contains(hidden),
			"no cell may reference the hidden node or its descendants")
	}
	assert.Equal(t, 1, countKind(cells, api.KindMove))
}

func TestConcealMarksMove(t *testing.T) {
	first := branch(t, 1, "e2e4", "e4")
	r := root(first)

	cfg := DefaultConfig()
	cfg.Conceal = func(p tree.Path, b *tree.Branch) Answer { return Conceal }
	cells := Render(cfg, r)

	require.Equal(t, []api.Kind{api.KindIndex, api.KindMove}, kindsOf(cells))
	assert.Contains(t, cells[1].Classes, api.ClassConceal)
}

func TestUnknownAnswerDegradesToConceal(t *testing.T) {
	first := branch(t, 1, "e2e4", "e4")
	r := root(first)

	cfg := DefaultConfig()
	cfg.Conceal = func(p tree.Path, b *tree.Branch) Answer { return Answer(42) }
	cells := Render(cfg, r)
	assert.Contains(t, cells[1].Classes, api.ClassConceal)
}

func TestCommentCalloutColorAndSeverity(t *testing.T) {
	second := branch(t, 2, "e7e5", "e5")
	second.Comments = tree.Comments{{ID: "c1", Text: "Blunder. missed mate"}}
	first := branch(t, 1, "e2e4", "e4", second)
	r := root(first)

	cells := Render(DefaultConfig(), r)
	var callout api.Cell
	for _, c := range flatten(cells) {
		if c.Kind == api.KindComment {
			callout = c
		}
	}
	require.NotEmpty(t, callout.Text)
	assert.Contains(t, callout.Classes, api.ClassBlack, "even ply means a Black move")
	assert.Contains(t, callout.Classes, string(tree.SeverityBlunder))
}

func TestCommentsSuppressedByFlag(t *testing.T) {
	second := branch(t, 2, "e7e5", "e5")
	second.Comments = tree.Comments{{ID: "c1", Text: "a note"}}
	r := root(branch(t, 1, "e2e4", "e4", second))

	cfg := DefaultConfig()
	cfg.ShowComments = false
	cells := Render(cfg, r)
	assert.Zero(t, countKind(cells, api.KindComment))
	assert.Zero(t, countKind(cells, api.KindInterrupt),
		"without visible comments the run collapses flat")
}

func TestRootCommentsBoxedFirst(t *testing.T) {
	r := root(branch(t, 1, "e2e4", "e4"))
	r.Comments = tree.Comments{{ID: "c0", Text: "Annotated game.", By: tree.SystemAuthor{}}}

	cells := Render(DefaultConfig(), r)
	require.NotEmpty(t, cells)
	assert.Equal(t, api.KindInterrupt, cells[0].Kind)
	require.NotEmpty(t, cells[0].Cells)
	assert.Equal(t, "Annotated game.", cells[0].Cells[0].Text)
	assert.NotContains(t, cells[0].Cells[0].Classes, api.ClassWhite,
		"root callouts are not color-tagged")
	assert.NotContains(t, cells[0].Cells[0].Classes, api.ClassBlack)
}

func TestForceVariationSurfacesInLines(t *testing.T) {
	forced := branch(t, 1, "e2e4", "e4", branch(t, 2, "e7e5", "e5"))
	forced.ForceVariation = true
	r := root(forced)

	cells := Render(DefaultConfig(), r)
	// The boundary move is suppressed from the mainline row and surfaces
	// inside the variation block instead.
	require.Equal(t, []api.Kind{api.KindIndex, api.KindInterrupt}, kindsOf(cells))

	lines := cells[1].Cells[0]
	require.Equal(t, api.KindLines, lines.Kind)
	require.Len(t, lines.Lines, 1)
	assert.Equal(t, "1.e4", lines.Lines[0][0].Text)
}

func TestGlyphsAppendedToVariationMoves(t *testing.T) {
	alt := branch(t, 1, "d2d4", "d4")
	alt.Glyphs = tree.Glyphs{{ID: 2, Symbol: "?!", Name: "Dubious move"}}
	r := root(branch(t, 1, "e2e4", "e4"), alt)

	cells := Render(DefaultConfig(), r)
	var row []api.Cell
	for _, c := range flatten(cells) {
		if c.Kind == api.KindLines {
			row = c.Lines[0]
		}
	}
	require.NotEmpty(t, row)
	assert.Equal(t, "1.d4?!", row[0].Text)

	cfg := DefaultConfig()
	cfg.ShowGlyphs = false
	cells = Render(cfg, r)
	for _, c := range flatten(cells) {
		if c.Kind == api.KindLines {
			row = c.Lines[0]
		}
	}
	assert.Equal(t, "1.d4", row[0].Text)
}

func TestCurrentPathClass(t *testing.T) {
	first := branch(t, 1, "e2e4", "e4")
	r := root(first)

	cfg := DefaultConfig()
	cfg.Path = tree.Path{first.ID}
	cells := Render(cfg, r)
	assert.Contains(t, cells[1].Classes, api.ClassCurrent)
}

func TestLineOverrideReplacesRow(t *testing.T) {
	alt := branch(t, 1, "d2d4", "d4")
	r := root(branch(t, 1, "e2e4", "e4"), alt)

	cfg := DefaultConfig()
	cfg.Line = func(b *tree.Branch) ([]api.Cell, bool) {
		if b.ID == alt.ID {
			return []api.Cell{{Kind: api.KindComment, Text: "reviewed"}}, true
		}
		return nil, false
	}
	cells := Render(cfg, r)

	var row []api.Cell
	for _, c := range flatten(cells) {
		if c.Kind == api.KindLines {
			row = c.Lines[0]
		}
	}
	require.Len(t, row, 1)
	assert.Equal(t, "reviewed", row[0].Text)
}

func TestNegativeTruncateDegradesToCutoff(t *testing.T) {
	b := branch(t, 2, "e7e5", "e5")
	v := &renderer{cfg: DefaultConfig()}
	neg := -1
	cells := v.moveAndChildrenOf(b, opts{truncate: &neg})
	require.Len(t, cells, 1)
	assert.Equal(t, api.KindElision, cells[0].Kind)
}
