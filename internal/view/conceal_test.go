package view

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chesskit/studytree/api"
	"github.com/chesskit/studytree/internal/tree"
)

func TestRevealedSetPrefixes(t *testing.T) {
	a, b, c := tree.MoveID(0, 1), tree.MoveID(2, 3), tree.MoveID(4, 5)
	s := NewRevealedSet()

	assert.True(t, s.Revealed(nil), "the root is always revealed")
	assert.False(t, s.Revealed(tree.Path{a}))

	s.Reveal(tree.Path{a, b})
	assert.True(t, s.Revealed(tree.Path{a}), "revealing a move reveals the line to it")
	assert.True(t, s.Revealed(tree.Path{a, b}))
	assert.False(t, s.Revealed(tree.Path{a, b, c}))
	assert.False(t, s.Revealed(tree.Path{c}))
}

func TestRevealedSetFunc(t *testing.T) {
	a, b, c := tree.MoveID(0, 1), tree.MoveID(2, 3), tree.MoveID(4, 5)
	s := NewRevealedSet()
	s.Reveal(tree.Path{a})
	f := s.Func()

	assert.Equal(t, Reveal, f(tree.Path{a}, nil))
	assert.Equal(t, Conceal, f(tree.Path{a, b}, nil), "one past the frontier is concealed")
	assert.Equal(t, Hide, f(tree.Path{a, b, c}, nil), "further moves stay hidden")
	assert.Equal(t, Conceal, f(tree.Path{c}, nil), "siblings of revealed moves sit at the frontier too")
}

func TestRevealedSetIdempotentReveal(t *testing.T) {
	a := tree.MoveID(0, 1)
	s := NewRevealedSet()
	s.Reveal(tree.Path{a})
	s.Reveal(tree.Path{a})
	assert.True(t, s.Revealed(tree.Path{a}))
}

func TestRevealedSetDrivesProjection(t *testing.T) {
	third := branch(t, 3, "g1f3", "Nf3")
	second := branch(t, 2, "e7e5", "e5", third)
	first := branch(t, 1, "e2e4", "e4", second)
	r := root(first)

	s := NewRevealedSet()
	s.Reveal(tree.Path{first.ID})

	cfg := DefaultConfig()
	cfg.Conceal = s.Func()
	cells := Render(cfg, r)

	var moves []api.Cell
	for _, c := range flatten(cells) {
		if c.Kind == api.KindMove {
			moves = append(moves, c)
		}
	}
	require.Len(t, moves, 3)
	assert.NotContains(t, moves[0].Classes, api.ClassConceal)
	assert.Contains(t, moves[1].Classes, api.ClassConceal, "the frontier move renders concealed")
	assert.Contains(t, moves[2].Classes, api.ClassConceal,
		"the mainline beyond the frontier inherits the concealment")

	// Revealing the frontier advances it by one ply.
	s.Reveal(tree.Path{first.ID, second.ID})
	cells = Render(cfg, r)
	moves = moves[:0]
	for _, c := range flatten(cells) {
		if c.Kind == api.KindMove {
			moves = append(moves, c)
		}
	}
	require.Len(t, moves, 3)
	assert.NotContains(t, moves[1].Classes, api.ClassConceal)
	assert.Contains(t, moves[2].Classes, api.ClassConceal)
}
