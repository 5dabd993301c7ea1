package view

import (
	"github.com/RoaringBitmap/roaring"

	"github.com/chesskit/studytree/internal/tree"
)

// RevealedSet is a concealment predicate for guided practice: moves the
// student has reached render normally, the first unrevealed move renders
// concealed (the projector carries that state down the mainline), and
// unrevealed variations stay hidden.
//
// Paths are interned to dense uint32 ids and membership is kept in a
// roaring bitmap, so a long study with many reveals stays cheap to query.
type RevealedSet struct {
	ids      map[string]uint32
	next     uint32
	revealed *roaring.Bitmap
}

func NewRevealedSet() *RevealedSet {
	return &RevealedSet{
		ids:      make(map[string]uint32),
		revealed: roaring.New(),
	}
}

func (s *RevealedSet) intern(key string) uint32 {
	id, ok := s.ids[key]
	if !ok {
		id = s.next
		s.next++
		s.ids[key] = id
	}
	return id
}

// Reveal marks the path and every prefix of it as revealed: reaching a
// move always reveals the line leading to it.
func (s *RevealedSet) Reveal(p tree.Path) {
	for i := 1; i <= len(p); i++ {
		s.revealed.Add(s.intern(p[:i].String()))
	}
}

// Revealed reports whether the path has been revealed. The empty (root)
// path is always revealed.
func (s *RevealedSet) Revealed(p tree.Path) bool {
	if len(p) == 0 {
		return true
	}
	id, ok := s.ids[p.String()]
	return ok && s.revealed.Contains(id)
}

// Func adapts the set to the projector's predicate interface.
func (s *RevealedSet) Func() ConcealFunc {
	return func(p tree.Path, b *tree.Branch) Answer {
		if s.Revealed(p) {
			return Reveal
		}
		if s.Revealed(p.Parent()) {
			return Conceal
		}
		return Hide
	}
}
