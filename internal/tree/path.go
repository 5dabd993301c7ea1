package tree

import "strings"

// Square indexes a board square 0..63: a1=0, b1=1, ..., h8=63.
type Square uint8

// NewSquare builds a square from zero-based file and rank.
func NewSquare(file, rank int) Square {
	return Square(rank*8 + file)
}

// ParseSquare parses algebraic notation like "e4".
func ParseSquare(s string) (Square, bool) {
	if len(s) != 2 || s[0] < 'a' || s[0] > 'h' || s[1] < '1' || s[1] > '8' {
		return 0, false
	}
	return NewSquare(int(s[0]-'a'), int(s[1]-'1')), true
}

func (s Square) File() int { return int(s) % 8 }
func (s Square) Rank() int { return int(s) / 8 }

func (s Square) String() string {
	return string([]byte{byte('a' + s.File()), byte('1' + s.Rank())})
}

// Piotr returns the single-character code used by the compact dests/drops
// wire encodings: a-z for squares 0-25, A-Z for 26-51, 0-9 for 52-61,
// then '!' and '?'.
func (s Square) Piotr() byte {
	switch {
	case s < 26:
		return 'a' + byte(s)
	case s < 52:
		return 'A' + byte(s-26)
	case s < 62:
		return '0' + byte(s-52)
	case s == 62:
		return '!'
	default:
		return '?'
	}
}

// SquareFromPiotr is the inverse of Piotr.
func SquareFromPiotr(c byte) (Square, bool) {
	switch {
	case c >= 'a' && c <= 'z':
		return Square(c - 'a'), true
	case c >= 'A' && c <= 'Z':
		return Square(c-'A') + 26, true
	case c >= '0' && c <= '9':
		return Square(c-'0') + 52, true
	case c == '!':
		return 62, true
	case c == '?':
		return 63, true
	}
	return 0, false
}

// Role identifies a piece kind, used by promotion and drop ids.
type Role byte

const (
	RolePawn Role = iota
	RoleKnight
	RoleBishop
	RoleRook
	RoleQueen
	RoleKing
)

// RoleFromChar maps UCI piece letters (lowercase) to roles.
func RoleFromChar(c byte) (Role, bool) {
	switch c {
	case 'p':
		return RolePawn, true
	case 'n':
		return RoleKnight, true
	case 'b':
		return RoleBishop, true
	case 'r':
		return RoleRook, true
	case 'q':
		return RoleQueen, true
	case 'k':
		return RoleKing, true
	}
	return 0, false
}

// ID is the two-character identifier of a branch, derived deterministically
// from the move's origin and destination squares. It is the branch's path
// segment; concatenated ids form the address of a node in the tree.
//
// Encoding: a plain move maps each square to idShift+index. Promotions
// replace the destination character with a (role, file) code above the
// square range, and drops replace the origin character with a role code
// above that. Every legal move yields a distinct id.
type ID string

const (
	idShift    = 35               // first printable char clear of JSON syntax
	promoShift = idShift + 64     // promotion codes: role*8 + dest file
	dropShift  = promoShift + 5*8 // drop codes: one per role
	promoRoles = "qrbnk"          // promotable roles, in code order
	dropRoles  = "pnbrq"          // droppable roles, in code order
)

// MoveID is the id of a plain origin/destination move.
func MoveID(orig, dest Square) ID {
	return ID([]rune{rune(idShift + int(orig)), rune(idShift + int(dest))})
}

// PromotionID is the id of a promoting move. Unknown roles fall back to MoveID.
func PromotionID(orig, dest Square, role Role) ID {
	idx := strings.IndexByte(promoRoles, roleChar(role))
	if idx < 0 {
		return MoveID(orig, dest)
	}
	return ID([]rune{rune(idShift + int(orig)), rune(promoShift + idx*8 + dest.File())})
}

// DropID is the id of a crazyhouse drop.
func DropID(role Role, dest Square) ID {
	idx := strings.IndexByte(dropRoles, roleChar(role))
	if idx < 0 {
		idx = 0
	}
	return ID([]rune{rune(idShift + int(dest)), rune(dropShift + idx)})
}

// IDFromUCI derives the id from machine notation: "e2e4", "e7e8q" or "N@f3".
func IDFromUCI(uci string) (ID, bool) {
	if len(uci) == 4 && uci[1] == '@' {
		role, ok := RoleFromChar(uci[0] | 0x20)
		if !ok {
			return "", false
		}
		dest, ok := ParseSquare(uci[2:4])
		if !ok {
			return "", false
		}
		return DropID(role, dest), true
	}
	if len(uci) < 4 {
		return "", false
	}
	orig, ok := ParseSquare(uci[0:2])
	if !ok {
		return "", false
	}
	dest, ok := ParseSquare(uci[2:4])
	if !ok {
		return "", false
	}
	if len(uci) >= 5 {
		if role, ok := RoleFromChar(uci[4]); ok {
			return PromotionID(orig, dest, role), true
		}
	}
	return MoveID(orig, dest), true
}

func roleChar(r Role) byte {
	switch r {
	case RolePawn:
		return 'p'
	case RoleKnight:
		return 'n'
	case RoleBishop:
		return 'b'
	case RoleRook:
		return 'r'
	case RoleQueen:
		return 'q'
	case RoleKing:
		return 'k'
	}
	return 0
}

// Path addresses a node as the ordered sequence of branch ids from the root.
// The empty path is the root address and is a prefix of every path.
type Path []ID

// ParsePath splits a concatenated id string back into a path.
// Ids are always two runes wide; a trailing odd rune is dropped.
func ParsePath(s string) Path {
	runes := []rune(s)
	var p Path
	for i := 0; i+1 < len(runes); i += 2 {
		p = append(p, ID(runes[i:i+2]))
	}
	return p
}

// Append returns a new path with id added. The underlying array is never
// shared with the receiver, so sibling recursions cannot clobber each other.
func (p Path) Append(id ID) Path {
	out := make(Path, 0, len(p)+1)
	out = append(out, p...)
	return append(out, id)
}

// Parent returns the path one segment shorter, or the empty path.
func (p Path) Parent() Path {
	if len(p) == 0 {
		return nil
	}
	return p[:len(p)-1]
}

// Equal reports segment-wise equality.
func (p Path) Equal(q Path) bool {
	if len(p) != len(q) {
		return false
	}
	for i := range p {
		if p[i] != q[i] {
			return false
		}
	}
	return true
}

// Contains reports whether q is a prefix of p. Every path contains the
// empty (root) path.
func (p Path) Contains(q Path) bool {
	if len(q) > len(p) {
		return false
	}
	return p[:len(q)].Equal(q)
}

func (p Path) String() string {
	var sb strings.Builder
	for _, id := range p {
		sb.WriteString(string(id))
	}
	return sb.String()
}
