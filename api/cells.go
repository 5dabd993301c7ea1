// Package api defines the public output schema of the view projector:
// a nested tree of typed cells consumed by the rendering/UI layer.
package api

// Kind enumerates the cell types the projector emits.
type Kind string

const (
	// KindIndex is a move-number marker ("12").
	KindIndex Kind = "index"
	// KindMove is a single move cell.
	KindMove Kind = "move"
	// KindEmpty is the literal-ellipsis placeholder standing in for a
	// move slot interrupted by a variation block.
	KindEmpty Kind = "empty"
	// KindElision is the "[...]" cutoff cell ending a truncated line.
	KindElision Kind = "elision"
	// KindComment is a comment callout.
	KindComment Kind = "comment"
	// KindInline is a short variation fused into its sibling's line.
	KindInline Kind = "inline"
	// KindLines is a boxed group of variation lines, one per child.
	KindLines Kind = "lines"
	// KindInterrupt is a boxed block breaking the mainline: comment
	// callouts followed by the sibling variations.
	KindInterrupt Kind = "interrupt"
)

// Style/state classes attached to cells.
const (
	ClassConceal    = "conceal" // rendered but visually hidden/blurred
	ClassCurrent    = "current" // the node at the controller's display path
	ClassWhite      = "white"   // comment color parity
	ClassBlack      = "black"
	ClassInline     = "inline" // comment placed mid-line rather than boxed
	ClassSingleLine = "single" // lines group holding exactly one line
)

// Cell is one element of the nested view tree. Path, when set, is the
// addressed node's full path and serves as a stable key for
// click-to-navigate in the consuming UI.
type Cell struct {
	Kind    Kind     `json:"kind"`
	Path    string   `json:"path,omitempty"`
	Text    string   `json:"text,omitempty"`
	Classes []string `json:"classes,omitempty"`
	Cells   []Cell   `json:"cells,omitempty"` // interrupt and inline contents
	Lines   [][]Cell `json:"lines,omitempty"` // lines group rows
}
