package tree

import (
	"regexp"
	"strings"

	"github.com/google/uuid"
)

// CommentID is an opaque identifier for a comment.
type CommentID string

// Author is who wrote a comment. Exactly four variants exist: a registered
// user, an external (imported) author known only by name, the system itself,
// and unknown (nil). Each variant has its own wire encoding; see EncodeAuthor.
type Author interface {
	isAuthor()
	// key is the identity used by Comments.Set to replace an existing
	// comment by the same author.
	key() string
}

// UserAuthor is a registered user with a display name.
type UserAuthor struct {
	ID   string
	Name string
}

// ExternalAuthor is an imported author, identified only by name.
type ExternalAuthor string

// SystemAuthor marks comments produced by the system (server analysis etc).
type SystemAuthor struct{}

func (a UserAuthor) isAuthor()     {}
func (a ExternalAuthor) isAuthor() {}
func (a SystemAuthor) isAuthor()   {}

func (a UserAuthor) key() string     { return "user:" + a.ID }
func (a ExternalAuthor) key() string { return "external:" + string(a) }
func (a SystemAuthor) key() string   { return systemAuthorName }

const systemAuthorName = "system"

// EncodeAuthor produces the wire value for an author: {id,name} for users,
// a bare string for external authors, the system constant for the system,
// and explicit null for unknown.
func EncodeAuthor(a Author) any {
	switch v := a.(type) {
	case UserAuthor:
		return map[string]any{"id": v.ID, "name": v.Name}
	case ExternalAuthor:
		return string(v)
	case SystemAuthor:
		return systemAuthorName
	default:
		return nil
	}
}

// ParseAuthor is the inverse of EncodeAuthor.
func ParseAuthor(v any) Author {
	switch t := v.(type) {
	case map[string]any:
		id, _ := t["id"].(string)
		name, _ := t["name"].(string)
		return UserAuthor{ID: id, Name: name}
	case string:
		if t == systemAuthorName {
			return SystemAuthor{}
		}
		return ExternalAuthor(t)
	default:
		return nil
	}
}

func authorKey(a Author) string {
	if a == nil {
		return ""
	}
	return a.key()
}

// Comment is a per-node text annotation.
type Comment struct {
	ID   CommentID
	Text string
	By   Author
}

// maxCommentLength caps sanitized comment text, in runes.
const maxCommentLength = 4000

// NewComment sanitizes text and assigns a fresh opaque id.
func NewComment(text string, by Author) Comment {
	return Comment{
		ID:   CommentID(uuid.NewString()),
		Text: SanitizeComment(text),
		By:   by,
	}
}

var (
	spaceRunRe = regexp.MustCompile(`[ \t]+`)
	trailingRe = regexp.MustCompile(`[ \t]+\n`)
	blankRunRe = regexp.MustCompile(`\n{3,}`)
	metaTagRe  = regexp.MustCompile(`\[%[^\]]*\]`)
	severityRe = regexp.MustCompile(`^(Inaccuracy|Mistake|Blunder)\.`)
)

// SanitizeComment normalizes free text for storage: CRLF to LF, curly braces
// stripped (reserved by the export notation), runs of spaces and tabs
// collapsed, trailing whitespace removed, runs of blank lines collapsed,
// trimmed, and capped at maxCommentLength runes. Idempotent.
func SanitizeComment(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	text = strings.NewReplacer("{", "", "}", "").Replace(text)
	text = spaceRunRe.ReplaceAllString(text, " ")
	text = trailingRe.ReplaceAllString(text, "\n")
	text = blankRunRe.ReplaceAllString(text, "\n\n")
	text = strings.TrimSpace(text)
	if runes := []rune(text); len(runes) > maxCommentLength {
		text = strings.TrimSpace(string(runes[:maxCommentLength]))
	}
	return text
}

// RemoveMeta strips embedded machine tags like [%clk 0:01:02] or
// [%eval 1.4] from the text. The second return is false when nothing
// remains, signaling the comment should be omitted from rendering.
func (c Comment) RemoveMeta() (Comment, bool) {
	text := strings.TrimSpace(metaTagRe.ReplaceAllString(c.Text, ""))
	if text == "" {
		return Comment{}, false
	}
	c.Text = text
	return c, true
}

// Severity is a display-only classification derived from a comment's
// leading text. It is never stored.
type Severity string

const (
	SeverityInaccuracy Severity = "inaccuracy"
	SeverityMistake    Severity = "mistake"
	SeverityBlunder    Severity = "blunder"
)

// Severity maps the comment's leading text to its severity tag.
// Comments without a matching prefix have none.
func (c Comment) Severity() (Severity, bool) {
	m := severityRe.FindStringSubmatch(c.Text)
	if m == nil {
		return "", false
	}
	return Severity(strings.ToLower(m[1])), true
}

// Comments is an ordered comment list. All operations return a new list.
type Comments []Comment

// Set replaces an existing comment by the same author identity, or appends.
func (cs Comments) Set(c Comment) Comments {
	out := make(Comments, 0, len(cs)+1)
	replaced := false
	for _, existing := range cs {
		if authorKey(existing.By) == authorKey(c.By) {
			out = append(out, c)
			replaced = true
		} else {
			out = append(out, existing)
		}
	}
	if !replaced {
		out = append(out, c)
	}
	return out
}

// Add prepends unconditionally, allowing several comments per author.
func (cs Comments) Add(c Comment) Comments {
	out := make(Comments, 0, len(cs)+1)
	out = append(out, c)
	return append(out, cs...)
}

// Delete removes the comment with the given id, if present.
func (cs Comments) Delete(id CommentID) Comments {
	out := make(Comments, 0, len(cs))
	for _, c := range cs {
		if c.ID != id {
			out = append(out, c)
		}
	}
	return out
}

// FilterMeta strips machine tags from every comment and drops the ones
// with nothing left.
func (cs Comments) FilterMeta() Comments {
	var out Comments
	for _, c := range cs {
		if stripped, ok := c.RemoveMeta(); ok {
			out = append(out, stripped)
		}
	}
	return out
}

// FindBy returns the comment by the given author, if any.
func (cs Comments) FindBy(a Author) (Comment, bool) {
	for _, c := range cs {
		if authorKey(c.By) == authorKey(a) {
			return c, true
		}
	}
	return Comment{}, false
}
