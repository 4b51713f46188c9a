package source

import (
	"github.com/dlclark/regexp2"
)

// DefaultTabSize is the tab width used when a non-positive width is requested.
const DefaultTabSize = 1

var (
	trailingSpace = MustCompilePattern(`[ \t\r]*\n`, regexp2.None)
	otherSpace    = MustCompilePattern(`[ \t]*`, regexp2.None)
)

// Tracker keeps current matching position in a Source along with indentation state.
// The Source is shared and never modified; a Tracker is created for each parse.
type Tracker struct {
	src        *Source
	offset     int
	line       int
	col        int
	lastIndent int
	indents    []int
	highwater  int
	tabSize    int
}

// Snapshot is the state of a Tracker needed to undo matches.
type Snapshot struct {
	offset, line, col, lastIndent int
	indents                       []int
}

// Offset returns saved rune offset.
func (s Snapshot) Offset() int {
	return s.offset
}

// NewTracker creates a Tracker positioned at the start of src.
func NewTracker(src *Source, tabSize int) *Tracker {
	if tabSize <= 0 {
		tabSize = DefaultTabSize
	}
	return &Tracker{
		src:     src,
		line:    1,
		indents: []int{0},
		tabSize: tabSize,
	}
}

// Source returns the tracked source.
func (t *Tracker) Source() *Source {
	return t.src
}

// TabSize returns tab width used for column computation.
func (t *Tracker) TabSize() int {
	return t.tabSize
}

// SetTabSize changes tab width, non-positive values are replaced by DefaultTabSize.
func (t *Tracker) SetTabSize(size int) {
	if size <= 0 {
		size = DefaultTabSize
	}
	t.tabSize = size
}

// Match tries to match p at current position, advances the position and returns matched text.
// Returns ErrNoMatch if p does not match.
func (t *Tracker) Match(p *Pattern) (string, error) {
	l := p.matchAt(t.src.runes, t.offset)
	if l < 0 {
		return "", ErrNoMatch
	}

	text := t.src.runes[t.offset : t.offset+l]
	t.advance(text)
	return string(text), nil
}

// MatchOptional matches p and reports whether it matched.
func (t *Tracker) MatchOptional(p *Pattern) bool {
	_, e := t.Match(p)
	return e == nil
}

func (t *Tracker) advance(text []rune) {
	t.offset += len(text)
	for _, r := range text {
		switch r {
		case '\n':
			t.line++
			t.col = 0
		case '\t':
			t.col += t.tabSize
		default:
			t.col++
		}
	}
}

// StripTrailingSpace skips spaces up to and including the next line feed.
// Reports whether anything was skipped.
func (t *Tracker) StripTrailingSpace() bool {
	return t.MatchOptional(trailingSpace)
}

// StripOtherSpace skips spaces and tabs. When called at line start the resulting column
// becomes the line indent. Reports whether anything was skipped.
func (t *Tracker) StripOtherSpace() bool {
	start := t.offset
	atLineStart := t.col == 0
	t.MatchOptional(otherSpace)
	if atLineStart {
		t.lastIndent = t.col
	}
	return t.offset > start
}

// Snapshot returns current state.
func (t *Tracker) Snapshot() Snapshot {
	indents := make([]int, len(t.indents))
	copy(indents, t.indents)
	return Snapshot{t.offset, t.line, t.col, t.lastIndent, indents}
}

// Restore returns tracker to a previously saved state. Highwater offset is not affected.
func (t *Tracker) Restore(s Snapshot) {
	t.offset = s.offset
	t.line = s.line
	t.col = s.col
	t.lastIndent = s.lastIndent
	t.indents = append(t.indents[:0], s.indents...)
}

// IndentTop returns the innermost indentation level.
func (t *Tracker) IndentTop() int {
	return t.indents[len(t.indents)-1]
}

// PushIndent adds new indentation level.
func (t *Tracker) PushIndent(indent int) {
	t.indents = append(t.indents, indent)
}

// PopIndent removes the innermost indentation level, the outermost level is never removed.
func (t *Tracker) PopIndent() int {
	top := t.IndentTop()
	if len(t.indents) > 1 {
		t.indents = t.indents[:len(t.indents)-1]
	}
	return top
}

// HasIndent reports whether indent is one of indentation levels.
func (t *Tracker) HasIndent(indent int) bool {
	for _, i := range t.indents {
		if i == indent {
			return true
		}
	}
	return false
}

// Indents returns a copy of the indentation stack, outermost level first.
func (t *Tracker) Indents() []int {
	res := make([]int, len(t.indents))
	copy(res, t.indents)
	return res
}

// LastIndent returns the indent of the current line.
func (t *Tracker) LastIndent() int {
	return t.lastIndent
}

// SetLastIndent overrides the indent of the current line.
func (t *Tracker) SetLastIndent(indent int) {
	t.lastIndent = indent
}

// Mark raises highwater offset to current position.
func (t *Tracker) Mark() {
	if t.offset > t.highwater {
		t.highwater = t.offset
	}
}

// Highwater returns the deepest marked offset.
func (t *Tracker) Highwater() int {
	return t.highwater
}

// Offset returns current rune offset.
func (t *Tracker) Offset() int {
	return t.offset
}

// Line returns current 1-based line number.
func (t *Tracker) Line() int {
	return t.line
}

// Column returns current 0-based column, tabs expanded.
func (t *Tracker) Column() int {
	return t.col
}

// AtEnd reports whether the whole source has been consumed.
func (t *Tracker) AtEnd() bool {
	return t.offset >= len(t.src.runes)
}

// Rest returns unconsumed text.
func (t *Tracker) Rest() string {
	return t.src.Slice(t.offset, len(t.src.runes))
}

// Pos returns current position.
func (t *Tracker) Pos() Pos {
	return t.PosAt(t.offset)
}

// PosAt returns position for given offset.
func (t *Tracker) PosAt(offset int) Pos {
	return NewPos(t.src, offset)
}
