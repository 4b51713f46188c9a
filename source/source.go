// Package source defines source text, positions, and the position tracker used by tokenizers.
package source

import (
	"sort"
)

// Source is an immutable named text. All offsets are rune indices.
type Source struct {
	name       string
	text       string
	runes      []rune
	lineStarts []int
}

// New creates new Source.
func New(name, text string) *Source {
	s := &Source{name: name, text: text, runes: []rune(text)}
	s.lineStarts = append(make([]int, 0, 16), 0)
	for i, r := range s.runes {
		if r == '\n' {
			s.lineStarts = append(s.lineStarts, i+1)
		}
	}
	return s
}

// Name returns source name.
func (s *Source) Name() string {
	return s.name
}

// Text returns source text.
func (s *Source) Text() string {
	return s.text
}

// Runes returns source text as a rune slice, the slice must not be modified.
func (s *Source) Runes() []rune {
	return s.runes
}

// Len returns source length in runes.
func (s *Source) Len() int {
	return len(s.runes)
}

// LineCol returns 1-based line and column numbers for given offset.
// Offsets outside of the text are clamped.
func (s *Source) LineCol(pos int) (line, col int) {
	if pos < 0 {
		pos = 0
	} else if pos > len(s.runes) {
		pos = len(s.runes)
	}

	index := sort.Search(len(s.lineStarts), func(i int) bool {
		return s.lineStarts[i] > pos
	}) - 1
	return index + 1, pos - s.lineStarts[index] + 1
}

// Slice returns text between two offsets, offsets are clamped.
func (s *Source) Slice(from, to int) string {
	l := len(s.runes)
	if from < 0 {
		from = 0
	}
	if to > l {
		to = l
	}
	if from >= to {
		return ""
	}
	return string(s.runes[from:to])
}

// Pos is a position in source text.
type Pos struct {
	src            *Source
	pos, line, col int
}

// NewPos creates new Pos for given offset, line and column are computed.
func NewPos(s *Source, pos int) Pos {
	line, col := s.LineCol(pos)
	return Pos{s, pos, line, col}
}

// Source returns the source this position belongs to.
func (p Pos) Source() *Source {
	return p.src
}

// SourceName returns source name or empty string.
func (p Pos) SourceName() string {
	if p.src == nil {
		return ""
	}
	return p.src.name
}

// Offset returns rune offset.
func (p Pos) Offset() int {
	return p.pos
}

// Line returns 1-based line number.
func (p Pos) Line() int {
	return p.line
}

// Col returns 1-based column number.
func (p Pos) Col() int {
	return p.col
}
