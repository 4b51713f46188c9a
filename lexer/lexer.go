// Package lexer defines tokenizer producing tokens of requested terminals.
package lexer

import (
	"github.com/dlclark/regexp2"

	"github.com/ava12/rdp"
	"github.com/ava12/rdp/source"
	"github.com/ava12/rdp/tree"
)

// Error codes used by lexer:
const (
	// TerminalDefinedError indicates that a terminal name is already in use.
	TerminalDefinedError = rdp.LexerErrors + iota

	// WrongNameError indicates that a terminal name is empty or contains forbidden characters.
	WrongNameError

	// WrongPatternError indicates that a pattern cannot be compiled.
	WrongPatternError

	// IndentSpaceError indicates that indent tokens are requested for a tokenizer that does not skip spaces.
	IndentSpaceError

	// UndefinedTerminalError indicates a request for a terminal the tokenizer does not know.
	UndefinedTerminalError
)

// Recoverable failures returned by NextToken:
const (
	ErrNoMatch           = source.ErrNoMatch
	ErrUnexpectedIndent  = source.Failure("unexpected indent")
	ErrUnexpectedOutdent = source.Failure("unexpected outdent")
	ErrBadOutdent        = source.Failure("outdent to non-matching indentation level")
	ErrNoIndent          = source.Failure("indentation change expected")
)

// Flags modify comment patterns.
type Flags int

const (
	// IgnoreCase makes pattern case-insensitive.
	IgnoreCase Flags = 1 << iota
	// Multiline makes ^ and $ match at line boundaries.
	Multiline
	// DotAll makes . match line feeds.
	DotAll
)

func (f Flags) options() regexp2.RegexOptions {
	opts := regexp2.None
	if f&IgnoreCase != 0 {
		opts |= regexp2.IgnoreCase
	}
	if f&Multiline != 0 {
		opts |= regexp2.Multiline
	}
	if f&DotAll != 0 {
		opts |= regexp2.Singleline
	}
	return opts
}

type terminal struct {
	name    string
	pattern *source.Pattern
	action  *tree.Action
}

type indentConfig struct {
	indent, outdent string
	tabSize         int
	inline          bool
}

// Tokenizer holds terminal definitions, comment styles, and indentation settings.
// Tokenizer is immutable once parsing starts and may be shared by concurrent parses,
// all matching state lives in source.Tracker.
type Tokenizer struct {
	terminals map[string]*terminal
	names     []string
	comments  []*source.Pattern
	skipSpace bool
	indent    *indentConfig
}

// Option configures new Tokenizer.
type Option func(*Tokenizer)

// WithoutSpaceSkipping makes tokenizer treat spaces and line feeds as significant.
func WithoutSpaceSkipping() Option {
	return func(t *Tokenizer) {
		t.skipSpace = false
	}
}

// New creates new Tokenizer. By default spaces and line feeds between tokens are skipped.
func New(opts ...Option) *Tokenizer {
	t := &Tokenizer{
		terminals: make(map[string]*terminal),
		skipSpace: true,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// ValidName reports whether name may be used as terminal or rule name.
func ValidName(name string) bool {
	if name == "" {
		return false
	}

	for _, c := range name {
		valid := (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9') || c == '_' || c == '-'
		if !valid {
			return false
		}
	}
	return true
}

// DefineTerminal adds a terminal. action may be nil or a function accepting walk context
// followed by the matched text.
func (t *Tokenizer) DefineTerminal(name, pattern string, action any) error {
	if e := t.checkName(name); e != nil {
		return e
	}

	p, e := source.CompilePattern(pattern, regexp2.None)
	if e != nil {
		return rdp.FormatError(WrongPatternError, "incorrect pattern %q for terminal %s: %s", pattern, name, e.Error())
	}

	a, e := tree.NewAction(name, action)
	if e != nil {
		return e
	}

	t.terminals[name] = &terminal{name, p, a}
	t.names = append(t.names, name)
	return nil
}

// DefineComment adds a comment style. Comments are skipped like spaces.
func (t *Tokenizer) DefineComment(pattern string, flags Flags) error {
	p, e := source.CompilePattern(pattern, flags.options())
	if e != nil {
		return rdp.FormatError(WrongPatternError, "incorrect comment pattern %q: %s", pattern, e.Error())
	}

	t.comments = append(t.comments, p)
	return nil
}

// EnableIndentTokens makes tokenizer synthesize indent and outdent tokens when line indentation changes.
// Tabs are tabSize columns wide, non-positive tabSize means 1.
// If inline is set an indent token may be requested in the middle of a line,
// the current column becomes the new indentation level.
func (t *Tokenizer) EnableIndentTokens(indentName, outdentName string, tabSize int, inline bool) error {
	if !t.skipSpace {
		return rdp.FormatError(IndentSpaceError, "cannot use indent tokens without skipping spaces")
	}

	if indentName == outdentName {
		return rdp.FormatError(TerminalDefinedError, "indent and outdent terminals must differ, got %s", indentName)
	}

	if t.indent != nil {
		return rdp.FormatError(TerminalDefinedError, "indent tokens already enabled")
	}

	for _, name := range []string{indentName, outdentName} {
		if e := t.checkName(name); e != nil {
			return e
		}
	}

	if tabSize <= 0 {
		tabSize = source.DefaultTabSize
	}
	t.indent = &indentConfig{indentName, outdentName, tabSize, inline}
	return nil
}

func (t *Tokenizer) checkName(name string) error {
	if !ValidName(name) {
		return rdp.FormatError(WrongNameError, "incorrect terminal name %q", name)
	}
	if t.Has(name) {
		return rdp.FormatError(TerminalDefinedError, "terminal %s already defined", name)
	}
	return nil
}

// Has reports whether name is a defined terminal, indent and outdent names included.
func (t *Tokenizer) Has(name string) bool {
	if t.terminals[name] != nil {
		return true
	}
	return t.indent != nil && (name == t.indent.indent || name == t.indent.outdent)
}

// Names returns terminal names in definition order, indent and outdent names excluded.
func (t *Tokenizer) Names() []string {
	res := make([]string, len(t.names))
	copy(res, t.names)
	return res
}

// IndentNames returns indent and outdent terminal names or empty strings.
func (t *Tokenizer) IndentNames() (indent, outdent string) {
	if t.indent == nil {
		return "", ""
	}
	return t.indent.indent, t.indent.outdent
}

// SkipsSpace reports whether spaces and line feeds are skipped.
func (t *Tokenizer) SkipsSpace() bool {
	return t.skipSpace
}

// TabSize returns tab width for indentation or 1 if indent tokens are not enabled.
func (t *Tokenizer) TabSize() int {
	if t.indent == nil {
		return source.DefaultTabSize
	}
	return t.indent.tabSize
}

// SkipSpace skips spaces, line feeds, and comments until none left at current position.
func (t *Tokenizer) SkipSpace(tr *source.Tracker) {
	for {
		start := tr.Offset()
		if t.skipSpace {
			tr.StripTrailingSpace()
			tr.StripOtherSpace()
		}
		for _, c := range t.comments {
			tr.MatchOptional(c)
		}
		if tr.Offset() == start {
			return
		}
	}
}

// NextToken fetches a token of requested terminal at current tracker position.
// Returns a source.Failure if the terminal cannot be fetched; the tracker may be left modified
// in this case and must be restored by caller.
// Returns rdp.Error if the terminal is not defined.
// A tokenizer with indent tokens enabled sets the tracker tab width, others keep the current one.
func (t *Tokenizer) NextToken(name string, tr *source.Tracker) (*tree.Token, error) {
	if !t.Has(name) {
		return nil, rdp.FormatError(UndefinedTerminalError, "undefined terminal %s", name)
	}

	if t.indent != nil {
		tr.SetTabSize(t.indent.tabSize)
	}
	t.SkipSpace(tr)
	tr.Mark()

	if t.indent != nil {
		tok, e := t.indentToken(name, tr)
		if tok != nil || e != nil {
			return tok, e
		}
	}

	term := t.terminals[name]
	if term == nil {
		return nil, ErrNoIndent
	}

	pos := tr.Pos()
	text, e := tr.Match(term.pattern)
	if e != nil {
		return nil, e
	}

	tr.Mark()
	return tree.NewToken(name, text, pos, term.action), nil
}

func (t *Tokenizer) indentToken(name string, tr *source.Tracker) (*tree.Token, error) {
	current := tr.LastIndent()
	if tr.AtEnd() {
		current = 0
	}
	top := tr.IndentTop()

	switch {
	case current > top:
		if name != t.indent.indent {
			return nil, ErrUnexpectedIndent
		}

		tr.PushIndent(current)
		return tree.NewIndentToken(name, current, tr.Pos()), nil

	case !tr.HasIndent(current):
		return nil, ErrBadOutdent

	case current < top:
		if name != t.indent.outdent {
			return nil, ErrUnexpectedOutdent
		}

		tr.PopIndent()
		return tree.NewIndentToken(name, current, tr.Pos()), nil
	}

	if t.indent.inline && name == t.indent.indent {
		col := tr.Column()
		if col > top {
			tr.PushIndent(col)
			tr.SetLastIndent(col)
			return tree.NewIndentToken(name, col, tr.Pos()), nil
		}
	}

	return nil, nil
}
