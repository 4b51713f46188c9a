package source

import (
	"github.com/dlclark/regexp2"
)

// Failure is a recoverable matching failure, it drives backtracking and never escapes a parse.
type Failure string

func (f Failure) Error() string {
	return string(f)
}

// ErrNoMatch is returned when a pattern does not match at current position.
const ErrNoMatch = Failure("no match")

// IsFailure reports whether e is a recoverable matching failure.
func IsFailure(e error) bool {
	_, f := e.(Failure)
	return f
}

// Pattern is a regular expression anchored at the match starting position.
type Pattern struct {
	expr string
	re   *regexp2.Regexp
}

// CompilePattern compiles expression anchored at the starting position.
func CompilePattern(expr string, opts regexp2.RegexOptions) (*Pattern, error) {
	re, e := regexp2.Compile(`\G(?:`+expr+`)`, opts)
	if e != nil {
		return nil, e
	}
	return &Pattern{expr, re}, nil
}

// MustCompilePattern is like CompilePattern but panics on error.
func MustCompilePattern(expr string, opts regexp2.RegexOptions) *Pattern {
	p, e := CompilePattern(expr, opts)
	if e != nil {
		panic(e)
	}
	return p
}

// String returns the expression as passed to CompilePattern.
func (p *Pattern) String() string {
	return p.expr
}

// matchAt returns the length of the match starting at pos or -1.
func (p *Pattern) matchAt(runes []rune, pos int) int {
	m, e := p.re.FindRunesMatchStartingAt(runes, pos)
	if e != nil || m == nil || m.Index != pos {
		return -1
	}
	return m.Length
}
