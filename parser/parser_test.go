package parser

import (
	"bytes"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ava12/rdp"
	"github.com/ava12/rdp/grammar"
	"github.com/ava12/rdp/internal/test"
	"github.com/ava12/rdp/lexer"
	"github.com/ava12/rdp/source"
	"github.com/ava12/rdp/tree"
)

func walkInt(c tree.Child, ctx ...any) (int, error) {
	v, e := tree.WalkChild(c, ctx...)
	if e != nil {
		return 0, e
	}

	i, valid := v.(int)
	if !valid {
		return 0, fmt.Errorf("expecting int, got %T", v)
	}
	return i, nil
}

func binOp(op func(a, b int) int) func(a, _, b tree.Element) (int, error) {
	return func(a, _, b tree.Element) (int, error) {
		x, e := walkInt(a)
		if e != nil {
			return 0, e
		}
		y, e := walkInt(b)
		if e != nil {
			return 0, e
		}
		return op(x, y), nil
	}
}

func add(a, b int) int { return a + b }
func sub(a, b int) int { return a - b }
func mul(a, b int) int { return a * b }
func div(a, b int) int { return a / b }

func sum(_ *tree.Token, l tree.List) (int, error) {
	total := 0
	for _, el := range l {
		i, e := walkInt(el)
		if e != nil {
			return 0, e
		}
		total += i
	}
	return total, nil
}

func second(_, b tree.Element) (any, error) {
	return b.Walk()
}

func defineTerminals(t *testing.T, tok *lexer.Tokenizer, defs ...string) {
	for i := 0; i < len(defs); i += 2 {
		require.NoError(t, tok.DefineTerminal(defs[i], defs[i+1], nil), defs[i])
	}
}

func numberTokenizer(t *testing.T) *lexer.Tokenizer {
	tok := lexer.New()
	require.NoError(t, tok.DefineTerminal("NUMBER", `-?[0-9]+`, strconv.Atoi))
	return tok
}

func additionParser(t *testing.T) *Parser {
	tok := numberTokenizer(t)
	defineTerminals(t, tok, "PLUS", `\+`, "MINUS", `-`)

	p := New()
	require.NoError(t, p.DefineRule("start", []grammar.Alternative{
		grammar.Alt(binOp(add), "NUMBER", "PLUS", "NUMBER"),
		grammar.Alt(binOp(sub), "NUMBER", "MINUS", "NUMBER"),
	}, tok))
	return p
}

func arithmeticParser(t *testing.T) *Parser {
	tok := numberTokenizer(t)
	defineTerminals(t, tok,
		"PLUS", `\+`, "MINUS", `-`, "MULTIPLY", `\*`, "DIVIDE", `/`,
		"OPEN_PAREN", `\(`, "CLOSE_PAREN", `\)`,
	)

	p := New()
	require.NoError(t, p.DefineRule("start", []grammar.Alternative{
		grammar.Alt(nil, "add-term"),
	}, tok))
	require.NoError(t, p.DefineRule("add-term", []grammar.Alternative{
		grammar.Alt(binOp(add), "mult-term", "PLUS", "add-term"),
		grammar.Alt(binOp(sub), "mult-term", "MINUS", "add-term"),
		grammar.Alt(nil, "mult-term"),
	}, nil))
	require.NoError(t, p.DefineRule("mult-term", []grammar.Alternative{
		grammar.Alt(binOp(mul), "number-term", "MULTIPLY", "mult-term"),
		grammar.Alt(binOp(div), "number-term", "DIVIDE", "mult-term"),
		grammar.Alt(nil, "number-term"),
	}, nil))
	require.NoError(t, p.DefineRule("number-term", []grammar.Alternative{
		grammar.Alt(func(_, a, _ tree.Element) (any, error) { return a.Walk() }, "OPEN_PAREN", "add-term", "CLOSE_PAREN"),
		grammar.Alt(nil, "NUMBER"),
	}, nil))
	return p
}

func listParser(t *testing.T) *Parser {
	tok := numberTokenizer(t)
	defineTerminals(t, tok,
		"SINGLE", `single`, "OPTIONAL", `optional`, "LONGLIST", `longlist`, "SHORTLIST", `shortlist`,
	)

	p := New()
	require.NoError(t, p.DefineRule("start", []grammar.Alternative{
		grammar.Alt(second, "SINGLE", "NUMBER"),
		grammar.Alt(sum, "OPTIONAL", "NUMBER?"),
		grammar.Alt(sum, "LONGLIST", "NUMBER+"),
		grammar.Alt(sum, "SHORTLIST", "NUMBER*"),
	}, tok))
	return p
}

func parseInt(t *testing.T, p *Parser, text string) int {
	t.Helper()
	root, e := p.Parse(text)
	require.NoError(t, e, text)
	res, e := walkInt(root)
	require.NoError(t, e, text)
	return res
}

func TestAddition(t *testing.T) {
	p := additionParser(t)
	assert.Equal(t, 3, parseInt(t, p, "2 + 1"))
	assert.Equal(t, 1, parseInt(t, p, "2 - 1"))
	assert.Equal(t, 3, parseInt(t, p, "2 + 1  "))
	assert.Equal(t, -1, parseInt(t, p, "\n-2+1\n\n"))

	for _, text := range []string{"+ 1", "fred + 1", "", "2 +"} {
		_, e := p.Parse(text)
		test.ExpectErrorCode(t, ParseFailedError, e, text)
		assert.True(t, rdp.IsParseError(e))
		assert.False(t, rdp.IsGrammarError(e))
	}
}

func TestFailurePosition(t *testing.T) {
	_, e := additionParser(t).Parse("1 +\n  x")
	re := test.RequireErrorCode(t, ParseFailedError, e)
	assert.Equal(t, DefaultFilename, re.SourceName)
	assert.Equal(t, 2, re.Line)
	assert.Equal(t, 3, re.Col)
	assert.Equal(t, "x", re.Context)
	assert.Contains(t, re.Message, "at line 2 col 3")

	_, e = arithmeticParser(t).Parse("(2 + ) * 3", WithFilename("expr"))
	re = test.RequireErrorCode(t, ParseFailedError, e)
	assert.Equal(t, "expr", re.SourceName)
	test.ExpectErrorPos(t, 1, 6, e)
	assert.Equal(t, ") * 3", re.Context)
}

func TestRemainingInput(t *testing.T) {
	_, e := additionParser(t).Parse("1 + 1 + 1")
	re := test.RequireErrorCode(t, RemainingInputError, e)
	assert.Equal(t, " + 1", re.Context)
	test.ExpectErrorPos(t, 1, 7, e)
	assert.True(t, rdp.IsParseError(e))

	p := New()
	require.NoError(t, p.DefineRule("start", []grammar.Alternative{grammar.Alt(nil, "NUMBER")}, numberTokenizer(t)))
	_, e = p.Parse("1 1")
	re = test.RequireErrorCode(t, RemainingInputError, e)
	assert.Equal(t, " 1", re.Context)
	assert.Contains(t, re.Message, `" 1"`)
}

func TestArithmetic(t *testing.T) {
	p := arithmeticParser(t)
	assert.Equal(t, 3, parseInt(t, p, "2 + 1"))
	assert.Equal(t, 9, parseInt(t, p, "(2 + 1) * 3"))
	assert.Equal(t, 1, parseInt(t, p, "(3 - 1)/2"))
	assert.Equal(t, 7, parseInt(t, p, "1 + 2 * 3"))
	assert.Equal(t, 2, parseInt(t, p, "((((2))))"))
}

func TestModifiers(t *testing.T) {
	p := listParser(t)
	assert.Equal(t, 5, parseInt(t, p, "single 5"))
	assert.Equal(t, 1, parseInt(t, p, "optional 1"))
	assert.Equal(t, 0, parseInt(t, p, "optional "))
	assert.Equal(t, 6, parseInt(t, p, "longlist 2 1 3"))
	assert.Equal(t, 6, parseInt(t, p, "shortlist 2 1 3"))
	assert.Equal(t, 0, parseInt(t, p, "shortlist"))

	_, e := p.Parse("longlist")
	test.ExpectErrorCode(t, ParseFailedError, e)
	_, e = p.Parse("optional 1 2")
	test.ExpectErrorCode(t, RemainingInputError, e)
	_, e = p.Parse("single")
	test.ExpectErrorCode(t, ParseFailedError, e)
}

func TestGroupShape(t *testing.T) {
	p := listParser(t)
	samples := []struct {
		text string
		alt  int
		size int
	}{
		{"optional", 1, 0},
		{"optional 7", 1, 1},
		{"longlist 1", 2, 1},
		{"shortlist", 3, 0},
		{"shortlist 1 2 3", 3, 3},
	}

	for _, s := range samples {
		root, e := p.Parse(s.text)
		require.NoError(t, e, s.text)
		assert.Equal(t, s.alt, root.Alternative(), s.text)
		require.Equal(t, 2, root.Len())
		l, isList := tree.AsList(root.Child(1))
		require.True(t, isList, s.text)
		assert.Equal(t, s.size, l.Len(), s.text)
	}

	root, e := p.Parse("single 4")
	require.NoError(t, e)
	el, isElement := tree.AsElement(root.Child(1))
	require.True(t, isElement)
	assert.Equal(t, "NUMBER", el.Name())
}

func TestOrderedChoice(t *testing.T) {
	tok := lexer.New()
	defineTerminals(t, tok, "A", `a`, "B", `b`, "AB", `ab`)
	p := New()
	require.NoError(t, p.DefineRule("start", []grammar.Alternative{
		grammar.Alt(nil, "first"),
		grammar.Alt(nil, "A", "B"),
	}, tok))
	require.NoError(t, p.DefineRule("first", []grammar.Alternative{
		grammar.Alt(nil, "A"),
		grammar.Alt(nil, "AB"),
	}, nil))

	buf := &bytes.Buffer{}
	root, e := p.Parse("a", WithTrace(buf))
	require.NoError(t, e)
	assert.Equal(t, 0, root.Alternative())
	assert.NotContains(t, buf.String(), "#2")

	_, e = p.Parse("a b")
	test.ExpectErrorCode(t, RemainingInputError, e)

	_, e = p.Parse("ab")
	re := test.RequireErrorCode(t, RemainingInputError, e)
	assert.Equal(t, "b", re.Context)
}

func TestBacktrackingRestoresTracker(t *testing.T) {
	tok := lexer.New()
	defineTerminals(t, tok, "NAME", `[a-z]+`, "COLON", `:`, "BAD", `!`)
	require.NoError(t, tok.EnableIndentTokens("INDENT", "OUTDENT", 4, false))
	p := New()
	require.NoError(t, p.DefineRule("start", []grammar.Alternative{
		grammar.Alt(nil, "NAME", "COLON", "INDENT", "NAME", "NAME", "BAD"),
		grammar.Alt(nil, "NAME", "COLON", "INDENT", "NAME+", "BAD"),
	}, tok))

	tr := source.NewTracker(source.New("", "x:\n  a\n  b\n"), 4)
	pc := &parseContext{parser: p, tracker: tr}
	line, col, indent := tr.Line(), tr.Column(), tr.LastIndent()

	_, e := pc.parseRule(p.Rule("start"), tok, 0)
	assert.True(t, source.IsFailure(e))
	assert.Equal(t, 0, tr.Offset())
	assert.Equal(t, line, tr.Line())
	assert.Equal(t, col, tr.Column())
	assert.Equal(t, indent, tr.LastIndent())
	assert.Equal(t, []int{0}, tr.Indents())
	assert.Greater(t, tr.Highwater(), 0)
}

func TestConsumedPlusRemainder(t *testing.T) {
	tok := numberTokenizer(t)
	defineTerminals(t, tok, "PLUS", `\+`)
	require.NoError(t, tok.DefineComment(`#.*$`, lexer.Multiline))
	p := New()
	require.NoError(t, p.DefineRule("start", []grammar.Alternative{grammar.Alt(nil, "NUMBER", "tail*")}, tok))
	require.NoError(t, p.DefineRule("tail", []grammar.Alternative{grammar.Alt(nil, "PLUS", "NUMBER")}, nil))

	gap := regexp.MustCompile(`^(?:\s|#[^\n]*)*$`)
	for _, text := range []string{"1", " 1 + 2 # c\n+3\n\t", "# x\n1+-2+  3  # end"} {
		root, e := p.Parse(text)
		require.NoError(t, e, text)

		runes := []rune(text)
		offset := 0
		for _, el := range tree.Search(root, func(el tree.Element) bool { return !el.IsNode() }, false) {
			tok := el.(*tree.Token)
			start := tok.Pos().Offset()
			require.GreaterOrEqual(t, start, offset)
			assert.Regexp(t, gap, string(runes[offset:start]))
			end := start + len([]rune(tok.Text()))
			assert.Equal(t, tok.Text(), string(runes[start:end]))
			offset = end
		}
		assert.Regexp(t, gap, string(runes[offset:]))
	}
}

func TestNoProgressRepetition(t *testing.T) {
	p := New()
	require.NoError(t, p.DefineRule("start", []grammar.Alternative{grammar.Alt(nil, "empty*", "NUMBER")}, numberTokenizer(t)))
	require.NoError(t, p.DefineRule("empty", []grammar.Alternative{grammar.Alt(nil)}, nil))

	root, e := p.Parse("5")
	require.NoError(t, e)
	l, _ := tree.AsList(root.Child(0))
	assert.Equal(t, 1, l.Len())
}

func TestDefinitionErrors(t *testing.T) {
	p := New()
	tok := numberTokenizer(t)
	require.NoError(t, p.DefineRule("expr", []grammar.Alternative{grammar.Alt(nil, "NUMBER")}, nil))
	test.ExpectErrorCode(t, RuleDefinedError, p.DefineRule("expr", []grammar.Alternative{grammar.Alt(nil, "NUMBER")}, nil))
	test.ExpectErrorCode(t, grammar.WrongElementError, p.DefineRule("bad", []grammar.Alternative{grammar.Alt(nil, "NUMBER++")}, nil))
	assert.Nil(t, p.Rule("bad"))
	assert.Equal(t, []string{"expr"}, p.Rules())

	_, e := p.Parse("1")
	test.ExpectErrorCode(t, NoStartRuleError, e)
	assert.True(t, rdp.IsGrammarError(e))

	require.NoError(t, p.DefineRule("start", []grammar.Alternative{grammar.Alt(nil, "expr")}, nil))
	_, e = p.Parse("1")
	test.ExpectErrorCode(t, NoStartTokenizerError, e)

	p = New()
	require.NoError(t, p.DefineRule("start", []grammar.Alternative{
		grammar.Alt(nil, "NUMBER"),
		grammar.Alt(nil, "UNKNOWN"),
	}, tok))
	assert.Equal(t, 1, parseInt(t, p, "1"))
	_, e = p.Parse("x")
	test.ExpectErrorCode(t, UndefinedNameError, e)
	assert.False(t, rdp.IsParseError(e))

	tok = numberTokenizer(t)
	defineTerminals(t, tok, "expr", `x`)
	p = New()
	require.NoError(t, p.DefineRule("start", []grammar.Alternative{grammar.Alt(nil, "expr")}, tok))
	require.NoError(t, p.DefineRule("expr", []grammar.Alternative{grammar.Alt(nil, "NUMBER")}, nil))
	_, e = p.Parse("x")
	test.ExpectErrorCode(t, AmbiguousNameError, e)
}

func TestActionArityAtWalk(t *testing.T) {
	p := New()
	require.NoError(t, p.DefineRule("start", []grammar.Alternative{
		grammar.Alt(func(a, b tree.Element) int { return 0 }, "NUMBER"),
	}, numberTokenizer(t)))

	root, e := p.Parse("1")
	require.NoError(t, e)
	_, e = root.Walk()
	test.ExpectErrorCode(t, tree.ActionArityError, e)
	assert.True(t, rdp.IsGrammarError(e))
}

func TestParseFile(t *testing.T) {
	p := additionParser(t)
	name := filepath.Join(t.TempDir(), "sum.txt")
	require.NoError(t, os.WriteFile(name, []byte("40 + 2\n"), 0o644))

	root, e := p.ParseFile(name)
	require.NoError(t, e)
	v, e := walkInt(root)
	require.NoError(t, e)
	assert.Equal(t, 42, v)
	assert.Equal(t, name, root.Pos().SourceName())

	require.NoError(t, os.WriteFile(name, []byte("40 +"), 0o644))
	_, e = p.ParseFile(name)
	re := test.RequireErrorCode(t, ParseFailedError, e)
	assert.Equal(t, name, re.SourceName)

	_, e = p.ParseFile(filepath.Join(t.TempDir(), "missing"))
	assert.ErrorIs(t, e, fs.ErrNotExist)
	assert.Equal(t, 0, rdp.ErrorCode(e))
}

func TestParseFileKeepsOptions(t *testing.T) {
	p := additionParser(t)
	name := filepath.Join(t.TempDir(), "sum.txt")
	require.NoError(t, os.WriteFile(name, []byte("1 + 2"), 0o644))

	buf := &bytes.Buffer{}
	opts := make([]ParseOption, 1, 4)
	opts[0] = WithTrace(buf)
	_, e := p.ParseFile(name, opts...)
	require.NoError(t, e)
	assert.NotEmpty(t, buf.String())
	assert.Len(t, opts, 1)
	assert.Nil(t, opts[:2][1])
}

func TestTrace(t *testing.T) {
	buf := &bytes.Buffer{}
	_, e := additionParser(t).Parse("2 - 1", WithTrace(buf))
	require.NoError(t, e)
	trace := buf.String()
	assert.Contains(t, trace, "start: \"2 - 1\"\n")
	assert.Contains(t, trace, "  #1: NUMBER PLUS NUMBER\n")
	assert.Contains(t, trace, "\tNUMBER \"2\"\n")
	assert.Contains(t, trace, "\tPLUS: no match\n")
	assert.Contains(t, trace, "start matched #2\n")

	buf.Reset()
	_, e = listParser(t).Parse("longlist", WithTrace(buf))
	require.Error(t, e)
	assert.Contains(t, buf.String(), "\tNUMBER+: 0 repetitions\n")
	assert.Contains(t, buf.String(), "start failed\n")
}

func TestLogger(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	p := New(WithLogger(logger))
	require.NoError(t, p.DefineRule("start", []grammar.Alternative{grammar.Alt(nil, "NUMBER")}, numberTokenizer(t)))

	_, e := p.Parse("1", WithFilename("one"))
	require.NoError(t, e)
	assert.Contains(t, buf.String(), "parse started")
	assert.Contains(t, buf.String(), "parse finished")
	assert.Contains(t, buf.String(), "filename=one")

	_, e = p.Parse("x")
	require.Error(t, e)
	assert.Contains(t, buf.String(), "parse failed")
}
