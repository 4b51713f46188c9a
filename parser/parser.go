// Package parser defines rule registry and backtracking recursive-descent parser.
package parser

import (
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/pkg/errors"

	"github.com/ava12/rdp/grammar"
	"github.com/ava12/rdp/lexer"
	"github.com/ava12/rdp/source"
	"github.com/ava12/rdp/tree"
)

const (
	// StartRule is the name of the entry rule.
	StartRule = "start"

	// DefaultFilename is the source name used when none is provided.
	DefaultFilename = "Input"
)

// Parser holds an ordered rule registry.
// Rules must be defined before parsing; after that Parser is read-only
// and safe for concurrent use.
type Parser struct {
	rules  map[string]*grammar.Rule
	names  []string
	logger *slog.Logger
}

// Option configures new Parser.
type Option func(*Parser)

// WithLogger sets logger for parse events, slog.Default() is used otherwise.
func WithLogger(l *slog.Logger) Option {
	return func(p *Parser) {
		if l != nil {
			p.logger = l
		}
	}
}

// New creates new Parser with no rules.
func New(opts ...Option) *Parser {
	p := &Parser{
		rules:  make(map[string]*grammar.Rule),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// DefineRule adds a rule. tok may be nil, the rule then uses the tokenizer of the rule it is called from.
// Alternatives are tried in given order, the first one that matches wins.
func (p *Parser) DefineRule(name string, alts []grammar.Alternative, tok *lexer.Tokenizer) error {
	if p.rules[name] != nil {
		return ruleDefinedError(name)
	}

	r, e := grammar.NewRule(name, alts, tok)
	if e != nil {
		return e
	}

	p.rules[name] = r
	p.names = append(p.names, name)
	return nil
}

// Rule returns rule data or nil. Returned rule must not be modified.
func (p *Parser) Rule(name string) *grammar.Rule {
	return p.rules[name]
}

// Rules returns rule names in definition order.
func (p *Parser) Rules() []string {
	res := make([]string, len(p.names))
	copy(res, p.names)
	return res
}

type parseConfig struct {
	trace    io.Writer
	filename string
}

// ParseOption configures a single Parse call.
type ParseOption func(*parseConfig)

// WithTrace makes parser write rule expansion trace to w.
func WithTrace(w io.Writer) ParseOption {
	return func(c *parseConfig) {
		c.trace = w
	}
}

// WithFilename sets source name used in error messages.
func WithFilename(name string) ParseOption {
	return func(c *parseConfig) {
		c.filename = name
	}
}

// Parse parses text starting with the "start" rule and returns root node.
// Whole text must match, trailing spaces and comments excluded.
// Returns rdp.Error with ParseFailedError or RemainingInputError code if text does not match,
// any other error code means a problem in grammar setup.
func (p *Parser) Parse(text string, opts ...ParseOption) (*tree.Node, error) {
	cfg := parseConfig{filename: DefaultFilename}
	for _, opt := range opts {
		opt(&cfg)
	}

	start := p.rules[StartRule]
	if start == nil {
		return nil, noStartRuleError()
	}
	if start.Tokenizer == nil {
		return nil, noStartTokenizerError()
	}

	src := source.New(cfg.filename, text)
	tr := source.NewTracker(src, start.Tokenizer.TabSize())
	pc := &parseContext{parser: p, tracker: tr, trace: newTracer(cfg.trace)}
	started := time.Now()
	p.logger.Debug("parse started", "filename", cfg.filename, "length", src.Len())

	root, e := pc.parseRule(start, start.Tokenizer, 0)
	if e == nil {
		end := tr.Offset()
		start.Tokenizer.SkipSpace(tr)
		if !tr.AtEnd() {
			e = remainingInputError(src, end, tr.Offset())
		}
	} else if source.IsFailure(e) {
		e = parseFailedError(src, tr.Highwater())
	}

	if e != nil {
		p.logger.Debug("parse failed", "filename", cfg.filename, "highwater", tr.Highwater(), "error", e)
		return nil, e
	}

	p.logger.Debug("parse finished", "filename", cfg.filename, "offset", tr.Offset(), "duration", time.Since(started))
	return root, nil
}

// ParseFile reads the file and parses its content using path as source name.
func (p *Parser) ParseFile(path string, opts ...ParseOption) (*tree.Node, error) {
	content, e := os.ReadFile(path)
	if e != nil {
		return nil, errors.Wrapf(e, "cannot read %s", path)
	}

	fileOpts := make([]ParseOption, 0, len(opts)+1)
	fileOpts = append(fileOpts, opts...)
	return p.Parse(string(content), append(fileOpts, WithFilename(path))...)
}
