package parser

import (
	"github.com/ava12/rdp/grammar"
	"github.com/ava12/rdp/lexer"
	"github.com/ava12/rdp/source"
	"github.com/ava12/rdp/tree"
)

// parseContext is the state of a single Parse call.
type parseContext struct {
	parser  *Parser
	tracker *source.Tracker
	trace   *tracer
}

// resolve returns the rule for name or nil if name is a terminal of tok.
func (pc *parseContext) resolve(name, ruleName string, tok *lexer.Tokenizer) (*grammar.Rule, error) {
	return resolveName(pc.parser, name, ruleName, tok)
}

func resolveName(p *Parser, name, ruleName string, tok *lexer.Tokenizer) (*grammar.Rule, error) {
	isTerm := tok != nil && tok.Has(name)
	r := p.rules[name]
	switch {
	case isTerm && r != nil:
		return nil, ambiguousNameError(name, ruleName)
	case !isTerm && r == nil:
		return nil, undefinedNameError(name, ruleName)
	}
	return r, nil
}

// parseRule tries rule alternatives in order. Tracker is restored before each next alternative
// and left unchanged if no alternative matches.
func (pc *parseContext) parseRule(r *grammar.Rule, tok *lexer.Tokenizer, depth int) (*tree.Node, error) {
	if r.Tokenizer != nil {
		tok = r.Tokenizer
	}

	tr := pc.tracker
	pc.trace.rule(depth, r.Name, tr.Rest())
	for i, seq := range r.Sequences {
		s := tr.Snapshot()
		pc.trace.alternative(depth, i, seq)

		children, e := pc.parseSequence(r.Name, seq, tok, depth+1)
		if e == nil {
			pos := tr.PosAt(s.Offset())
			for _, c := range children {
				if el := firstToken(c); el != nil {
					pos = el.Pos()
					break
				}
			}

			n := tree.NewNode(r.Name, i, seq.Action, pos)
			for _, c := range children {
				n.AppendChild(c)
			}
			pc.trace.ruleMatched(depth, r.Name, i)
			return n, nil
		}

		tr.Restore(s)
		if !source.IsFailure(e) {
			return nil, e
		}
	}

	pc.trace.ruleFailed(depth, r.Name)
	return nil, errNoAlternative
}

func firstToken(c tree.Child) *tree.Token {
	switch x := c.(type) {
	case tree.Element:
		return tree.FirstToken(x)
	case tree.List:
		for _, el := range x {
			if t := tree.FirstToken(el); t != nil {
				return t
			}
		}
	}
	return nil
}

func (pc *parseContext) parseSequence(ruleName string, seq grammar.Sequence, tok *lexer.Tokenizer, depth int) ([]tree.Child, error) {
	children := make([]tree.Child, 0, len(seq.Elements))
	for _, el := range seq.Elements {
		c, e := pc.parseItem(ruleName, el, tok, depth)
		if e != nil {
			return nil, e
		}
		children = append(children, c)
	}
	return children, nil
}

// parseItem parses a possibly repeated element. A failed repetition leaves no trace in tracker.
func (pc *parseContext) parseItem(ruleName string, el grammar.Element, tok *lexer.Tokenizer, depth int) (tree.Child, error) {
	if !el.IsRepeated() {
		return pc.parseElement(ruleName, el.Name, tok, depth)
	}

	tr := pc.tracker
	list := make(tree.List, 0)
	for el.Max == grammar.Unbounded || len(list) < el.Max {
		s := tr.Snapshot()
		depthBefore := len(tr.Indents())
		c, e := pc.parseElement(ruleName, el.Name, tok, depth)
		if e != nil {
			tr.Restore(s)
			if !source.IsFailure(e) {
				return nil, e
			}
			break
		}

		list = append(list, c)
		if tr.Offset() == s.Offset() && len(tr.Indents()) == depthBefore {
			break
		}
	}

	if !el.Allows(len(list)) {
		pc.trace.tooFew(depth, el, len(list))
		return nil, errTooFew
	}
	return list, nil
}

func (pc *parseContext) parseElement(ruleName, name string, tok *lexer.Tokenizer, depth int) (tree.Element, error) {
	r, e := pc.resolve(name, ruleName, tok)
	if e != nil {
		return nil, e
	}

	if r != nil {
		n, e := pc.parseRule(r, tok, depth)
		if e != nil {
			return nil, e
		}
		return n, nil
	}

	t, e := tok.NextToken(name, pc.tracker)
	if e != nil {
		if !source.IsFailure(e) {
			return nil, e
		}
		pc.trace.tokenFailed(depth, name, e)
		return nil, e
	}

	pc.trace.tokenMatched(depth, t)
	return t, nil
}
