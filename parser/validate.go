package parser

import (
	"github.com/ava12/rdp/internal/queue"
	"github.com/ava12/rdp/lexer"
)

type visit struct {
	rule string
	tok  *lexer.Tokenizer
}

// Validate checks rules reachable from "start" with the tokenizer each of them would be expanded with.
// Returns the first unresolvable or ambiguous element name or missing start rule error.
// Parse performs the same checks lazily, Validate reports them before any input is seen.
func (p *Parser) Validate() error {
	_, e := p.reach()
	return e
}

// Unreachable returns names of rules that cannot be expanded starting from "start",
// in definition order. Returns nil if grammar is not valid.
func (p *Parser) Unreachable() []string {
	reached, e := p.reach()
	if e != nil {
		return nil
	}

	res := make([]string, 0)
	for _, name := range p.names {
		if !reached[name] {
			res = append(res, name)
		}
	}
	return res
}

func (p *Parser) reach() (map[string]bool, error) {
	start := p.rules[StartRule]
	if start == nil {
		return nil, noStartRuleError()
	}
	if start.Tokenizer == nil {
		return nil, noStartTokenizerError()
	}

	reached := make(map[string]bool)
	visited := make(map[visit]bool)
	first := visit{StartRule, start.Tokenizer}
	visited[first] = true
	q := queue.New(first)
	for !q.IsEmpty() {
		v, _ := q.First()
		reached[v.rule] = true
		r := p.rules[v.rule]
		tok := v.tok
		if r.Tokenizer != nil {
			tok = r.Tokenizer
		}

		for _, name := range r.References() {
			sub, e := resolveName(p, name, r.Name, tok)
			if e != nil {
				return nil, e
			}

			if sub != nil {
				next := visit{sub.Name, tok}
				if !visited[next] {
					visited[next] = true
					q.Append(next)
				}
			}
		}
	}

	return reached, nil
}
