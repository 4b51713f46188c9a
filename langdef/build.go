package langdef

import (
	"strings"

	"github.com/ava12/rdp/grammar"
	"github.com/ava12/rdp/lexer"
	"github.com/ava12/rdp/parser"
)

// Actions maps action names used in description to functions.
// See tree.Action for acceptable function signatures.
type Actions map[string]any

func (a Actions) lookup(name, element string) (any, error) {
	if name == "" {
		return nil, nil
	}

	f, found := a[name]
	if !found {
		return nil, undefinedActionError(name, element)
	}
	return f, nil
}

var commentFlags = map[string]lexer.Flags{
	"ignore-case": lexer.IgnoreCase,
	"multiline":   lexer.Multiline,
	"dotall":      lexer.DotAll,
}

// Build creates a parser for the described language and checks it with parser.Validate.
// Returned errors are rdp.Error values from lexer, grammar, parser or langdef packages.
func (d *Definition) Build(actions Actions, opts ...parser.Option) (*parser.Parser, error) {
	if len(d.Tokenizers) == 0 {
		return nil, noTokenizersError()
	}

	toks := make(map[string]*lexer.Tokenizer, len(d.Tokenizers))
	for _, td := range d.Tokenizers {
		if toks[td.Name] != nil {
			return nil, tokenizerDefinedError(td.Name)
		}

		tok, e := td.build(actions)
		if e != nil {
			return nil, e
		}
		toks[td.Name] = tok
	}

	p := parser.New(opts...)
	for _, rd := range d.Rules {
		var tok *lexer.Tokenizer
		switch {
		case rd.Tokenizer != "":
			tok = toks[rd.Tokenizer]
			if tok == nil {
				return nil, undefinedTokenizerError(rd.Tokenizer, rd.Name)
			}
		case rd.Name == parser.StartRule && len(d.Tokenizers) == 1:
			tok = toks[d.Tokenizers[0].Name]
		}

		alts := make([]grammar.Alternative, len(rd.Alternatives))
		for i, ad := range rd.Alternatives {
			action, e := actions.lookup(ad.Action, "rule "+rd.Name)
			if e != nil {
				return nil, e
			}
			alts[i] = grammar.Alt(action, strings.Fields(ad.Elements)...)
		}

		if e := p.DefineRule(rd.Name, alts, tok); e != nil {
			return nil, e
		}
	}

	if e := p.Validate(); e != nil {
		return nil, e
	}
	return p, nil
}

func (td TokenizerDef) build(actions Actions) (*lexer.Tokenizer, error) {
	var opts []lexer.Option
	if td.SkipSpace != nil && !*td.SkipSpace {
		opts = append(opts, lexer.WithoutSpaceSkipping())
	}
	tok := lexer.New(opts...)

	for _, term := range td.Terminals {
		action, e := actions.lookup(term.Action, "terminal "+term.Name)
		if e != nil {
			return nil, e
		}
		if e = tok.DefineTerminal(term.Name, term.Pattern, action); e != nil {
			return nil, e
		}
	}

	for _, c := range td.Comments {
		var flags lexer.Flags
		for _, name := range c.Flags {
			f, found := commentFlags[strings.ToLower(name)]
			if !found {
				return nil, wrongFlagError(name, c.Pattern)
			}
			flags |= f
		}
		if e := tok.DefineComment(c.Pattern, flags); e != nil {
			return nil, e
		}
	}

	if td.Indent != nil {
		e := tok.EnableIndentTokens(td.Indent.Indent, td.Indent.Outdent, td.Indent.TabSize, td.Indent.Inline)
		if e != nil {
			return nil, e
		}
	}

	return tok, nil
}
