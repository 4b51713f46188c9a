// Package grammar defines rule data: element specifiers, alternatives, and compiled rules.
package grammar

import (
	"strings"

	"github.com/ava12/rdp"
	"github.com/ava12/rdp/lexer"
	"github.com/ava12/rdp/tree"
)

// Error codes used by grammar:
const (
	// WrongElementError indicates malformed element specifier.
	WrongElementError = rdp.GrammarErrors + iota

	// WrongRuleNameError indicates that a rule name is empty or contains forbidden characters.
	WrongRuleNameError

	// NoAlternativesError indicates a rule without alternatives.
	NoAlternativesError
)

// Unbounded is the Max value of elements with no upper repetition bound.
const Unbounded = -1

// Element is a decoded element specifier: a terminal or rule name with repetition bounds.
type Element struct {
	Name     string
	Min, Max int
}

// ParseElement decodes "name", "name?", "name*", or "name+".
func ParseElement(spec string) (Element, error) {
	el := Element{Name: spec, Min: 1, Max: 1}
	if spec != "" {
		switch spec[len(spec)-1] {
		case '?':
			el = Element{spec[:len(spec)-1], 0, 1}
		case '*':
			el = Element{spec[:len(spec)-1], 0, Unbounded}
		case '+':
			el = Element{spec[:len(spec)-1], 1, Unbounded}
		}
	}

	if !lexer.ValidName(el.Name) {
		return Element{}, rdp.FormatError(WrongElementError, "incorrect element specifier %q", spec)
	}
	return el, nil
}

// IsRepeated reports whether the element yields a tree.List rather than a single element.
func (el Element) IsRepeated() bool {
	return el.Min != 1 || el.Max != 1
}

// Allows reports whether n repetitions satisfy element bounds.
func (el Element) Allows(n int) bool {
	return n >= el.Min && (el.Max == Unbounded || n <= el.Max)
}

func (el Element) String() string {
	switch {
	case el.Min == 1 && el.Max == 1:
		return el.Name
	case el.Min == 0 && el.Max == 1:
		return el.Name + "?"
	case el.Min == 0 && el.Max == Unbounded:
		return el.Name + "*"
	default:
		return el.Name + "+"
	}
}

// Alternative is an undecoded rule alternative: element specifiers and an optional action.
// The action receives walk context followed by unevaluated children.
type Alternative struct {
	Elements []string
	Action   any
}

// Alt creates an Alternative.
func Alt(action any, elements ...string) Alternative {
	return Alternative{elements, action}
}

// Sequence is a decoded alternative.
type Sequence struct {
	Elements []Element
	Action   *tree.Action
}

func (s Sequence) String() string {
	parts := make([]string, len(s.Elements))
	for i, el := range s.Elements {
		parts[i] = el.String()
	}
	return strings.Join(parts, " ")
}

// Rule is a named ordered list of sequences, optionally bound to its own tokenizer.
type Rule struct {
	Name      string
	Sequences []Sequence
	Tokenizer *lexer.Tokenizer
}

// NewRule decodes alternatives. tok may be nil, the rule then uses the tokenizer of its caller.
func NewRule(name string, alts []Alternative, tok *lexer.Tokenizer) (*Rule, error) {
	if !lexer.ValidName(name) {
		return nil, rdp.FormatError(WrongRuleNameError, "incorrect rule name %q", name)
	}
	if len(alts) == 0 {
		return nil, rdp.FormatError(NoAlternativesError, "rule %s has no alternatives", name)
	}

	r := &Rule{Name: name, Sequences: make([]Sequence, len(alts)), Tokenizer: tok}
	for i, alt := range alts {
		els := make([]Element, len(alt.Elements))
		for j, spec := range alt.Elements {
			el, e := ParseElement(spec)
			if e != nil {
				return nil, e
			}
			els[j] = el
		}

		a, e := tree.NewAction(name, alt.Action)
		if e != nil {
			return nil, e
		}
		r.Sequences[i] = Sequence{els, a}
	}
	return r, nil
}

// References returns distinct element names used by the rule in order of appearance.
func (r *Rule) References() []string {
	res := make([]string, 0)
	seen := make(map[string]bool)
	for _, s := range r.Sequences {
		for _, el := range s.Elements {
			if !seen[el.Name] {
				seen[el.Name] = true
				res = append(res, el.Name)
			}
		}
	}
	return res
}
