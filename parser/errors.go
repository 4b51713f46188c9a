package parser

import (
	"github.com/ava12/rdp"
	"github.com/ava12/rdp/source"
)

// Error codes for grammar setup problems:
const (
	// RuleDefinedError indicates that a rule name is already in use.
	RuleDefinedError = rdp.ParserErrors + iota

	// UndefinedNameError indicates an element name that is neither a terminal of the active tokenizer nor a rule.
	UndefinedNameError

	// AmbiguousNameError indicates an element name that is both a terminal of the active tokenizer and a rule.
	AmbiguousNameError

	// NoStartRuleError indicates that there is no rule named "start".
	NoStartRuleError

	// NoStartTokenizerError indicates that the "start" rule is not bound to a tokenizer.
	NoStartTokenizerError
)

// Error codes for input text failures:
const (
	// ParseFailedError indicates that input text does not match grammar.
	// Error position is the deepest position any alternative has reached.
	ParseFailedError = rdp.ParseErrors + iota

	// RemainingInputError indicates that grammar has matched only a prefix of input text.
	RemainingInputError
)

// Recoverable failures used while expanding rules:
const (
	errNoAlternative = source.Failure("no alternative matched")
	errTooFew        = source.Failure("too few repetitions")
)

const contextLen = 32

func ruleDefinedError(name string) *rdp.Error {
	return rdp.FormatError(RuleDefinedError, "rule %s already defined", name)
}

func undefinedNameError(name, rule string) *rdp.Error {
	return rdp.FormatError(UndefinedNameError, "element %s used in rule %s is neither a terminal nor a rule", name, rule)
}

func ambiguousNameError(name, rule string) *rdp.Error {
	return rdp.FormatError(AmbiguousNameError, "element %s used in rule %s is both a terminal and a rule", name, rule)
}

func noStartRuleError() *rdp.Error {
	return rdp.FormatError(NoStartRuleError, "there must be a rule named %q", StartRule)
}

func noStartTokenizerError() *rdp.Error {
	return rdp.FormatError(NoStartTokenizerError, "rule %q must be bound to a tokenizer", StartRule)
}

func parseFailedError(src *source.Source, offset int) *rdp.Error {
	context := textContext(src, offset)
	e := rdp.FormatErrorPos(source.NewPos(src, offset), ParseFailedError, "failed to parse around %q", context)
	e.Context = context
	return e
}

func remainingInputError(src *source.Source, from, pos int) *rdp.Error {
	rest := src.Slice(from, src.Len())
	e := rdp.FormatErrorPos(source.NewPos(src, pos), RemainingInputError, "extra input found: %q", truncate(rest))
	e.Context = rest
	return e
}

func textContext(src *source.Source, offset int) string {
	return truncate(src.Slice(offset, offset+contextLen+1))
}

func truncate(s string) string {
	r := []rune(s)
	if len(r) > contextLen {
		return string(r[:contextLen]) + "..."
	}
	return s
}
