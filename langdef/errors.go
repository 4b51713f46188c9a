package langdef

import (
	"strings"

	"github.com/ava12/rdp"
)

// Error codes used by langdef:
const (
	UnknownFormatError = rdp.DefinitionErrors + iota
	DecodeError
	UnknownFieldError
	TokenizerDefinedError
	UndefinedTokenizerError
	UndefinedActionError
	WrongFlagError
	NoTokenizersError
)

func unknownFormatError(name string) *rdp.Error {
	return rdp.FormatError(UnknownFormatError, "cannot detect definition format of %q", name)
}

func decodeError(name string, e error) *rdp.Error {
	return rdp.FormatError(DecodeError, "cannot decode %s: %s", name, e.Error())
}

func unknownFieldError(name string, fields []string) *rdp.Error {
	return rdp.FormatError(UnknownFieldError, "unknown fields in %s: %s", name, strings.Join(fields, ", "))
}

func tokenizerDefinedError(name string) *rdp.Error {
	return rdp.FormatError(TokenizerDefinedError, "tokenizer %q already defined", name)
}

func undefinedTokenizerError(name, rule string) *rdp.Error {
	return rdp.FormatError(UndefinedTokenizerError, "tokenizer %q used in rule %s is not defined", name, rule)
}

func undefinedActionError(name, element string) *rdp.Error {
	return rdp.FormatError(UndefinedActionError, "action %q for %s is not provided", name, element)
}

func wrongFlagError(flag, pattern string) *rdp.Error {
	return rdp.FormatError(WrongFlagError, "unknown flag %q for comment %s", flag, pattern)
}

func noTokenizersError() *rdp.Error {
	return rdp.FormatError(NoTokenizersError, "no tokenizers defined")
}
