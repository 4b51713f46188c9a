package rdp

import (
	"fmt"

	"github.com/pkg/errors"
)

// Error classes used by subpackages, each class contains up to 99 error codes:
const (
	GrammarErrors    = 1   // used by grammar
	LexerErrors      = 101 // used by lexer
	TreeErrors       = 201 // used by tree
	ParserErrors     = 301 // used by parser for grammar setup problems
	ParseErrors      = 401 // used by parser for input text failures
	DefinitionErrors = 501 // used by langdef
)

// Error is the error type used by rdp subpackages.
type Error struct {
	// Code contains non-zero error code.
	Code int

	// Message contains non-empty error message including source name and position information if provided.
	Message string

	// SourceName contains source name that caused this error or empty string.
	SourceName string

	// Line contains line number in source file or 0.
	Line int

	// Col contains column number in source file or 0.
	Col int

	// Context contains source text surrounding error position or empty string.
	Context string
}

// SourcePos is used to retrieve source name and position information when constructing an error;
// source.Pos and tree.Token implement this interface.
type SourcePos interface {
	// SourceName returns source file name or empty string.
	SourceName() string
	// Line returns line number or 0.
	Line() int
	// Col returns column number or 0.
	Col() int
}

// NewError creates new Error structure.
// name, line, and col will be added to error message if provided (non-zero).
func NewError(code int, msg, name string, line, col int) *Error {
	if name != "" && line != 0 && col != 0 {
		msg += fmt.Sprintf(" in %s at line %d col %d", name, line, col)
	}
	return &Error{Code: code, Message: msg, SourceName: name, Line: line, Col: col}
}

// Error simply returns Error.Message.
func (e *Error) Error() string {
	return e.Message
}

// FormatError creates Error structure with no source and position information.
// params will be added to error message using fmt.Sprintf function.
func FormatError(code int, msg string, params ...any) *Error {
	if len(params) > 0 {
		msg = fmt.Sprintf(msg, params...)
	}
	return NewError(code, msg, "", 0, 0)
}

// FormatErrorPos creates Error structure with source and position information.
// pos must not be nil.
// params will be added to error message using fmt.Sprintf function.
func FormatErrorPos(pos SourcePos, code int, msg string, params ...any) *Error {
	if len(params) > 0 {
		msg = fmt.Sprintf(msg, params...)
	}
	return NewError(code, msg, pos.SourceName(), pos.Line(), pos.Col())
}

// ErrorCode returns the code of the first Error in the chain of e or 0.
func ErrorCode(e error) int {
	var re *Error
	if errors.As(e, &re) {
		return re.Code
	}
	return 0
}

// IsGrammarError reports whether e is caused by a defect in grammar setup
// (element specifiers, definitions, references, action signatures)
// rather than by the parsed text.
func IsGrammarError(e error) bool {
	code := ErrorCode(e)
	return (code >= GrammarErrors && code < ParseErrors) || (code >= DefinitionErrors && code < DefinitionErrors+99)
}

// IsParseError reports whether e is a failure to parse input text.
func IsParseError(e error) bool {
	code := ErrorCode(e)
	return code >= ParseErrors && code < DefinitionErrors
}
