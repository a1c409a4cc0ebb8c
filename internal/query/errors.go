package query

import "errors"

// Sentinel errors for predicate compilation and evaluation.
var (
	// ErrSyntax indicates the predicate text could not be parsed.
	ErrSyntax = errors.New("syntax error")
	// ErrUnknownColumn indicates an identifier names no column of the table.
	ErrUnknownColumn = errors.New("unknown column")
	// ErrType indicates an operator was applied to operands of the wrong type,
	// or the predicate does not evaluate to booleans.
	ErrType = errors.New("type mismatch")
	// ErrUnknownFunction indicates a call to a function outside abs, isnan and isfinite.
	ErrUnknownFunction = errors.New("unknown function")
	// ErrUnknownFlag indicates removal of a flag that is not part of the filter state.
	ErrUnknownFlag = errors.New("flag is not set")
)

// FilterCompileError reports a predicate that failed to compile or to
// evaluate against a category's table.
type FilterCompileError struct {
	Text     string // Full predicate text, flag clauses included
	Category string // Empty until a dataset view attributes the failure
	Err      error
}

// Error returns the failing text with its cause.
func (e *FilterCompileError) Error() string {
	if e.Category != "" {
		return "filter " + e.Category + ": " + quote(e.Text) + ": " + e.Err.Error()
	}
	return "filter " + quote(e.Text) + ": " + e.Err.Error()
}

// Unwrap returns the underlying error for use with errors.Is/As.
func (e *FilterCompileError) Unwrap() error {
	return e.Err
}

// UnknownFlagError reports an attempt to remove a flag that is not set.
type UnknownFlagError struct {
	Name string
}

// Error names the missing flag.
func (e *UnknownFlagError) Error() string {
	return "remove flag " + e.Name + ": " + ErrUnknownFlag.Error()
}

// Unwrap returns ErrUnknownFlag.
func (e *UnknownFlagError) Unwrap() error {
	return ErrUnknownFlag
}

func quote(s string) string {
	return "\"" + s + "\""
}
