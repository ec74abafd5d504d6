package loader

import (
	"errors"
	"fmt"
)

// Sentinel kinds for loader errors.
var (
	ErrIO            = errors.New("input unreadable")
	ErrParse         = errors.New("malformed input")
	ErrMissingHeader = errors.New("missing header row")
	ErrMissingColumn = errors.New("missing column")
	ErrNotANumber    = errors.New("not a number")
)

// ParseError describes the first malformed line of the input.
// It matches ErrParse and its cause under errors.Is.
type ParseError struct {
	Line   int    // 1-based line number, header is line 1
	Column string // column name, empty when the whole row is at fault
	Value  string // offending raw value, if any
	Err    error
}

func (e *ParseError) Error() string {
	switch {
	case e.Column == "":
		return fmt.Sprintf("line %d: %v", e.Line, e.Err)
	case e.Value == "":
		return fmt.Sprintf("line %d: column %s: %v", e.Line, e.Column, e.Err)
	default:
		return fmt.Sprintf("line %d: column %s: %q: %v", e.Line, e.Column, e.Value, e.Err)
	}
}

func (e *ParseError) Unwrap() []error { return []error{ErrParse, e.Err} }
