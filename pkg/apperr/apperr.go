// Package apperr provides the typed errors raised by the scoring run.
// Callers match them with errors.Is against the sentinels below or
// errors.As against *Error to read the column and row context.
package apperr

import (
	"errors"
	"fmt"
)

// Kind represents the category of error.
type Kind int

const (
	// KindUnknown is the default error kind when none is specified.
	KindUnknown Kind = iota
	// KindSchema indicates a required column is missing or malformed.
	KindSchema
	// KindDegenerateRange indicates a value range with max equal to min.
	KindDegenerateRange
	// KindDateArithmetic indicates an invalid date offset composition.
	KindDateArithmetic
	// KindTemplate indicates a message template could not be resolved.
	KindTemplate
	// KindConfig indicates invalid configuration.
	KindConfig
)

// Sentinels for errors.Is matching on Kind.
var (
	ErrSchema          = errors.New("schema error")
	ErrDegenerateRange = errors.New("degenerate range")
	ErrDateArithmetic  = errors.New("date arithmetic error")
	ErrTemplate        = errors.New("template error")
	ErrConfig          = errors.New("config error")
)

func (k Kind) String() string {
	switch k {
	case KindSchema:
		return "schema"
	case KindDegenerateRange:
		return "degenerate_range"
	case KindDateArithmetic:
		return "date_arithmetic"
	case KindTemplate:
		return "template"
	case KindConfig:
		return "config"
	default:
		return "unknown"
	}
}

// Error is a domain error with enough context to locate the offending cell.
type Error struct {
	Kind    Kind
	Op      string // operation that failed (optional)
	Column  string // column name (optional)
	Row     int    // 1-based data row, 0 when not row specific
	Message string
	Err     error // underlying error (optional)
}

// Error implements the error interface.
func (e *Error) Error() string {
	msg := e.Message
	if e.Column != "" {
		msg = fmt.Sprintf("%s (column %q", msg, e.Column)
		if e.Row > 0 {
			msg = fmt.Sprintf("%s, row %d", msg, e.Row)
		}
		msg += ")"
	} else if e.Row > 0 {
		msg = fmt.Sprintf("%s (row %d)", msg, e.Row)
	}
	if e.Op != "" {
		msg = e.Op + ": " + msg
	}
	if e.Err != nil {
		msg = msg + ": " + e.Err.Error()
	}
	return msg
}

// Unwrap returns the underlying error for errors.Is/As support.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is the sentinel for this error's kind.
func (e *Error) Is(target error) bool {
	switch target {
	case ErrSchema:
		return e.Kind == KindSchema
	case ErrDegenerateRange:
		return e.Kind == KindDegenerateRange
	case ErrDateArithmetic:
		return e.Kind == KindDateArithmetic
	case ErrTemplate:
		return e.Kind == KindTemplate
	case ErrConfig:
		return e.Kind == KindConfig
	}
	return false
}

// WithOp sets the operation and returns the error.
func (e *Error) WithOp(op string) *Error {
	e.Op = op
	return e
}

// New creates a new domain error with the given kind and message.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Wrap creates a new domain error wrapping an existing error.
func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// Schema creates a schema error for a column and 1-based row (0 for none).
func Schema(column string, row int, message string) *Error {
	return &Error{Kind: KindSchema, Column: column, Row: row, Message: message}
}

// DegenerateRange creates a degenerate range error.
func DegenerateRange(message string) *Error {
	return New(KindDegenerateRange, message)
}

// DateArithmetic creates a date arithmetic error.
func DateArithmetic(message string) *Error {
	return New(KindDateArithmetic, message)
}

// Config creates a configuration error.
func Config(message string) *Error {
	return New(KindConfig, message)
}

// KindOf returns the Kind of err, or KindUnknown if err is not an *Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}
