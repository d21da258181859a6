// Package domainerrors provides the coded error taxonomy used across the
// service. Three families matter to callers: structural/input errors,
// authorization errors, and internal faults. Compliance denials are not
// errors at all — they are verdicts with reason codes — so no code here
// represents a denial.
package domainerrors

import (
	"errors"
	"fmt"
)

// Code classifies an error for transport mapping and caller branching.
type Code string

const (
	// CodeInvalidInput marks structural/input errors: zero addresses,
	// non-positive amounts, unknown partitions, missing required fields.
	// These fail before any state is touched.
	CodeInvalidInput Code = "invalid_input"
	// CodeUnauthorized marks role-check failures. Distinct from a
	// compliance denial: the caller may not even ask.
	CodeUnauthorized Code = "unauthorized"
	// CodeNotFound marks a missing record.
	CodeNotFound Code = "not_found"
	// CodeConflict marks an operation racing or re-entering another.
	CodeConflict Code = "conflict"
	// CodeInvariantViolation marks a domain invariant breach.
	CodeInvariantViolation Code = "invariant_violation"
	// CodeTimeout marks a context cancellation or deadline.
	CodeTimeout Code = "timeout"
	// CodeInternal marks everything else.
	CodeInternal Code = "internal"
)

// Error is a coded error. Construct via New or Wrap.
type Error struct {
	code Code
	msg  string
	err  error
}

// New creates a coded error with a message.
func New(code Code, msg string) *Error {
	return &Error{code: code, msg: msg}
}

// Wrap annotates an underlying error with a code and message.
// Returns nil if err is nil.
func Wrap(err error, code Code, msg string) *Error {
	if err == nil {
		return nil
	}
	return &Error{code: code, msg: msg, err: err}
}

// Code returns the error's classification.
func (e *Error) Code() Code {
	return e.code
}

func (e *Error) Error() string {
	if e.err != nil {
		return fmt.Sprintf("%s: %v", e.msg, e.err)
	}
	return e.msg
}

// Unwrap exposes the underlying error for errors.Is / errors.As.
func (e *Error) Unwrap() error {
	return e.err
}

// HasCode reports whether err (or anything it wraps) carries the given code.
func HasCode(err error, code Code) bool {
	return CodeOf(err) == code
}

// CodeOf returns the code of the outermost coded error in err's chain, or
// CodeInternal when the chain carries no coded error.
func CodeOf(err error) Code {
	var coded *Error
	if errors.As(err, &coded) {
		return coded.code
	}
	return CodeInternal
}
