package irrecoverable

import (
	"errors"
	"fmt"
)

// exception represents an unexpected error. An unexpected error is any error returned
// by a function, other than the error specifically documented as expected in that
// function's interface.
//
// It wraps an error, which could be a sentinel error. IT does NOT UNWRAP.
// This prevents upper layers from treating unexpected errors as expected ones.
type exception struct {
	err error
}

// Error returns the error string of the exception. It is always prefixed
// with `[exception!]`.
func (e exception) Error() string {
	return "[exception!] " + e.err.Error()
}

// Cause returns the wrapped error for inspection by tooling. It is deliberately
// not named Unwrap, so errors.Is and errors.As stop at the exception.
func (e exception) Cause() error {
	return e.err
}

// NewException wraps the input error as an exception, stripping any sentinel
// error information from the error message.
func NewException(err error) error {
	return exception{err: err}
}

// NewExceptionf is NewException with the ability to add formatting and context
// to the error message.
func NewExceptionf(msg string, args ...any) error {
	return NewException(fmt.Errorf(msg, args...))
}

// IsException returns true if the error is, or wraps, an exception.
func IsException(err error) bool {
	var e exception
	return errors.As(err, &e)
}
