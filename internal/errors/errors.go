// Package errors contains helper functions for wrapping errors with stack traces and panic recovery.
package errors

import (
	"errors"
	"fmt"

	goerrors "github.com/go-errors/errors"
)

// New creates a new error and wraps it in an Error type that contains the stack trace.
func New(message string) error {
	return goerrors.Wrap(errors.New(message), 1)
}

// Errorf creates a new error and wraps it in an Error type that contains the stack trace.
func Errorf(message string, args ...any) error {
	return goerrors.Wrap(fmt.Errorf(message, args...), 1)
}

// WithStackTrace wraps the given error in an Error type that contains the stack trace. If the given error already has
// a stack trace, it is used directly. If the given error is nil, return nil.
func WithStackTrace(err error) error {
	if err == nil {
		return nil
	}

	return goerrors.Wrap(err, 1)
}

// WithStackTraceAndPrefix wraps the given error in an Error type that contains the stack trace and has the given
// message prepended as part of the error message. If the given error is nil, return nil.
func WithStackTraceAndPrefix(err error, message string, args ...any) error {
	if err == nil {
		return nil
	}

	return goerrors.WrapPrefix(err, fmt.Sprintf(message, args...), 1)
}

// IsError returns true if actual is the same type of error as expected. This method unwraps the given error objects
// (if they are wrapped in objects with a stacktrace) and then does a simple equality check on them.
func IsError(actual error, expected error) bool {
	return goerrors.Is(actual, expected)
}

// Unwrap returns the original, underlying error if the given error is a wrapper that contains a stack trace. In all
// other cases, the error is returned unchanged.
func Unwrap(err error) error {
	if err == nil {
		return nil
	}

	for {
		if goError := new(goerrors.Error); errors.As(err, &goError) {
			err = goError.Err
			continue
		}

		return err
	}
}

// ErrorWithStackTrace returns a string that contains both the error message and the callstack.
func ErrorWithStackTrace(err error) string {
	if err == nil {
		return ""
	}

	return goError(err).ErrorStack()
}

func goError(err error) *goerrors.Error {
	goerr := &goerrors.Error{Err: err}

	for {
		if goError := new(goerrors.Error); errors.As(err, &goError) {
			goerr = goError
		}

		if err = errors.Unwrap(err); err == nil {
			break
		}
	}

	return goerr
}

// ErrorWithExitCode is a custom error that is used to specify the app exit code.
type ErrorWithExitCode struct {
	Err      error
	ExitCode int
}

func (err ErrorWithExitCode) Error() string {
	return err.Err.Error()
}

func (err ErrorWithExitCode) Unwrap() error {
	return err.Err
}

// Recover tries to recover from panics, and if it succeeds, calls the given onPanic function with an error that
// explains the cause of the panic. This function should only be called from a defer statement.
func Recover(onPanic func(cause error)) {
	if rec := recover(); rec != nil {
		err, isError := rec.(error)
		if !isError {
			err = fmt.Errorf("%v", rec)
		}

		onPanic(WithStackTrace(err))
	}
}
