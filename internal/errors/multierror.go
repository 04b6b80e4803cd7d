package errors

import (
	"github.com/hashicorp/go-multierror"
)

// MultiError is an error type to track multiple errors.
type MultiError struct {
	inner *multierror.Error
}

// Append adds the given errors to the MultiError. A nil receiver is allowed, in which case a new instance is
// allocated, so the result must always be assigned back, the same way as the builtin append.
func (errs *MultiError) Append(appendErrs ...error) *MultiError {
	if errs == nil {
		errs = new(MultiError)
	}

	for _, err := range appendErrs {
		if err == nil {
			continue
		}

		errs.inner = multierror.Append(errs.inner, err)
	}

	return errs
}

// Error implements the error interface.
func (errs *MultiError) Error() string {
	if errs == nil || errs.inner == nil {
		return ""
	}

	return errs.inner.Error()
}

// WrappedErrors returns the error slice that this MultiError is wrapping.
func (errs *MultiError) WrappedErrors() []error {
	if errs == nil || errs.inner == nil {
		return nil
	}

	return errs.inner.WrappedErrors()
}

func (errs *MultiError) Unwrap() []error {
	return errs.WrappedErrors()
}

// ErrorOrNil returns an error interface if this MultiError represents a list of errors, or returns nil if the list of
// errors is empty.
func (errs *MultiError) ErrorOrNil() error {
	if errs == nil || errs.inner == nil {
		return nil
	}

	if err := errs.inner.ErrorOrNil(); err != nil {
		return errs
	}

	return nil
}

// Len returns the number of wrapped errors.
func (errs *MultiError) Len() int {
	return len(errs.WrappedErrors())
}
