// Package errors wraps errors with stack traces and offers the small set of helpers the rest of the launcher uses.
package errors

import (
	"context"
	"errors"
	"fmt"

	goerrors "github.com/go-errors/errors"
)

// New creates a new error with a stack trace.
func New(message string) error {
	return goerrors.Wrap(errors.New(message), 1)
}

// Errorf creates a new error and wraps in an Error type that contains the stack trace.
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

// ErrorStack returns the error message together with its call stack, if one was recorded.
func ErrorStack(err error) string {
	if err == nil {
		return ""
	}

	var goErr *goerrors.Error
	if errors.As(err, &goErr) {
		return goErr.ErrorStack()
	}

	return err.Error()
}

// IsContextCanceled returns true if the error was caused by a canceled context, which is not really an error.
func IsContextCanceled(err error) bool {
	return errors.Is(err, context.Canceled)
}

// Recover tries to recover from panics, and if it succeeds, calls the given onPanic function with an error that
// explains the cause of the panic. This function should only be called from a defer statement.
func Recover(onPanic func(cause error)) {
	if rec := recover(); rec != nil {
		err, isError := rec.(error)
		if !isError {
			err = fmt.Errorf("%v", rec)
		}

		onPanic(goerrors.Wrap(err, 2))
	}
}

// As finds the first error in err's tree that matches target.
func As(err error, target any) bool {
	return errors.As(err, target)
}

// Is reports whether any error in err's tree matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// Join returns an error that wraps the given errors.
func Join(errs ...error) error {
	return errors.Join(errs...)
}
