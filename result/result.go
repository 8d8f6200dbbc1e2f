// Package result holds the two-variant outcome returned by every repository
// operation, and the failure taxonomy it carries.
package result

import "errors"

var errUnknown = errors.New("unknown failure")

// Result is either a success carrying a value or a failure carrying an error.
// The zero value is a failure.
type Result[T any] struct {
	value T
	err   error
	ok    bool
}

func Success[T any](v T) Result[T] {
	return Result[T]{value: v, ok: true}
}

// Failure wraps err. A nil err is replaced so that a failure is never empty.
func Failure[T any](err error) Result[T] {
	if err == nil {
		err = errUnknown
	}
	return Result[T]{err: err}
}

func (r Result[T]) IsSuccess() bool { return r.ok }

func (r Result[T]) IsFailure() bool { return !r.ok }

// Value returns the success value, or the zero value of T on failure.
func (r Result[T]) Value() T { return r.value }

// Err returns the failure cause, or nil on success.
func (r Result[T]) Err() error {
	if r.ok {
		return nil
	}
	if r.err == nil {
		return errUnknown
	}
	return r.err
}

// Get unpacks r in the usual Go (value, error) shape.
func (r Result[T]) Get() (T, error) {
	return r.value, r.Err()
}

// Message is the failure text suitable for display, "" on success.
func (r Result[T]) Message() string {
	if r.ok {
		return ""
	}
	return r.Err().Error()
}

// Map converts a success value and passes failures through unchanged.
func Map[T, U any](r Result[T], f func(T) U) Result[U] {
	if !r.ok {
		return Failure[U](r.Err())
	}
	return Success(f(r.value))
}
