package errors

import (
	"errors"
	"fmt"
)

// Failure classes for the linking flow. Handlers map ErrForbidden to a 403
// and everything else to a generic 500; the distinction between the other
// classes exists for the logs only.
var (
	// ErrForbidden covers a missing or mismatched anti-forgery state.
	// The two cases are deliberately indistinguishable to the client.
	ErrForbidden = errors.New("forbidden")

	// ErrUpstream is a provider call that failed at the transport level
	// or returned a non-2xx status.
	ErrUpstream = errors.New("upstream provider error")

	// ErrMalformedResponse is a provider response that could not be
	// decoded into the expected shape.
	ErrMalformedResponse = errors.New("malformed provider response")

	// ErrNotFound is a store lookup of a required row that found nothing.
	ErrNotFound = errors.New("not found")

	// ErrSession is a session read or write failure.
	ErrSession = errors.New("session error")
)

// Wrapf wraps an error with context using fmt.Errorf
func Wrapf(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf(format+": %w", append(args, err)...)
}

// Is reports whether any error in err's chain matches target
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target
func As(err error, target any) bool {
	return errors.As(err, target)
}
