package service

import "errors"

var (
	errInvalidState = errors.New("invalid state")
	errTimeout      = errors.New("timed out")
	errInterrupted  = errors.New("interrupted")
)

// IsInvalidState returns true if the cause of the error is an operation
// performed against an invalid state. This can be for example starting a
// service twice, notifying a start completion on a service that is not
// starting, or querying the failure cause of a service that has not failed.
func IsInvalidState(err error) bool {
	return errors.Is(err, errInvalidState)
}

// IsTimeout returns true if the cause of the error is a bounded wait whose
// deadline elapsed before the service reached the awaited state.
func IsTimeout(err error) bool {
	return errors.Is(err, errTimeout)
}

// IsInterrupted returns true if the cause of the error is an interruption,
// for example a wait whose context was cancelled before the service reached
// the awaited state.
func IsInterrupted(err error) bool {
	return errors.Is(err, errInterrupted)
}
