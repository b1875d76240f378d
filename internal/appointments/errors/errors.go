package errors

import "errors"

var (
	ErrNotFound  = errors.New("appointment not found")
	ErrInvalidID = errors.New("invalid id format")

	// ErrLockHeld means another booking for the same slot is in flight.
	ErrLockHeld = errors.New("slot lock already held")
)
