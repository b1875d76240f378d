package errors

import "errors"

var (
	ErrNotFound = errors.New("seller not found")

	ErrInvalidID = errors.New("invalid seller ID format")
)
