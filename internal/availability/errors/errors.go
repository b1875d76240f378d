package errors

import "errors"

var (
	ErrNotFound      = errors.New("availability not found")
	ErrSellerMissing = errors.New("seller not found")
	ErrInvalidID     = errors.New("invalid id format")
)
