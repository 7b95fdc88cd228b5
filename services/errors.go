package services

import "errors"

var (
	// ErrNotFound is returned when a referenced record does not exist or
	// is not owned by the caller.
	ErrNotFound = errors.New("not found")
	// ErrInvalidInput is returned when a request fails validation before
	// any write occurs.
	ErrInvalidInput = errors.New("invalid input")
)
