package repository

import "errors"

// ErrInvalidInput is returned when a stored row would violate the schema.
var ErrInvalidInput = errors.New("invalid input")
